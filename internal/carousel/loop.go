package carousel

// Padded is the looped view over a finite item list: clones of the tail, the
// original items, then clones of the head.
type Padded[T any] struct {
	Items []T
	// CloneCount is the effective number of clones on each side.
	CloneCount int
	// OriginalLen is the length of the list the sequence was built from.
	OriginalLen int
}

// BuildPadded wraps items with cloned items at both ends so a scrolling
// viewport can run past either edge without reaching the end of the data.
//
// The effective clone count is max(cloneCount, len(items)). Clone regions are
// read cyclically, so every padded sequence holds exactly
// len(items) + 2*CloneCount entries. An empty input yields an empty sequence.
func BuildPadded[T any](items []T, cloneCount int) Padded[T] {
	n := len(items)
	if n == 0 {
		return Padded[T]{}
	}
	if cloneCount < 1 {
		cloneCount = 1
	}
	clones := max(cloneCount, n)

	out := make([]T, 0, n+2*clones)
	for k := range clones {
		out = append(out, items[mod(n-clones+k, n)])
	}
	out = append(out, items...)
	for k := range clones {
		out = append(out, items[k%n])
	}
	return Padded[T]{Items: out, CloneCount: clones, OriginalLen: n}
}

// Len returns the padded length.
func (p Padded[T]) Len() int { return len(p.Items) }

// Empty reports whether the sequence was built from an empty list.
func (p Padded[T]) Empty() bool { return p.OriginalLen == 0 }

// At returns the item at padded index i.
func (p Padded[T]) At(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(p.Items) {
		return zero, false
	}
	return p.Items[i], true
}

// RealIndex returns the padded index of the authoritative copy of original
// item i.
func (p Padded[T]) RealIndex(i int) int { return p.CloneCount + i }

// InClones reports whether padded index i lies in either clone region.
func (p Padded[T]) InClones(i int) bool {
	return i < p.CloneCount || i >= p.OriginalLen+p.CloneCount
}

// mod is the non-negative remainder of a divided by n.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
