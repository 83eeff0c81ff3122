package carousel

// ToOriginal maps padded index p back to an index into the original sequence.
// It returns -1 when originalLen is zero.
func ToOriginal(p, cloneCount, originalLen int) int {
	if originalLen <= 0 {
		return -1
	}
	raw := p - cloneCount
	switch {
	case raw < 0:
		// Wraps to the tail. Positions further left than one full copy keep
		// wrapping.
		return mod(originalLen+raw, originalLen)
	case raw >= originalLen:
		return raw % originalLen
	default:
		return raw
	}
}

// Tracker owns the externally visible active index of one carousel instance.
type Tracker struct {
	active      int
	cloneCount  int
	originalLen int
}

// NewTracker returns a tracker positioned on the first original item.
func NewTracker(cloneCount, originalLen int) *Tracker {
	return &Tracker{cloneCount: cloneCount, originalLen: originalLen}
}

// Active returns the current active index.
func (t *Tracker) Active() int { return t.active }

// Reset rebinds the tracker to a new padded layout and clamps the active index.
func (t *Tracker) Reset(cloneCount, originalLen int) {
	t.cloneCount = cloneCount
	t.originalLen = originalLen
	if t.active >= originalLen {
		t.active = 0
	}
}

// Observe maps padded index p and stores the result. The returned bool is
// true only when the active index changed to a valid value.
func (t *Tracker) Observe(p int) (int, bool) {
	original := ToOriginal(p, t.cloneCount, t.originalLen)
	if original < 0 || original >= t.originalLen || original == t.active {
		return t.active, false
	}
	t.active = original
	return original, true
}

// Set forces the active index, ignoring out of range values.
func (t *Tracker) Set(i int) bool {
	if i < 0 || i >= t.originalLen || i == t.active {
		return false
	}
	t.active = i
	return true
}
