package carousel

import "math"

// SnapDecision is the outcome of a settle event.
type SnapDecision struct {
	// Index is the padded index the viewport rests on.
	Index int
	// Jump is true when the viewport rests in a clone region and must be
	// moved without animation.
	Jump bool
	// Target is the padded index to jump to. Equal to Index when Jump is false.
	Target int
}

// NearestIndex returns round(offset/stride).
func NearestIndex(offset, stride float64) int {
	if stride <= 0 {
		return 0
	}
	return int(math.Round(offset / stride))
}

// Snap decides whether a settled viewport has to jump back into the real
// item region.
//
// In the leading clone region the target is originalLen+index, in the trailing
// one index-originalLen. When the clone region is wider than one copy of the
// data, the target keeps shifting by originalLen until it lands on the real copy
// of the same item.
func Snap(offset, stride float64, cloneCount, originalLen int) SnapDecision {
	idx := NearestIndex(offset, stride)
	d := SnapDecision{Index: idx, Target: idx}
	if originalLen <= 0 {
		return d
	}
	switch {
	case idx < cloneCount:
		d.Jump = true
		d.Target = originalLen + idx
		for d.Target < cloneCount {
			d.Target += originalLen
		}
	case idx >= originalLen+cloneCount:
		d.Jump = true
		d.Target = idx - originalLen
		for d.Target >= originalLen+cloneCount {
			d.Target -= originalLen
		}
	}
	return d
}
