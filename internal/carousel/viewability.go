package carousel

import (
	"math"
	"time"
)

// VisibleItem is one padded slot inside the viewport.
type VisibleItem struct {
	Index    int
	Fraction float64
	// Distance from the slot center to the viewport center, in cells.
	Distance float64
}

// Viewability debounces the dominant visible item, the sufficiently visible
// slot closest to the viewport center. A candidate is reported
// once it has stayed at least minFraction visible for minTime and the
// viewport has not moved for settleDelay.
type Viewability struct {
	minFraction float64
	minTime     time.Duration
	settleDelay time.Duration

	candidate  int
	since      time.Time
	lastMotion time.Time
	reported   int
}

// NewViewability returns a debouncer with no candidate.
func NewViewability(minFraction float64, minTime, settleDelay time.Duration) *Viewability {
	return &Viewability{
		minFraction: minFraction,
		minTime:     minTime,
		settleDelay: settleDelay,
		candidate:   -1,
		reported:    -1,
	}
}

// Motion records viewport movement at now.
func (v *Viewability) Motion(now time.Time) { v.lastMotion = now }

// Report feeds the items currently inside the viewport.
func (v *Viewability) Report(items []VisibleItem, now time.Time) {
	best, bestDist := -1, 0.0
	for _, it := range items {
		if it.Fraction < v.minFraction {
			continue
		}
		d := math.Abs(it.Distance)
		if best < 0 || d < bestDist {
			best, bestDist = it.Index, d
		}
	}
	if best != v.candidate {
		v.candidate = best
		v.since = now
	}
}

// Poll returns the dominant padded index when it is due to be reported.
func (v *Viewability) Poll(now time.Time) (int, bool) {
	if v.candidate < 0 || v.candidate == v.reported {
		return 0, false
	}
	if now.Sub(v.since) < v.minTime || now.Sub(v.lastMotion) < v.settleDelay {
		return 0, false
	}
	v.reported = v.candidate
	return v.candidate, true
}

// Reset forgets the candidate and the last report.
func (v *Viewability) Reset() {
	v.candidate = -1
	v.reported = -1
}
