package carousel

import "time"

// AutoplayState is the autoplay timer state.
type AutoplayState int

const (
	Paused AutoplayState = iota
	Running
)

func (s AutoplayState) String() string {
	if s == Running {
		return "running"
	}
	return "paused"
}

// Autoplay is the per-instance autoplay timer. It does not own a goroutine:
// the host schedules one tick per generation and drops ticks whose generation
// is no longer current, so at most one timer is ever live.
type Autoplay struct {
	interval time.Duration
	state    AutoplayState
	gen      uint64
}

// NewAutoplay returns a paused timer.
func NewAutoplay(interval time.Duration) *Autoplay {
	return &Autoplay{interval: interval}
}

// Interval returns the advance interval.
func (a *Autoplay) Interval() time.Duration { return a.interval }

// State returns the current state.
func (a *Autoplay) State() AutoplayState { return a.state }

// Generation returns the generation of the live timer.
func (a *Autoplay) Generation() uint64 { return a.gen }

// Start cancels any scheduled timer and starts a new one. The returned
// generation tags the ticks of the new timer.
func (a *Autoplay) Start() uint64 {
	a.gen++
	a.state = Running
	return a.gen
}

// Pause cancels the scheduled timer.
func (a *Autoplay) Pause() {
	if a.state == Running {
		a.gen++
	}
	a.state = Paused
}

// Current reports whether a tick tagged gen belongs to the live timer.
func (a *Autoplay) Current(gen uint64) bool {
	return a.state == Running && gen == a.gen
}

// NextTarget returns the padded index the timer advances to from position.
// Reaching the end of the padded sequence wraps to the first real item.
func NextTarget(position, stride float64, paddedLen, cloneCount int) int {
	next := NearestIndex(position, stride) + 1
	if next >= paddedLen {
		return cloneCount
	}
	return next
}
