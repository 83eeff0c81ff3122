// Package carousel implements the index arithmetic and timers behind an
// infinite-loop carousel: padding the data with clones, mapping padded
// positions back to items, snapping out of clone regions and autoplay.
package carousel

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

const (
	springFrequency = 7.0
	springDamping   = 1.0
	// settleEpsilon is the distance and speed, in cells, below which the
	// spring is considered at rest.
	settleEpsilon = 0.05
)

// TickResult describes what an autoplay tick did.
type TickResult struct {
	// Stale ticks belong to a cancelled timer and must not be rescheduled.
	Stale bool
	// Advanced is true when the viewport started animating to the next item.
	Advanced bool
	Target   int
}

// SettleResult describes the outcome of a settle event.
type SettleResult struct {
	SnapDecision
	// Active is the active index after the settle.
	Active int
	// Changed is true when the settle moved the active index.
	Changed bool
	// Resumed is true when the settle (re)started autoplay. Generation tags
	// the ticks of the new timer.
	Resumed    bool
	Generation uint64
}

// Carousel is one infinite-loop carousel instance: the padded sequence, the
// viewport position and the timers that drive it. It is not safe for
// concurrent use; all calls are expected from a single event loop.
type Carousel[T any] struct {
	name string
	cfg  Config

	items  []T
	padded Padded[T]

	position float64
	velocity float64
	target   float64
	spring   harmonica.Spring

	animating      bool
	autoplayDriven bool
	dragging       bool

	// width of the attached surface in cells, zero while detached.
	width    int
	mountGen uint64

	tracker     *Tracker
	viewability *Viewability
	autoplay    *Autoplay

	now func() time.Time
}

// Option customizes a Carousel.
type Option func(*carouselOptions)

type carouselOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *carouselOptions) { o.now = now }
}

// New returns an empty, detached carousel.
func New[T any](name string, cfg Config, opts ...Option) *Carousel[T] {
	o := carouselOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Carousel[T]{
		name:        name,
		cfg:         cfg,
		spring:      harmonica.NewSpring(harmonica.FPS(max(cfg.FPS, 1)), springFrequency, springDamping),
		tracker:     NewTracker(0, 0),
		viewability: NewViewability(cfg.MinVisibleFraction, cfg.MinVisibleTime, cfg.ViewabilitySettleDelay),
		autoplay:    NewAutoplay(cfg.AutoplayInterval),
		now:         o.now,
	}
}

// Name returns the carousel name.
func (c *Carousel[T]) Name() string { return c.name }

// Config returns the tuning constants.
func (c *Carousel[T]) Config() Config { return c.cfg }

// SetItems replaces the data and rebuilds the padded sequence. The active
// index is kept when it is still in range.
func (c *Carousel[T]) SetItems(items []T) {
	c.items = items
	c.padded = BuildPadded(items, c.cfg.CloneCount)
	c.tracker.Reset(c.padded.CloneCount, c.padded.OriginalLen)
	c.viewability.Reset()
	c.animating, c.autoplayDriven = false, false
	c.velocity = 0
	if c.padded.Empty() {
		c.position, c.target = 0, 0
		c.autoplay.Pause()
		return
	}
	c.jumpTo(c.padded.RealIndex(c.tracker.Active()))
}

// Items returns the original items.
func (c *Carousel[T]) Items() []T { return c.items }

// Padded returns the padded sequence.
func (c *Carousel[T]) Padded() Padded[T] { return c.padded }

// Empty reports whether there is nothing to show.
func (c *Carousel[T]) Empty() bool { return c.padded.Empty() }

// Position returns the viewport offset in cells.
func (c *Carousel[T]) Position() float64 { return c.position }

// Active returns the active index into the original items.
func (c *Carousel[T]) Active() int { return c.tracker.Active() }

// ActiveItem returns the item at the active index.
func (c *Carousel[T]) ActiveItem() (T, bool) {
	var zero T
	if c.padded.Empty() {
		return zero, false
	}
	return c.items[c.tracker.Active()], true
}

// Restore moves the viewport to original item i without animation.
func (c *Carousel[T]) Restore(i int) {
	if c.padded.Empty() || i < 0 || i >= c.padded.OriginalLen {
		return
	}
	c.tracker.Set(i)
	c.jumpTo(c.padded.RealIndex(i))
}

// Autoplay exposes the timer state.
func (c *Carousel[T]) Autoplay() *Autoplay { return c.autoplay }

// Animating reports whether the spring is moving the viewport.
func (c *Carousel[T]) Animating() bool { return c.animating }

// Dragging reports whether a gesture is in progress.
func (c *Carousel[T]) Dragging() bool { return c.dragging }

// Attach binds the carousel to a laid out surface of the given width.
func (c *Carousel[T]) Attach(width int) {
	if width < 0 {
		width = 0
	}
	c.width = width
}

// Attached reports whether a surface is laid out.
func (c *Carousel[T]) Attached() bool { return c.width > 0 }

// Width returns the surface width in cells.
func (c *Carousel[T]) Width() int { return c.width }

// Mount prepares the initial settle callback. The returned generation tags it.
func (c *Carousel[T]) Mount() uint64 {
	c.mountGen++
	return c.mountGen
}

// MountSettled runs the initial settle callback tagged gen and starts
// autoplay. It returns false when the callback was cancelled, autoplay is
// disabled or there is no data.
func (c *Carousel[T]) MountSettled(gen uint64) (uint64, bool) {
	if gen != c.mountGen || !c.cfg.Autoplay || c.padded.Empty() {
		return 0, false
	}
	return c.autoplay.Start(), true
}

// Unmount cancels every pending callback and detaches the surface.
func (c *Carousel[T]) Unmount() {
	c.mountGen++
	c.autoplay.Pause()
	c.animating, c.autoplayDriven, c.dragging = false, false, false
	c.width = 0
}

// SetAutoplay enables or disables autoplay. Enabling returns the generation
// of the started timer.
func (c *Carousel[T]) SetAutoplay(on bool) (uint64, bool) {
	c.cfg.Autoplay = on
	if !on {
		c.autoplay.Pause()
		return 0, false
	}
	if c.padded.Empty() || c.dragging {
		return 0, false
	}
	return c.autoplay.Start(), true
}

// BeginDrag starts a user gesture. Autoplay pauses immediately.
func (c *Carousel[T]) BeginDrag() {
	c.dragging = true
	c.animating, c.autoplayDriven = false, false
	c.velocity = 0
	c.autoplay.Pause()
}

// DragBy moves the viewport by delta cells while dragging.
func (c *Carousel[T]) DragBy(delta float64) {
	if !c.dragging || c.padded.Empty() {
		return
	}
	c.position += delta
	c.clampPosition()
	c.viewability.Motion(c.now())
}

// Release ends the gesture and lets the viewport glide to the item steps
// slots away from the nearest one.
func (c *Carousel[T]) Release(steps int) {
	c.dragging = false
	if c.padded.Empty() {
		return
	}
	idx := NearestIndex(c.position, c.cfg.Stride) + steps
	idx = max(0, min(idx, c.padded.Len()-1))
	c.animateTo(idx, false)
}

// Step advances the spring by one frame. It returns true on the frame the
// viewport comes to rest, which is the settle event.
func (c *Carousel[T]) Step() bool {
	if !c.animating {
		return false
	}
	c.position, c.velocity = c.spring.Update(c.position, c.velocity, c.target)
	c.viewability.Motion(c.now())
	if math.Abs(c.position-c.target) < settleEpsilon && math.Abs(c.velocity) < settleEpsilon {
		c.position, c.velocity = c.target, 0
		c.animating = false
		return true
	}
	return false
}

// Settle runs the snap/jump decision for a viewport at rest and then resumes
// autoplay. The jump is applied before the timer restarts.
func (c *Carousel[T]) Settle() SettleResult {
	driven := c.autoplayDriven
	c.autoplayDriven = false
	if c.padded.Empty() {
		res := SettleResult{Active: c.tracker.Active()}
		if c.cfg.Autoplay && !c.dragging {
			// The resumed timer no-ops on empty data.
			res.Generation, res.Resumed = c.autoplay.Start(), true
		}
		return res
	}
	d := Snap(c.position, c.cfg.Stride, c.padded.CloneCount, c.padded.OriginalLen)
	if d.Jump {
		c.jumpTo(d.Target)
	}
	active, changed := c.tracker.Observe(d.Target)
	res := SettleResult{SnapDecision: d, Active: active, Changed: changed}

	// An autoplay advance settles while its own timer keeps running.
	if c.cfg.Autoplay && !c.dragging && !(driven && c.autoplay.State() == Running) {
		res.Generation = c.autoplay.Start()
		res.Resumed = true
	}
	return res
}

// Tick handles an autoplay tick tagged gen.
func (c *Carousel[T]) Tick(gen uint64) TickResult {
	if !c.autoplay.Current(gen) {
		return TickResult{Stale: true}
	}
	if !c.Attached() || c.padded.Empty() || c.dragging || c.animating {
		return TickResult{}
	}
	next := NextTarget(c.position, c.cfg.Stride, c.padded.Len(), c.padded.CloneCount)
	c.animateTo(next, true)
	return TickResult{Advanced: true, Target: next}
}

// PollViewability feeds the visible slots to the viewability debouncer and
// returns the new active index when it changed.
func (c *Carousel[T]) PollViewability() (int, bool) {
	if c.padded.Empty() || !c.Attached() {
		return c.tracker.Active(), false
	}
	now := c.now()
	c.viewability.Report(c.VisibleItems(), now)
	p, ok := c.viewability.Poll(now)
	if !ok {
		return c.tracker.Active(), false
	}
	return c.tracker.Observe(p)
}

// VisibleItems returns the padded slots overlapping the viewport, which is
// centered on the item at the current position.
func (c *Carousel[T]) VisibleItems() []VisibleItem {
	if c.padded.Empty() || c.width <= 0 {
		return nil
	}
	s := c.cfg.Stride
	center := c.position + s/2
	lo, hi := center-float64(c.width)/2, center+float64(c.width)/2
	first := max(0, int(math.Floor(lo/s)))
	last := min(c.padded.Len()-1, int(math.Floor(hi/s)))
	out := make([]VisibleItem, 0, last-first+1)
	for i := first; i <= last; i++ {
		start, end := float64(i)*s, float64(i+1)*s
		overlap := math.Min(end, hi) - math.Max(start, lo)
		if overlap <= 0 {
			continue
		}
		out = append(out, VisibleItem{Index: i, Fraction: overlap / s, Distance: start + s/2 - center})
	}
	return out
}

// Slot is a padded item laid out in the viewport.
type Slot[T any] struct {
	Item T
	// Index is the padded index, Original the index into the items.
	Index    int
	Original int
	// Left is the slot's left edge in cells from the viewport's left edge.
	// It is negative for a slot cut by the left border.
	Left     float64
	Fraction float64
	Scale    float64
	Active   bool
}

// Slots lays out the visible slots for rendering.
func (c *Carousel[T]) Slots() []Slot[T] {
	vis := c.VisibleItems()
	if len(vis) == 0 {
		return nil
	}
	s := c.cfg.Stride
	lo := c.position + s/2 - float64(c.width)/2
	active := c.tracker.Active()
	out := make([]Slot[T], 0, len(vis))
	for _, v := range vis {
		item, _ := c.padded.At(v.Index)
		orig := ToOriginal(v.Index, c.padded.CloneCount, c.padded.OriginalLen)
		out = append(out, Slot[T]{
			Item:     item,
			Index:    v.Index,
			Original: orig,
			Left:     float64(v.Index)*s - lo,
			Fraction: v.Fraction,
			Scale:    CardScale(c.position, s, v.Index),
			Active:   orig == active,
		})
	}
	return out
}

// DotWidths returns the pagination dot widths for the current position.
func (c *Carousel[T]) DotWidths() []int {
	out := make([]int, c.padded.OriginalLen)
	for i := range out {
		out[i] = DotWidth(c.position, c.cfg.Stride, i, c.padded.CloneCount, c.padded.OriginalLen)
	}
	return out
}

// PressExplore returns the active item. It is meant for explicit user
// activation only; scrolling and autoplay never call it.
func (c *Carousel[T]) PressExplore() (T, bool) {
	return c.ActiveItem()
}

func (c *Carousel[T]) animateTo(idx int, autoplay bool) {
	c.target = float64(idx) * c.cfg.Stride
	c.animating = true
	c.autoplayDriven = autoplay
}

// jumpTo moves the viewport without animation.
func (c *Carousel[T]) jumpTo(idx int) {
	c.position = float64(idx) * c.cfg.Stride
	c.target = c.position
	c.velocity = 0
	c.animating = false
}

func (c *Carousel[T]) clampPosition() {
	hi := float64(c.padded.Len()-1) * c.cfg.Stride
	c.position = math.Max(0, math.Min(c.position, hi))
}
