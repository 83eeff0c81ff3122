package carousel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolate(t *testing.T) {
	t.Parallel()

	in := [3]float64{-10, 0, 10}
	out := [3]float64{1, 3, 1}
	assert.InDelta(t, 1.0, Interpolate(-20, in, out), 1e-9)
	assert.InDelta(t, 2.0, Interpolate(-5, in, out), 1e-9)
	assert.InDelta(t, 3.0, Interpolate(0, in, out), 1e-9)
	assert.InDelta(t, 2.0, Interpolate(5, in, out), 1e-9)
	assert.InDelta(t, 1.0, Interpolate(99, in, out), 1e-9)
}

func TestDotWidth_FollowsLoop(t *testing.T) {
	t.Parallel()

	// Three items, three clones, stride 10: real copy of item 0 sits at 30.
	assert.Equal(t, DotMaxWidth, DotWidth(30, 10, 0, 3, 3))
	assert.Equal(t, DotMinWidth, DotWidth(30, 10, 1, 3, 3))
	// The trailing clone of item 0 at 60 lights the same dot.
	assert.Equal(t, DotMaxWidth, DotWidth(60, 10, 0, 3, 3))
	assert.Equal(t, DotMaxWidth, DotWidth(0, 10, 0, 3, 3))
	// Halfway between item 2 and the clone of item 0.
	assert.Equal(t, 2, DotWidth(55, 10, 2, 3, 3))
}

func TestCardScale(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, CardScale(40, 10, 4), 1e-9)
	assert.InDelta(t, 0.85, CardScale(40, 10, 5), 1e-9)
	assert.InDelta(t, 0.925, CardScale(45, 10, 4), 1e-9)
}
