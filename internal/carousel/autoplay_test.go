package carousel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextTarget_WrapsAtSequenceEnd(t *testing.T) {
	t.Parallel()

	// Padded length 9, clone count 3.
	assert.Equal(t, 4, NextTarget(30, 10, 9, 3))
	assert.Equal(t, 8, NextTarget(70, 10, 9, 3))
	assert.Equal(t, 3, NextTarget(80, 10, 9, 3))
	assert.Equal(t, 3, NextTarget(120, 10, 9, 3))
}

func TestAutoplay_SingleLiveTimer(t *testing.T) {
	t.Parallel()

	a := NewAutoplay(3 * time.Second)
	assert.Equal(t, Paused, a.State())

	g1 := a.Start()
	assert.True(t, a.Current(g1))

	g2 := a.Start()
	assert.False(t, a.Current(g1), "restart cancels the previous timer")
	assert.True(t, a.Current(g2))

	a.Pause()
	assert.Equal(t, Paused, a.State())
	assert.False(t, a.Current(g2))

	g3 := a.Start()
	assert.NotEqual(t, g2, g3)
	assert.Equal(t, "running", a.State().String())
}
