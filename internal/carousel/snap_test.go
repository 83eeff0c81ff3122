package carousel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnap_Boundaries(t *testing.T) {
	t.Parallel()

	const (
		stride = 10.0
		clones = 4
		n      = 4
	)
	tests := []struct {
		name   string
		index  int
		jump   bool
		target int
	}{
		{name: "first real item", index: clones, jump: false, target: clones},
		{name: "last leading clone", index: clones - 1, jump: true, target: n - 1 + clones},
		{name: "first leading clone", index: 0, jump: true, target: n},
		{name: "last real item", index: n + clones - 1, jump: false, target: n + clones - 1},
		{name: "first trailing clone", index: n + clones, jump: true, target: clones},
		{name: "last trailing clone", index: n + 2*clones - 1, jump: true, target: n + clones - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d := Snap(float64(tt.index)*stride, stride, clones, n)
			assert.Equal(t, tt.index, d.Index)
			assert.Equal(t, tt.jump, d.Jump)
			assert.Equal(t, tt.target, d.Target)
		})
	}
}

func TestSnap_RoundsOffset(t *testing.T) {
	t.Parallel()

	d := Snap(34.6, 10, 3, 3)
	assert.Equal(t, 3, d.Index)
	assert.False(t, d.Jump)

	d = Snap(25.2, 10, 3, 3)
	assert.Equal(t, 3, d.Index)
	d = Snap(24.9, 10, 3, 3)
	assert.Equal(t, 2, d.Index)
	assert.True(t, d.Jump)
	assert.Equal(t, 5, d.Target)
}

func TestSnap_WideClonesLandOnRealCopy(t *testing.T) {
	t.Parallel()

	// One item with five clones: only padded index 5 is real.
	for i := range 11 {
		d := Snap(float64(i), 1, 5, 1)
		if i == 5 {
			assert.False(t, d.Jump)
			continue
		}
		assert.True(t, d.Jump, "index %d", i)
		assert.Equal(t, 5, d.Target, "index %d", i)
	}
}

func TestSnap_EmptyNeverJumps(t *testing.T) {
	t.Parallel()

	d := Snap(0, 10, 3, 0)
	assert.False(t, d.Jump)
}
