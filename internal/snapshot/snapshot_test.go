package snapshot

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agripath/agripath/internal/carousel"
)

func testCarousel(t *testing.T, items []string) *carousel.Carousel[string] {
	t.Helper()
	cfg := carousel.DefaultConfig()
	cfg.Stride = 12
	c := carousel.New[string]("careers", cfg)
	c.SetItems(items)
	c.Attach(36)
	return c
}

func label(s string) Tile { return Tile{Title: s, Lines: []string{"body of " + s}} }

func TestFrameOf(t *testing.T) {
	t.Parallel()

	c := testCarousel(t, []string{"Agronomist", "Soil Scientist", "Drone Pilot"})
	f := FrameOf(c, label)

	assert.Equal(t, "careers", f.Name)
	assert.Equal(t, 36, f.Width)
	assert.Equal(t, []int{3, 1, 1}, f.Dots)
	require.Len(t, f.Tiles, 3)
	assert.Equal(t, "Drone Pilot", f.Tiles[0].Title)
	assert.Equal(t, "Agronomist", f.Tiles[1].Title)
	assert.True(t, f.Tiles[1].Active)
	assert.InDelta(t, 1.0, f.Tiles[1].Scale, 1e-9)
}

func TestRender_Dimensions(t *testing.T) {
	t.Parallel()

	c := testCarousel(t, []string{"Agronomist", "Soil Scientist"})
	opts := DefaultOptions()
	img, err := Render(FrameOf(c, label), opts)
	require.NoError(t, err)

	w, h := Size(FrameOf(c, label), opts)
	assert.Equal(t, 36*8+32, w)
	assert.Equal(t, 8*16+32, h)
	assert.Equal(t, w, img.Bounds().Dx())
	assert.Equal(t, h, img.Bounds().Dy())

	// The background corner stays white and the active tile is painted.
	r, g, b, _ := img.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r&g&b)
	tr, tg, tb, _ := img.At(w/2, int(opts.Margin)+int(opts.CharHeight)*3).RGBA()
	assert.NotEqual(t, uint32(0xffff), tr&tg&tb)
}

func TestEncodeAndSave(t *testing.T) {
	t.Parallel()

	f := FrameOf(testCarousel(t, []string{"Horticulturist"}), label)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, f, DefaultOptions()))
	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	w, h := Size(f, DefaultOptions())
	assert.Equal(t, w, cfg.Width)
	assert.Equal(t, h, cfg.Height)

	path := filepath.Join(t.TempDir(), "careers.png")
	require.NoError(t, Save(path, f, DefaultOptions()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRender_Empty(t *testing.T) {
	t.Parallel()

	_, err := Render(FrameOf(testCarousel(t, nil), label), DefaultOptions())
	require.ErrorIs(t, err, ErrEmptyFrame)

	c := testCarousel(t, []string{"A"})
	c.Unmount()
	_, err = Render(FrameOf(c, label), DefaultOptions())
	require.ErrorIs(t, err, ErrEmptyFrame)
}

func TestTileLines(t *testing.T) {
	t.Parallel()

	tile := Tile{Title: "Agronomist", Lines: []string{"Plan crop rotations."}}
	assert.Equal(t, []string{"Agronomist", "Plan crop r…"}, tileLines(tile, 12))
	assert.Equal(t, []string{"…", "…"}, tileLines(tile, 1))

	// Wide runes take two cells each.
	assert.Equal(t, []string{"水稻…"}, tileLines(Tile{Title: "水稻种植"}, 5))
}
