// Package snapshot renders a carousel frame to a PNG image.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/agripath/agripath/internal/carousel"
)

// ErrEmptyFrame is returned for a carousel with nothing to draw.
var ErrEmptyFrame = errors.New("nothing to render")

// Tile is the text drawn inside one slot.
type Tile struct {
	Title string
	Lines []string
}

// PlacedTile is a tile at its position in the viewport, in cells.
type PlacedTile struct {
	Tile
	Left   float64
	Scale  float64
	Active bool
}

// Frame is everything visible in one carousel at one instant.
type Frame struct {
	Name   string
	Width  int
	Stride float64
	Tiles  []PlacedTile
	Dots   []int
}

// FrameOf captures the current frame of c. label turns an item into text.
func FrameOf[T any](c *carousel.Carousel[T], label func(T) Tile) Frame {
	f := Frame{
		Name:   c.Name(),
		Width:  c.Width(),
		Stride: c.Config().Stride,
		Dots:   c.DotWidths(),
	}
	for _, s := range c.Slots() {
		f.Tiles = append(f.Tiles, PlacedTile{
			Tile:   label(s.Item),
			Left:   s.Left,
			Scale:  s.Scale,
			Active: s.Active,
		})
	}
	return f
}

// Options controls the raster geometry and palette.
type Options struct {
	CharWidth  float64
	CharHeight float64
	FontSize   float64
	// TileRows is the tile height in text rows.
	TileRows   int
	Margin     float64
	Background color.Color
	Tile       color.Color
	Ink        color.Color
	Accent     color.Color
}

// DefaultOptions matches a 12pt monospace terminal cell.
func DefaultOptions() Options {
	return Options{
		CharWidth:  8,
		CharHeight: 16,
		FontSize:   12,
		TileRows:   6,
		Margin:     16,
		Background: color.White,
		Tile:       color.RGBA{R: 0xf1, G: 0xf8, B: 0xe9, A: 0xff},
		Ink:        color.Black,
		Accent:     color.RGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff},
	}
}

// Size returns the image dimensions for f.
func Size(f Frame, opts Options) (int, int) {
	w := float64(f.Width)*opts.CharWidth + 2*opts.Margin
	h := float64(opts.TileRows+2)*opts.CharHeight + 2*opts.Margin
	return int(math.Ceil(w)), int(math.Ceil(h))
}

// Render draws f.
func Render(f Frame, opts Options) (image.Image, error) {
	dc, err := draw(f, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// Save draws f to a PNG file.
func Save(path string, f Frame, opts Options) error {
	dc, err := draw(f, opts)
	if err != nil {
		return err
	}
	return dc.SavePNG(path)
}

// Encode draws f as PNG to w.
func Encode(w io.Writer, f Frame, opts Options) error {
	dc, err := draw(f, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func draw(f Frame, opts Options) (*gg.Context, error) {
	if f.Width <= 0 || f.Stride <= 0 || len(f.Tiles) == 0 {
		return nil, fmt.Errorf("%w: carousel %q", ErrEmptyFrame, f.Name)
	}
	width, height := Size(f, opts)
	dc := gg.NewContext(width, height)
	dc.SetColor(opts.Background)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()
	dc.SetFontFace(face)

	// Tiles are clipped to the viewport like the terminal strip.
	dc.Push()
	dc.DrawRectangle(opts.Margin, opts.Margin, float64(f.Width)*opts.CharWidth, float64(opts.TileRows)*opts.CharHeight)
	dc.Clip()
	for _, t := range f.Tiles {
		drawTile(dc, t, f.Stride, opts)
	}
	dc.Pop()

	drawDots(dc, f, opts)
	return dc, nil
}

func drawTile(dc *gg.Context, t PlacedTile, stride float64, opts Options) {
	// One cell of the stride is the gap between tiles.
	fullW := math.Max(stride-1, 1) * opts.CharWidth
	fullH := float64(opts.TileRows) * opts.CharHeight
	w, h := fullW*t.Scale, fullH*t.Scale
	x := opts.Margin + t.Left*opts.CharWidth + (fullW-w)/2
	y := opts.Margin + (fullH-h)/2

	dc.SetColor(opts.Tile)
	dc.DrawRoundedRectangle(x, y, w, h, opts.CharWidth/2)
	dc.Fill()
	dc.SetLineWidth(1)
	if t.Active {
		dc.SetLineWidth(2)
		dc.SetColor(opts.Accent)
	} else {
		dc.SetColor(opts.Ink)
	}
	dc.DrawRoundedRectangle(x, y, w, h, opts.CharWidth/2)
	dc.Stroke()

	lineH := opts.CharHeight * t.Scale
	textX := x + opts.CharWidth
	textY := y + lineH
	dc.SetColor(opts.Ink)
	for i, line := range tileLines(t, int(w/opts.CharWidth)-2) {
		if float64(i+1)*lineH > h-lineH/2 {
			break
		}
		dc.DrawString(line, textX, textY+float64(i)*lineH)
	}
}

// tileLines is the title and body of t cut to width cells.
func tileLines(t Tile, width int) []string {
	lines := make([]string, 0, len(t.Lines)+1)
	for _, l := range append([]string{t.Title}, t.Lines...) {
		lines = append(lines, truncate.StringWithTail(l, uint(max(width, 0)), "…"))
	}
	return lines
}

func drawDots(dc *gg.Context, f Frame, opts Options) {
	total := 0
	for _, w := range f.Dots {
		total += w + 1
	}
	if total == 0 {
		return
	}
	total--
	x := opts.Margin + (float64(f.Width)-float64(total))/2*opts.CharWidth
	y := opts.Margin + float64(opts.TileRows+1)*opts.CharHeight
	r := opts.CharHeight / 6
	for _, w := range f.Dots {
		dw := float64(w) * opts.CharWidth
		if w > carousel.DotMinWidth {
			dc.SetColor(opts.Accent)
		} else {
			dc.SetColor(opts.Ink)
		}
		dc.DrawRoundedRectangle(x, y-r, dw, 2*r, r)
		dc.Fill()
		x += dw + opts.CharWidth
	}
}
