package tui

import (
	"math"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/agripath/agripath/internal/carousel"
	"github.com/agripath/agripath/internal/content"
)

// cellClass selects the style of one canvas cell.
type cellClass uint8

const (
	plainCell cellClass = iota
	borderCell
	activeCell
	titleCell
	dimCell
	accentCell
)

//nolint:gochecknoglobals // palette shared by every strip.
var cellStyles = map[cellClass]lipgloss.Style{
	plainCell:  lipgloss.NewStyle(),
	borderCell: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	activeCell: lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	titleCell:  lipgloss.NewStyle().Bold(true),
	dimCell:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	accentCell: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
}

// canvas is a fixed grid of single-width runes. Writes outside it are clipped.
type canvas struct {
	w, h  int
	runes [][]rune
	class [][]cellClass
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, runes: make([][]rune, h), class: make([][]cellClass, h)}
	for y := range h {
		c.runes[y] = []rune(strings.Repeat(" ", w))
		c.class[y] = make([]cellClass, w)
	}
	return c
}

func (c *canvas) set(x, y int, r rune, cls cellClass) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.runes[y][x] = r
	c.class[y][x] = cls
}

func (c *canvas) text(x, y int, s string, cls cellClass) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, cls)
	}
}

func (c *canvas) box(x, y, w, h int, cls cellClass) {
	if w < 2 || h < 2 {
		return
	}
	for i := 1; i < w-1; i++ {
		c.set(x+i, y, '─', cls)
		c.set(x+i, y+h-1, '─', cls)
	}
	for j := 1; j < h-1; j++ {
		c.set(x, y+j, '│', cls)
		c.set(x+w-1, y+j, '│', cls)
	}
	c.set(x, y, '╭', cls)
	c.set(x+w-1, y, '╮', cls)
	c.set(x, y+h-1, '╰', cls)
	c.set(x+w-1, y+h-1, '╯', cls)
}

// String renders the grid, styling runs of equal class together.
func (c *canvas) String() string {
	var b strings.Builder
	for y := range c.h {
		start := 0
		for x := 1; x <= c.w; x++ {
			if x < c.w && c.class[y][x] == c.class[y][start] {
				continue
			}
			seg := string(c.runes[y][start:x])
			if cls := c.class[y][start]; cls == plainCell {
				b.WriteString(seg)
			} else {
				b.WriteString(cellStyles[cls].Render(seg))
			}
			start = x
		}
		if y < c.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// tileLine is one line of tile content.
type tileLine struct {
	text string
	cls  cellClass
}

// drawStrip draws the visible slots of a lane into a width x rows grid.
// lines produces the content of a slot for an inner width and height.
func drawStrip[T any](slots []carousel.Slot[T], width, rows int, stride float64, lines func(s carousel.Slot[T], w, h int) []tileLine) string {
	cv := newCanvas(width, rows)
	tileW := max(int(stride)-1, 3)
	for _, s := range slots {
		hInset := int(math.Round((1 - s.Scale) * float64(tileW) / 2))
		vInset := int(math.Round((1 - s.Scale) * float64(rows) / 2))
		x := int(math.Round(s.Left)) + hInset
		y := vInset
		w, h := tileW-2*hInset, rows-2*vInset
		cls := borderCell
		if s.Active {
			cls = activeCell
		}
		cv.box(x, y, w, h, cls)
		for i, ln := range lines(s, w-4, h-2) {
			if i >= h-2 {
				break
			}
			cv.text(x+2, y+1+i, truncate.StringWithTail(ln.text, uint(max(w-4, 0)), "…"), ln.cls)
		}
	}
	return cv.String()
}

// bannerLines is the content of a banner tile.
func bannerLines(s carousel.Slot[content.Banner], w, h int) []tileLine {
	var out []tileLine
	if s.Item.Caption != "" {
		for _, l := range strings.Split(wordwrap.String(s.Item.Caption, w), "\n") {
			out = append(out, tileLine{text: l, cls: titleCell})
		}
	}
	if len(out) > h-1 {
		out = out[:max(h-1, 0)]
	}
	return append(out, tileLine{text: "▣ " + path.Base(s.Item.Image), cls: dimCell})
}

// careerLines is the content of a career card. shortlisted reports whether
// an id is on the user's shortlist.
func careerLines(shortlisted func(string) bool) func(carousel.Slot[content.Career], int, int) []tileLine {
	return func(s carousel.Slot[content.Career], w, h int) []tileLine {
		c := s.Item
		var out []tileLine
		if c.Illustration != "" {
			out = append(out, tileLine{text: c.Illustration, cls: accentCell})
		}
		title := c.Title
		if shortlisted(c.ID) {
			title = "★ " + title
		}
		out = append(out, tileLine{text: title, cls: titleCell}, tileLine{})
		for _, l := range strings.Split(wordwrap.String(c.Body, w), "\n") {
			out = append(out, tileLine{text: l})
		}
		if !s.Active || h < 1 {
			return out
		}
		// The explore affordance sits on the last inner row.
		for len(out) < h-1 {
			out = append(out, tileLine{})
		}
		out = append(out[:h-1], tileLine{text: "[enter] Explore", cls: activeCell})
		return out
	}
}

// renderDots renders the pagination dots, wider around the active item.
func renderDots(widths []int, width int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		if w > carousel.DotMinWidth {
			parts[i] = cellStyles[activeCell].Render(strings.Repeat("━", w))
		} else {
			parts[i] = cellStyles[borderCell].Render(strings.Repeat("•", max(w, 1)))
		}
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(parts, " "))
}

// renderEmpty is the placeholder of a lane with no items.
func renderEmpty(msg string, width, rows int) string {
	style := lipgloss.NewStyle().
		Width(max(width-2, 0)).
		Height(max(rows-2, 0)).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Foreground(lipgloss.Color("245")).
		Align(lipgloss.Center, lipgloss.Center)
	return style.Render(msg)
}
