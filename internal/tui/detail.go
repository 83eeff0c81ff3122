package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agripath/agripath/internal/content"
)

// detailPage shows the markdown detail of one career.
type detailPage struct {
	career   content.Career
	viewport viewport.Model
	style    string
	width    int
}

func newDetailPage(c content.Career, width, height int, style string) detailPage {
	d := detailPage{career: c, style: style, viewport: viewport.New(0, 0)}
	d.resize(width, height)
	return d
}

func (d *detailPage) resize(width, height int) {
	w := max(min(width, maxStripWidth)-stripMargin, 20)
	d.viewport.Width = w
	d.viewport.Height = max(height-detailChrome, 3)
	if w != d.width {
		d.width = w
		d.render()
	}
}

func (d *detailPage) setCareer(c content.Career) {
	d.career = c
	d.render()
}

func (d *detailPage) render() {
	md := careerMarkdown(d.career)
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath(d.style),
		glamour.WithWordWrap(d.width),
	)
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			d.viewport.SetContent(out)
			return
		}
	}
	logrus.Debugf("render detail: %v", err)
	d.viewport.SetContent(wordwrap.String(md, d.width))
}

// careerMarkdown is the detail document of a career.
func careerMarkdown(c content.Career) string {
	var b strings.Builder
	detail := strings.TrimSpace(c.Detail)
	if detail == "" {
		fmt.Fprintf(&b, "# %s\n\n%s\n", c.Title, c.Body)
	} else {
		b.WriteString(detail)
		b.WriteString("\n")
	}
	if c.Course != nil {
		fmt.Fprintf(&b, "\n## Course\n\n**%s**: %s", c.Course.Name, formatRupees(c.Course.PricePaise))
		if c.Course.DurationWeeks > 0 {
			fmt.Fprintf(&b, ", %d weeks", c.Course.DurationWeeks)
		}
		b.WriteString("\n")
	}
	if len(c.Tags) > 0 {
		fmt.Fprintf(&b, "\n_%s_\n", strings.Join(c.Tags, " · "))
	}
	return b.String()
}

// formatRupees renders an amount in paise as rupees with digit grouping.
func formatRupees(paise int64) string {
	p := message.NewPrinter(language.English)
	sign := ""
	if paise < 0 {
		sign, paise = "-", -paise
	}
	return fmt.Sprintf("%s₹%s.%02d", sign, p.Sprintf("%d", paise/100), paise%100)
}
