package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/agripath/agripath/internal/content"
	"github.com/agripath/agripath/internal/storage"
)

// laneAt maps a screen row to the lane drawn there.
func laneAt(y int) int {
	if y < headerLines+bannerRows+dotsLines+sectionGap {
		return bannerLane
	}
	return careerLane
}

// stripWidth is the width both strips are laid out at.
func (m *Model) stripWidth() int {
	return max(0, min(m.width-2*stripMargin, maxStripWidth))
}

// layout attaches the lanes, or sizes the detail page while it is open.
func (m *Model) layout() {
	if m.detail != nil {
		m.detail.resize(m.width, m.height)
		return
	}
	for _, l := range m.lanes {
		l.Attach(m.stripWidth())
	}
}

// applyCatalog rebuilds both padded sequences. Active indexes are kept when
// still in range.
func (m *Model) applyCatalog(c *content.Catalog) {
	if c == nil {
		c = &content.Catalog{}
	}
	m.banners.SetItems(c.Banners)
	m.careers.SetItems(c.Careers)
	if m.shortlist != nil {
		m.shortlist.Catalog = c
	}
}

// nudge drags lane i by a fraction of a stride and releases it, so the
// spring carries it to the neighbouring item.
func (m *Model) nudge(i, dir int) tea.Cmd {
	l := m.lanes[i]
	if l.Empty() || !l.Attached() {
		return nil
	}
	l.BeginDrag()
	l.DragBy(float64(dir) * l.Config().Stride * dragNudge)
	l.Release(0)
	return m.startFrames(l)
}

// startFrames keeps frames coming until l has settled and its viewability
// window has passed.
func (m *Model) startFrames(l lane) tea.Cmd {
	cfg := l.Config()
	until := m.now().Add(cfg.ViewabilitySettleDelay + cfg.MinVisibleTime + 3*m.frameInterval)
	if until.After(m.motionUntil) {
		m.motionUntil = until
	}
	if m.framing {
		return nil
	}
	m.framing = true
	m.frameGen++
	return m.frame()
}

// stepFrame advances every animating lane by one frame. A lane that comes to
// rest runs its settle, which may restart autoplay.
func (m *Model) stepFrame() tea.Cmd {
	var cmds []tea.Cmd
	animating := false
	for i, l := range m.lanes {
		if l.Animating() {
			m.startFrames(l)
			if l.Step() {
				cmds = append(cmds, m.settle(i))
			}
		}
		animating = animating || l.Animating()
		if idx, changed := l.PollViewability(); changed {
			m.recordActive(i, idx)
		}
	}
	if animating || m.now().Before(m.motionUntil) {
		cmds = append(cmds, m.frame())
	} else {
		m.framing = false
	}
	return tea.Batch(cmds...)
}

// settle runs the snap decision of lane i and resumes its autoplay.
func (m *Model) settle(i int) tea.Cmd {
	res := m.lanes[i].Settle()
	if res.Jump {
		logrus.Debugf("%s: jump to padded index %d", m.lanes[i].Name(), res.Target)
	}
	if res.Changed {
		m.recordActive(i, res.Active)
	}
	if !res.Resumed || !m.autoplayOn {
		return nil
	}
	return m.autoplayTick(i, res.Generation)
}

func (m *Model) recordActive(i, idx int) {
	m.profile.SetLastActive(m.lanes[i].Name(), idx)
}

// explore opens the active career. Only an explicit key press gets here.
func (m *Model) explore() tea.Cmd {
	if m.focus != careerLane {
		return nil
	}
	career, ok := m.careers.PressExplore()
	if !ok {
		return nil
	}
	if m.onExplore != nil {
		m.onExplore(career)
	}

	msg := "Exploring " + career.Title
	if m.profile.RecordExploration(career.ID, m.now()) {
		msg = fmt.Sprintf("Exploring %s: +%d wallet points", career.Title, storage.ExplorePoints)
	}
	if err := m.profile.Save(); err != nil {
		logrus.Warnf("save profile: %v", err)
	}

	for _, l := range m.lanes {
		l.Unmount()
	}
	m.framing = false
	d := newDetailPage(career, m.width, m.height, m.detailStyle)
	m.detail = &d
	return tea.Batch(m.setStatus(msg), m.fetchCareer(career.ID))
}

// closeDetail returns to the home screen and remounts both lanes.
func (m *Model) closeDetail() tea.Cmd {
	m.detail = nil
	m.layout()
	cmds := make([]tea.Cmd, 0, laneCount)
	for i := range m.lanes {
		cmds = append(cmds, m.mountLane(i))
	}
	return tea.Batch(cmds...)
}

// activeCareer is the career shown in the detail page or, on the home
// screen, the active card.
func (m *Model) activeCareer() (content.Career, bool) {
	if m.detail != nil {
		return m.detail.career, true
	}
	return m.careers.ActiveItem()
}

func (m *Model) toggleShortlist() tea.Cmd {
	career, ok := m.activeCareer()
	if !ok {
		return nil
	}
	on, err := m.shortlist.Toggle(career.ID)
	switch {
	case err != nil:
		return m.setStatus("shortlist: " + err.Error())
	case on:
		return m.setStatus("Shortlisted " + career.Title)
	default:
		return m.setStatus("Removed " + career.Title + " from shortlist")
	}
}

func (m *Model) copyReferral() tea.Cmd {
	code := m.profile.Data.ReferralCode
	if err := clipboardWriteAll(code); err != nil {
		return m.setStatus("clipboard unavailable, your code is " + code)
	}
	return m.setStatus("Referral code " + code + " copied")
}

func (m *Model) toggleAutoplay() tea.Cmd {
	m.autoplayOn = !m.autoplayOn
	var cmds []tea.Cmd
	for i, l := range m.lanes {
		if !m.autoplayOn || !m.laneAutoplay[i] {
			l.SetAutoplay(false)
			continue
		}
		if gen, ok := l.SetAutoplay(true); ok {
			cmds = append(cmds, m.autoplayTick(i, gen))
		}
	}
	state := "paused"
	if m.autoplayOn {
		state = "resumed"
	}
	cmds = append(cmds, m.setStatus("Autoplay "+state))
	return tea.Batch(cmds...)
}

// persist saves the active indexes for the next launch.
func (m *Model) persist() {
	for _, l := range m.lanes {
		if !l.Empty() {
			m.profile.SetLastActive(l.Name(), l.Active())
		}
	}
	if err := m.profile.Save(); err != nil {
		logrus.Warnf("save profile: %v", err)
	}
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.statusSeq++
	m.status = s
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}
