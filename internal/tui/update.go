package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/agripath/agripath/internal/carousel"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { // nolint:ireturn,gocognit,gocyclo,cyclop,funlen
	switch x := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = x.Width, x.Height
		m.help.Width = x.Width
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if m.detail != nil {
			return m.handleDetailKey(x)
		}
		return m.handleKey(x)

	case tea.MouseMsg:
		if m.detail != nil {
			var cmd tea.Cmd
			m.detail.viewport, cmd = m.detail.viewport.Update(x)
			return m, cmd
		}
		return m.handleMouse(x)

	case mountSettledMsg:
		gen, ok := m.lanes[x.lane].MountSettled(x.gen)
		if !ok || !m.autoplayOn {
			return m, nil
		}
		return m, m.autoplayTick(x.lane, gen)

	case autoplayTickMsg:
		l := m.lanes[x.lane]
		res := l.Tick(x.gen)
		if res.Stale {
			return m, nil
		}
		cmds := []tea.Cmd{m.autoplayTick(x.lane, x.gen)}
		if res.Advanced {
			cmds = append(cmds, m.startFrames(l))
		}
		return m, tea.Batch(cmds...)

	case frameMsg:
		if !m.framing || x.gen != m.frameGen {
			return m, nil
		}
		return m, m.stepFrame()

	case catalogReloadedMsg:
		if x.Err != nil {
			logrus.Warnf("%s catalog: %v", x.Source, x.Err)
			if x.Source == "feed" {
				m.offline = true
			}
			return m, m.setStatus(fmt.Sprintf("%s catalog not loaded: %v", x.Source, x.Err))
		}
		m.applyCatalog(x.Catalog)
		status := m.setStatus(fmt.Sprintf("catalog reloaded from %s", x.Source))
		if m.detail != nil {
			// Lanes stay unmounted until closeDetail remounts them.
			return m, status
		}
		cmds := []tea.Cmd{status}
		for i, l := range m.lanes {
			if l.Empty() || !l.Config().Autoplay || !m.autoplayOn {
				continue
			}
			if l.Autoplay().State() != carousel.Running {
				cmds = append(cmds, m.mountLane(i))
			}
			cmds = append(cmds, m.startFrames(l))
		}
		return m, tea.Batch(cmds...)

	case careerFetchedMsg:
		if x.Err != nil {
			logrus.Debugf("career refresh: %v", x.Err)
			return m, nil
		}
		if m.detail != nil && x.Career != nil && x.Career.ID == m.detail.career.ID {
			m.detail.setCareer(*x.Career)
		}
		return m, nil

	case clearStatusMsg:
		if x.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes key bindings on the home screen.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.persist()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Left):
		return m, m.nudge(m.focus, -1)

	case key.Matches(msg, m.keys.Right):
		return m, m.nudge(m.focus, 1)

	case key.Matches(msg, m.keys.Focus):
		m.focus = (m.focus + 1) % laneCount
		return m, nil

	case key.Matches(msg, m.keys.Explore):
		return m, m.explore()

	case key.Matches(msg, m.keys.Shortlist):
		return m, m.toggleShortlist()

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyReferral()

	case key.Matches(msg, m.keys.Autoplay):
		return m, m.toggleAutoplay()
	}

	return m, nil
}

// handleDetailKey processes keys while the detail page is open.
func (m Model) handleDetailKey(msg tea.KeyMsg) (Model, tea.Cmd) { // nolint:ireturn
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.persist()
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		return m, m.closeDetail()

	case key.Matches(msg, m.keys.Shortlist):
		return m, m.toggleShortlist()
	}

	var cmd tea.Cmd
	m.detail.viewport, cmd = m.detail.viewport.Update(msg)
	return m, cmd
}

// handleMouse turns wheel events over a strip into drag gestures.
func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) { // nolint:ireturn
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	i := laneAt(msg.Y)
	switch msg.Button { //nolint:exhaustive // only wheel events drag.
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
		m.focus = i
		return m, m.nudge(i, 1)
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
		m.focus = i
		return m, m.nudge(i, -1)
	}
	return m, nil
}
