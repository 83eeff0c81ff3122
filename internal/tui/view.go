package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return "See you in the fields!\n"
	}
	if m.detail != nil {
		return m.renderDetail()
	}

	width := m.stripWidth()
	var b strings.Builder
	b.WriteString(m.renderHeader(width))
	b.WriteString("\n\n")

	b.WriteString(m.renderBanners(width))
	b.WriteString("\n")
	b.WriteString(renderDots(m.banners.DotWidths(), width))
	b.WriteString(strings.Repeat("\n", sectionGap+1))

	b.WriteString(m.renderCareers(width))
	b.WriteString("\n")
	b.WriteString(renderDots(m.careers.DotWidths(), width))
	b.WriteString("\n\n")

	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return lipgloss.NewStyle().MarginLeft(stripMargin).Render(b.String())
}

func (m Model) renderBanners(width int) string {
	if width <= 0 {
		return strings.Repeat("\n", bannerRows-1)
	}
	if m.banners.Empty() {
		return renderEmpty("No announcements right now.", width, bannerRows)
	}
	return drawStrip(m.banners.Slots(), width, bannerRows, m.banners.Config().Stride, bannerLines)
}

func (m Model) renderCareers(width int) string {
	if width <= 0 {
		return strings.Repeat("\n", cardRows-1)
	}
	if m.careers.Empty() {
		return renderEmpty("No careers to show yet. Check back after the next catalog update.", width, cardRows)
	}
	return drawStrip(m.careers.Slots(), width, cardRows, m.careers.Config().Stride, careerLines(m.shortlist.Contains))
}

func (m Model) renderHeader(width int) string {
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true).Render("AgriPath")
	subtitle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(" careers in agriculture")
	focus := lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Render(" · " + m.lanes[m.focus].Name())
	left := title + subtitle + focus

	right := fmt.Sprintf("%s %s  %d pts", autoplayBadge(m.autoplayOn), modeBadge(m.offline), m.profile.Data.WalletPoints)
	pad := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", pad) + right
}

func modeBadge(offline bool) string {
	style := lipgloss.NewStyle().Bold(true)
	if offline {
		return style.Foreground(lipgloss.Color("208")).Render("OFFLINE")
	}
	return style.Foreground(lipgloss.Color("46")).Render("ONLINE")
}

func autoplayBadge(on bool) string {
	if on {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render("▶")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("⏸")
}

func (m Model) renderStatus() string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(m.status)
}

func (m Model) renderDetail() string {
	var b strings.Builder
	title := lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true).Render(m.detail.career.Title)
	mark := ""
	if m.shortlist.Contains(m.detail.career.ID) {
		mark = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Render(" ★ shortlisted")
	}
	b.WriteString(title + mark)
	b.WriteString("\n")
	b.WriteString(m.detail.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	pct := int(m.detail.viewport.ScrollPercent() * 100)
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(
		fmt.Sprintf("esc: back • s: shortlist • ↑/↓: scroll • %d%%", pct)))
	return lipgloss.NewStyle().MarginLeft(stripMargin).Render(b.String())
}
