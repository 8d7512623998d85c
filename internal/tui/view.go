package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/carbontax/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(m.renderError())
	}
	if m.config == nil || m.result == nil {
		return m.renderApp(BorderStyle.Render("⠋ Loading configuration..."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderControls(),
		"",
		m.renderChart(),
		"",
		components.MetricGrid(components.IncidenceMetrics(m.result, m.config.ReferenceData.Currency), m.metricColumns()),
	)
	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	return AppStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		content,
		m.renderStatusBar(),
	))
}

// renderTitleBar renders the application title and the active view
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("CARBON TAX INCIDENCE")
	if m.config == nil {
		return title
	}

	view := "deciles"
	if m.params.TerritoryView {
		view = "deciles × territories"
	}
	mode := "absolute"
	if m.relative {
		mode = "relative"
	}
	parts := []string{m.config.ReferenceData.Name, view, mode}
	if m.params.Measure != "" {
		parts = append(parts, "measure: "+m.params.Measure)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(strings.Join(parts, " / ")))
}

// renderControls renders every slider, the focused one highlighted
func (m Model) renderControls() string {
	rows := make([]string, len(m.sliders))
	for i, s := range m.sliders {
		rows[i] = s.Render()
	}
	return ActiveBorderStyle.Render(strings.Join(rows, "\n"))
}

// renderChart renders net transfers per row as a diverging bar chart
func (m Model) renderChart() string {
	ref := &m.config.ReferenceData
	title := fmt.Sprintf("Net transfer per household (%s/year)", ref.Currency)
	values := m.result.NetTransfer
	unit := ""
	if m.relative {
		title = "Net transfer as % of carbon tax paid"
		values = m.result.RelativeNetTransfer()
		unit = "%"
	}

	halfWidth := 20
	if m.params.TerritoryView {
		halfWidth = 14
	}
	chart := components.NewDivergingChart(title).
		WithRows(m.result.Labels, values).
		WithUnit(unit).
		WithHalfWidth(halfWidth)
	return BorderStyle.Render(chart.Render())
}

func (m Model) metricColumns() int {
	return max(1, min(5, m.width/26))
}

// renderStatusBar renders the last status message and the key help
func (m Model) renderStatusBar() string {
	lines := []string{}
	if m.status != "" {
		lines = append(lines, InfoStyle.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))
	return StatusBarStyle.Render(strings.Join(lines, "\n"))
}

// renderError renders an error message
func (m Model) renderError() string {
	hint := "Press q to quit."
	if m.config != nil {
		hint = "Press any key to continue, q to quit."
	}
	return ErrorStyle.Render(fmt.Sprintf("Error: %v\n\n%s", m.err, hint))
}
