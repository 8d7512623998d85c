package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/carbontax/internal/transform"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case ConfigLoadedMsg:
		next, err := m.setConfig(msg.Config)
		if err != nil {
			m.err = err
			return m, nil
		}
		next.status = fmt.Sprintf("Loaded %s", msg.Config.ReferenceData.Name)
		return next, nil

	case ShareMsg:
		if msg.CopyErr != nil {
			m.status = fmt.Sprintf("Share link (clipboard unavailable): %s", msg.URL)
		} else {
			m.status = fmt.Sprintf("Copied share link: %s", msg.URL)
		}
		return m, nil

	case ExportedMsg:
		if msg.Err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.Err)
		} else {
			m.status = fmt.Sprintf("Exported %s", strings.Join(msg.Paths, ", "))
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// an error screen is dismissed by any key once a configuration is loaded
	if m.err != nil {
		if m.config != nil {
			m.err = nil
		}
		return m, nil
	}
	if m.config == nil {
		return m, nil
	}

	var err error
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		m.focus(m.focused - 1)

	case key.Matches(msg, m.keys.Down):
		m.focus(m.focused + 1)

	case key.Matches(msg, m.keys.Left):
		m, err = m.moveSlider(m.sliders[m.focused].Decrement())

	case key.Matches(msg, m.keys.Right):
		m, err = m.moveSlider(m.sliders[m.focused].Increment())

	case key.Matches(msg, m.keys.Territory):
		if !m.config.ReferenceData.HasTerritories() {
			m.status = "Reference data has no territories"
			return m, nil
		}
		m, err = m.applyEdits(&transform.SetTerritoryView{Enabled: !m.params.TerritoryView})

	case key.Matches(msg, m.keys.Measure):
		m, err = m.nextMeasure()

	case key.Matches(msg, m.keys.Relative):
		m.relative = !m.relative

	case key.Matches(msg, m.keys.Reset):
		m.measureAt = -1
		m, err = m.setParams(m.config.Defaults.Clone())
		m.status = "Reset to defaults"

	case key.Matches(msg, m.keys.Share):
		return m, m.shareCmd()

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	}

	if err != nil {
		m.err = err
	}
	return m, nil
}

// focus moves the focus to slider i, wrapping around
func (m *Model) focus(i int) {
	n := len(m.sliders)
	if n == 0 {
		return
	}
	m.sliders[m.focused].SetFocused(false)
	m.focused = (i%n + n) % n
	m.sliders[m.focused].SetFocused(true)
}
