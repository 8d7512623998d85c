package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/carbontax/internal/tui/tuistyles"
)

// ParameterSlider displays one policy control as a horizontal slider
type ParameterSlider struct {
	Key         string // parameter the slider drives, e.g. "price" or "subsidy"
	Index       int    // subsidy program index when Key is "subsidy"
	Label       string
	Value       float64
	Min         float64
	Max         float64
	Step        float64
	Unit        string // e.g. "%", " EUR/t"
	Format      string // e.g. "%.0f", "%.1f"
	Width       int    // width of the slider bar
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a new parameter slider
func NewParameterSlider(key, label string, value, min, max, step float64) *ParameterSlider {
	return &ParameterSlider{
		Key:    key,
		Label:  label,
		Value:  value,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: "%.0f",
		Width:  24,
	}
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithFormat sets the value format string
func (p *ParameterSlider) WithFormat(format string) *ParameterSlider {
	p.Format = format
	return p
}

// WithIndex sets the subsidy program index
func (p *ParameterSlider) WithIndex(index int) *ParameterSlider {
	p.Index = index
	return p
}

// WithDescription adds a description shown while the slider is focused
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// Increment returns the value one step up, stopping at Max
func (p *ParameterSlider) Increment() float64 {
	return p.clamp(p.Value + p.Step)
}

// Decrement returns the value one step down, stopping at Min
func (p *ParameterSlider) Decrement() float64 {
	return p.clamp(p.Value - p.Step)
}

// SetValue sets the value directly, clamping to min/max
func (p *ParameterSlider) SetValue(value float64) {
	p.Value = p.clamp(value)
}

func (p *ParameterSlider) clamp(v float64) float64 {
	return math.Max(p.Min, math.Min(p.Max, v))
}

// Percentage returns the value as a fraction of the range
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

// ValueString formats the value with its unit
func (p *ParameterSlider) ValueString() string {
	return fmt.Sprintf(p.Format, p.Value) + p.Unit
}

// Render returns the slider as one line: label, bar and value. A focused
// slider adds its description on a second line.
func (p *ParameterSlider) Render() string {
	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	cursor := "  "
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
		cursor = "▸ "
	}

	line := cursor + labelStyle.Render(p.Label) + " " + p.renderBar() + " " + valueStyle.Render(p.ValueString())

	if p.IsFocused && p.Description != "" {
		descStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		line += "\n    " + descStyle.Render(p.Description)
	}
	return line
}

// renderBar draws the track with the thumb at the current value
func (p *ParameterSlider) renderBar() string {
	if p.Width <= 0 {
		return ""
	}
	pos := int(math.Round(float64(p.Width-1) * p.Percentage()))
	pos = max(0, min(p.Width-1, pos))

	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if pos > 0 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", pos)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if rest := p.Width - 1 - pos; rest > 0 {
		bar.WriteString(tuistyles.SliderTrackStyle.Render(strings.Repeat("─", rest)))
	}
	bar.WriteString("]")
	return bar.String()
}
