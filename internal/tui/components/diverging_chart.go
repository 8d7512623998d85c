package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/carbontax/internal/output"
	"github.com/rgehrsitz/carbontax/internal/tui/tuistyles"
)

// DivergingChart draws one horizontal bar per row around a zero axis: losses
// to the left in red, gains to the right in green
type DivergingChart struct {
	Title     string
	Labels    []string
	Values    []float64
	HalfWidth int
	Unit      string // appended to each value, e.g. " EUR" or "%"
}

// NewDivergingChart creates a chart with the console report's bar width
func NewDivergingChart(title string) *DivergingChart {
	return &DivergingChart{
		Title:     title,
		HalfWidth: output.BarHalfWidth,
	}
}

// WithRows sets the row labels and values
func (c *DivergingChart) WithRows(labels []string, values []float64) *DivergingChart {
	c.Labels = labels
	c.Values = values
	return c
}

// WithUnit sets the value suffix
func (c *DivergingChart) WithUnit(unit string) *DivergingChart {
	c.Unit = unit
	return c
}

// WithHalfWidth sets the number of cells on each side of the axis
func (c *DivergingChart) WithHalfWidth(halfWidth int) *DivergingChart {
	c.HalfWidth = halfWidth
	return c
}

// MaxAbs returns the largest absolute value, which spans a full half bar
func (c *DivergingChart) MaxAbs() float64 {
	maxAbs := 0.0
	for _, v := range c.Values {
		if !math.IsNaN(v) {
			maxAbs = math.Max(maxAbs, math.Abs(v))
		}
	}
	return maxAbs
}

// Render returns the styled chart
func (c *DivergingChart) Render() string {
	if len(c.Values) == 0 {
		return tuistyles.InfoStyle.Render("No data to display")
	}

	var content strings.Builder
	if c.Title != "" {
		titleStyle := lipgloss.NewStyle().
			Bold(true).
			Foreground(tuistyles.ColorPrimary)
		content.WriteString(titleStyle.Render(c.Title))
		content.WriteString("\n")
	}

	labelWidth := 0
	for _, l := range c.Labels {
		labelWidth = max(labelWidth, lipgloss.Width(l))
	}

	maxAbs := c.MaxAbs()
	loss := lipgloss.NewStyle().Foreground(tuistyles.ColorDanger)
	gain := lipgloss.NewStyle().Foreground(tuistyles.ColorSuccess)
	axis := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)

	for i, v := range c.Values {
		label := ""
		if i < len(c.Labels) {
			label = c.Labels[i]
		}
		left, right := output.BarCells(v, maxAbs, c.HalfWidth)
		content.WriteString(fmt.Sprintf("%*s ", labelWidth, label))
		content.WriteString(strings.Repeat(" ", c.HalfWidth-left))
		content.WriteString(loss.Render(strings.Repeat("█", left)))
		content.WriteString(axis.Render("│"))
		content.WriteString(gain.Render(strings.Repeat("█", right)))
		content.WriteString(strings.Repeat(" ", c.HalfWidth-right))
		content.WriteString(" " + tuistyles.MetricTrendStyle(v >= 0).Render(output.FormatSigned(v)+c.Unit))
		if i < len(c.Values)-1 {
			content.WriteString("\n")
		}
	}
	return content.String()
}
