package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/tui/tuistyles"
)

// MetricCard displays a single metric with label, value, and optional trend
type MetricCard struct {
	Label string
	Value string
	Trend *Trend
	Width int
}

// Trend marks a metric as good or bad news
type Trend struct {
	IsPositive bool
	Change     string
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 24,
	}
}

// WithTrend adds a trend indicator to the metric card
func (m *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	m.Trend = &Trend{
		IsPositive: isPositive,
		Change:     change,
	}
	return m
}

// Render returns the card as a bordered box
func (m *MetricCard) Render() string {
	content := tuistyles.MetricLabelStyle.Render(m.Label) + "\n" +
		tuistyles.MetricValueStyle.Render(m.Value)
	if m.Trend != nil {
		content += "\n" + tuistyles.MetricTrendStyle(m.Trend.IsPositive).
			Render(fmt.Sprintf("%s %s", tuistyles.TrendIndicator(m.Trend.IsPositive), m.Trend.Change))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(0, 1).
		Width(m.Width).
		Render(content)
}

// IncidenceMetrics builds the summary cards shown under the chart. Pools are
// reported per household.
func IncidenceMetrics(res *domain.IncidenceResult, currency string) []*MetricCard {
	if res == nil {
		return nil
	}
	cards := []*MetricCard{
		NewMetricCard("Revenue / household", tuistyles.FormatCurrency(res.PerHousehold(res.Totals.Revenue), currency)),
		NewMetricCard("Rebates / household", tuistyles.FormatCurrency(res.PerHousehold(res.Totals.RebatePool), currency)),
		NewMetricCard("Subsidies / household", tuistyles.FormatCurrency(res.PerHousehold(res.Totals.SubsidyPool), currency)),
	}

	winners := res.NetWinners()
	cards = append(cards, NewMetricCard("Net winners", fmt.Sprintf("%d of %d", winners, res.Len())).
		WithTrend(2*winners >= res.Len(), "groups better off"))

	if t := res.Transfer; t != nil && t.Requested > 0 {
		card := NewMetricCard("Rural transfer", tuistyles.FormatCurrency(t.Transferred, currency))
		if t.Capped {
			card.WithTrend(false, "capped")
		}
		cards = append(cards, card)
	}
	return cards
}

// MetricGrid renders metric cards in rows of the given number of columns
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}
	if columns < 1 {
		columns = 1
	}

	rows := []string{}
	currentRow := []string{}
	for i, card := range cards {
		currentRow = append(currentRow, card.Render())
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = []string{}
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
