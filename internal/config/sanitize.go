package config

import (
	"fmt"
	"math"
	"strconv"

	"github.com/rgehrsitz/carbontax/internal/allocation"
	"github.com/rgehrsitz/carbontax/internal/domain"
)

// Adjustment records one change Sanitize made to a parameter
type Adjustment struct {
	Field  string
	From   string
	To     string
	Reason string
}

func (a Adjustment) String() string {
	return fmt.Sprintf("%s adjusted from %s to %s (%s)", a.Field, a.From, a.To, a.Reason)
}

// Sanitize clamps params into their valid ranges against ref and reports each
// change. The input is not modified.
func Sanitize(params domain.Parameters, ref *domain.ReferenceData) (domain.Parameters, []Adjustment) {
	p := params.Clone()
	var adjustments []Adjustment

	if v := clampPrice(p.CarbonPrice); v != p.CarbonPrice || math.IsNaN(p.CarbonPrice) {
		adjustments = append(adjustments, Adjustment{"carbon_price", formatFloat(p.CarbonPrice), formatFloat(v), "price must be non-negative"})
		p.CarbonPrice = v
	}
	if ref != nil {
		if limit := ref.MaxCarbonPrice(); p.CarbonPrice > limit {
			adjustments = append(adjustments, Adjustment{"carbon_price", formatFloat(p.CarbonPrice), formatFloat(limit), "revenue must stay finite"})
			p.CarbonPrice = limit
		}
	}

	shares := []struct {
		field string
		value *float64
	}{
		{"direct_rebate_share", &p.DirectRebateShare},
		{"progressivity_weight", &p.ProgressivityWeight},
		{"rural_bonus_share", &p.RuralBonusShare},
	}
	for _, s := range shares {
		if v := clampPercent(*s.value); v != *s.value || math.IsNaN(*s.value) {
			adjustments = append(adjustments, Adjustment{s.field, formatFloat(*s.value), formatFloat(v), "must be between 0 and 100"})
			*s.value = v
		}
	}

	if ref != nil {
		var allocAdjustments []Adjustment
		p.SubsidyAllocation, allocAdjustments = sanitizeAllocation(p.SubsidyAllocation, ref.SubsidyCatalog)
		adjustments = append(adjustments, allocAdjustments...)

		if p.TerritoryView && !ref.HasTerritories() {
			adjustments = append(adjustments, Adjustment{"territory_view", "true", "false", "reference data has no territories"})
			p.TerritoryView = false
		}
	}

	return p, adjustments
}

// sanitizeAllocation lines the allocation up with the catalog. A length
// mismatch rebuilds an even split; otherwise names are taken from the catalog
// and the percents are normalized when they do not sum to 100.
func sanitizeAllocation(alloc []domain.SubsidyShare, catalog []string) ([]domain.SubsidyShare, []Adjustment) {
	if len(catalog) == 0 {
		return alloc, nil
	}
	if len(alloc) != len(catalog) {
		rebuilt := allocation.FromCatalog(catalog)
		return rebuilt, []Adjustment{{
			Field:  "subsidy_allocation",
			From:   fmt.Sprintf("%d programs", len(alloc)),
			To:     formatAllocation(rebuilt),
			Reason: fmt.Sprintf("catalog has %d programs", len(catalog)),
		}}
	}

	var adjustments []Adjustment
	out := make([]domain.SubsidyShare, len(alloc))
	copy(out, alloc)
	for i, name := range catalog {
		if out[i].Name != name {
			adjustments = append(adjustments, Adjustment{
				Field:  fmt.Sprintf("subsidy_allocation[%d]", i),
				From:   strconv.Quote(out[i].Name),
				To:     strconv.Quote(name),
				Reason: "name does not match catalog",
			})
			out[i].Name = name
		}
	}

	if allocation.Validate(out) != nil {
		normalized, err := allocation.Normalize(out)
		if err == nil {
			adjustments = append(adjustments, Adjustment{
				Field:  "subsidy_allocation",
				From:   formatAllocation(out),
				To:     formatAllocation(normalized),
				Reason: "percents must be non-negative and sum to 100",
			})
			out = normalized
		}
	}
	return out, adjustments
}

func clampPrice(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatAllocation(alloc []domain.SubsidyShare) string {
	return fmt.Sprintf("%v", percents(alloc))
}

func percents(alloc []domain.SubsidyShare) []int {
	out := make([]int, len(alloc))
	for i, s := range alloc {
		out[i] = s.Percent
	}
	return out
}
