package calculation

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/carbontax/internal/allocation"
	"github.com/rgehrsitz/carbontax/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ProgressivityScale maps the 0-100 progressivity control onto rebate
// exponents 0-4. The value is part of the model's calibration; changing it
// changes every published result.
const ProgressivityScale = 25.0

// ComputeTaxPaid returns emissions[g] * carbonPrice for every group.
// A negative or NaN price is treated as zero.
func ComputeTaxPaid(emissions []float64, carbonPrice float64) []float64 {
	out := append([]float64(nil), emissions...)
	floats.Scale(nonNegative(carbonPrice), out)
	return out
}

// ComputeWeights returns the rebate weight of each group, poorest first:
// (groupCount + 1 - g) ^ (progressivityWeight / ProgressivityScale).
// A weight of zero gives every group the same weight.
func ComputeWeights(progressivityWeight float64, groupCount int) []float64 {
	if groupCount <= 0 {
		return nil
	}
	exponent := clampShare(progressivityWeight) / ProgressivityScale
	weights := make([]float64, groupCount)
	for i := range weights {
		g := i + 1
		weights[i] = math.Pow(float64(groupCount+1-g), exponent)
	}
	return weights
}

// ApplyRuralBonus scales each weight by (1 + coefficient[g] * share/100).
// Groups without a coefficient keep their weight. The multiplier is floored at
// zero so a negative coefficient cannot produce a negative weight.
func ApplyRuralBonus(weights, coefficients []float64, ruralBonusShare float64) []float64 {
	out := append([]float64(nil), weights...)
	share := clampShare(ruralBonusShare) / 100
	for g := range out {
		if g >= len(coefficients) {
			break
		}
		out[g] *= math.Max(0, 1+coefficients[g]*share)
	}
	return out
}

// NormalizeAndDistribute splits total across groups in proportion to weights.
// Negative or NaN weights count as zero; if nothing is left the split is uniform.
func NormalizeAndDistribute(weights []float64, total float64) []float64 {
	out := make([]float64, len(weights))
	if len(weights) == 0 {
		return out
	}
	sum := 0.0
	for i, w := range weights {
		out[i] = nonNegative(w)
		sum += out[i]
	}
	if sum <= 0 || math.IsInf(sum, 0) {
		for i := range out {
			out[i] = total / float64(len(out))
		}
		return out
	}
	floats.Scale(total/sum, out)
	return out
}

// AggregateByDecile collapses a territory-by-decile matrix into one value per
// decile, weighting each territory by its population share in that decile.
func AggregateByDecile(values, popShare *mat.Dense) []float64 {
	var weighted mat.Dense
	weighted.MulElem(values, popShare)
	_, n := weighted.Dims()
	out := make([]float64, n)
	for g := range out {
		out[g] = floats.Sum(mat.Col(nil, g, &weighted))
	}
	return out
}

// ComputeIncidence runs the redistribution model. Parameters are clamped to
// their valid ranges before use; ref must already have passed validation.
func ComputeIncidence(params domain.Parameters, ref *domain.ReferenceData) domain.IncidenceResult {
	p := clampParameters(params, ref)
	n := ref.GroupCount()

	weights := ComputeWeights(p.ProgressivityWeight, n)
	if !ref.HasTerritories() && ref.HasRuralCoefficients() {
		weights = ApplyRuralBonus(weights, ref.RuralCompensationCoefficients, p.RuralBonusShare)
	}

	decileTax := ComputeTaxPaid(ref.DecileEmissions(), p.CarbonPrice)
	revenue := floats.Sum(decileTax)
	rebatePool := revenue * p.DirectRebateShare / 100
	perHousehold := NormalizeAndDistribute(weights, rebatePool)

	result := domain.IncidenceResult{
		Totals: domain.Totals{
			Revenue:     revenue,
			RebatePool:  rebatePool,
			SubsidyPool: revenue - rebatePool,
		},
		SubsidyFunding: subsidyFunding(p.SubsidyAllocation, revenue-rebatePool),
		Parameters:     p,
	}

	if !ref.HasTerritories() {
		result.Labels = ref.GroupLabels()
		result.PopulationWeights = ones(n)
		fillRows(&result, decileTax, perHousehold)
		return result
	}

	emissions, popShare := ref.TerritoryMatrices()
	emissions = CalibrateTerritoryEmissions(emissions, popShare, ref.BaseEmissions)
	var tax mat.Dense
	tax.Scale(nonNegative(p.CarbonPrice), emissions)

	rows, _ := tax.Dims()
	alloc := mat.NewDense(rows, n, nil)
	for t := 0; t < rows; t++ {
		alloc.SetRow(t, perHousehold)
	}
	alloc, transfer := ApplyTerritoryTransfer(alloc, &tax, popShare, p.RuralBonusShare)
	result.Transfer = &transfer

	if !p.TerritoryView {
		result.Labels = ref.GroupLabels()
		result.PopulationWeights = ones(n)
		fillRows(&result, AggregateByDecile(&tax, popShare), AggregateByDecile(alloc, popShare))
		return result
	}

	taxPaid := make([]float64, 0, rows*n)
	redistribution := make([]float64, 0, rows*n)
	for g := 0; g < n; g++ {
		for t, name := range domain.TerritoryNames {
			result.Labels = append(result.Labels, fmt.Sprintf("%d/%s", g+1, name))
			result.PopulationWeights = append(result.PopulationWeights, popShare.At(t, g))
			taxPaid = append(taxPaid, tax.At(t, g))
			redistribution = append(redistribution, alloc.At(t, g))
		}
	}
	fillRows(&result, taxPaid, redistribution)
	return result
}

func fillRows(result *domain.IncidenceResult, taxPaid, redistribution []float64) {
	result.TaxPaid = taxPaid
	result.Redistribution = redistribution
	result.TaxCost = make([]float64, len(taxPaid))
	result.NetTransfer = make([]float64, len(taxPaid))
	for i, tax := range taxPaid {
		if tax != 0 {
			result.TaxCost[i] = -tax
		}
		result.NetTransfer[i] = redistribution[i] - tax
	}
}

func subsidyFunding(alloc []domain.SubsidyShare, pool float64) []domain.SubsidyFunding {
	out := make([]domain.SubsidyFunding, len(alloc))
	for i, s := range alloc {
		out[i] = domain.SubsidyFunding{
			Name:    s.Name,
			Percent: s.Percent,
			Amount:  pool * float64(s.Percent) / 100,
		}
	}
	return out
}

// clampParameters is the model's own guard against unsanitized input. The
// CLI and TUI sanitize first (config.Sanitize) and log what they changed.
func clampParameters(params domain.Parameters, ref *domain.ReferenceData) domain.Parameters {
	p := params.Clone()
	p.CarbonPrice = math.Min(nonNegative(p.CarbonPrice), ref.MaxCarbonPrice())
	p.DirectRebateShare = clampShare(p.DirectRebateShare)
	p.ProgressivityWeight = clampShare(p.ProgressivityWeight)
	p.RuralBonusShare = clampShare(p.RuralBonusShare)
	if allocation.Validate(p.SubsidyAllocation) != nil {
		if normalized, err := allocation.Normalize(p.SubsidyAllocation); err == nil {
			p.SubsidyAllocation = normalized
		} else {
			p.SubsidyAllocation = allocation.FromCatalog(ref.SubsidyCatalog)
		}
	}
	if !ref.HasTerritories() {
		p.TerritoryView = false
	}
	return p
}

func clampShare(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return v
}

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}
