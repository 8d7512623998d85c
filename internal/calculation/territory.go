package calculation

import (
	"math"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RuralTargetAverageTaxFraction caps the per-household rural compensation
// target at this fraction of the average carbon tax paid. Empirical
// calibration, kept as-is.
const RuralTargetAverageTaxFraction = 0.5

// Row indexes into the territory matrices (see domain.TerritoryNames)
const (
	rowRural       = 0
	rowUrbanCenter = 2
)

// CalibrateTerritoryEmissions rescales each decile column of emissions so its
// population-weighted sum equals base[g]. Territory rows then describe how a
// decile's emissions split across territories, and revenue always follows the
// decile table. A column with no weighted emissions is returned unchanged.
func CalibrateTerritoryEmissions(emissions, popShare *mat.Dense, base []float64) *mat.Dense {
	out := mat.DenseCopyOf(emissions)
	weighted := AggregateByDecile(emissions, popShare)
	rows, _ := out.Dims()
	for g, w := range weighted {
		if g >= len(base) || w <= 0 {
			continue
		}
		scale := base[g] / w
		for t := 0; t < rows; t++ {
			out.Set(t, g, out.At(t, g)*scale)
		}
	}
	return out
}

// ApplyTerritoryTransfer moves part of the urban-center rebate to rural
// households. The per-household target is the gap between the average rural
// and urban-center tax bill, capped at RuralTargetAverageTaxFraction of the
// average tax and scaled by ruralBonusShare/100. It is funded by shrinking
// every urban-center allocation by the same proportion, never below zero, and
// the freed amount is spread evenly over rural households. Suburban rows pass
// through. The population-weighted total is unchanged.
//
// alloc, taxPaid and popShare are territory-by-decile matrices. alloc is not
// modified; the adjusted allocation is returned.
func ApplyTerritoryTransfer(alloc, taxPaid, popShare *mat.Dense, ruralBonusShare float64) (*mat.Dense, domain.TerritoryTransfer) {
	out := mat.DenseCopyOf(alloc)
	var transfer domain.TerritoryTransfer

	ruralPop := floats.Sum(popShare.RawRowView(rowRural))
	centerPop := floats.Sum(popShare.RawRowView(rowUrbanCenter))
	if ruralPop <= 0 || centerPop <= 0 {
		return out, transfer
	}

	gap := math.Max(0, rowAverage(taxPaid, popShare, rowRural)-rowAverage(taxPaid, popShare, rowUrbanCenter))
	target := math.Min(gap, RuralTargetAverageTaxFraction*overallAverage(taxPaid, popShare))
	target *= clampShare(ruralBonusShare) / 100

	transfer.TargetPerHousehold = target
	transfer.Requested = target * ruralPop

	centerPool := floats.Dot(popShare.RawRowView(rowUrbanCenter), out.RawRowView(rowUrbanCenter))
	transfer.Transferred = math.Min(transfer.Requested, math.Max(0, centerPool))
	transfer.Capped = transfer.Requested > transfer.Transferred
	if transfer.Transferred <= 0 {
		return out, transfer
	}

	center := out.RawRowView(rowUrbanCenter)
	floats.Scale(1-transfer.Transferred/centerPool, center)
	for g, v := range center {
		// rounding in the scale above must not leave a tiny negative
		if v < 0 {
			center[g] = 0
		}
	}
	floats.AddConst(transfer.Transferred/ruralPop, out.RawRowView(rowRural))

	return out, transfer
}

// rowAverage is the population-weighted mean of one territory row
func rowAverage(values, popShare *mat.Dense, row int) float64 {
	pop := popShare.RawRowView(row)
	total := floats.Sum(pop)
	if total == 0 {
		return 0
	}
	return floats.Dot(pop, values.RawRowView(row)) / total
}

// overallAverage is the population-weighted mean over every cell
func overallAverage(values, popShare *mat.Dense) float64 {
	var weighted mat.Dense
	weighted.MulElem(values, popShare)
	pop := mat.Sum(popShare)
	if pop == 0 {
		return 0
	}
	return mat.Sum(&weighted) / pop
}
