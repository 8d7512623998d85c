package domain

import (
	"math"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Territory names recognised in reference data. Order matters: it is the row
// order of every territory matrix.
const (
	TerritoryRural       = "rural"
	TerritorySuburban    = "suburban"
	TerritoryUrbanCenter = "urban-center"
)

// TerritoryNames lists territories in matrix row order
var TerritoryNames = []string{TerritoryRural, TerritorySuburban, TerritoryUrbanCenter}

// TerritoryData holds per-decile emissions and population share for one territory
type TerritoryData struct {
	Name            string    `yaml:"name" json:"name" toml:"name"`
	Emissions       []float64 `yaml:"emissions" json:"emissions" toml:"emissions"`
	PopulationShare []float64 `yaml:"population_share" json:"populationShare" toml:"population_share"`
}

// ReferenceData is the static emissions table the model reads. It is loaded and
// validated once and never mutated afterwards.
type ReferenceData struct {
	Name     string `yaml:"name" json:"name" toml:"name"`
	Currency string `yaml:"currency" json:"currency" toml:"currency"`
	Unit     string `yaml:"unit" json:"unit" toml:"unit"`

	// BaseEmissions is the average annual tCO2e per household, decile 1 (poorest) first.
	BaseEmissions []float64 `yaml:"base_emissions" json:"baseEmissions" toml:"base_emissions"`

	Territories                   []TerritoryData `yaml:"territories,omitempty" json:"territories,omitempty" toml:"territories,omitempty"`
	RuralCompensationCoefficients []float64       `yaml:"rural_compensation_coefficients,omitempty" json:"ruralCompensationCoefficients,omitempty" toml:"rural_compensation_coefficients,omitempty"`

	SubsidyCatalog []string `yaml:"subsidy_catalog" json:"subsidyCatalog" toml:"subsidy_catalog"`
}

// GroupCount returns the number of income groups
func (r *ReferenceData) GroupCount() int {
	return len(r.BaseEmissions)
}

// GroupLabels returns "1".."N"
func (r *ReferenceData) GroupLabels() []string {
	labels := make([]string, r.GroupCount())
	for i := range labels {
		labels[i] = strconv.Itoa(i + 1)
	}
	return labels
}

// HasTerritories reports whether the territory-aware variant applies
func (r *ReferenceData) HasTerritories() bool {
	return len(r.Territories) > 0
}

// HasRuralCoefficients reports whether a per-decile rural bonus can be calibrated
func (r *ReferenceData) HasRuralCoefficients() bool {
	return len(r.RuralCompensationCoefficients) > 0
}

// Territory returns the named territory, or nil
func (r *ReferenceData) Territory(name string) *TerritoryData {
	for i := range r.Territories {
		if r.Territories[i].Name == name {
			return &r.Territories[i]
		}
	}
	return nil
}

// TerritoryMatrices returns emissions and population share as matrices with one
// row per territory (TerritoryNames order) and one column per decile.
// Returns nil matrices when no territory data is present.
func (r *ReferenceData) TerritoryMatrices() (emissions, popShare *mat.Dense) {
	if !r.HasTerritories() {
		return nil, nil
	}
	n := r.GroupCount()
	emissions = mat.NewDense(len(TerritoryNames), n, nil)
	popShare = mat.NewDense(len(TerritoryNames), n, nil)
	for t, name := range TerritoryNames {
		td := r.Territory(name)
		if td == nil {
			continue
		}
		emissions.SetRow(t, td.Emissions)
		popShare.SetRow(t, td.PopulationShare)
	}
	return emissions, popShare
}

// DecileEmissions returns a copy of BaseEmissions, the emissions per decile the
// model taxes in every view.
func (r *ReferenceData) DecileEmissions() []float64 {
	return append([]float64(nil), r.BaseEmissions...)
}

// TerritoryWeightedEmissions returns the population-weighted territory emission
// of each decile, sum over t of popShare[t][g]*emissions[t][g]. Valid reference
// data keeps it in line with BaseEmissions. Returns nil without territories.
func (r *ReferenceData) TerritoryWeightedEmissions() []float64 {
	if !r.HasTerritories() {
		return nil
	}
	emissions, popShare := r.TerritoryMatrices()
	var weighted mat.Dense
	weighted.MulElem(emissions, popShare)
	out := make([]float64, r.GroupCount())
	for g := range out {
		out[g] = floats.Sum(mat.Col(nil, g, &weighted))
	}
	return out
}

// TotalEmissions is the sum of BaseEmissions
func (r *ReferenceData) TotalEmissions() float64 {
	return floats.Sum(r.BaseEmissions)
}

// MaxCarbonPrice is the highest price whose revenue stays comfortably finite.
// Above it net transfers would overflow to Inf-Inf.
func (r *ReferenceData) MaxCarbonPrice() float64 {
	total := r.TotalEmissions()
	if !(total > 0) || math.IsInf(total, 0) {
		return math.MaxFloat64
	}
	return math.MaxFloat64 / (4 * total)
}
