package calculation

import (
	"github.com/rgehrsitz/carbontax/internal/domain"
	"gonum.org/v1/gonum/floats"
)

var testBaseEmissions = []float64{3.2, 4.5, 5.8, 6.5, 7.8, 9.2, 10.5, 12.8, 15.2, 22.5}

var testCatalog = []string{
	"Thermal renovation",
	"Public transport",
	"Clean vehicles",
	"Electricity exemption",
	"VAT reduction",
}

func decileReference() *domain.ReferenceData {
	return &domain.ReferenceData{
		Name:           "test",
		Currency:       "EUR",
		Unit:           "tCO2e",
		BaseEmissions:  append([]float64(nil), testBaseEmissions...),
		SubsidyCatalog: testCatalog,
	}
}

// territoryReference scales base emissions by 1.3 (rural), 1.0 (suburban) and
// 0.75 (urban-center) with population shares 25/45/30 in every decile, so the
// population-weighted decile emissions equal the base emissions.
func territoryReference() *domain.ReferenceData {
	ref := decileReference()
	scale := map[string]float64{
		domain.TerritoryRural:       1.3,
		domain.TerritorySuburban:    1.0,
		domain.TerritoryUrbanCenter: 0.75,
	}
	share := map[string]float64{
		domain.TerritoryRural:       0.25,
		domain.TerritorySuburban:    0.45,
		domain.TerritoryUrbanCenter: 0.30,
	}
	for _, name := range domain.TerritoryNames {
		emissions := append([]float64(nil), testBaseEmissions...)
		floats.Scale(scale[name], emissions)
		pop := make([]float64, len(emissions))
		for i := range pop {
			pop[i] = share[name]
		}
		ref.Territories = append(ref.Territories, domain.TerritoryData{
			Name:            name,
			Emissions:       emissions,
			PopulationShare: pop,
		})
	}
	return ref
}

func defaultParameters() domain.Parameters {
	return domain.Parameters{
		CarbonPrice:         44.6,
		DirectRebateShare:   70,
		ProgressivityWeight: 0,
		RuralBonusShare:     0,
		SubsidyAllocation: []domain.SubsidyShare{
			{Name: testCatalog[0], Percent: 30},
			{Name: testCatalog[1], Percent: 25},
			{Name: testCatalog[2], Percent: 20},
			{Name: testCatalog[3], Percent: 15},
			{Name: testCatalog[4], Percent: 10},
		},
	}
}

// weightedSum is sum(values[i] * weights[i])
func weightedSum(values, weights []float64) float64 {
	return floats.Dot(values, weights)
}
