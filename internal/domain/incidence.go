package domain

// Totals summarises where carbon tax revenue goes
type Totals struct {
	Revenue     float64 `json:"revenue"`
	RebatePool  float64 `json:"rebatePool"`
	SubsidyPool float64 `json:"subsidyPool"`
}

// SubsidyFunding is the share of the subsidy pool earmarked for one program
type SubsidyFunding struct {
	Name    string  `json:"name"`
	Percent int     `json:"percent"`
	Amount  float64 `json:"amount"`
}

// TerritoryTransfer records what the rural bonus moved from urban-center to rural households
type TerritoryTransfer struct {
	TargetPerHousehold float64 `json:"targetPerHousehold"`
	Requested          float64 `json:"requested"`
	Transferred        float64 `json:"transferred"`
	Capped             bool    `json:"capped"`
}

// IncidenceResult is the output of one model run. Amounts are per household
// per year in the reference data currency.
type IncidenceResult struct {
	Labels []string `json:"labels"`

	// PopulationWeights is each row's population in decile units: 1 per decile
	// in decile view, the territory population share in territory view.
	PopulationWeights []float64 `json:"populationWeights"`

	TaxPaid        []float64 `json:"taxPaid"`
	TaxCost        []float64 `json:"taxCost"`
	Redistribution []float64 `json:"redistribution"`
	NetTransfer    []float64 `json:"netTransfer"`

	Totals         Totals             `json:"totals"`
	SubsidyFunding []SubsidyFunding   `json:"subsidyFunding"`
	Transfer       *TerritoryTransfer `json:"territoryTransfer,omitempty"`

	Parameters Parameters `json:"parameters"`
}

// Len returns the number of result rows
func (r *IncidenceResult) Len() int {
	return len(r.Labels)
}

// PerHousehold converts a pool summed over rows into an average per household
func (r *IncidenceResult) PerHousehold(pool float64) float64 {
	units := 0.0
	for _, w := range r.PopulationWeights {
		units += w
	}
	if units == 0 {
		return 0
	}
	return pool / units
}

// NetWinners counts rows whose net transfer is positive
func (r *IncidenceResult) NetWinners() int {
	n := 0
	for _, v := range r.NetTransfer {
		if v > 0 {
			n++
		}
	}
	return n
}

// RelativeNetTransfer returns each row's net transfer as a percentage of its
// tax paid. Rows that pay no tax report 0.
func (r *IncidenceResult) RelativeNetTransfer() []float64 {
	out := make([]float64, len(r.NetTransfer))
	for i, v := range r.NetTransfer {
		if r.TaxPaid[i] > 0 {
			out[i] = v / r.TaxPaid[i] * 100
		}
	}
	return out
}
