package domain

// SensitivityPoint is one model run in a parameter sweep
type SensitivityPoint struct {
	Value               float64 `json:"value"`
	Revenue             float64 `json:"revenue"`
	RevenuePerHousehold float64 `json:"revenuePerHousehold"`
	PoorestNet          float64 `json:"poorestNet"`
	RichestNet          float64 `json:"richestNet"`
	NetWinners          int     `json:"netWinners"`
	PoorestRebate       float64 `json:"poorestRebate"`
	RichestRebate       float64 `json:"richestRebate"`
	MaxNetTransfer      float64 `json:"maxNetTransfer"`
	MinNetTransfer      float64 `json:"minNetTransfer"`
}

// SensitivityAnalysis is a single-parameter sweep around a base snapshot
type SensitivityAnalysis struct {
	Parameter string             `json:"parameter"`
	Unit      string             `json:"unit"`
	Base      Parameters         `json:"base"`
	Points    []SensitivityPoint `json:"points"`

	// PoorestNetRange is max - min of the poorest group's net transfer over the sweep
	PoorestNetRange float64 `json:"poorestNetRange"`
	RichestNetRange float64 `json:"richestNetRange"`
}
