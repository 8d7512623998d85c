package domain

// SubsidyShare is one entry of the subsidy allocation
type SubsidyShare struct {
	Name    string `yaml:"name" json:"name" toml:"name"`
	Percent int    `yaml:"percent" json:"percent" toml:"percent"`
}

// Parameters is an immutable snapshot of the policy controls. Edits produce a
// new snapshot (see internal/transform); nothing mutates a Parameters value that
// has been handed to the model.
type Parameters struct {
	CarbonPrice         float64        `yaml:"carbon_price" json:"carbonPrice" toml:"carbon_price"`
	DirectRebateShare   float64        `yaml:"direct_rebate_share" json:"directRebateShare" toml:"direct_rebate_share"`
	ProgressivityWeight float64        `yaml:"progressivity_weight" json:"progressivityWeight" toml:"progressivity_weight"`
	RuralBonusShare     float64        `yaml:"rural_bonus_share" json:"ruralBonusShare" toml:"rural_bonus_share"`
	SubsidyAllocation   []SubsidyShare `yaml:"subsidy_allocation" json:"subsidyAllocation" toml:"subsidy_allocation"`
	TerritoryView       bool           `yaml:"territory_view" json:"territoryView" toml:"territory_view"`

	// Measure names the compensation-measure preset last applied, if any
	Measure string `yaml:"measure,omitempty" json:"measure,omitempty" toml:"measure,omitempty"`
}

// Clone returns a deep copy
func (p Parameters) Clone() Parameters {
	out := p
	out.SubsidyAllocation = append([]SubsidyShare(nil), p.SubsidyAllocation...)
	return out
}

// SubsidyIndex returns the index of the named subsidy program, or -1
func (p Parameters) SubsidyIndex(name string) int {
	for i, s := range p.SubsidyAllocation {
		if s.Name == name {
			return i
		}
	}
	return -1
}
