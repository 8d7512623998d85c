package domain

// Measure is a named compensation-measure preset: a list of parameter edit
// specs applied in order (see internal/transform for the spec syntax).
type Measure struct {
	Name        string   `yaml:"name" json:"name" toml:"name"`
	Description string   `yaml:"description" json:"description" toml:"description"`
	Edits       []string `yaml:"edits" json:"edits" toml:"edits"`
}

// Scenario is a named policy variant built by applying edits to the defaults
type Scenario struct {
	Name        string   `yaml:"name" json:"name" toml:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Measure     string   `yaml:"measure,omitempty" json:"measure,omitempty" toml:"measure,omitempty"`
	Edits       []string `yaml:"edits,omitempty" json:"edits,omitempty" toml:"edits,omitempty"`
}

// Configuration is the top-level configuration file
type Configuration struct {
	ReferenceData ReferenceData `yaml:"reference_data" json:"referenceData" toml:"reference_data"`
	Defaults      Parameters    `yaml:"defaults" json:"defaults" toml:"defaults"`
	Measures      []Measure     `yaml:"measures,omitempty" json:"measures,omitempty" toml:"measures,omitempty"`
	Scenarios     []Scenario    `yaml:"scenarios,omitempty" json:"scenarios,omitempty" toml:"scenarios,omitempty"`
	ShareBaseURL  string        `yaml:"share_base_url,omitempty" json:"shareBaseUrl,omitempty" toml:"share_base_url,omitempty"`
}

// FindScenario returns the named scenario, or nil
func (c *Configuration) FindScenario(name string) *Scenario {
	for i := range c.Scenarios {
		if c.Scenarios[i].Name == name {
			return &c.Scenarios[i]
		}
	}
	return nil
}
