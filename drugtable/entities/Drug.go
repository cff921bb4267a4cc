package entities

// Metric names one of the dose-equivalence metrics a drug can carry
type Metric string

const (
	DefinedDailyDose     Metric = "defined_daily_dose"
	EffectiveDose95      Metric = "effective_dose_95"
	MinimumEffectiveDose Metric = "minimum_effective_dose"
)

// Metrics lists every metric in display order
var Metrics = []Metric{DefinedDailyDose, EffectiveDose95, MinimumEffectiveDose}

// Drug holds the reference data for one antipsychotic. Doses are in mg.
// Optional metrics are nil when the drug has no published value.
type Drug struct {
	Name                 string               `json:"name" yaml:"name"`
	Generation           string               `json:"generation,omitempty" yaml:"generation,omitempty"`
	DefinedDailyDose     float64              `json:"definedDailyDose" yaml:"defined_daily_dose"`
	EffectiveDose95      *float64             `json:"effectiveDose95,omitempty" yaml:"effective_dose_95,omitempty"`
	MinimumEffectiveDose *float64             `json:"minimumEffectiveDose,omitempty" yaml:"minimum_effective_dose,omitempty"`
	HalfLife             string               `json:"halfLife,omitempty" yaml:"half_life,omitempty"`
	CYP450Enzymes        string               `json:"cyp450Enzymes,omitempty" yaml:"cyp450_enzymes,omitempty"`
	Attributes           map[string]Attribute `json:"attributes,omitempty" yaml:"-"`
}

// Attribute is an extra column of a table file that has no fixed meaning.
// Numeric is set when the cell looked like an unsigned decimal number.
type Attribute struct {
	Text    string  `json:"text"`
	Number  float64 `json:"number,omitempty"`
	Numeric bool    `json:"numeric"`
}

// Value returns the value of a metric and whether the drug has it
func (d Drug) Value(m Metric) (float64, bool) {
	switch m {
	case DefinedDailyDose:
		return d.DefinedDailyDose, d.DefinedDailyDose > 0
	case EffectiveDose95:
		if d.EffectiveDose95 == nil {
			return 0, false
		}
		return *d.EffectiveDose95, true
	case MinimumEffectiveDose:
		if d.MinimumEffectiveDose == nil {
			return 0, false
		}
		return *d.MinimumEffectiveDose, true
	}
	return 0, false
}

// Clone returns a deep copy so callers cannot reach shared state
func (d Drug) Clone() Drug {
	c := d
	c.EffectiveDose95 = cloneFloat(d.EffectiveDose95)
	c.MinimumEffectiveDose = cloneFloat(d.MinimumEffectiveDose)
	if d.Attributes != nil {
		c.Attributes = make(map[string]Attribute, len(d.Attributes))
		for k, v := range d.Attributes {
			c.Attributes[k] = v
		}
	}
	return c
}

// Float returns a pointer to f, for optional metric literals
func Float(f float64) *float64 {
	return &f
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
