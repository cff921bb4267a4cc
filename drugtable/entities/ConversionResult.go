package entities

// ConversionResult is the equivalent dose of a target drug for a reference
// drug and dose. Optional outputs are nil when either drug lacks the metric.
// Values are not rounded.
type ConversionResult struct {
	ReferenceDrug          string   `json:"referenceDrug"`
	ReferenceDoseMg        float64  `json:"referenceDoseMg"`
	TargetDrug             string   `json:"targetDrug"`
	DefinedDailyDoseMg     float64  `json:"definedDailyDoseMg"`
	EffectiveDose95Mg      *float64 `json:"effectiveDose95Mg"`
	MinimumEffectiveDoseMg *float64 `json:"minimumEffectiveDoseMg"`
}

// Output returns the converted dose for a metric and whether it is available
func (r ConversionResult) Output(m Metric) (float64, bool) {
	switch m {
	case DefinedDailyDose:
		return r.DefinedDailyDoseMg, true
	case EffectiveDose95:
		if r.EffectiveDose95Mg != nil {
			return *r.EffectiveDose95Mg, true
		}
	case MinimumEffectiveDose:
		if r.MinimumEffectiveDoseMg != nil {
			return *r.MinimumEffectiveDoseMg, true
		}
	}
	return 0, false
}
