package drugtable

import (
	"github.com/giygas/antipsychotic-switch/drugtable/entities"
)

const (
	firstGeneration  = "first generation"
	secondGeneration = "second generation"
)

// EmbeddedSource serves the compiled-in table based on the dose equivalents
// published by the American Association of Psychiatric Pharmacists (AAPP):
// https://aapp.org/guideline/essentials/antipsychotic-dose-equivalents
type EmbeddedSource struct{}

func (EmbeddedSource) Name() string {
	return "embedded"
}

func (s EmbeddedSource) Load() (*Table, error) {
	return NewTable(s.Name(), embeddedDrugs())
}

func embeddedDrugs() []entities.Drug {
	f := entities.Float

	return []entities.Drug{
		{
			Name:                 "Haloperidol",
			Generation:           firstGeneration,
			DefinedDailyDose:     0.8,
			EffectiveDose95:      f(0.42),
			MinimumEffectiveDose: f(0.53),
		},
		{
			Name:             "Chlorpromazine",
			Generation:       firstGeneration,
			DefinedDailyDose: 30,
		},
		{
			Name:                 "Aripiprazole",
			Generation:           secondGeneration,
			DefinedDailyDose:     1.5,
			EffectiveDose95:      f(0.76),
			MinimumEffectiveDose: f(1.33),
		},
		{
			Name:                 "Clozapine",
			Generation:           secondGeneration,
			DefinedDailyDose:     30,
			MinimumEffectiveDose: f(40),
		},
		{
			Name:                 "Olanzapine",
			Generation:           secondGeneration,
			DefinedDailyDose:     1,
			EffectiveDose95:      f(1),
			MinimumEffectiveDose: f(1),
		},
		{
			Name:                 "Paliperidone",
			Generation:           secondGeneration,
			DefinedDailyDose:     0.6,
			EffectiveDose95:      f(0.88),
			MinimumEffectiveDose: f(0.40),
		},
		{
			Name:                 "Quetiapine",
			Generation:           secondGeneration,
			DefinedDailyDose:     40,
			EffectiveDose95:      f(31.78),
			MinimumEffectiveDose: f(20),
		},
		{
			Name:                 "Risperidone",
			Generation:           secondGeneration,
			DefinedDailyDose:     0.5,
			EffectiveDose95:      f(0.41),
			MinimumEffectiveDose: f(0.27),
		},
		{
			Name:                 "Ziprasidone",
			Generation:           secondGeneration,
			DefinedDailyDose:     8,
			EffectiveDose95:      f(12.29),
			MinimumEffectiveDose: f(5.33),
		},
	}
}
