// Package drugtable loads the antipsychotic dose-equivalence reference table
// from the embedded data set or from CSV, TSV and YAML files.
package drugtable

import (
	"fmt"
	"math"
	"time"

	"github.com/giygas/antipsychotic-switch/drugtable/entities"
	"github.com/giygas/antipsychotic-switch/interfaces"
)

// Compile-time check to ensure Table implements DrugLookup
var _ interfaces.DrugLookup = (*Table)(nil)

// Table maps normalized drug names to their reference data.
// It is never modified after construction.
type Table struct {
	drugs    map[string]entities.Drug
	order    []string
	source   string
	loadedAt time.Time
}

// NewTable validates drugs and builds a table from them. Names are
// normalized; duplicates, missing defined daily doses and non-positive
// metrics are rejected with a *RowError.
func NewTable(source string, drugs []entities.Drug) (*Table, error) {
	b := newBuilder(source)
	for _, d := range drugs {
		if err := b.add(0, d); err != nil {
			return nil, err
		}
	}
	return b.build()
}

// Lookup finds a drug by name. The name is normalized before the lookup.
func (t *Table) Lookup(name string) (entities.Drug, bool) {
	d, ok := t.drugs[NormalizeName(name)]
	if !ok {
		return entities.Drug{}, false
	}
	return d.Clone(), true
}

// Names returns the drug names in source order
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}

// Drugs returns copies of all drugs in source order
func (t *Table) Drugs() []entities.Drug {
	drugs := make([]entities.Drug, 0, len(t.order))
	for _, name := range t.order {
		drugs = append(drugs, t.drugs[name].Clone())
	}
	return drugs
}

// Len returns the number of drugs
func (t *Table) Len() int {
	return len(t.order)
}

// Source describes where the table came from
func (t *Table) Source() string {
	return t.source
}

// LoadedAt returns when the table was built
func (t *Table) LoadedAt() time.Time {
	return t.loadedAt
}

// builder accumulates validated drugs, remembering the row each came from
type builder struct {
	source string
	drugs  map[string]entities.Drug
	order  []string
	rows   map[string]int
}

func newBuilder(source string) *builder {
	return &builder{
		source: source,
		drugs:  make(map[string]entities.Drug),
		rows:   make(map[string]int),
	}
}

func (b *builder) add(row int, d entities.Drug) error {
	raw := d.Name
	d.Name = NormalizeName(d.Name)
	if d.Name == "" {
		return &RowError{Row: row, Reason: "drug name is empty"}
	}

	if firstRow, exists := b.rows[d.Name]; exists {
		reason := "duplicate drug name"
		if firstRow > 0 {
			reason = fmt.Sprintf("duplicate drug name, first defined in row %d", firstRow)
		}
		return &RowError{Row: row, Drug: raw, Reason: reason}
	}

	if err := validateDrug(d); err != nil {
		return &RowError{Row: row, Drug: d.Name, Reason: err.Error()}
	}

	d = d.Clone()
	b.drugs[d.Name] = d
	b.order = append(b.order, d.Name)
	b.rows[d.Name] = row
	return nil
}

func (b *builder) build() (*Table, error) {
	if len(b.order) == 0 {
		return nil, &RowError{Reason: "table contains no drugs"}
	}
	return &Table{
		drugs:    b.drugs,
		order:    b.order,
		source:   b.source,
		loadedAt: time.Now(),
	}, nil
}

// validateDrug checks that every metric present is a finite positive number
func validateDrug(d entities.Drug) error {
	if !isPositive(d.DefinedDailyDose) {
		return fmt.Errorf("%s must be a positive number, got %v", entities.DefinedDailyDose, d.DefinedDailyDose)
	}

	if d.EffectiveDose95 != nil && !isPositive(*d.EffectiveDose95) {
		return fmt.Errorf("%s must be a positive number, got %v", entities.EffectiveDose95, *d.EffectiveDose95)
	}

	if d.MinimumEffectiveDose != nil && !isPositive(*d.MinimumEffectiveDose) {
		return fmt.Errorf("%s must be a positive number, got %v", entities.MinimumEffectiveDose, *d.MinimumEffectiveDose)
	}

	return nil
}

func isPositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}
