// Package validation provides input and table validation for the switching tool.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/giygas/antipsychotic-switch/conversion"
	"github.com/giygas/antipsychotic-switch/interfaces"
	"github.com/giygas/antipsychotic-switch/logging"
)

const maxDrugNameLength = 100

// Pre-compiled regex patterns, compiled once at package initialization
var (
	// Letters of any script, digits, spaces and the punctuation found in drug names
	drugNameRegex = regexp.MustCompile(`^[\p{L}\p{M}0-9\s\-'.()]+$`)

	// Plain decimal with an optional sign, before any locale handling
	doseRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateDrugName checks that a user entered name could be a drug name
func (v *DataValidatorImpl) ValidateDrugName(input string) error {
	name := strings.TrimSpace(input)
	if name == "" {
		return fmt.Errorf("drug name cannot be empty")
	}

	if utf8.RuneCountInString(name) > maxDrugNameLength {
		return fmt.Errorf("drug name too long: %d characters (max %d)", utf8.RuneCountInString(name), maxDrugNameLength)
	}

	if !drugNameRegex.MatchString(name) {
		return fmt.Errorf("drug name contains invalid characters: %q", name)
	}

	return nil
}

// ParseDose parses a dose in milligrams. A single comma is read as the
// decimal separator, so "2,5" is 2.5 mg. Anything that is not a finite
// positive number fails with conversion.ErrInvalidDose.
func (v *DataValidatorImpl) ParseDose(input string) (float64, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimSuffix(strings.ToLower(raw), "mg"))

	if strings.Count(raw, ",") == 1 && !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	}

	if !doseRegex.MatchString(raw) {
		return 0, fmt.Errorf("%w, got %q", conversion.ErrInvalidDose, strings.TrimSpace(input))
	}

	dose, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(dose, 0) || math.IsNaN(dose) || dose <= 0 {
		return 0, fmt.Errorf("%w, got %q", conversion.ErrInvalidDose, strings.TrimSpace(input))
	}

	return dose, nil
}

// ReportTableQuality lists which drugs lack the optional metrics, so a
// table maintainer can see which conversions will be partial
func (v *DataValidatorImpl) ReportTableQuality(table interfaces.DrugLookup, source string) *interfaces.TableQualityReport {
	report := &interfaces.TableQualityReport{
		Source:                           source,
		DrugCount:                        table.Len(),
		DrugsWithoutEffectiveDose95:      []string{},
		DrugsWithoutMinimumEffectiveDose: []string{},
		DrugsByGeneration:                make(map[string]int),
	}

	for _, name := range table.Names() {
		drug, ok := table.Lookup(name)
		if !ok {
			continue
		}

		if drug.EffectiveDose95 == nil {
			report.DrugsWithoutEffectiveDose95 = append(report.DrugsWithoutEffectiveDose95, drug.Name)
		}
		if drug.MinimumEffectiveDose == nil {
			report.DrugsWithoutMinimumEffectiveDose = append(report.DrugsWithoutMinimumEffectiveDose, drug.Name)
		}

		generation := drug.Generation
		if generation == "" {
			generation = "unspecified"
		}
		report.DrugsByGeneration[generation]++
	}

	if len(report.DrugsWithoutEffectiveDose95) > 0 || len(report.DrugsWithoutMinimumEffectiveDose) > 0 {
		logging.Info("Drug table has partial metrics",
			"source", source,
			"without_effective_dose_95", len(report.DrugsWithoutEffectiveDose95),
			"without_minimum_effective_dose", len(report.DrugsWithoutMinimumEffectiveDose))
	}

	return report
}
