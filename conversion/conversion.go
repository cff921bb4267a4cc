// Package conversion translates a dose of one antipsychotic into the
// equivalent dose of another by rescaling through each shared metric.
package conversion

import (
	"errors"
	"fmt"
	"math"

	"github.com/giygas/antipsychotic-switch/drugtable/entities"
	"github.com/giygas/antipsychotic-switch/interfaces"
)

var (
	// ErrUnknownDrug is returned when a drug is not in the table
	ErrUnknownDrug = errors.New("drug not found in equivalency table")

	// ErrInvalidDose is returned for doses that are not finite positive numbers
	ErrInvalidDose = errors.New("dose must be a positive number")
)

// Convert computes the doses of targetDrug equivalent to referenceDose mg of
// referenceDrug. The dose is checked first, then both names; nothing is
// computed once a check fails.
//
// For each metric the reference dose is expressed in units of the reference
// drug's value and scaled by the target drug's value. The defined daily dose
// is always computed. The optional metrics are nil unless both drugs have
// them. Results are not rounded.
func Convert(table interfaces.DrugLookup, referenceDrug string, referenceDose float64, targetDrug string) (entities.ConversionResult, error) {
	if math.IsNaN(referenceDose) || math.IsInf(referenceDose, 0) || referenceDose <= 0 {
		return entities.ConversionResult{}, fmt.Errorf("%w, got %v", ErrInvalidDose, referenceDose)
	}

	reference, ok := table.Lookup(referenceDrug)
	if !ok {
		return entities.ConversionResult{}, fmt.Errorf("%w: %q", ErrUnknownDrug, referenceDrug)
	}

	target, ok := table.Lookup(targetDrug)
	if !ok {
		return entities.ConversionResult{}, fmt.Errorf("%w: %q", ErrUnknownDrug, targetDrug)
	}

	return entities.ConversionResult{
		ReferenceDrug:          reference.Name,
		ReferenceDoseMg:        referenceDose,
		TargetDrug:             target.Name,
		DefinedDailyDoseMg:     scale(referenceDose, reference.DefinedDailyDose, target.DefinedDailyDose),
		EffectiveDose95Mg:      rescale(referenceDose, reference.EffectiveDose95, target.EffectiveDose95),
		MinimumEffectiveDoseMg: rescale(referenceDose, reference.MinimumEffectiveDose, target.MinimumEffectiveDose),
	}, nil
}

// rescale returns nil when either side lacks the metric
func rescale(dose float64, reference, target *float64) *float64 {
	if reference == nil || target == nil {
		return nil
	}
	out := scale(dose, *reference, *target)
	return &out
}

// scale converts dose through equivalent units. Equal metric values map the
// dose onto itself exactly instead of through a lossy divide and multiply.
func scale(dose, reference, target float64) float64 {
	if reference == target {
		return dose
	}
	equivalentUnits := dose / reference
	return equivalentUnits * target
}
