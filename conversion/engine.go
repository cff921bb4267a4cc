package conversion

import (
	"errors"

	"github.com/giygas/antipsychotic-switch/drugtable/entities"
	"github.com/giygas/antipsychotic-switch/interfaces"
	"github.com/giygas/antipsychotic-switch/logging"
	"github.com/giygas/antipsychotic-switch/metrics"
)

// Compile-time check to ensure Engine implements Converter
var _ interfaces.Converter = (*Engine)(nil)

// Engine runs conversions against one table, logging and counting outcomes
type Engine struct {
	table interfaces.DrugLookup
}

// NewEngine creates an engine for table
func NewEngine(table interfaces.DrugLookup) *Engine {
	return &Engine{table: table}
}

// Convert runs Convert against the engine's table
func (e *Engine) Convert(referenceDrug string, referenceDose float64, targetDrug string) (entities.ConversionResult, error) {
	result, err := Convert(e.table, referenceDrug, referenceDose, targetDrug)
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues(outcome(err)).Inc()
		logging.Warn("Conversion rejected",
			"reference_drug", referenceDrug,
			"reference_dose_mg", referenceDose,
			"target_drug", targetDrug,
			"error", err)
		return result, err
	}

	metrics.ConversionsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	for _, m := range entities.Metrics {
		if _, ok := result.Output(m); !ok {
			metrics.ConversionMetricUnavailable.WithLabelValues(string(m)).Inc()
		}
	}

	logging.Debug("Conversion completed",
		"reference_drug", result.ReferenceDrug,
		"reference_dose_mg", result.ReferenceDoseMg,
		"target_drug", result.TargetDrug,
		"defined_daily_dose_mg", result.DefinedDailyDoseMg)

	return result, nil
}

func outcome(err error) string {
	if errors.Is(err, ErrInvalidDose) {
		return metrics.OutcomeInvalidDose
	}
	return metrics.OutcomeUnknownDrug
}
