// Package metrics provides Prometheus metrics for the switching tool.
// It exports:
//   - conversions_total: Counter with an outcome label
//   - conversion_metric_unavailable_total: Counter with a metric label
//   - drug_table_drugs: Gauge with the number of loaded drugs
//   - drug_table_load_duration_seconds: Gauge with the last load duration
//
// There is no HTTP listener; values are written to a file for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/giygas/antipsychotic-switch/interfaces"
	"github.com/prometheus/client_golang/prometheus"
)

// Compile-time check to ensure TextfileExporter implements MetricsExporter
var _ interfaces.MetricsExporter = (*TextfileExporter)(nil)

// Conversion outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeUnknownDrug = "unknown_drug"
	OutcomeInvalidDose = "invalid_dose"
)

var (
	ConversionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversions_total",
			Help: "Total dose conversions by outcome",
		},
		[]string{"outcome"},
	)

	ConversionMetricUnavailable = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversion_metric_unavailable_total",
			Help: "Successful conversions where an optional metric was unavailable",
		},
		[]string{"metric"},
	)

	DrugTableDrugs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "drug_table_drugs",
			Help: "Number of drugs in the loaded reference table",
		},
	)

	DrugTableLoadDuration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "drug_table_load_duration_seconds",
			Help: "Duration of the last drug table load",
		},
	)
)

func init() {
	prometheus.MustRegister(ConversionsTotal)
	prometheus.MustRegister(ConversionMetricUnavailable)
	prometheus.MustRegister(DrugTableDrugs)
	prometheus.MustRegister(DrugTableLoadDuration)
}

// TextfileExporter writes the gathered metrics to a .prom file
type TextfileExporter struct {
	path     string
	gatherer prometheus.Gatherer
}

// NewTextfileExporter creates an exporter for the default registry
func NewTextfileExporter(path string) *TextfileExporter {
	return NewTextfileExporterWithGatherer(path, prometheus.DefaultGatherer)
}

// NewTextfileExporterWithGatherer creates an exporter for a custom gatherer
func NewTextfileExporterWithGatherer(path string, gatherer prometheus.Gatherer) *TextfileExporter {
	return &TextfileExporter{path: path, gatherer: gatherer}
}

// Write replaces the textfile atomically with the current metric values
func (e *TextfileExporter) Write() error {
	if err := prometheus.WriteToTextfile(e.path, e.gatherer); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", e.path, err)
	}
	return nil
}

// Path returns the destination file
func (e *TextfileExporter) Path() string {
	return e.path
}
