package drugtable

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/giygas/antipsychotic-switch/logging"
	"github.com/giygas/antipsychotic-switch/metrics"
)

// Source builds a Table. Sources either return a complete table or an error;
// there are no partial loads.
type Source interface {
	Load() (*Table, error)
	Name() string
}

// SourceFor picks the source for a table path: the embedded table when the
// path is empty, YAML for .yaml and .yml files, delimited text otherwise.
func SourceFor(path string) Source {
	if path == "" {
		return EmbeddedSource{}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLSource(path)
	default:
		return NewCSVSource(path)
	}
}

// Load runs src, logging the outcome and recording load metrics
func Load(src Source) (*Table, error) {
	start := time.Now()

	table, err := src.Load()
	if err != nil {
		logging.Error("Failed to load drug table", "source", src.Name(), "error", err)
		return nil, err
	}

	elapsed := time.Since(start)
	metrics.DrugTableDrugs.Set(float64(table.Len()))
	metrics.DrugTableLoadDuration.Set(elapsed.Seconds())

	logging.Info("Drug table loaded",
		"source", table.Source(),
		"drug_count", table.Len(),
		"duration", elapsed.String())

	return table, nil
}
