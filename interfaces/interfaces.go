// Package interfaces defines core abstractions for the switching tool
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"github.com/giygas/antipsychotic-switch/drugtable/entities"
)

// TableQualityReport provides a summary of gaps in the drug reference table
type TableQualityReport struct {
	Source                           string
	DrugCount                        int
	DrugsWithoutEffectiveDose95      []string
	DrugsWithoutMinimumEffectiveDose []string
	DrugsByGeneration                map[string]int
}

// DrugLookup defines read access to a drug reference table.
// Implementations are immutable once built, so concurrent reads are safe.
type DrugLookup interface {
	// Lookup finds a drug by name, normalizing the name first
	Lookup(name string) (entities.Drug, bool)

	// Names returns the drug names in table order
	Names() []string

	Len() int
}

// Converter defines the contract for dose conversions against a loaded table
type Converter interface {
	Convert(referenceDrug string, referenceDose float64, targetDrug string) (entities.ConversionResult, error)
}

// DataValidator defines the contract for user input and table validation
type DataValidator interface {
	// ValidateDrugName checks a user entered drug name before lookup
	ValidateDrugName(input string) error

	// ParseDose parses a user entered dose in milligrams
	ParseDose(input string) (float64, error)

	// ReportTableQuality summarizes which drugs lack optional metrics
	ReportTableQuality(table DrugLookup, source string) *TableQualityReport
}

// Scheduler defines the contract for background maintenance jobs
type Scheduler interface {
	Start() error
	Stop()
}

// LogMaintainer removes log files outside the retention window
type LogMaintainer interface {
	CleanupOldLogs() error
}

// MetricsExporter persists the current metric values
type MetricsExporter interface {
	Write() error
}
