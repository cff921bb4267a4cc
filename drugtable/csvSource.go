package drugtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/giygas/antipsychotic-switch/drugtable/entities"
)

// Unsigned decimal: digits with at most one decimal point
var decimalRegex = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

type columnKind int

const (
	columnName columnKind = iota
	columnDefinedDailyDose
	columnEffectiveDose95
	columnMinimumEffectiveDose
	columnGeneration
	columnHalfLife
	columnCYP450Enzymes
	columnExtra
)

// knownColumns maps header keys to their fixed meaning. Metric columns are
// always numeric and text columns always text; only unknown columns have
// their type guessed from the cell content.
var knownColumns = map[string]columnKind{
	"drug":                    columnName,
	"defined_daily_dose":      columnDefinedDailyDose,
	"effective_dose_95":       columnEffectiveDose95,
	"minimum_effective_dose":  columnMinimumEffectiveDose,
	"minimumn_effective_dose": columnMinimumEffectiveDose, // spelling used by older tables
	"generation":              columnGeneration,
	"half_life":               columnHalfLife,
	"cyp450_enzymes":          columnCYP450Enzymes,
}

type column struct {
	header string
	kind   columnKind
}

// CSVSource reads a delimited table file. The first column holds the drug
// name and the header must contain a defined_daily_dose column.
type CSVSource struct {
	Path  string
	Comma rune
}

// NewCSVSource creates a source for path, tab delimited for .tsv files
func NewCSVSource(path string) *CSVSource {
	comma := ','
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		comma = '\t'
	}
	return &CSVSource{Path: path, Comma: comma}
}

func (s *CSVSource) Name() string {
	return s.Path
}

func (s *CSVSource) Load() (*Table, error) {
	r, err := openTableFile(s.Path)
	if err != nil {
		return nil, err
	}
	return parseCSV(s.Path, r, s.Comma)
}

// parseCSV builds a table from delimited text. Row numbers in errors are
// file line numbers, the header being line 1.
func parseCSV(source string, r io.Reader, comma rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &RowError{Reason: "file is empty"}
	}
	if err != nil {
		return nil, csvReadError(err)
	}

	headerLine, _ := reader.FieldPos(0)
	columns, err := parseHeader(headerLine, header)
	if err != nil {
		return nil, err
	}

	b := newBuilder(source)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvReadError(err)
		}

		line, _ := reader.FieldPos(0)
		if isBlankRecord(record) {
			continue
		}

		if len(record) != len(columns) {
			return nil, &RowError{
				Row:    line,
				Drug:   strings.TrimSpace(record[0]),
				Reason: fmt.Sprintf("expected %d columns, got %d", len(columns), len(record)),
			}
		}

		drug, err := decodeRecord(line, columns, record)
		if err != nil {
			return nil, err
		}

		if err := b.add(line, drug); err != nil {
			return nil, err
		}
	}

	return b.build()
}

// columnKey folds a header cell so "Half-life" and "half life" match half_life
func columnKey(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	return key
}

func parseHeader(line int, header []string) ([]column, error) {
	if columnKey(header[0]) != "drug" {
		return nil, &RowError{Row: line, Reason: fmt.Sprintf("first column must be Drug, got %q", header[0])}
	}

	columns := make([]column, len(header))
	seenKinds := make(map[columnKind]string)
	seenExtra := make(map[string]bool)

	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			return nil, &RowError{Row: line, Reason: fmt.Sprintf("column %d has no name", i+1)}
		}

		kind, known := knownColumns[columnKey(name)]
		if !known {
			kind = columnExtra
		}
		if i > 0 && kind == columnName {
			return nil, &RowError{Row: line, Reason: "Drug column appears more than once"}
		}

		if kind == columnExtra {
			if seenExtra[columnKey(name)] {
				return nil, &RowError{Row: line, Reason: fmt.Sprintf("duplicate column %q", name)}
			}
			seenExtra[columnKey(name)] = true
		} else {
			if previous, dup := seenKinds[kind]; dup {
				return nil, &RowError{Row: line, Reason: fmt.Sprintf("columns %q and %q hold the same field", previous, name)}
			}
			seenKinds[kind] = name
		}

		columns[i] = column{header: name, kind: kind}
	}

	if _, ok := seenKinds[columnDefinedDailyDose]; !ok {
		return nil, &RowError{Row: line, Reason: fmt.Sprintf("missing required column %s", entities.DefinedDailyDose)}
	}

	return columns, nil
}

func decodeRecord(line int, columns []column, record []string) (entities.Drug, error) {
	drug := entities.Drug{Name: strings.TrimSpace(record[0])}
	name := NormalizeName(drug.Name)

	for i, col := range columns {
		cell := strings.TrimSpace(record[i])

		switch col.kind {
		case columnName:
			// already taken
		case columnDefinedDailyDose:
			value, present, err := parseMetricCell(cell)
			if err != nil {
				return drug, &RowError{Row: line, Drug: name, Reason: fmt.Sprintf("%s: %v", entities.DefinedDailyDose, err)}
			}
			if !present {
				return drug, &RowError{Row: line, Drug: name, Reason: fmt.Sprintf("missing required value %s", entities.DefinedDailyDose)}
			}
			drug.DefinedDailyDose = value
		case columnEffectiveDose95, columnMinimumEffectiveDose:
			value, present, err := parseMetricCell(cell)
			if err != nil {
				return drug, &RowError{Row: line, Drug: name, Reason: fmt.Sprintf("%s: %v", col.header, err)}
			}
			if !present {
				continue
			}
			if col.kind == columnEffectiveDose95 {
				drug.EffectiveDose95 = entities.Float(value)
			} else {
				drug.MinimumEffectiveDose = entities.Float(value)
			}
		case columnGeneration:
			drug.Generation = cell
		case columnHalfLife:
			drug.HalfLife = cell
		case columnCYP450Enzymes:
			drug.CYP450Enzymes = cell
		case columnExtra:
			if cell == "" {
				continue
			}
			if drug.Attributes == nil {
				drug.Attributes = make(map[string]entities.Attribute)
			}
			drug.Attributes[col.header] = sniffAttribute(cell)
		}
	}

	return drug, nil
}

// parseMetricCell parses a metric cell. An empty cell is absent, not zero.
func parseMetricCell(cell string) (float64, bool, error) {
	if cell == "" {
		return 0, false, nil
	}
	if !decimalRegex.MatchString(cell) {
		return 0, false, fmt.Errorf("%q is not an unsigned decimal number", cell)
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%q is not a valid number: %w", cell, err)
	}
	return value, true, nil
}

// sniffAttribute keeps the raw text of an extra cell and adds its numeric
// value when it looks like an unsigned decimal number
func sniffAttribute(cell string) entities.Attribute {
	attr := entities.Attribute{Text: cell}
	if decimalRegex.MatchString(cell) {
		if value, err := strconv.ParseFloat(cell, 64); err == nil {
			attr.Number = value
			attr.Numeric = true
		}
	}
	return attr
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func csvReadError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return &RowError{Row: parseErr.StartLine, Reason: parseErr.Err.Error()}
	}
	return fmt.Errorf("%w: %v", ErrInvalidData, err)
}
