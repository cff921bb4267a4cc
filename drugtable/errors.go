package drugtable

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceNotFound is returned when a table file does not exist
	ErrResourceNotFound = errors.New("drug table source not found")

	// ErrInvalidData is returned when a table source is malformed
	ErrInvalidData = errors.New("invalid drug table data")
)

// RowError identifies the row of a table source that failed validation.
// Row is 1-based and counts the header line in file sources; it is 0 when
// the problem is not tied to a single row.
type RowError struct {
	Row    int
	Drug   string
	Reason string
}

func (e *RowError) Error() string {
	switch {
	case e.Row > 0 && e.Drug != "":
		return fmt.Sprintf("%s: row %d (%s): %s", ErrInvalidData, e.Row, e.Drug, e.Reason)
	case e.Row > 0:
		return fmt.Sprintf("%s: row %d: %s", ErrInvalidData, e.Row, e.Reason)
	case e.Drug != "":
		return fmt.Sprintf("%s: %s: %s", ErrInvalidData, e.Drug, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", ErrInvalidData, e.Reason)
	}
}

// Unwrap lets errors.Is match ErrInvalidData
func (e *RowError) Unwrap() error {
	return ErrInvalidData
}
