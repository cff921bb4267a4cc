package drugtable

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/giygas/antipsychotic-switch/logging"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// openTableFile reads a table file and returns its content as UTF-8.
// Spreadsheet exports are often ISO-8859-1, so anything that is not valid
// UTF-8 is decoded from ISO-8859-1.
func openTableFile(path string) (io.Reader, error) {
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to read drug table %s: %w", path, err)
	}

	content = bytes.TrimPrefix(content, utf8BOM)

	if utf8.Valid(content) {
		return bytes.NewReader(content), nil
	}

	logging.Debug("Drug table is not valid UTF-8, decoding as ISO-8859-1", "path", path)
	return charmap.ISO8859_1.NewDecoder().Reader(bytes.NewReader(content)), nil
}
