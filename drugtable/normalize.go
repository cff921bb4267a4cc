package drugtable

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName turns a drug name into its table key: NFC form, surrounding
// space trimmed, inner whitespace collapsed, lower case with an upper case
// first letter. Table construction and lookups both go through it, so
// "  hALOPERIDOL " finds "Haloperidol".
func NormalizeName(name string) string {
	name = strings.Join(strings.Fields(norm.NFC.String(name)), " ")
	if name == "" {
		return ""
	}

	// A Caser is stateful, so each call builds its own
	lowered := cases.Lower(language.Und).String(name)

	first, size := utf8.DecodeRuneInString(lowered)
	return string(unicode.ToUpper(first)) + lowered[size:]
}
