package shared

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims and NFC-normalises user supplied identifiers so that
// visually identical names compare equal in unique indexes.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE pattern matching s literally anywhere in a
// value. Queries using it must declare ESCAPE '\'.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// NormalizeOptional applies NormalizeName and maps blank values to nil.
func NormalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := NormalizeName(*s)
	if v == "" {
		return nil
	}
	return &v
}
