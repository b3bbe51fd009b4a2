package schema

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dictionary"
)

// ColumnName derives a SQL-safe column name for an attribute: the keyword in
// snake_case ("PatientName" -> "patient_name"), or "tag_ggggeeee" when the
// keyword is empty or normalizes to nothing.
func ColumnName(a dictionary.Attribute) string {
	if name := normalizeIdent(a.Keyword); name != "" {
		return name
	}
	if t := dictionary.NormalizeTag(a.Tag); t != "" {
		return "tag_" + t
	}
	return "col"
}

// normalizeIdent converts arbitrary text into a lowercase ASCII identifier:
//  1. strip accents (NFD -> remove Mn -> NFC)
//  2. split CamelCase words with underscores, keeping acronyms together
//     ("SOPInstanceUID" -> "sop_instance_uid")
//  3. keep [a-z0-9_]; convert space/dash/dot to underscore; drop others
//  4. prefix "c_" when the result starts with a digit
func normalizeIdent(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, strings.TrimSpace(s))

	rs := []rune(ascii)
	var b strings.Builder
	prevUnderscore := true
	for i, r := range rs {
		switch {
		case r >= 'A' && r <= 'Z':
			if !prevUnderscore && i > 0 && wordBoundary(rs, i) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			prevUnderscore = false
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}

	name := strings.Trim(b.String(), "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "c_" + name
	}
	return name
}

// wordBoundary reports whether the upper-case rune at i starts a new word:
// after a lower-case letter or digit, or as the last capital of an acronym
// followed by a lower-case letter.
func wordBoundary(rs []rune, i int) bool {
	prev := rs[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	if unicode.IsUpper(prev) && i+1 < len(rs) && unicode.IsLower(rs[i+1]) {
		return true
	}
	return false
}
