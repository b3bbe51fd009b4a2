// Package vr holds the DICOM value representation catalog (PS3.5 §6.2) and
// helpers to read value multiplicity strings from the data dictionary.
//
// The catalog is closed: codes are the two-letter identifiers defined by the
// standard and are never created or mutated at runtime.
package vr

import (
	"fmt"
	"sort"
	"strings"
)

// Code is a two-letter DICOM value representation, e.g. "PN" or "US".
type Code string

const (
	AE Code = "AE" // Application Entity
	AS Code = "AS" // Age String
	AT Code = "AT" // Attribute Tag
	CS Code = "CS" // Code String
	DA Code = "DA" // Date
	DS Code = "DS" // Decimal String
	DT Code = "DT" // Date Time
	FD Code = "FD" // Floating Point Double
	FL Code = "FL" // Floating Point Single
	IS Code = "IS" // Integer String
	LO Code = "LO" // Long String
	LT Code = "LT" // Long Text
	OB Code = "OB" // Other Byte
	OD Code = "OD" // Other Double
	OF Code = "OF" // Other Float
	OL Code = "OL" // Other Long
	OV Code = "OV" // Other 64-bit Very Long
	OW Code = "OW" // Other Word
	PN Code = "PN" // Person Name
	SH Code = "SH" // Short String
	SL Code = "SL" // Signed Long
	SQ Code = "SQ" // Sequence of Items
	SS Code = "SS" // Signed Short
	ST Code = "ST" // Short Text
	SV Code = "SV" // Signed 64-bit Very Long
	TM Code = "TM" // Time
	UC Code = "UC" // Unlimited Characters
	UI Code = "UI" // Unique Identifier
	UL Code = "UL" // Unsigned Long
	UN Code = "UN" // Unknown
	UR Code = "UR" // Universal Resource Identifier
	US Code = "US" // Unsigned Short
	UT Code = "UT" // Unlimited Text
	UV Code = "UV" // Unsigned 64-bit Very Long
)

var catalog = map[Code]struct{}{
	AE: {}, AS: {}, AT: {}, CS: {}, DA: {}, DS: {}, DT: {}, FD: {}, FL: {},
	IS: {}, LO: {}, LT: {}, OB: {}, OD: {}, OF: {}, OL: {}, OV: {}, OW: {},
	PN: {}, SH: {}, SL: {}, SQ: {}, SS: {}, ST: {}, SV: {}, TM: {}, UC: {},
	UI: {}, UL: {}, UN: {}, UR: {}, US: {}, UT: {}, UV: {},
}

// String implements fmt.Stringer.
func (c Code) String() string { return string(c) }

// Known reports whether c is part of the catalog.
func (c Code) Known() bool {
	_, ok := catalog[c]
	return ok
}

// All returns every catalog code in lexical order.
func All() []Code {
	out := make([]Code, 0, len(catalog))
	for c := range catalog {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Parse converts a dictionary VR column into a Code. Matching is
// case-insensitive and ignores surrounding whitespace. Multi-VR dictionary
// entries such as "US or SS" or "OB or OW" resolve to the first listed code.
func Parse(s string) (Code, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return "", fmt.Errorf("vr: empty value representation")
	}
	first := raw
	if fields := strings.Fields(raw); len(fields) > 0 {
		first = fields[0]
	}
	c := Code(strings.ToUpper(first))
	if !c.Known() {
		return "", fmt.Errorf("vr: unknown value representation %q", s)
	}
	return c, nil
}
