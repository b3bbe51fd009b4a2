package dictionary

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dicom/vr"
)

// CSVOptions configures LoadCSV.
type CSVOptions struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

var requiredColumns = []string{"tag", "keyword", "vr", "vm"}

// LoadCSV reads a header row followed by one attribute per row. Required
// columns are tag, keyword, vr and vm; name and retired are optional. Column
// order is free and header matching is case-insensitive. Tags may be written
// "(gggg,eeee)" without quoting.
func LoadCSV(r io.Reader, opt CSVOptions) ([]Attribute, error) {
	cr := csv.NewReader(r)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: missing header row")
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	idx := map[string]int{}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("csv: header missing %q column", col)
		}
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []Attribute
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		if isBlank(rec) {
			continue
		}
		rec = joinTagFields(rec)

		retired, err := parseRetired(get(rec, "retired"))
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		out = append(out, Attribute{
			Tag:     get(rec, "tag"),
			Keyword: get(rec, "keyword"),
			Name:    get(rec, "name"),
			VR:      parseVR(get(rec, "vr")),
			VM:      get(rec, "vm"),
			Retired: retired,
		})
	}
	return out, nil
}

// LoadJSON decodes an array of attribute objects. VR strings are read like
// the CSV column, so "US or SS" and "See Note" entries are accepted.
func LoadJSON(r io.Reader) ([]Attribute, error) {
	var raw []struct {
		Tag     string `json:"tag"`
		Keyword string `json:"keyword"`
		Name    string `json:"name"`
		VR      string `json:"vr"`
		VM      string `json:"vm"`
		Retired bool   `json:"retired"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("json: decode: %w", err)
	}

	out := make([]Attribute, 0, len(raw))
	for _, a := range raw {
		out = append(out, Attribute{
			Tag:     strings.TrimSpace(a.Tag),
			Keyword: strings.TrimSpace(a.Keyword),
			Name:    strings.TrimSpace(a.Name),
			VR:      parseVR(a.VR),
			VM:      strings.TrimSpace(a.VM),
			Retired: a.Retired,
		})
	}
	return out, nil
}

// parseVR resolves a dictionary VR column. Values outside the catalog
// ("See Note", empty) are kept upper-cased; sqltype.Resolve reports them as
// unsupported so the attribute is skipped instead of failing the load.
func parseVR(s string) vr.Code {
	if c, err := vr.Parse(s); err == nil {
		return c
	}
	return vr.Code(strings.ToUpper(strings.TrimSpace(s)))
}

// joinTagFields merges an unquoted "(gggg,eeee)" tag that the comma split
// into "(gggg" and "eeee)".
func joinTagFields(rec []string) []string {
	for i := 0; i+1 < len(rec); i++ {
		l, r := strings.TrimSpace(rec[i]), strings.TrimSpace(rec[i+1])
		if !strings.HasPrefix(l, "(") || !strings.HasSuffix(r, ")") ||
			!isTagHalf(l[1:]) || !isTagHalf(r[:len(r)-1]) {
			continue
		}
		out := make([]string, 0, len(rec)-1)
		out = append(out, rec[:i]...)
		out = append(out, l+","+r)
		return append(out, rec[i+2:]...)
	}
	return rec
}

func isTagHalf(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range strings.ToLower(s) {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r == 'x') {
			return false
		}
	}
	return true
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseRetired accepts booleans plus the dictionary's "RET" marker.
func parseRetired(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "-":
		return false, nil
	case "ret", "retired", "y", "yes":
		return true, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid retired flag %q", s)
	}
	return b, nil
}
