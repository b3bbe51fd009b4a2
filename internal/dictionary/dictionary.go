// Package dictionary loads DICOM attribute catalogs (tag, keyword, VR, VM)
// from CSV or JSON files. It never interprets attribute values; it only
// describes which attributes exist and how they are declared.
package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/config"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dicom/vr"
)

// Attribute is one data dictionary entry.
type Attribute struct {
	Tag     string  `json:"tag"`     // "(gggg,eeee)"
	Keyword string  `json:"keyword"` // e.g. "PatientName"
	Name    string  `json:"name"`    // e.g. "Patient's Name"
	VR      vr.Code `json:"vr"`
	VM      string  `json:"vm"` // raw dictionary form, e.g. "1-n"
	Retired bool    `json:"retired"`
}

// Load opens path and decodes it as format ("csv" or "json"). An empty
// format is taken from the file extension.
func Load(path, format string, opts config.Options) ([]Attribute, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: open %s: %w", path, err)
	}
	defer f.Close()
	adviseSequential(f)

	var attrs []Attribute
	switch format {
	case "csv":
		attrs, err = LoadCSV(f, CSVOptions{
			Comma: opts.Rune("comma", ','),
		})
	case "json":
		attrs, err = LoadJSON(f)
	default:
		return nil, fmt.Errorf("dictionary: unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("dictionary: %s: %w", path, err)
	}
	if opts.Bool("skip_retired", false) {
		attrs = withoutRetired(attrs)
	}
	return attrs, nil
}

func withoutRetired(attrs []Attribute) []Attribute {
	out := attrs[:0:0]
	for _, a := range attrs {
		if !a.Retired {
			out = append(out, a)
		}
	}
	return out
}
