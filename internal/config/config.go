// Package config defines the JSON-serializable job model for the schema
// generator. A job names the attribute dictionary to read, the type policy,
// the tables to generate and where the resulting DDL goes.
//
// Decoding is done with encoding/json; parser-specific settings travel in a
// free-form Options bag with typed accessors.
//
// Example (trimmed):
//
//	{
//	  "job":        "dicom_headers",
//	  "dictionary": { "path": "dicom.csv", "format": "csv" },
//	  "policy":     "native",
//	  "tables":     [ { "name": "dicom.patient", "include": ["PatientName"] } ],
//	  "output":     { "path": "schema.sql" },
//	  "storage":    { "kind": "mysql", "db": { "dsn": "...", "auto_create_table": true } }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Job describes one schema-generation run. It is the top-level object decoded
// from a job file (e.g., configs/jobs/dicom_headers.json).
type Job struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// Dictionary locates the DICOM attribute catalog.
	Dictionary Dictionary `json:"dictionary"`

	// Policy selects the VR mapping table: "native" (default) or "string".
	Policy string `json:"policy"`

	// Tables lists the tables to generate, in output order.
	Tables []Table `json:"tables"`

	// Output controls where rendered DDL is written.
	Output Output `json:"output"`

	// Storage optionally applies the DDL to a live database.
	Storage Storage `json:"storage"`

	Runtime RuntimeConfig `json:"runtime"`
}

// Dictionary identifies the attribute catalog file.
type Dictionary struct {
	// Path is the local filesystem path to the catalog.
	Path string `json:"path"`

	// Format is "csv" or "json". When empty, the file extension decides.
	Format string `json:"format"`

	// Options is interpreted by the loader. For CSV:
	//   comma (string), skip_retired (bool)
	Options Options `json:"options"`
}

// Table describes one generated table.
type Table struct {
	// Name is the table name, optionally schema-qualified ("dicom.patient").
	Name string `json:"name"`

	// Include lists attribute keywords or tags ("(0010,0010)", "00100010").
	// Empty means every attribute in the dictionary.
	Include []string `json:"include"`

	// SkipRetired drops attributes flagged as retired.
	SkipRetired bool `json:"skip_retired"`

	// PrimaryKey optionally adds a surrogate BIGINT NOT NULL key column.
	PrimaryKey string `json:"primary_key"`

	// Policy overrides Job.Policy for this table.
	Policy string `json:"policy"`
}

// Output selects the DDL sink.
type Output struct {
	// Path is the file to write. Empty or "-" writes to stdout.
	Path string `json:"path"`

	// Dialect selects the renderer: "mysql" (default), "sqlite" or
	// "generic". When storage.kind is set, the storage kind wins.
	Dialect string `json:"dialect"`
}

// Storage selects the database the DDL is applied to.
type Storage struct {
	// Kind selects the backend ("mysql", "sqlite"). Empty disables applying.
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures the DDL target.
type DBConfig struct {
	// DSN is the driver connection string.
	DSN string `json:"dsn"`

	// AutoCreateTable executes the generated CREATE TABLE statements.
	AutoCreateTable bool `json:"auto_create_table"`
}

// RuntimeConfig controls concurrency.
type RuntimeConfig struct {
	// Workers bounds how many tables are built concurrently. Zero means one
	// worker per table.
	Workers int `json:"workers"`
}

// Load reads and decodes a job file.
func Load(path string) (Job, error) {
	f, err := os.Open(path)
	if err != nil {
		return Job{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var j Job
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&j); err != nil {
		return Job{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return j, nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps.
// It performs only minimal type coercion and returns the provided default
// when a key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Used for single-character settings such as a delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON makes a missing or null "options" object decode to a
// non-nil, empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
