// Package config provides configuration models and helpers for schema jobs.
//
// This file adds a lightweight linter for Job values. It performs static
// checks over a decoded Job and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/sqltype"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that should be surfaced but does not
	// block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Job.
//
// Path is a dotted path into the config (e.g. "storage.kind",
// "tables[1].name"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateJob performs static validation of a Job. It does not mutate the
// job and does not touch the filesystem or network.
func ValidateJob(j Job) []Issue {
	var issues []Issue

	if strings.TrimSpace(j.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	if _, err := sqltype.ParsePolicy(j.Policy); err != nil {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "policy",
			Message:  fmt.Sprintf("unknown policy %q; use \"native\" or \"string\"", j.Policy),
		})
	}
	issues = append(issues, validateDictionary(j.Dictionary)...)
	issues = append(issues, validateTables(j.Tables)...)
	issues = append(issues, validateOutput(j.Output)...)
	issues = append(issues, validateStorage(j.Storage)...)
	if j.Runtime.Workers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.workers",
			Message:  "workers must not be negative",
		})
	}

	return issues
}

func validateDictionary(d Dictionary) []Issue {
	var issues []Issue

	if strings.TrimSpace(d.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "dictionary.path",
			Message:  "dictionary.path must not be empty",
		})
		return issues
	}

	format := strings.ToLower(strings.TrimSpace(d.Format))
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(d.Path)), ".")
	}
	switch format {
	case "csv", "json":
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "dictionary.format",
			Message:  fmt.Sprintf("unsupported dictionary format %q; use \"csv\" or \"json\"", format),
		})
	}

	if c := d.Options.String("comma", ""); c != "" && len([]rune(c)) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "dictionary.options.comma",
			Message:  fmt.Sprintf("comma %q has more than one character; only the first is used", c),
		})
	}

	return issues
}

func validateTables(ts []Table) []Issue {
	var issues []Issue

	if len(ts) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "tables",
			Message:  "at least one table is required",
		})
		return issues
	}

	seen := map[string]int{}
	for i, t := range ts {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("tables[%d].name", i),
				Message:  "table name must not be empty",
			})
			continue
		}
		key := strings.ToLower(name)
		if prev, ok := seen[key]; ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("tables[%d].name", i),
				Message:  fmt.Sprintf("table %q duplicates tables[%d]", name, prev),
			})
		} else {
			seen[key] = i
		}
		if t.Policy != "" {
			if _, err := sqltype.ParsePolicy(t.Policy); err != nil {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     fmt.Sprintf("tables[%d].policy", i),
					Message:  fmt.Sprintf("unknown policy %q", t.Policy),
				})
			}
		}
		if len(t.Include) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("tables[%d].include", i),
				Message:  "no include list; every dictionary attribute becomes a column",
			})
		}
	}

	return issues
}

func validateOutput(o Output) []Issue {
	switch strings.ToLower(strings.TrimSpace(o.Dialect)) {
	case "", "mysql", "sqlite", "generic":
		return nil
	default:
		return []Issue{{
			Severity: SeverityError,
			Path:     "output.dialect",
			Message:  fmt.Sprintf("unknown dialect %q; use mysql, sqlite or generic", o.Dialect),
		}}
	}
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		if s.DB.AutoCreateTable {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "storage.kind",
				Message:  "auto_create_table is true but storage.kind is empty",
			})
		}
		return issues
	}

	known := map[string]struct{}{
		"mysql":  {},
		"sqlite": {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if !s.DB.AutoCreateTable {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "storage.db.auto_create_table",
			Message:  "storage is configured but auto_create_table is false; DDL will only be written to output",
		})
	}

	return issues
}
