// Package generator runs a schema job end to end: load the attribute
// dictionary, build one table definition per configured table, render the
// dialect DDL, write it out and optionally apply it to a database.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/config"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/dictionary"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/metrics"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/schema"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/sqltype"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/storage"
)

// DefaultDialect is used when neither storage.kind nor output.dialect is set.
const DefaultDialect = "mysql"

// Options tune a Run.
type Options struct {
	// DryRun renders and writes DDL but never opens storage.
	DryRun bool
	// Out, when non-nil, receives the DDL instead of output.path.
	Out io.Writer
	// Verbose logs every skipped attribute and applied table.
	Verbose bool
}

// TableResult is the outcome for one configured table.
type TableResult struct {
	Def         schema.TableDef
	DDL         string
	Fingerprint string
	Skipped     []schema.Skipped
	Missing     []string
	// Oversized names columns whose length exceeds what the dialect accepts.
	Oversized   []string
	// Drift is set after apply when the live table differs from Def.
	Drift       storage.Drift
}

// lengthLimits caps declared lengths per dialect and type. MySQL tables are
// created utf8mb4, where VARCHAR holds at most 16383 characters.
var lengthLimits = map[string]map[string]int64{
	"mysql": {
		sqltype.TypeVarchar: 16383,
		sqltype.TypeChar:    255,
		sqltype.TypeDecimal: 65,
	},
}

// oversized returns the columns of td whose length the dialect rejects.
func oversized(dialect string, td schema.TableDef) []string {
	limits := lengthLimits[dialect]
	if limits == nil {
		return nil
	}
	var out []string
	for _, c := range td.Columns {
		if limit, ok := limits[c.Type.Type]; ok && c.Type.Length > limit {
			out = append(out, c.Name)
		}
	}
	return out
}

// Summary reports what a Run did.
type Summary struct {
	Job        string
	Dialect    string
	Attributes int
	Tables     []TableResult
	Applied    int
}

// Skipped returns the total number of skipped attributes across tables.
func (s Summary) Skipped() int {
	n := 0
	for _, t := range s.Tables {
		n += len(t.Skipped)
	}
	return n
}

// Dialect picks the DDL renderer for job: the storage kind when set, then
// output.dialect, then DefaultDialect.
func Dialect(job config.Job) string {
	if k := strings.TrimSpace(job.Storage.Kind); k != "" {
		return k
	}
	if d := strings.ToLower(strings.TrimSpace(job.Output.Dialect)); d != "" {
		return d
	}
	return DefaultDialect
}

// Run executes job. Tables are built concurrently (bounded by
// runtime.workers) but written and applied in configured order. The first
// failing table aborts the run.
func Run(ctx context.Context, job config.Job, opts Options) (Summary, error) {
	sum := Summary{Job: job.Job, Dialect: Dialect(job)}

	policy, err := sqltype.ParsePolicy(job.Policy)
	if err != nil {
		return sum, err
	}
	if len(job.Tables) == 0 {
		return sum, fmt.Errorf("generator: job %q has no tables", job.Job)
	}

	// 1) Load dictionary.
	start := time.Now()
	attrs, err := dictionary.Load(job.Dictionary.Path, job.Dictionary.Format, job.Dictionary.Options)
	metrics.RecordStep(job.Job, "load", err, time.Since(start))
	if err != nil {
		return sum, err
	}
	sum.Attributes = len(attrs)

	// 2) Build and render every table.
	start = time.Now()
	results, err := buildAll(ctx, job, attrs, policy, sum.Dialect)
	metrics.RecordStep(job.Job, "build", err, time.Since(start))
	if err != nil {
		return sum, err
	}
	sum.Tables = results
	report(job.Job, sum.Dialect, results, opts.Verbose)
	metrics.RecordTables(job.Job, int64(len(results)))

	// 3) Write DDL.
	start = time.Now()
	err = writeOutput(job, sum, opts.Out)
	metrics.RecordStep(job.Job, "write", err, time.Since(start))
	if err != nil {
		return sum, err
	}

	// 4) Apply.
	if !job.Storage.DB.AutoCreateTable {
		return sum, nil
	}
	if opts.DryRun {
		log.Printf("dry-run: not applying %d table(s) to %s", len(results), job.Storage.Kind)
		return sum, nil
	}
	start = time.Now()
	sum.Applied, err = apply(ctx, job, results, opts.Verbose)
	metrics.RecordStep(job.Job, "apply", err, time.Since(start))
	return sum, err
}

func buildAll(ctx context.Context, job config.Job, attrs []dictionary.Attribute, policy sqltype.Policy, dialect string) ([]TableResult, error) {
	results := make([]TableResult, len(job.Tables))

	g, gctx := errgroup.WithContext(ctx)
	workers := job.Runtime.Workers
	if workers <= 0 {
		workers = len(job.Tables)
	}
	g.SetLimit(workers)

	for i, t := range job.Tables {
		i, t := i, t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := buildTable(t, attrs, policy, dialect)
			if err != nil {
				return fmt.Errorf("table %s: %w", t.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func buildTable(t config.Table, attrs []dictionary.Attribute, policy sqltype.Policy, dialect string) (TableResult, error) {
	if t.Policy != "" {
		p, err := sqltype.ParsePolicy(t.Policy)
		if err != nil {
			return TableResult{}, err
		}
		policy = p
	}

	selected, missing := dictionary.Filter(attrs, t.Include, t.SkipRetired)
	td, skipped, err := schema.Build(t.Name, selected, policy, t.PrimaryKey)
	if err != nil {
		return TableResult{}, err
	}
	ddl, err := storage.BuildDDL(dialect, td)
	if err != nil {
		return TableResult{}, err
	}
	return TableResult{
		Def:         td,
		DDL:         ddl,
		Fingerprint: schema.Fingerprint(td),
		Skipped:     skipped,
		Missing:     missing,
		Oversized:   oversized(dialect, td),
	}, nil
}

// report logs and counts per-attribute outcomes.
func report(job, dialect string, results []TableResult, verbose bool) {
	for _, r := range results {
		var invalidVM, unsupported int64
		for _, s := range r.Skipped {
			if errors.Is(s.Err, sqltype.ErrUnsupportedRepresentation) {
				unsupported++
			} else {
				invalidVM++
			}
			if verbose {
				log.Printf("table=%s skipped tag=%s keyword=%s vr=%s vm=%q err=%v",
					r.Def.FQN, s.Attribute.Tag, s.Attribute.Keyword, s.Attribute.VR, s.Attribute.VM, s.Err)
			}
		}
		for _, m := range r.Missing {
			log.Printf("table=%s include %q not found in dictionary", r.Def.FQN, m)
		}
		for _, name := range r.Oversized {
			log.Printf("WARN table=%s column=%s type=%s exceeds the %s length limit",
				r.Def.FQN, name, columnType(r.Def, name), dialect)
		}

		resolved := int64(0)
		for _, c := range r.Def.Columns {
			if c.Tag != "" {
				resolved++
			}
		}
		metrics.RecordAttributes(job, "resolved", resolved)
		metrics.RecordAttributes(job, "invalid_vm", invalidVM)
		metrics.RecordAttributes(job, "unsupported_vr", unsupported)
		metrics.RecordAttributes(job, "missing", int64(len(r.Missing)))

		if len(r.Skipped) > 0 || verbose {
			log.Printf("table=%s columns=%d skipped=%d missing=%d fingerprint=%s",
				r.Def.FQN, len(r.Def.Columns), len(r.Skipped), len(r.Missing), r.Fingerprint)
		}
	}
}

func columnType(td schema.TableDef, name string) string {
	for _, c := range td.Columns {
		if c.Name == name {
			return c.SQLType
		}
	}
	return ""
}

func writeOutput(job config.Job, sum Summary, out io.Writer) error {
	if out != nil {
		return WriteDDL(out, sum)
	}
	path := strings.TrimSpace(job.Output.Path)
	if path == "" || path == "-" {
		return WriteDDL(os.Stdout, sum)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("generator: create %s: %w", path, err)
	}
	if err := WriteDDL(f, sum); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("generator: close %s: %w", path, err)
	}
	return nil
}

// WriteDDL writes every rendered statement of sum in table order. Each
// statement is preceded by a comment carrying the table fingerprint.
func WriteDDL(w io.Writer, sum Summary) error {
	if _, err := fmt.Fprintf(w, "-- job: %s dialect: %s\n\n", sum.Job, sum.Dialect); err != nil {
		return fmt.Errorf("generator: write: %w", err)
	}
	for _, t := range sum.Tables {
		if _, err := fmt.Fprintf(w, "-- table: %s policy: %s fingerprint: %s\n%s\n\n",
			t.Def.FQN, t.Def.Policy, t.Fingerprint, t.DDL); err != nil {
			return fmt.Errorf("generator: write: %w", err)
		}
	}
	return nil
}

func apply(ctx context.Context, job config.Job, results []TableResult, verbose bool) (int, error) {
	kind := job.Storage.Kind
	repo, err := storage.New(ctx, storage.Config{Kind: kind, DSN: job.Storage.DB.DSN})
	if err != nil {
		return 0, err
	}
	defer repo.Close()

	applied := 0
	for i, r := range results {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if err := storage.EnsureTable(ctx, kind, repo, r.Def); err != nil {
			return applied, err
		}
		applied++
		if verbose {
			log.Printf("table ensured: %s", r.Def.FQN)
		}

		drift, ok, err := storage.VerifyTable(ctx, repo, r.Def)
		if err != nil {
			return applied, err
		}
		if ok && !drift.Empty() {
			results[i].Drift = drift
			log.Printf("WARN table=%s exists with other columns (%s); drop or migrate it to apply fingerprint=%s",
				r.Def.FQN, drift, r.Fingerprint)
		}
	}
	return applied, nil
}
