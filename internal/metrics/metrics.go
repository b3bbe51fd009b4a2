// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from schema generation runs.
//
// It exposes a narrow Backend interface (counters and timings) and a global,
// pluggable backend that defaults to a no-op, so the helpers are always safe
// to call. Concrete systems live in subpackages (prompush, datadog).
package metrics

import "time"

// Metric names emitted by the helpers below.
const (
	StepTotal       = "dcmschema_step_total"
	StepDuration    = "dcmschema_step_duration_seconds"
	AttributesTotal = "dcmschema_attributes_total"
	TablesTotal     = "dcmschema_tables_total"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(name string, delta float64, labels Labels)       {}
func (nopBackend) ObserveHistogram(name string, value float64, labels Labels) {}
func (nopBackend) Flush() error                                               { return nil }

var backend Backend = nopBackend{}

// SetBackend installs a concrete backend. Passing nil keeps the existing
// backend. Call it before any Record* helper runs.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	backend = b
}

// Flush delegates to the current backend.
func Flush() error {
	return backend.Flush()
}

// RecordStep records latency and success/failure of one generation step
// (load, build, render, write, apply).
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}

	lbls := Labels{
		"job":    job,
		"step":   step,
		"status": status,
	}

	backend.IncCounter(StepTotal, 1, lbls)
	backend.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordAttributes counts dictionary attributes by outcome. Kinds used by
// the generator:
//   - "resolved"
//   - "invalid_vm"
//   - "unsupported_vr"
//   - "missing" (include entries not found in the dictionary)
func RecordAttributes(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(AttributesTotal, float64(delta), Labels{
		"job":  job,
		"kind": kind,
	})
}

// RecordTables increments the number of tables rendered for job.
func RecordTables(job string, delta int64) {
	if delta <= 0 {
		return
	}
	backend.IncCounter(TablesTotal, float64(delta), Labels{
		"job": job,
	})
}
