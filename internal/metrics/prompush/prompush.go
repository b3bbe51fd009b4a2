// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package.
//
// Schema generation is a short-lived batch job, so instead of exposing a
// scrape endpoint the backend collects into a private registry and pushes it
// to a Pushgateway on Flush. The metrics "job" label becomes the Pushgateway
// grouping key and is not repeated as a Prometheus label.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	stepCounter  *prometheus.CounterVec   // dcmschema_step_total
	stepDuration *prometheus.HistogramVec // dcmschema_step_duration_seconds
	attrCounter  *prometheus.CounterVec   // dcmschema_attributes_total
	tableCounter prometheus.Counter       // dcmschema_tables_total
}

// NewBackend constructs a Prometheus Pushgateway backend. jobName defaults
// to "dcmschema".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "dcmschema"
	}

	reg := prometheus.NewRegistry()

	stepCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Generation step executions, partitioned by step and status.",
		},
		[]string{"step", "status"},
	)
	stepDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    metrics.StepDuration,
			Help:    "Duration of generation steps in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"step", "status"},
	)
	attrCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: metrics.AttributesTotal,
			Help: "Dictionary attributes per outcome (resolved, invalid_vm, unsupported_vr, missing).",
		},
		[]string{"kind"},
	)
	tableCounter := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: metrics.TablesTotal,
			Help: "Tables rendered for this job.",
		},
	)

	for _, c := range []struct {
		what string
		c    prometheus.Collector
	}{
		{"step counter", stepCounter},
		{"step histogram", stepDuration},
		{"attribute counter", attrCounter},
		{"table counter", tableCounter},
	} {
		if err := reg.Register(c.c); err != nil {
			return nil, fmt.Errorf("prompush: register %s: %w", c.what, err)
		}
	}

	return &Backend{
		gatewayURL:   gatewayURL,
		jobName:      jobName,
		reg:          reg,
		stepCounter:  stepCounter,
		stepDuration: stepDuration,
		attrCounter:  attrCounter,
		tableCounter: tableCounter,
	}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		if b.stepCounter == nil {
			return
		}
		b.stepCounter.WithLabelValues(labels["step"], labels["status"]).Add(delta)

	case metrics.AttributesTotal:
		if b.attrCounter == nil {
			return
		}
		b.attrCounter.WithLabelValues(labels["kind"]).Add(delta)

	case metrics.TablesTotal:
		if b.tableCounter == nil {
			return
		}
		b.tableCounter.Add(delta)
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDuration || b.stepDuration == nil {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

// Flush pushes the current registry to the Pushgateway, replacing the
// previous push for the same job.
func (b *Backend) Flush() error {
	return push.New(b.gatewayURL, b.jobName).
		Gatherer(b.reg).
		Push()
}
