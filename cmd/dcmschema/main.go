package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/config"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/generator"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/metrics"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/metrics/datadog"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/metrics/prompush"
	"github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/storage/mysql"

	// register all backends with the storage factory.
	_ "github.com/LucyQianLu/MySQL-Database-for-DICOM-header/internal/storage/all"
)

// main loads a job file, validates it, optionally initializes a metrics
// backend and runs the generator.
func main() {
	var (
		cfgPath           string
		metricsBackendFlg string
		pushGatewayURLFlg string
		datadogAddrFlg    string
		validate          bool
		dryRun            bool
	)

	flag.StringVar(&cfgPath, "config", "configs/jobs/dicom_headers.json", "job config JSON path")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend (pushgateway, datadog, none); env METRICS_BACKEND")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL; env PUSHGATEWAY_URL")
	flag.StringVar(&datadogAddrFlg, "datadog-addr", "", "DogStatsD address; env DATADOG_ADDR")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&dryRun, "dry-run", false, "render DDL but do not apply it")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	job, err := config.Load(cfgPath)
	if err != nil {
		fatalf("load config: %v", err)
	}

	issues := config.ValidateJob(job)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		log.Printf("Configuration is invalid: %v", cfgPath)
		os.Exit(1)
	}
	if validate {
		log.Printf("Configuration is valid: %v", cfgPath)
		os.Exit(0)
	}

	flush := setupMetrics(job.Job, metricsBackendFlg, pushGatewayURLFlg, datadogAddrFlg, *verbose)
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	start := time.Now()

	if *verbose {
		target := "none"
		if job.Storage.Kind != "" {
			target = job.Storage.Kind
			if job.Storage.Kind == "mysql" {
				target += " " + mysql.Redact(job.Storage.DB.DSN)
			}
		}
		log.Printf("job: name=%s dictionary=%s tables=%d dialect=%s storage=%s",
			job.Job, job.Dictionary.Path, len(job.Tables), generator.Dialect(job), target)
	}

	sum, err := generator.Run(ctx, job, generator.Options{DryRun: dryRun, Verbose: *verbose})
	if err != nil {
		flush()
		log.Fatalf("%v", err)
	}

	log.Printf("completed: attributes=%d tables=%d skipped=%d applied=%d in %s",
		sum.Attributes, len(sum.Tables), sum.Skipped(), sum.Applied,
		time.Since(start).Truncate(time.Millisecond))
}

// metricsTarget picks the backend name and its address. Flag values win over
// environment variables, which win over the local defaults.
func metricsTarget(backendFlg, gwFlg, ddFlg string, getenv func(string) string) (backend, addr string) {
	backend = firstNonEmpty(backendFlg, getenv("METRICS_BACKEND"))
	switch backend {
	case "pushgateway":
		addr = firstNonEmpty(gwFlg, getenv("PUSHGATEWAY_URL"), "http://localhost:9091")
	case "datadog":
		addr = firstNonEmpty(ddFlg, getenv("DATADOG_ADDR"), "127.0.0.1:8125")
	}
	return backend, addr
}

// setupMetrics installs the selected backend and returns its flush func.
func setupMetrics(job, backendFlg, gwFlg, ddFlg string, verbose bool) func() {
	nop := func() {}
	backendName, addr := metricsTarget(backendFlg, gwFlg, ddFlg, os.Getenv)

	var (
		b   metrics.Backend
		err error
	)
	switch backendName {
	case "pushgateway":
		b, err = prompush.NewBackend(job, addr)
		if err == nil {
			log.Printf("metrics: url=%v, backend=%v, job_name=%v", addr, backendName, job)
		}

	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{Addr: addr, GlobalTags: []string{"job:" + job}})
		if err == nil {
			log.Printf("metrics: addr=%v, backend=%v", addr, backendName)
		}

	case "", "none":
		if verbose {
			log.Printf("metrics: disabled (backend=%q)", backendName)
		}
		return nop

	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", backendName)
		return nop
	}

	if err != nil {
		log.Printf("metrics: failed to init %s backend: %v; using nop", backendName, err)
		return nop
	}
	metrics.SetBackend(b)

	done := false
	return func() {
		if done {
			return
		}
		done = true
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
