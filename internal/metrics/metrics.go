// Package metrics exports the results of a run in the Prometheus text format.
//
// The runner is a short-lived process, so nothing is served: the gauges are
// written once to a textfile that node_exporter's textfile collector (or any
// other scraper of .prom files) picks up.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ctestkit/aitestrunner/internal/model"
)

const namespace = "ai_test_runner"

// Snapshot is everything exported for one run.
type Snapshot struct {
	Summary model.Summary
	// CoverageStatus is the coverage outcome status, e.g. "generated".
	// Empty when coverage did not run.
	CoverageStatus string
	CoverageTool   string
	// CoveragePercent is the total line coverage, or -1 if unknown.
	CoveragePercent float64
	Duration        time.Duration
	Success         bool
}

type collectors struct {
	executables *prometheus.GaugeVec
	assertions  *prometheus.GaugeVec
	coverage    *prometheus.GaugeVec
	linePercent prometheus.Gauge
	duration    prometheus.Gauge
	success     prometheus.Gauge
}

func newCollectors() *collectors {
	return &collectors{
		executables: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "executables",
			Help:      "Number of test executables by result",
		}, []string{"result"}),
		assertions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "test_functions",
			Help:      "Number of individual test functions by result",
		}, []string{"result"}),
		coverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coverage_status",
			Help:      "Coverage outcome; 1 for the status and tool of this run",
		}, []string{"status", "tool"}),
		linePercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coverage_line_percent",
			Help:      "Total line coverage in percent",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the run",
		}),
		success: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "1 if every test passed",
		}),
	}
}

func (c *collectors) register(reg *prometheus.Registry) error {
	for _, col := range []prometheus.Collector{c.executables, c.assertions, c.coverage, c.duration, c.success} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}

func (c *collectors) record(s Snapshot) {
	c.executables.WithLabelValues("total").Set(float64(s.Summary.Executables))
	c.executables.WithLabelValues("passed").Set(float64(s.Summary.ExecutablesPassed))
	c.executables.WithLabelValues("failed").Set(float64(s.Summary.ExecutablesFailed))

	c.assertions.WithLabelValues("total").Set(float64(s.Summary.IndividualTotal))
	c.assertions.WithLabelValues("passed").Set(float64(s.Summary.IndividualPassed))
	c.assertions.WithLabelValues("failed").Set(float64(s.Summary.IndividualFailed))

	if s.CoverageStatus != "" {
		c.coverage.WithLabelValues(s.CoverageStatus, s.CoverageTool).Set(1)
	}
	c.duration.Set(s.Duration.Seconds())
	if s.Success {
		c.success.Set(1)
	}
}

// NewRegistry returns a registry holding the gauges for s.
func NewRegistry(s Snapshot) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()
	c := newCollectors()
	if err := c.register(reg); err != nil {
		return nil, err
	}
	if s.CoveragePercent >= 0 {
		if err := reg.Register(c.linePercent); err != nil {
			return nil, err
		}
		c.linePercent.Set(s.CoveragePercent)
	}
	c.record(s)
	return reg, nil
}

// WriteTextfile writes s to path in the Prometheus text exposition format.
func WriteTextfile(path string, s Snapshot) error {
	reg, err := NewRegistry(s)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
