// Package metrics exposes store commit and job outcomes for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/woodfy/workshop-api/internal/store"
)

const namespace = "workshop"

// Metrics holds the collectors of the API. It implements store.Observer.
type Metrics struct {
	registry *prometheus.Registry

	commits        *prometheus.CounterVec
	commitFailures *prometheus.CounterVec
	commitDuration prometheus.Histogram
	stageRuns      *prometheus.CounterVec
	revision       prometheus.Gauge
	jobRuns        *prometheus.CounterVec
}

var _ store.Observer = (*Metrics)(nil)

// New creates the collectors on a private registry together with the Go
// runtime and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_commits_total",
			Help:      "Committed mutations by written collection, including collections rewritten by derived-field stages.",
		}, []string{"collection"}),
		commitFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_commit_failures_total",
			Help:      "Mutations that did not become visible, by reason.",
		}, []string{"reason"}),
		commitDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_commit_duration_seconds",
			Help:      "Time spent settling and persisting a mutation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		stageRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_pipeline_stage_runs_total",
			Help:      "Pipeline stages that changed the snapshot.",
		}, []string{"stage"}),
		revision: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_revision",
			Help:      "Revision of the visible snapshot.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job runs by job and outcome.",
		}, []string{"job", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.commits,
		m.commitFailures,
		m.commitDuration,
		m.stageRuns,
		m.revision,
		m.jobRuns,
	)
	return m
}

// CommitApplied records a visible commit
func (m *Metrics) CommitApplied(c store.Commit) {
	for _, col := range c.Changed() {
		m.commits.WithLabelValues(string(col)).Inc()
	}
	for _, stage := range c.Stages {
		m.stageRuns.WithLabelValues(stage).Inc()
	}
	m.commitDuration.Observe(c.Duration.Seconds())
	m.revision.Set(float64(c.Revision))
}

// CommitFailed records a mutation that was rolled back
func (m *Metrics) CommitFailed(reason string) {
	m.commitFailures.WithLabelValues(reason).Inc()
}

// JobRun records the outcome of a background job run
func (m *Metrics) JobRun(job string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
}

// Registry returns the registry backing the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
