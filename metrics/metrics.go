// Package metrics counts fetches, reads, and selections made against the
// catalog and exposes them to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/climind/climind/capabilities"
	"github.com/climind/climind/data"
	"github.com/climind/climind/metadata"
)

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Metrics holds the catalog's Prometheus collectors
type Metrics struct {
	FetchesTotal    *prometheus.CounterVec
	FetchDuration   *prometheus.HistogramVec
	ReadsTotal      *prometheus.CounterVec
	SelectionsTotal prometheus.Counter

	gatherer prometheus.Gatherer
}

// creates the catalog's collectors and registers them with a new registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "climind_fetches_total",
				Help: "Total number of dataset file fetches",
			},
			[]string{"fetcher", "status"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "climind_fetch_duration_seconds",
				Help:    "Duration of dataset file fetches in seconds",
				Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"fetcher"},
		),
		ReadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "climind_reads_total",
				Help: "Total number of dataset reads",
			},
			[]string{"reader", "status"},
		),
		SelectionsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "climind_selections_total",
				Help: "Total number of metadata selections against the archive",
			},
		),
		gatherer: reg,
	}
}

func status(err error) string {
	if err != nil {
		return StatusFailed
	}
	return StatusSucceeded
}

// returns middleware that counts and times every fetch made through a registry
func (m *Metrics) FetchMiddleware() capabilities.FetchMiddleware {
	return func(name string, next capabilities.FetchFunc) capabilities.FetchFunc {
		return func(url, outDir string) error {
			start := time.Now()
			err := next(url, outDir)
			m.FetchDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
			m.FetchesTotal.WithLabelValues(name, status(err)).Inc()
			return err
		}
	}
}

// returns middleware that counts every read made through a registry
func (m *Metrics) ReadMiddleware() capabilities.ReadMiddleware {
	return func(name string, next capabilities.ReadFunc) capabilities.ReadFunc {
		return func(inputDir string, md metadata.Record, options capabilities.Options) (data.Data, error) {
			d, err := next(inputDir, md, options)
			m.ReadsTotal.WithLabelValues(name, status(err)).Inc()
			return d, err
		}
	}
}

// counts a selection against the archive
func (m *Metrics) ObserveSelection() {
	m.SelectionsTotal.Inc()
}

// returns an HTTP handler that serves the collected metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Creates the catalog's collectors and installs their fetch and read
// middleware in the given capability registry.
func Instrument(registry *capabilities.Registry) *Metrics {
	m := New()
	registry.UseFetchMiddleware(m.FetchMiddleware())
	registry.UseReadMiddleware(m.ReadMiddleware())
	return m
}
