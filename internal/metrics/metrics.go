// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics holds the Prometheus collectors for fetch and crawl
// activity. Collectors live on a private registry so independent runs and
// tests do not share counters; the CLI writes the registry to a node
// exporter textfile when asked.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for FetchAttempts.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics groups the collectors for one process.
type Metrics struct {
	Registry *prometheus.Registry

	// FetchAttempts counts individual HTTP attempts by outcome.
	FetchAttempts *prometheus.CounterVec

	// FetchExhausted counts lookups that failed every attempt.
	FetchExhausted prometheus.Counter

	// CrawlPapers counts papers added to a citation network, by direction.
	CrawlPapers *prometheus.CounterVec

	// CrawlSkipped counts non-root papers dropped after a failed fetch.
	CrawlSkipped prometheus.Counter

	// SearchPages counts corpus search pages received.
	SearchPages prometheus.Counter
}

// New registers a fresh set of collectors on a new registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		FetchAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citegraph_fetch_attempts_total",
			Help: "Semantic Scholar HTTP attempts by outcome.",
		}, []string{"outcome"}),
		FetchExhausted: f.NewCounter(prometheus.CounterOpts{
			Name: "citegraph_fetch_exhausted_total",
			Help: "Lookups that failed after every retry attempt.",
		}),
		CrawlPapers: f.NewCounterVec(prometheus.CounterOpts{
			Name: "citegraph_crawl_papers_total",
			Help: "Papers added to a citation network.",
		}, []string{"direction"}),
		CrawlSkipped: f.NewCounter(prometheus.CounterOpts{
			Name: "citegraph_crawl_skipped_total",
			Help: "Papers skipped because their lookup failed.",
		}),
		SearchPages: f.NewCounter(prometheus.CounterOpts{
			Name: "citegraph_search_pages_total",
			Help: "Corpus search result pages received.",
		}),
	}
}

// WriteTextfile writes the registry in the Prometheus text format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
