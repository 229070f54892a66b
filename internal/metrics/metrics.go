// Package metrics exposes Prometheus collectors for the profile crawler.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesParsedTotal   *prometheus.CounterVec
	extractErrorsTotal prometheus.Counter
	thumbsStoredTotal  prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		pagesParsedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kpopnet_pages_parsed_total",
				Help: "Total number of pages parsed, labeled by page kind.",
			},
			[]string{"kind"},
		)

		extractErrorsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kpopnet_extract_errors_total",
				Help: "Total number of extraction or pipeline errors.",
			},
		)

		thumbsStoredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "kpopnet_thumbs_stored_total",
				Help: "Total number of thumbnails stored.",
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage increments the parsed-page counter for the given page kind.
func ObservePage(kind string) {
	if pagesParsedTotal != nil {
		pagesParsedTotal.WithLabelValues(kind).Inc()
	}
}

// ObserveError increments the pipeline error counter.
func ObserveError() {
	if extractErrorsTotal != nil {
		extractErrorsTotal.Inc()
	}
}

// ObserveThumb increments the stored-thumbnail counter.
func ObserveThumb() {
	if thumbsStoredTotal != nil {
		thumbsStoredTotal.Inc()
	}
}
