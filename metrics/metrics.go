// Package metrics exposes Prometheus metrics for scrape runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Article outcomes recorded in ArticlesTotal.
const (
	StatusOK        = "ok"
	StatusFailed    = "failed"
	StatusDuplicate = "duplicate"
)

var (
	// ArticlesTotal counts article candidates by outcome.
	ArticlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsharvest",
			Name:      "articles_total",
			Help:      "Total number of article candidates processed",
		},
		[]string{"publication", "status"},
	)

	// ListingFailuresTotal counts listing pages or feeds that could not be
	// fetched.
	ListingFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsharvest",
			Name:      "listing_failures_total",
			Help:      "Total number of failed listing fetches",
		},
		[]string{"publication"},
	)

	// ScrapeDuration measures one publication's scrape.
	ScrapeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsharvest",
			Name:      "scrape_duration_seconds",
			Help:      "Duration of a publication scrape in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"publication"},
	)
)

// RecordArticle records one candidate outcome.
func RecordArticle(publication, status string) {
	ArticlesTotal.WithLabelValues(publication, status).Inc()
}

// RecordListingFailure records a failed listing fetch.
func RecordListingFailure(publication string) {
	ListingFailuresTotal.WithLabelValues(publication).Inc()
}

// RecordScrape records how long a publication took.
func RecordScrape(publication string, d time.Duration) {
	ScrapeDuration.WithLabelValues(publication).Observe(d.Seconds())
}
