// internal/monitoring/metrics.go
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics manages Prometheus metrics for the scraping pipeline.
type Metrics struct {
	registry *prometheus.Registry

	pagesScraped    prometheus.Counter
	scrapeErrors    prometheus.Counter
	scrapeDuration  prometheus.Histogram
	linksDiscovered prometheus.Counter
	discoveryMisses prometheus.Counter
	recordsUpserted *prometheus.CounterVec
	validations     *prometheus.CounterVec
	exportedRecords prometheus.Counter
}

// NewMetrics creates metrics on a private registry, prefixed with the
// given namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "journalscrapexter"
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		pagesScraped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_scraped_total",
			Help:      "Total article pages scraped successfully",
		}),
		scrapeErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrape_errors_total",
			Help:      "Total article page fetches that failed",
		}),
		scrapeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Article scrape duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		linksDiscovered: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_discovered_total",
			Help:      "Total article links discovered on listing pages",
		}),
		discoveryMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discovery_misses_total",
			Help:      "Listing pages where no selector yielded links",
		}),
		recordsUpserted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_upserted_total",
			Help:      "Records written to the store, by outcome",
		}, []string{"outcome"}),
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "doi_validations_total",
			Help:      "DOI validations performed, by remark",
		}, []string{"remark"}),
		exportedRecords: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exported_records_total",
			Help:      "Records written to Excel exports",
		}),
	}
}

// Handler returns an HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveScrape records one article scrape attempt. All methods are
// nil-safe so metrics stay optional throughout the pipeline.
func (m *Metrics) ObserveScrape(duration time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.scrapeErrors.Inc()
		return
	}
	m.pagesScraped.Inc()
	m.scrapeDuration.Observe(duration.Seconds())
}

// ObserveDiscovery records one listing-page discovery attempt.
func (m *Metrics) ObserveDiscovery(linkCount int) {
	if m == nil {
		return
	}
	if linkCount == 0 {
		m.discoveryMisses.Inc()
		return
	}
	m.linksDiscovered.Add(float64(linkCount))
}

// ObserveUpsert records a store write with its new/updated outcome.
func (m *Metrics) ObserveUpsert(updated bool) {
	if m == nil {
		return
	}
	outcome := "new"
	if updated {
		outcome = "updated"
	}
	m.recordsUpserted.WithLabelValues(outcome).Inc()
}

// ObserveValidation records one DOI validation result.
func (m *Metrics) ObserveValidation(remark string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(remark).Inc()
}

// ObserveExport records the size of an Excel export.
func (m *Metrics) ObserveExport(recordCount int) {
	if m == nil {
		return
	}
	m.exportedRecords.Add(float64(recordCount))
}
