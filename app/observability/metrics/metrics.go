package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	CityCountRequestsTotal       metric.Int64Counter
	CityCountResultSize          metric.Int64Histogram
	UpstreamFetchTotal           metric.Int64Counter
	UpstreamFetchDurationSeconds metric.Float64Histogram
	UpstreamCacheHitsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so the
// provider has to be installed before the first call.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("CityCounter")
		var err error
		m := &AppMetrics{}

		m.CityCountRequestsTotal, err = meter.Int64Counter(
			"city_count_requests_total",
			metric.WithDescription("Total number of /cities/count requests by filter mode"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create city_count_requests_total: %v", err)
		}

		m.CityCountResultSize, err = meter.Int64Histogram(
			"city_count_result_size",
			metric.WithDescription("Number of cities returned per request"),
			metric.WithUnit("{city}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create city_count_result_size: %v", err)
		}

		m.UpstreamFetchTotal, err = meter.Int64Counter(
			"upstream_fetch_total",
			metric.WithDescription("Total number of upstream city list fetches by outcome"),
			metric.WithUnit("{fetch}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_fetch_total: %v", err)
		}

		m.UpstreamFetchDurationSeconds, err = meter.Float64Histogram(
			"upstream_fetch_duration_seconds",
			metric.WithDescription("Duration of upstream city list fetches in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_fetch_duration_seconds: %v", err)
		}

		m.UpstreamCacheHitsTotal, err = meter.Int64Counter(
			"upstream_cache_hits_total",
			metric.WithDescription("Total number of city lists served from the upstream cache"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_cache_hits_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, initializing it
// against the current global MeterProvider if nothing did so yet.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
