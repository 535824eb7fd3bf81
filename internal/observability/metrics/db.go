package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DBPoolAcquiredConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blog_db_pool_acquired_connections",
			Help: "Connections currently checked out of the blog store pool",
		},
	)

	DBPoolIdleConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blog_db_pool_idle_connections",
			Help: "Idle connections held by the blog store pool",
		},
	)

	DBPoolMaxConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blog_db_pool_max_connections",
			Help: "Configured connection ceiling of the blog store pool",
		},
	)

	DBPoolTotalConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blog_db_pool_total_connections",
			Help: "Open connections in the blog store pool",
		},
	)

	DBSchemaVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blog_db_schema_version",
			Help: "Migration version the store reported after startup migrations",
		},
	)

	// table is one of users, posts, comments or unknown.
	DBQueryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blog_db_query_duration_seconds",
			Help:    "Duration of store queries in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation", "table"},
	)

	// error_type is "pg_" plus the SQLSTATE when postgres reported one.
	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_db_query_errors_total",
			Help: "Total number of store query errors",
		},
		[]string{"operation", "table", "error_type"},
	)
)
