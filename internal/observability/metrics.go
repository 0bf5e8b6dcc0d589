package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "corkboard_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	BoardsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corkboard_boards_created_total",
		Help: "Total number of boards created",
	})

	PostsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corkboard_posts_created_total",
		Help: "Total number of posts created",
	})

	PostsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corkboard_posts_deleted_total",
		Help: "Total number of posts deleted",
	})

	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "corkboard_sessions_created_total",
		Help: "Total number of login sessions issued",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
