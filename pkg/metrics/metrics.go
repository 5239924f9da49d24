package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// HTTPRequestsTotal counts handled requests by route, method and status
var HTTPRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "minitask_http_requests_total",
		Help: "Total number of HTTP requests handled",
	},
	[]string{"path", "method", "status"},
)

// HTTPRequestDuration records request latency by route and method
var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "minitask_http_request_duration_seconds",
		Help:    "Latency in seconds to serve HTTP requests",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"path", "method"},
)

// TaskOperations counts task store operations by operation and outcome
var TaskOperations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "minitask_task_operations_total",
		Help: "Total number of task store operations",
	},
	[]string{"op", "result"},
)

// SchemaBootstrapAttempts counts startup schema attempts by outcome
var SchemaBootstrapAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "minitask_schema_bootstrap_attempts_total",
		Help: "Startup attempts to reach the database and ensure the schema",
	},
	[]string{"result"},
)

// Database connection pool metrics
var (
	DBOpenConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "minitask_db_open_connections",
			Help: "Number of open connections in the DB pool",
		},
		[]string{"db"},
	)

	DBIdleConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "minitask_db_idle_connections",
			Help: "Number of idle connections in the DB pool",
		},
		[]string{"db"},
	)

	DBInUseConns = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "minitask_db_in_use_connections",
			Help: "Number of in-use connections in the DB pool",
		},
		[]string{"db"},
	)

	DBWaitCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "minitask_db_wait_count",
			Help: "Total number of connections waited for",
		},
		[]string{"db"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration)
	prometheus.MustRegister(TaskOperations, SchemaBootstrapAttempts)
	prometheus.MustRegister(DBOpenConns, DBIdleConns, DBInUseConns, DBWaitCount)
}
