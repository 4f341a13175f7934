package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nexdata-io/dbkit/pkg/database"
)

// DBObserver exposes database operation counts and latencies as Prometheus
// metrics. It implements database.Observer; attach it with
// db.WithObserver(observer).
type DBObserver struct {
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	rows       *prometheus.CounterVec
}

var _ database.Observer = (*DBObserver)(nil)

// NewDBObserver creates the observer and registers its collectors on the
// given registry.
func NewDBObserver(registry prometheus.Registerer) *DBObserver {
	o := &DBObserver{
		operations: createCounterVec(
			"dbkit_db_operations_total",
			"Database operations executed, by operation and outcome.",
			[]string{"component", "operation", "outcome"},
		),
		latency: createHistogramVec(
			"dbkit_db_operation_duration_seconds",
			"Database operation latency in seconds.",
			[]string{"component", "operation"},
			prometheus.DefBuckets,
		),
		rows: createCounterVec(
			"dbkit_db_rows_affected_total",
			"Rows affected by database operations.",
			[]string{"component", "operation"},
		),
	}

	registry.MustRegister(o.operations, o.latency, o.rows)
	return o
}

// ObserveOperation implements database.Observer.
func (o *DBObserver) ObserveOperation(ctx database.OperationContext) {
	outcome := "success"
	if ctx.Err != nil {
		outcome = "error"
	}

	o.operations.WithLabelValues(ctx.Component, ctx.Operation, outcome).Inc()
	o.latency.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
	if ctx.Rows > 0 {
		o.rows.WithLabelValues(ctx.Component, ctx.Operation).Add(float64(ctx.Rows))
	}
}
