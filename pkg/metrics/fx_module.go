package metrics

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		func(m *Metrics) prometheus.Registerer { return m.Registry },
		NewDBObserver,
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// RegisterMetricsLifecycle starts the exposition server on application start
// and shuts it down on stop.
func RegisterMetricsLifecycle(lifecycle fx.Lifecycle, metrics *Metrics) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := metrics.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return metrics.Server.Shutdown(ctx)
		},
	})
}
