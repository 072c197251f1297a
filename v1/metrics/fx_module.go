package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/glue-messaging/v1/logger"
	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
)

// FXModule provides *Metrics, the MetricsCollector interface and an
// observability.Observer backed by the metrics, and runs the /metrics server
// for the lifetime of the application.
//
// Usage:
//
//	app := fx.New(
//	    metrics.FXModule,
//	    messaging.FXModule, // picks up the observer
//	    fx.Supply(metrics.Config{Address: ":9090", ServiceName: "orders"}),
//	)
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		fx.Annotate(
			func(m *Metrics) MetricsCollector { return m },
			fx.As(new(MetricsCollector)),
		),
		func(m *Metrics) observability.Observer { return m },
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// MetricsLifecycleParams groups the dependencies of the metrics lifecycle.
type MetricsLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    *logger.Logger `optional:"true"`
}

// RegisterMetricsLifecycle starts the metrics server in the background on
// application start and shuts it down on stop.
func RegisterMetricsLifecycle(params MetricsLifecycleParams) {
	m, log := params.Metrics, params.Logger

	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if log != nil {
					log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
						"address": m.Server.Addr,
					})
				}
				if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) && log != nil {
					log.Error("Error starting Prometheus metrics server", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if log != nil {
				log.Info("Shutting down Prometheus metrics server", nil)
			}
			return m.Server.Shutdown(ctx)
		},
	})
}
