// Package logger provides structured logging on top of Uber's zap.
//
// Every method takes a message, an optional error and optional field maps:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "orders"})
//	log.Info("Schema resolved", nil, map[string]interface{}{"schema_id": id.String()})
//	log.Error("Registry lookup failed", err, nil)
//
// The *WithContext variants attach trace_id and span_id from the OpenTelemetry
// span carried by the context when Config.EnableTracing is set, so log entries
// can be correlated with traces produced by the tracer package.
//
// Packages in this module do not import Logger directly. They declare the
// subset they need as a local interface, which *Logger satisfies:
//
//	type Logger interface {
//		DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
//		ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
//	}
//
// Configuration:
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_ENABLE_TRACING=true      # add trace/span ids to *WithContext entries
//	LOGGER_SERVICE_NAME=orders
//
// All methods are safe for concurrent use.
package logger
