package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config controls the level and enrichment of log output.
type Config struct {
	// Level is one of debug, info, warning, error. Anything else maps to info.
	Level string `yaml:"level" envconfig:"ZAP_LOGGER_LEVEL"`

	// EnableTracing adds trace_id and span_id to entries logged through the
	// *WithContext methods when the context carries an OpenTelemetry span.
	EnableTracing bool `yaml:"enable_tracing" envconfig:"LOGGER_ENABLE_TRACING"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" envconfig:"LOGGER_SERVICE_NAME"`
}
