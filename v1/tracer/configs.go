package tracer

// Config defines the tracer provider settings.
type Config struct {
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv is reported as the deployment environment.
	AppEnv string `yaml:"app_env" envconfig:"TRACER_APP_ENV"`

	// EnableExport sends spans to an OTLP/HTTP collector. Without it spans
	// are created and propagated but not exported.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`

	// Endpoint is the collector host:port. The OTEL_EXPORTER_OTLP_* environment
	// variables apply when empty.
	Endpoint string `yaml:"endpoint" envconfig:"TRACER_ENDPOINT"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" envconfig:"TRACER_INSECURE"`
}

// Logger is the logging contract of the tracer. *logger.Logger satisfies it.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}
