package metrics

// Default values for configuration
const (
	DefaultAddress   = ":9090"
	DefaultNamespace = "glue_messaging"
)

// Config defines the metrics server settings.
type Config struct {
	// Address is the listen address of the /metrics endpoint.
	Address string `yaml:"address" envconfig:"METRICS_ADDRESS"`

	// EnableDefaultCollectors registers Go runtime, process and build info collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" envconfig:"METRICS_ENABLE_DEFAULT_COLLECTORS"`

	// Namespace prefixes every built-in metric name.
	Namespace string `yaml:"namespace" envconfig:"METRICS_NAMESPACE"`

	// ServiceName is added as a constant "service" label to all metrics.
	ServiceName string `yaml:"service_name" envconfig:"METRICS_SERVICE_NAME"`
}
