package glue

const (
	// DefaultDataFormat is the data format new schemas are created with.
	DefaultDataFormat = "AVRO"

	// DefaultCompatibility is the compatibility mode new schemas are created with.
	DefaultCompatibility = "BACKWARD"
)

// Config holds configuration for the Glue schema registry client.
type Config struct {
	// RegistryName is the Glue registry holding the schemas. Empty selects
	// the account's default registry.
	RegistryName string `yaml:"registry_name" envconfig:"GLUE_REGISTRY_NAME"`

	// Region is the AWS region of the registry. Empty defers to the AWS
	// default chain (AWS_REGION, shared config).
	Region string `yaml:"region" envconfig:"GLUE_REGION"`

	// DataFormat used by Register. Default: AVRO
	DataFormat string `yaml:"data_format" envconfig:"GLUE_DATA_FORMAT"`

	// Compatibility used by Register. Default: BACKWARD
	Compatibility string `yaml:"compatibility" envconfig:"GLUE_COMPATIBILITY"`
}

// StaticConfig configures a registry client built from raw credentials.
type StaticConfig struct {
	Config

	AccessKeyID     string `yaml:"access_key_id" envconfig:"GLUE_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" envconfig:"GLUE_SECRET_ACCESS_KEY"`

	// SessionToken is only needed for temporary credentials.
	SessionToken string `yaml:"session_token" envconfig:"GLUE_SESSION_TOKEN"`
}

func (c Config) withDefaults() Config {
	if c.DataFormat == "" {
		c.DataFormat = DefaultDataFormat
	}
	if c.Compatibility == "" {
		c.Compatibility = DefaultCompatibility
	}
	return c
}
