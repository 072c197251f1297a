package messaging

import "context"

// Config holds codec defaults.
type Config struct {
	// DisableValidation skips the validation pass of Encode unless a call
	// asks for it with WithValidation.
	DisableValidation bool `yaml:"disable_validation" envconfig:"MESSAGING_DISABLE_VALIDATION"`
}

// Logger is the logging contract the codec needs. *logger.Logger satisfies it.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}
