package config

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string

	// Err is the underlying error, if any.
	Err error
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
