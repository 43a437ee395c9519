package config

const (
	SchemaVersion = 1

	DefaultRegistryURL = "https://api.modrinth.com/v2/"
	DefaultTimeout     = "10s"
)

// DefaultConfig returns a fully-populated v1 config document.
func DefaultConfig() Config {
	return Config{
		Version: SchemaVersion,
		Registry: RegistryConfig{
			BaseURL:       DefaultRegistryURL,
			Timeout:       DefaultTimeout,
			RetryAttempts: 3,
		},
		Scan: ScanConfig{
			Workers: 4,
		},
		Integrity: IntegrityConfig{
			TamperThreshold: 1024,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
