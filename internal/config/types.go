package config

// Config is the frozen v1 schema for the scanner.
type Config struct {
	Version   int             `toml:"version"`
	Registry  RegistryConfig  `toml:"registry"`
	Scan      ScanConfig      `toml:"scan"`
	Integrity IntegrityConfig `toml:"integrity"`
	Logging   LoggingConfig   `toml:"logging"`
}

// RegistryConfig points the resolver at the primary registry and the
// secondary hash database.
type RegistryConfig struct {
	BaseURL       string `toml:"base_url"`
	SecondaryURL  string `toml:"secondary_url,omitempty"`
	Timeout       string `toml:"timeout"`
	RetryAttempts int    `toml:"retry_attempts"`
}

type ScanConfig struct {
	Workers        int      `toml:"workers"`
	DisabledTokens []string `toml:"disabled_tokens,omitempty"`
	AuditLog       string   `toml:"audit_log,omitempty"`
}

type IntegrityConfig struct {
	// TamperThreshold is the byte delta above which a size mismatch is
	// classified as tampering rather than repackaging. 0 means default.
	TamperThreshold int64 `toml:"tamper_threshold"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}
