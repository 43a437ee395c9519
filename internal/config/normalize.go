package config

func Normalize(cfg Config) Config {
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	if cfg.Registry.BaseURL == "" {
		cfg.Registry.BaseURL = DefaultRegistryURL
	}
	if cfg.Registry.Timeout == "" {
		cfg.Registry.Timeout = DefaultTimeout
	}
	if cfg.Registry.RetryAttempts <= 0 {
		cfg.Registry.RetryAttempts = 3
	}
	if cfg.Scan.Workers <= 0 {
		cfg.Scan.Workers = 4
	}
	if cfg.Integrity.TamperThreshold <= 0 {
		cfg.Integrity.TamperThreshold = 1024
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	return cfg
}
