package config

import (
	"fmt"
	"net/url"
	"time"
)

var allowedLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

func Validate(cfg Config) error {
	if cfg.Version != SchemaVersion {
		return fmt.Errorf("CFG_VERSION: unsupported version %d", cfg.Version)
	}
	if cfg.Registry.BaseURL == "" {
		return fmt.Errorf("CFG_REGISTRY: missing registry base_url")
	}
	if _, err := url.Parse(cfg.Registry.BaseURL); err != nil {
		return fmt.Errorf("CFG_REGISTRY: invalid base_url: %w", err)
	}
	if cfg.Registry.SecondaryURL != "" {
		if _, err := url.Parse(cfg.Registry.SecondaryURL); err != nil {
			return fmt.Errorf("CFG_REGISTRY: invalid secondary_url: %w", err)
		}
	}
	if _, err := time.ParseDuration(cfg.Registry.Timeout); err != nil {
		return fmt.Errorf("CFG_REGISTRY: invalid timeout %q", cfg.Registry.Timeout)
	}
	if cfg.Scan.Workers < 1 {
		return fmt.Errorf("CFG_SCAN: workers must be >= 1")
	}
	if cfg.Integrity.TamperThreshold < 0 {
		return fmt.Errorf("CFG_INTEGRITY: tamper_threshold must be >= 0")
	}
	if _, ok := allowedLogLevels[cfg.Logging.Level]; !ok {
		return fmt.Errorf("CFG_LOGGING: unsupported log level %q", cfg.Logging.Level)
	}
	return nil
}
