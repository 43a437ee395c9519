package config

import (
	"os"
	"path/filepath"
)

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".modscan/config.toml"
	}
	return filepath.Join(home, ".modscan", "config.toml")
}
