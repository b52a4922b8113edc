package repository

import (
	"github.com/diillson/sms-kpi-dashboard-go/internal/shared/types"
)

// ConfigRepository finds and loads run configuration files.
type ConfigRepository interface {
	// LoadConfigFile reads a TOML, YAML or JSON file into a Config.
	LoadConfigFile(filePath string) (*types.Config, error)
	// FindConfigFile looks for a default config file in dir; empty when none exists.
	FindConfigFile(dir string) string
}
