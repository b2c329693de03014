package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// projectConfigPath is where the project config lives, relative to the
// working directory. Replaceable for testing.
var projectConfigPath = ".appportal/config.yaml"

// ProjectConfig holds the contents of .appportal/config.yaml.
type ProjectConfig struct {
	// Catalog is a YAML file path or doublestar glob. Empty selects the
	// catalog compiled into the binary.
	Catalog string `yaml:"catalog"`

	// Watch reloads a file-backed catalog when it changes.
	Watch bool `yaml:"watch"`

	Listen        string        `yaml:"listen"`
	Locale        string        `yaml:"locale"`
	PreviewHeight int           `yaml:"preview_height"`
	SessionMax    int           `yaml:"session_max"`
	SessionTTL    time.Duration `yaml:"session_ttl"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	AccessLog string `yaml:"access_log"`
}

const defaultListen = ":8501"

// loadProjectConfig reads the project config file.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(projectConfigPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// resolveConfig returns the effective configuration, applying the chain:
//  1. Explicit flag values (non-zero overrides)
//  2. Values from .appportal/config.yaml
//  3. Defaults
func resolveConfig(flags ProjectConfig) (ProjectConfig, error) {
	cfg := ProjectConfig{Listen: defaultListen, Locale: "en"}

	file, err := loadProjectConfig()
	if err != nil {
		return cfg, err
	}
	if file != nil {
		merge(&cfg, *file)
	}
	merge(&cfg, flags)
	return cfg, nil
}

// merge copies every non-zero field of src onto dst.
func merge(dst *ProjectConfig, src ProjectConfig) {
	if src.Catalog != "" {
		dst.Catalog = src.Catalog
	}
	if src.Watch {
		dst.Watch = true
	}
	if src.Listen != "" {
		dst.Listen = src.Listen
	}
	if src.Locale != "" {
		dst.Locale = src.Locale
	}
	if src.PreviewHeight > 0 {
		dst.PreviewHeight = src.PreviewHeight
	}
	if src.SessionMax > 0 {
		dst.SessionMax = src.SessionMax
	}
	if src.SessionTTL > 0 {
		dst.SessionTTL = src.SessionTTL
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
	if src.AccessLog != "" {
		dst.AccessLog = src.AccessLog
	}
}
