package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration: where the resource table
// lives, how many refinement steps the Controller runs, and the REPL
// and logging surfaces.
type Config struct {
	Resources ResourcesConfig `json:"resources" yaml:"resources"`
	Pipeline  PipelineConfig  `json:"pipeline" yaml:"pipeline"`
	REPL      REPLConfig      `json:"repl" yaml:"repl"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging"`
}

// ResourcesConfig points at the four resource blobs spec §3 describes.
// A blank path means "no rules of that kind" rather than an error.
type ResourcesConfig struct {
	RegexFile   string `json:"regex_file" yaml:"regex_file"`
	PrepFile    string `json:"prep_file" yaml:"prep_file"`
	FilterFile  string `json:"filter_file" yaml:"filter_file"`
	ComplexFile string `json:"complex_file" yaml:"complex_file"`
}

// PipelineConfig contains Pipeline Controller configuration (spec §4.9).
type PipelineConfig struct {
	NumberOfSteps int  `json:"number_of_steps" yaml:"number_of_steps"`
	Debug         bool `json:"debug" yaml:"debug"`
}

// REPLConfig contains REPL configuration.
type REPLConfig struct {
	Prompt      string `json:"prompt" yaml:"prompt"`
	HistorySize int    `json:"history_size" yaml:"history_size"`
	HistoryFile string `json:"history_file" yaml:"history_file"`
	ShowWelcome bool   `json:"show_welcome" yaml:"show_welcome"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Resources: ResourcesConfig{},
		Pipeline: PipelineConfig{
			NumberOfSteps: 2,
			Debug:         false,
		},
		REPL: REPLConfig{
			Prompt:      "atc> ",
			HistorySize: 1000,
			HistoryFile: "~/.atcparse_history",
			ShowWelcome: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a file, falling back to the
// default when path is empty or the file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}
	path = expandHome(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %v", err)
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
	}

	return config, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(config *Config, path string) error {
	path = expandHome(path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	var data []byte
	var err error
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		data, err = json.MarshalIndent(config, "", "  ")
	} else {
		data, err = yaml.Marshal(config)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}
	return nil
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// readResourceFile returns the contents of path, or "" if path is blank.
func readResourceFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return "", fmt.Errorf("failed to read resource file %s: %v", path, err)
	}
	return string(data), nil
}
