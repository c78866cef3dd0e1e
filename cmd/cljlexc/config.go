package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type toolConfig struct {
	Lexer lexerConfig `yaml:"lexer" json:"lexer"`
	Watch watchConfig `yaml:"watch" json:"watch"`
}

type lexerConfig struct {
	// MaxLineLength caps per-line scan cost; 0 scans whole lines.
	MaxLineLength int `yaml:"max_line_length" json:"max_line_length"`
}

type watchConfig struct {
	Debounce   string   `yaml:"debounce" json:"debounce"`
	Extensions []string `yaml:"extensions" json:"extensions"`
}

func defaultConfig() toolConfig {
	return toolConfig{
		Watch: watchConfig{
			Debounce:   "100ms",
			Extensions: []string{".clj", ".cljs", ".cljc", ".edn"},
		},
	}
}

// loadConfig reads the optional cljlexc.yaml. A missing -config flag just
// yields the defaults.
func loadConfig(path string) (toolConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if _, err := time.ParseDuration(cfg.Watch.Debounce); err != nil {
		return cfg, fmt.Errorf("invalid watch debounce %q: %w", cfg.Watch.Debounce, err)
	}
	return cfg, nil
}

func (c toolConfig) debounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 100 * time.Millisecond
	}
	return d
}

func (c watchConfig) matches(path string) bool {
	for _, ext := range c.Extensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}
