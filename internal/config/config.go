package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/badman-archive/config.yaml"

// Config holds all archive configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	State     StateConfig     `yaml:"state"`
	Server    ServerConfig    `yaml:"server"`
	Particles ParticlesConfig `yaml:"particles"`
	Render    RenderConfig    `yaml:"render"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DataConfig selects the catalog source. An empty Source uses the built-in
// sample; otherwise it is a file path or an http(s) URL.
type DataConfig struct {
	Source         string `yaml:"source"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type StateConfig struct {
	Path              string `yaml:"path"`
	SQLiteFile        string `yaml:"sqlite_file"`
	SQLiteJournalMode string `yaml:"sqlite_journal_mode"`
}

type ServerConfig struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Watch bool   `yaml:"watch"`
}

type ParticlesConfig struct {
	Enabled     bool    `yaml:"enabled"`
	IntervalMS  int     `yaml:"interval_ms"`
	TTLMS       int     `yaml:"ttl_ms"`
	Width       int     `yaml:"width"`
	AccentRatio float64 `yaml:"accent_ratio"`
}

type RenderConfig struct {
	CitationFormat string `yaml:"citation_format"` // markdown | plain | html
	CacheSize      int    `yaml:"cache_size"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the rest of the program cannot work with.
func (c *Config) Validate() error {
	if c.Particles.IntervalMS <= 0 {
		return fmt.Errorf("particles.interval_ms must be positive, got %d", c.Particles.IntervalMS)
	}
	if c.Particles.TTLMS <= 0 {
		return fmt.Errorf("particles.ttl_ms must be positive, got %d", c.Particles.TTLMS)
	}
	if c.Particles.AccentRatio < 0 || c.Particles.AccentRatio > 1 {
		return fmt.Errorf("particles.accent_ratio must be within [0,1], got %g", c.Particles.AccentRatio)
	}
	switch c.State.SQLiteJournalMode {
	case "delete", "truncate", "persist", "memory", "wal", "off":
	default:
		return fmt.Errorf("state.sqlite_journal_mode must be one of delete, truncate, persist, memory, wal, off, got %q", c.State.SQLiteJournalMode)
	}
	switch c.Render.CitationFormat {
	case "markdown", "plain", "html":
	default:
		return fmt.Errorf("render.citation_format must be markdown, plain or html, got %q", c.Render.CitationFormat)
	}
	return nil
}

// StateDBPath returns the expanded path of the state database.
func (c *Config) StateDBPath() (string, error) {
	dir, err := ExpandPath(c.State.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.State.SQLiteFile), nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
