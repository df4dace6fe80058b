package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Config represents the otlbook configuration
type Config struct {
	NotesDir        string        `json:"notes_dir"`
	Addr            string        `json:"addr"`
	LogFile         string        `json:"log_file"`
	FoldThreshold   int           `json:"fold_threshold,omitempty"`
	ScrapeTimeout   time.Duration `json:"-"` // Custom JSON handling below
	ExcludePatterns []string      `json:"exclude_patterns,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		NotesDir:        filepath.Join(home, "notes"),
		Addr:            "localhost:8080",
		LogFile:         "/tmp/otlbook.log",
		FoldThreshold:   10,
		ScrapeTimeout:   10 * time.Second,
		ExcludePatterns: []string{},
	}
}

// ConfigPath returns the path to the config file
// Uses ~/.config on all platforms for consistency
// Can be overridden for testing
var ConfigPath = func() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to XDG if home dir unavailable
		return filepath.Join(xdg.ConfigHome, "otlbook", "config.json")
	}
	return filepath.Join(home, ".config", "otlbook", "config.json")
}

// Load reads configuration from the XDG config directory
func Load() (*Config, error) {
	configPath := ConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Use custom struct for JSON parsing to handle duration as string
	var raw struct {
		NotesDir        string   `json:"notes_dir"`
		Addr            string   `json:"addr"`
		LogFile         string   `json:"log_file"`
		FoldThreshold   *int     `json:"fold_threshold"`
		ScrapeTimeout   string   `json:"scrape_timeout"`
		ExcludePatterns []string `json:"exclude_patterns"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	def := DefaultConfig()

	timeout := def.ScrapeTimeout
	if raw.ScrapeTimeout != "" {
		timeout, err = time.ParseDuration(raw.ScrapeTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid scrape_timeout format '%s': %w", raw.ScrapeTimeout, err)
		}
	}

	foldThreshold := def.FoldThreshold
	if raw.FoldThreshold != nil {
		foldThreshold = *raw.FoldThreshold
	}

	addr := raw.Addr
	if addr == "" {
		addr = def.Addr
	}

	logFile := raw.LogFile
	if logFile == "" {
		logFile = def.LogFile
	}

	excludePatterns := raw.ExcludePatterns
	if excludePatterns == nil {
		excludePatterns = []string{}
	}

	cfg := &Config{
		NotesDir:        raw.NotesDir,
		Addr:            addr,
		LogFile:         logFile,
		FoldThreshold:   foldThreshold,
		ScrapeTimeout:   timeout,
		ExcludePatterns: excludePatterns,
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Expand paths
	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to the XDG config directory
func (c *Config) Save() error {
	configPath := ConfigPath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Use custom struct for JSON to handle duration as string
	raw := struct {
		NotesDir        string   `json:"notes_dir"`
		Addr            string   `json:"addr"`
		LogFile         string   `json:"log_file"`
		FoldThreshold   int      `json:"fold_threshold"`
		ScrapeTimeout   string   `json:"scrape_timeout"`
		ExcludePatterns []string `json:"exclude_patterns,omitempty"`
	}{
		NotesDir:        c.NotesDir,
		Addr:            c.Addr,
		LogFile:         c.LogFile,
		FoldThreshold:   c.FoldThreshold,
		ScrapeTimeout:   c.ScrapeTimeout.String(),
		ExcludePatterns: c.ExcludePatterns,
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.NotesDir == "" {
		return fmt.Errorf("notes_dir cannot be empty")
	}
	if c.Addr == "" {
		return fmt.Errorf("addr cannot be empty")
	}
	if c.LogFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}
	if c.ScrapeTimeout <= 0 {
		return fmt.Errorf("scrape_timeout must be positive")
	}

	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.NotesDir, err = expandPath(c.NotesDir)
	if err != nil {
		return fmt.Errorf("failed to expand notes_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	// Expand ~ to home directory
	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	// Convert to absolute path
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return absPath, nil
}
