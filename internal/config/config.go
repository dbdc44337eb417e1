// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents the application configuration
type Config struct {
	DefaultConnection    string       `toml:"default_connection"`
	HistoryRetentionDays int          `toml:"history_retention_days"`
	EditorStyle          string       `toml:"editor_style"`
	Theme                Theme        `toml:"theme_colors"`
	Connections          []Connection `toml:"connections"`

	path string
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	BgPrimary     string `toml:"bg_primary"`
	BgSecondary   string `toml:"bg_secondary"`
}

// PersistenceError reports a failed read or write of the config file.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		HistoryRetentionDays: 90,
		EditorStyle:          "nord",
		Connections:          []Connection{},
		// Nord
		Theme: Theme{
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			BgPrimary:     "#2E3440",
			BgSecondary:   "#3B4252",
		},
	}
}

// DefaultPath returns the XDG-compliant config file path
func DefaultPath() (string, error) {
	return xdg.ConfigFile("lazydata/config.toml")
}

// Path is the file this config loads from and saves to.
func (c *Config) Path() string { return c.path }

// Load reads the config at path, or at DefaultPath when path is empty.
// A missing file is created with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, &PersistenceError{Op: "locate", Err: err}
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, &PersistenceError{Op: "read", Path: path, Err: err}
	}
	cfg.path = path

	// back-fill sections added after the file was written
	defaults := DefaultConfig()
	updated := false
	if cfg.Theme.TextPrimary == "" {
		cfg.Theme = defaults.Theme
		updated = true
	}
	if cfg.HistoryRetentionDays == 0 {
		cfg.HistoryRetentionDays = defaults.HistoryRetentionDays
		updated = true
	}
	if cfg.EditorStyle == "" {
		cfg.EditorStyle = defaults.EditorStyle
		updated = true
	}

	if key, err := masterKey(); err != nil {
		log.Printf("config: master key unavailable, passwords not decrypted: %v", err)
	} else {
		for i := range cfg.Connections {
			cfg.Connections[i].decrypt(key)
		}
	}

	if updated {
		if err := cfg.Save(); err != nil {
			log.Printf("config: %v", err)
		}
	}
	return &cfg, nil
}

// Save writes the config to disk with owner-only permissions, encrypting
// passwords first.
func (c *Config) Save() error {
	if c.path == "" {
		p, err := DefaultPath()
		if err != nil {
			return &PersistenceError{Op: "locate", Err: err}
		}
		c.path = p
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return &PersistenceError{Op: "write", Path: c.path, Err: err}
	}

	if key, err := masterKey(); err != nil {
		log.Printf("config: master key unavailable, passwords not saved: %v", err)
	} else {
		for i := range c.Connections {
			if err := c.Connections[i].encrypt(key); err != nil {
				return &PersistenceError{Op: "encrypt", Path: c.path, Err: err}
			}
		}
	}

	f, err := os.OpenFile(c.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return &PersistenceError{Op: "write", Path: c.path, Err: err}
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return &PersistenceError{Op: "write", Path: c.path, Err: err}
	}
	return nil
}
