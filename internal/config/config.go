// Package config loads the exprsense configuration: an embedded default
// file with an optional user file merged on top.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// ErrInvalidConfig classifies configuration that decodes but cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the merged configuration.
type Config struct {
	Index   IndexConfig   `yaml:"index" json:"index"`
	Session SessionConfig `yaml:"session" json:"session"`
	UI      UIConfig      `yaml:"ui" json:"ui"`
}

type IndexConfig struct {
	IgnoreNamespaces []string `yaml:"ignoreNamespaces" json:"ignoreNamespaces"`
	AllowAbstract    bool     `yaml:"allowAbstract" json:"allowAbstract"`
}

type SessionConfig struct {
	Imports []string    `yaml:"imports" json:"imports"`
	Locals  []LocalSpec `yaml:"locals" json:"locals"`
}

// LocalSpec declares a variable by name and full type name.
type LocalSpec struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

type UIConfig struct {
	PopupHeight int   `yaml:"popupHeight" json:"popupHeight"`
	PopupWidth  int   `yaml:"popupWidth" json:"popupWidth"`
	PageStep    int   `yaml:"pageStep" json:"pageStep"`
	NoColor     bool  `yaml:"noColor" json:"noColor"`
	Theme       Theme `yaml:"theme" json:"theme"`
}

// Theme holds lipgloss colour values (ANSI indexes or hex).
type Theme struct {
	Keyword      string `yaml:"keyword" json:"keyword"`
	Selected     string `yaml:"selected" json:"selected"`
	SelectedText string `yaml:"selectedText" json:"selectedText"`
	Description  string `yaml:"description" json:"description"`
	Border       string `yaml:"border" json:"border"`
	Glyph        string `yaml:"glyph" json:"glyph"`
}

// DefaultConfigYAML returns a copy of the embedded defaults.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default decodes the embedded defaults.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode embedded default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults merged with the file at path. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.Merge(data); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Merge decodes data over c. Keys absent from data keep their current
// values. Unknown keys are rejected.
func (c *Config) Merge(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return c.Validate()
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return c.Validate()
}

// Validate checks value ranges and local declarations.
func (c *Config) Validate() error {
	var errs []error
	if c.UI.PopupHeight <= 0 {
		errs = append(errs, fmt.Errorf("ui.popupHeight must be positive, got %d", c.UI.PopupHeight))
	}
	if c.UI.PopupWidth < 10 {
		errs = append(errs, fmt.Errorf("ui.popupWidth must be at least 10, got %d", c.UI.PopupWidth))
	}
	if c.UI.PageStep <= 0 {
		errs = append(errs, fmt.Errorf("ui.pageStep must be positive, got %d", c.UI.PageStep))
	}
	for i, l := range c.Session.Locals {
		if strings.TrimSpace(l.Name) == "" || strings.TrimSpace(l.Type) == "" {
			errs = append(errs, fmt.Errorf("session.locals[%d] needs a name and a type", i))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// IgnoreNamespaces returns the configured list, never nil, so an explicit
// empty list disables filtering.
func (c *Config) IgnoreNamespaces() []string {
	return append([]string{}, c.Index.IgnoreNamespaces...)
}

// ParseLocal parses a "name=Type" flag value.
func ParseLocal(s string) (LocalSpec, error) {
	name, typ, ok := strings.Cut(s, "=")
	name, typ = strings.TrimSpace(name), strings.TrimSpace(typ)
	if !ok || name == "" || typ == "" {
		return LocalSpec{}, fmt.Errorf("%w: local %q must be name=Type", ErrInvalidConfig, s)
	}
	return LocalSpec{Name: name, Type: typ}, nil
}
