// Package config loads ~/.panelshell/config.yaml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"panelshell/internal/logging"
	"panelshell/internal/store"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "PANELSHELL_CONFIG"

// Config is the on-disk configuration. Sizes are terminal cells.
type Config struct {
	Sidebar SidebarConfig  `yaml:"sidebar"`
	Panels  []PanelConfig  `yaml:"panels"`
	Console ConsoleConfig  `yaml:"console"`
	Project ProjectConfig  `yaml:"project"`
	Layout  string         `yaml:"layout"`
	Logging logging.Config `yaml:"logging"`
}

// SidebarConfig configures the panel container.
type SidebarConfig struct {
	Width          int           `yaml:"width"`
	MinWidth       int           `yaml:"min_width"`
	MaxWidth       int           `yaml:"max_width"`
	ResizeEdge     string        `yaml:"resize_edge"`
	MinPanelHeight int           `yaml:"min_panel_height"`
	HeaderHeight   int           `yaml:"header_height"`
	SeparatorSize  int           `yaml:"separator_size"`
	OverlayGrace   time.Duration `yaml:"overlay_grace"`
}

// PanelConfig is one initial panel.
type PanelConfig struct {
	Type   string `yaml:"type"`
	ID     string `yaml:"id,omitempty"`
	Title  string `yaml:"title,omitempty"`
	Height int    `yaml:"height,omitempty"`
}

// ConsoleConfig configures the console panel's command.
type ConsoleConfig struct {
	Command  []string `yaml:"command"`
	Dir      string   `yaml:"dir"`
	MaxLines int      `yaml:"max_lines"`
}

// ProjectConfig configures the project tree panel.
type ProjectConfig struct {
	Root       string `yaml:"root"`
	MaxEntries int    `yaml:"max_entries"`
	ShowHidden bool   `yaml:"show_hidden"`
}

// Defaults returns the built-in configuration.
func Defaults(stateDir string) Config {
	return Config{
		Sidebar: SidebarConfig{
			Width:          40,
			MinWidth:       20,
			ResizeEdge:     "left",
			MinPanelHeight: 3,
			HeaderHeight:   1,
			SeparatorSize:  1,
			OverlayGrace:   2 * time.Second,
		},
		Panels: []PanelConfig{
			{Type: "project", Height: 12},
			{Type: "console", Height: 8},
			{Type: "tv", Height: 6},
		},
		Console: ConsoleConfig{MaxLines: 500},
		Project: ProjectConfig{Root: ".", MaxEntries: 200},
		Layout:  store.DefaultLayoutName,
		Logging: logging.DefaultConfig(stateDir),
	}
}

// DefaultPath returns $PANELSHELL_CONFIG or <stateDir>/config.yaml.
func DefaultPath(stateDir string) string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(stateDir, "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path, stateDir string) (Config, error) {
	cfg := Defaults(stateDir)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the engine cannot work with.
func (c Config) Validate() error {
	s := c.Sidebar
	if s.ResizeEdge != "" && s.ResizeEdge != "left" && s.ResizeEdge != "right" {
		return fmt.Errorf("sidebar.resize_edge must be left or right, got %q", s.ResizeEdge)
	}
	if s.MinWidth < 0 || s.Width < 0 || s.MaxWidth < 0 {
		return fmt.Errorf("sidebar widths must not be negative")
	}
	if s.MaxWidth > 0 && s.MaxWidth < s.MinWidth {
		return fmt.Errorf("sidebar.max_width %d is below min_width %d", s.MaxWidth, s.MinWidth)
	}
	if s.HeaderHeight < 0 || s.MinPanelHeight < 0 || s.SeparatorSize < 0 {
		return fmt.Errorf("sidebar heights must not be negative")
	}
	for i, p := range c.Panels {
		if p.Type == "" {
			return fmt.Errorf("panels[%d]: type is required", i)
		}
	}
	return nil
}
