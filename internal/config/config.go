// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Position identifies where popup surfaces are anchored on screen.
type Position string

const (
	PositionTopRight     Position = "top-right"
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionBottomRight  Position = "bottom-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
)

// ColorScheme selects light/dark theming.
type ColorScheme string

const (
	ColorSchemeSystem ColorScheme = "system"
	ColorSchemeLight  ColorScheme = "light"
	ColorSchemeDark   ColorScheme = "dark"
)

// Config represents the popkit configuration.
type Config struct {
	Display DisplayConfig `toml:"display"`
	Chrome  ChromeConfig  `toml:"chrome"`
	Theme   ThemeConfig   `toml:"theme"`
	Sound   SoundConfig   `toml:"sound"`
}

// DisplayConfig holds surface placement options.
type DisplayConfig struct {
	Position   string `toml:"position"`    // Screen anchor, see Position
	OffsetX    int    `toml:"offset_x"`    // Horizontal margin from the anchor edge
	OffsetY    int    `toml:"offset_y"`    // Vertical margin from the anchor edge
	Gap        int    `toml:"gap"`         // Gap between stacked surfaces
	Width      int    `toml:"width"`       // Default surface width
	MaxHeight  int    `toml:"max_height"`  // Default surface max height
	MaxVisible int    `toml:"max_visible"` // Max concurrently visible surfaces
}

// ChromeConfig selects the surface chrome template.
type ChromeConfig struct {
	Template string `toml:"template"` // Chrome template name ("" = default)
}

// ThemeConfig holds theming options.
type ThemeConfig struct {
	Name        string `toml:"name"`         // Theme name ("" = default)
	ColorScheme string `toml:"color_scheme"` // system, light, dark
}

// SoundConfig holds popup sound cue options.
type SoundConfig struct {
	Enabled   bool    `toml:"enabled"`
	OpenFile  string  `toml:"open_file"`  // Sound played when a popup opens
	CloseFile string  `toml:"close_file"` // Sound played when a popup closes
	Volume    float64 `toml:"volume"`     // 0.0 to 1.0
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			Position:   string(PositionTopRight),
			OffsetX:    12,
			OffsetY:    12,
			Gap:        8,
			Width:      300,
			MaxHeight:  600,
			MaxVisible: 5,
		},
		Chrome: ChromeConfig{
			Template: "default",
		},
		Theme: ThemeConfig{
			Name:        "default",
			ColorScheme: string(ColorSchemeSystem),
		},
		Sound: SoundConfig{
			Enabled: false,
			Volume:  0.8,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "popkit", "config.toml")
}

// DataPath returns the path to the data directory.
// Uses XDG_DATA_HOME if set, otherwise ~/.local/share.
func DataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "popkit")
}

// TemplatesDir returns the user chrome-template directory.
func TemplatesDir() string {
	return filepath.Join(DataPath(), "templates")
}

// ThemesDir returns the user theme directory.
func ThemesDir() string {
	return filepath.Join(DataPath(), "themes")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if the file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate normalizes and sanity-checks the configuration.
func (c *Config) Validate() error {
	switch Position(c.Display.Position) {
	case PositionTopRight, PositionTopLeft, PositionTopCenter,
		PositionBottomRight, PositionBottomLeft, PositionBottomCenter:
	case "":
		c.Display.Position = string(PositionTopRight)
	default:
		return errors.New("invalid display.position: " + c.Display.Position)
	}

	switch ColorScheme(c.Theme.ColorScheme) {
	case ColorSchemeSystem, ColorSchemeLight, ColorSchemeDark:
	case "":
		c.Theme.ColorScheme = string(ColorSchemeSystem)
	default:
		return errors.New("invalid theme.color_scheme: " + c.Theme.ColorScheme)
	}

	if c.Display.MaxVisible <= 0 {
		c.Display.MaxVisible = 1
	}
	if c.Sound.Volume < 0 {
		c.Sound.Volume = 0
	}
	if c.Sound.Volume > 1 {
		c.Sound.Volume = 1
	}
	return nil
}
