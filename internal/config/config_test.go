package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, string(PositionTopRight), cfg.Display.Position)
	assert.Equal(t, "default", cfg.Chrome.Template)
	assert.Equal(t, "default", cfg.Theme.Name)
	assert.Equal(t, string(ColorSchemeSystem), cfg.Theme.ColorScheme)
	assert.False(t, cfg.Sound.Enabled)
	assert.Positive(t, cfg.Display.MaxVisible)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[display]
position = "bottom-left"
gap = 4
max_visible = 3

[chrome]
template = "compact"

[theme]
name = "midnight"
color_scheme = "dark"

[sound]
enabled = true
volume = 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "bottom-left", cfg.Display.Position)
	assert.Equal(t, 4, cfg.Display.Gap)
	assert.Equal(t, 3, cfg.Display.MaxVisible)
	assert.Equal(t, "compact", cfg.Chrome.Template)
	assert.Equal(t, "midnight", cfg.Theme.Name)
	assert.Equal(t, "dark", cfg.Theme.ColorScheme)
	assert.True(t, cfg.Sound.Enabled)
	assert.InDelta(t, 0.5, cfg.Sound.Volume, 0.001)

	// Unset fields keep their defaults.
	assert.Equal(t, 300, cfg.Display.Width)
}

func TestLoadConfigInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("display = {{"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")

	cfg := DefaultConfig()
	cfg.Display.Position = string(PositionBottomCenter)
	cfg.Theme.Name = "midnight"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name: "empty position falls back to default",
			mutate: func(c *Config) {
				c.Display.Position = ""
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, string(PositionTopRight), cfg.Display.Position)
			},
		},
		{
			name: "invalid position rejected",
			mutate: func(c *Config) {
				c.Display.Position = "center-of-the-earth"
			},
			wantErr: true,
		},
		{
			name: "invalid color scheme rejected",
			mutate: func(c *Config) {
				c.Theme.ColorScheme = "sepia"
			},
			wantErr: true,
		},
		{
			name: "volume clamped",
			mutate: func(c *Config) {
				c.Sound.Volume = 3.5
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 1.0, cfg.Sound.Volume)
			},
		},
		{
			name: "max visible floored at one",
			mutate: func(c *Config) {
				c.Display.MaxVisible = 0
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 1, cfg.Display.MaxVisible)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}
