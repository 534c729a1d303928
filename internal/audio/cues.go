package audio

import (
	"log/slog"

	"github.com/popkit/popkit/internal/config"
)

// Cues plays the configured open/close sounds. Disabled cues are
// silent no-ops so callers never branch on sound configuration.
type Cues struct {
	player *Player
	logger *slog.Logger

	enabled   bool
	openFile  string
	closeFile string
}

// NewCues creates cue playback from the sound configuration.
func NewCues(cfg config.SoundConfig, logger *slog.Logger) *Cues {
	if logger == nil {
		logger = slog.Default()
	}

	player := NewPlayer(logger)
	player.SetVolume(cfg.Volume)

	c := &Cues{
		player:    player,
		logger:    logger,
		enabled:   cfg.Enabled,
		openFile:  cfg.OpenFile,
		closeFile: cfg.CloseFile,
	}

	if c.enabled {
		if err := player.Preload(cfg.OpenFile); err != nil {
			logger.Warn("failed to preload open cue", "path", cfg.OpenFile, "error", err)
		}
		if err := player.Preload(cfg.CloseFile); err != nil {
			logger.Warn("failed to preload close cue", "path", cfg.CloseFile, "error", err)
		}
	}

	return c
}

// PopupOpened plays the open cue.
func (c *Cues) PopupOpened() {
	if !c.enabled {
		return
	}
	if err := c.player.Play(c.openFile); err != nil {
		c.logger.Debug("open cue failed", "error", err)
	}
}

// PopupClosed plays the close cue.
func (c *Cues) PopupClosed() {
	if !c.enabled {
		return
	}
	if err := c.player.Play(c.closeFile); err != nil {
		c.logger.Debug("close cue failed", "error", err)
	}
}

// UpdateConfig applies new sound settings.
func (c *Cues) UpdateConfig(cfg config.SoundConfig) {
	c.enabled = cfg.Enabled
	c.openFile = cfg.OpenFile
	c.closeFile = cfg.CloseFile
	c.player.SetVolume(cfg.Volume)
}

// Close releases the player.
func (c *Cues) Close() {
	c.player.Close()
}
