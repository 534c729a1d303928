package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popkit/popkit/internal/config"
)

func TestSetVolumeClamps(t *testing.T) {
	p := NewPlayer(nil)

	p.SetVolume(1.5)
	assert.Equal(t, 1.0, p.Volume())

	p.SetVolume(-0.5)
	assert.Equal(t, 0.0, p.Volume())

	p.SetVolume(0.5)
	assert.Equal(t, 0.5, p.Volume())
}

func TestVolumeToDecibels(t *testing.T) {
	assert.Equal(t, float64(-100), volumeToDecibels(0))
	assert.InDelta(t, 0.0, volumeToDecibels(1.0), 0.001)
	assert.InDelta(t, -6.02, volumeToDecibels(0.5), 0.01)
}

func TestPlayEmptyPathIsNoop(t *testing.T) {
	p := NewPlayer(nil)
	assert.NoError(t, p.Play(""))
}

func TestPlayMissingFile(t *testing.T) {
	p := NewPlayer(nil)
	err := p.Play(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestPlayUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cue.flac")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0644))

	p := NewPlayer(nil)
	err := p.Play(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported audio format")
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "cue.wav"), expandHome("~/cue.wav"))
	assert.Equal(t, "/tmp/cue.wav", expandHome("/tmp/cue.wav"))
}

func TestDisabledCuesAreSilent(t *testing.T) {
	c := NewCues(config.SoundConfig{
		Enabled:  false,
		OpenFile: "/does/not/exist.wav",
		Volume:   1.0,
	}, nil)
	defer c.Close()

	// Must not try to touch the missing file.
	c.PopupOpened()
	c.PopupClosed()
}

func TestCuesUpdateConfig(t *testing.T) {
	c := NewCues(config.SoundConfig{Enabled: false, Volume: 1.0}, nil)
	defer c.Close()

	c.UpdateConfig(config.SoundConfig{Enabled: true, Volume: 0.25})
	assert.Equal(t, 0.25, c.player.Volume())
	assert.True(t, c.enabled)
}
