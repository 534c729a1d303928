package theme

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessImports_NoImports(t *testing.T) {
	css := `.popkit-surface { color: red; }`
	result := ProcessImports(css, "", nil)
	assert.Equal(t, css, result)
}

func TestProcessImports_FileImport(t *testing.T) {
	tmpDir := t.TempDir()

	partialContent := `:root { --custom: #ff0000; }`
	partialPath := filepath.Join(tmpDir, "_custom.css")
	err := os.WriteFile(partialPath, []byte(partialContent), 0644)
	require.NoError(t, err)

	mainCSS := `@import "_custom.css";
.popkit-surface { color: var(--custom); }`

	result := ProcessImports(mainCSS, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _custom.css */")
	assert.Contains(t, result, "--custom: #ff0000")
	assert.Contains(t, result, ".popkit-surface")
}

func TestProcessImports_NestedImports(t *testing.T) {
	tmpDir := t.TempDir()

	grandchildContent := `.grandchild { color: blue; }`
	err := os.WriteFile(filepath.Join(tmpDir, "_grandchild.css"), []byte(grandchildContent), 0644)
	require.NoError(t, err)

	childContent := `@import "_grandchild.css";
.child { color: green; }`
	err = os.WriteFile(filepath.Join(tmpDir, "_child.css"), []byte(childContent), 0644)
	require.NoError(t, err)

	mainCSS := `@import "_child.css";
.main { color: red; }`

	result := ProcessImports(mainCSS, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _child.css */")
	assert.Contains(t, result, "/* imported: _grandchild.css */")
	assert.Contains(t, result, ".grandchild")
	assert.Contains(t, result, ".child")
	assert.Contains(t, result, ".main")
}

func TestProcessImports_CircularPrevention(t *testing.T) {
	tmpDir := t.TempDir()

	aContent := `@import "_b.css";
.a { color: red; }`
	err := os.WriteFile(filepath.Join(tmpDir, "_a.css"), []byte(aContent), 0644)
	require.NoError(t, err)

	bContent := `@import "_a.css";
.b { color: blue; }`
	err = os.WriteFile(filepath.Join(tmpDir, "_b.css"), []byte(bContent), 0644)
	require.NoError(t, err)

	mainCSS := `@import "_a.css";`
	result := ProcessImports(mainCSS, tmpDir, nil)

	assert.Contains(t, result, "circular import prevented")
	assert.Contains(t, result, ".a")
	assert.Contains(t, result, ".b")
}

func TestProcessImports_MissingFileFallsBackToEmbedded(t *testing.T) {
	result := ProcessImports(`@import "minimal.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* imported (embedded): minimal.css */")
	assert.Contains(t, result, ".popkit-surface")
}

func TestGetEmbeddedTheme(t *testing.T) {
	css, found := GetEmbeddedTheme(DefaultThemeName)
	require.True(t, found)
	assert.Contains(t, css, ".popkit-surface")

	_, found = GetEmbeddedTheme("does-not-exist")
	assert.False(t, found)
}

func TestListEmbeddedThemes(t *testing.T) {
	themes := ListEmbeddedThemes()
	assert.Contains(t, themes, "default")
	assert.Contains(t, themes, "minimal")
}

func TestLoad_UserThemeWinsOverEmbedded(t *testing.T) {
	tmpDir := t.TempDir()
	userCSS := `.popkit-surface { background: hotpink; }`
	err := os.WriteFile(filepath.Join(tmpDir, "minimal.css"), []byte(userCSS), 0644)
	require.NoError(t, err)

	theme, err := Load("minimal", tmpDir)
	require.NoError(t, err)
	assert.Equal(t, userCSS, theme.CSS)
	assert.False(t, theme.IsDefault)
	assert.NotEmpty(t, theme.Path)
}

func TestLoad_EmptyNameLoadsDefault(t *testing.T) {
	theme, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultThemeName, theme.Name)
	assert.True(t, theme.IsDefault)
}

func TestLoad_UnknownTheme(t *testing.T) {
	_, err := Load("no-such-theme", t.TempDir())
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "custom.css")
	require.NoError(t, os.WriteFile(path, []byte(`.a { color: red; }`), 0644))

	theme, err := LoadFile("custom", path)
	require.NoError(t, err)

	changed, err := theme.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "unchanged file does not reload")

	// Push the mtime forward so the poll sees a change.
	require.NoError(t, os.WriteFile(path, []byte(`.a { color: blue; }`), 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	changed, err = theme.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, theme.CSS, "blue")
}

func TestReload_DefaultThemeIsNoop(t *testing.T) {
	theme := NewDefaultTheme()
	changed, err := theme.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestListAvailable(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "custom.css"), []byte(`.a {}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_partial.css"), []byte(`.b {}`), 0644))

	themes, err := ListAvailable(tmpDir)
	require.NoError(t, err)

	names := make(map[string]Info)
	for _, info := range themes {
		names[info.Name] = info
	}

	assert.Contains(t, names, "default")
	assert.Contains(t, names, "custom")
	assert.True(t, names["default"].IsBundled)
	assert.False(t, names["custom"].IsBundled)
	// Partials are importable, not selectable.
	assert.NotContains(t, names, "_partial")
}

func TestWatcher_DetectsChange(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "custom.css")
	require.NoError(t, os.WriteFile(path, []byte(`.a { color: red; }`), 0644))

	theme, err := LoadFile("custom", path)
	require.NoError(t, err)

	w := NewWatcher(theme, nil)
	w.SetPollInterval(10 * time.Millisecond)

	changes := make(chan string, 1)
	w.SetChangeCallback(func(css string) {
		select {
		case changes <- css:
		default:
		}
	})

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	require.True(t, w.IsRunning())

	require.NoError(t, os.WriteFile(path, []byte(`.a { color: blue; }`), 0644))
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	select {
	case css := <-changes:
		assert.Contains(t, css, "blue")
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}

func TestWatcher_DoesNotWatchEmbedded(t *testing.T) {
	w := NewWatcher(NewDefaultTheme(), nil)
	require.NoError(t, w.Start(context.Background()))
	assert.False(t, w.IsRunning())
}
