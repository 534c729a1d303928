// Package theme provides CSS theming for popkit surfaces.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

// importRegex matches @import "file.css"; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme represents a CSS theme with metadata.
type Theme struct {
	Name      string    // Theme name (without .css extension)
	Path      string    // Full path to the CSS file (empty for embedded)
	CSS       string    // The CSS content
	ModTime   time.Time // Last modification time
	IsDefault bool      // True if this is the embedded default theme
}

// Load resolves a theme by name: a user theme in themesDir wins over an
// embedded theme of the same name. An empty name loads the default.
func Load(name, themesDir string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}

	if themesDir != "" {
		path := filepath.Join(themesDir, name+".css")
		if _, err := os.Stat(path); err == nil {
			return LoadFile(name, path)
		}
	}

	if css, found := GetEmbeddedTheme(name); found {
		return &Theme{
			Name:      name,
			CSS:       css,
			IsDefault: name == DefaultThemeName,
		}, nil
	}

	return nil, fmt.Errorf("theme not found: %s", name)
}

// LoadFile creates a Theme from a CSS file. @import statements are
// resolved and inlined.
func LoadFile(name, path string) (*Theme, error) {
	css, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(path)
	processed := ProcessImports(string(css), baseDir, nil)

	return &Theme{
		Name:    name,
		Path:    path,
		CSS:     processed,
		ModTime: info.ModTime(),
	}, nil
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir. The seen map prevents
// circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}

		importPath := submatch[1]

		var fullPath string
		if filepath.IsAbs(importPath) {
			fullPath = importPath
		} else {
			fullPath = filepath.Join(baseDir, importPath)
		}

		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		imported, err := os.ReadFile(fullPath)
		if err != nil {
			// Fall back to an embedded theme of the same name.
			name := filepath.Base(importPath)
			if ext := filepath.Ext(name); ext != "" {
				name = name[:len(name)-len(ext)]
			}
			if embedded, found := GetEmbeddedTheme(name); found {
				return "/* imported (embedded): " + importPath + " */\n" + embedded
			}
			return "/* import failed: " + importPath + " - " + err.Error() + " */"
		}

		importedBaseDir := filepath.Dir(fullPath)
		processed := ProcessImports(string(imported), importedBaseDir, seen)

		return "/* imported: " + importPath + " */\n" + processed
	})
}

// NewDefaultTheme creates the embedded default theme.
func NewDefaultTheme() *Theme {
	css, _ := GetEmbeddedTheme(DefaultThemeName)
	return &Theme{
		Name:      DefaultThemeName,
		CSS:       css,
		IsDefault: true,
	}
}

// Reload reloads the theme from disk.
// Returns true if the content changed.
func (t *Theme) Reload() (bool, error) {
	if t.IsDefault || t.Path == "" {
		return false, nil
	}

	info, err := os.Stat(t.Path)
	if err != nil {
		return false, err
	}

	if !info.ModTime().After(t.ModTime) {
		return false, nil
	}

	css, err := os.ReadFile(t.Path)
	if err != nil {
		return false, err
	}

	baseDir := filepath.Dir(t.Path)
	processed := ProcessImports(string(css), baseDir, nil)

	oldCSS := t.CSS
	t.CSS = processed
	t.ModTime = info.ModTime()

	return oldCSS != t.CSS, nil
}

// Info provides basic theme information for listing.
type Info struct {
	Name      string
	Path      string
	IsDefault bool
	IsBundled bool // True if this is a bundled/embedded theme
}

// ListAvailable lists all available themes (bundled + user themes in
// themesDir).
func ListAvailable(themesDir string) ([]Info, error) {
	seen := make(map[string]bool)
	var themes []Info

	for _, name := range ListEmbeddedThemes() {
		if !seen[name] {
			seen[name] = true
			themes = append(themes, Info{
				Name:      name,
				IsDefault: name == DefaultThemeName,
				IsBundled: true,
			})
		}
	}

	if themesDir == "" {
		return themes, nil
	}

	entries, err := os.ReadDir(themesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return themes, nil
		}
		return themes, err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) == ".css" {
			themeName := name[:len(name)-4]
			if !seen[themeName] {
				seen[themeName] = true
				themes = append(themes, Info{
					Name: themeName,
					Path: filepath.Join(themesDir, name),
				})
			}
		}
	}

	return themes, nil
}
