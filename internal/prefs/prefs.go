// Package prefs persists marquee's UI preferences in
// ~/.config/marquee/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/marquee/internal/config"
)

// Prefs holds user preferences that survive restarts.
type Prefs struct {
	Theme       string `toml:"theme"`
	ShowPosters bool   `toml:"show_posters"`
}

const (
	defaultPrefsPath = "~/.config/marquee/prefs.toml"
	defaultTheme     = "Nightfox"
)

// Default returns the preferences used when nothing is stored.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, ShowPosters: true}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path (empty uses the default location). Any
// problem reading or parsing the file yields the defaults.
func Load(path string) Prefs {
	p := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return p
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p
	}

	var raw struct {
		Theme       string `toml:"theme"`
		ShowPosters *bool  `toml:"show_posters"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return p
	}
	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		p.Theme = theme
	}
	if raw.ShowPosters != nil {
		p.ShowPosters = *raw.ShowPosters
	}
	return p
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
