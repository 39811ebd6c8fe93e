package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func writePrefs(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Load("")
	if p != Default() {
		t.Fatalf("Load = %#v, want %#v", p, Default())
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	writePrefs(t, filepath.Join(home, ".config", "marquee", "prefs.toml"), "theme = \"Slate\"\nshow_posters = false\n")

	p := Load("")
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if p.ShowPosters {
		t.Fatalf("ShowPosters = true, want false")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writePrefs(t, path, "theme = \"  \"\n")

	p := Load(path)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if !p.ShowPosters {
		t.Fatalf("ShowPosters = false, want default true")
	}
}

func TestLoad_InvalidTOMLUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	writePrefs(t, path, "theme = [")

	if p := Load(path); p != Default() {
		t.Fatalf("Load = %#v, want defaults", p)
	}
}

func TestSave_RoundTripCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "prefs.toml")
	want := Prefs{Theme: "Kanagawa", ShowPosters: false}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got := Load(path); got != want {
		t.Fatalf("Load after Save = %#v, want %#v", got, want)
	}
}

func TestDefaultPath(t *testing.T) {
	if DefaultPath() != "~/.config/marquee/prefs.toml" {
		t.Fatalf("DefaultPath = %q", DefaultPath())
	}
}
