package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.ServerURL != "" {
		t.Errorf("default ServerURL should be empty, got %q", cfg.ServerURL)
	}
	if cfg.UI.DefaultSection != "dashboard" {
		t.Errorf("default section = %q", cfg.UI.DefaultSection)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	in := Config{
		ServerURL: "https://helpcab.onrender.com/api",
		UI:        UIConfig{DefaultSection: "tickets", CommentAuthor: "Suporte"},
	}
	if err := SaveTo(in, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	out, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestLoadFromBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server_url: [not: closed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestConfigDirRespectsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	if got := ConfigDir(); got != filepath.Join("/tmp/xdg-test", "hc") {
		t.Errorf("ConfigDir = %q", got)
	}
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
	if got := StateDir(); got != filepath.Join("/tmp/xdg-state", "hc") {
		t.Errorf("StateDir = %q", got)
	}
}
