package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kbridge.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[viewport]
width = 1024.0
device_pixel_ratio = 2.0

[log]
level = "debug"
development = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Viewport.Width != 1024 || cfg.Viewport.Height != 600 {
		t.Errorf("viewport: %+v", cfg.Viewport)
	}
	if cfg.Viewport.DevicePixelRatio != 2 {
		t.Errorf("dpr: %v", cfg.Viewport.DevicePixelRatio)
	}
	if cfg.Log.Level != "debug" || !cfg.Log.Development {
		t.Errorf("log: %+v", cfg.Log)
	}
	logger, err := cfg.Log.Build()
	if err != nil {
		t.Fatal(err)
	}
	_ = logger.Sync()
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "[viewport]\nwidht = 10\n")
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "widht") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidate(t *testing.T) {
	tests := []string{
		"[viewport]\nwidth = 0.0\n",
		"[viewport]\ndevice_pixel_ratio = -1.0\n",
		"[log]\nlevel = \"loud\"\n",
	}
	for _, body := range tests {
		if _, err := Decode(body); err == nil {
			t.Errorf("expected error for %q", body)
		}
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}
