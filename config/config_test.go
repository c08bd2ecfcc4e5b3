package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.Mode != "320x256" || cfg.Insects != 30 || cfg.Speed != 3 || cfg.Seed != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	p := cfg.HALPalette()
	if p[0] != 0x000 || p[1] != 0xf0f {
		t.Fatalf("expected black/magenta palette, got %#x %#x", p[0], p[1])
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendWindow {
		t.Fatalf("expected backend %q, got %q", BackendWindow, cfg.Backend)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(writeConfig(t, "# empty\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Hz != 60 || cfg.Scale != 2 {
		t.Fatalf("expected default hz/scale, got %d/%d", cfg.Hz, cfg.Scale)
	}
}

func TestLoadFromPath_Overrides(t *testing.T) {
	data := strings.Join([]string{
		"backend: headless",
		"mode: 640x480",
		"insects: 100",
		"seed: 99",
		"frames: 250",
		"palette: [0x000, 0xfff, 0x0f0]",
		"reject_every: 5",
		"",
	}, "\n")

	cfg, err := LoadFromPath(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != BackendHeadless || cfg.Mode != "640x480" {
		t.Fatalf("expected headless 640x480, got %s %s", cfg.Backend, cfg.Mode)
	}
	if cfg.Insects != 100 || cfg.Seed != 99 || cfg.Frames != 250 || cfg.RejectEvery != 5 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.Speed != 3 {
		t.Fatalf("expected default speed, got %d", cfg.Speed)
	}
	if len(cfg.Palette) != 3 || cfg.Palette[2] != 0x0f0 {
		t.Fatalf("unexpected palette %#v", cfg.Palette)
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := writeConfig(t, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_InvalidValue(t *testing.T) {
	_, err := LoadFromPath(writeConfig(t, "backend: framebuffer\n"))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Path != "backend" {
		t.Fatalf("expected path backend, got %q", ve.Path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
		path string
	}{
		{"mode", func(c *Config) { c.Mode = "big" }, "mode"},
		{"insects zero", func(c *Config) { c.Insects = 0 }, "insects"},
		{"insects huge", func(c *Config) { c.Insects = maxInsects + 1 }, "insects"},
		{"speed", func(c *Config) { c.Speed = 0 }, "speed"},
		{"hz", func(c *Config) { c.Hz = 0 }, "hz"},
		{"scale", func(c *Config) { c.Scale = 9 }, "scale"},
		{"palette short", func(c *Config) { c.Palette = []uint16{0} }, "palette"},
		{"palette colour", func(c *Config) { c.Palette = []uint16{0, 0x1000} }, "palette[1]"},
		{"vram", func(c *Config) { c.VRAMBytes = -1 }, "vram_bytes"},
		{"reject every swap", func(c *Config) { c.RejectEvery = 1 }, "reject_every"},
		{"reject negative", func(c *Config) { c.RejectEvery = -2 }, "reject_every"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			err := cfg.Validate()
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Path != tt.path {
				t.Fatalf("expected path %q, got %q", tt.path, ve.Path)
			}
		})
	}
}

func TestDefaultConfigPath_Env(t *testing.T) {
	t.Setenv(EnvPath, "/tmp/screenbuf-test.yaml")
	path, err := DefaultConfigPath()
	if err != nil {
		t.Fatalf("path: %v", err)
	}
	if path != "/tmp/screenbuf-test.yaml" {
		t.Fatalf("expected env path, got %q", path)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend = BackendTerminal
	cfg.Overlay = true

	data, err := Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "backend: term") {
		t.Fatalf("expected backend key in output:\n%s", data)
	}

	got, err := LoadFromPath(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Backend != BackendTerminal || !got.Overlay {
		t.Fatalf("reloaded config differs: %+v", got)
	}
}
