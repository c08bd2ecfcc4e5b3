package config

import (
	"fmt"

	"screenbuf/hal"
	"screenbuf/insects"
)

// Backend names accepted by the backend key.
const (
	BackendWindow   = "window"
	BackendHeadless = "headless"
	BackendTerminal = "term"
)

// Config is the effective session configuration.
type Config struct {
	Backend string `yaml:"backend"`
	Mode    string `yaml:"mode"`
	// AnyDepth lets non-indexed modes through mode selection. The session
	// then fails at startup, which is useful for checking that path.
	AnyDepth bool `yaml:"any_depth"`

	Insects int    `yaml:"insects"`
	Speed   int    `yaml:"speed"`
	Seed    uint32 `yaml:"seed"`

	Hz     int    `yaml:"hz"`
	Frames uint64 `yaml:"frames"`
	Scale  int    `yaml:"scale"`

	Overlay bool     `yaml:"overlay"`
	Palette []uint16 `yaml:"palette"`

	VRAMBytes   int  `yaml:"vram_bytes"`
	RejectEvery int  `yaml:"reject_every"`
	Quiet       bool `yaml:"quiet"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendWindow,
		Mode:    "320x256",
		Insects: insects.DefaultCount,
		Speed:   insects.DefaultSpeed,
		Seed:    insects.DefaultSeed,
		Hz:      60,
		Scale:   2,
		Palette: []uint16{0x0000, 0x0f0f},
	}
}

// ValidationError names the offending key.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

const (
	maxInsects = 4096
	maxSpeed   = 64
)

// Validate checks ranges and names.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendWindow, BackendHeadless, BackendTerminal:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: %s, %s, %s", BackendWindow, BackendHeadless, BackendTerminal)}
	}
	if _, _, err := hal.ParseModeName(c.Mode); err != nil {
		return &ValidationError{Path: "mode", Err: err}
	}
	if c.Insects < 1 || c.Insects > maxInsects {
		return &ValidationError{Path: "insects", Err: fmt.Errorf("insects must be in 1..%d", maxInsects)}
	}
	if c.Speed < 1 || c.Speed > maxSpeed {
		return &ValidationError{Path: "speed", Err: fmt.Errorf("speed must be in 1..%d", maxSpeed)}
	}
	if c.Hz < 1 || c.Hz > 1000 {
		return &ValidationError{Path: "hz", Err: fmt.Errorf("hz must be in 1..1000")}
	}
	if c.Scale < 1 || c.Scale > 8 {
		return &ValidationError{Path: "scale", Err: fmt.Errorf("scale must be in 1..8")}
	}
	if len(c.Palette) < 2 || len(c.Palette) > 256 {
		return &ValidationError{Path: "palette", Err: fmt.Errorf("palette needs 2..256 entries")}
	}
	for i, v := range c.Palette {
		if v > 0x0fff {
			return &ValidationError{Path: fmt.Sprintf("palette[%d]", i), Err: fmt.Errorf("0x%x is not a 12-bit RGB4 colour", v)}
		}
	}
	if c.VRAMBytes < 0 {
		return &ValidationError{Path: "vram_bytes", Err: fmt.Errorf("vram_bytes must be >= 0")}
	}
	// 1 would reject every swap and the session could never present.
	if c.RejectEvery < 0 || c.RejectEvery == 1 {
		return &ValidationError{Path: "reject_every", Err: fmt.Errorf("reject_every must be 0 or >= 2")}
	}
	return nil
}

// HALPalette converts the configured colours.
func (c *Config) HALPalette() hal.Palette {
	var p hal.Palette
	p.LoadRGB4(c.Palette)
	return p
}
