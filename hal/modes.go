package hal

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode describes one display mode offered by a host screen.
type Mode struct {
	ID     uint32
	Width  int
	Height int
	Depth  int
	Format PixelFormat
}

// Name returns the mode as "WxH".
func (m Mode) Name() string {
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

func (m Mode) String() string {
	return fmt.Sprintf("%s %dbit %s id=0x%08x", m.Name(), m.Depth, m.Format, m.ID)
}

// Indexed reports whether the mode is 8-bit palette indexed.
func (m Mode) Indexed() bool {
	return m.Depth == 8 && m.Format == PixelFormatLUT8
}

var hostModes = []Mode{
	{ID: 0x50001000, Width: 320, Height: 200, Depth: 8, Format: PixelFormatLUT8},
	{ID: 0x50011000, Width: 320, Height: 256, Depth: 8, Format: PixelFormatLUT8},
	{ID: 0x50021000, Width: 640, Height: 480, Depth: 8, Format: PixelFormatLUT8},
	{ID: 0x50031000, Width: 800, Height: 600, Depth: 8, Format: PixelFormatLUT8},
	{ID: 0x50041100, Width: 320, Height: 320, Depth: 16, Format: PixelFormatRGB565},
	{ID: 0x50051100, Width: 640, Height: 480, Depth: 16, Format: PixelFormatRGB565},
}

// HostModes returns every mode the host screens can open.
func HostModes() []Mode {
	out := make([]Mode, len(hostModes))
	copy(out, hostModes)
	return out
}

// IndexedModes filters modes down to 8-bit indexed ones.
func IndexedModes(modes []Mode) []Mode {
	var out []Mode
	for _, m := range modes {
		if m.Indexed() {
			out = append(out, m)
		}
	}
	return out
}

// ParseModeName parses "WxH".
func ParseModeName(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("mode %q: want WIDTHxHEIGHT", s)
	}
	w, err = strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, fmt.Errorf("mode %q: bad width", s)
	}
	h, err = strconv.Atoi(hs)
	if err != nil || h <= 0 {
		return 0, 0, fmt.Errorf("mode %q: bad height", s)
	}
	return w, h, nil
}

// FindMode returns the first mode named "WxH", whatever its depth.
func FindMode(modes []Mode, name string) (Mode, error) {
	w, h, err := ParseModeName(name)
	if err != nil {
		return Mode{}, err
	}
	for _, m := range modes {
		if m.Width == w && m.Height == h {
			return m, nil
		}
	}
	return Mode{}, fmt.Errorf("mode %s: %w", name, ErrNoMode)
}

// SelectMode finds the 8-bit indexed mode named "WxH".
//
// A matching mode with a different depth yields ErrModeNotIndexed so callers
// can tell a typo from an unsuitable mode.
func SelectMode(modes []Mode, name string) (Mode, error) {
	w, h, err := ParseModeName(name)
	if err != nil {
		return Mode{}, err
	}
	found := false
	for _, m := range modes {
		if m.Width != w || m.Height != h {
			continue
		}
		if m.Indexed() {
			return m, nil
		}
		found = true
	}
	if found {
		return Mode{}, fmt.Errorf("mode %s: %w", name, ErrModeNotIndexed)
	}
	return Mode{}, fmt.Errorf("mode %s: %w", name, ErrNoMode)
}
