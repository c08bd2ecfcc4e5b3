package hal

import (
	"errors"
	"testing"
)

func TestSelectMode(t *testing.T) {
	modes := HostModes()

	tests := []struct {
		name    string
		wantID  uint32
		wantErr error
	}{
		{name: "320x256", wantID: 0x50011000},
		{name: " 640X480 ", wantID: 0x50021000},
		{name: "320x320", wantErr: ErrModeNotIndexed},
		{name: "1024x768", wantErr: ErrNoMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := SelectMode(modes, tt.name)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SelectMode(%q) err = %v, want %v", tt.name, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectMode(%q): %v", tt.name, err)
			}
			if m.ID != tt.wantID || !m.Indexed() {
				t.Fatalf("SelectMode(%q) = %s", tt.name, m)
			}
		})
	}
}

func TestSelectModeBadName(t *testing.T) {
	for _, name := range []string{"", "320", "x200", "320x", "ax b", "-1x5"} {
		_, err := SelectMode(HostModes(), name)
		if err == nil {
			t.Errorf("SelectMode(%q) succeeded", name)
			continue
		}
		if errors.Is(err, ErrNoMode) || errors.Is(err, ErrModeNotIndexed) {
			t.Errorf("SelectMode(%q) err = %v, want a parse error", name, err)
		}
	}
}

func TestFindModeAnyDepth(t *testing.T) {
	m, err := FindMode(HostModes(), "320x320")
	if err != nil {
		t.Fatalf("FindMode: %v", err)
	}
	if m.Format != PixelFormatRGB565 || m.Depth != 16 {
		t.Fatalf("FindMode(320x320) = %s", m)
	}

	// The first 640x480 entry is the indexed one.
	m, err = FindMode(HostModes(), "640x480")
	if err != nil || !m.Indexed() {
		t.Fatalf("FindMode(640x480) = %s, %v", m, err)
	}

	if _, err := FindMode(HostModes(), "1x1"); !errors.Is(err, ErrNoMode) {
		t.Fatalf("FindMode(1x1) err = %v, want ErrNoMode", err)
	}
}

func TestIndexedModes(t *testing.T) {
	all := HostModes()
	idx := IndexedModes(all)
	if len(idx) != 4 {
		t.Fatalf("len(IndexedModes) = %d, want 4", len(idx))
	}
	for _, m := range idx {
		if !m.Indexed() {
			t.Fatalf("IndexedModes returned %s", m)
		}
	}

	all[0].Width = 1
	if HostModes()[0].Width == 1 {
		t.Fatal("HostModes returned the shared table")
	}
}

func TestModeString(t *testing.T) {
	m := Mode{ID: 0x50011000, Width: 320, Height: 256, Depth: 8, Format: PixelFormatLUT8}
	if got, want := m.String(), "320x256 8bit LUT8 id=0x50011000"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
