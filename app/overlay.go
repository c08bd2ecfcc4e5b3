package app

import (
	"fmt"
	"image/color"

	"screenbuf/hal"
	"screenbuf/insects"
	"screenbuf/present"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

var colorText = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}

type overlay struct {
	font       tinyfont.Fonter
	fontHeight int16
}

func newOverlay() *overlay {
	return &overlay{font: &tinyfont.TomThumb, fontHeight: 6}
}

func (o *overlay) draw(s *hal.Surface, frame uint64, st present.Stats) {
	d := &surfaceDisplay{s: s}
	line := fmt.Sprintf("F%d S%d R%d W%d", frame, st.Swaps, st.Rejects, st.Waits)
	if w, _ := tinyfont.LineWidth(o.font, line); int(w)+2 > s.Width {
		line = fmt.Sprintf("F%d", frame)
	}
	tinyfont.WriteLine(d, o.font, 1, o.fontHeight, line, colorText)
}

// surfaceDisplay lets tinyfont draw into a LUT8 surface. Any non-black colour
// becomes the foreground index.
type surfaceDisplay struct {
	s *hal.Surface
}

var _ drivers.Displayer = (*surfaceDisplay)(nil)

func (d *surfaceDisplay) Size() (x, y int16) {
	if d.s == nil {
		return 0, 0
	}
	return int16(d.s.Width), int16(d.s.Height)
}

func (d *surfaceDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.s == nil {
		return
	}
	idx := insects.Foreground
	if c.R == 0 && c.G == 0 && c.B == 0 {
		idx = insects.Background
	}
	d.s.Set(int(x), int(y), idx)
}

func (d *surfaceDisplay) Display() error { return nil }

func (d *surfaceDisplay) SetRotation(drivers.Rotation) error { return nil }
