package hal

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gdamore/tcell/v2"
)

// RunTerminal shows the screen in a terminal using half-block cells.
// Each cell covers a block of screen pixels; a block is lit by the highest
// palette index inside it, so single-pixel sprites stay visible.
func RunTerminal(ctx context.Context, cfg HostConfig, run func(HAL) error) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 30
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid terminal hz: %d", cfg.Hz)
	}

	ts, err := newTerminalScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := ts.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer ts.Fini()
	ts.EnableMouse()
	ts.HideCursor()

	// Log lines would scribble over the picture.
	if cfg.Log == nil {
		cfg.Log = io.Discard
	}
	h := newHost(cfg)
	tv := &termView{ts: ts, palette: &h.palette}

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := ts.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	done := runApp(h, run)

	t := time.NewTicker(d)
	defer t.Stop()

	closing := false
	for {
		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			if !closing {
				closing = true
				h.input.post(Event{Kind: EventClose})
			}
			ctx = context.Background()
		case ev := <-events:
			tv.handle(ev, h.input)
		case <-t.C:
			h.screen.VBlank(tv.scan)
			ts.Show()
		}
	}
}

var newTerminalScreen = tcell.NewScreen

type termView struct {
	ts      tcell.Screen
	palette *Palette
}

func (v *termView) handle(ev tcell.Event, in *hostInput) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape:
			in.post(Event{Kind: EventKey, Code: KeyEscape, Press: true})
		case tcell.KeyCtrlC:
			in.post(Event{Kind: EventClose})
		case tcell.KeyEnter:
			in.post(Event{Kind: EventKey, Code: KeyEnter, Press: true})
		case tcell.KeyRune:
			code := KeyUnknown
			if ev.Rune() == ' ' {
				code = KeySpace
			}
			in.post(Event{Kind: EventKey, Code: code, Press: true, Rune: ev.Rune()})
		}
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			in.post(Event{Kind: EventMouseButton, Button: MouseSelect, Press: true})
		}
		if ev.Buttons()&tcell.Button2 != 0 {
			in.post(Event{Kind: EventMouseButton, Button: MouseMenu, Press: true})
		}
	case *tcell.EventResize:
		v.ts.Sync()
	}
}

// scan draws s into the terminal. It runs inside Screen.VBlank.
func (v *termView) scan(s *Surface) {
	cols, rows := v.ts.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	bw, bh := blockSize(s.Width, s.Height, cols, rows*2)
	for cy := 0; cy < rows; cy++ {
		for cx := 0; cx < cols; cx++ {
			top := blockIndex(s, cx*bw, cy*2*bh, bw, bh)
			bot := blockIndex(s, cx*bw, (cy*2+1)*bh, bw, bh)
			tr, tg, tb := v.palette.RGB(top)
			br, bg, bb := v.palette.RGB(bot)
			st := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(tr), int32(tg), int32(tb))).
				Background(tcell.NewRGBColor(int32(br), int32(bg), int32(bb)))
			v.ts.SetContent(cx, cy, '▀', nil, st)
		}
	}
}

// blockSize returns how many screen pixels one terminal half-cell covers.
func blockSize(w, h, cols, halfRows int) (bw, bh int) {
	bw = (w + cols - 1) / cols
	bh = (h + halfRows - 1) / halfRows
	if bw < 1 {
		bw = 1
	}
	if bh < 1 {
		bh = 1
	}
	return bw, bh
}

// blockIndex returns the highest palette index inside the block at (x0, y0).
func blockIndex(s *Surface, x0, y0, bw, bh int) uint8 {
	var idx uint8
	for y := y0; y < y0+bh && y < s.Height; y++ {
		row := s.Row(y)
		for x := x0; x < x0+bw && x < s.Width; x++ {
			if row[x] > idx {
				idx = row[x]
			}
		}
	}
	return idx
}
