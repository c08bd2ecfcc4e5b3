package hal

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

// swapOnce presents buffer B and waits until the screen reports it shown.
func swapOnce(h HAL) error {
	scr := h.Display().Screen()
	for _, id := range []BufferID{BufferA, BufferB} {
		if _, err := scr.AcquireFramebuffer(id); err != nil {
			return err
		}
	}
	if !scr.RequestSwap(BufferB) {
		return errors.New("swap rejected")
	}
	for !scr.PollCompletion(ChannelDisp) {
		scr.BlockUntilNotification()
	}
	return nil
}

// waitClose blocks until a close event arrives.
func waitClose(h HAL) error {
	for ev := range h.Input().Events() {
		if ev.Kind == EventClose {
			return nil
		}
	}
	return errors.New("input closed")
}

func TestRunHeadlessDrivesVBlank(t *testing.T) {
	var log bytes.Buffer
	cfg := HostConfig{Screen: ScreenConfig{Mode: testMode}, Hz: 500, Log: &log}

	var swaps uint64
	var scr *Screen
	err := RunHeadless(context.Background(), cfg, func(h HAL) error {
		if err := swapOnce(h); err != nil {
			return err
		}
		scr = h.Display().Screen()
		swaps = scr.Stats().Swaps
		h.Logger().WriteLineString("done")
		return nil
	})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if swaps != 1 {
		t.Fatalf("swaps = %d, want 1", swaps)
	}
	if !scr.safe.Closed() || !scr.disp.Closed() {
		t.Fatal("screen left open after the app returned")
	}
	if !strings.Contains(log.String(), "done\n") {
		t.Fatalf("log = %q", log.String())
	}
}

func TestRunHeadlessCancelPostsClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := HostConfig{Screen: ScreenConfig{Mode: testMode}, Hz: 500, Log: io.Discard}

	started := make(chan struct{})
	errc := make(chan error, 1)
	go func() {
		errc <- RunHeadless(ctx, cfg, func(h HAL) error {
			close(started)
			return waitClose(h)
		})
	}()

	<-started
	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("RunHeadless: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("RunHeadless did not return after cancel")
	}
}

func TestRunHeadlessPropagatesError(t *testing.T) {
	want := errors.New("boom")
	cfg := HostConfig{Screen: ScreenConfig{Mode: testMode}, Log: io.Discard}
	err := RunHeadless(context.Background(), cfg, func(HAL) error { return want })
	if !errors.Is(err, want) {
		t.Fatalf("RunHeadless err = %v, want %v", err, want)
	}
}

func TestHostInputDropsWhenFull(t *testing.T) {
	in := newHostInput()
	for i := 0; i < cap(in.ch)+10; i++ {
		in.post(Event{Kind: EventKey})
	}
	if len(in.ch) != cap(in.ch) {
		t.Fatalf("queued %d events, want %d", len(in.ch), cap(in.ch))
	}
}

func TestHostLoggerRawLineEndings(t *testing.T) {
	var buf bytes.Buffer
	l := &hostLogger{w: &buf, eol: "\n"}
	l.WriteLineString("a")
	l.setRaw(true)
	l.WriteLineBytes([]byte("b"))
	l.setRaw(false)
	l.WriteLineString("c")
	if got, want := buf.String(), "a\nb\r\nc\n"; got != want {
		t.Fatalf("log = %q, want %q", got, want)
	}
}

func TestBlockSize(t *testing.T) {
	tests := []struct {
		w, h, cols, rows int
		bw, bh           int
	}{
		{320, 256, 80, 48, 4, 6},
		{10, 10, 80, 48, 1, 1},
		{81, 49, 80, 48, 2, 2},
	}
	for _, tt := range tests {
		bw, bh := blockSize(tt.w, tt.h, tt.cols, tt.rows)
		if bw != tt.bw || bh != tt.bh {
			t.Errorf("blockSize(%d,%d,%d,%d) = %d,%d, want %d,%d",
				tt.w, tt.h, tt.cols, tt.rows, bw, bh, tt.bw, tt.bh)
		}
	}
}

func TestBlockIndexKeepsSinglePixels(t *testing.T) {
	s := newSurface(BufferA, Mode{Width: 8, Height: 8, Depth: 8, Format: PixelFormatLUT8})
	s.Set(3, 2, 1)

	if got := blockIndex(s, 0, 0, 4, 4); got != 1 {
		t.Fatalf("blockIndex(0,0) = %d, want 1", got)
	}
	if got := blockIndex(s, 4, 0, 4, 4); got != 0 {
		t.Fatalf("blockIndex(4,0) = %d, want 0", got)
	}
	// Blocks that run past the edge are clipped.
	if got := blockIndex(s, 6, 6, 4, 4); got != 0 {
		t.Fatalf("blockIndex(6,6) = %d, want 0", got)
	}
}

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	ts := tcell.NewSimulationScreen("UTF-8")
	if err := ts.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	ts.SetSize(cols, rows)
	t.Cleanup(ts.Fini)
	return ts
}

func TestTermViewScan(t *testing.T) {
	ts := newSimScreen(t, 4, 2)
	p := DefaultPalette()
	tv := &termView{ts: ts, palette: &p}

	// 8x8 pixels on 4x2 cells gives 2x2 pixel half-cells.
	s := newSurface(BufferA, Mode{Width: 8, Height: 8, Depth: 8, Format: PixelFormatLUT8})
	s.Set(0, 0, 1)
	s.Set(7, 7, 1)
	tv.scan(s)
	ts.Show()

	magenta := tcell.NewRGBColor(0xff, 0, 0xff)
	black := tcell.NewRGBColor(0, 0, 0)

	r, _, st, _ := ts.GetContent(0, 0)
	if r != '▀' {
		t.Fatalf("cell rune = %q", r)
	}
	fg, bg, _ := st.Decompose()
	if fg != magenta || bg != black {
		t.Fatalf("cell (0,0) fg,bg = %v,%v", fg, bg)
	}

	_, _, st, _ = ts.GetContent(3, 1)
	fg, bg, _ = st.Decompose()
	if fg != black || bg != magenta {
		t.Fatalf("cell (3,1) fg,bg = %v,%v", fg, bg)
	}
}

func TestTermViewHandle(t *testing.T) {
	ts := newSimScreen(t, 10, 5)
	p := DefaultPalette()
	tv := &termView{ts: ts, palette: &p}
	in := newHostInput()

	tv.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), in)
	tv.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), in)
	tv.handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), in)
	tv.handle(tcell.NewEventMouse(1, 1, tcell.Button1, tcell.ModNone), in)

	want := []Event{
		{Kind: EventKey, Code: KeyEscape, Press: true},
		{Kind: EventKey, Rune: 'q', Press: true},
		{Kind: EventClose},
		{Kind: EventMouseButton, Button: MouseSelect, Press: true},
	}
	for i, w := range want {
		select {
		case got := <-in.ch:
			if got != w {
				t.Fatalf("event %d = %+v, want %+v", i, got, w)
			}
		default:
			t.Fatalf("event %d missing", i)
		}
	}
}

func TestRunTerminal(t *testing.T) {
	old := newTerminalScreen
	newTerminalScreen = func() (tcell.Screen, error) {
		return tcell.NewSimulationScreen("UTF-8"), nil
	}
	defer func() { newTerminalScreen = old }()

	cfg := HostConfig{Screen: ScreenConfig{Mode: testMode}, Hz: 500}
	var scr *Screen
	err := RunTerminal(context.Background(), cfg, func(h HAL) error {
		scr = h.Display().Screen()
		return swapOnce(h)
	})
	if err != nil {
		t.Fatalf("RunTerminal: %v", err)
	}
	if scr.RequestSwap(BufferA) {
		t.Fatal("screen still accepts swaps after RunTerminal returned")
	}
}
