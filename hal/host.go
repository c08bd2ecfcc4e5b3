package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// HostConfig controls the host runners.
type HostConfig struct {
	Screen  ScreenConfig
	Palette Palette
	// Hz is the vblank rate of the headless and terminal runners.
	Hz int
	// Scale is the window zoom factor.
	Scale int
	Title string
	// Log receives host log lines; nil means stdout.
	Log io.Writer
}

type hostHAL struct {
	logger  *hostLogger
	screen  *Screen
	palette Palette
	input   *hostInput
}

func newHost(cfg HostConfig) *hostHAL {
	w := cfg.Log
	if w == nil {
		w = os.Stdout
	}
	return &hostHAL{
		logger:  &hostLogger{w: w, eol: "\n"},
		screen:  NewScreen(cfg.Screen),
		palette: cfg.Palette,
		input:   newHostInput(),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Display() Display { return hostDisplay{s: h.screen} }
func (h *hostHAL) Input() Input     { return h.input }

type hostDisplay struct {
	s *Screen
}

func (d hostDisplay) Mode() Mode      { return d.s.Mode() }
func (d hostDisplay) Screen() *Screen { return d.s }

type hostInput struct {
	ch chan Event
}

func newHostInput() *hostInput {
	return &hostInput{ch: make(chan Event, 64)}
}

func (in *hostInput) Events() <-chan Event { return in.ch }

// post delivers ev, dropping it if the queue is full.
func (in *hostInput) post(ev Event) {
	select {
	case in.ch <- ev:
	default:
	}
}

type hostLogger struct {
	mu  sync.Mutex
	w   io.Writer
	eol string
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprint(l.w, s, l.eol)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	io.WriteString(l.w, l.eol)
}

// setRaw switches line endings for a terminal in raw mode.
func (l *hostLogger) setRaw(raw bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if raw {
		l.eol = "\r\n"
	} else {
		l.eol = "\n"
	}
}

type discardLogger struct{}

func (discardLogger) WriteLineString(string) {}
func (discardLogger) WriteLineBytes([]byte)  {}

// DiscardLogger drops every line.
var DiscardLogger Logger = discardLogger{}

// runApp starts run on its own goroutine and returns a channel that yields
// its result. The screen is closed as soon as run returns.
func runApp(h *hostHAL, run func(HAL) error) <-chan error {
	done := make(chan error, 1)
	go func() {
		err := run(h)
		h.screen.Close()
		done <- err
	}()
	return done
}
