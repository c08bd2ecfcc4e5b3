// Package present hands two screen buffers back and forth between a renderer
// and a display that completes swaps asynchronously.
//
// The renderer owns the back buffer between BeginFrame and EndFrame. The
// display owns the visible buffer, and after a swap also the previous one
// until it reports it safe. Ownership is tracked with two flags:
//
//	safeToWrite   the back buffer is no longer scanned out
//	safeToChange  no swap is outstanding
//
// Both are cleared by an accepted swap and set again by the matching
// completion notifications, which may arrive in either order.
package present

import (
	"errors"
	"fmt"

	"screenbuf/hal"
)

var (
	// ErrUnsupportedPixelFormat is returned when the backend's surfaces are not
	// one-byte indexed pixels.
	ErrUnsupportedPixelFormat = errors.New("unsupported pixel format")
	// ErrSwapRejected is returned by EndFrame when the backend refused the
	// swap. It is transient: nothing changed and the next frame retries.
	ErrSwapRejected = errors.New("swap rejected")
	// ErrResourceExhausted is returned when a framebuffer cannot be acquired.
	ErrResourceExhausted = errors.New("backend resource exhausted")

	// ErrFrameInProgress is returned by BeginFrame before the previous frame
	// was ended.
	ErrFrameInProgress = errors.New("frame already in progress")
	// ErrNoFrame is returned by EndFrame without a matching BeginFrame.
	ErrNoFrame = errors.New("no frame in progress")
	// ErrClosed is returned by BeginFrame and EndFrame after Close.
	ErrClosed = errors.New("engine closed")
)

// Backend is the display side of the handshake.
type Backend interface {
	AcquireFramebuffer(id hal.BufferID) (*hal.Surface, error)
	RequestSwap(id hal.BufferID) bool
	PollCompletion(ch hal.Channel) bool
	BlockUntilNotification()
	ReleaseFramebuffer(id hal.BufferID)
}

// State is the coarse position of the engine in its frame cycle.
type State uint8

const (
	StateIdle State = iota
	StateRendering
	StateSwapPending
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	case StateSwapPending:
		return "swap-pending"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Stats counts engine activity.
type Stats struct {
	Frames  uint64
	Swaps   uint64
	Rejects uint64
	Waits   uint64
	Drained uint64
}

// Engine is one double-buffered presentation session.
//
// All methods must be called from a single goroutine. The backend may post
// notifications from any goroutine.
type Engine struct {
	be   Backend
	log  hal.Logger
	bufs [2]*hal.Surface

	back         hal.BufferID
	safeToWrite  bool
	safeToChange bool
	rendering    bool
	closed       bool

	stats Stats
}

// Open acquires both framebuffers from be. Buffer A is taken to be visible
// and B becomes the first back buffer.
//
// On failure everything acquired so far is released in reverse order.
func Open(be Backend, log hal.Logger) (*Engine, error) {
	if log == nil {
		log = hal.DiscardLogger
	}
	e := &Engine{
		be:           be,
		log:          log,
		back:         hal.BufferB,
		safeToWrite:  true,
		safeToChange: true,
	}

	for _, id := range []hal.BufferID{hal.BufferA, hal.BufferB} {
		s, err := be.AcquireFramebuffer(id)
		if err != nil {
			e.releaseAll()
			return nil, fmt.Errorf("acquire buffer %s: %w: %w", id, ErrResourceExhausted, err)
		}
		if s == nil || len(s.Pix) == 0 {
			be.ReleaseFramebuffer(id)
			e.releaseAll()
			return nil, fmt.Errorf("acquire buffer %s: empty surface: %w", id, ErrResourceExhausted)
		}
		e.bufs[id] = s
		if s.Format != hal.PixelFormatLUT8 {
			e.releaseAll()
			return nil, fmt.Errorf("buffer %s is %s: %w", id, s.Format, ErrUnsupportedPixelFormat)
		}
		if s.Stride < s.Width || len(s.Pix) < s.Stride*s.Height {
			e.releaseAll()
			return nil, fmt.Errorf("buffer %s: stride %d for width %d: %w", id, s.Stride, s.Width, ErrUnsupportedPixelFormat)
		}
	}
	if e.bufs[hal.BufferA] == e.bufs[hal.BufferB] || &e.bufs[hal.BufferA].Pix[0] == &e.bufs[hal.BufferB].Pix[0] {
		e.releaseAll()
		return nil, fmt.Errorf("buffers share storage: %w", ErrResourceExhausted)
	}
	return e, nil
}

// BeginFrame waits until the back buffer may be written and returns it.
//
// The returned surface is only valid until the matching EndFrame.
func (e *Engine) BeginFrame() (*hal.Surface, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if e.rendering {
		return nil, ErrFrameInProgress
	}
	if !e.safeToWrite {
		e.await(hal.ChannelSafe)
		e.safeToWrite = true
	}
	e.rendering = true
	return e.bufs[e.back], nil
}

// EndFrame waits until a swap may be issued and asks the backend to show the
// frame just rendered. A rejected swap returns ErrSwapRejected and leaves the
// buffers and flags exactly as they were.
func (e *Engine) EndFrame() error {
	if e.closed {
		return ErrClosed
	}
	if !e.rendering {
		return ErrNoFrame
	}
	e.rendering = false
	e.stats.Frames++

	if !e.safeToChange {
		e.await(hal.ChannelDisp)
		e.safeToChange = true
	}

	if !e.be.RequestSwap(e.back) {
		e.stats.Rejects++
		e.log.WriteLineString(fmt.Sprintf("present: swap to buffer %s rejected", e.back))
		return fmt.Errorf("buffer %s: %w", e.back, ErrSwapRejected)
	}
	e.stats.Swaps++
	e.safeToChange = false
	e.safeToWrite = false
	e.back = e.back.Other()
	return nil
}

// await blocks until at least one notification on ch has been consumed.
// Everything already queued on ch is drained before returning.
func (e *Engine) await(ch hal.Channel) {
	for {
		if n := e.drain(ch); n > 0 {
			if n > 1 {
				e.log.WriteLineString(fmt.Sprintf("present: drained %d %s notifications", n, ch))
			}
			return
		}
		e.stats.Waits++
		e.be.BlockUntilNotification()
	}
}

func (e *Engine) drain(ch hal.Channel) int {
	n := 0
	for e.be.PollCompletion(ch) {
		n++
	}
	e.stats.Drained += uint64(n)
	return n
}

// Close waits for any outstanding swap notifications and releases both
// buffers. It is safe to call more than once.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.rendering = false
	if !e.safeToChange {
		e.await(hal.ChannelDisp)
		e.safeToChange = true
	}
	if !e.safeToWrite {
		e.await(hal.ChannelSafe)
		e.safeToWrite = true
	}
	e.releaseAll()
	e.closed = true
	e.log.WriteLineString(fmt.Sprintf("present: closed after %d frames, %d swaps, %d rejected",
		e.stats.Frames, e.stats.Swaps, e.stats.Rejects))
	return nil
}

func (e *Engine) releaseAll() {
	for i := len(e.bufs) - 1; i >= 0; i-- {
		if e.bufs[i] == nil {
			continue
		}
		e.be.ReleaseFramebuffer(hal.BufferID(i))
		e.bufs[i] = nil
	}
}

// Back returns the buffer the next frame is rendered into.
func (e *Engine) Back() hal.BufferID { return e.back }

// Visible returns the buffer last handed to the display.
func (e *Engine) Visible() hal.BufferID { return e.back.Other() }

// SafeToWrite reports whether the back buffer is known to be free.
func (e *Engine) SafeToWrite() bool { return e.safeToWrite }

// SafeToChange reports whether no swap is outstanding.
func (e *Engine) SafeToChange() bool { return e.safeToChange }

// State returns where the engine is in its frame cycle.
func (e *Engine) State() State {
	switch {
	case e.closed:
		return StateClosed
	case e.rendering:
		return StateRendering
	case !e.safeToChange:
		return StateSwapPending
	default:
		return StateIdle
	}
}

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() Stats { return e.stats }
