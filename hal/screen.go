package hal

import (
	"fmt"
	"sync"

	"screenbuf/kernel"
)

// ScreenConfig sizes a software screen.
type ScreenConfig struct {
	Mode Mode
	// VRAMBytes caps the memory available for framebuffers. Zero means
	// unlimited.
	VRAMBytes int
	// RejectEvery makes every Nth swap request fail, to exercise retry paths.
	// Zero disables it.
	RejectEvery int
}

// Screen is a software double-buffered display.
//
// Buffer A starts out visible. A swap request is latched and performed on the
// next VBlank, which then posts one message on the safe port (the old buffer
// is no longer scanned out) and one on the disp port (the new buffer is on
// screen). Both ports share one wait signal.
type Screen struct {
	mu   sync.Mutex
	cfg  ScreenConfig
	bufs [2]*Surface
	used int

	visible BufferID
	next    BufferID
	pending bool
	closed  bool

	requests uint64
	swaps    uint64
	vblanks  uint64

	sig  *kernel.Signal
	safe *kernel.Port
	disp *kernel.Port
}

// NewScreen opens a screen in cfg.Mode.
func NewScreen(cfg ScreenConfig) *Screen {
	sig := kernel.NewSignal()
	return &Screen{
		cfg:     cfg,
		visible: BufferA,
		sig:     sig,
		safe:    kernel.NewPort(sig),
		disp:    kernel.NewPort(sig),
	}
}

// Mode returns the mode the screen was opened in.
func (s *Screen) Mode() Mode { return s.cfg.Mode }

// AcquireFramebuffer allocates (or returns the already allocated) surface for id.
func (s *Screen) AcquireFramebuffer(id BufferID) (*Surface, error) {
	if id > BufferB {
		return nil, fmt.Errorf("buffer %d: %w", id, ErrBufferUnavailable)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.bufs[id]; b != nil {
		return b, nil
	}
	if s.cfg.Mode.Width <= 0 || s.cfg.Mode.Height <= 0 || s.cfg.Mode.Format.BytesPerPixel() == 0 {
		return nil, fmt.Errorf("buffer %s: mode %s: %w", id, s.cfg.Mode.Name(), ErrBufferUnavailable)
	}
	b := newSurface(id, s.cfg.Mode)
	if s.cfg.VRAMBytes > 0 && s.used+len(b.Pix) > s.cfg.VRAMBytes {
		return nil, fmt.Errorf("buffer %s: %d of %d bytes in use: %w", id, s.used, s.cfg.VRAMBytes, ErrBufferUnavailable)
	}
	s.used += len(b.Pix)
	s.bufs[id] = b
	return b, nil
}

// ReleaseFramebuffer frees the surface for id. Releasing twice is a no-op.
func (s *Screen) ReleaseFramebuffer(id BufferID) {
	if id > BufferB {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if b := s.bufs[id]; b != nil {
		s.used -= len(b.Pix)
		s.bufs[id] = nil
	}
}

// RequestSwap asks for id to become visible on the next VBlank.
//
// It is rejected while another swap is latched, when id is already visible,
// when id has no surface, after Close, or by fault injection.
func (s *Screen) RequestSwap(id BufferID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++
	if s.cfg.RejectEvery > 0 && s.requests%uint64(s.cfg.RejectEvery) == 0 {
		return false
	}
	if s.closed || id > BufferB || s.pending || id == s.visible || s.bufs[id] == nil {
		return false
	}
	s.next = id
	s.pending = true
	return true
}

// PollCompletion consumes one notification from ch without blocking.
func (s *Screen) PollCompletion(ch Channel) bool {
	p := s.port(ch)
	if p == nil {
		return false
	}
	_, ok := p.TryRecv()
	return ok
}

// BlockUntilNotification suspends until a notification is posted on either
// channel. It may return spuriously.
func (s *Screen) BlockUntilNotification() {
	s.sig.Wait()
}

// Pending returns the number of undelivered notifications on ch.
func (s *Screen) Pending(ch Channel) int {
	p := s.port(ch)
	if p == nil {
		return 0
	}
	return p.Len()
}

// VBlank scans out the visible buffer through scan (which may be nil) and
// then performs a latched swap.
func (s *Screen) VBlank(scan func(*Surface)) {
	s.mu.Lock()
	s.vblanks++
	if b := s.bufs[s.visible]; b != nil && scan != nil {
		scan(b)
	}
	if !s.pending {
		s.mu.Unlock()
		return
	}
	old := s.visible
	s.visible = s.next
	s.pending = false
	s.swaps++
	now := s.visible
	s.mu.Unlock()

	// Sends fail once the screen is closed.
	s.safe.Send(kernel.Message{Kind: uint8(ChannelSafe), Arg: uint32(old)})
	s.disp.Send(kernel.Message{Kind: uint8(ChannelDisp), Arg: uint32(now)})
}

// Close shuts both notification ports. Call it once the engine has drained
// them; later swaps are rejected and vblanks post nothing.
func (s *Screen) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.safe.Close()
	s.disp.Close()
}

// Visible returns the buffer currently scanned out.
func (s *Screen) Visible() BufferID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// SwapPending reports whether a swap is latched for the next VBlank.
func (s *Screen) SwapPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// ScreenStats are counters for diagnostics.
type ScreenStats struct {
	VBlanks  uint64
	Requests uint64
	Swaps    uint64
}

// Stats returns a snapshot of the screen counters.
func (s *Screen) Stats() ScreenStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ScreenStats{VBlanks: s.vblanks, Requests: s.requests, Swaps: s.swaps}
}

func (s *Screen) port(ch Channel) *kernel.Port {
	switch ch {
	case ChannelSafe:
		return s.safe
	case ChannelDisp:
		return s.disp
	default:
		return nil
	}
}
