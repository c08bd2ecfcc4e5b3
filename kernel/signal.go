package kernel

// Signal is a coalescing wake-up flag.
//
// Raise never blocks; any number of raises before a Wait collapse into one
// wakeup. A Wait may therefore return after the condition it was waiting for
// has already been consumed, and callers re-check their queues afterwards.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates a lowered signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Raise sets the signal.
func (s *Signal) Raise() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the signal is raised and lowers it again.
func (s *Signal) Wait() {
	<-s.ch
}
