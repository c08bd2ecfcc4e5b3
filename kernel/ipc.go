package kernel

import (
	"runtime"
	"sync"
)

// Message is a completion notice posted to a Port.
type Message struct {
	Kind uint8
	Arg  uint32
	Seq  uint64
}

const portSlots = 8

// Port is a fixed-size multi-producer, single-consumer notification queue.
//
// Every successful send raises the port's Signal. Several ports may share one
// Signal, so a wakeup does not imply that this particular port has a message:
// receivers must drain with TryRecv before waiting again.
type Port struct {
	_      [0]func() // prevent accidental copying.
	mu     sync.Mutex
	head   uint32
	tail   uint32
	closed bool
	slots  [portSlots]Message
	sig    *Signal
	seq    uint64
}

// NewPort returns an empty port that raises sig on every send.
// A nil sig gives the port a private signal.
func NewPort(sig *Signal) *Port {
	if sig == nil {
		sig = NewSignal()
	}
	return &Port{sig: sig}
}

// TrySend attempts to enqueue a message, returning false if the port is full or closed.
func (p *Port) TrySend(msg Message) bool {
	p.mu.Lock()
	if p.closed || p.head-p.tail >= portSlots {
		p.mu.Unlock()
		return false
	}
	p.seq++
	msg.Seq = p.seq
	p.slots[p.head%portSlots] = msg
	p.head++
	p.mu.Unlock()

	p.sig.Raise()
	return true
}

// Send enqueues a message, blocking until it succeeds. It returns false only
// if the port is closed.
func (p *Port) Send(msg Message) bool {
	for !p.TrySend(msg) {
		if p.Closed() {
			return false
		}
		runtime.Gosched()
	}
	return true
}

// TryRecv attempts to dequeue one message, returning false if empty.
func (p *Port) TryRecv() (Message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.tail == p.head {
		return Message{}, false
	}
	msg := p.slots[p.tail%portSlots]
	p.tail++
	return msg, true
}

// Len returns the number of queued messages.
func (p *Port) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return int(p.head - p.tail)
}

// Close rejects further sends. Queued messages stay receivable.
func (p *Port) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.sig.Raise()
}

// Closed reports whether Close was called.
func (p *Port) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
