package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	// ErrNoMode is returned when a requested display mode does not exist.
	ErrNoMode = errors.New("no such display mode")
	// ErrModeNotIndexed is returned when a mode exists but is not 8-bit indexed.
	ErrModeNotIndexed = errors.New("display mode is not 8-bit indexed")
	// ErrBufferUnavailable is returned when a framebuffer cannot be allocated.
	ErrBufferUnavailable = errors.New("framebuffer unavailable")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatLUT8 is one byte per pixel, each byte a palette index.
	PixelFormatLUT8 PixelFormat = iota + 1
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatLUT8:
		return "LUT8"
	case PixelFormatRGB565:
		return "RGB565"
	default:
		return "unknown"
	}
}

// BytesPerPixel returns the storage size of one pixel.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatLUT8:
		return 1
	case PixelFormatRGB565:
		return 2
	default:
		return 0
	}
}

// BufferID names one of the two screen buffers.
type BufferID uint8

const (
	BufferA BufferID = iota
	BufferB
)

func (id BufferID) String() string {
	switch id {
	case BufferA:
		return "A"
	case BufferB:
		return "B"
	default:
		return "?"
	}
}

// Other returns the partner buffer.
func (id BufferID) Other() BufferID { return id ^ 1 }

// Channel selects one of the two completion notification streams of a screen.
type Channel uint8

const (
	// ChannelSafe reports that the previously visible buffer is no longer
	// scanned out and may be written.
	ChannelSafe Channel = iota + 1
	// ChannelDisp reports that the requested buffer is now on screen and a
	// new swap may be issued.
	ChannelDisp
)

func (c Channel) String() string {
	switch c {
	case ChannelSafe:
		return "safe"
	case ChannelDisp:
		return "disp"
	default:
		return "unknown"
	}
}

// KeyCode is a minimal key identifier.
type KeyCode uint16

const (
	KeyUnknown KeyCode = iota
	KeyEscape
	KeyEnter
	KeySpace
)

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	MouseNone MouseButton = iota
	MouseSelect
	MouseMenu
)

// EventKind classifies input events.
type EventKind uint8

const (
	EventKey EventKind = iota + 1
	EventMouseButton
	EventClose
)

// Event is a keyboard, mouse or window event.
type Event struct {
	Kind   EventKind
	Code   KeyCode
	Rune   rune
	Button MouseButton
	Press  bool
}

// Input provides input events (best-effort on each platform).
type Input interface {
	Events() <-chan Event
}

// Display provides access to the double-buffered screen.
type Display interface {
	Mode() Mode
	Screen() *Screen
}

// HAL provides the only contact point between the demo and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
}
