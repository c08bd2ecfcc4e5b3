package hal

import (
	"os"

	"golang.org/x/term"
)

// watchStdin turns Escape, q and Ctrl-C typed on a terminal into input
// events. It returns a function that restores the terminal state.
func watchStdin(h *hostHAL) func() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		h.logger.WriteLineString("stdin: raw mode unavailable: " + err.Error())
		return func() {}
	}
	h.logger.setRaw(true)

	go func() {
		var b [1]byte
		for {
			n, err := os.Stdin.Read(b[:])
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			switch b[0] {
			case 0x1b:
				h.input.post(Event{Kind: EventKey, Code: KeyEscape, Press: true})
			case 0x03:
				h.input.post(Event{Kind: EventClose})
			case '\r', '\n':
				h.input.post(Event{Kind: EventKey, Code: KeyEnter, Press: true})
			case ' ':
				h.input.post(Event{Kind: EventKey, Code: KeySpace, Press: true, Rune: ' '})
			default:
				h.input.post(Event{Kind: EventKey, Press: true, Rune: rune(b[0])})
			}
		}
	}()

	return func() {
		_ = term.Restore(fd, old)
		h.logger.setRaw(false)
	}
}
