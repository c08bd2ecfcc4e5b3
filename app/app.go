package app

import (
	"errors"
	"fmt"

	"screenbuf/hal"
	"screenbuf/insects"
	"screenbuf/present"
)

// Config controls one demo session.
type Config struct {
	Insects int
	Speed   int
	Seed    uint32
	// Frames stops the session after that many presented frames (0 = run
	// until a stop event).
	Frames  uint64
	Overlay bool
}

// Runner returns a function suitable for the hal host runners.
func Runner(cfg Config) func(hal.HAL) error {
	return func(h hal.HAL) error {
		return Run(h, cfg)
	}
}

// Run animates the swarm until a stop event arrives or cfg.Frames frames
// have been presented. Buffers are always handed back to the display before
// Run returns, whatever the exit path.
func Run(h hal.HAL, cfg Config) (err error) {
	log := h.Logger()
	disp := h.Display()
	if disp == nil || disp.Screen() == nil {
		return errors.New("no display")
	}
	m := disp.Mode()
	log.WriteLineString("screenbuf: mode " + m.String())

	eng, err := present.Open(disp.Screen(), log)
	if err != nil {
		return fmt.Errorf("open screen: %w", err)
	}
	defer func() {
		if cerr := eng.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	defer recoverPanic(log, &err)

	swarm := insects.New(m.Width, m.Height, insects.Config{
		Count: cfg.Insects,
		Speed: cfg.Speed,
		Seed:  cfg.Seed,
	})

	var hud *overlay
	if cfg.Overlay {
		hud = newOverlay()
	}

	var events <-chan hal.Event
	if in := h.Input(); in != nil {
		events = in.Events()
	}

	var presented uint64
	for cfg.Frames == 0 || presented < cfg.Frames {
		if stopRequested(events) {
			log.WriteLineString("screenbuf: stop requested")
			break
		}

		fb, err := eng.BeginFrame()
		if err != nil {
			return err
		}
		swarm.Frame(fb)
		if hud != nil {
			hud.draw(fb, presented, eng.Stats())
		}

		if err := eng.EndFrame(); err != nil {
			if errors.Is(err, present.ErrSwapRejected) {
				// Nothing changed; the next tick renders into the same buffer.
				continue
			}
			return err
		}
		presented++
	}
	log.WriteLineString(fmt.Sprintf("screenbuf: presented %d frames", presented))
	return nil
}

// stopRequested drains pending input and reports whether any of it asks the
// session to end.
func stopRequested(events <-chan hal.Event) bool {
	if events == nil {
		return false
	}
	stop := false
	for {
		select {
		case ev := <-events:
			if isStop(ev) {
				stop = true
			}
		default:
			return stop
		}
	}
}

func isStop(ev hal.Event) bool {
	switch ev.Kind {
	case hal.EventClose:
		return true
	case hal.EventKey:
		return ev.Press && (ev.Code == hal.KeyEscape || ev.Rune == 'q')
	case hal.EventMouseButton:
		return ev.Press && ev.Button == hal.MouseSelect
	default:
		return false
	}
}
