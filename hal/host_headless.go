package hal

import (
	"context"
	"fmt"
	"time"
)

// RunHeadless runs the demo without opening a window. The screen is driven
// by a ticker at cfg.Hz. Cancelling ctx posts a close event; the runner keeps
// producing vblanks until run returns so pending swaps can complete.
func RunHeadless(ctx context.Context, cfg HostConfig, run func(HAL) error) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 60
	}
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}

	h := newHost(cfg)

	restore := watchStdin(h)
	defer restore()

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
			// Keep ticking; a nil Done channel is never selected again.
			ctx = context.Background()
		case <-t.C:
			h.screen.VBlank(nil)
		}
	}
}
