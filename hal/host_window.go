//go:build cgo

package hal

import (
	"screenbuf/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunWindow opens a desktop window showing the screen and forwarding input.
// Every Draw is one vblank. It blocks until run returns; closing the window
// posts a close event instead of tearing the window down.
func RunWindow(cfg HostConfig, run func(HAL) error) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}
	if cfg.Title == "" {
		cfg.Title = "screenbuf"
	}
	h := newHost(cfg)

	g := &hostGame{h: h, done: runApp(h, run)}
	m := h.screen.Mode()
	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(m.Width*cfg.Scale, m.Height*cfg.Scale)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
	ebiten.SetTPS(60)
	if err := ebiten.RunGame(g); err != nil && err != ebiten.Termination {
		return err
	}
	return g.err
}

type hostGame struct {
	h       *hostHAL
	done    <-chan error
	err     error
	closing bool
	pix     []byte
	fbImg   *ebiten.Image
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.err = err
		return ebiten.Termination
	default:
	}

	if ebiten.IsWindowBeingClosed() && !g.closing {
		g.closing = true
		g.h.input.post(Event{Kind: EventClose})
	}
	g.pollInput()
	return nil
}

func (g *hostGame) pollInput() {
	in := g.h.input
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		in.post(Event{Kind: EventKey, Code: KeyEscape, Press: true})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		in.post(Event{Kind: EventKey, Code: KeyEnter, Press: true})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		in.post(Event{Kind: EventKey, Code: KeySpace, Press: true, Rune: ' '})
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		if r == ' ' {
			continue
		}
		in.post(Event{Kind: EventKey, Press: true, Rune: r})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		in.post(Event{Kind: EventMouseButton, Button: MouseSelect, Press: true})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		in.post(Event{Kind: EventMouseButton, Button: MouseSelect, Press: false})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		in.post(Event{Kind: EventMouseButton, Button: MouseMenu, Press: true})
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	m := g.h.screen.Mode()
	if g.fbImg == nil {
		g.pix = make([]byte, m.Width*m.Height*4)
		g.fbImg = ebiten.NewImage(m.Width, m.Height)
	}

	scanned := false
	g.h.screen.VBlank(func(s *Surface) {
		g.h.palette.ExpandRGBA(g.pix, s)
		scanned = true
	})
	if scanned {
		g.fbImg.WritePixels(g.pix)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	m := g.h.screen.Mode()
	return m.Width, m.Height
}
