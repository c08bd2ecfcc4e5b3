package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"screenbuf/app"
	"screenbuf/config"
	"screenbuf/hal"
	"screenbuf/internal/buildinfo"
)

func main() {
	var (
		configPath  string
		printConfig bool
		showVersion bool
	)
	def := config.DefaultConfig()
	var fl config.Config
	flag.StringVar(&configPath, "config", "", "Config file (default $"+config.EnvPath+" or ~/.config/screenbuf/config.yaml).")
	flag.StringVar(&fl.Backend, "backend", def.Backend, "Display backend: window, headless or term.")
	flag.StringVar(&fl.Mode, "mode", def.Mode, "Screen mode as WIDTHxHEIGHT (see listmodes).")
	flag.BoolVar(&fl.AnyDepth, "any-depth", false, "Accept non-indexed modes (the session will refuse them at startup).")
	flag.IntVar(&fl.Insects, "insects", def.Insects, "Number of insects.")
	flag.IntVar(&fl.Speed, "speed", def.Speed, "Insect speed in pixels per frame.")
	var seed uint
	flag.UintVar(&seed, "seed", uint(def.Seed), "Random seed.")
	flag.IntVar(&fl.Hz, "hz", def.Hz, "Refresh rate of the headless and term backends.")
	flag.Uint64Var(&fl.Frames, "frames", 0, "Stop after N presented frames (0 = run until Esc).")
	flag.IntVar(&fl.Scale, "scale", def.Scale, "Window zoom factor.")
	flag.BoolVar(&fl.Overlay, "overlay", false, "Draw frame counters on screen.")
	flag.IntVar(&fl.RejectEvery, "reject-every", 0, "Reject every Nth swap request (fault injection).")
	flag.BoolVar(&fl.Quiet, "quiet", false, "Suppress log output.")
	flag.BoolVar(&printConfig, "print-config", false, "Print the effective config and exit.")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit.")
	flag.Parse()

	if showVersion {
		fmt.Println("screenbuf", buildinfo.Long())
		return
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fatal(err)
	}
	fl.Seed = uint32(seed)
	applyFlags(cfg, &fl)
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	if printConfig {
		out, err := config.Marshal(cfg)
		if err != nil {
			fatal(err)
		}
		os.Stdout.Write(out)
		return
	}

	if err := run(cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fatal(err)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return config.LoadFromPath(path)
}

// applyFlags copies explicitly set flags over the file config.
func applyFlags(cfg *config.Config, fl *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = fl.Backend
		case "mode":
			cfg.Mode = fl.Mode
		case "any-depth":
			cfg.AnyDepth = fl.AnyDepth
		case "insects":
			cfg.Insects = fl.Insects
		case "speed":
			cfg.Speed = fl.Speed
		case "seed":
			cfg.Seed = fl.Seed
		case "hz":
			cfg.Hz = fl.Hz
		case "frames":
			cfg.Frames = fl.Frames
		case "scale":
			cfg.Scale = fl.Scale
		case "overlay":
			cfg.Overlay = fl.Overlay
		case "reject-every":
			cfg.RejectEvery = fl.RejectEvery
		case "quiet":
			cfg.Quiet = fl.Quiet
		}
	})
}

func run(cfg *config.Config) error {
	modes := hal.HostModes()
	pick := hal.SelectMode
	if cfg.AnyDepth {
		pick = hal.FindMode
	}
	mode, err := pick(modes, cfg.Mode)
	if err != nil {
		return err
	}

	hc := hal.HostConfig{
		Screen: hal.ScreenConfig{
			Mode:        mode,
			VRAMBytes:   cfg.VRAMBytes,
			RejectEvery: cfg.RejectEvery,
		},
		Palette: cfg.HALPalette(),
		Hz:      cfg.Hz,
		Scale:   cfg.Scale,
	}
	if cfg.Quiet {
		hc.Log = io.Discard
	}

	runner := app.Runner(app.Config{
		Insects: cfg.Insects,
		Speed:   cfg.Speed,
		Seed:    cfg.Seed,
		Frames:  cfg.Frames,
		Overlay: cfg.Overlay,
	})

	switch cfg.Backend {
	case config.BackendHeadless:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return hal.RunHeadless(ctx, hc, runner)
	case config.BackendTerminal:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return hal.RunTerminal(ctx, hc, runner)
	default:
		return hal.RunWindow(hc, runner)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
