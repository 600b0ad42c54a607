package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ayusman/cyberbamboo/internal/app"
	"github.com/ayusman/cyberbamboo/internal/capture"
	"github.com/ayusman/cyberbamboo/internal/detector"
	"github.com/ayusman/cyberbamboo/internal/sfx"
	"github.com/ayusman/cyberbamboo/internal/terminal"
	"github.com/ayusman/cyberbamboo/internal/tracker"
	"github.com/ayusman/cyberbamboo/internal/tray"
	"github.com/ayusman/cyberbamboo/internal/window"
)

const (
	backendWindow   = "window"
	backendTerminal = "terminal"
)

type options struct {
	camera     int
	backend    string
	demo       bool
	tray       bool
	sound      bool
	fullscreen bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("cyberbamboo", flag.ContinueOnError)
	fs.IntVar(&opts.camera, "camera", 0, "camera device index")
	fs.StringVar(&opts.backend, "backend", backendWindow, "display backend: window or terminal")
	fs.BoolVar(&opts.demo, "demo", false, "run with a scripted hand instead of the camera")
	fs.BoolVar(&opts.tray, "tray", false, "show a system tray menu")
	fs.BoolVar(&opts.sound, "sound", false, "play cues on mode changes")
	fs.BoolVar(&opts.fullscreen, "fullscreen", false, "start the window fullscreen")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	switch opts.backend {
	case backendWindow, backendTerminal:
	default:
		return options{}, fmt.Errorf("unknown backend %q", opts.backend)
	}
	return opts, nil
}

// newSource builds the camera → detector tracker for opts.
func newSource(opts options) *tracker.Tracker {
	config := tracker.DefaultConfig()

	if opts.demo {
		// Blank frames never move; the gate would hold detection off forever.
		config.MotionGate = false
		return tracker.New(capture.NewBlankCamera(), detector.NewScriptedDetector(), config)
	}

	var det detector.Detector
	mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err != nil {
		log.Printf("MediaPipe unavailable (%v), using scripted hand", err)
		det = detector.NewScriptedDetector()
	} else {
		det = mp
	}
	return tracker.New(capture.NewCamera(opts.camera), det, config)
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("Invalid arguments: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	winCfg := window.DefaultConfig()
	winCfg.Fullscreen = opts.fullscreen

	a := app.New(app.Config{
		Width:  float64(winCfg.Width),
		Height: float64(winCfg.Height),
		Source: newSource(opts),
	})

	if opts.sound {
		player := sfx.NewPlayer()
		if err := player.Initialize(); err != nil {
			log.Printf("Sound disabled: %v", err)
		}
		defer player.Cleanup()
		a.OnModeChange(player.ModeChanged)
	}

	if err := a.Start(ctx); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	run := func() error {
		if opts.backend == backendTerminal {
			return terminal.Run(ctx, a)
		}
		return window.Run(ctx, a, winCfg)
	}

	if !opts.tray {
		if err := run(); err != nil {
			log.Fatalf("Display failed: %v", err)
		}
		return
	}

	t := tray.New(a.SessionID())
	t.OnToggle(a.SetEnabled)
	a.OnEnabledChange(t.SetEnabled)
	t.OnQuit(cancel)
	a.OnStats(t.SetStats)

	if opts.backend == backendWindow {
		// ebiten owns the main thread; the tray rides on its event loop.
		t.Register()
		if err := run(); err != nil {
			log.Fatalf("Display failed: %v", err)
		}
		t.Quit()
		return
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- run()
		t.Quit()
	}()
	t.Run()
	cancel()
	if err := <-errCh; err != nil {
		log.Fatalf("Display failed: %v", err)
	}
}
