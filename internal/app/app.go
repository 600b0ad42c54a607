// Package app drives the cyber bamboo simulation: it receives hand results
// from a HandSource, maps them to gestures and steps, draws and reports on
// the particle system once per frame.
package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/cyberbamboo/internal/detector"
	"github.com/ayusman/cyberbamboo/internal/gesture"
	"github.com/ayusman/cyberbamboo/internal/overlay"
	"github.com/ayusman/cyberbamboo/internal/particles"
)

// Frame driver timing and readout constants.
const (
	// ReadyPollInterval is how often a waiting app checks the hand source.
	ReadyPollInterval = 100 * time.Millisecond
	// StatsInterval is the FPS measurement window.
	StatsInterval = 1000 * time.Millisecond
	// MagneticVelocity is the velocity readout while pinching.
	MagneticVelocity = 9.8
	// MaxWindVelocity bounds the random velocity readout in wind mode.
	MaxWindVelocity = 2.0
)

// HandSource produces hand detection results on its own goroutine.
type HandSource interface {
	OnResults(fn func(detector.Result))
	Start(ctx context.Context) error
	Stop() error
	Ready() bool
}

// toggler is implemented by sources that can pause detection.
type toggler interface {
	SetEnabled(enabled bool)
}

// State is the frame driver lifecycle state.
type State int

const (
	StateAwaitingHandSource State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateAwaitingHandSource:
		return "AWAITING_HAND_SOURCE"
	case StateRunning:
		return "RUNNING"
	default:
		return "UNKNOWN"
	}
}

// Config holds configuration options for the application.
type Config struct {
	Width  float64
	Height float64
	Source HandSource
}

// App owns the simulation. Tick, Resize and the accessors must be called
// from the render goroutine; results cross over through a Latest cell.
type App struct {
	config    Config
	sessionID string
	source    HandSource
	latest    Latest[detector.Result]

	system *particles.System
	mapper *gesture.Mapper
	hud    *overlay.HUD

	state         State
	lastPoll      time.Time
	lastTick      time.Time
	windowStart   time.Time
	frames        int
	lastMode      particles.Mode
	warnedSurface bool

	mu      sync.RWMutex
	enabled bool
	onStats []func(overlay.Stats)
	onMode  []func(particles.Mode)
	onState []func(bool)
	cancel  context.CancelFunc
	started bool
	stats   overlay.Stats
}

// New creates an App sized to the config's viewport.
func New(config Config) *App {
	a := &App{
		config:    config,
		sessionID: uuid.NewString(),
		source:    config.Source,
		system:    particles.NewSystem(config.Width, config.Height),
		mapper:    gesture.NewMapper(),
		hud:       overlay.New(config.Width, config.Height),
		enabled:   true,
		state:     StateAwaitingHandSource,
	}
	a.mapper.SetScreenSize(config.Width, config.Height)
	return a
}

// SessionID identifies this run in logs and the tray.
func (a *App) SessionID() string {
	return a.sessionID
}

// Start registers for results and starts the hand source. The app stays in
// StateAwaitingHandSource until the source reports Ready.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return nil
	}
	if a.source == nil {
		return fmt.Errorf("start app: no hand source")
	}

	a.source.OnResults(a.latest.Store)

	ctx, cancel := context.WithCancel(ctx)
	if err := a.source.Start(ctx); err != nil {
		cancel()
		return fmt.Errorf("start hand source: %w", err)
	}

	a.cancel = cancel
	a.started = true
	log.Printf("[%s] Simulation started (%d leaves)", a.sessionID[:8], a.system.Capacity())
	return nil
}

// Stop stops the hand source. The simulation keeps drawing until the host
// tears down.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return
	}
	a.cancel()
	if err := a.source.Stop(); err != nil {
		log.Printf("Error stopping hand source: %v", err)
	}
	a.started = false
	log.Printf("[%s] Simulation stopped", a.sessionID[:8])
}

// SetEnabled pauses or resumes hand tracking. Listeners registered with
// OnEnabledChange hear about every actual change, whoever made it.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	changed := a.enabled != enabled
	a.enabled = enabled
	handlers := make([]func(bool), len(a.onState))
	copy(handlers, a.onState)
	a.mu.Unlock()

	if t, ok := a.source.(toggler); ok {
		t.SetEnabled(enabled)
	} else if !enabled {
		a.latest.Store(detector.Result{})
	}

	if !changed {
		return
	}
	for _, fn := range handlers {
		fn(enabled)
	}
}

// ToggleEnabled flips hand tracking and returns the new state.
func (a *App) ToggleEnabled() bool {
	a.mu.Lock()
	enabled := !a.enabled
	a.mu.Unlock()

	a.SetEnabled(enabled)
	return enabled
}

// OnEnabledChange registers fn to run whenever tracking is paused or
// resumed. fn runs on the goroutine that made the change.
func (a *App) OnEnabledChange(fn func(enabled bool)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onState = append(a.onState, fn)
}

// IsEnabled returns whether hand tracking is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// OnStats registers fn to receive the stats published once per window.
// fn runs on the render goroutine.
func (a *App) OnStats(fn func(overlay.Stats)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onStats = append(a.onStats, fn)
}

// OnModeChange registers fn to run on the render goroutine whenever the
// interaction mode flips.
func (a *App) OnModeChange(fn func(particles.Mode)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onMode = append(a.onMode, fn)
}

// Resize forwards a viewport change to the system, mapper and HUD.
func (a *App) Resize(width, height float64) {
	a.config.Width, a.config.Height = width, height
	a.system.Resize(width, height)
	a.mapper.SetScreenSize(width, height)
	a.hud.Resize(width, height)
}

// Size returns the current viewport.
func (a *App) Size() (width, height float64) {
	return a.config.Width, a.config.Height
}

// State returns the frame driver state.
func (a *App) State() State {
	return a.state
}

// Stats returns the last published stats.
func (a *App) Stats() overlay.Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stats
}

// Frame returns the gesture frame used by the last tick.
func (a *App) Frame() gesture.Frame {
	return a.mapper.Last()
}

// System returns the particle system.
func (a *App) System() *particles.System {
	return a.system
}
