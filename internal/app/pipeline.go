package app

import (
	"log"
	"time"

	"github.com/ayusman/cyberbamboo/internal/overlay"
	"github.com/ayusman/cyberbamboo/internal/particles"
	"github.com/ayusman/cyberbamboo/internal/render"
	"github.com/ayusman/cyberbamboo/internal/vmath"
)

// Tick advances and draws one frame at now.
//
// Frame order while running:
// 1. Take the newest hand result, if one arrived, and map it
// 2. Clear the surface
// 3. Step the particle system with the frame's mode, tips and attractor
// 4. Draw the leaves, then the hand and the panel on top
// 5. Count the frame and publish stats once per window
//
// A nil surface skips the frame.
func (a *App) Tick(now time.Time, s render.Surface) {
	if s == nil {
		if !a.warnedSurface {
			log.Println("No drawing surface, skipping frames")
			a.warnedSurface = true
		}
		return
	}

	var dt time.Duration
	if !a.lastTick.IsZero() {
		dt = now.Sub(a.lastTick)
	}
	a.lastTick = now

	if a.state == StateAwaitingHandSource {
		a.pollSource(now)
		if a.state == StateAwaitingHandSource {
			s.Clear()
			a.hud.DrawLoading(s, dt)
			return
		}
	}

	frame := a.mapper.Last()
	if r, ok := a.latest.Take(); ok {
		frame = a.mapper.Process(r)
	}
	if frame.Mode != a.lastMode {
		a.lastMode = frame.Mode
		a.notifyMode(frame.Mode)
	}

	s.Clear()

	a.system.Update(frame.Mode, frame.Tips, frame.Attractor())
	a.system.Draw(s)

	a.hud.Advance(dt, frame.Mode)
	a.hud.DrawHand(s, frame, a.mapper)
	a.hud.DrawPanel(s)

	a.countFrame(now, dt, frame.Mode)
}

// pollSource moves to StateRunning once the source is ready, checking at
// most once per ReadyPollInterval.
func (a *App) pollSource(now time.Time) {
	if !a.lastPoll.IsZero() && now.Sub(a.lastPoll) < ReadyPollInterval {
		return
	}
	a.lastPoll = now

	if a.source == nil || !a.source.Ready() {
		return
	}

	a.state = StateRunning
	a.windowStart = now
	a.frames = 0
	log.Printf("[%s] Hand source ready", a.sessionID[:8])
}

func (a *App) countFrame(now time.Time, dt time.Duration, mode particles.Mode) {
	a.frames++
	if now.Sub(a.windowStart) < StatsInterval {
		return
	}

	velocity := MagneticVelocity
	if mode != particles.ModeMagnetic {
		velocity = vmath.RandomRange(0, MaxWindVelocity)
	}

	stats := overlay.Stats{
		FPS:      a.frames,
		Nodes:    a.system.Len(),
		Velocity: velocity,
		Mode:     mode,
		Delta:    dt,
	}
	a.hud.SetStats(stats)
	a.frames = 0
	a.windowStart = now

	a.mu.Lock()
	a.stats = stats
	handlers := make([]func(overlay.Stats), len(a.onStats))
	copy(handlers, a.onStats)
	a.mu.Unlock()

	for _, fn := range handlers {
		fn(stats)
	}
}

func (a *App) notifyMode(mode particles.Mode) {
	a.mu.RLock()
	handlers := make([]func(particles.Mode), len(a.onMode))
	copy(handlers, a.onMode)
	a.mu.RUnlock()

	for _, fn := range handlers {
		fn(mode)
	}
}
