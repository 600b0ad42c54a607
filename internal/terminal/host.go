package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ayusman/cyberbamboo/internal/app"
)

// DefaultFrameInterval paces the terminal at roughly 30 frames per second.
const DefaultFrameInterval = 33 * time.Millisecond

// Host runs an app.App on a tcell screen.
type Host struct {
	app      *app.App
	screen   tcell.Screen
	surface  *CellSurface
	interval time.Duration
	now      func() time.Time
}

// NewHost creates a Host over an initialised screen and sizes the app to it.
func NewHost(a *app.App, screen tcell.Screen) *Host {
	h := &Host{
		app:      a,
		screen:   screen,
		surface:  NewCellSurface(screen),
		interval: DefaultFrameInterval,
		now:      time.Now,
	}
	h.resize()
	return h
}

// Run creates a terminal screen and runs a until the user quits or ctx ends.
func Run(ctx context.Context, a *app.App) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal screen: %w", err)
	}
	defer screen.Fini()

	return NewHost(a, screen).Loop(ctx)
}

// Loop draws frames and handles input until quit. Events are read on a
// separate goroutine and applied on the drawing goroutine.
func (h *Host) Loop(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !h.handleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			h.Frame()
		}
	}
}

// Frame ticks the app once and flushes the screen.
func (h *Host) Frame() {
	h.app.Tick(h.now(), h.surface)
	h.screen.Show()
}

// handleEvent returns false when the user asked to quit.
func (h *Host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
			return false
		case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
			return false
		case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
			h.app.ToggleEnabled()
		}
	case *tcell.EventResize:
		h.screen.Sync()
		h.resize()
	}
	return true
}

func (h *Host) resize() {
	cols, rows := h.screen.Size()
	h.surface.Resize(cols, rows)
	h.app.Resize(h.surface.LogicalSize())
}
