// Package tray provides a system tray menu for the cyber bamboo simulation:
// a tracking toggle, live readouts and quit.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/cyberbamboo/internal/overlay"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onQuit   func()
	enabled  bool
	session  string
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle *systray.MenuItem
	menuFPS    *systray.MenuItem
	menuNodes  *systray.MenuItem
	menuMode   *systray.MenuItem
}

// New creates a Tray for the given session with tracking enabled.
func New(session string) *Tray {
	return &Tray{
		enabled: true,
		session: session,
	}
}

// OnToggle sets the callback function to be called when tracking is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray and blocks until Quit.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Register sets the tray up without running an event loop, for use when
// another toolkit owns the main thread.
func (t *Tray) Register() {
	systray.Register(t.onReady, t.onExit)
}

// Quit removes the tray icon and ends Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("Cyber Bamboo")
	systray.SetTooltip(tooltip(t.session))

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle hand tracking")
	systray.AddSeparator()

	titles := statsTitles(overlay.Stats{})
	t.menuFPS = systray.AddMenuItem(titles[0], "Frames rendered last second")
	t.menuNodes = systray.AddMenuItem(titles[1], "Active leaves")
	t.menuMode = systray.AddMenuItem(titles[2], "Interaction mode")
	t.menuFPS.Disable()
	t.menuNodes.Disable()
	t.menuMode.Disable()
	systray.AddSeparator()
	toggleCh := t.menuToggle.ClickedCh
	t.mu.Unlock()

	menuQuit := systray.AddMenuItem("Quit", "Quit Cyber Bamboo")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-toggleCh:
				t.handleToggle()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

// handleToggle flips tracking and notifies the callback outside the lock.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled

	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}

	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetEnabled mirrors a tracking change made elsewhere, such as a keyboard
// toggle, without calling the toggle callback.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetStats updates the readout items. Safe before the tray is ready.
func (t *Tray) SetStats(s overlay.Stats) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuFPS == nil {
		return
	}
	titles := statsTitles(s)
	t.menuFPS.SetTitle(titles[0])
	t.menuNodes.SetTitle(titles[1])
	t.menuMode.SetTitle(titles[2])
}

// IsEnabled returns the current tracking state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Tracking"
	}
	return "○ Tracking paused"
}

func statsTitles(s overlay.Stats) [3]string {
	return [3]string{
		fmt.Sprintf("FPS: %d", s.FPS),
		fmt.Sprintf("Nodes: %d", s.Nodes),
		fmt.Sprintf("Mode: %s", s.Mode),
	}
}

func tooltip(session string) string {
	if len(session) > 8 {
		session = session[:8]
	}
	if session == "" {
		return "Cyber Bamboo"
	}
	return "Cyber Bamboo (" + session + ")"
}
