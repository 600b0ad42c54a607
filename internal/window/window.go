// Package window hosts the simulation in a desktop window using ebiten.
package window

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/ayusman/cyberbamboo/internal/app"
	"github.com/ayusman/cyberbamboo/internal/render"
)

// Config holds window options.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
}

// DefaultConfig returns a resizable 1280x720 window.
func DefaultConfig() Config {
	return Config{
		Title:  "Cyber Bamboo",
		Width:  1280,
		Height: 720,
	}
}

// Game adapts an app.App to ebiten's game loop. The window's logical size
// follows the outside size, so the viewport always matches the window.
type Game struct {
	ctx     context.Context
	app     *app.App
	surface *render.EbitenSurface
	now     func() time.Time
	width   int
	height  int
}

// NewGame creates a Game for a. The game ends when ctx is done.
func NewGame(ctx context.Context, a *app.App) *Game {
	w, h := a.Size()
	return &Game{
		ctx:     ctx,
		app:     a,
		surface: render.NewEbitenSurface(),
		now:     time.Now,
		width:   int(w),
		height:  int(h),
	}
}

// Update handles input: Escape quits and Space pauses or resumes hand
// tracking. The game also ends when its context does. Simulation stepping
// happens in Draw so that one physics step maps to one rendered frame.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.app.ToggleEnabled()
	}
	select {
	case <-g.ctx.Done():
		return ebiten.Termination
	default:
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.SetTarget(screen)
	g.app.Tick(g.now(), g.surface)
}

// Layout forwards size changes to the app and keeps a 1:1 logical size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.width, g.height
	}
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.app.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return g.width, g.height
}

// Run opens the window and blocks until it is closed.
func Run(ctx context.Context, a *app.App, config Config) error {
	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowSize(config.Width, config.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(config.Fullscreen)

	if err := ebiten.RunGame(NewGame(ctx, a)); err != nil {
		return fmt.Errorf("run window: %w", err)
	}
	return nil
}
