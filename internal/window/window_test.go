package window

import (
	"context"
	"errors"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ayusman/cyberbamboo/internal/app"
	"github.com/ayusman/cyberbamboo/internal/particles"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("size = %dx%d, want 1280x720", cfg.Width, cfg.Height)
	}
	if cfg.Title == "" {
		t.Error("empty title")
	}
}

func TestGame_Layout(t *testing.T) {
	a := app.New(app.Config{Width: 1280, Height: 720})
	g := NewGame(context.Background(), a)

	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
		wantCap      int
	}{
		{name: "unchanged", w: 1280, h: 720, wantW: 1280, wantH: 720, wantCap: particles.DesktopCap},
		{name: "narrow", w: 600, h: 900, wantW: 600, wantH: 900, wantCap: particles.MobileCap},
		{name: "zero keeps last", w: 0, h: 0, wantW: 600, wantH: 900, wantCap: particles.MobileCap},
		{name: "wide again", w: 1920, h: 1080, wantW: 1920, wantH: 1080, wantCap: particles.DesktopCap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := g.Layout(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Layout() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
			if got := a.System().Capacity(); got != tt.wantCap {
				t.Errorf("Capacity() = %d, want %d", got, tt.wantCap)
			}
			if aw, ah := a.Size(); int(aw) != tt.wantW || int(ah) != tt.wantH {
				t.Errorf("app size = %vx%v", aw, ah)
			}
		})
	}
}

func TestGame_UpdateStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := NewGame(ctx, app.New(app.Config{Width: 640, Height: 480}))

	if err := g.Update(); err != nil {
		t.Fatalf("Update() = %v before cancel", err)
	}

	cancel()
	if err := g.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("Update() = %v, want ebiten.Termination", err)
	}
}
