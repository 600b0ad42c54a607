package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/cyberbamboo/internal/capture"
	"github.com/ayusman/cyberbamboo/internal/detector"
)

// failingCamera refuses to open.
type failingCamera struct {
	capture.MockCamera
}

func (c *failingCamera) Open() error { return errors.New("no device") }

type collector struct {
	mu      sync.Mutex
	results []detector.Result
}

func (c *collector) add(r detector.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *collector) snapshot() []detector.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]detector.Result, len(c.results))
	copy(out, c.results)
	return out
}

func newTestTracker(t *testing.T, det detector.Detector) (*Tracker, *collector) {
	t.Helper()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { frame.Close() })

	cam := capture.NewMockCamera([]*gocv.Mat{&frame}, true)
	cfg := DefaultConfig()
	cfg.MotionGate = false

	tr := New(cam, det, cfg)
	c := &collector{}
	tr.OnResults(c.add)
	return tr, c
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.FPS != capture.DefaultFPS {
		t.Errorf("FPS = %d, want %d", cfg.FPS, capture.DefaultFPS)
	}
	if !cfg.MotionGate {
		t.Error("motion gate should be on by default")
	}
}

func TestTracker_Step(t *testing.T) {
	tests := []struct {
		name      string
		hands     []detector.HandLandmarks
		err       error
		wantCount int
		wantHand  bool
	}{
		{name: "hand detected", hands: []detector.HandLandmarks{detector.OpenPalmLandmarks()}, wantCount: 1, wantHand: true},
		{name: "no hand", hands: nil, wantCount: 1, wantHand: false},
		{name: "detector error skips", err: errors.New("boom"), wantCount: 0},
		{name: "helper restarting skips", err: fmt.Errorf("%w: exit status 1", detector.ErrHelperBackoff), wantCount: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := detector.NewMockDetector()
			det.SetHands(tt.hands)
			det.SetError(tt.err)

			tr, c := newTestTracker(t, det)
			if err := tr.camera.Open(); err != nil {
				t.Fatalf("Open() error = %v", err)
			}

			tr.step(time.Now())

			got := c.snapshot()
			if len(got) != tt.wantCount {
				t.Fatalf("results = %d, want %d", len(got), tt.wantCount)
			}
			if tt.wantCount == 0 {
				return
			}
			if got[0].HasHand() != tt.wantHand {
				t.Errorf("HasHand() = %v, want %v", got[0].HasHand(), tt.wantHand)
			}
			if got[0].FrameWidth != 640 || got[0].FrameHeight != 480 {
				t.Errorf("frame = %dx%d, want 640x480", got[0].FrameWidth, got[0].FrameHeight)
			}
		})
	}
}

func TestTracker_StepCameraClosed(t *testing.T) {
	det := detector.NewMockDetector()
	tr, c := newTestTracker(t, det)

	tr.step(time.Now())

	if n := len(c.snapshot()); n != 0 {
		t.Errorf("results = %d, want 0 when the camera is closed", n)
	}
	if det.Calls() != 0 {
		t.Errorf("detector called %d times", det.Calls())
	}
}

func TestTracker_SetEnabled(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.OpenPalmLandmarks()})

	tr, c := newTestTracker(t, det)
	tr.camera.Open()

	tr.SetEnabled(false)
	if tr.IsEnabled() {
		t.Fatal("IsEnabled() = true after SetEnabled(false)")
	}

	got := c.snapshot()
	if len(got) != 1 || got[0].HasHand() {
		t.Fatalf("disable should emit exactly one empty result, got %+v", got)
	}

	tr.step(time.Now())
	tr.SetEnabled(false)
	if n := len(c.snapshot()); n != 1 {
		t.Errorf("results = %d after disabled step, want 1", n)
	}

	tr.SetEnabled(true)
	tr.step(time.Now())
	got = c.snapshot()
	if len(got) != 2 || !got[1].HasHand() {
		t.Errorf("re-enabled step should publish a hand, got %d results", len(got))
	}
}

func TestTracker_StartStop(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetHands([]detector.HandLandmarks{detector.PinchLandmarks()})

	tr, c := newTestTracker(t, det)

	if tr.Ready() {
		t.Fatal("Ready() = true before Start")
	}
	if err := tr.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !tr.Ready() {
		t.Error("Ready() = false after Start")
	}
	// Second Start is a no-op.
	if err := tr.Start(context.Background()); err != nil {
		t.Errorf("second Start() error = %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(c.snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if len(c.snapshot()) == 0 {
		t.Error("no results published within 2s")
	}

	if err := tr.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if tr.Ready() {
		t.Error("Ready() = true after Stop")
	}
	if err := tr.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}

func TestTracker_StartCameraError(t *testing.T) {
	tr := New(&failingCamera{}, detector.NewMockDetector(), DefaultConfig())

	if err := tr.Start(context.Background()); err == nil {
		t.Fatal("Start() should fail when the camera cannot open")
	}
	if tr.Ready() {
		t.Error("Ready() = true after failed Start")
	}
}

func TestTracker_ContextCancel(t *testing.T) {
	tr, _ := newTestTracker(t, detector.NewMockDetector())

	ctx, cancel := context.WithCancel(context.Background())
	if err := tr.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(time.Second)
	for tr.Ready() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if tr.Ready() {
		t.Error("Ready() should drop after the context is cancelled")
	}
	tr.Stop()
}
