// Package tracker runs the camera → detector loop on its own goroutine and
// hands each detection pass to registered callbacks.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/cyberbamboo/internal/capture"
	"github.com/ayusman/cyberbamboo/internal/detector"
)

// Config holds configuration options for the tracker.
type Config struct {
	// FPS is the capture and detection rate.
	FPS int
	// MotionGate skips detection while the scene is still.
	MotionGate bool
	// MotionThresh is the changed-pixel percentage counted as motion.
	MotionThresh float64
	// StillTimeout keeps the gate open after the last motion.
	StillTimeout time.Duration
}

// DefaultConfig returns the interactive tracking configuration.
func DefaultConfig() Config {
	return Config{
		FPS:          capture.DefaultFPS,
		MotionGate:   true,
		MotionThresh: capture.DefaultMotionThreshold,
		StillTimeout: capture.DefaultStillTimeout,
	}
}

// Tracker reads frames from a camera, runs hand detection and publishes a
// detector.Result per processed frame.
type Tracker struct {
	config   Config
	camera   capture.Camera
	detector detector.Detector
	gate     *capture.MotionGate

	// stepMu serialises frame processing with SetEnabled so no result
	// from an in-flight frame lands after the disable notice.
	stepMu sync.Mutex

	mu       sync.RWMutex
	handlers []func(detector.Result)
	enabled  bool
	stopCh   chan struct{}
	done     chan struct{}

	ready atomic.Bool
}

// New creates a Tracker over camera and det. Nothing runs until Start.
func New(camera capture.Camera, det detector.Detector, config Config) *Tracker {
	if config.FPS <= 0 {
		config.FPS = capture.DefaultFPS
	}
	return &Tracker{
		config:   config,
		camera:   camera,
		detector: det,
		enabled:  true,
	}
}

// OnResults registers fn to receive every result. fn runs on the tracker
// goroutine and must not block.
func (t *Tracker) OnResults(fn func(detector.Result)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers = append(t.handlers, fn)
}

// Start opens the camera and launches the detection loop. The loop ends on
// Stop or when ctx is cancelled.
func (t *Tracker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopCh != nil {
		return nil
	}

	if err := t.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	t.camera.SetFPS(t.config.FPS)

	if t.config.MotionGate {
		t.gate = capture.NewMotionGate(t.config.MotionThresh, t.config.StillTimeout)
	}

	t.stopCh = make(chan struct{})
	t.done = make(chan struct{})
	t.ready.Store(true)

	go t.run(ctx, t.stopCh, t.done)

	w, h := t.camera.FrameSize()
	log.Printf("Hand tracker started (%dx%d @ %d fps)", w, h, t.config.FPS)
	return nil
}

// Stop ends the loop and closes the camera. It is safe to call repeatedly.
func (t *Tracker) Stop() error {
	t.mu.Lock()
	if t.stopCh == nil {
		t.mu.Unlock()
		return nil
	}
	close(t.stopCh)
	done := t.done
	t.stopCh = nil
	t.done = nil
	t.mu.Unlock()

	<-done
	t.ready.Store(false)

	if t.gate != nil {
		t.gate.Close()
		t.gate = nil
	}
	if err := t.camera.Close(); err != nil {
		return fmt.Errorf("close camera: %w", err)
	}
	log.Println("Hand tracker stopped")
	return nil
}

// Ready reports whether the camera is open and the loop is running.
func (t *Tracker) Ready() bool {
	return t.ready.Load()
}

// SetEnabled suspends or resumes detection. Disabling publishes one empty
// result so consumers drop the last hand.
func (t *Tracker) SetEnabled(enabled bool) {
	t.stepMu.Lock()
	defer t.stepMu.Unlock()

	t.mu.Lock()
	was := t.enabled
	t.enabled = enabled
	t.mu.Unlock()

	if was && !enabled {
		t.emit(detector.Result{})
	}
}

// IsEnabled returns whether detection is currently enabled.
func (t *Tracker) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func (t *Tracker) run(ctx context.Context, stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(time.Second / time.Duration(t.config.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.ready.Store(false)
			return
		case <-stopCh:
			return
		case now := <-ticker.C:
			t.step(now)
		}
	}
}

// step processes one frame. Results are only published when detection ran.
func (t *Tracker) step(now time.Time) {
	t.stepMu.Lock()
	defer t.stepMu.Unlock()

	if !t.IsEnabled() {
		return
	}

	frame, err := t.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return
	}
	defer frame.Close()

	if t.gate != nil && !t.gate.Allow(frame, now) {
		return
	}

	if t.detector == nil {
		return
	}

	hands, err := t.detector.Detect(frame)
	if err != nil {
		// The failure was already logged when the helper died.
		if !errors.Is(err, detector.ErrHelperBackoff) {
			log.Printf("Error detecting hands: %v", err)
		}
		return
	}

	t.emit(detector.Result{
		Hands:       hands,
		FrameWidth:  frame.Cols(),
		FrameHeight: frame.Rows(),
	})
}

func (t *Tracker) emit(r detector.Result) {
	t.mu.RLock()
	handlers := make([]func(detector.Result), len(t.handlers))
	copy(handlers, t.handlers)
	t.mu.RUnlock()

	for _, fn := range handlers {
		fn(r)
	}
}
