package capture

import (
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func solidFrame(t *testing.T, v float64) gocv.Mat {
	t.Helper()
	m := gocv.NewMatWithSize(DefaultHeight, DefaultWidth, gocv.MatTypeCV8UC3)
	if v != 0 {
		m.SetTo(gocv.NewScalar(v, v, v, 0))
	}
	return m
}

func TestMotionDetector_Detect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	tests := []struct {
		name       string
		first      float64
		second     float64
		wantMotion bool
	}{
		{name: "identical black frames", first: 0, second: 0, wantMotion: false},
		{name: "black to white", first: 0, second: 255, wantMotion: true},
		{name: "below pixel threshold", first: 100, second: 110, wantMotion: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(DefaultMotionThreshold)
			defer md.Close()

			a := solidFrame(t, tt.first)
			defer a.Close()
			b := solidFrame(t, tt.second)
			defer b.Close()

			if moved, pct := md.Detect(&a); moved || pct != 0 {
				t.Fatalf("baseline Detect() = %v, %f; want false, 0", moved, pct)
			}

			moved, pct := md.Detect(&b)
			if moved != tt.wantMotion {
				t.Errorf("Detect() = %v (%.2f%%), want %v", moved, pct, tt.wantMotion)
			}
			if tt.wantMotion && pct < 50 {
				t.Errorf("changed = %.2f%%, want > 50%%", pct)
			}
		})
	}
}

func TestMotionDetector_NilAndEmpty(t *testing.T) {
	md := NewMotionDetector(DefaultMotionThreshold)
	defer md.Close()

	if moved, pct := md.Detect(nil); moved || pct != 0 {
		t.Errorf("Detect(nil) = %v, %f", moved, pct)
	}
	if md.initialized {
		t.Error("nil frame must not set a baseline")
	}
}

func TestMotionDetector_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(DefaultMotionThreshold)
	defer md.Close()

	frame := solidFrame(t, 0)
	defer frame.Close()
	md.Detect(&frame)

	if !md.initialized {
		t.Fatal("detector should hold a baseline after the first frame")
	}

	md.Reset()
	if md.initialized || !md.prevGray.Empty() {
		t.Error("Reset should drop the baseline")
	}

	// Close twice is fine.
	md.Close()
	md.Close()
}

func TestMotionDetector_SetThreshold(t *testing.T) {
	tests := []struct {
		name string
		set  float64
		want float64
	}{
		{name: "raise", set: 5, want: 5},
		{name: "lower", set: 0.5, want: 0.5},
		{name: "zero ignored", set: 0, want: 1},
		{name: "negative ignored", set: -1, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := NewMotionDetector(1)
			defer md.Close()

			md.SetThreshold(tt.set)
			if md.threshold != tt.want {
				t.Errorf("threshold = %f, want %f", md.threshold, tt.want)
			}
		})
	}
}

func TestNewMotionGate_Defaults(t *testing.T) {
	g := NewMotionGate(0, 0)
	defer g.Close()

	if g.hold != DefaultStillTimeout {
		t.Errorf("hold = %v, want %v", g.hold, DefaultStillTimeout)
	}
	if g.detector.threshold != DefaultMotionThreshold {
		t.Errorf("threshold = %f, want %f", g.detector.threshold, DefaultMotionThreshold)
	}
}

func TestMotionGate_Allow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	g := NewMotionGate(DefaultMotionThreshold, time.Second)
	defer g.Close()

	black := solidFrame(t, 0)
	defer black.Close()
	white := solidFrame(t, 255)
	defer white.Close()

	start := time.Unix(1000, 0)

	if !g.Allow(&black, start) {
		t.Fatal("first frame should pass")
	}
	if !g.Allow(&black, start.Add(500*time.Millisecond)) {
		t.Error("still frame inside hold should pass")
	}
	if g.Allow(&black, start.Add(1500*time.Millisecond)) {
		t.Error("still frame after hold should be blocked")
	}
	if !g.Allow(&white, start.Add(2*time.Second)) {
		t.Error("motion should reopen the gate")
	}
}
