package detector

import (
	"math"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Scripted motion parameters.
const (
	ScriptOrbitRadius = 0.2
	ScriptOrbitSpeed  = 0.6 // rad/s
	ScriptPinchPeriod = 6 * time.Second
	ScriptPinchHold   = 2 * time.Second
)

// ScriptedDetector ignores the frame and reports a synthetic right hand
// whose index tip orbits the frame centre. For the last ScriptPinchHold of
// every ScriptPinchPeriod the hand pinches. It drives the demo mode when no
// camera or MediaPipe install is available.
type ScriptedDetector struct {
	mu    sync.Mutex
	start time.Time
	now   func() time.Time
}

// NewScriptedDetector starts the script at the current time.
func NewScriptedDetector() *ScriptedDetector {
	return newScriptedDetector(time.Now)
}

func newScriptedDetector(now func() time.Time) *ScriptedDetector {
	return &ScriptedDetector{start: now(), now: now}
}

// Detect returns the scripted hand for the current instant.
func (d *ScriptedDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	d.mu.Lock()
	elapsed := d.now().Sub(d.start)
	d.mu.Unlock()

	return []HandLandmarks{ScriptedHand(elapsed)}, nil
}

// Close is a no-op.
func (d *ScriptedDetector) Close() error {
	return nil
}

// ScriptedHand returns the synthetic hand pose elapsed into the script.
func ScriptedHand(elapsed time.Duration) HandLandmarks {
	base := OpenPalmLandmarks()
	if elapsed%ScriptPinchPeriod >= ScriptPinchPeriod-ScriptPinchHold {
		base = PinchLandmarks()
	}

	angle := elapsed.Seconds() * ScriptOrbitSpeed
	targetX := 0.5 + ScriptOrbitRadius*math.Cos(angle)
	targetY := 0.5 + ScriptOrbitRadius*math.Sin(angle)

	tip := base.Points[IndexTip]
	return base.Translate(targetX-tip.X, targetY-tip.Y)
}
