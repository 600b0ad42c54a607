// Package gesture turns detected hand landmarks into screen-space
// interaction input: fingertips, a smoothed cursor and the pinch mode.
package gesture

import (
	"github.com/ayusman/cyberbamboo/internal/capture"
	"github.com/ayusman/cyberbamboo/internal/detector"
	"github.com/ayusman/cyberbamboo/internal/particles"
	"github.com/ayusman/cyberbamboo/internal/vmath"
)

// Mapping constants.
const (
	// SmoothingFactor is the per-frame lerp of the cursor toward the index tip.
	SmoothingFactor = 0.4
	// PinchThreshold is the thumb-to-index screen distance in pixels below
	// which the hand counts as pinching.
	PinchThreshold   = 60.0
	PinchThresholdSq = PinchThreshold * PinchThreshold
)

// Positions of the thumb and index tips within Frame.Tips.
const (
	ThumbTip = 0
	IndexTip = 1
)

// offscreenCursor is where the cursor sits before any hand is seen.
var offscreenCursor = vmath.Vec2{X: -100, Y: -100}

// Frame is the per-frame gesture snapshot consumed by the particle system
// and the overlay.
type Frame struct {
	// Tips holds thumb, index, middle, ring, pinky in that order, or is
	// empty when no hand is present.
	Tips      []vmath.Vec2
	Cursor    vmath.Vec2
	Mode      particles.Mode
	Landmarks *detector.HandLandmarks
}

// HasHand reports whether the frame carries a detected hand.
func (f Frame) HasHand() bool {
	return f.Landmarks != nil
}

// Attractor returns the cursor when a hand is present, nil otherwise.
func (f Frame) Attractor() *vmath.Vec2 {
	if !f.HasHand() {
		return nil
	}
	c := f.Cursor
	return &c
}

// Mapper holds the screen and video geometry plus the persistent cursor.
// It is not safe for concurrent use; the render loop owns it.
type Mapper struct {
	screenW, screenH float64
	videoW, videoH   float64
	cursor           vmath.Vec2
	last             Frame
}

// NewMapper creates a Mapper with the default capture size and the cursor
// parked off screen.
func NewMapper() *Mapper {
	m := &Mapper{cursor: offscreenCursor}
	m.SetVideoSize(0, 0)
	m.last = Frame{Cursor: m.cursor, Mode: particles.ModeWind}
	return m
}

// SetScreenSize sets the viewport the video is fitted to.
func (m *Mapper) SetScreenSize(width, height float64) {
	m.screenW, m.screenH = width, height
}

// SetVideoSize sets the source frame size. Non-positive sizes fall back to
// the default capture resolution.
func (m *Mapper) SetVideoSize(width, height float64) {
	if width <= 0 || height <= 0 {
		width, height = capture.DefaultWidth, capture.DefaultHeight
	}
	m.videoW, m.videoH = width, height
}

// MapCoordinates converts normalized video coordinates to screen pixels
// under a cover fit with the x axis mirrored for a front-facing camera.
// It returns the origin when the screen size is unknown.
func (m *Mapper) MapCoordinates(nx, ny float64) vmath.Vec2 {
	if m.screenW <= 0 || m.screenH <= 0 {
		return vmath.Vec2{}
	}

	screenRatio := m.screenW / m.screenH
	videoRatio := m.videoW / m.videoH

	var scale, offsetX, offsetY float64
	if screenRatio > videoRatio {
		// Wider screen: fit width, crop height.
		scale = m.screenW / m.videoW
		offsetY = (m.screenH - m.videoH*scale) / 2
	} else {
		scale = m.screenH / m.videoH
		offsetX = (m.screenW - m.videoW*scale) / 2
	}

	return vmath.Vec2{
		X: (1-nx)*m.videoW*scale + offsetX,
		Y: ny*m.videoH*scale + offsetY,
	}
}

// SmoothCursor moves the cursor toward target by SmoothingFactor and
// returns the new position.
func (m *Mapper) SmoothCursor(target vmath.Vec2) vmath.Vec2 {
	m.cursor = vmath.LerpVec(m.cursor, target, SmoothingFactor)
	return m.cursor
}

// Cursor returns the current smoothed cursor.
func (m *Mapper) Cursor() vmath.Vec2 {
	return m.cursor
}

// Classify returns ModeMagnetic when thumb and index are closer than
// PinchThreshold, ModeWind otherwise.
func Classify(thumb, index vmath.Vec2) particles.Mode {
	if IsPinch(thumb, index) {
		return particles.ModeMagnetic
	}
	return particles.ModeWind
}

// IsPinch compares squared screen distance against PinchThresholdSq.
func IsPinch(thumb, index vmath.Vec2) bool {
	return vmath.DistSqVec(thumb, index) < PinchThresholdSq
}

// Process maps one detection result. Only the first hand is used. With no
// hand the frame has no tips and no landmarks, the mode drops to WIND and
// the cursor keeps its last position.
func (m *Mapper) Process(r detector.Result) Frame {
	if r.FrameWidth > 0 && r.FrameHeight > 0 {
		m.SetVideoSize(float64(r.FrameWidth), float64(r.FrameHeight))
	}

	if !r.HasHand() {
		m.last = Frame{Cursor: m.cursor, Mode: particles.ModeWind}
		return m.last
	}

	hand := r.Hands[0]
	tips := make([]vmath.Vec2, 0, len(detector.Fingertips))
	for _, idx := range detector.Fingertips {
		p := hand.Points[idx]
		tips = append(tips, m.MapCoordinates(p.X, p.Y))
	}

	cursor := m.SmoothCursor(tips[IndexTip])

	m.last = Frame{
		Tips:      tips,
		Cursor:    cursor,
		Mode:      Classify(tips[ThumbTip], tips[IndexTip]),
		Landmarks: &hand,
	}
	return m.last
}

// Last returns the most recently processed frame.
func (m *Mapper) Last() Frame {
	return m.last
}
