package render

import (
	"image/color"

	"github.com/ayusman/cyberbamboo/internal/vmath"
)

// OpKind identifies a recorded paint operation.
type OpKind int

const (
	OpFill OpKind = iota
	OpStroke
	OpText
)

// Op is one paint call captured by Recorder.
type Op struct {
	Kind  OpKind
	Color color.Color
	Alpha float64
	Width float64
	Min   vmath.Vec2
	Max   vmath.Vec2
	Paths int
	Text  string
}

// Recorder is a Surface that records paint calls instead of drawing them.
type Recorder struct {
	Context
	Ops    []Op
	Clears int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Context: NewContext()}
}

func (r *Recorder) Clear() {
	r.ResetState()
	r.Ops = r.Ops[:0]
	r.Clears++
}

func (r *Recorder) Fill()   { r.record(OpFill, r.FillColor()) }
func (r *Recorder) Stroke() { r.record(OpStroke, r.StrokeColor()) }

func (r *Recorder) FillText(text string, x, y float64) {
	dx, dy := r.Transform().Apply(x, y)
	p := vmath.Vec2{X: dx, Y: dy}
	r.Ops = append(r.Ops, Op{
		Kind:  OpText,
		Color: r.FillColor(),
		Alpha: r.GlobalAlpha(),
		Min:   p,
		Max:   p,
		Text:  text,
	})
}

func (r *Recorder) record(kind OpKind, c color.Color) {
	min, max, ok := r.Bounds()
	if !ok {
		return
	}
	r.Ops = append(r.Ops, Op{
		Kind:  kind,
		Color: c,
		Alpha: r.GlobalAlpha(),
		Width: r.LineWidth(),
		Min:   min,
		Max:   max,
		Paths: len(r.Subpaths()),
	})
}

// Count returns the number of recorded ops of the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns the strings passed to FillText, in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}
