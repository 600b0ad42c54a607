package render

import (
	"math"
	"testing"

	"github.com/ayusman/cyberbamboo/internal/vmath"
)

const epsilon = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestAffine_TranslateThenRotate(t *testing.T) {
	// Canvas order: translate to (100, 50), then rotate a quarter turn.
	m := Identity.Translated(100, 50).Rotated(math.Pi / 2)

	x, y := m.Apply(10, 0)
	if !near(x, 100) || !near(y, 60) {
		t.Errorf("Apply(10, 0) = (%v, %v), want (100, 60)", x, y)
	}

	x, y = m.Apply(0, 0)
	if !near(x, 100) || !near(y, 50) {
		t.Errorf("origin maps to (%v, %v), want (100, 50)", x, y)
	}
}

func TestAffine_IdentityMul(t *testing.T) {
	m := Affine{2, 0, 0, 3, 5, 7}
	if got := Identity.Mul(m); got != m {
		t.Errorf("Identity.Mul(m) = %v, want %v", got, m)
	}
	if got := m.Mul(Identity); got != m {
		t.Errorf("m.Mul(Identity) = %v, want %v", got, m)
	}
}

func TestContext_SaveRestore(t *testing.T) {
	c := NewContext()
	c.SetGlobalAlpha(0.5)
	c.Save()
	c.Translate(10, 10)
	c.SetGlobalAlpha(0.2)
	c.Restore()

	if c.GlobalAlpha() != 0.5 {
		t.Errorf("alpha after Restore = %v, want 0.5", c.GlobalAlpha())
	}
	if c.Transform() != Identity {
		t.Errorf("transform after Restore = %v, want identity", c.Transform())
	}

	// Unbalanced restore is ignored.
	c.Restore()
	c.Restore()
	if c.GlobalAlpha() != 0.5 {
		t.Errorf("unbalanced Restore changed alpha to %v", c.GlobalAlpha())
	}
}

func TestContext_GlobalAlphaClamped(t *testing.T) {
	c := NewContext()
	c.SetGlobalAlpha(2)
	if c.GlobalAlpha() != 1 {
		t.Errorf("alpha = %v, want 1", c.GlobalAlpha())
	}
	c.SetGlobalAlpha(-1)
	if c.GlobalAlpha() != 0 {
		t.Errorf("alpha = %v, want 0", c.GlobalAlpha())
	}
}

func TestContext_QuadraticCurveEndpoints(t *testing.T) {
	c := NewContext()
	c.Translate(100, 100)
	c.BeginPath()
	c.MoveTo(0, -10)
	c.QuadraticCurveTo(5, 0, 0, 10)

	paths := c.Subpaths()
	if len(paths) != 1 {
		t.Fatalf("subpaths = %d, want 1", len(paths))
	}
	sp := paths[0]
	if len(sp) != QuadSegments+1 {
		t.Fatalf("points = %d, want %d", len(sp), QuadSegments+1)
	}
	if sp[0] != (vmath.Vec2{X: 100, Y: 90}) {
		t.Errorf("start = %+v, want {100 90}", sp[0])
	}
	last := sp[len(sp)-1]
	if !near(last.X, 100) || !near(last.Y, 110) {
		t.Errorf("end = %+v, want {100 110}", last)
	}
	// Midpoint of the curve sits halfway to the control point.
	mid := sp[QuadSegments/2]
	if !near(mid.X, 102.5) || !near(mid.Y, 100) {
		t.Errorf("mid = %+v, want {102.5 100}", mid)
	}
}

func TestContext_ArcBounds(t *testing.T) {
	c := NewContext()
	c.BeginPath()
	c.Arc(50, 50, 10, 0, 2*math.Pi)

	min, max, ok := c.Bounds()
	if !ok {
		t.Fatal("Bounds() reported empty path")
	}
	if !near(min.X, 40) || !near(max.X, 60) || !near(min.Y, 40) || !near(max.Y, 60) {
		t.Errorf("bounds = %+v..%+v, want {40 40}..{60 60}", min, max)
	}
}

func TestContext_BeginPathResets(t *testing.T) {
	c := NewContext()
	c.MoveTo(0, 0)
	c.LineTo(1, 1)
	c.BeginPath()
	if _, _, ok := c.Bounds(); ok {
		t.Error("path should be empty after BeginPath")
	}
}

func TestRecorder_RecordsFillAndText(t *testing.T) {
	r := NewRecorder()
	r.SetFillColor(Accent)
	r.SetGlobalAlpha(0.4)
	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(10, 0)
	r.LineTo(10, 10)
	r.Fill()
	r.FillText("FPS", 5, 5)

	if r.Count(OpFill) != 1 {
		t.Fatalf("fills = %d, want 1", r.Count(OpFill))
	}
	op := r.Ops[0]
	if math.Abs(op.Alpha-0.4) > epsilon {
		t.Errorf("fill alpha = %v, want 0.4", op.Alpha)
	}
	if op.Max != (vmath.Vec2{X: 10, Y: 10}) {
		t.Errorf("fill max = %+v, want {10 10}", op.Max)
	}
	if texts := r.Texts(); len(texts) != 1 || texts[0] != "FPS" {
		t.Errorf("texts = %v, want [FPS]", texts)
	}

	r.Clear()
	if len(r.Ops) != 0 || r.Clears != 1 {
		t.Errorf("after Clear ops=%d clears=%d, want 0 and 1", len(r.Ops), r.Clears)
	}
}

func TestRecorder_EmptyPathNotRecorded(t *testing.T) {
	r := NewRecorder()
	r.BeginPath()
	r.Fill()
	r.Stroke()
	if len(r.Ops) != 0 {
		t.Errorf("ops = %d, want 0 for empty path", len(r.Ops))
	}
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(Accent, 0.4)
	_, _, _, a := c.RGBA()
	if got := float64(a) / 0xffff; math.Abs(got-0.4) > 0.01 {
		t.Errorf("alpha = %v, want ~0.4", got)
	}
	r, g, b, _ := Straight(c)
	if r > 0.01 || g < 0.99 || math.Abs(float64(b)-65.0/255) > 0.01 {
		t.Errorf("Straight() = (%v, %v, %v), want accent green", r, g, b)
	}
}

func TestSurfacesImplementInterface(t *testing.T) {
	var _ Surface = (*Recorder)(nil)
	var _ Surface = (*EbitenSurface)(nil)
}
