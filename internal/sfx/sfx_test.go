package sfx

import (
	"math"
	"testing"
	"time"

	"github.com/ayusman/cyberbamboo/internal/particles"
)

func TestSweep_Stream(t *testing.T) {
	s := NewSweep(sampleRate, LowHz, HighHz, 50*time.Millisecond)

	buf := make([][2]float64, 512)
	n, ok := s.Stream(buf)
	if !ok || n != len(buf) {
		t.Fatalf("Stream() = %d, %v", n, ok)
	}

	for i := 0; i < n; i++ {
		if math.Abs(buf[i][0]) > Volume || buf[i][0] != buf[i][1] {
			t.Fatalf("sample %d = %v, want mono within ±%v", i, buf[i], Volume)
		}
	}
	if s.Err() != nil {
		t.Errorf("Err() = %v", s.Err())
	}
}

func TestCue_Length(t *testing.T) {
	for _, mode := range []particles.Mode{particles.ModeWind, particles.ModeMagnetic} {
		cue := Cue(mode)
		want := sampleRate.N(CueLength)

		total := 0
		buf := make([][2]float64, 1024)
		for {
			n, ok := cue.Stream(buf)
			total += n
			if !ok || n == 0 {
				break
			}
		}
		if total != want {
			t.Errorf("%v cue = %d samples, want %d", mode, total, want)
		}
	}
}

func TestPlayer_GracefulWithoutSpeaker(t *testing.T) {
	p := NewPlayer()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("uninitialised player panicked: %v", r)
		}
	}()

	p.ModeChanged(particles.ModeMagnetic)
	p.ModeChanged(particles.ModeMagnetic)
	p.ModeChanged(particles.ModeWind)
	p.Cleanup()

	if p.last != particles.ModeWind {
		t.Errorf("last = %v, want WIND", p.last)
	}
}

func TestPlayer_Initialize(t *testing.T) {
	p := NewPlayer()
	if err := p.Initialize(); err != nil {
		t.Logf("speaker unavailable (expected in test environments): %v", err)
		return
	}
	defer p.Cleanup()

	if err := p.Initialize(); err != nil {
		t.Errorf("second Initialize() = %v, want nil", err)
	}
	p.ModeChanged(particles.ModeMagnetic)
}
