// Package sfx plays short cues when the interaction mode changes.
package sfx

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/ayusman/cyberbamboo/internal/particles"
)

const (
	sampleRate = beep.SampleRate(44100)

	// CueLength is the duration of a mode change cue.
	CueLength = 180 * time.Millisecond
	// Sweep endpoints in Hz. Pinching sweeps up, releasing sweeps down.
	LowHz  = 220.0
	HighHz = 880.0
	Volume = 0.2
)

// Player mixes cues onto the speaker. A Player that failed to initialise
// stays silent; every method is safe to call.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	last        particles.Mode
}

// NewPlayer creates an uninitialised Player.
func NewPlayer() *Player {
	return &Player{
		mixer: &beep.Mixer{},
		last:  particles.ModeWind,
	}
}

// Initialize opens the speaker. Missing audio hardware is reported but the
// Player keeps working silently.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Cleanup silences anything still playing.
func (p *Player) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// ModeChanged plays the cue for a transition into mode. Repeated calls
// with the same mode are ignored.
func (p *Player) ModeChanged(mode particles.Mode) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if mode == p.last {
		return
	}
	p.last = mode

	if !p.initialized {
		return
	}

	cue := Cue(mode)
	speaker.Lock()
	p.mixer.Add(cue)
	speaker.Unlock()
}

// Cue returns the finite streamer for entering mode.
func Cue(mode particles.Mode) beep.Streamer {
	from, to := HighHz, LowHz
	if mode == particles.ModeMagnetic {
		from, to = LowHz, HighHz
	}
	return beep.Take(sampleRate.N(CueLength), NewSweep(sampleRate, from, to, CueLength))
}

// Sweep is a sine whose frequency glides linearly from one pitch to another
// under a decaying envelope.
type Sweep struct {
	sr       beep.SampleRate
	from, to float64
	total    int
	pos      int
	phase    float64
}

// NewSweep creates a Sweep lasting d.
func NewSweep(sr beep.SampleRate, from, to float64, d time.Duration) *Sweep {
	total := sr.N(d)
	if total < 1 {
		total = 1
	}
	return &Sweep{sr: sr, from: from, to: to, total: total}
}

func (s *Sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := math.Min(float64(s.pos)/float64(s.total), 1)
		freq := s.from + (s.to-s.from)*t

		s.phase += 2 * math.Pi * freq / float64(s.sr)
		envelope := math.Exp(-t * 4)
		sample := Volume * envelope * math.Sin(s.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		s.pos++
	}
	return len(samples), true
}

func (s *Sweep) Err() error {
	return nil
}
