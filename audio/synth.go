package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/planar/vmath"
)

// Wave selects the oscillator shape
type Wave int

const (
	WaveSine Wave = iota
	WaveTriangle
	WaveNoise
)

// tone is a fixed-length oscillator
type tone struct {
	freq      float64
	phase     float64
	remaining int
	wave      Wave
	rate      beep.SampleRate
	rng       *vmath.FastRand
}

// NewTone creates an oscillator that ends after d
// Noise is seeded so a given hit always renders the same samples
func NewTone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate, seed uint64) beep.Streamer {
	return &tone{
		freq:      freq,
		remaining: rate.N(d),
		wave:      wave,
		rate:      rate,
		rng:       vmath.NewFastRand(seed),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.remaining <= 0 {
		return 0, false
	}
	for i := range samples {
		if t.remaining <= 0 {
			return i, true
		}

		var val float64
		switch t.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * t.phase)
		case WaveTriangle:
			val = 4*math.Abs(t.phase-0.5) - 1
		case WaveNoise:
			val = t.rng.Range(-1, 1)
		}
		samples[i][0] = val
		samples[i][1] = val

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.remaining--
	}
	return len(samples), true
}

func (t *tone) Err() error { return nil }

// decay shapes a stream with a linear attack and an exponential tail
type decay struct {
	streamer beep.Streamer
	position int
	attack   int
	// k is the per-sample decay constant after the attack
	k float64
}

// NewDecay ramps in over attack then falls to about 1% by release
func NewDecay(s beep.Streamer, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	rel := rate.N(release)
	k := 0.0
	if rel > 0 {
		k = math.Log(100) / float64(rel)
	}
	return &decay{streamer: s, attack: rate.N(attack), k: k}
}

func (d *decay) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = d.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := 1.0
		if d.position < d.attack {
			gain = float64(d.position) / float64(d.attack)
		} else {
			gain = math.Exp(-d.k * float64(d.position-d.attack))
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		d.position++
	}
	return n, ok
}

func (d *decay) Err() error { return d.streamer.Err() }

// newVolume wraps s with a linear gain; log2(0) is -Inf so zero is silent
func newVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain), Silent: false}
}
