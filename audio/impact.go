package audio

import (
	"math"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/vmath"
)

// impactLevel maps an impulse to [0, 1] on a log scale between the audible and full thresholds
func impactLevel(impulse float64) float64 {
	if impulse <= parameter.ImpactMinImpulse {
		return 0
	}
	lo := math.Log(parameter.ImpactMinImpulse)
	hi := math.Log(parameter.ImpactFullImpulse)
	return vmath.Clamp((math.Log(impulse)-lo)/(hi-lo), 0, 1)
}

// ImpactFrequency returns the pitch of a hit, heavier hits sound lower
func ImpactFrequency(impulse float64) float64 {
	t := impactLevel(impulse)
	return parameter.ImpactBaseFrequency + (parameter.ImpactMinFrequency-parameter.ImpactBaseFrequency)*t
}

// ImpactGain returns the linear gain of a hit before the master volume
func ImpactGain(impulse float64) float64 {
	if impulse <= parameter.ImpactMinImpulse {
		return 0
	}
	return 0.2 + 0.8*impactLevel(impulse)
}

// NewImpactSound renders a thud: a pitched body plus a short noise click
// Returns nil for impulses below the audible threshold
func NewImpactSound(impulse float64, cfg Config, seed uint64) beep.Streamer {
	gain := ImpactGain(impulse) * cfg.MasterVolume
	if gain <= 0 {
		return nil
	}
	rate := beep.SampleRate(cfg.SampleRate)

	body := NewTone(ImpactFrequency(impulse), parameter.ImpactSoundDuration, WaveTriangle, rate, seed)
	body = NewDecay(body, parameter.ImpactSoundAttack, parameter.ImpactSoundRelease, rate)

	click := NewTone(0, parameter.ImpactSoundDuration/4, WaveNoise, rate, seed)
	click = NewDecay(click, 0, parameter.ImpactSoundDuration/4, rate)

	mixed := beep.Mix(
		newVolume(body, 0.8),
		newVolume(click, 0.2),
	)
	return newVolume(mixed, gain)
}
