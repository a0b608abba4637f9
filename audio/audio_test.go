package audio

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/planar/event"
	"github.com/lixenwraith/planar/parameter"
)

func drain(s beep.Streamer) (total int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestToneLengthAndRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	for _, wave := range []Wave{WaveSine, WaveTriangle, WaveNoise} {
		s := NewTone(440, 100*time.Millisecond, wave, rate, 1)
		total, peak := drain(s)
		assert.Equal(t, rate.N(100*time.Millisecond), total)
		assert.LessOrEqual(t, peak, 1.0)
		assert.Greater(t, peak, 0.0)
		assert.NoError(t, s.Err())
	}
}

func TestDecayFallsOff(t *testing.T) {
	rate := beep.SampleRate(1000)
	// Constant 1.0 input exposes the envelope directly
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{1, 1}
		}
		return len(samples), true
	})
	s := NewDecay(src, 10*time.Millisecond, 100*time.Millisecond, rate)

	buf := make([][2]float64, 200)
	n, ok := s.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 200, n)

	assert.Equal(t, 0.0, buf[0][0])
	assert.InDelta(t, 0.5, buf[5][0], 1e-9)
	assert.InDelta(t, 1.0, buf[10][0], 1e-9)
	assert.InDelta(t, 0.01, buf[110][0], 1e-3)
}

func TestImpactMapping(t *testing.T) {
	assert.Zero(t, ImpactGain(parameter.ImpactMinImpulse))
	assert.InDelta(t, parameter.ImpactBaseFrequency, ImpactFrequency(0), 1e-9)
	assert.InDelta(t, parameter.ImpactMinFrequency, ImpactFrequency(parameter.ImpactFullImpulse*10), 1e-9)
	assert.InDelta(t, 1.0, ImpactGain(parameter.ImpactFullImpulse), 1e-9)

	// Heavier is lower and louder
	assert.Greater(t, ImpactFrequency(1), ImpactFrequency(5))
	assert.Less(t, ImpactGain(1), ImpactGain(5))
}

func TestImpactSoundQuietIsNil(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, NewImpactSound(0.1, cfg, 0))

	s := NewImpactSound(10, cfg, 0)
	require.NotNil(t, s)
	total, peak := drain(s)
	assert.Equal(t, beep.SampleRate(cfg.SampleRate).N(parameter.ImpactSoundDuration), total)
	assert.Greater(t, peak, 0.0)
}

func TestPlayerHandle(t *testing.T) {
	now := time.Unix(0, 0)
	cfg := DefaultConfig()
	cfg.Enabled = true
	p := NewPlayer(cfg, WithClock(func() time.Time { return now }))

	hit := event.Event{Type: event.EventContactBegin, A: 1, B: 2, NormalImpulse: 8}

	assert.False(t, p.Handle(event.Event{Type: event.EventContactPersist, NormalImpulse: 8}), "persist is silent")
	assert.False(t, p.Handle(event.Event{Type: event.EventContactBegin, NormalImpulse: 0.1}), "quiet hit")
	assert.True(t, p.Handle(hit))
	assert.False(t, p.Handle(hit), "inside the gap")

	now = now.Add(parameter.MinSoundGap)
	assert.True(t, p.Handle(hit))

	played, skipped := p.Counts()
	assert.Equal(t, uint64(2), played)
	assert.Equal(t, uint64(1), skipped)
	assert.Equal(t, 2, p.Pending())

	// Pulling the mixer past both sounds drains them
	buf := make([][2]float64, cfg.SampleRate)
	p.Mixer().Stream(buf)
	assert.Equal(t, 0, p.Pending())
}

func TestPlayerDisabled(t *testing.T) {
	p := NewPlayer(DefaultConfig())
	require.NoError(t, p.Start())
	assert.Zero(t, p.HandleAll([]event.Event{{Type: event.EventContactBegin, NormalImpulse: 10}}))
	p.Stop()
}

func TestFromEnv(t *testing.T) {
	t.Setenv("PLANAR_AUDIO_ENABLED", "true")
	t.Setenv("PLANAR_MASTER_VOLUME", "150")
	t.Setenv("PLANAR_SAMPLE_RATE", "bad")

	cfg := FromEnv(DefaultConfig())
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1.0, cfg.MasterVolume)
	assert.Equal(t, parameter.AudioSampleRate, cfg.SampleRate)

	t.Setenv("PLANAR_MASTER_VOLUME", "25")
	assert.InDelta(t, 0.25, FromEnv(DefaultConfig()).MasterVolume, 1e-9)
}
