// Package audio turns contact events into synthesized impact sounds.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/planar/event"
	"github.com/lixenwraith/planar/log"
	"github.com/lixenwraith/planar/parameter"
)

// Player mixes impact sounds for ContactBegin events
// Thread-safe; Handle may be called from the simulation goroutine while the speaker pulls samples
type Player struct {
	mu      sync.Mutex
	cfg     Config
	mixer   *beep.Mixer
	now     func() time.Time
	logger  log.Log
	started bool

	last    time.Time
	played  uint64
	skipped uint64
}

// PlayerOption configures a Player
type PlayerOption func(*Player)

// WithClock replaces time.Now for the sound gap limiter
func WithClock(now func() time.Time) PlayerOption {
	return func(p *Player) {
		if now != nil {
			p.now = now
		}
	}
}

// WithPlayerLogger sets the logger for speaker errors
func WithPlayerLogger(l log.Log) PlayerOption {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewPlayer creates a player, no device is opened until Start
func NewPlayer(cfg Config, opts ...PlayerOption) *Player {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = parameter.AudioSampleRate
	}
	p := &Player{
		cfg:    cfg,
		mixer:  &beep.Mixer{},
		now:    time.Now,
		logger: log.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start opens the speaker and begins pulling from the mixer
// No-op when disabled
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled || p.started {
		return nil
	}
	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(parameter.AudioBufferDuration)); err != nil {
		return fmt.Errorf("audio: speaker init: %w", err)
	}
	speaker.Play(p.mixer)
	p.started = true
	p.logger.Info("audio started",
		log.Int("sample_rate", p.cfg.SampleRate),
		log.Float64("master_volume", p.cfg.MasterVolume),
	)
	return nil
}

// Stop silences pending sounds; the device stays open for the process lifetime
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	speaker.Clear()
	p.started = false
}

// Handle queues a sound for a ContactBegin event and reports whether one was queued
// Other events, quiet hits and hits inside MinSoundGap are skipped
func (p *Player) Handle(ev event.Event) bool {
	if ev.Type != event.EventContactBegin {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.cfg.Enabled {
		return false
	}
	now := p.now()
	if !p.last.IsZero() && now.Sub(p.last) < parameter.MinSoundGap {
		p.skipped++
		return false
	}

	s := NewImpactSound(ev.NormalImpulse, p.cfg, uint64(ev.Pair().Lo)^ev.Step)
	if s == nil {
		return false
	}
	p.last = now
	p.played++

	if p.started {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	} else {
		p.mixer.Add(s)
	}
	return true
}

// HandleAll feeds a batch of events in order and returns the number of sounds queued
func (p *Player) HandleAll(events []event.Event) int {
	n := 0
	for _, ev := range events {
		if p.Handle(ev) {
			n++
		}
	}
	return n
}

// Mixer exposes the output stream, used when an external sink pulls samples
func (p *Player) Mixer() beep.Streamer {
	return p.mixer
}

// Pending returns the number of sounds still playing
func (p *Player) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return p.mixer.Len()
}

// Counts returns sounds played and skipped by the gap limiter
func (p *Player) Counts() (played, skipped uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played, p.skipped
}
