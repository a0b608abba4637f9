package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 44100
)

// Audio Engine Timing
const (
	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 50 * time.Millisecond

	// MinSoundGap between consecutive impact sounds
	MinSoundGap = 30 * time.Millisecond
)

// Impact Sound
const (
	ImpactSoundDuration = 90 * time.Millisecond
	ImpactSoundAttack   = 2 * time.Millisecond
	ImpactSoundRelease  = 70 * time.Millisecond

	// ImpactBaseFrequency is the pitch of a unit impulse hit, heavier hits drop toward ImpactMinFrequency
	ImpactBaseFrequency = 660.0
	ImpactMinFrequency  = 110.0

	// ImpactMinImpulse filters resting-contact chatter
	ImpactMinImpulse = 0.5

	// ImpactFullImpulse maps to full volume
	ImpactFullImpulse = 20.0
)
