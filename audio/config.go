package audio

import (
	"os"
	"strconv"

	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/vmath"
)

// Config controls impact sound playback
type Config struct {
	Enabled      bool
	MasterVolume float64 // 0.0-1.0
	SampleRate   int
}

// DefaultConfig is disabled so headless runs stay silent
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		MasterVolume: 0.5,
		SampleRate:   parameter.AudioSampleRate,
	}
}

// FromEnv applies environment overrides on top of cfg
func FromEnv(cfg Config) Config {
	if enabled := os.Getenv("PLANAR_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Master volume is 0-100 in the environment
	if volume := os.Getenv("PLANAR_MASTER_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = vmath.Clamp(float64(val)/100.0, 0, 1)
		}
	}

	if sampleRate := os.Getenv("PLANAR_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	return cfg
}
