// Package config loads world tuning and scene descriptions from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/planar/engine"
	"github.com/lixenwraith/planar/log"
	"github.com/lixenwraith/planar/parameter"
	"github.com/lixenwraith/planar/vmath"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// File is the root document of a sandbox configuration
type File struct {
	World   WorldConfig   `yaml:"world"`
	Audio   AudioConfig   `yaml:"audio"`
	Network NetworkConfig `yaml:"network"`
	Scene   Scene         `yaml:"scene"`
}

// WorldConfig tunes the simulation
type WorldConfig struct {
	Gravity              vmath.Vec2 `yaml:"gravity"`
	StepRate             int        `yaml:"step_rate"`
	MaxSubSteps          int        `yaml:"max_sub_steps"`
	VelocityIterations   int        `yaml:"velocity_iterations"`
	CorrectionPercent    float64    `yaml:"correction_percent"`
	Slop                 float64    `yaml:"slop"`
	RestitutionThreshold float64    `yaml:"restitution_threshold"`
	CellSize             float64    `yaml:"cell_size"`
	GJKMaxIterations     int        `yaml:"gjk_max_iterations"`
	DisableFastPaths     bool       `yaml:"disable_fast_paths"`
	LogLevel             string     `yaml:"log_level"`
	LogFile              string     `yaml:"log_file"`
	Debug                bool       `yaml:"debug"`
}

// AudioConfig toggles impact sounds
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MasterVolume float64 `yaml:"master_volume"`
}

// NetworkConfig enables the snapshot broadcaster
type NetworkConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
	Path    string `yaml:"path"`
	// Interval is the number of steps between snapshots
	Interval int `yaml:"interval"`
}

// Default returns a complete configuration with an empty scene
func Default() *File {
	return &File{
		World: WorldConfig{
			Gravity:              vmath.V2(0, parameter.DefaultGravityY),
			StepRate:             parameter.StepRate,
			MaxSubSteps:          parameter.MaxSubSteps,
			VelocityIterations:   parameter.VelocityIterations,
			CorrectionPercent:    parameter.PositionCorrectionPercent,
			Slop:                 parameter.PenetrationSlop,
			RestitutionThreshold: parameter.RestitutionThreshold,
			CellSize:             parameter.GridCellSize,
			GJKMaxIterations:     parameter.GJKMaxIterations,
			LogLevel:             "info",
		},
		Audio: AudioConfig{
			Enabled:      false,
			MasterVolume: 0.7,
		},
		Network: NetworkConfig{
			Address:  "127.0.0.1:8765",
			Path:     "/ws",
			Interval: parameter.SnapshotInterval,
		},
	}
}

// Load reads and validates a YAML file
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode reads YAML over the defaults and validates the result
// Unknown keys are rejected so typos surface immediately
func Decode(r io.Reader) (*File, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate fails fast on values the engine cannot run with
func (f *File) Validate() error {
	w := f.World
	switch {
	case !finiteVec(w.Gravity):
		return fmt.Errorf("%w: gravity %v is not finite", ErrInvalidConfig, w.Gravity)
	case w.StepRate <= 0:
		return fmt.Errorf("%w: step_rate must be > 0, got %d", ErrInvalidConfig, w.StepRate)
	case w.MaxSubSteps <= 0:
		return fmt.Errorf("%w: max_sub_steps must be > 0, got %d", ErrInvalidConfig, w.MaxSubSteps)
	case w.VelocityIterations <= 0:
		return fmt.Errorf("%w: velocity_iterations must be > 0, got %d", ErrInvalidConfig, w.VelocityIterations)
	case w.CorrectionPercent < 0 || w.CorrectionPercent > 1:
		return fmt.Errorf("%w: correction_percent must be in [0, 1], got %v", ErrInvalidConfig, w.CorrectionPercent)
	case w.Slop < 0:
		return fmt.Errorf("%w: slop must be >= 0, got %v", ErrInvalidConfig, w.Slop)
	case !(w.CellSize > 0):
		return fmt.Errorf("%w: cell_size must be > 0, got %v", ErrInvalidConfig, w.CellSize)
	case w.GJKMaxIterations <= 0:
		return fmt.Errorf("%w: gjk_max_iterations must be > 0, got %d", ErrInvalidConfig, w.GJKMaxIterations)
	}

	if f.Audio.MasterVolume < 0 || f.Audio.MasterVolume > 1 {
		return fmt.Errorf("%w: audio.master_volume must be in [0, 1], got %v", ErrInvalidConfig, f.Audio.MasterVolume)
	}
	if f.Network.Enabled && f.Network.Address == "" {
		return fmt.Errorf("%w: network.address is required when enabled", ErrInvalidConfig)
	}
	if f.Network.Interval <= 0 {
		return fmt.Errorf("%w: network.interval must be > 0, got %d", ErrInvalidConfig, f.Network.Interval)
	}

	for i := range f.Scene.Bodies {
		if err := f.Scene.Bodies[i].validate(); err != nil {
			return fmt.Errorf("%w: scene.bodies[%d]: %v", ErrInvalidConfig, i, err)
		}
	}
	for i := range f.Scene.Attractors {
		if err := f.Scene.Attractors[i].validate(); err != nil {
			return fmt.Errorf("%w: scene.attractors[%d]: %v", ErrInvalidConfig, i, err)
		}
	}
	return nil
}

// Engine converts the world section to an engine configuration
func (w WorldConfig) Engine() engine.Config {
	return engine.Config{
		Gravity:              w.Gravity,
		VelocityIterations:   w.VelocityIterations,
		CorrectionPercent:    w.CorrectionPercent,
		Slop:                 w.Slop,
		RestitutionThreshold: w.RestitutionThreshold,
		CellSize:             w.CellSize,
		GJKMaxIterations:     w.GJKMaxIterations,
		FastPaths:            !w.DisableFastPaths,
		Debug:                w.Debug,
	}
}

// Level returns the parsed log level
func (w WorldConfig) Level() log.Level {
	return log.ParseLevel(w.LogLevel)
}

func finiteVec(v vmath.Vec2) bool {
	return finite(v[0]) && finite(v[1])
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
