// Package injector assembles the sandbox object graph.
package injector

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lixenwraith/planar/audio"
	"github.com/lixenwraith/planar/config"
	"github.com/lixenwraith/planar/engine"
	"github.com/lixenwraith/planar/log"
	"github.com/lixenwraith/planar/network"
)

// Sandbox is everything a frontend needs to drive a world
type Sandbox struct {
	Session     uuid.UUID
	Config      *config.File
	Logger      *log.Logger
	World       *engine.World
	Stepper     *engine.FixedStepper
	Audio       *audio.Player
	Broadcaster *network.Broadcaster
}

// NewSandbox is the final wire constructor
func NewSandbox(
	session uuid.UUID,
	cfg *config.File,
	logger *log.Logger,
	world *engine.World,
	stepper *engine.FixedStepper,
	player *audio.Player,
	broadcaster *network.Broadcaster,
) *Sandbox {
	return &Sandbox{
		Session:     session,
		Config:      cfg,
		Logger:      logger,
		World:       world,
		Stepper:     stepper,
		Audio:       player,
		Broadcaster: broadcaster,
	}
}

// ProvideSession generates the id shared by logs and viewers
func ProvideSession() uuid.UUID {
	return uuid.New()
}

// ProvideLogger writes to the configured file, or stderr when none is set
func ProvideLogger(cfg *config.File, session uuid.UUID) (*log.Logger, func()) {
	var logger *log.Logger
	if cfg.World.LogFile != "" {
		logger = log.NewFile(cfg.World.LogFile, cfg.World.Level())
	} else {
		logger = log.New(cfg.World.Level())
	}
	logger.Info("session started", log.String("session", session.String()))
	return logger, func() { _ = logger.Sync() }
}

// ProvideWorld builds the world and populates it from the scene
func ProvideWorld(cfg *config.File, logger *log.Logger) (*engine.World, error) {
	w := engine.NewWorld(cfg.World.Engine(), engine.WithLogger(logger))
	ids, err := config.Apply(w, cfg.Scene)
	if err != nil {
		return nil, fmt.Errorf("injector: scene: %w", err)
	}
	logger.Info("scene loaded", log.Int("bodies", len(ids)), log.String("generator", cfg.Scene.Generator))
	return w, nil
}

// ProvideStepper drives the world from the monotonic clock
func ProvideStepper(cfg *config.File) (*engine.FixedStepper, error) {
	return engine.NewFixedStepper(engine.NewMonotonicTimeProvider(), cfg.World.StepRate, cfg.World.MaxSubSteps)
}

// ProvideAudio converts the audio section and applies environment overrides
func ProvideAudio(cfg *config.File, logger *log.Logger) *audio.Player {
	ac := audio.DefaultConfig()
	ac.Enabled = cfg.Audio.Enabled
	ac.MasterVolume = cfg.Audio.MasterVolume
	return audio.NewPlayer(audio.FromEnv(ac), audio.WithPlayerLogger(logger))
}

// ProvideBroadcaster maps the network section onto the broadcaster defaults
func ProvideBroadcaster(cfg *config.File, session uuid.UUID, logger *log.Logger) (*network.Broadcaster, func()) {
	nc := network.DefaultConfig()
	nc.Address = cfg.Network.Address
	nc.Path = cfg.Network.Path
	b := network.NewBroadcaster(nc, session, logger)
	return b, b.Close
}
