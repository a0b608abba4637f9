// Hand-maintained to match the output of wire for injector.go; keep it in step
// with ProviderSet or regenerate with the directive below.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package injector

import (
	"github.com/lixenwraith/planar/config"
)

// Injectors from injector.go:

func InitializeSandbox(cfg *config.File) (*Sandbox, func(), error) {
	uuid := ProvideSession()
	logger, cleanup := ProvideLogger(cfg, uuid)
	world, err := ProvideWorld(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	fixedStepper, err := ProvideStepper(cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	player := ProvideAudio(cfg, logger)
	broadcaster, cleanup2 := ProvideBroadcaster(cfg, uuid, logger)
	sandbox := NewSandbox(uuid, cfg, logger, world, fixedStepper, player, broadcaster)
	return sandbox, func() {
		cleanup2()
		cleanup()
	}, nil
}
