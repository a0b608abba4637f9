//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/lixenwraith/planar/config"
)

// ProviderSet is every provider the sandbox graph needs
var ProviderSet = wire.NewSet(
	ProvideSession,
	ProvideLogger,
	ProvideWorld,
	ProvideStepper,
	ProvideAudio,
	ProvideBroadcaster,
	NewSandbox,
)

func InitializeSandbox(cfg *config.File) (*Sandbox, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
