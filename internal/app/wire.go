//go:build wireinject

package app

import (
	"github.com/amaumene/catalogr/internal/config"
	"github.com/amaumene/catalogr/internal/controllers"
	"github.com/amaumene/catalogr/internal/scheduler"
	"github.com/amaumene/catalogr/internal/services/images"
	"github.com/amaumene/catalogr/internal/services/trakt"
	"github.com/google/wire"
)

var serviceSet = wire.NewSet(
	ProvideHTTPClient,
	trakt.NewClient,
	wire.Bind(new(controllers.MetadataService), new(*trakt.Client)),
	images.NewChain,
	wire.Bind(new(controllers.ImageFetcher), new(*images.Chain)),
	ProvideScrapers,
)

var controllerSet = wire.NewSet(
	controllers.NewSyncOptions,
	controllers.NewSeasonWalker,
	controllers.NewResolver,
	controllers.NewUpsertCoordinator,
	controllers.NewSyncController,
	wire.Bind(new(scheduler.Runner), new(*controllers.SyncController)),
)

// InitializeApp wires every component from the configuration
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideTracerProvider,
		ProvideCatalog,
		ProvideBlacklist,
		serviceSet,
		controllerSet,
		scheduler.NewScheduler,
		ProvideServer,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
