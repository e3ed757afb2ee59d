package app

import (
	"fmt"
	"path/filepath"

	"github.com/amaumene/catalogr/internal/api"
	"github.com/amaumene/catalogr/internal/config"
	"github.com/amaumene/catalogr/internal/controllers"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/scheduler"
	"github.com/amaumene/catalogr/internal/services/eztv"
	"github.com/amaumene/catalogr/internal/services/torznab"
	"github.com/amaumene/catalogr/internal/services/yts"
	"github.com/amaumene/catalogr/internal/utils"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const userAgent = "catalogr/1.0"

// App holds the long-lived components of a running process
type App struct {
	Config    *config.Config
	Logger    *logrus.Logger
	Tracer    *sdktrace.TracerProvider
	Catalog   controllers.Catalog
	Sync      *controllers.SyncController
	Scheduler *scheduler.Scheduler
	Server    *api.Server
}

// ProvideLogger creates the process logger
func ProvideLogger(cfg *config.Config) *logrus.Logger {
	return utils.NewLogger(cfg.LogLevel, cfg.LogFormat)
}

// ProvideHTTPClient creates the HTTP client shared by every upstream client
func ProvideHTTPClient(cfg *config.Config) *resty.Client {
	return resty.New().
		SetTimeout(cfg.HTTPTimeout).
		SetHeader("User-Agent", userAgent)
}

// ProvideCatalog opens the catalog store selected by CATALOG_BACKEND
func ProvideCatalog(cfg *config.Config, logger *logrus.Logger) (controllers.Catalog, func(), error) {
	var (
		catalog controllers.Catalog
		err     error
	)

	switch cfg.CatalogBackend {
	case config.BackendSQLite:
		catalog, err = models.NewSQLDatabase(cfg.DatabaseFile)
	default:
		catalog, err = models.NewDatabase(cfg.DatabaseFile)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"backend":    cfg.CatalogBackend,
		"config_dir": filepath.Dir(cfg.DatabaseFile),
	}).Info("Database initialized")

	cleanup := func() {
		if err := catalog.Close(); err != nil {
			logger.WithError(err).Error("Failed to close database")
		}
	}
	return catalog, cleanup, nil
}

// ProvideBlacklist loads the release blacklist, falling back to the default terms
func ProvideBlacklist(cfg *config.Config, logger *logrus.Logger) *utils.Blacklist {
	blacklist, err := utils.LoadBlacklist(cfg.BlacklistFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load blacklist, using default terms")
		return utils.NewBlacklist(utils.DefaultBlacklistTerms)
	}
	logger.Info("Blacklist loaded")
	return blacklist
}

// ProvideScrapers builds the torrent-index scrapers that have an endpoint configured
func ProvideScrapers(cfg *config.Config, httpClient *resty.Client, logger *logrus.Logger) ([]controllers.Scraper, error) {
	var scrapers []controllers.Scraper

	if cfg.YTSURL != "" {
		scrapers = append(scrapers, yts.NewClient(cfg, httpClient, logger))
	}
	if cfg.EZTVURL != "" {
		scrapers = append(scrapers, eztv.NewClient(cfg, httpClient, logger))
	}
	if cfg.TorznabURL != "" {
		client, err := torznab.NewClient(cfg, httpClient, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Torznab client: %w", err)
		}
		scrapers = append(scrapers, client)
	}

	names := make([]string, 0, len(scrapers))
	for _, s := range scrapers {
		names = append(names, s.Name())
	}
	logger.WithField("scrapers", names).Info("Scrapers initialized")

	return scrapers, nil
}

// ProvideServer creates the HTTP server on top of the catalog and the scheduler
func ProvideServer(cfg *config.Config, catalog controllers.Catalog, sched *scheduler.Scheduler, logger *logrus.Logger) *api.Server {
	return api.NewServer(cfg, catalog, sched, logger)
}
