package controllers

import (
	"context"
	"time"

	"github.com/amaumene/catalogr/internal/config"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/services/trakt"
)

// MetadataService is the upstream that describes movies and shows
type MetadataService interface {
	Updates(ctx context.Context, contentType models.ContentType, start time.Time, page, limit int) ([]trakt.ChangeNotification, error)
	Summary(ctx context.Context, contentType models.ContentType, id string) (*trakt.ContentDetail, error)
	WatcherCount(ctx context.Context, contentType models.ContentType, id string) (int, error)
	SeasonEpisodes(ctx context.Context, showID string, season int) ([]trakt.EpisodeDetail, error)
}

// ImageFetcher resolves artwork; it always answers, with placeholders when nothing is known
type ImageFetcher interface {
	FetchImages(ctx context.Context, contentType models.ContentType, ids models.ExternalIDs) (models.Images, error)
}

// Scraper lists one torrent index page by page
type Scraper interface {
	Name() string
	ContentType() models.ContentType
	ListPage(ctx context.Context, page int) ([]models.RawTorrent, error)
}

// Resumable is implemented by scrapers whose feed lists the oldest releases first.
// Their runs pick up at the last page the previous run listed instead of page 1.
type Resumable interface {
	Resumable() bool
}

// SyncOptions tunes pacing, retries and termination bounds of sync runs
type SyncOptions struct {
	Concurrency        int
	ScraperConcurrency int
	PageLimit          int
	MetadataDelay      time.Duration
	ScraperDelay       time.Duration
	RetryDelay         time.Duration
	Retries            int
	MaxSeasons         int
	MaxFailedPages     int
	MaxPages           int
	MinYear            int
	MovieStartDate     time.Time
	ShowStartDate      time.Time
}

// NewSyncOptions reads sync options from the configuration
func NewSyncOptions(cfg *config.Config) SyncOptions {
	return SyncOptions{
		Concurrency:        cfg.SyncConcurrency,
		ScraperConcurrency: cfg.ScraperConcurrency,
		PageLimit:          cfg.UpdatesPageLimit,
		MetadataDelay:      cfg.MetadataDelay,
		ScraperDelay:       cfg.ScraperDelay,
		RetryDelay:         cfg.RetryDelay,
		Retries:            cfg.PageRetries,
		MaxSeasons:         cfg.MaxSeasons,
		MaxFailedPages:     cfg.MaxFailedPages,
		MaxPages:           cfg.MaxPages,
		MinYear:            cfg.MinYear,
		MovieStartDate:     cfg.MovieStartDate,
		ShowStartDate:      cfg.ShowStartDate,
	}
}
