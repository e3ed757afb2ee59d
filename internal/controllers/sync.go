package controllers

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/amaumene/catalogr/internal/metrics"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/services/trakt"
	"github.com/amaumene/catalogr/internal/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Sources always available besides the configured scrapers
const (
	SourceMovies = "movies"
	SourceShows  = "shows"
)

// SyncController reconciles upstream feeds into the catalog
type SyncController struct {
	meta      MetadataService
	resolver  *Resolver
	upserts   *UpsertCoordinator
	cursors   *CursorTracker
	scrapers  map[string]Scraper
	blacklist *utils.Blacklist
	opts      SyncOptions
	logger    *logrus.Logger

	resumeMu    sync.Mutex
	resumePages map[string]int
}

// NewSyncController creates a new sync controller
func NewSyncController(catalog Catalog, meta MetadataService, resolver *Resolver, upserts *UpsertCoordinator, scrapers []Scraper, blacklist *utils.Blacklist, opts SyncOptions, logger *logrus.Logger) *SyncController {
	byName := make(map[string]Scraper, len(scrapers))
	for _, s := range scrapers {
		byName[s.Name()] = s
	}

	return &SyncController{
		meta:        meta,
		resolver:    resolver,
		upserts:     upserts,
		cursors:     NewCursorTracker(catalog, opts.MovieStartDate, opts.ShowStartDate),
		scrapers:    byName,
		blacklist:   blacklist,
		opts:        opts,
		logger:      logger,
		resumePages: make(map[string]int),
	}
}

// Sources lists every source name Run accepts
func (c *SyncController) Sources() []string {
	sources := []string{SourceMovies, SourceShows}
	names := make([]string, 0, len(c.scrapers))
	for name := range c.scrapers {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(sources, names...)
}

// HasSource reports whether Run knows the source
func (c *SyncController) HasSource(source string) bool {
	if source == SourceMovies || source == SourceShows {
		return true
	}
	_, ok := c.scrapers[source]
	return ok
}

// Run starts the run for a source name: "movies", "shows" or a scraper
func (c *SyncController) Run(ctx context.Context, source string) (RunStats, error) {
	switch source {
	case SourceMovies:
		return c.RunSync(ctx, models.ContentTypeMovie)
	case SourceShows:
		return c.RunSync(ctx, models.ContentTypeShow)
	default:
		return c.RunScraper(ctx, source)
	}
}

// RunSync processes the Trakt updates feed of a content type from the catalog's cursor.
// Only a failure to derive the cursor is returned; page and item failures are logged.
func (c *SyncController) RunSync(ctx context.Context, contentType models.ContentType) (RunStats, error) {
	if !contentType.Valid() {
		return RunStats{}, fmt.Errorf("unknown content type %q", contentType)
	}

	source := "trakt-" + contentType.Plural()
	started := time.Now()
	ctx, span := tracer.Start(ctx, "sync.run", trace.WithAttributes(attribute.String("source", source)))
	defer span.End()

	startDate, err := c.cursors.NextStartDate(contentType)
	if err != nil {
		span.RecordError(err)
		return RunStats{}, err
	}

	cursor := NewPageCursor(contentType, startDate)
	c.logger.WithFields(logrus.Fields{
		"source":     source,
		"start_date": startDate.Format("2006-01-02"),
	}).Info("Starting Trakt sync")

	stats := runBatch(ctx, c.opts, c.logger, batchJob[trakt.ChangeNotification]{
		source: source,
		cursor: cursor,
		fetch: func(ctx context.Context, page int) ([]trakt.ChangeNotification, error) {
			return c.meta.Updates(ctx, contentType, cursor.StartDate, page, c.opts.PageLimit)
		},
		process: func(ctx context.Context, n trakt.ChangeNotification) error {
			return c.syncItem(ctx, contentType, n)
		},
		describe:    describeNotification,
		concurrency: c.opts.Concurrency,
		delay:       c.opts.MetadataDelay,
	})

	c.finishRun(source, started, stats)
	return stats, nil
}

// syncItem resolves and stores one entry of the updates feed
func (c *SyncController) syncItem(ctx context.Context, contentType models.ContentType, n trakt.ChangeNotification) error {
	item := n.Item()
	if item == nil {
		return fmt.Errorf("%w: notification carries no %s", errOutOfScope, contentType)
	}

	ids := item.IDs.ToModel()
	if err := c.resolver.checkScope(contentType, item.Year, ids); err != nil {
		return err
	}

	content, err := c.resolver.Resolve(ctx, contentType, feedLookupID(ids), n.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = c.upserts.Upsert(content)
	return err
}

func (c *SyncController) finishRun(source string, started time.Time, stats RunStats) {
	elapsed := time.Since(started)
	metrics.RunDuration.WithLabelValues(source).Observe(elapsed.Seconds())

	c.logger.WithFields(logrus.Fields{
		"source":       source,
		"pages":        stats.Pages,
		"failed_pages": stats.FailedPages,
		"processed":    stats.Processed,
		"skipped":      stats.Skipped,
		"failed":       stats.Failed,
		"duration":     elapsed.Round(time.Second).String(),
	}).Info("Sync completed")
}

func describeNotification(n trakt.ChangeNotification) logrus.Fields {
	item := n.Item()
	if item == nil {
		return nil
	}
	return logrus.Fields{
		"trakt_id": item.IDs.Trakt,
		"imdb_id":  item.IDs.IMDB,
		"title":    item.Title,
	}
}

// feedLookupID picks the id a feed item is looked up by
func feedLookupID(ids models.ExternalIDs) string {
	fallback := ids.IMDB
	if fallback == "" {
		fallback = ids.Slug
	}
	return traktLookupID(ids, fallback)
}
