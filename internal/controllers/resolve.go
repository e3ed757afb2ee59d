package controllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/services/trakt"
	"github.com/amaumene/catalogr/internal/utils"
	"github.com/sirupsen/logrus"
)

// errOutOfScope marks items deliberately left out of the catalog (too old, no episodes, unusable release)
var errOutOfScope = errors.New("out of scope")

// Resolver turns upstream descriptions into catalog entries
type Resolver struct {
	meta   MetadataService
	images ImageFetcher
	walker *SeasonWalker
	opts   SyncOptions
	logger *logrus.Logger
}

// NewResolver creates a new resolver
func NewResolver(meta MetadataService, images ImageFetcher, walker *SeasonWalker, opts SyncOptions, logger *logrus.Logger) *Resolver {
	return &Resolver{
		meta:   meta,
		images: images,
		walker: walker,
		opts:   opts,
		logger: logger,
	}
}

// checkScope applies the year and identity filters
func (r *Resolver) checkScope(contentType models.ContentType, year int, ids models.ExternalIDs) error {
	if year < r.opts.MinYear {
		return fmt.Errorf("%w: year %d", errOutOfScope, year)
	}
	if !models.HasUsableIDs(contentType, ids) {
		return models.ErrIdentityUnresolvable
	}
	return nil
}

// Resolve fetches everything needed to store an item and builds its catalog entry.
// updatedAt is the upstream change time; zero means the item did not come from the updates feed.
func (r *Resolver) Resolve(ctx context.Context, contentType models.ContentType, lookupID string, updatedAt time.Time) (*models.Content, error) {
	detail, err := utils.Retry(ctx, r.opts.Retries, r.opts.RetryDelay, func() (*trakt.ContentDetail, error) {
		return r.meta.Summary(ctx, contentType, lookupID)
	})
	if err != nil {
		return nil, err
	}
	if err := utils.Sleep(ctx, r.opts.MetadataDelay); err != nil {
		return nil, err
	}

	ids := detail.IDs.ToModel()
	if err := r.checkScope(contentType, detail.Year, ids); err != nil {
		return nil, err
	}

	traktID := traktLookupID(ids, lookupID)

	watching, err := r.meta.WatcherCount(ctx, contentType, traktID)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"title": detail.Title,
			"id":    traktID,
		}).Warn("Failed to get watcher count, using 0")
		watching = 0
	}

	images, err := r.images.FetchImages(ctx, contentType, ids)
	if err != nil {
		images = models.PlaceholderImages()
	}

	content := buildContent(contentType, detail, ids, watching, images, updatedAt)
	if content.Key, err = models.IdentityKey(ids); err != nil {
		return nil, err
	}

	if contentType == models.ContentTypeShow {
		walk, err := r.walker.Walk(ctx, traktID)
		if err != nil {
			return nil, err
		}
		if len(walk.Episodes) == 0 {
			return nil, fmt.Errorf("%w: show has no episodes", errOutOfScope)
		}
		content.NumSeasons = walk.Seasons
		content.Episodes = walk.Episodes
	}

	return content, nil
}

func buildContent(contentType models.ContentType, detail *trakt.ContentDetail, ids models.ExternalIDs, watching int, images models.Images, updatedAt time.Time) *models.Content {
	genres := detail.Genres
	if len(genres) == 0 {
		genres = []string{models.UnknownGenre}
	}

	content := &models.Content{
		Type:     contentType,
		IDs:      ids,
		Title:    detail.Title,
		Year:     detail.Year,
		Slug:     ids.Slug,
		Synopsis: detail.Overview,
		Runtime:  detail.Runtime,
		Country:  detail.Country,
		Language: detail.Language,
		Rating: models.Rating{
			Percentage: int(math.Round(detail.Rating * 10)),
			Votes:      detail.Votes,
			Watching:   watching,
			Loved:      models.RatingLoved,
			Hated:      models.RatingHated,
		},
		Images:        images,
		Genres:        genres,
		Trailer:       detail.Trailer,
		Certification: detail.Certification,
		LastUpdated:   updatedAt.UTC(),
	}

	if released, err := time.Parse("2006-01-02", detail.Released); err == nil {
		content.Released = released
	} else if detail.FirstAired != nil {
		content.Released = detail.FirstAired.UTC()
	}

	if contentType == models.ContentTypeShow {
		content.Network = detail.Network
		content.AirDay = detail.Airs.Day
		content.AirTime = detail.Airs.Time
		content.Status = detail.Status
		content.AiredEpisodes = detail.AiredEpisodes
	}

	return content
}

// traktLookupID prefers the numeric Trakt id for follow-up calls
func traktLookupID(ids models.ExternalIDs, fallback string) string {
	if ids.Trakt > 0 {
		return strconv.Itoa(ids.Trakt)
	}
	return fallback
}
