package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/services/trakt"
	"github.com/amaumene/catalogr/internal/utils"
	"github.com/sirupsen/logrus"
)

// SeasonWalk is the outcome of walking every season of a show
type SeasonWalk struct {
	Episodes []models.Episode
	Seasons  int
}

// SeasonWalker fetches a show's seasons one after the other until upstream runs out
type SeasonWalker struct {
	meta   MetadataService
	opts   SyncOptions
	logger *logrus.Logger
}

// NewSeasonWalker creates a new season walker
func NewSeasonWalker(meta MetadataService, opts SyncOptions, logger *logrus.Logger) *SeasonWalker {
	return &SeasonWalker{
		meta:   meta,
		opts:   opts,
		logger: logger,
	}
}

// Walk fetches seasons 1, 2, 3... of a show. An empty or missing season ends the walk,
// as does the season cap. A season that still fails after its retry aborts the walk
// so that the show is not stored with a truncated season list.
func (w *SeasonWalker) Walk(ctx context.Context, showID string) (*SeasonWalk, error) {
	walk := &SeasonWalk{}

	for season := 1; season <= w.opts.MaxSeasons; season++ {
		episodes, err := utils.Retry(ctx, w.opts.Retries, w.opts.RetryDelay, func() ([]trakt.EpisodeDetail, error) {
			return w.meta.SeasonEpisodes(ctx, showID, season)
		})
		if errors.Is(err, models.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to walk show %s: %w", showID, err)
		}
		if len(episodes) == 0 {
			break
		}

		for _, ep := range episodes {
			walk.Episodes = append(walk.Episodes, episodeFromDetail(season, ep))
		}
		walk.Seasons = season

		if err := utils.Sleep(ctx, w.opts.MetadataDelay); err != nil {
			return nil, err
		}
	}

	if walk.Seasons == w.opts.MaxSeasons {
		w.logger.WithFields(logrus.Fields{
			"show":    showID,
			"seasons": walk.Seasons,
		}).Warn("Season cap reached")
	}

	models.SortEpisodes(walk.Episodes)
	return walk, nil
}

func episodeFromDetail(season int, ep trakt.EpisodeDetail) models.Episode {
	if ep.Season > 0 {
		season = ep.Season
	}
	return models.Episode{
		Season:     season,
		Number:     ep.Number,
		Title:      ep.Title,
		Overview:   ep.Overview,
		FirstAired: ep.FirstAired,
		IDs:        ep.IDs.ToModel(),
	}
}
