package images

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/amaumene/catalogr/internal/config"
	"github.com/amaumene/catalogr/internal/metrics"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Provider is one source of artwork. It returns models.ErrNotFound when it knows nothing about the ids.
type Provider interface {
	Name() string
	FetchImages(ctx context.Context, contentType models.ContentType, ids models.ExternalIDs) (models.Images, error)
}

// Chain asks its providers in order and keeps the first answer
type Chain struct {
	providers []Provider
	cache     *cache.Cache
	logger    *logrus.Logger
}

// NewChain builds the provider chain: IMDb suggestions, then TMDB, OMDb and fanart.tv
// for whichever of them an API key is configured.
func NewChain(cfg *config.Config, httpClient *resty.Client, logger *logrus.Logger) *Chain {
	providers := []Provider{NewIMDB(httpClient)}
	if cfg.TMDBAPIKey != "" {
		providers = append(providers, NewTMDB(httpClient, cfg.TMDBAPIKey))
	}
	if cfg.OMDBAPIKey != "" {
		providers = append(providers, NewOMDB(httpClient, cfg.OMDBAPIKey))
	}
	if cfg.FanartAPIKey != "" {
		providers = append(providers, NewFanart(httpClient, cfg.FanartAPIKey))
	}

	return NewChainWithProviders(providers, cfg.ImageCacheTTL, logger)
}

// NewChainWithProviders builds a chain over the given providers.
// A ttl of zero disables caching.
func NewChainWithProviders(providers []Provider, ttl time.Duration, logger *logrus.Logger) *Chain {
	c := &Chain{
		providers: providers,
		logger:    logger,
	}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

// FetchImages returns the first provider's images, with placeholders for anything it lacks.
// When every provider fails the result is all placeholders; the error is always nil.
func (c *Chain) FetchImages(ctx context.Context, contentType models.ContentType, ids models.ExternalIDs) (models.Images, error) {
	key := cacheKey(contentType, ids)
	if c.cache != nil {
		if cached, ok := c.cache.Get(key); ok {
			return cached.(models.Images), nil
		}
	}

	for _, p := range c.providers {
		images, err := p.FetchImages(ctx, contentType, ids)
		if err != nil {
			entry := c.logger.WithError(err).WithFields(logrus.Fields{
				"provider": p.Name(),
				"imdb_id":  ids.IMDB,
				"tmdb_id":  ids.TMDB,
			})
			if errors.Is(err, models.ErrNotFound) {
				entry.Debug("No images from provider")
			} else {
				entry.Warn("Image provider failed")
			}
			if ctx.Err() != nil {
				break
			}
			continue
		}

		images = withPlaceholders(images)
		metrics.ImageLookupsTotal.WithLabelValues(p.Name()).Inc()
		if c.cache != nil {
			c.cache.SetDefault(key, images)
		}
		return images, nil
	}

	metrics.ImageLookupsTotal.WithLabelValues("placeholder").Inc()
	return models.PlaceholderImages(), nil
}

func cacheKey(contentType models.ContentType, ids models.ExternalIDs) string {
	return string(contentType) + ":" + ids.IMDB + ":" + strconv.Itoa(ids.TMDB) + ":" + strconv.Itoa(ids.TVDB)
}

func withPlaceholders(images models.Images) models.Images {
	if images.Banner == "" {
		images.Banner = models.ImagePlaceholder
	}
	if images.Fanart == "" {
		images.Fanart = models.ImagePlaceholder
	}
	if images.Poster == "" {
		images.Poster = models.ImagePlaceholder
	}
	return images
}

// getJSON performs a GET and decodes the JSON answer into out. A 404 is models.ErrNotFound.
func getJSON(ctx context.Context, client *resty.Client, url string, params map[string]string, out interface{}) error {
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return models.ErrNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("request failed with status %d", resp.StatusCode())
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
