package trakt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/amaumene/catalogr/internal/models"
)

// Updates retrieves one page of the updates feed for a content type, starting at a UTC day
func (c *Client) Updates(ctx context.Context, contentType models.ContentType, start time.Time, page, limit int) ([]ChangeNotification, error) {
	path := fmt.Sprintf("/%s/updates/%s", contentType.Plural(), start.UTC().Format("2006-01-02"))
	params := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}

	var items []ChangeNotification
	if err := c.doRequest(ctx, path, params, &items); err != nil {
		return nil, fmt.Errorf("failed to get %s updates: %w", contentType, err)
	}

	return items, nil
}

// Summary retrieves the extended summary of a movie or show.
// id may be a Trakt id, a slug or an IMDb id.
func (c *Client) Summary(ctx context.Context, contentType models.ContentType, id string) (*ContentDetail, error) {
	path := fmt.Sprintf("/%s/%s", contentType.Plural(), id)

	var detail ContentDetail
	if err := c.doRequest(ctx, path, map[string]string{"extended": "full"}, &detail); err != nil {
		return nil, fmt.Errorf("failed to get %s summary: %w", contentType, err)
	}

	return &detail, nil
}

// WatcherCount returns how many users are watching a movie or show right now
func (c *Client) WatcherCount(ctx context.Context, contentType models.ContentType, id string) (int, error) {
	path := fmt.Sprintf("/%s/%s/watching", contentType.Plural(), id)

	var users []json.RawMessage
	if err := c.doRequest(ctx, path, nil, &users); err != nil {
		return 0, fmt.Errorf("failed to get watchers: %w", err)
	}

	return len(users), nil
}

// SeasonEpisodes retrieves the episodes of one season of a show.
// A season that does not exist yields models.ErrNotFound.
func (c *Client) SeasonEpisodes(ctx context.Context, showID string, season int) ([]EpisodeDetail, error) {
	path := fmt.Sprintf("/shows/%s/seasons/%d", showID, season)

	var episodes []EpisodeDetail
	if err := c.doRequest(ctx, path, map[string]string{"extended": "full"}, &episodes); err != nil {
		return nil, fmt.Errorf("failed to get season %d: %w", season, err)
	}

	return episodes, nil
}
