package torznab

import (
	"context"
	"fmt"
	"strings"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/utils"
)

// ListPage returns the releases of one feed page; pages start at 1
func (c *Client) ListPage(ctx context.Context, page int) ([]models.RawTorrent, error) {
	if page < 1 {
		page = 1
	}

	items, err := c.feed(ctx, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("torznab page %d: %w", page, err)
	}

	return c.convertResults(items), nil
}

// convertResults converts feed items into raw torrents.
// Items without any usable link are dropped.
func (c *Client) convertResults(items []Item) []models.RawTorrent {
	results := make([]models.RawTorrent, 0, len(items))

	for _, item := range items {
		link := downloadLink(item)
		if link == "" {
			continue
		}

		size := GetAttributeInt64(item, "size")
		if size == 0 {
			size = item.Size
		}
		if size == 0 {
			size = item.Enclosure.Length
		}

		raw := models.RawTorrent{
			IMDBID:   models.NormalizeIMDBID(GetAttributeValue(item, "imdbid")),
			Title:    utils.ReleaseTitle(item.Title),
			Year:     utils.ExtractYear(item.Title),
			Language: models.LanguageEnglish,
			Quality:  utils.DetermineQuality(item.Title),
			Size:     size,
			FileSize: utils.HumanSize(size),
			URL:      link,
			Provider: models.ProviderTorznab,
		}
		if seeders := GetAttributeInt(item, "seeders"); seeders != nil {
			raw.Seed = *seeders
		}
		if peers := GetAttributeInt(item, "peers"); peers != nil {
			raw.Peer = *peers
		}

		if c.contentType == models.ContentTypeShow {
			season, episode := GetAttributeInt(item, "season"), GetAttributeInt(item, "episode")
			if season != nil && episode != nil {
				raw.Season, raw.Episode = *season, *episode
			} else if s, e, ok := utils.ParseSeasonEpisode(item.Title); ok {
				raw.Season, raw.Episode = s, e
			}
		}

		results = append(results, raw)
	}

	return results
}

// downloadLink prefers the magnet link, then one built from the info hash, then the enclosure
func downloadLink(item Item) string {
	if magnet := GetAttributeValue(item, "magneturl"); magnet != "" {
		return magnet
	}
	if hash := GetAttributeValue(item, "infohash"); hash != "" {
		return "magnet:?xt=urn:btih:" + strings.ToUpper(hash)
	}
	if item.Enclosure.URL != "" {
		return item.Enclosure.URL
	}
	return item.Link
}
