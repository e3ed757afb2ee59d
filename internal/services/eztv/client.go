package eztv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/amaumene/catalogr/internal/config"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/utils"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// pageSize is the number of torrents requested per page
const pageSize = 100

type torrentsResponse struct {
	TorrentsCount int       `json:"torrents_count"`
	Limit         int       `json:"limit"`
	Page          int       `json:"page"`
	Torrents      []torrent `json:"torrents"`
}

type torrent struct {
	ID        int     `json:"id"`
	Hash      string  `json:"hash"`
	Filename  string  `json:"filename"`
	Title     string  `json:"title"`
	IMDBID    string  `json:"imdb_id"`
	Season    flexInt `json:"season"`
	Episode   flexInt `json:"episode"`
	Seeds     int     `json:"seeds"`
	Peers     int     `json:"peers"`
	SizeBytes flexInt `json:"size_bytes"`
	MagnetURL string  `json:"magnet_url"`
}

// flexInt accepts both JSON numbers and numeric strings; anything else reads as 0
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// Client lists the latest episode torrents of EZTV
type Client struct {
	baseURL    string
	httpClient *resty.Client
	logger     *logrus.Logger
}

// NewClient creates a new EZTV client
func NewClient(cfg *config.Config, httpClient *resty.Client, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.EZTVURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) Name() string { return "eztv" }

func (c *Client) ContentType() models.ContentType { return models.ContentTypeShow }

// ListPage returns the episode releases on page; pages start at 1
func (c *Client) ListPage(ctx context.Context, page int) ([]models.RawTorrent, error) {
	c.logger.WithField("page", page).Debug("Fetching EZTV page")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"limit": strconv.Itoa(pageSize),
			"page":  strconv.Itoa(page),
		}).
		Get(c.baseURL + "/get-torrents")
	if err != nil {
		return nil, fmt.Errorf("eztv request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("eztv returned status %d", resp.StatusCode())
	}

	var list torrentsResponse
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("failed to decode eztv page %d: %w", page, err)
	}

	releases := make([]models.RawTorrent, 0, len(list.Torrents))
	for _, t := range list.Torrents {
		releases = append(releases, convertTorrent(t))
	}

	return releases, nil
}

func convertTorrent(t torrent) models.RawTorrent {
	name := t.Title
	if name == "" {
		name = t.Filename
	}

	season, episode := int(t.Season), int(t.Episode)
	if season <= 0 || episode <= 0 {
		season, episode, _ = utils.ParseSeasonEpisode(name)
	}

	url := t.MagnetURL
	if url == "" && t.Hash != "" {
		url = "magnet:?xt=urn:btih:" + t.Hash
	}

	size := int64(t.SizeBytes)
	return models.RawTorrent{
		IMDBID:   models.NormalizeIMDBID(t.IMDBID),
		Title:    utils.ReleaseTitle(name),
		Season:   season,
		Episode:  episode,
		Language: models.LanguageEnglish,
		Quality:  utils.DetermineQuality(name),
		Seed:     t.Seeds,
		Peer:     t.Peers,
		Size:     size,
		FileSize: utils.HumanSize(size),
		URL:      url,
		Provider: models.ProviderEZTV,
	}
}
