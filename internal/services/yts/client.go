package yts

import (
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
	"golang.org/x/text/language"
)

// pageSize is the number of movies requested per listing page
const pageSize = 50

// trackers are appended to every magnet link built from an info hash
var trackers = []string{
	"udp://glotorrents.pw:6969/announce",
	"udp://tracker.opentrackr.org:1337/announce",
	"udp://torrent.gresille.org:80/announce",
	"udp://tracker.openbittorrent.com:80",
	"udp://tracker.coppersurfer.tk:6969",
	"udp://tracker.leechers-paradise.org:6969",
	"udp://p4p.arenabg.ch:1337",
	"udp://tracker.internetwarriors.net:1337",
}

type listResponse struct {
	Status        string `json:"status"`
	StatusMessage string `json:"status_message"`
	Data          struct {
		MovieCount int     `json:"movie_count"`
		PageNumber int     `json:"page_number"`
		Movies     []movie `json:"movies"`
	} `json:"data"`
}

type movie struct {
	ID       int       `json:"id"`
	IMDBCode string    `json:"imdb_code"`
	Title    string    `json:"title"`
	Year     int       `json:"year"`
	Language string    `json:"language"`
	Torrents []torrent `json:"torrents"`
}

type torrent struct {
	Hash      string `json:"hash"`
	Quality   string `json:"quality"`
	Type      string `json:"type"`
	Seeds     int    `json:"seeds"`
	Peers     int    `json:"peers"`
	Size      string `json:"size"`
	SizeBytes int64  `json:"size_bytes"`
}

// Client lists the movies of YTS, oldest additions first
type Client struct {
	baseURL    string
	httpClient *resty.Client
	logger     *logrus.Logger
}

// NewClient creates a new YTS client
func NewClient(cfg *config.Config, httpClient *resty.Client, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.YTSURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) Name() string { return "yts" }

func (c *Client) ContentType() models.ContentType { return models.ContentTypeMovie }

// Resumable is true: pages are sorted by date added, oldest first
func (c *Client) Resumable() bool { return true }

// ListPage returns one release per torrent of the movies on page; pages start at 1
func (c *Client) ListPage(ctx context.Context, page int) ([]models.RawTorrent, error) {
	c.logger.WithField("page", page).Debug("Fetching YTS page")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"limit":    strconv.Itoa(pageSize),
			"page":     strconv.Itoa(page),
			"sort_by":  "date_added",
			"order_by": "asc",
		}).
		Get(c.baseURL + "/list_movies.json")
	if err != nil {
		return nil, fmt.Errorf("yts request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("yts returned status %d", resp.StatusCode())
	}

	var list listResponse
	if err := json.Unmarshal(resp.Body(), &list); err != nil {
		return nil, fmt.Errorf("failed to decode yts page %d: %w", page, err)
	}
	if list.Status != "" && list.Status != "ok" {
		return nil, fmt.Errorf("yts page %d: %s", page, list.StatusMessage)
	}

	var releases []models.RawTorrent
	for _, m := range list.Data.Movies {
		lang := languageCode(m.Language)
		for _, t := range m.Torrents {
			if t.Hash == "" {
				continue
			}
			// 3D and unknown qualities normalise to "" and are dropped downstream
			releases = append(releases, models.RawTorrent{
				IMDBID:   models.NormalizeIMDBID(m.IMDBCode),
				Title:    m.Title,
				Year:     m.Year,
				Language: lang,
				Quality:  utils.NormalizeQuality(t.Quality),
				Seed:     t.Seeds,
				Peer:     t.Peers,
				Size:     t.SizeBytes,
				FileSize: t.Size,
				URL:      magnetURL(t.Hash),
				Provider: models.ProviderYTS,
			})
		}
	}

	return releases, nil
}

// magnetURL builds a magnet link for hash with the public tracker list
func magnetURL(hash string) string {
	var b strings.Builder
	b.WriteString("magnet:?xt=urn:btih:")
	b.WriteString(hash)
	for _, tr := range trackers {
		b.WriteString("&tr=")
		b.WriteString(tr)
	}
	return b.String()
}

// languageCode maps the listing's language ("en", "English", "pt-BR") to a two-letter code
func languageCode(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "english") {
		return models.LanguageEnglish
	}

	tag, err := language.Parse(name)
	if err != nil {
		return strings.ToLower(name)
	}
	base, _ := tag.Base()
	return base.String()
}
