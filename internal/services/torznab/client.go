package torznab

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"

	"github.com/amaumene/catalogr/internal/config"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// pageSize is the number of items requested per feed page
const pageSize = 100

// Response represents the XML RSS response of a Torznab feed
type Response struct {
	XMLName xml.Name `xml:"rss"`
	Channel Channel  `xml:"channel"`
}

// Channel represents the channel element in RSS
type Channel struct {
	Title string `xml:"title"`
	Items []Item `xml:"item"`
}

// Item represents a single release
type Item struct {
	Title      string      `xml:"title"`
	Link       string      `xml:"link"`
	GUID       string      `xml:"guid"`
	PubDate    string      `xml:"pubDate"`
	Size       int64       `xml:"size"`
	Enclosure  Enclosure   `xml:"enclosure"` // .torrent or magnet link
	Attributes []Attribute `xml:"attr"`
}

// Enclosure represents the enclosure element containing the download URL
type Enclosure struct {
	URL    string `xml:"url,attr"`
	Length int64  `xml:"length,attr"`
	Type   string `xml:"type,attr"` // usually "application/x-bittorrent"
}

// Attribute represents a torznab attribute (seeders, imdbid, season...)
type Attribute struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// Client pages through the latest releases of a Torznab indexer (Jackett, Prowlarr)
type Client struct {
	baseURL     string
	apiKey      string
	contentType models.ContentType
	httpClient  *resty.Client
	logger      *logrus.Logger
}

// NewClient creates a new Torznab client
func NewClient(cfg *config.Config, httpClient *resty.Client, logger *logrus.Logger) (*Client, error) {
	if cfg.TorznabURL == "" {
		return nil, fmt.Errorf("torznab URL is required")
	}

	contentType := models.ContentTypeMovie
	if cfg.TorznabType == string(models.ContentTypeShow) {
		contentType = models.ContentTypeShow
	}

	return &Client{
		baseURL:     cfg.TorznabURL,
		apiKey:      cfg.TorznabKey,
		contentType: contentType,
		httpClient:  httpClient,
		logger:      logger,
	}, nil
}

func (c *Client) Name() string { return "torznab" }

func (c *Client) ContentType() models.ContentType { return c.contentType }

// feed fetches the latest releases starting at offset
func (c *Client) feed(ctx context.Context, offset int) ([]Item, error) {
	apiURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid torznab URL: %w", err)
	}

	// Ensure path is /api
	if apiURL.Path == "" || apiURL.Path == "/" {
		apiURL.Path = "/api"
	}

	searchType, category := "movie", "2000"
	if c.contentType == models.ContentTypeShow {
		searchType, category = "tvsearch", "5000"
	}

	params := map[string]string{
		"t":        searchType,
		"cat":      category,
		"extended": "1",
		"offset":   strconv.Itoa(offset),
		"limit":    strconv.Itoa(pageSize),
	}
	if c.apiKey != "" {
		params["apikey"] = c.apiKey
	}

	c.logger.WithFields(logrus.Fields{
		"url":         apiURL.String(),
		"search_type": searchType,
		"offset":      offset,
	}).Debug("Fetching Torznab feed")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(apiURL.String())
	if err != nil {
		return nil, fmt.Errorf("torznab API request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("torznab API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var response Response
	if err := xml.Unmarshal(resp.Body(), &response); err != nil {
		return nil, fmt.Errorf("failed to parse XML response: %w", err)
	}

	return response.Channel.Items, nil
}

// GetAttributeValue extracts an attribute value by name from an Item
func GetAttributeValue(item Item, attrName string) string {
	for _, attr := range item.Attributes {
		if attr.Name == attrName {
			return attr.Value
		}
	}
	return ""
}

// GetAttributeInt extracts an attribute value as integer
func GetAttributeInt(item Item, attrName string) *int {
	value := GetAttributeValue(item, attrName)
	if value == "" {
		return nil
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}

	return &intVal
}

// GetAttributeInt64 extracts an attribute value as int64
func GetAttributeInt64(item Item, attrName string) int64 {
	value := GetAttributeValue(item, attrName)
	if value == "" {
		return 0
	}

	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}

	return intVal
}
