package trakt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/amaumene/catalogr/internal/config"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const apiVersion = "2"

// Client handles communication with the public Trakt API
type Client struct {
	baseURL    string
	clientID   string
	httpClient *resty.Client
	logger     *logrus.Logger
}

// NewClient creates a new Trakt API client
func NewClient(cfg *config.Config, httpClient *resty.Client, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.TraktURL, "/"),
		clientID:   cfg.TraktClientID,
		httpClient: httpClient,
		logger:     logger,
	}
}

// doRequest performs a GET against the Trakt API and decodes the JSON body into result.
// A 404 is reported as models.ErrNotFound.
func (c *Client) doRequest(ctx context.Context, path string, params map[string]string, result interface{}) error {
	fullURL := c.baseURL + path
	c.logger.WithFields(logrus.Fields{
		"method": http.MethodGet,
		"url":    fullURL,
	}).Debug("Making Trakt API request")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("trakt-api-version", apiVersion).
		SetHeader("trakt-api-key", c.clientID).
		SetQueryParams(params).
		Get(fullURL)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return models.ErrNotFound
	}
	if resp.IsError() {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode(), resp.String())
	}

	if result != nil {
		if err := json.Unmarshal(resp.Body(), result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
