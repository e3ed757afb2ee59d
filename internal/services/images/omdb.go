package images

import (
	"context"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/go-resty/resty/v2"
)

const omdbBaseURL = "https://www.omdbapi.com"

// OMDB reads the poster from omdbapi.com
type OMDB struct {
	baseURL    string
	apiKey     string
	httpClient *resty.Client
}

// NewOMDB creates the OMDb provider
func NewOMDB(httpClient *resty.Client, apiKey string) *OMDB {
	return &OMDB{baseURL: omdbBaseURL, apiKey: apiKey, httpClient: httpClient}
}

func (p *OMDB) Name() string { return "omdb" }

func (p *OMDB) FetchImages(ctx context.Context, contentType models.ContentType, ids models.ExternalIDs) (models.Images, error) {
	if ids.IMDB == "" {
		return models.Images{}, models.ErrNotFound
	}

	kind := "movie"
	if contentType == models.ContentTypeShow {
		kind = "series"
	}

	var body struct {
		Poster   string `json:"Poster"`
		Response string `json:"Response"`
	}

	params := map[string]string{"i": ids.IMDB, "type": kind, "apikey": p.apiKey}
	if err := getJSON(ctx, p.httpClient, p.baseURL+"/", params, &body); err != nil {
		return models.Images{}, err
	}

	if body.Poster == "" || body.Poster == "N/A" {
		return models.Images{}, models.ErrNotFound
	}

	return models.Images{Banner: body.Poster, Fanart: body.Poster, Poster: body.Poster}, nil
}
