package images

import (
	"context"
	"fmt"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/go-resty/resty/v2"
)

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p/w500"
)

// TMDB reads posters and backdrops from themoviedb.org
type TMDB struct {
	baseURL    string
	apiKey     string
	httpClient *resty.Client
}

// NewTMDB creates the TMDB provider
func NewTMDB(httpClient *resty.Client, apiKey string) *TMDB {
	return &TMDB{baseURL: tmdbBaseURL, apiKey: apiKey, httpClient: httpClient}
}

func (p *TMDB) Name() string { return "tmdb" }

type tmdbImage struct {
	FilePath string `json:"file_path"`
}

// FetchImages picks the first poster and backdrop; a missing backdrop falls back to the poster
func (p *TMDB) FetchImages(ctx context.Context, contentType models.ContentType, ids models.ExternalIDs) (models.Images, error) {
	if ids.TMDB <= 0 {
		return models.Images{}, models.ErrNotFound
	}

	kind := "movie"
	if contentType == models.ContentTypeShow {
		kind = "tv"
	}

	var body struct {
		Posters   []tmdbImage `json:"posters"`
		Backdrops []tmdbImage `json:"backdrops"`
	}

	url := fmt.Sprintf("%s/%s/%d/images", p.baseURL, kind, ids.TMDB)
	if err := getJSON(ctx, p.httpClient, url, map[string]string{"api_key": p.apiKey}, &body); err != nil {
		return models.Images{}, err
	}

	if len(body.Posters) == 0 || body.Posters[0].FilePath == "" {
		return models.Images{}, models.ErrNotFound
	}

	poster := tmdbImageBaseURL + body.Posters[0].FilePath
	fanart := poster
	if len(body.Backdrops) > 0 && body.Backdrops[0].FilePath != "" {
		fanart = tmdbImageBaseURL + body.Backdrops[0].FilePath
	}

	return models.Images{Banner: poster, Fanart: fanart, Poster: poster}, nil
}
