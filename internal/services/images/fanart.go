package images

import (
	"context"
	"fmt"
	"strconv"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/go-resty/resty/v2"
)

const fanartBaseURL = "https://webservice.fanart.tv/v3"

// Fanart reads artwork from fanart.tv: movies by TMDB (or IMDb) id, shows by TVDB id
type Fanart struct {
	baseURL    string
	apiKey     string
	httpClient *resty.Client
}

// NewFanart creates the fanart.tv provider
func NewFanart(httpClient *resty.Client, apiKey string) *Fanart {
	return &Fanart{baseURL: fanartBaseURL, apiKey: apiKey, httpClient: httpClient}
}

func (p *Fanart) Name() string { return "fanart" }

type fanartImage struct {
	URL string `json:"url"`
}

func first(images []fanartImage) string {
	if len(images) == 0 {
		return ""
	}
	return images[0].URL
}

func (p *Fanart) FetchImages(ctx context.Context, contentType models.ContentType, ids models.ExternalIDs) (models.Images, error) {
	if contentType == models.ContentTypeShow {
		return p.fetchShow(ctx, ids)
	}
	return p.fetchMovie(ctx, ids)
}

func (p *Fanart) fetchMovie(ctx context.Context, ids models.ExternalIDs) (models.Images, error) {
	id := ids.IMDB
	if ids.TMDB > 0 {
		id = strconv.Itoa(ids.TMDB)
	}
	if id == "" {
		return models.Images{}, models.ErrNotFound
	}

	var body struct {
		MoviePoster     []fanartImage `json:"movieposter"`
		MovieBanner     []fanartImage `json:"moviebanner"`
		MovieBackground []fanartImage `json:"moviebackground"`
		HDMovieClearArt []fanartImage `json:"hdmovieclearart"`
	}

	url := fmt.Sprintf("%s/movies/%s", p.baseURL, id)
	if err := getJSON(ctx, p.httpClient, url, map[string]string{"api_key": p.apiKey}, &body); err != nil {
		return models.Images{}, err
	}

	poster := first(body.MoviePoster)
	if poster == "" {
		return models.Images{}, models.ErrNotFound
	}

	images := models.Images{Banner: first(body.MovieBanner), Fanart: first(body.MovieBackground), Poster: poster}
	if images.Banner == "" {
		images.Banner = poster
	}
	if images.Fanart == "" {
		images.Fanart = first(body.HDMovieClearArt)
	}
	if images.Fanart == "" {
		images.Fanart = poster
	}
	return images, nil
}

func (p *Fanart) fetchShow(ctx context.Context, ids models.ExternalIDs) (models.Images, error) {
	if ids.TVDB <= 0 {
		return models.Images{}, models.ErrNotFound
	}

	var body struct {
		TVPoster       []fanartImage `json:"tvposter"`
		TVBanner       []fanartImage `json:"tvbanner"`
		ShowBackground []fanartImage `json:"showbackground"`
	}

	url := fmt.Sprintf("%s/tv/%d", p.baseURL, ids.TVDB)
	if err := getJSON(ctx, p.httpClient, url, map[string]string{"api_key": p.apiKey}, &body); err != nil {
		return models.Images{}, err
	}

	poster := first(body.TVPoster)
	if poster == "" {
		return models.Images{}, models.ErrNotFound
	}

	images := models.Images{Banner: first(body.TVBanner), Fanart: first(body.ShowBackground), Poster: poster}
	if images.Banner == "" {
		images.Banner = poster
	}
	if images.Fanart == "" {
		images.Fanart = poster
	}
	return images, nil
}
