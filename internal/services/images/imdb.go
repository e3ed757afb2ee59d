package images

import (
	"context"
	"fmt"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/go-resty/resty/v2"
)

const imdbSuggestionURL = "https://v2.sg.media-imdb.com"

// IMDB reads the poster IMDb's search suggestions show for a title. It needs no key.
type IMDB struct {
	baseURL    string
	httpClient *resty.Client
}

// NewIMDB creates the IMDb suggestion provider
func NewIMDB(httpClient *resty.Client) *IMDB {
	return &IMDB{baseURL: imdbSuggestionURL, httpClient: httpClient}
}

func (p *IMDB) Name() string { return "imdb" }

// FetchImages uses the suggestion image for all three artwork slots
func (p *IMDB) FetchImages(ctx context.Context, _ models.ContentType, ids models.ExternalIDs) (models.Images, error) {
	if ids.IMDB == "" {
		return models.Images{}, models.ErrNotFound
	}

	var body struct {
		D []struct {
			ID string `json:"id"`
			I  struct {
				ImageURL string `json:"imageUrl"`
			} `json:"i"`
		} `json:"d"`
	}

	url := fmt.Sprintf("%s/suggestion/t/%s.json", p.baseURL, ids.IMDB)
	if err := getJSON(ctx, p.httpClient, url, nil, &body); err != nil {
		return models.Images{}, err
	}

	if len(body.D) == 0 || body.D[0].I.ImageURL == "" {
		return models.Images{}, models.ErrNotFound
	}

	image := body.D[0].I.ImageURL
	return models.Images{Banner: image, Fanart: image, Poster: image}, nil
}
