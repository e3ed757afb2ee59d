package trakt

import (
	"time"

	"github.com/amaumene/catalogr/internal/models"
)

// IDs are the identifiers Trakt reports for movies, shows and episodes
type IDs struct {
	Trakt int    `json:"trakt"`
	Slug  string `json:"slug"`
	IMDB  string `json:"imdb"`
	TMDB  int    `json:"tmdb"`
	TVDB  int    `json:"tvdb"`
}

// ToModel converts Trakt ids into catalog external ids
func (i IDs) ToModel() models.ExternalIDs {
	return models.ExternalIDs{
		Trakt: i.Trakt,
		Slug:  i.Slug,
		IMDB:  models.NormalizeIMDBID(i.IMDB),
		TMDB:  i.TMDB,
		TVDB:  i.TVDB,
	}
}

// ContentDetail is the extended summary of a movie or a show
type ContentDetail struct {
	Title         string     `json:"title"`
	Year          int        `json:"year"`
	IDs           IDs        `json:"ids"`
	Overview      string     `json:"overview"`
	Runtime       int        `json:"runtime"`
	Rating        float64    `json:"rating"` // 0-10
	Votes         int        `json:"votes"`
	Language      string     `json:"language"`
	Country       string     `json:"country"`
	Genres        []string   `json:"genres"`
	Released      string     `json:"released"` // movies, "2006-01-02"
	FirstAired    *time.Time `json:"first_aired"`
	Trailer       string     `json:"trailer"`
	Certification string     `json:"certification"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Show specific fields
	Network       string `json:"network"`
	Status        string `json:"status"`
	AiredEpisodes int    `json:"aired_episodes"`
	Airs          struct {
		Day      string `json:"day"`
		Time     string `json:"time"`
		Timezone string `json:"timezone"`
	} `json:"airs"`
}

// ChangeNotification is one entry of the movies/shows updates feed
type ChangeNotification struct {
	UpdatedAt time.Time      `json:"updated_at"`
	Movie     *ContentDetail `json:"movie,omitempty"`
	Show      *ContentDetail `json:"show,omitempty"`
}

// Item returns the movie or show the notification is about, or nil
func (n ChangeNotification) Item() *ContentDetail {
	if n.Movie != nil {
		return n.Movie
	}
	return n.Show
}

// EpisodeDetail is one episode of a season listing
type EpisodeDetail struct {
	Season     int        `json:"season"`
	Number     int        `json:"number"`
	Title      string     `json:"title"`
	IDs        IDs        `json:"ids"`
	Overview   string     `json:"overview"`
	FirstAired *time.Time `json:"first_aired"`
	Runtime    int        `json:"runtime"`
}
