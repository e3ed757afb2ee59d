package models

import (
	"sort"
	"time"
)

// ExternalIDs holds the identifiers upstream services know an entry by
type ExternalIDs struct {
	Trakt int    `json:"trakt"`
	Slug  string `json:"slug"`
	IMDB  string `json:"imdb"` // e.g. "tt0133093"
	TMDB  int    `json:"tmdb"`
	TVDB  int    `json:"tvdb"`
}

// Rating is the rating summary stored with every entry
type Rating struct {
	Percentage int `json:"percentage"`
	Votes      int `json:"votes"`
	Watching   int `json:"watching"`
	Loved      int `json:"loved"`
	Hated      int `json:"hated"`
}

// Images holds the artwork URLs of an entry, or ImagePlaceholder
type Images struct {
	Banner string `json:"banner"`
	Fanart string `json:"fanart"`
	Poster string `json:"poster"`
}

// PlaceholderImages returns an image set made only of placeholders
func PlaceholderImages() Images {
	return Images{
		Banner: ImagePlaceholder,
		Fanart: ImagePlaceholder,
		Poster: ImagePlaceholder,
	}
}

// Content is a catalog entry: a movie, or a show with its episodes
type Content struct {
	Key  string      `boltholdKey:"Key" gorm:"primaryKey;column:content_key"`
	Type ContentType `boltholdIndex:"Type" gorm:"column:content_type;index"`
	IDs  ExternalIDs `gorm:"serializer:json"`

	Title         string
	Year          int
	Slug          string
	Synopsis      string
	Runtime       int
	Country       string
	Language      string
	Rating        Rating   `gorm:"serializer:json"`
	Images        Images   `gorm:"serializer:json"`
	Genres        []string `gorm:"serializer:json"`
	Released      time.Time
	Trailer       string
	Certification string
	Torrents      Torrents `gorm:"serializer:json"`

	// Show specific fields
	Network       string
	AirDay        string
	AirTime       string
	Status        string
	NumSeasons    int
	AiredEpisodes int
	Episodes      []Episode `gorm:"serializer:json"`

	// Metadata
	LastUpdated time.Time `gorm:"index"` // upstream update time, drives the sync cursor
	CreatedAt   time.Time
}

// Episode is one episode of a show, owned by its parent Content
type Episode struct {
	Season     int         `json:"season"`
	Number     int         `json:"episode"`
	Title      string      `json:"title"`
	Overview   string      `json:"overview"`
	FirstAired *time.Time  `json:"first_aired"`
	Watched    bool        `json:"watched"`
	Torrents   Torrents    `json:"torrents"`
	IDs        ExternalIDs `json:"ids"`
}

// EpisodeKey identifies an episode within a show
type EpisodeKey struct {
	Season int
	Number int
}

// Key returns the (season, episode) key of e
func (e Episode) Key() EpisodeKey {
	return EpisodeKey{Season: e.Season, Number: e.Number}
}

// FindEpisode returns the episode with the given season and number, or nil
func (c *Content) FindEpisode(season, number int) *Episode {
	for i := range c.Episodes {
		if c.Episodes[i].Season == season && c.Episodes[i].Number == number {
			return &c.Episodes[i]
		}
	}
	return nil
}

// SortEpisodes orders episodes by season then episode number
func SortEpisodes(episodes []Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		if episodes[i].Season != episodes[j].Season {
			return episodes[i].Season < episodes[j].Season
		}
		return episodes[i].Number < episodes[j].Number
	})
}
