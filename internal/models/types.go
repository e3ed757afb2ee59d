package models

// ContentType represents the kind of catalog entry (movie or show)
type ContentType string

const (
	ContentTypeMovie ContentType = "movie"
	ContentTypeShow  ContentType = "show"
)

// Plural returns the path segment upstream APIs use for the type ("movies", "shows")
func (t ContentType) Plural() string {
	return string(t) + "s"
}

// Valid reports whether t is a known content type
func (t ContentType) Valid() bool {
	return t == ContentTypeMovie || t == ContentTypeShow
}

// Quality labels used as torrent slot keys
const (
	Quality480p  = "480p"
	Quality720p  = "720p"
	Quality1080p = "1080p"
	Quality2160p = "2160p"
)

// LanguageEnglish is the default torrent language for scrapers that don't report one
const LanguageEnglish = "en"

// ImagePlaceholder is stored for every image the providers could not supply
const ImagePlaceholder = "images/posterholder.png"

// UnknownGenre is stored when upstream reports no genres
const UnknownGenre = "unknown"

// Fixed rating denominators carried over from the catalog format consumers expect
const (
	RatingLoved = 100
	RatingHated = 100
)

// Provider tags written into torrent slots
const (
	ProviderYTS     = "YTS"
	ProviderEZTV    = "EZTV"
	ProviderTorznab = "Torznab"
)
