package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/amaumene/catalogr/internal/models"
)

var qualityRegex = regexp.MustCompile(`(?i)\b(2160p|4k|uhd|1080p|1080i|720p|480p|576p|sd)\b`)

// DetermineQuality parses a release title and returns the quality label used as a torrent slot key.
// Returns "" when the title carries no recognisable resolution.
func DetermineQuality(title string) string {
	match := qualityRegex.FindString(title)
	return NormalizeQuality(match)
}

// NormalizeQuality maps the labels indexes use onto the catalog's quality keys.
// 3D and unknown labels return "".
func NormalizeQuality(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "2160p", "4k", "uhd":
		return models.Quality2160p
	case "1080p", "1080i":
		return models.Quality1080p
	case "720p":
		return models.Quality720p
	case "480p", "576p", "sd":
		return models.Quality480p
	default:
		return ""
	}
}

var yearRegex = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

// ExtractYear extracts a 4-digit year from a release title
// Returns 0 if no year is found
// Matches years like: (2009), 2009, [2009], etc.
func ExtractYear(title string) int {
	matches := yearRegex.FindStringSubmatch(title)
	if len(matches) > 1 {
		year, err := strconv.Atoi(matches[1])
		if err == nil {
			return year
		}
	}
	return 0
}

var (
	episodeRegex    = regexp.MustCompile(`(?i)(?:^|[\._ \-])S(\d{1,2})E(\d{1,3})`)
	altEpisodeRegex = regexp.MustCompile(`(?i)(?:^|[\._ \-])(\d{1,2})x(\d{2,3})(?:[\._ \-]|$)`)
)

// ParseSeasonEpisode extracts season and episode numbers from a release title.
// Handles S01E02 and 1x02 forms; returns ok=false for season packs and movies.
func ParseSeasonEpisode(title string) (season, episode int, ok bool) {
	matches := episodeRegex.FindStringSubmatch(title)
	if matches == nil {
		matches = altEpisodeRegex.FindStringSubmatch(title)
	}
	if matches == nil {
		return 0, 0, false
	}

	season, _ = strconv.Atoi(matches[1])
	episode, _ = strconv.Atoi(matches[2])
	return season, episode, true
}
