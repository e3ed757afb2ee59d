package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineQuality(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Show.Name.S01E01.720p.HDTV.x264-GRP", "720p"},
		{"Show Name S02E05 1080p WEB-DL", "1080p"},
		{"Movie.2019.2160p.UHD.BluRay", "2160p"},
		{"Movie 2019 4K HDR", "2160p"},
		{"Show.Name.S01E01.480p.x264-mSD", "480p"},
		{"Show.Name.S01E01.HDTV.x264-LOL", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineQuality(tt.title))
		})
	}
}

func TestNormalizeQuality(t *testing.T) {
	assert.Equal(t, "720p", NormalizeQuality("720p"))
	assert.Equal(t, "1080p", NormalizeQuality("1080p"))
	assert.Equal(t, "2160p", NormalizeQuality("2160p"))
	assert.Equal(t, "", NormalizeQuality("3D"))
	assert.Equal(t, "", NormalizeQuality(""))
}

func TestExtractYear(t *testing.T) {
	assert.Equal(t, 2009, ExtractYear("Movie (2009) 1080p"))
	assert.Equal(t, 1999, ExtractYear("The.Matrix.1999.720p"))
	assert.Equal(t, 0, ExtractYear("No year here"))
}

func TestParseSeasonEpisode(t *testing.T) {
	season, episode, ok := ParseSeasonEpisode("Show.Name.S01E02.720p")
	assert.True(t, ok)
	assert.Equal(t, 1, season)
	assert.Equal(t, 2, episode)

	season, episode, ok = ParseSeasonEpisode("Show Name 3x10 HDTV")
	assert.True(t, ok)
	assert.Equal(t, 3, season)
	assert.Equal(t, 10, episode)

	_, _, ok = ParseSeasonEpisode("Show.Name.S02.1080p.WEB-DL")
	assert.False(t, ok)

	_, _, ok = ParseSeasonEpisode("Movie.2019.1080p")
	assert.False(t, ok)
}
