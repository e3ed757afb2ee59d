package controllers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/services/trakt"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ytsRelease(imdb, title, quality, url string, seed int) models.RawTorrent {
	return models.RawTorrent{
		IMDBID:   imdb,
		Title:    title,
		Year:     2010,
		Language: models.LanguageEnglish,
		Quality:  quality,
		Seed:     seed,
		URL:      url,
		Provider: models.ProviderYTS,
	}
}

func eztvRelease(imdb, title string, season, episode int, url string, seed int) models.RawTorrent {
	return models.RawTorrent{
		IMDBID:   imdb,
		Title:    title,
		Season:   season,
		Episode:  episode,
		Quality:  models.Quality720p,
		Seed:     seed,
		URL:      url,
		Provider: models.ProviderEZTV,
	}
}

func TestGroupReleases(t *testing.T) {
	groups := groupReleases([]models.RawTorrent{
		ytsRelease("tt1375666", "Inception", models.Quality720p, "a", 1),
		ytsRelease("", "Unknown Film", models.Quality720p, "b", 1),
		ytsRelease("tt1375666", "Inception", models.Quality1080p, "c", 1),
		ytsRelease("", "Unknown  film!", models.Quality1080p, "d", 1),
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "tt1375666", groups[0].IMDBID)
	assert.Len(t, groups[0].Releases, 2)
	assert.Equal(t, "", groups[1].IMDBID)
	assert.Len(t, groups[1].Releases, 2)
}

func TestRunScraperMovies(t *testing.T) {
	catalog := newCatalog(t)
	meta := newFakeMeta()
	meta.summaries["tt1375666"] = movieDetail("Inception", 2010, 16662, "tt1375666")
	meta.summaries["tt0133093"] = movieDetail("The Matrix", 1999, 481, "tt0133093")

	scraper := &fakeScraper{
		name:        "yts",
		contentType: models.ContentTypeMovie,
		pages: map[int][]models.RawTorrent{
			1: {
				ytsRelease("tt1375666", "Inception", models.Quality720p, "magnet:720-low", 5),
				ytsRelease("tt1375666", "Inception", models.Quality720p, "magnet:720-high", 9),
				ytsRelease("tt1375666", "Inception", models.Quality1080p, "magnet:1080", 3),
				ytsRelease("tt1375666", "Inception 2010 HDCAM", models.Quality720p, "magnet:cam", 100),
				ytsRelease("tt0133093", "Totally Different Film", models.Quality720p, "magnet:other", 1),
			},
		},
	}

	ctrl, hook := newController(t, catalog, meta, []Scraper{scraper}, testOptions())
	stats, err := ctrl.Run(context.Background(), "yts")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Processed)
	assert.Equal(t, int64(1), stats.Skipped)

	stored, err := catalog.FindByKey("tt1375666")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Torrents.Len())
	got, _ := stored.Torrents.Get(models.LanguageEnglish, models.Quality720p)
	assert.Equal(t, "magnet:720-high", got.URL)
	assert.True(t, stored.LastUpdated.IsZero(), "scraped entries do not move the feed cursor")

	_, err = catalog.FindByKey("tt0133093")
	assert.ErrorIs(t, err, models.ErrNotFound)
	require.NotNil(t, hasEntry(hook, logrus.WarnLevel, "Resolved title does not match, skipping"))

	// known movies only get their torrents merged, without another lookup
	delete(meta.summaries, "tt1375666")
	scraper.pages[1] = []models.RawTorrent{
		ytsRelease("tt1375666", "Inception", models.Quality720p, "magnet:720-best", 20),
	}
	stats, err = ctrl.Run(context.Background(), "yts")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Processed)

	stored, err = catalog.FindByKey("tt1375666")
	require.NoError(t, err)
	got, _ = stored.Torrents.Get(models.LanguageEnglish, models.Quality720p)
	assert.Equal(t, "magnet:720-best", got.URL)
	got, _ = stored.Torrents.Get(models.LanguageEnglish, models.Quality1080p)
	assert.Equal(t, "magnet:1080", got.URL)
}

func TestRunScraperAttachesToKnownShow(t *testing.T) {
	catalog := newCatalog(t)
	require.NoError(t, catalog.Insert(&models.Content{
		Key:   "tt0944947",
		Type:  models.ContentTypeShow,
		IDs:   models.ExternalIDs{Trakt: 1390, IMDB: "tt0944947"},
		Title: "Game of Thrones",
		Episodes: []models.Episode{
			{Season: 1, Number: 1, Watched: true},
			{Season: 1, Number: 2},
		},
	}))

	meta := newFakeMeta()
	scraper := &fakeScraper{
		name:        "eztv",
		contentType: models.ContentTypeShow,
		pages: map[int][]models.RawTorrent{
			1: {
				eztvRelease("tt0944947", "Game.of.Thrones.S01E01.720p.HDTV", 1, 1, "magnet:e1", 30),
				eztvRelease("tt0944947", "Game.of.Thrones.S01E05.720p.HDTV", 1, 5, "magnet:e5", 30),
				eztvRelease("tt0944947", "Game.of.Thrones.S01.720p.HDTV", 1, 0, "magnet:pack", 90),
			},
		},
	}

	ctrl, _ := newController(t, catalog, meta, []Scraper{scraper}, testOptions())
	stats, err := ctrl.RunScraper(context.Background(), "eztv")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Processed)
	assert.Equal(t, 0, meta.seasonCalls, "known shows are not walked again")

	stored, err := catalog.FindByKey("tt0944947")
	require.NoError(t, err)
	require.Len(t, stored.Episodes, 2)
	got, ok := stored.Episodes[0].Torrents.Get(models.LanguageEnglish, models.Quality720p)
	require.True(t, ok)
	assert.Equal(t, "magnet:e1", got.URL)
	assert.True(t, stored.Episodes[0].Watched)
	assert.Equal(t, 0, stored.Episodes[1].Torrents.Len())
}

func TestRunScraperResolvesNewShow(t *testing.T) {
	catalog := newCatalog(t)
	meta := newFakeMeta()
	meta.summaries["tt0903747"] = &trakt.ContentDetail{
		Title: "Breaking Bad",
		Year:  2008,
		IDs:   trakt.IDs{Trakt: 1388, IMDB: "tt0903747", TVDB: 81189},
	}
	meta.seasonFn = func(showID string, season int) ([]trakt.EpisodeDetail, error) {
		if showID == "1388" && season == 1 {
			return episodesOf(1, 3), nil
		}
		return nil, models.ErrNotFound
	}

	scraper := &fakeScraper{
		name:        "eztv",
		contentType: models.ContentTypeShow,
		pages: map[int][]models.RawTorrent{
			1: {
				eztvRelease("tt0903747", "Breaking.Bad.S01E02.720p", 1, 2, "magnet:bb-e2", 12),
				eztvRelease("tt0903747", "Breaking.Bad.S09E01.720p", 9, 1, "magnet:bb-e901", 12),
			},
		},
	}

	ctrl, _ := newController(t, catalog, meta, []Scraper{scraper}, testOptions())
	stats, err := ctrl.RunScraper(context.Background(), "eztv")
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Processed)

	stored, err := catalog.FindByKey("tt0903747")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.NumSeasons)
	require.Len(t, stored.Episodes, 3)
	got, ok := stored.Episodes[1].Torrents.Get(models.LanguageEnglish, models.Quality720p)
	require.True(t, ok)
	assert.Equal(t, "magnet:bb-e2", got.URL)
	assert.Nil(t, stored.FindEpisode(9, 1))
}

func TestRunScraperSkipsUnidentifiedReleases(t *testing.T) {
	scraper := &fakeScraper{
		name:        "torznab",
		contentType: models.ContentTypeMovie,
		pages: map[int][]models.RawTorrent{
			1: {
				ytsRelease("", "Mystery.Film.2019.1080p.WEB", models.Quality1080p, "magnet:m", 4),
				ytsRelease("tt7777777", "No.Quality.2019.WEB", "", "magnet:q", 4),
			},
		},
	}

	ctrl, _ := newController(t, newCatalog(t), newFakeMeta(), []Scraper{scraper}, testOptions())
	stats, err := ctrl.RunScraper(context.Background(), "torznab")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Skipped)
	assert.Equal(t, int64(0), stats.Failed)
}

// unusablePage lists releases without a quality, so they are skipped without any lookup
func unusablePage(page int) []models.RawTorrent {
	return []models.RawTorrent{
		ytsRelease(fmt.Sprintf("tt%07d", page), "Film", "", fmt.Sprintf("magnet:%d", page), 1),
	}
}

func TestRunScraperResumesAtLastListedPage(t *testing.T) {
	scraper := &fakeScraper{
		name:        "yts",
		contentType: models.ContentTypeMovie,
		resumable:   true,
		pages:       map[int][]models.RawTorrent{1: unusablePage(1), 2: unusablePage(2), 3: unusablePage(3)},
	}

	ctrl, _ := newController(t, newCatalog(t), newFakeMeta(), []Scraper{scraper}, testOptions())
	stats, err := ctrl.RunScraper(context.Background(), "yts")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, scraper.calls)
	assert.Equal(t, 3, stats.LastPage)

	// new releases land on the last page and after it
	scraper.calls = nil
	scraper.pages[4] = unusablePage(4)
	stats, err = ctrl.RunScraper(context.Background(), "yts")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, scraper.calls)
	assert.Equal(t, 4, stats.LastPage)

	// an empty run keeps the saved page
	scraper.calls = nil
	scraper.errs = map[int]error{4: fmt.Errorf("502 bad gateway"), 5: fmt.Errorf("502 bad gateway"), 6: fmt.Errorf("502 bad gateway")}
	_, err = ctrl.RunScraper(context.Background(), "yts")
	require.NoError(t, err)
	scraper.errs = nil
	scraper.calls = nil
	_, err = ctrl.RunScraper(context.Background(), "yts")
	require.NoError(t, err)
	assert.Equal(t, 4, scraper.calls[0])
}

func TestRunScraperStartsOverWhenResumePageIsEmpty(t *testing.T) {
	scraper := &fakeScraper{
		name:        "yts",
		contentType: models.ContentTypeMovie,
		resumable:   true,
		pages:       map[int][]models.RawTorrent{1: unusablePage(1), 2: unusablePage(2), 3: unusablePage(3)},
	}

	ctrl, hook := newController(t, newCatalog(t), newFakeMeta(), []Scraper{scraper}, testOptions())
	_, err := ctrl.RunScraper(context.Background(), "yts")
	require.NoError(t, err)

	scraper.calls = nil
	scraper.pages = map[int][]models.RawTorrent{1: unusablePage(1)}
	stats, err := ctrl.RunScraper(context.Background(), "yts")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 1, 2}, scraper.calls)
	assert.Equal(t, 3, stats.Pages)
	assert.Equal(t, 1, stats.LastPage)
	require.NotNil(t, hasEntry(hook, logrus.WarnLevel, "Resume page is empty, starting over from page 1"))
}

func TestRunScraperWithoutResumeStartsAtFirstPage(t *testing.T) {
	scraper := &fakeScraper{
		name:        "eztv",
		contentType: models.ContentTypeShow,
		pages:       map[int][]models.RawTorrent{1: unusablePage(1), 2: unusablePage(2)},
	}

	ctrl, _ := newController(t, newCatalog(t), newFakeMeta(), []Scraper{scraper}, testOptions())
	for run := 0; run < 2; run++ {
		scraper.calls = nil
		_, err := ctrl.RunScraper(context.Background(), "eztv")
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, scraper.calls)
	}
}

func TestRunScraperWaitsBetweenPagesAndItems(t *testing.T) {
	const delay = 20 * time.Millisecond
	scraper := &fakeScraper{
		name:        "yts",
		contentType: models.ContentTypeMovie,
		pages:       map[int][]models.RawTorrent{1: append(unusablePage(1), unusablePage(2)...)},
	}

	opts := testOptions()
	opts.ScraperDelay = delay
	ctrl, _ := newController(t, newCatalog(t), newFakeMeta(), []Scraper{scraper}, opts)

	started := time.Now()
	stats, err := ctrl.RunScraper(context.Background(), "yts")
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Skipped)
	// one delay after the page, one after each of its two titles
	assert.GreaterOrEqual(t, time.Since(started), 3*delay)
}
