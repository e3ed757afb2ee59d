package controllers

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/services/trakt"
	"github.com/amaumene/catalogr/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

var (
	movieStart = time.Date(2014, 9, 17, 0, 0, 0, 0, time.UTC)
	showStart  = time.Date(2014, 9, 24, 0, 0, 0, 0, time.UTC)
)

func testOptions() SyncOptions {
	return SyncOptions{
		Concurrency:        1,
		ScraperConcurrency: 1,
		PageLimit:          100,
		Retries:            1,
		MaxSeasons:         500,
		MaxFailedPages:     3,
		MinYear:            1995,
		MovieStartDate:     movieStart,
		ShowStartDate:      showStart,
	}
}

func newCatalog(t *testing.T) *models.Database {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

func slot(url string, seed int) models.TorrentSlot {
	return models.TorrentSlot{URL: url, Seed: seed, Provider: models.ProviderYTS}
}

func torrentsOf(lang, quality string, s models.TorrentSlot) models.Torrents {
	t := models.Torrents{}
	t.Set(lang, quality, s)
	return t
}

// fakeMeta is an in-memory metadata service
type fakeMeta struct {
	mu sync.Mutex

	updates     map[int][]trakt.ChangeNotification
	updateErrs  map[int]error
	summaries   map[string]*trakt.ContentDetail
	watchers    map[string]int
	watcherErr  error
	seasons     map[int][]trakt.EpisodeDetail
	seasonFn    func(showID string, season int) ([]trakt.EpisodeDetail, error)
	updateCalls map[int]int
	seasonCalls int
	lastStart   time.Time
}

func newFakeMeta() *fakeMeta {
	return &fakeMeta{
		updates:     map[int][]trakt.ChangeNotification{},
		updateErrs:  map[int]error{},
		summaries:   map[string]*trakt.ContentDetail{},
		watchers:    map[string]int{},
		seasons:     map[int][]trakt.EpisodeDetail{},
		updateCalls: map[int]int{},
	}
}

func (f *fakeMeta) Updates(_ context.Context, _ models.ContentType, start time.Time, page, _ int) ([]trakt.ChangeNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls[page]++
	f.lastStart = start
	if err := f.updateErrs[page]; err != nil {
		return nil, err
	}
	return f.updates[page], nil
}

func (f *fakeMeta) Summary(_ context.Context, _ models.ContentType, id string) (*trakt.ContentDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	detail, ok := f.summaries[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *detail
	return &copied, nil
}

func (f *fakeMeta) WatcherCount(_ context.Context, _ models.ContentType, id string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.watcherErr != nil {
		return 0, f.watcherErr
	}
	return f.watchers[id], nil
}

func (f *fakeMeta) SeasonEpisodes(_ context.Context, showID string, season int) ([]trakt.EpisodeDetail, error) {
	f.mu.Lock()
	f.seasonCalls++
	fn := f.seasonFn
	episodes, ok := f.seasons[season]
	f.mu.Unlock()

	if fn != nil {
		return fn(showID, season)
	}
	if !ok {
		return nil, models.ErrNotFound
	}
	return episodes, nil
}

// fakeImages answers every lookup with the same artwork
type fakeImages struct{}

func (fakeImages) FetchImages(context.Context, models.ContentType, models.ExternalIDs) (models.Images, error) {
	return models.Images{Banner: "banner.jpg", Fanart: "fanart.jpg", Poster: "poster.jpg"}, nil
}

// fakeScraper serves fixed pages and records which ones were asked for
type fakeScraper struct {
	name        string
	contentType models.ContentType
	resumable   bool
	pages       map[int][]models.RawTorrent
	errs        map[int]error
	calls       []int
}

func (s *fakeScraper) Name() string                    { return s.name }
func (s *fakeScraper) ContentType() models.ContentType { return s.contentType }
func (s *fakeScraper) Resumable() bool                 { return s.resumable }

func (s *fakeScraper) ListPage(_ context.Context, page int) ([]models.RawTorrent, error) {
	s.calls = append(s.calls, page)
	if err := s.errs[page]; err != nil {
		return nil, err
	}
	return s.pages[page], nil
}

func movieDetail(title string, year, traktID int, imdb string) *trakt.ContentDetail {
	return &trakt.ContentDetail{
		Title:    title,
		Year:     year,
		IDs:      trakt.IDs{Trakt: traktID, IMDB: imdb, Slug: "slug-" + imdb},
		Overview: "overview of " + title,
		Rating:   7.46,
		Votes:    1200,
		Genres:   []string{"action"},
		Released: "2010-07-16",
	}
}

func notification(detail *trakt.ContentDetail, updated time.Time) trakt.ChangeNotification {
	return trakt.ChangeNotification{UpdatedAt: updated, Movie: detail}
}

func newController(t *testing.T, catalog Catalog, meta *fakeMeta, scrapers []Scraper, opts SyncOptions) (*SyncController, *test.Hook) {
	t.Helper()
	logger, hook := newLogger()
	walker := NewSeasonWalker(meta, opts, logger)
	resolver := NewResolver(meta, fakeImages{}, walker, opts, logger)
	upserts := NewUpsertCoordinator(catalog, logger)
	blacklist := utils.NewBlacklist(utils.DefaultBlacklistTerms)
	return NewSyncController(catalog, meta, resolver, upserts, scrapers, blacklist, opts, logger), hook
}
