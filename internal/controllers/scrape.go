package controllers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// scrapedTitle groups the releases of one page that belong to the same movie or show
type scrapedTitle struct {
	IMDBID   string
	Title    string
	Year     int
	Releases []models.RawTorrent
}

// groupReleases groups a page by IMDb id, falling back to the normalised title
func groupReleases(raws []models.RawTorrent) []scrapedTitle {
	index := make(map[string]int)
	var titles []scrapedTitle

	for _, raw := range raws {
		key := raw.IMDBID
		if key == "" {
			key = "title:" + utils.NormalizeTitle(raw.Title)
		}

		i, ok := index[key]
		if !ok {
			i = len(titles)
			index[key] = i
			titles = append(titles, scrapedTitle{IMDBID: raw.IMDBID, Title: raw.Title, Year: raw.Year})
		}
		titles[i].Releases = append(titles[i].Releases, raw)
	}

	return titles
}

// RunScraper walks a torrent index and merges what it lists into the catalog.
// Resumable scrapers start at the last page the previous run listed; the others start at page 1.
func (c *SyncController) RunScraper(ctx context.Context, name string) (RunStats, error) {
	scraper, ok := c.scrapers[name]
	if !ok {
		return RunStats{}, fmt.Errorf("%w: %q", models.ErrUnknownSource, name)
	}

	started := time.Now()
	ctx, span := tracer.Start(ctx, "sync.run", trace.WithAttributes(attribute.String("source", name)))
	defer span.End()

	start := c.resumePage(scraper)
	c.logger.WithFields(logrus.Fields{
		"source": name,
		"type":   scraper.ContentType(),
		"page":   start,
	}).Info("Starting scraper run")

	stats := c.scrape(ctx, scraper, start)
	if start > 1 && stats.Pages == 1 && stats.FailedPages == 0 && stats.LastPage == 0 && ctx.Err() == nil {
		// the feed shrank below the saved page
		c.logger.WithFields(logrus.Fields{
			"source": name,
			"page":   start,
		}).Warn("Resume page is empty, starting over from page 1")
		pages := stats.Pages
		stats = c.scrape(ctx, scraper, 1)
		stats.Pages += pages
	}
	c.saveResumePage(scraper, stats)

	c.finishRun(name, started, stats)
	return stats, nil
}

// scrape runs one pass over a scraper's feed from page start
func (c *SyncController) scrape(ctx context.Context, scraper Scraper, start int) RunStats {
	contentType := scraper.ContentType()
	cursor := NewPageCursor(contentType, time.Time{})
	cursor.Page = start

	return runBatch(ctx, c.opts, c.logger, batchJob[scrapedTitle]{
		source: scraper.Name(),
		cursor: cursor,
		fetch: func(ctx context.Context, page int) ([]scrapedTitle, error) {
			raws, err := scraper.ListPage(ctx, page)
			if err != nil {
				return nil, err
			}
			return groupReleases(raws), nil
		},
		process: func(ctx context.Context, t scrapedTitle) error {
			return c.scrapeItem(ctx, contentType, t)
		},
		describe: func(t scrapedTitle) logrus.Fields {
			return logrus.Fields{
				"imdb_id":  t.IMDBID,
				"title":    t.Title,
				"releases": len(t.Releases),
			}
		},
		concurrency: c.opts.ScraperConcurrency,
		delay:       c.opts.ScraperDelay,
	})
}

func isResumable(scraper Scraper) bool {
	r, ok := scraper.(Resumable)
	return ok && r.Resumable()
}

// resumePage returns the page a scraper's next run starts at
func (c *SyncController) resumePage(scraper Scraper) int {
	if !isResumable(scraper) {
		return 1
	}

	c.resumeMu.Lock()
	defer c.resumeMu.Unlock()
	if page, ok := c.resumePages[scraper.Name()]; ok {
		return page
	}
	return 1
}

// saveResumePage remembers the last listed page of a run. That page is walked again
// next time since releases added since then land on it first.
func (c *SyncController) saveResumePage(scraper Scraper, stats RunStats) {
	if !isResumable(scraper) || stats.LastPage == 0 {
		return
	}

	c.resumeMu.Lock()
	c.resumePages[scraper.Name()] = stats.LastPage
	c.resumeMu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"source": scraper.Name(),
		"page":   stats.LastPage,
	}).Debug("Saved resume page")
}

// scrapeItem merges the releases of one title into the catalog. Known entries only get
// their torrents attached; new ones are resolved (and walked, for shows) first.
func (c *SyncController) scrapeItem(ctx context.Context, contentType models.ContentType, t scrapedTitle) error {
	torrents, episodes := c.collectTorrents(contentType, t)
	if torrents.Len() == 0 && len(episodes) == 0 {
		return fmt.Errorf("%w: no usable releases", errOutOfScope)
	}
	if t.IMDBID == "" {
		return models.ErrIdentityUnresolvable
	}
	if t.Year > 0 && t.Year < c.opts.MinYear {
		return fmt.Errorf("%w: year %d", errOutOfScope, t.Year)
	}

	_, attached, err := c.upserts.AttachTorrents(t.IMDBID, torrents, episodes)
	if err == nil {
		c.logger.WithFields(logrus.Fields{
			"key":      t.IMDBID,
			"attached": attached,
		}).Debug("Attached torrents to catalog entry")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	content, err := c.resolver.Resolve(ctx, contentType, t.IMDBID, time.Time{})
	if err != nil {
		return err
	}

	if contentType == models.ContentTypeMovie {
		if !utils.TitlesMatch(t.Title, content.Title) {
			return fmt.Errorf("%w: %q resolved to %q", models.ErrTitleMismatch, t.Title, content.Title)
		}
		content.Torrents = torrents
	} else if applyEpisodeTorrents(content, episodes) == 0 {
		c.logger.WithFields(logrus.Fields{
			"key":   content.Key,
			"title": content.Title,
		}).Debug("No scraped episode is known upstream")
	}

	_, err = c.upserts.Upsert(content)
	return err
}

// collectTorrents turns the releases of a title into slots, dropping blacklisted,
// unrecognised and (for shows) non-episode releases. Duplicates within the page
// compete through the merge resolver.
func (c *SyncController) collectTorrents(contentType models.ContentType, t scrapedTitle) (models.Torrents, map[models.EpisodeKey]models.Torrents) {
	torrents := models.Torrents{}
	episodes := make(map[models.EpisodeKey]models.Torrents)

	for _, raw := range t.Releases {
		if blocked, term := c.blacklist.IsBlacklisted(raw.Title); blocked {
			c.logger.WithFields(logrus.Fields{
				"release": raw.Title,
				"term":    term,
			}).Debug("Release blacklisted")
			continue
		}
		if raw.Quality == "" || raw.URL == "" {
			continue
		}

		language := raw.Language
		if language == "" {
			language = models.LanguageEnglish
		}

		if contentType == models.ContentTypeMovie {
			offerTorrent(torrents, language, raw.Quality, raw.Slot())
			continue
		}

		if raw.Season <= 0 || raw.Episode <= 0 {
			continue
		}
		key := models.EpisodeKey{Season: raw.Season, Number: raw.Episode}
		if episodes[key] == nil {
			episodes[key] = models.Torrents{}
		}
		offerTorrent(episodes[key], language, raw.Quality, raw.Slot())
	}

	return torrents, episodes
}
