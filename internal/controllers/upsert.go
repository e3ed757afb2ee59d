package controllers

import (
	"errors"
	"sync"

	"github.com/amaumene/catalogr/internal/metrics"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/sirupsen/logrus"
)

// Catalog is the persistent store the engine reconciles into
type Catalog interface {
	FindByKey(key string) (*models.Content, error)
	FindMaxUpdated(contentType models.ContentType) (*models.Content, error)
	Insert(content *models.Content) error
	Replace(key string, content *models.Content) error
	Count(contentType models.ContentType) (int, error)
	Close() error
}

// UpsertCoordinator writes candidate entries into the catalog, merging with what is stored
type UpsertCoordinator struct {
	catalog Catalog
	locks   *keyedMutex
	logger  *logrus.Logger
}

// NewUpsertCoordinator creates a new upsert coordinator
func NewUpsertCoordinator(catalog Catalog, logger *logrus.Logger) *UpsertCoordinator {
	return &UpsertCoordinator{
		catalog: catalog,
		locks:   newKeyedMutex(),
		logger:  logger,
	}
}

// Upsert inserts candidate or merges it into the stored entry with the same key.
// Applying the same candidate twice leaves the catalog unchanged the second time.
func (u *UpsertCoordinator) Upsert(candidate *models.Content) (*models.Content, error) {
	key := candidate.Key
	if key == "" {
		var err error
		if key, err = models.IdentityKey(candidate.IDs); err != nil {
			return nil, err
		}
		candidate.Key = key
	}

	unlock := u.locks.Lock(key)
	defer unlock()

	existing, err := u.catalog.FindByKey(key)
	if errors.Is(err, models.ErrNotFound) {
		if err := u.catalog.Insert(candidate); err != nil {
			return nil, &models.UpsertError{Key: key, Err: err}
		}
		metrics.UpsertsTotal.WithLabelValues(string(candidate.Type), "insert").Inc()
		u.logger.WithFields(logrus.Fields{
			"key":   key,
			"type":  candidate.Type,
			"title": candidate.Title,
		}).Debug("Inserted catalog entry")
		return candidate, nil
	}
	if err != nil {
		return nil, &models.UpsertError{Key: key, Err: err}
	}

	merged := mergeContent(existing, candidate)
	if err := u.catalog.Replace(key, merged); err != nil {
		return nil, &models.UpsertError{Key: key, Err: err}
	}

	metrics.UpsertsTotal.WithLabelValues(string(merged.Type), "merge").Inc()
	u.logger.WithFields(logrus.Fields{
		"key":      key,
		"type":     merged.Type,
		"title":    merged.Title,
		"torrents": merged.Torrents.Len(),
	}).Debug("Merged catalog entry")

	return merged, nil
}

// AttachTorrents merges scraped torrents into a stored entry without touching its metadata.
// Torrents for episodes the entry does not list are dropped. It returns the entry and the
// number of slots that changed; when none did the entry is not written.
func (u *UpsertCoordinator) AttachTorrents(key string, torrents models.Torrents, episodes map[models.EpisodeKey]models.Torrents) (*models.Content, int, error) {
	unlock := u.locks.Lock(key)
	defer unlock()

	existing, err := u.catalog.FindByKey(key)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, 0, err
		}
		return nil, 0, &models.UpsertError{Key: key, Err: err}
	}

	attached := applyEpisodeTorrents(existing, episodes)
	if merged, changed := mergeTorrents(existing.Torrents, torrents); changed > 0 {
		existing.Torrents = merged
		attached += changed
	}
	if attached == 0 {
		return existing, 0, nil
	}

	if err := u.catalog.Replace(key, existing); err != nil {
		return nil, 0, &models.UpsertError{Key: key, Err: err}
	}

	metrics.UpsertsTotal.WithLabelValues(string(existing.Type), "attach").Inc()
	return existing, attached, nil
}

// applyEpisodeTorrents merges torrents into the matching episodes of content and
// returns how many slots changed
func applyEpisodeTorrents(content *models.Content, episodes map[models.EpisodeKey]models.Torrents) int {
	attached := 0
	for key, torrents := range episodes {
		ep := content.FindEpisode(key.Season, key.Number)
		if ep == nil {
			continue
		}
		if merged, changed := mergeTorrents(ep.Torrents, torrents); changed > 0 {
			ep.Torrents = merged
			attached += changed
		}
	}
	return attached
}

// mergeContent takes the candidate's descriptive fields and merges torrents and episodes.
// Key and CreatedAt always come from the stored entry and LastUpdated never moves backwards.
func mergeContent(existing, candidate *models.Content) *models.Content {
	merged := *candidate
	merged.Key = existing.Key
	merged.CreatedAt = existing.CreatedAt
	if merged.LastUpdated.Before(existing.LastUpdated) {
		merged.LastUpdated = existing.LastUpdated
	}
	merged.Torrents = MergeTorrents(existing.Torrents, candidate.Torrents)

	if len(existing.Episodes) > 0 || len(candidate.Episodes) > 0 {
		merged.Episodes = mergeEpisodes(existing.Episodes, candidate.Episodes)
	}

	return &merged
}

// keyedMutex serialises work per key; distinct keys never block each other
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

// Lock acquires the lock for key and returns its release function
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
