package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/amaumene/catalogr/internal/models"
)

// CursorTracker derives where an incremental run resumes from
type CursorTracker struct {
	catalog      Catalog
	defaultStart map[models.ContentType]time.Time
}

// NewCursorTracker creates a cursor tracker with per-type start dates for an empty catalog
func NewCursorTracker(catalog Catalog, movieStart, showStart time.Time) *CursorTracker {
	return &CursorTracker{
		catalog: catalog,
		defaultStart: map[models.ContentType]time.Time{
			models.ContentTypeMovie: movieStart,
			models.ContentTypeShow:  showStart,
		},
	}
}

// NextStartDate returns the UTC day of the most recently updated entry of the type,
// or the type's default start date when there is none.
// Entries updated later on that same day get processed again next run; upserts are idempotent.
func (t *CursorTracker) NextStartDate(contentType models.ContentType) (time.Time, error) {
	latest, err := t.catalog.FindMaxUpdated(contentType)
	if errors.Is(err, models.ErrNotFound) || (err == nil && latest.LastUpdated.IsZero()) {
		return truncateDay(t.defaultStart[contentType]), nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to derive %s cursor: %w", contentType, err)
	}
	return truncateDay(latest.LastUpdated), nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PageCursor is the ephemeral position of one run in an upstream feed
type PageCursor struct {
	ContentType models.ContentType
	StartDate   time.Time
	Page        int
}

// NewPageCursor starts a cursor at page 1
func NewPageCursor(contentType models.ContentType, start time.Time) *PageCursor {
	return &PageCursor{ContentType: contentType, StartDate: start, Page: 1}
}

// Advance moves to the next page, whatever the outcome of the current one
func (c *PageCursor) Advance() {
	c.Page++
}

// IsPageTerminal reports whether a fetched page ends the run
func IsPageTerminal[T any](items []T) bool {
	return len(items) == 0
}
