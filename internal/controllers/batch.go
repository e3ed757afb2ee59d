package controllers

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/amaumene/catalogr/internal/metrics"
	"github.com/amaumene/catalogr/internal/models"
	"github.com/amaumene/catalogr/internal/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("github.com/amaumene/catalogr/internal/controllers")

// RunStats summarises one sync run
type RunStats struct {
	Pages       int
	FailedPages int
	LastPage    int // last page that listed items
	Processed   int64
	Skipped     int64
	Failed      int64
}

// batchJob describes a paged upstream feed and what to do with each of its items
type batchJob[T any] struct {
	source      string
	cursor      *PageCursor
	fetch       func(ctx context.Context, page int) ([]T, error)
	process     func(ctx context.Context, item T) error
	describe    func(item T) logrus.Fields
	concurrency int
	delay       time.Duration
}

// runBatch walks the feed page by page until an empty page, a termination bound or cancellation.
// Failing pages and items are logged and counted; they never abort the run.
func runBatch[T any](ctx context.Context, opts SyncOptions, logger *logrus.Logger, job batchJob[T]) (stats RunStats) {
	var processed, skipped, failed atomic.Int64
	consecutiveFailures := 0

	defer func() {
		stats.Processed = processed.Load()
		stats.Skipped = skipped.Load()
		stats.Failed = failed.Load()
	}()

	for {
		if ctx.Err() != nil {
			logger.WithField("source", job.source).Warn("Run cancelled")
			return stats
		}
		if opts.MaxPages > 0 && stats.Pages >= opts.MaxPages {
			logger.WithFields(logrus.Fields{
				"source":    job.source,
				"max_pages": opts.MaxPages,
			}).Info("Page limit reached")
			return stats
		}

		page := job.cursor.Page
		pageCtx, span := tracer.Start(ctx, "sync.page", trace.WithAttributes(
			attribute.String("source", job.source),
			attribute.Int("page", page),
		))

		items, err := utils.Retry(pageCtx, opts.Retries, opts.RetryDelay, func() ([]T, error) {
			return job.fetch(pageCtx, page)
		})
		job.cursor.Advance()
		stats.Pages++

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()

			if ctx.Err() != nil {
				return stats
			}

			stats.FailedPages++
			consecutiveFailures++
			metrics.PagesTotal.WithLabelValues(job.source, "failed").Inc()
			logger.WithError(err).WithFields(logrus.Fields{
				"source": job.source,
				"page":   page,
			}).Error("Failed to fetch page, skipping")

			if consecutiveFailures >= opts.MaxFailedPages {
				logger.WithFields(logrus.Fields{
					"source":          job.source,
					"failed_in_a_row": consecutiveFailures,
				}).Error("Too many failed pages, stopping run")
				return stats
			}
			if utils.Sleep(ctx, job.delay) != nil {
				return stats
			}
			continue
		}
		consecutiveFailures = 0

		if IsPageTerminal(items) {
			metrics.PagesTotal.WithLabelValues(job.source, "empty").Inc()
			span.End()
			logger.WithFields(logrus.Fields{
				"source": job.source,
				"page":   page,
			}).Debug("Empty page, run complete")
			return stats
		}

		stats.LastPage = page
		metrics.PagesTotal.WithLabelValues(job.source, "ok").Inc()
		span.SetAttributes(attribute.Int("items", len(items)))
		logger.WithFields(logrus.Fields{
			"source": job.source,
			"page":   page,
			"items":  len(items),
		}).Info("Processing page")

		if utils.Sleep(ctx, job.delay) != nil {
			span.End()
			return stats
		}

		concurrency := job.concurrency
		if concurrency < 1 {
			concurrency = 1
		}

		var g errgroup.Group
		g.SetLimit(concurrency)
		for _, item := range items {
			if pageCtx.Err() != nil {
				break
			}
			item := item
			g.Go(func() error {
				switch err := processItem(pageCtx, logger, job, item); {
				case err == nil:
					processed.Add(1)
				case isSkip(err):
					skipped.Add(1)
				default:
					failed.Add(1)
				}
				_ = utils.Sleep(pageCtx, job.delay)
				return nil
			})
		}
		_ = g.Wait()
		span.End()
	}
}

// processItem runs one item in isolation: its error or panic is logged and returned, never propagated
func processItem[T any](ctx context.Context, logger *logrus.Logger, job batchJob[T], item T) (err error) {
	fields := logrus.Fields{"source": job.source}
	for k, v := range job.describe(item) {
		fields[k] = v
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			metrics.ItemsTotal.WithLabelValues(job.source, "failed").Inc()
			logger.WithFields(fields).WithField("panic", r).Error("Item processing panicked")
		}
	}()

	err = job.process(ctx, item)
	switch {
	case err == nil:
		metrics.ItemsTotal.WithLabelValues(job.source, "ok").Inc()
	case errors.Is(err, models.ErrIdentityUnresolvable):
		metrics.ItemsTotal.WithLabelValues(job.source, "skipped").Inc()
		logger.WithFields(fields).Warn("Item has no usable ids, skipping")
	case errors.Is(err, models.ErrTitleMismatch):
		metrics.ItemsTotal.WithLabelValues(job.source, "skipped").Inc()
		logger.WithError(err).WithFields(fields).Warn("Resolved title does not match, skipping")
	case isSkip(err):
		metrics.ItemsTotal.WithLabelValues(job.source, "skipped").Inc()
		logger.WithError(err).WithFields(fields).Debug("Item skipped")
	default:
		metrics.ItemsTotal.WithLabelValues(job.source, "failed").Inc()
		logger.WithError(err).WithFields(fields).Error("Failed to process item")
	}
	return err
}

func isSkip(err error) bool {
	return errors.Is(err, errOutOfScope) ||
		errors.Is(err, models.ErrIdentityUnresolvable) ||
		errors.Is(err, models.ErrTitleMismatch)
}
