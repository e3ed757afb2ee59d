package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesTotal counts upstream pages by source and result (ok, empty, failed)
	PagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogr",
		Name:      "pages_total",
		Help:      "Upstream pages fetched, by source and result.",
	}, []string{"source", "result"})

	// ItemsTotal counts processed items by source and result (ok, skipped, failed)
	ItemsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogr",
		Name:      "items_total",
		Help:      "Items processed, by source and result.",
	}, []string{"source", "result"})

	// UpsertsTotal counts catalog writes by content type and operation (insert, merge)
	UpsertsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogr",
		Name:      "upserts_total",
		Help:      "Catalog writes, by content type and operation.",
	}, []string{"type", "op"})

	// ImageLookupsTotal counts image chain lookups by the provider that answered
	ImageLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "catalogr",
		Name:      "image_lookups_total",
		Help:      "Image lookups, by the provider that answered (placeholder when none did).",
	}, []string{"provider"})

	RunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "catalogr",
		Name:      "run_duration_seconds",
		Help:      "Duration of sync runs, by source.",
		Buckets:   []float64{10, 60, 300, 900, 1800, 3600, 7200, 14400},
	}, []string{"source"})
)
