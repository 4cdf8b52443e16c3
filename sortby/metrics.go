package sortby

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess  = "success"
	outcomeError    = "error"
	outcomeCanceled = "canceled"
	outcomePanic    = "panic"
)

var (
	sortsTotal = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "sortby_sorts_total",
		Help: "The total number of terminal sort operations, by outcome",
	}, []string{"name", "outcome"})

	sortElements = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "sortby_elements",
		Help:    "The number of elements per sort",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10), //nolint:mnd
	}, []string{"name"})

	sortDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{ //nolint:gochecknoglobals
		Name:    "sortby_sort_duration_seconds",
		Help:    "Time spent extracting keys and sorting",
		Buckets: prometheus.DefBuckets,
	}, []string{"name"})

	keyExtractionErrors = promauto.NewCounterVec(prometheus.CounterOpts{ //nolint:gochecknoglobals
		Name: "sortby_key_extraction_errors_total",
		Help: "The total number of failed key extractions",
	}, []string{"name"})
)
