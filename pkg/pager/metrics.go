package pager

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artist_pages_loaded_total",
		Help: "Total number of non-empty pages appended to a list",
	})

	itemsAppendedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artist_items_appended_total",
		Help: "Total number of rendered artist items appended to a list",
	})

	loadFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artist_load_failures_total",
		Help: "Total number of failed load cycles by error class",
	}, []string{"class"})

	triggersIgnoredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "artist_triggers_ignored_total",
		Help: "Total number of load triggers ignored by reason",
	}, []string{"reason"}) // "in_flight", "exhausted"

	exhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artist_lists_exhausted_total",
		Help: "Total number of controllers that reached the final page",
	})
)
