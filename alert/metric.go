package alert

import (
	"sync/atomic"

	"github.com/Trendyol/go-cdc-alert/helpers"
	"github.com/Trendyol/go-cdc-alert/models"
)

type Metric struct {
	loggedByCategory []atomic.Int64
	received         atomic.Int64
	logged           atomic.Int64
	filtered         atomic.Int64
	failed           atomic.Int64
	rotated          atomic.Int64
	hookFailed       atomic.Int64
}

type MetricSnapshot struct {
	LoggedByCategory map[string]int64
	Received         int64
	Logged           int64
	Filtered         int64
	Failed           int64
	Rotated          int64
	HookFailed       int64
}

func newMetric() *Metric {
	return &Metric{
		loggedByCategory: make([]atomic.Int64, models.CategoryCount()),
	}
}

// addLogged buckets out-of-range categories under index 0.
func (m *Metric) addLogged(category int) {
	m.logged.Add(1)

	if _, ok := models.CategoryLabel(category); !ok {
		category = 0
	}

	m.loggedByCategory[category].Add(1)
}

func (m *Metric) Snapshot() MetricSnapshot {
	byCategory := make(map[string]int64, len(m.loggedByCategory))

	for i := range m.loggedByCategory {
		label, ok := models.CategoryLabel(i)
		if !ok {
			label = helpers.UnknownLabel
		}
		byCategory[label] = m.loggedByCategory[i].Load()
	}

	return MetricSnapshot{
		Received:         m.received.Load(),
		Logged:           m.logged.Load(),
		Filtered:         m.filtered.Load(),
		Failed:           m.failed.Load(),
		Rotated:          m.rotated.Load(),
		HookFailed:       m.hookFailed.Load(),
		LoggedByCategory: byCategory,
	}
}
