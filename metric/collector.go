package metric

import (
	"github.com/Trendyol/go-cdc-alert/alert"
	"github.com/Trendyol/go-cdc-alert/helpers"

	"github.com/prometheus/client_golang/prometheus"
)

type metricCollector struct {
	processor alert.Processor

	received *prometheus.Desc
	logged   *prometheus.Desc
	filtered *prometheus.Desc
	failed   *prometheus.Desc
	rotated  *prometheus.Desc

	hookFailed       *prometheus.Desc
	loggedByCategory *prometheus.Desc
}

func (s *metricCollector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(s, ch)
}

func (s *metricCollector) Collect(ch chan<- prometheus.Metric) {
	snapshot := s.processor.GetMetric().Snapshot()

	ch <- prometheus.MustNewConstMetric(s.received, prometheus.CounterValue, float64(snapshot.Received))
	ch <- prometheus.MustNewConstMetric(s.logged, prometheus.CounterValue, float64(snapshot.Logged))
	ch <- prometheus.MustNewConstMetric(s.filtered, prometheus.CounterValue, float64(snapshot.Filtered))
	ch <- prometheus.MustNewConstMetric(s.failed, prometheus.CounterValue, float64(snapshot.Failed))
	ch <- prometheus.MustNewConstMetric(s.rotated, prometheus.CounterValue, float64(snapshot.Rotated))
	ch <- prometheus.MustNewConstMetric(s.hookFailed, prometheus.CounterValue, float64(snapshot.HookFailed))

	for category, count := range snapshot.LoggedByCategory {
		ch <- prometheus.MustNewConstMetric(
			s.loggedByCategory,
			prometheus.CounterValue,
			float64(count),
			category,
		)
	}
}

func NewMetricCollector(processor alert.Processor) prometheus.Collector {
	return &metricCollector{
		processor: processor,

		received: prometheus.NewDesc(
			prometheus.BuildFQName(helpers.Name, "received", "total"),
			"Received alert count",
			[]string{},
			nil,
		),
		logged: prometheus.NewDesc(
			prometheus.BuildFQName(helpers.Name, "logged", "total"),
			"Alerts appended to the log file",
			[]string{},
			nil,
		),
		filtered: prometheus.NewDesc(
			prometheus.BuildFQName(helpers.Name, "filtered", "total"),
			"Alerts below the minimum category",
			[]string{},
			nil,
		),
		failed: prometheus.NewDesc(
			prometheus.BuildFQName(helpers.Name, "failed", "total"),
			"Alerts that could not be written",
			[]string{},
			nil,
		),
		rotated: prometheus.NewDesc(
			prometheus.BuildFQName(helpers.Name, "rotation", "total"),
			"Log file rotation count",
			[]string{},
			nil,
		),
		hookFailed: prometheus.NewDesc(
			prometheus.BuildFQName(helpers.Name, "hook_failed", "total"),
			"Event handler hooks that panicked",
			[]string{},
			nil,
		),
		loggedByCategory: prometheus.NewDesc(
			prometheus.BuildFQName(helpers.Name, "logged_by_category", "total"),
			"Alerts appended to the log file per category",
			[]string{"category"},
			nil,
		),
	}
}
