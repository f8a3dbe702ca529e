package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/simplesurance/csresolver/internal/logfields"
)

const metricNamespace = "csresolver"

const (
	processedEventsMetricName   = "processed_events_total"
	failedEventsMetricName      = "failed_events_total"
	mergeBaseDurationMetricName = "merge_base_duration_seconds"
)

const (
	outcomeLabel = "outcome"
	reasonLabel  = "reason"
)

type metricCollector struct {
	logger            *zap.Logger
	processedEvents   *prometheus.CounterVec
	failedEvents      *prometheus.CounterVec
	mergeBaseDuration prometheus.Histogram
}

var metrics = newMetricCollector()

func newMetricCollector() *metricCollector {
	return &metricCollector{
		logger: zap.L().Named(loggerName).Named("metrics"),
		processedEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      processedEventsMetricName,
				Help:      "count of successfully processed pull request events",
			},
			[]string{outcomeLabel},
		),
		failedEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricNamespace,
				Name:      failedEventsMetricName,
				Help:      "count of pull request events that could not be processed",
			},
			[]string{reasonLabel},
		),
		mergeBaseDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricNamespace,
				Name:      mergeBaseDurationMetricName,
				Help:      "duration of cloning a repository and computing the merge-base",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
	}
}

func (m *metricCollector) logGetMetricFailed(metricName string, err error) {
	m.logger.Warn(
		"could not record metric",
		zap.String("metric", metricName),
		logfields.Event("recording_metric_failed"),
		zap.Error(err),
	)
}

func (m *metricCollector) ProcessedEventsInc(outcome Outcome) {
	cnt, err := m.processedEvents.GetMetricWith(prometheus.Labels{outcomeLabel: outcome.String()})
	if err != nil {
		m.logGetMetricFailed(processedEventsMetricName, err)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) FailedEventsInc(err error) {
	cnt, mErr := m.failedEvents.GetMetricWith(prometheus.Labels{reasonLabel: ErrorReason(err)})
	if mErr != nil {
		m.logGetMetricFailed(failedEventsMetricName, mErr)
		return
	}

	cnt.Inc()
}

func (m *metricCollector) ObserveMergeBaseDuration(d time.Duration) {
	m.mergeBaseDuration.Observe(d.Seconds())
}
