// Package metrics はスキャン結果のPrometheusメトリクスを提供します。
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"logoscan/internal/feature/logodetection/domain/entity"
	"logoscan/internal/feature/logodetection/usecase"
)

const namespace = "logoscan"

// ScanMetrics はOutcomeRecorderとしてスキャン結果を集計します。
type ScanMetrics struct {
	scans    *prometheus.CounterVec
	duration prometheus.Histogram
}

var _ usecase.OutcomeRecorder = (*ScanMetrics)(nil)

// NewScanMetrics はメトリクスを生成してregに登録します。
func NewScanMetrics(reg prometheus.Registerer) (*ScanMetrics, error) {
	m := &ScanMetrics{
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Number of scanned images by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "detection_duration_seconds",
			Help:      "Time spent waiting for the logo detection service.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{m.scans, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Record はスキャン結果を1件記録します。
func (m *ScanMetrics) Record(_ context.Context, _ string, outcome entity.ScanOutcome, elapsed time.Duration) error {
	m.scans.WithLabelValues(outcome.Kind.String()).Inc()
	m.duration.Observe(elapsed.Seconds())
	return nil
}
