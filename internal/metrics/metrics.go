// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure reasons used as the reason label
const (
	ReasonParse      = "parse"
	ReasonValidation = "validation"
	ReasonExists     = "exists"
	ReasonIO         = "io"
	ReasonCanceled   = "canceled"
)

// Validation results used as the result label
const (
	ResultValid   = "valid"
	ResultInvalid = "invalid"
)

const metricsNamespace = "blist"

var (
	registerOnce sync.Once

	// Registry holds every blist collector. It is separate from the default
	// registry so textfile output only carries conversion metrics.
	Registry = prometheus.NewRegistry()

	conversionsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "conversions_started_total",
		Help:      "Total number of legacy playlist conversions started",
	})
	conversionsCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "conversions_completed_total",
		Help:      "Total number of legacy playlists converted successfully",
	})
	conversionsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "conversions_failed_total",
		Help:      "Total number of failed conversions by reason",
	}, []string{"reason"})
	conversionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "conversion_duration_seconds",
		Help:      "Histogram of single playlist conversion durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms up to ~2s
	})
	containersValidated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "containers_validated_total",
		Help:      "Total number of playlist containers checked by result",
	}, []string{"result"})
)

// Register adds the collectors to Registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		Registry.MustRegister(conversionsStarted, conversionsCompleted, conversionsFailed,
			conversionDuration, containersValidated)
	})
}

// Conversion lifecycle helpers
func IncConversionStarted()             { conversionsStarted.Inc() }
func IncConversionCompleted()           { conversionsCompleted.Inc() }
func IncConversionFailed(reason string) { conversionsFailed.WithLabelValues(reason).Inc() }
func ObserveConversionDuration(d time.Duration) {
	conversionDuration.Observe(d.Seconds())
}

// IncContainerValidated counts one validate run with the given result
func IncContainerValidated(valid bool) {
	if valid {
		containersValidated.WithLabelValues(ResultValid).Inc()
		return
	}
	containersValidated.WithLabelValues(ResultInvalid).Inc()
}

// WriteTextfile writes every registered metric to path in the text
// exposition format read by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	Register()
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
