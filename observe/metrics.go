// Package observe provides the OpenTelemetry metrics and tracing used by the
// conversion pipeline. Metrics are exported for Prometheus scraping via
// [InitProvider]; tests should build [Metrics] on their own
// [metric.MeterProvider] with [NewMetrics].
package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// meterName is the instrumentation scope for all kohitsu metrics.
const meterName = "kohitsu"

// Conversion status attribute values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics holds the instruments recorded by the orchestrator. All fields are
// safe for concurrent use.
type Metrics struct {
	// Conversions counts pipeline runs, by attribute "status".
	Conversions metric.Int64Counter

	// ConversionDuration tracks end-to-end pipeline latency in seconds.
	ConversionDuration metric.Float64Histogram

	// LexiconHits counts lexicon keys substituted before analysis.
	LexiconHits metric.Int64Counter

	// VariantsApplied counts characters rendered as hentaigana.
	VariantsApplied metric.Int64Counter
}

var latencyBuckets = []float64{
	0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1,
}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Conversions, err = m.Int64Counter("kohitsu.conversions",
		metric.WithDescription("Number of poem conversions."),
	); err != nil {
		return nil, err
	}
	if met.ConversionDuration, err = m.Float64Histogram("kohitsu.conversion.duration",
		metric.WithDescription("Latency of a full poem conversion."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.LexiconHits, err = m.Int64Counter("kohitsu.lexicon.hits",
		metric.WithDescription("Lexicon keys substituted before analysis."),
	); err != nil {
		return nil, err
	}
	if met.VariantsApplied, err = m.Int64Counter("kohitsu.variants.applied",
		metric.WithDescription("Characters rendered with a variant glyph."),
	); err != nil {
		return nil, err
	}
	return met, nil
}

// Nop returns metrics that record nothing.
func Nop() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider())
	return m
}

// RecordConversion records one finished conversion.
func (m *Metrics) RecordConversion(ctx context.Context, d time.Duration, status string) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.Conversions.Add(ctx, 1, attrs)
	m.ConversionDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordSubstitutions records lexicon hits and applied variants for a
// successful conversion.
func (m *Metrics) RecordSubstitutions(ctx context.Context, lexiconHits, variants int) {
	if lexiconHits > 0 {
		m.LexiconHits.Add(ctx, int64(lexiconHits))
	}
	if variants > 0 {
		m.VariantsApplied.Add(ctx, int64(variants))
	}
}
