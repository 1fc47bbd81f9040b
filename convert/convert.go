// Package convert runs the poem pipeline: lexicon pre-substitution, reading
// resolution, and hentaigana rendering.
package convert

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"kohitsu/analyze"
	"kohitsu/dictionary"
	"kohitsu/hentaigana"
	"kohitsu/logger"
	"kohitsu/lookup"
	"kohitsu/model"
	"kohitsu/observe"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const tracerName = "kohitsu/convert"

// seedStream is the PCG stream selector used for seeded requests.
const seedStream = 0x9e3779b97f4a7c15

// SourceFunc returns the random source for one conversion. seed is nil
// when the request did not ask for reproducible output.
type SourceFunc func(seed *uint64) hentaigana.RandomSource

// Converter composes the pipeline stages. It holds only read-only state and
// is safe for concurrent use when its Analyzer is.
type Converter struct {
	store     *dictionary.Store
	analyzer  analyze.Analyzer
	table     hentaigana.Table
	policy    lookup.Policy
	l         *zap.Logger
	metrics   *observe.Metrics
	tracer    trace.Tracer
	dumpDir   string
	newSource SourceFunc
}

// Option configures a Converter.
type Option func(*Converter)

// WithPolicy sets the lexicon substitution policy (default lookup.Rescan).
func WithPolicy(p lookup.Policy) Option {
	return func(c *Converter) { c.policy = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.l = l
		}
	}
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observe.Metrics) Option {
	return func(c *Converter) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracerProvider takes spans from tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Converter) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithDumpDir writes every successful result as JSON into dir.
func WithDumpDir(dir string) Option {
	return func(c *Converter) { c.dumpDir = dir }
}

// WithSource replaces the random source factory.
func WithSource(fn SourceFunc) Option {
	return func(c *Converter) {
		if fn != nil {
			c.newSource = fn
		}
	}
}

// New builds a Converter. store may be empty but not nil; analyzer must be
// a fully initialized analyzer.
func New(store *dictionary.Store, analyzer analyze.Analyzer, table hentaigana.Table, opts ...Option) *Converter {
	if store == nil {
		store = dictionary.Empty()
	}
	c := &Converter{
		store:     store,
		analyzer:  analyzer,
		table:     table,
		l:         zap.NewNop(),
		metrics:   observe.Nop(),
		tracer:    otel.Tracer(tracerName),
		newSource: defaultSource,
	}
	for _, fn := range opts {
		fn(c)
	}
	return c
}

func defaultSource(seed *uint64) hentaigana.RandomSource {
	if seed != nil {
		return rand.New(rand.NewPCG(*seed, seedStream))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Table returns the variant table in use.
func (c *Converter) Table() hentaigana.Table {
	return c.table
}

// Convert runs one request through the pipeline. Failures of the analyzer
// are returned as *analyze.ResolutionError and no partial result is
// produced. A request without an ID is given a fresh one.
func (c *Converter) Convert(ctx context.Context, req model.ConversionRequest) (model.ConversionResult, error) {
	start := time.Now()
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	ctx, span := c.tracer.Start(ctx, "convert", trace.WithAttributes(
		attribute.String("request.id", req.ID),
		attribute.Float64("ratio", req.Ratio),
	))
	defer span.End()

	res, err := c.run(ctx, span, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.metrics.RecordConversion(ctx, time.Since(start), observe.StatusError)
		c.l.Warn("conversion failed", zap.String("id", req.ID), zap.Error(err))
		return model.ConversionResult{}, err
	}

	c.metrics.RecordConversion(ctx, time.Since(start), observe.StatusOK)
	c.metrics.RecordSubstitutions(ctx, len(res.LexiconHits), countChanged(res.Hiragana, res.VariantMixed))
	c.l.Debug("conversion done",
		zap.String("id", res.ID),
		zap.Int("lexicon_hits", len(res.LexiconHits)),
		zap.Duration("took", time.Since(start)),
	)
	if c.dumpDir != "" {
		if _, err := logger.DumpJSON(c.dumpDir, res.ID, res); err != nil {
			c.l.Warn("failed to write conversion dump", zap.String("id", res.ID), zap.Error(err))
		}
	}
	return res, nil
}

func (c *Converter) run(ctx context.Context, span trace.Span, req model.ConversionRequest) (model.ConversionResult, error) {
	if err := hentaigana.ValidateRatio(req.Ratio); err != nil {
		return model.ConversionResult{}, err
	}

	text := dictionary.Normalize(req.Text)
	presub, hits := lookup.Presubstitute(text, c.store, c.policy)
	span.AddEvent("presubstituted", trace.WithAttributes(attribute.Int("lexicon.hits", len(hits))))

	hira, err := analyze.ResolveReadings(ctx, presub, c.analyzer)
	if err != nil {
		return model.ConversionResult{}, err
	}
	span.AddEvent("readings resolved")

	mixed := hentaigana.Apply(hira, req.Ratio, c.table, c.newSource(req.Seed))

	return model.ConversionResult{
		ID:           req.ID,
		Original:     req.Text,
		Hiragana:     hira,
		VariantMixed: mixed,
		Ratio:        req.Ratio,
		LexiconHits:  hits,
	}, nil
}

// ConvertBatch converts independent requests concurrently, at most limit
// at a time. Results keep the order of reqs. The first failure cancels the
// remaining work and is returned.
func (c *Converter) ConvertBatch(ctx context.Context, reqs []model.ConversionRequest, limit int) ([]model.ConversionResult, error) {
	out := make([]model.ConversionResult, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			res, err := c.Convert(ctx, req)
			if err != nil {
				return fmt.Errorf("convert: request %d: %w", i, err)
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Format renders the three-section report.
func Format(res model.ConversionResult) string {
	var b strings.Builder
	b.WriteString("【漢字かな混じり】\n")
	b.WriteString(res.Original)
	b.WriteString("\n\n【ひらがな】\n")
	b.WriteString(res.Hiragana)
	fmt.Fprintf(&b, "\n\n【変体仮名（混ざり度 %.1f）】\n", res.Ratio)
	b.WriteString(res.VariantMixed)
	return b.String()
}

func countChanged(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	n := 0
	for i := 0; i < len(ra) && i < len(rb); i++ {
		if ra[i] != rb[i] {
			n++
		}
	}
	return n
}
