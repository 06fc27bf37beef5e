package features

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"olistcli/internal/dataset"
	"olistcli/internal/infrastructure"
)

// TableLoader produces the table mapping a Builder works on
type TableLoader interface {
	Load(ctx context.Context) (dataset.Tables, error)
}

// Builder derives feature tables from a loaded dataset
type Builder struct {
	tables      dataset.Tables
	logger      *slog.Logger
	tracer      trace.Tracer
	metrics     *infrastructure.PipelineMetrics
	strictJoins bool
}

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = infrastructure.WithComponent(logger, "features")
		}
	}
}

// WithTracer sets the tracer used for derivation spans
func WithTracer(tracer trace.Tracer) Option {
	return func(b *Builder) { b.tracer = tracer }
}

// WithMetrics sets the instruments derivations report to
func WithMetrics(metrics *infrastructure.PipelineMetrics) Option {
	return func(b *Builder) { b.metrics = metrics }
}

// WithStrictJoins makes TrainingData fail with a JOIN_MISMATCH error when a
// join drops orders, instead of dropping them silently.
func WithStrictJoins(strict bool) Option {
	return func(b *Builder) { b.strictJoins = strict }
}

// NewBuilder loads the tables once through loader
func NewBuilder(ctx context.Context, loader TableLoader, opts ...Option) (*Builder, error) {
	b := newBuilder(nil, opts)
	tables, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tables: %w", err)
	}
	b.tables = tables
	b.logger.InfoContext(ctx, "feature builder ready", slog.Any("tables", tables.Names()))
	return b, nil
}

// NewBuilderFromTables wraps an already loaded mapping
func NewBuilderFromTables(tables dataset.Tables, opts ...Option) *Builder {
	return newBuilder(tables, opts)
}

func newBuilder(tables dataset.Tables, opts []Option) *Builder {
	b := &Builder{
		tables: tables,
		logger: infrastructure.WithComponent(slog.Default(), "features"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Tables returns the mapping the builder reads
func (b *Builder) Tables() dataset.Tables { return b.tables }

// derive runs one derivation inside a span and records its size and duration
func derive[T any](ctx context.Context, b *Builder, name string, fn func(ctx context.Context) ([]T, error)) (out []T, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	ctx, span := infrastructure.StartSpan(ctx, b.tracer, "features."+name)
	defer func() { infrastructure.EndSpan(span, err) }()

	out, err = fn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	elapsed := time.Since(start)
	b.metrics.RecordDerivation(ctx, name, len(out), elapsed)
	b.logger.DebugContext(ctx, "derivation completed",
		slog.String("derivation", name),
		slog.Int("rows", len(out)),
		slog.Duration("duration", elapsed))
	return out, nil
}

// table fetches and decodes one logical table
func table[T any](b *Builder, name string, decode func(*dataset.Table) ([]T, error)) ([]T, error) {
	t, err := b.tables.Get(name)
	if err != nil {
		return nil, err
	}
	return decode(t)
}
