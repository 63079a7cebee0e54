package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/StripCut/internal/model"
)

var (
	ErrInvalidSheetWidth = errors.New("usable sheet width must be positive and finite")
	ErrInvalidCutMargin  = errors.New("cut margin must be finite and not negative")
)

// Optimizer generates and ranks cutting patterns for one usable sheet width.
// An Optimizer holds no mutable state and may be shared between goroutines.
type Optimizer struct {
	Settings model.Settings

	sheetWidth float64
	logger     *slog.Logger
	tracer     trace.Tracer
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(o *Optimizer) {
		if t != nil {
			o.tracer = t
		}
	}
}

// New validates the settings and returns an Optimizer for their usable width.
func New(settings model.Settings, opts ...Option) (*Optimizer, error) {
	width := settings.UsableWidth()
	if !(width > 0) || math.IsInf(width, 1) {
		return nil, fmt.Errorf("%w: raw width %.3f mm, edge trim %.3f mm", ErrInvalidSheetWidth, settings.RawSheetWidth, settings.EdgeTrim)
	}
	if !(settings.CutMargin >= 0) || math.IsInf(settings.CutMargin, 1) {
		return nil, fmt.Errorf("%w: %.3f mm", ErrInvalidCutMargin, settings.CutMargin)
	}

	o := &Optimizer{
		Settings:   settings,
		sheetWidth: width,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:     otel.Tracer("stripcut/engine"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// SheetWidth returns the usable width patterns are computed against.
func (o *Optimizer) SheetWidth() float64 {
	return o.sheetWidth
}

// Generate runs every builder over the parts, removes duplicate patterns and
// returns at most topN patterns ordered by waste, then priority score.
// Parts that cannot be placed at all are ignored. It never fails; an empty
// catalog or a non-positive topN yields an empty slice.
func (o *Optimizer) Generate(ctx context.Context, parts []model.Part, topN int) []model.Pattern {
	if len(parts) == 0 || topN <= 0 {
		return []model.Pattern{}
	}

	ctx, span := o.tracer.Start(ctx, "engine.Generate", trace.WithAttributes(
		attribute.Int("parts", len(parts)),
		attribute.Float64("sheet_width", o.sheetWidth),
		attribute.Float64("cut_margin", o.Settings.CutMargin),
		attribute.Int("top_n", topN),
	))
	defer span.End()

	feasible := feasibleParts(parts, o.sheetWidth, o.Settings.CutMargin)
	if skipped := len(parts) - len(feasible); skipped > 0 {
		o.logger.Debug("Skipping parts that cannot be placed", "skipped", skipped, "sheet_width", o.sheetWidth)
	}
	if len(feasible) == 0 {
		span.SetAttributes(attribute.Int("patterns", 0))
		return []model.Pattern{}
	}

	builders := o.builders()
	results := make([][]model.Pattern, len(builders))

	if o.Settings.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i, b := range builders {
			g.Go(func() error {
				results[i] = b.build(gctx, feasible)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, b := range builders {
			results[i] = b.build(ctx, feasible)
		}
	}

	var pooled []model.Pattern
	for i, b := range builders {
		o.logger.Debug("Builder finished", "strategy", b.name, "patterns", len(results[i]))
		pooled = append(pooled, results[i]...)
	}

	ranked := rank(dedupe(pooled))
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	span.SetAttributes(
		attribute.Int("candidates", len(pooled)),
		attribute.Int("patterns", len(ranked)),
	)
	o.logger.Debug("Generated patterns", "candidates", len(pooled), "returned", len(ranked))
	return ranked
}
