// Package converter dispatches conversion requests to the document
// renderers and records how they went.
package converter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mdconvert/internal/config"
	"mdconvert/pkg/domain"
	"mdconvert/pkg/logger"
	"mdconvert/pkg/markdown"
	"mdconvert/pkg/metrics"
	"mdconvert/pkg/render"
	"mdconvert/pkg/render/docx"
	"mdconvert/pkg/render/xlsx"
	"mdconvert/pkg/serrors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "mdconvert/internal/converter"

// Outcomes recorded on the conversions counter.
const (
	OutcomeSuccess       = "success"
	OutcomeRejected      = "rejected"
	OutcomeUnprocessable = "unprocessable"
	OutcomeFailed        = "failed"
)

// Options configure the renderers and the telemetry of a converter.
type Options struct {
	// DocxBodyMode selects how Word bodies are laid out.
	DocxBodyMode docx.Mode
	// XlsxLayout selects what part of the document goes into workbooks.
	XlsxLayout xlsx.Layout
	// MaxColumnWidth caps autosized spreadsheet columns.
	MaxColumnWidth float64
	// Renderers replaces the default docx and xlsx renderers when set.
	Renderers []render.Renderer
	// MeterProvider defaults to the global provider.
	MeterProvider metric.MeterProvider
	// TracerProvider defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) (Options, error) {
	mode, err := docx.ParseMode(cfg.Converter.DocxBodyMode)
	if err != nil {
		return Options{}, fmt.Errorf("invalid converter config: %w", err)
	}
	layout, err := xlsx.ParseLayout(cfg.Converter.XlsxLayout)
	if err != nil {
		return Options{}, fmt.Errorf("invalid converter config: %w", err)
	}

	return Options{
		DocxBodyMode:   mode,
		XlsxLayout:     layout,
		MaxColumnWidth: cfg.Converter.MaxColumnWidth,
	}, nil
}

// converter is the concrete implementation of the Converter interface.
type converter struct {
	renderers map[domain.Format]render.Renderer

	tracer      trace.Tracer
	conversions metric.Int64Counter
	duration    metric.Float64Histogram
	size        metric.Int64Histogram
}

// New creates a Converter with one renderer per supported format.
func New(opts Options) (Converter, error) {
	if opts.MeterProvider == nil {
		opts.MeterProvider = otel.GetMeterProvider()
	}
	if opts.TracerProvider == nil {
		opts.TracerProvider = otel.GetTracerProvider()
	}
	if len(opts.Renderers) == 0 {
		opts.Renderers = []render.Renderer{
			docx.New(docx.Options{Mode: opts.DocxBodyMode}),
			xlsx.New(xlsx.Options{Layout: opts.XlsxLayout, MaxColumnWidth: opts.MaxColumnWidth}),
		}
	}

	c := &converter{
		renderers: make(map[domain.Format]render.Renderer, len(opts.Renderers)),
		tracer:    opts.TracerProvider.Tracer(instrumentationName),
	}
	for _, r := range opts.Renderers {
		c.renderers[r.Format()] = r
	}

	meter := opts.MeterProvider.Meter(instrumentationName)
	var err error
	if c.conversions, err = meter.Int64Counter("mdconvert.conversions",
		metric.WithDescription("Number of conversion requests by format and outcome.")); err != nil {
		return nil, fmt.Errorf("could not create conversions counter: %w", err)
	}
	if c.duration, err = meter.Float64Histogram("mdconvert.conversion.duration",
		metric.WithDescription("Time spent converting a document."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...)); err != nil {
		return nil, fmt.Errorf("could not create duration histogram: %w", err)
	}
	if c.size, err = meter.Int64Histogram("mdconvert.artifact.size",
		metric.WithDescription("Size of the generated documents."),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(metrics.SizeBuckets...)); err != nil {
		return nil, fmt.Errorf("could not create size histogram: %w", err)
	}

	return c, nil
}

// Convert implements Converter.
func (c *converter) Convert(ctx context.Context, source string, format string) (*domain.Artifact, error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "converter.Convert",
		trace.WithAttributes(attribute.String("format.requested", format)))
	defer span.End()

	artifact, err := c.convert(ctx, source, format)

	outcome := outcomeOf(err)
	attrs := metric.WithAttributes(
		attribute.String("format", formatLabel(format)),
		attribute.String("outcome", outcome),
	)
	c.conversions.Add(ctx, 1, attrs)
	c.duration.Record(ctx, time.Since(start).Seconds(), attrs)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)

		return nil, err
	}
	c.size.Record(ctx, int64(artifact.Size()), attrs)
	span.SetAttributes(attribute.Int("artifact.size", artifact.Size()))
	logger.Debug(ctx, "converted markdown",
		zap.String("format", string(artifact.Format)),
		zap.Int("size", artifact.Size()),
		zap.Duration("took", time.Since(start)))

	return artifact, nil
}

func (c *converter) convert(ctx context.Context, source string, token string) (*domain.Artifact, error) {
	format, ok := domain.ParseFormat(token)
	if !ok {
		return nil, serrors.With(serrors.ErrBadRequest, "unsupported format: %s", token)
	}
	r, ok := c.renderers[format]
	if !ok {
		return nil, serrors.With(serrors.ErrBadRequest, "unsupported format: %s", token)
	}

	_, parseSpan := c.tracer.Start(ctx, "markdown.Parse")
	doc := markdown.Parse(source)
	parseSpan.End()
	if err := ctx.Err(); err != nil {
		return nil, serrors.Wrap(serrors.ErrTimeout, err, "conversion aborted")
	}

	renderCtx, renderSpan := c.tracer.Start(ctx, "render."+string(format))
	data, err := r.Render(renderCtx, doc)
	renderSpan.End()
	switch {
	case errors.Is(err, render.ErrNoTables):
		return nil, serrors.Wrap(serrors.ErrUnprocessable, err, "xlsx output requires at least one table")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return nil, serrors.Wrap(serrors.ErrTimeout, err, "conversion aborted")
	case err != nil:
		return nil, serrors.Wrap(serrors.ErrInternal, err, "could not render %s", format)
	}

	return domain.NewArtifact(format, data), nil
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeSuccess
	}

	switch serrors.KindOf(err) {
	case serrors.ErrBadRequest:
		return OutcomeRejected
	case serrors.ErrUnprocessable:
		return OutcomeUnprocessable
	default:
		return OutcomeFailed
	}
}

// formatLabel keeps arbitrary client tokens out of metric label values.
func formatLabel(token string) string {
	if f, ok := domain.ParseFormat(token); ok {
		return string(f)
	}

	return "unknown"
}
