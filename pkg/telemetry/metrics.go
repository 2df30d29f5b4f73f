package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	metricsOnce           sync.Once
	metricsInitErr        error
	renderCounter         metric.Int64Counter
	requestedIconsCounter metric.Int64Counter
	droppedIconsCounter   metric.Int64Counter
	renderedIconsHist     metric.Int64Histogram
)

// RenderMetrics captures one composite render.
type RenderMetrics struct {
	Requested int
	Resolved  int
	PerLine   int
	Theme     string
	Outcome   string
}

// Render outcomes.
const (
	OutcomeRendered   = "rendered"
	OutcomeRejected   = "rejected"
	OutcomeUnresolved = "unresolved"
	OutcomeFailed     = "failed"
)

// RecordRender emits counters and histograms that describe a render request.
func RecordRender(ctx context.Context, m RenderMetrics) {
	if err := ensureMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("render.outcome", m.Outcome),
		attribute.String("render.theme", m.Theme),
	)

	renderCounter.Add(ctx, 1, attrs)
	if m.Requested > 0 {
		requestedIconsCounter.Add(ctx, int64(m.Requested), attrs)
	}
	if dropped := m.Requested - m.Resolved; dropped > 0 {
		droppedIconsCounter.Add(ctx, int64(dropped), attrs)
	}
	if m.Resolved > 0 {
		renderedIconsHist.Record(ctx, int64(m.Resolved), attrs)
	}
}

func ensureMetrics() error {
	metricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter(InstrumentationName)

		renderCounter, metricsInitErr = meter.Int64Counter(
			"skillicons.render.requests_total",
			metric.WithDescription("Composite render requests partitioned by outcome"),
			metric.WithUnit("{request}"),
		)
		if metricsInitErr != nil {
			return
		}

		requestedIconsCounter, metricsInitErr = meter.Int64Counter(
			"skillicons.render.requested_icons_total",
			metric.WithDescription("Icon tokens received in render requests"),
			metric.WithUnit("{icon}"),
		)
		if metricsInitErr != nil {
			return
		}

		droppedIconsCounter, metricsInitErr = meter.Int64Counter(
			"skillicons.render.dropped_icons_total",
			metric.WithDescription("Icon tokens that did not resolve to a catalog entry"),
			metric.WithUnit("{icon}"),
		)
		if metricsInitErr != nil {
			return
		}

		renderedIconsHist, metricsInitErr = meter.Int64Histogram(
			"skillicons.render.icons",
			metric.WithDescription("Icons placed per composite document"),
			metric.WithUnit("{icon}"),
		)
	})

	return metricsInitErr
}

// AnnotateRender attaches render attributes to span without recording markup.
func AnnotateRender(span trace.Span, m RenderMetrics) {
	if span == nil || !span.IsRecording() {
		return
	}
	span.SetAttributes(
		attribute.Int("render.icons.requested", m.Requested),
		attribute.Int("render.icons.resolved", m.Resolved),
		attribute.Int("render.per_line", m.PerLine),
		attribute.String("render.theme", m.Theme),
	)
}
