// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"

	"github.com/sirupsen/logrus"
	octrace "go.opencensus.io/trace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// LogSpanExporter is an OpenTelemetry span exporter which logs each finished
// span at debug level.
type LogSpanExporter struct {
	Logger logrus.FieldLogger
}

var _ sdktrace.SpanExporter = (*LogSpanExporter)(nil)

func (e *LogSpanExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, span := range spans {
		fields := logrus.Fields{
			"span":     span.Name(),
			"trace_id": span.SpanContext().TraceID().String(),
			"span_id":  span.SpanContext().SpanID().String(),
			"duration": span.EndTime().Sub(span.StartTime()),
		}
		if span.Parent().IsValid() {
			fields["parent_id"] = span.Parent().SpanID().String()
		}
		for _, attr := range span.Attributes() {
			fields[string(attr.Key)] = attr.Value.Emit()
		}
		e.Logger.WithFields(fields).Debug("span")
	}
	return nil
}

func (e *LogSpanExporter) Shutdown(ctx context.Context) error {
	return nil
}

// NewLogTracerProvider returns a tracer provider which samples every span
// and logs it through logger as soon as it ends.
func NewLogTracerProvider(logger logrus.FieldLogger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithSyncer(&LogSpanExporter{Logger: logger}),
	)
}

// LogCensusExporter is an OpenCensus exporter which logs each finished span
// at debug level.
type LogCensusExporter struct {
	Logger logrus.FieldLogger
}

var _ octrace.Exporter = (*LogCensusExporter)(nil)

func (e *LogCensusExporter) ExportSpan(s *octrace.SpanData) {
	fields := logrus.Fields{
		"span":     s.Name,
		"trace_id": s.TraceID.String(),
		"span_id":  s.SpanID.String(),
		"duration": s.EndTime.Sub(s.StartTime),
	}
	if s.ParentSpanID != (octrace.SpanID{}) {
		fields["parent_id"] = s.ParentSpanID.String()
	}
	for k, v := range s.Attributes {
		fields[k] = v
	}
	e.Logger.WithFields(fields).Debug("span")
}

// RegisterLogCensusExporter registers a LogCensusExporter and configures
// OpenCensus to sample every span.  The returned function unregisters the
// exporter.
func RegisterLogCensusExporter(logger logrus.FieldLogger) func() {
	exp := &LogCensusExporter{Logger: logger}
	octrace.RegisterExporter(exp)
	octrace.ApplyConfig(octrace.Config{DefaultSampler: octrace.AlwaysSample()})
	return func() {
		octrace.UnregisterExporter(exp)
	}
}
