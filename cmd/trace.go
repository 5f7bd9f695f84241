// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/flyrain/lispet/lispet"
	"github.com/flyrain/lispet/lispet/x/profiler"
	"go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// startTrace enables a profiler on rt that exports spans to w.  The returned
// function completes the profile and flushes the exporter.
func startTrace(kind string, lambdasOnly bool, rt *lispet.Runtime, w io.Writer) (func() error, error) {
	var opts []profiler.Option
	if lambdasOnly {
		opts = append(opts, profiler.WithLambdaFilter(), profiler.WithFormalsLabeler())
	}
	switch kind {
	case "", "none":
		return func() error { return nil }, nil
	case "otel":
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("otel exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		otel.SetTracerProvider(tp)
		p := profiler.NewOpenTelemetryAnnotator(rt, context.Background(), opts...)
		if err := p.Enable(); err != nil {
			return nil, err
		}
		return func() error {
			if err := p.Complete(); err != nil {
				return err
			}
			return tp.Shutdown(context.Background())
		}, nil
	case "opencensus":
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
		exporter := &spanPrinter{w: w}
		trace.RegisterExporter(exporter)
		p := profiler.NewOpenCensusAnnotator(rt, context.Background(), opts...)
		if err := p.Enable(); err != nil {
			trace.UnregisterExporter(exporter)
			return nil, err
		}
		return func() error {
			defer trace.UnregisterExporter(exporter)
			return p.Complete()
		}, nil
	default:
		return nil, fmt.Errorf("unknown trace exporter: %q", kind)
	}
}

// spanPrinter is an opencensus exporter that writes spans as text.
type spanPrinter struct {
	w io.Writer
}

func (e *spanPrinter) ExportSpan(sd *trace.SpanData) {
	fmt.Fprintf(e.w, "Name: %s\n\tTraceID: %x\n\tSpanID: %x\n\tParentSpanID: %x\n\tDuration: %s\n\tAnnotations: %+v\n", //nolint:errcheck // best-effort trace output
		sd.Name, sd.TraceID, sd.SpanID, sd.ParentSpanID, sd.EndTime.Sub(sd.StartTime), sd.Annotations)
}
