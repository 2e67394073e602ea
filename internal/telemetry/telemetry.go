// Package telemetry installs the global OpenTelemetry tracer provider used by
// render sessions, lazy loaders and the preview server.
package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/vango-dev/vango-lite/internal/errors"
)

// ServiceName identifies vango-lite in exported spans.
const ServiceName = "vango-lite"

// Shutdown flushes and stops the tracer provider.
type Shutdown func(context.Context) error

// Init installs a tracer provider for exporter ("none" or "stdout"). Spans
// of the stdout exporter are written to w. With "none" the global no-op
// provider is left in place.
//
// The returned Shutdown must be called before exit.
func Init(w io.Writer, exporter, version string) (Shutdown, error) {
	tp, err := NewProvider(w, exporter, version)
	if err != nil {
		return nil, err
	}
	if tp == nil {
		return func(context.Context) error { return nil }, nil
	}
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// NewProvider builds the tracer provider for exporter without installing
// it. It returns nil for "none".
func NewProvider(w io.Writer, exporter, version string) (*sdktrace.TracerProvider, error) {
	var exp sdktrace.SpanExporter
	switch exporter {
	case "", "none":
		return nil, nil
	case "stdout":
		var err error
		exp, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, errors.New("E120").WithDetail("create stdout trace exporter").Wrap(err)
		}
	default:
		return nil, errors.New("E120").WithDetailf("unknown trace exporter %q", exporter)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", ServiceName),
		attribute.String("service.version", version),
	)
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}
