// Package soapotel provides OpenTelemetry instrumentation for SOAP
// transport clients. It implements the [transport.CallHook] interface to
// add distributed tracing and metrics to outgoing calls.
//
// Usage:
//
//	client := transport.New(endpoint)
//	soapotel.Instrument(client, soapotel.DefaultConfig())
package soapotel

import (
	"context"

	"github.com/soapwire/soapwire/transport"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "soapwire"

// Config configures OpenTelemetry instrumentation for a transport client.
type Config struct {
	// TracerProvider supplies the tracer. Defaults to otel.GetTracerProvider().
	TracerProvider trace.TracerProvider
	// MeterProvider supplies the meter. Defaults to otel.GetMeterProvider().
	MeterProvider metric.MeterProvider
	// EnableTracing enables span creation. Default true.
	EnableTracing bool
	// EnableMetrics enables counter and histogram recording. Default true.
	EnableMetrics bool
	// RecordExceptions calls RecordError on the span for failed calls.
	// Default true.
	RecordExceptions bool
	// CustomAttributes are added to every span.
	CustomAttributes []attribute.KeyValue
}

// DefaultConfig returns a Config with sensible defaults. TracerProvider and
// MeterProvider are resolved from the global OTel SDK at instrumentation
// time.
func DefaultConfig() Config {
	return Config{
		EnableTracing:    true,
		EnableMetrics:    true,
		RecordExceptions: true,
	}
}

// Instrument attaches an OpenTelemetry hook to the client.
func Instrument(c *transport.Client, cfg Config) {
	c.AddHook(newHook(cfg))
}

type hook struct {
	cfg      Config
	tracer   trace.Tracer
	calls    metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

func newHook(cfg Config) *hook {
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	h := &hook{cfg: cfg, tracer: tp.Tracer(instrumentationName)}
	if cfg.EnableMetrics {
		meter := mp.Meter(instrumentationName)
		h.calls, _ = meter.Int64Counter("soap.client.calls",
			metric.WithDescription("Number of SOAP calls issued"))
		h.errors, _ = meter.Int64Counter("soap.client.errors",
			metric.WithDescription("Number of SOAP calls that failed at the transport level"))
		h.duration, _ = meter.Float64Histogram("soap.client.duration",
			metric.WithDescription("SOAP call duration"),
			metric.WithUnit("s"))
	}
	return h
}

type token struct {
	span trace.Span
}

func (h *hook) OnCallStart(ctx context.Context, info transport.CallInfo) (context.Context, transport.HookToken) {
	if !h.cfg.EnableTracing {
		return ctx, token{}
	}
	attrs := append([]attribute.KeyValue{
		attribute.String("soap.endpoint", info.Endpoint),
		attribute.String("soap.action", info.Action),
		attribute.Int("soap.request_bytes", info.RequestBytes),
	}, h.cfg.CustomAttributes...)
	ctx, span := h.tracer.Start(ctx, "soap.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...))
	return ctx, token{span: span}
}

func (h *hook) OnCallEnd(ctx context.Context, tok transport.HookToken, info transport.CallInfo, result transport.CallResult, err error) {
	attrs := metric.WithAttributes(
		attribute.String("soap.action", info.Action),
	)
	if h.calls != nil {
		h.calls.Add(ctx, 1, attrs)
	}
	if h.duration != nil {
		h.duration.Record(ctx, result.Elapsed.Seconds(), attrs)
	}
	if err != nil && h.errors != nil {
		h.errors.Add(ctx, 1, attrs)
	}

	t, ok := tok.(token)
	if !ok || t.span == nil {
		return
	}
	t.span.SetAttributes(
		attribute.Int("soap.status_code", result.StatusCode),
		attribute.Int("soap.response_bytes", result.ResponseBytes),
		attribute.Int64("soap.duration_ms", result.Elapsed.Milliseconds()),
	)
	if err != nil {
		if h.cfg.RecordExceptions {
			t.span.RecordError(err)
		}
		t.span.SetStatus(codes.Error, err.Error())
	} else {
		t.span.SetStatus(codes.Ok, "")
	}
	t.span.End()
}

var _ transport.CallHook = (*hook)(nil)
