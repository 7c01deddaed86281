// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package telemetry wires OpenTelemetry tracing for reservod and the upstream client.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceNamespace groups reservod and reservoctl spans in the backend.
const ServiceNamespace = "reservo"

// UpstreamHostKey records which reservation service a process talks to.
const UpstreamHostKey = "reservo.upstream.host"

const shutdownTimeout = 5 * time.Second

// Config holds telemetry configuration.
type Config struct {
	Enabled bool

	// ServiceName is "reservod" or "reservoctl".
	ServiceName    string
	ServiceVersion string
	Environment    string

	// InstanceID tells replicas apart. A random id is used when empty.
	InstanceID string

	// UpstreamURL is the reservation service base URL; only its host is
	// recorded.
	UpstreamURL string

	// ExporterType is "grpc", "http" or "noop".
	ExporterType string
	Endpoint     string

	// Insecure disables TLS towards the collector.
	Insecure bool

	// SamplingRate applies to root spans; children follow their parent.
	SamplingRate float64
}

// Provider owns the SDK tracer provider. A zero Provider is a no-op.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider installs the global tracer provider and propagator described
// by cfg. Disabled or noop configs install a no-op provider.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if !cfg.Enabled || cfg.ExporterType == "noop" {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return &Provider{}, nil
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(ResourceAttributes(cfg)...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SamplingRate)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return &Provider{tp: tp}, nil
}

// ResourceAttributes describes the process emitting spans.
func ResourceAttributes(cfg Config) []attribute.KeyValue {
	instance := cfg.InstanceID
	if instance == "" {
		instance = uuid.NewString()
	}
	attrs := []attribute.KeyValue{
		semconv.ServiceNamespaceKey.String(ServiceNamespace),
		semconv.ServiceNameKey.String(cfg.ServiceName),
		semconv.ServiceVersionKey.String(cfg.ServiceVersion),
		semconv.ServiceInstanceIDKey.String(instance),
	}
	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentKey.String(cfg.Environment))
	}
	if u, err := url.Parse(cfg.UpstreamURL); err == nil && u.Host != "" {
		attrs = append(attrs, attribute.String(UpstreamHostKey, u.Host))
	}
	return attrs
}

func newExporter(ctx context.Context, cfg Config) (sdktrace.SpanExporter, error) {
	switch cfg.ExporterType {
	case "grpc":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC exporter: %w", err)
		}
		return exp, nil
	case "http":
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s (supported: grpc, http)", cfg.ExporterType)
	}
}

// newSampler samples root spans at rate and keeps the caller's decision for
// requests that arrive with a trace context.
func newSampler(rate float64) sdktrace.Sampler {
	var root sdktrace.Sampler
	switch {
	case rate >= 1.0:
		root = sdktrace.AlwaysSample()
	case rate <= 0.0:
		root = sdktrace.NeverSample()
	default:
		root = sdktrace.TraceIDRatioBased(rate)
	}
	return sdktrace.ParentBased(root)
}

// Shutdown flushes pending spans, giving up after five seconds.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tp == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	return p.tp.Shutdown(shutdownCtx)
}

// Tracer returns a tracer for the given name.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartClientSpan starts a client-kind span for an upstream reservation call.
func StartClientSpan(ctx context.Context, operation, eventID, ticketID string) (context.Context, trace.Span) {
	ctx, span := Tracer("reservo.reservation").Start(ctx, "reservo.reservation."+operation,
		trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(ReservationAttributes(operation, eventID, ticketID)...)
	return ctx, span
}
