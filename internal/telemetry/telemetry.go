// Package telemetry exports filter outcome counts over OpenTelemetry.
// Only categories, layers, decisions, and timings ever become metric
// attributes; matched spans and user text are kept out by the allowlist in
// safeattrs.go.
package telemetry

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/caresafe-ai/caresafe/internal/safety"
)

// Config controls telemetry setup.
type Config struct {
	Enabled  bool
	Endpoint string
	Protocol string // grpc | http
	Service  string
	Version  string
}

// Provider wires a meter provider and exposes recording helpers.
type Provider struct {
	Enabled bool
	meter   metric.Meter

	outcomes       metric.Int64Counter
	violations     metric.Int64Counter
	sanitizations  metric.Int64Counter
	regenerations  metric.Int64Counter
	filterDuration metric.Float64Histogram

	shutdownMeterProvider func(context.Context) error
}

// NewProvider configures the OTLP metric exporter. When disabled, all
// recording helpers are no-ops.
func NewProvider(ctx context.Context, cfg Config) (*Provider, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !cfg.Enabled {
		p := &Provider{Enabled: false, meter: noop.NewMeterProvider().Meter("")}
		p.initInstruments()
		return p, nil
	}

	res, err := resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(
			attribute.String("service.name", cfg.Service),
			attribute.String("service.version", cfg.Version),
		),
	)
	if err != nil {
		return nil, err
	}

	var exp sdkmetric.Exporter
	switch strings.ToLower(cfg.Protocol) {
	case "", "grpc":
		exp, err = otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithEndpoint(cfg.Endpoint), otlpmetricgrpc.WithInsecure())
	case "http":
		exp, err = otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(cfg.Endpoint), otlpmetrichttp.WithInsecure())
	}
	if err != nil {
		return nil, err
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	)

	p := &Provider{
		Enabled:               true,
		meter:                 mp.Meter("caresafe"),
		shutdownMeterProvider: mp.Shutdown,
	}
	p.initInstruments()
	return p, nil
}

func (p *Provider) initInstruments() {
	p.outcomes, _ = p.meter.Int64Counter("caresafe.filter.outcomes",
		metric.WithDescription("Filter outcomes by decision"))
	p.violations, _ = p.meter.Int64Counter("caresafe.filter.violations",
		metric.WithDescription("Violations by category and layer"))
	p.sanitizations, _ = p.meter.Int64Counter("caresafe.sanitizer.modifications",
		metric.WithDescription("Sanitizer modifications by kind"))
	p.regenerations, _ = p.meter.Int64Counter("caresafe.filter.regenerations",
		metric.WithDescription("Regeneration retries triggered by boundary failures"))
	p.filterDuration, _ = p.meter.Float64Histogram("caresafe.filter.duration_ms",
		metric.WithDescription("Filter pass duration in milliseconds"))
}

// RecordOutcome counts one filter pass and its violations.
func (p *Provider) RecordOutcome(ctx context.Context, out safety.FilterOutcome, elapsed time.Duration) {
	if p == nil {
		return
	}
	p.outcomes.Add(ctx, 1, metric.WithAttributes(SafeAttributes(map[string]interface{}{
		"decision": string(out.Decision),
	})...))
	for _, v := range out.Violations {
		p.violations.Add(ctx, 1, metric.WithAttributes(SafeAttributes(map[string]interface{}{
			"category": string(v.Category),
			"layer":    string(v.Layer),
		})...))
	}
	p.filterDuration.Record(ctx, float64(elapsed)/float64(time.Millisecond))
}

// RecordSanitization counts modifications applied to one input.
func (p *Provider) RecordSanitization(ctx context.Context, kinds []string) {
	if p == nil {
		return
	}
	for _, kind := range kinds {
		p.sanitizations.Add(ctx, 1, metric.WithAttributes(SafeAttributes(map[string]interface{}{
			"kind": kind,
		})...))
	}
}

// RecordRegeneration counts one retry triggered by a boundary failure.
func (p *Provider) RecordRegeneration(ctx context.Context) {
	if p == nil {
		return
	}
	p.regenerations.Add(ctx, 1)
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.shutdownMeterProvider == nil {
		return nil
	}
	return p.shutdownMeterProvider(ctx)
}
