// Package telemetry wires OpenTelemetry trace and log export for the
// development server.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"groceryhelper/internal/config"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Shutdown flushes and stops the providers.
type Shutdown func(context.Context) error

// Setup installs global trace and log providers exporting over OTLP/HTTP and
// returns a slog handler that feeds both base and the log exporter. With no
// endpoint configured nothing is installed and base is returned as is.
func Setup(ctx context.Context, cfg config.TelemetryConfig, base slog.Handler) (slog.Handler, Shutdown, error) {
	if cfg.OTLPEndpoint == "" {
		return base, func(context.Context) error { return nil }, nil
	}

	res := resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName))

	traceExporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(cfg.OTLPEndpoint))
	if err != nil {
		return nil, nil, fmt.Errorf("create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	logExporter, err := otlploghttp.New(ctx, otlploghttp.WithEndpointURL(cfg.OTLPEndpoint))
	if err != nil {
		return nil, nil, errors.Join(fmt.Errorf("create log exporter: %w", err), tp.Shutdown(ctx))
	}
	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)
	global.SetLoggerProvider(lp)

	handler := Fanout(base, otelslog.NewHandler(cfg.ServiceName, otelslog.WithLoggerProvider(lp)))
	shutdown := func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), lp.Shutdown(ctx))
	}
	return handler, shutdown, nil
}
