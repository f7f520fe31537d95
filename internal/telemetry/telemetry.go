package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const serviceName = "hotseat-tictactoe"

var (
	newOTLPTraceExporter = func(ctx context.Context, conn *grpc.ClientConn) (sdktrace.SpanExporter, error) {
		return otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	}
	newOTLPMetricExporter = func(ctx context.Context, conn *grpc.ClientConn) (metric.Exporter, error) {
		return otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
	}
	newOTLPLogExporter = func(ctx context.Context, conn *grpc.ClientConn) (sdklog.Exporter, error) {
		return otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
	}
)

// Options selects the exporters. With no endpoint and no stdout traces
// the global no-op providers stay in place.
type Options struct {
	Endpoint       string
	StdoutTraces   bool
	ServiceVersion string
}

// Enabled reports whether any exporter is configured.
func (o Options) Enabled() bool {
	return o.Endpoint != "" || o.StdoutTraces
}

// ShutdownFunc flushes and stops the providers.
type ShutdownFunc func(context.Context) error

// InitOtel initializes an OpenTelemetry SDK for traces, metrics and logs.
func InitOtel(ctx context.Context, opts Options) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	if !opts.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	// --- Create shared resource ---
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(opts.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var (
		shutdowns []func(context.Context) error
		traceOpts = []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	)

	if opts.StdoutTraces {
		stdoutTraceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(stdoutTraceExporter))
	}

	var conn *grpc.ClientConn
	if opts.Endpoint != "" {
		conn, err = grpc.NewClient(opts.Endpoint,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection to OTLP collector: %w", err)
		}
		// Nothing owns the connection until the shutdown func is returned.
		fail := func(err error) (ShutdownFunc, error) {
			return nil, errors.Join(err, conn.Close())
		}

		otlpTraceExporter, err := newOTLPTraceExporter(ctx, conn)
		if err != nil {
			return fail(fmt.Errorf("failed to create OTLP trace exporter: %w", err))
		}
		traceOpts = append(traceOpts, sdktrace.WithBatcher(otlpTraceExporter))

		// --- Setup Metrics ---
		otlpMetricExporter, err := newOTLPMetricExporter(ctx, conn)
		if err != nil {
			return fail(fmt.Errorf("failed to create OTLP metric exporter: %w", err))
		}

		// --- Setup Logs ---
		otlpLogExporter, err := newOTLPLogExporter(ctx, conn)
		if err != nil {
			return fail(fmt.Errorf("failed to create OTLP log exporter: %w", err))
		}

		mp := metric.NewMeterProvider(
			metric.WithReader(metric.NewPeriodicReader(otlpMetricExporter)),
			metric.WithResource(res),
		)
		otel.SetMeterProvider(mp)
		lp := sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(otlpLogExporter)),
			sdklog.WithResource(res),
		)
		global.SetLoggerProvider(lp)
		shutdowns = append(shutdowns, mp.Shutdown, lp.Shutdown)
	}

	// --- Setup Traces ---
	tp := sdktrace.NewTracerProvider(traceOpts...)
	otel.SetTracerProvider(tp)
	shutdowns = append([]func(context.Context) error{tp.Shutdown}, shutdowns...)

	// --- Shutdown function ---
	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		var errs []error
		for _, fn := range shutdowns {
			if err := fn(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if conn != nil {
			if err := conn.Close(); err != nil {
				errs = append(errs, fmt.Errorf("failed to close gRPC connection: %w", err))
			}
		}
		return errors.Join(errs...)
	}

	return shutdown, nil
}
