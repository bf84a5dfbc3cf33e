package client

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for client operations.
var (
	tracer = otel.Tracer("lspnav.client")
	meter  = otel.Meter("lspnav.client")
)

var (
	operationLatency metric.Float64Histogram
	operationTotal   metric.Int64Counter
	serverSpawns     metric.Int64Counter
	resultCount      metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics registers the instruments once. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		operationLatency, err = meter.Float64Histogram(
			"lspnav_operation_duration_seconds",
			metric.WithDescription("Duration of language server operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		operationTotal, err = meter.Int64Counter(
			"lspnav_operation_total",
			metric.WithDescription("Total number of language server operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		serverSpawns, err = meter.Int64Counter(
			"lspnav_server_spawns_total",
			metric.WithDescription("Total number of language server spawns"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		resultCount, err = meter.Int64Histogram(
			"lspnav_result_count",
			metric.WithDescription("Number of results returned by language server operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// observeOperation starts a span for operation and returns a func that ends it
// and records the latency, outcome and result count.
func observeOperation(ctx context.Context, operation, sessionID, filePath string) (context.Context, func(int, error)) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "Client."+operation,
		trace.WithAttributes(
			attribute.String("lspnav.operation", operation),
			attribute.String("lspnav.session_id", sessionID),
			attribute.String("lspnav.file_path", filePath),
		),
	)

	return ctx, func(count int, err error) {
		success := err == nil
		span.SetAttributes(
			attribute.Int("lspnav.result_count", count),
			attribute.Bool("lspnav.success", success),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		recordOperationMetrics(ctx, operation, time.Since(start), count, success)
	}
}

func recordOperationMetrics(ctx context.Context, operation string, duration time.Duration, count int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	)

	operationLatency.Record(ctx, duration.Seconds(), attrs)
	operationTotal.Add(ctx, 1, attrs)

	if success {
		resultCount.Record(ctx, int64(count), metric.WithAttributes(
			attribute.String("operation", operation),
		))
	}
}

// recordServerSpawn records a server spawn attempt.
func recordServerSpawn(ctx context.Context, command string, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	serverSpawns.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", command),
		attribute.Bool("success", success),
	))
}
