// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// telemetry owns the process-wide OpenTelemetry providers and the
// Prometheus scrape server backing the metrics one. Grounded on the
// teacher's router.MetricsConfig.initPrometheusProvider (custom registry
// + promhttp.HandlerFor, to avoid colliding with the global registry) and
// tracing.Config.initStdoutProvider, both trimmed to a single fixed
// provider each instead of the teacher's provider-switching options —
// this demo binary has no deployment axis to switch on.
type telemetry struct {
	registry    *promclient.Registry
	metricsSrv  *http.Server
	tracerFlush func(context.Context) error
}

// setupTelemetry registers a Prometheus-backed MeterProvider and a
// stdout-batched TracerProvider as the global otel providers, and starts
// a scrape server on metricsAddr. Callers must call shutdown during
// graceful termination to flush the trace exporter and stop the scrape
// server.
func setupTelemetry(logger *slog.Logger, metricsAddr string) (*telemetry, error) {
	registry := promclient.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)))

	traceExporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create stdout trace exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(traceExporter))
	otel.SetTracerProvider(tp)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: metricsAddr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server exited", "error", err)
		}
	}()

	return &telemetry{
		registry:    registry,
		metricsSrv:  srv,
		tracerFlush: tp.Shutdown,
	}, nil
}

func (t *telemetry) shutdown(ctx context.Context) {
	_ = t.metricsSrv.Shutdown(ctx)
	_ = t.tracerFlush(ctx)
}
