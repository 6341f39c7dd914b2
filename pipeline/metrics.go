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

package pipeline

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records per-stage entry counts and backpressure suspensions
// through an OpenTelemetry meter. A nil Meter passed to NewMetrics falls
// back to the global meter provider, matching otel.Meter's own
// no-op-until-configured behavior.
type Metrics struct {
	stageEntries metric.Int64Counter
	suspensions  metric.Int64Counter
}

// NewMetrics builds a Metrics recorder against meter. Pass nil to use the
// meter registered with otel.SetMeterProvider, or a no-op meter if none
// has been set.
func NewMetrics(meter metric.Meter) *Metrics {
	if meter == nil {
		meter = otel.Meter("corehttp.dev/corehttp/pipeline")
	}

	stageEntries, err := meter.Int64Counter(
		"corehttp_pipeline_stage_entries_total",
		metric.WithDescription("Number of times an operation entered a pipeline stage"),
	)
	if err != nil {
		log.Printf("pipeline: failed to create stage entry counter: %v", err)
	}

	suspensions, err := meter.Int64Counter(
		"corehttp_pipeline_backpressure_suspensions_total",
		metric.WithDescription("Number of times a bounded stage suspended an operation awaiting a slot"),
	)
	if err != nil {
		log.Printf("pipeline: failed to create backpressure suspension counter: %v", err)
	}

	return &Metrics{stageEntries: stageEntries, suspensions: suspensions}
}

func (m *Metrics) stageEntered(stage StageName) {
	if m == nil || m.stageEntries == nil {
		return
	}

	m.stageEntries.Add(context.Background(), 1, metric.WithAttributes(attribute.String("stage", string(stage))))
}

func (m *Metrics) backpressureSuspended(stage StageName) {
	if m == nil || m.suspensions == nil {
		return
	}

	m.suspensions.Add(context.Background(), 1, metric.WithAttributes(attribute.String("stage", string(stage))))
}
