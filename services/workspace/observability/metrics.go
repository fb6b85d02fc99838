// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the workspace
// service: tree scan counters and latency, mutation outcomes, and push
// channel activity. Metrics are exposed via the /metrics endpoint.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "aleutiandocs"

// Subsystem for workspace metrics
const workspaceSubsystem = "workspace"

// Metrics holds all Prometheus metrics for the workspace service.
// Initialize once at startup via NewMetrics.
type Metrics struct {
	// ScansTotal counts tree scans by scope.
	// Labels: scope (full, subtree)
	ScansTotal *prometheus.CounterVec

	// ScanDurationSeconds measures tree scan latency.
	// Labels: scope (full, subtree)
	ScanDurationSeconds *prometheus.HistogramVec

	// MutationsTotal counts mutation operations.
	// Labels: op (create_folder, create_document, upload, rename, delete),
	//         status (success, invalid, not_found, exists, error)
	MutationsTotal *prometheus.CounterVec

	// EventsPublishedTotal counts change events published to the hub.
	// Labels: type (file:added, file:changed, file:deleted, folder:added,
	// folder:deleted)
	EventsPublishedTotal *prometheus.CounterVec

	// ConnectedClients tracks currently attached push subscribers.
	ConnectedClients prometheus.Gauge

	// UploadBytesTotal counts bytes accepted through the upload endpoint.
	UploadBytesTotal prometheus.Counter
}

// NewMetrics creates and registers all metrics on the given registerer.
// Pass prometheus.DefaultRegisterer in main; tests pass a fresh registry
// to avoid duplicate registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: workspaceSubsystem,
			Name:      "scans_total",
			Help:      "Number of tree scans by scope.",
		}, []string{"scope"}),
		ScanDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: workspaceSubsystem,
			Name:      "scan_duration_seconds",
			Help:      "Tree scan latency by scope.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"scope"}),
		MutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: workspaceSubsystem,
			Name:      "mutations_total",
			Help:      "Mutation operations by op and outcome.",
		}, []string{"op", "status"}),
		EventsPublishedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: workspaceSubsystem,
			Name:      "events_published_total",
			Help:      "Change events published to the notification hub.",
		}, []string{"type"}),
		ConnectedClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: workspaceSubsystem,
			Name:      "connected_clients",
			Help:      "Currently connected push channel subscribers.",
		}),
		UploadBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: workspaceSubsystem,
			Name:      "upload_bytes_total",
			Help:      "Bytes accepted through the upload endpoint.",
		}),
	}
}
