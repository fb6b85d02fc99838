// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	require.NotNil(t, m)

	m.ScansTotal.WithLabelValues("full").Inc()
	m.ScansTotal.WithLabelValues("subtree").Add(2)
	m.MutationsTotal.WithLabelValues("rename", "success").Inc()
	m.EventsPublishedTotal.WithLabelValues("file:added").Inc()
	m.ConnectedClients.Inc()
	m.ConnectedClients.Dec()
	m.UploadBytesTotal.Add(1024)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("full")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ScansTotal.WithLabelValues("subtree")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MutationsTotal.WithLabelValues("rename", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ConnectedClients))
	assert.Equal(t, 1024.0, testutil.ToFloat64(m.UploadBytesTotal))
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	// Two instances on distinct registries must not collide.
	m1 := NewMetrics(prometheus.NewRegistry())
	m2 := NewMetrics(prometheus.NewRegistry())

	m1.ScansTotal.WithLabelValues("full").Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(m2.ScansTotal.WithLabelValues("full")))
}
