// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedRouter(cfg RateLimitConfig) *gin.Engine {
	r := gin.New()
	r.POST("/mutate", RateLimit(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	r := newLimitedRouter(RateLimitConfig{RequestsPerSecond: 1, Burst: 5})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mutate", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d inside burst", i)
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	r := newLimitedRouter(RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mutate", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusOK, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
	assert.Equal(t, http.StatusTooManyRequests, codes[3])
}

func TestRateLimit_ZeroConfigUsesDefaults(t *testing.T) {
	r := newLimitedRouter(RateLimitConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mutate", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
