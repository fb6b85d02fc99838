// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the workspace service.
//
// # Rate Limiting
//
// Mutation endpoints share a token-bucket limiter so a runaway client
// (a sync loop gone wrong, a misbehaving script) cannot saturate the
// filesystem with create/rename/delete churn. Read endpoints and the
// push channel are not limited.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimitConfig controls the mutation rate limiter.
type RateLimitConfig struct {
	// RequestsPerSecond is the steady-state refill rate.
	RequestsPerSecond float64

	// Burst is the bucket capacity. Short bursts up to this size are
	// allowed even at zero steady-state credit.
	Burst int
}

// DefaultRateLimitConfig returns limits suitable for a single-user
// local workspace.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 25,
		Burst:             50,
	}
}

// RateLimit returns middleware enforcing a shared token bucket over all
// requests passing through it. Over-limit requests get 429 with a JSON
// error body.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRateLimitConfig().RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimitConfig().Burst
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, slow down",
			})
			return
		}
		c.Next()
	}
}
