// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/AleutianAI/AleutianDocs/pkg/logging"
	"github.com/AleutianAI/AleutianDocs/services/workspace/config"
	"github.com/AleutianAI/AleutianDocs/services/workspace/events"
	"github.com/AleutianAI/AleutianDocs/services/workspace/handlers"
	"github.com/AleutianAI/AleutianDocs/services/workspace/middleware"
	"github.com/AleutianAI/AleutianDocs/services/workspace/observability"
	"github.com/AleutianAI/AleutianDocs/services/workspace/routes"
	"github.com/AleutianAI/AleutianDocs/services/workspace/spaces"
	"github.com/AleutianAI/AleutianDocs/services/workspace/store"
	"github.com/AleutianAI/AleutianDocs/services/workspace/watcher"
)

const serviceName = "workspace-service"

// initTracer wires the OTLP gRPC exporter. Tracing is off when no
// endpoint is configured; handler spans become no-ops.
func initTracer(endpoint string) (func(context.Context), error) {
	ctx := context.Background()

	conn, err := grpc.NewClient(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

func main() {
	cfg, err := config.Load(os.Getenv("ALEUTIAN_DOCS_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Logging.Level),
		LogDir:  cfg.Logging.Dir,
		Service: serviceName,
		JSON:    cfg.Logging.JSON,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	if cfg.Tracing.Endpoint != "" {
		cleanup, err := initTracer(cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("failed to setup the OTLP tracer: %v", err)
		}
		defer cleanup(context.Background())
	}

	registry, err := spaces.Open(spaces.Config{
		Path:       cfg.Storage.RegistryDir(),
		SyncWrites: true,
		Logger:     logger.Slog(),
	})
	if err != nil {
		log.Fatalf("failed to open the space registry: %v", err)
	}
	defer registry.Close()

	hub := events.NewHub(logger.Slog())
	defer hub.Close()

	watchOpts := watcher.DefaultOptions()
	watchOpts.DebounceWindow = cfg.Watcher.DebounceWindow
	watchOpts.BufferSize = cfg.Watcher.BufferSize
	watchOpts.Logger = logger.Slog()
	manager := watcher.NewManager(hub, watchOpts)
	defer manager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Resume watching every registered space.
	known, err := registry.List()
	if err != nil {
		log.Fatalf("failed to list registered spaces: %v", err)
	}
	for _, sp := range known {
		manager.Ensure(ctx, sp)
	}

	deps := &handlers.Deps{
		Registry:       registry,
		Store:          store.New(),
		Hub:            hub,
		Watchers:       manager,
		Metrics:        observability.NewMetrics(prometheus.DefaultRegisterer),
		Logger:         logger.Slog(),
		SpacesDir:      cfg.Storage.SpacesDir(),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	routes.SetupRoutes(router, deps, middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
	})

	server := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: router,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		slog.Info("workspace service listening", "addr", server.Addr,
			"spaces", len(known))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		slog.Info("shutting down workspace service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("workspace service failed: %v", err)
	}
}
