// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/wevote/internal/platform/respond"
)

// probeTimeout bounds each readiness check.
const probeTimeout = 2 * time.Second

// Probe reports whether one dependency is usable.
type Probe struct {
	// Name identifies the dependency in the response and the logs.
	Name string

	// Check returns nil when the dependency is healthy.
	Check func(ctx context.Context) error
}

// probeResult is one entry of the /ready response.
type probeResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type healthHandler struct {
	probes []Probe
	logger *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(logger *slog.Logger, probes ...Probe) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{probes: probes, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe). Probes run concurrently and
// every failure is reported, not just the first.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), probeTimeout)
	defer cancel()

	results := make([]probeResult, len(handler.probes))

	var group errgroup.Group
	for i, probe := range handler.probes {
		group.Go(func() error {
			results[i] = probeResult{Name: probe.Name, IsOK: true}
			if err := probe.Check(ctx); err != nil {
				results[i].IsOK = false
				results[i].Error = err.Error()
				handler.logger.ErrorContext(ctx, "readiness_check_failed", slog.String("dependency", probe.Name), slog.Any("error", err))
			}
			return nil
		})
	}
	_ = group.Wait()

	status, code := "ready", http.StatusOK
	for _, result := range results {
		if !result.IsOK {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}

	respond.JSON(writer, code, respond.SuccessEnvelope{Data: map[string]any{
		"status": status,
		"checks": results,
	}})
}
