package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/UnknownOlympus/horae/internal/lib/logger/sl"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports whether the token storage and the attendance API host are usable.
type HealthChecker struct {
	storage    Pinger
	apiHost    string
	httpClient *http.Client
	log        *slog.Logger
}

func NewHealthChecker(storage Pinger, apiHost string, httpClient *http.Client, log *slog.Logger) *HealthChecker {
	return &HealthChecker{
		storage:    storage,
		apiHost:    apiHost,
		httpClient: httpClient,
		log:        log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), healthTimeout)
	defer cancel()

	h.log.DebugContext(ctx, "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	if err := h.storage.Ping(ctx); err != nil {
		status["storage"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(ctx, "Health check failed: storage ping", sl.Err(err))
	} else {
		status["storage"] = "ok"
	}

	status["api_host"] = h.checkAPIHost(ctx)
	if status["api_host"] != "ok" {
		overallStatus = http.StatusServiceUnavailable
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(overallStatus)
	if err := json.NewEncoder(writer).Encode(status); err != nil {
		h.log.ErrorContext(ctx, "Failed to write health check response", sl.Err(err))
	}

	h.log.DebugContext(ctx, "Health checks completed", "status", overallStatus)
}

// checkAPIHost issues HEAD against the API root. Client errors count as reachable: the root
// of a JSON API usually answers 404 or 405.
func (h *HealthChecker) checkAPIHost(ctx context.Context) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.apiHost, nil)
	if err != nil {
		h.log.WarnContext(ctx, "Health check failed: invalid API host", "host", h.apiHost, sl.Err(err))
		return "unreachable"
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.log.WarnContext(ctx, "Health check failed: API host unreachable", "host", h.apiHost, sl.Err(err))
		return "unreachable"
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			h.log.WarnContext(ctx, "Failed to close response body", sl.Err(err))
		}
	}()

	if resp.StatusCode >= http.StatusInternalServerError {
		h.log.WarnContext(ctx, "Health check failed: API host returned error status",
			"host", h.apiHost, "status_code", resp.StatusCode)
		return "degraded"
	}

	return "ok"
}
