// Package api wraps the transport with the three verbs the client needs and
// turns every failure into a typed Result instead of an error.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/horae/internal/client"
	"github.com/UnknownOlympus/horae/internal/lib/logger/sl"
	"github.com/UnknownOlympus/horae/internal/metrics"
)

// Doer performs one HTTP exchange against the attendance API.
type Doer interface {
	Do(ctx context.Context, method, path string, data any) (*client.Response, error)
}

// Gateway is the only path from the flows to the network.
type Gateway struct {
	log       *slog.Logger
	transport Doer
	metrics   *metrics.Metrics
}

func NewGateway(log *slog.Logger, transport Doer, metrics *metrics.Metrics) *Gateway {
	return &Gateway{
		log:       log.With(slog.String("division", "api")),
		transport: transport,
		metrics:   metrics,
	}
}

// Read issues GET path and decodes the payload into T.
func Read[T any](ctx context.Context, g *Gateway, path string) Result[T] {
	return call[T](ctx, g, "read", http.MethodGet, path, nil)
}

// Create issues POST path with body and decodes the payload into T.
func Create[T any](ctx context.Context, g *Gateway, path string, body any) Result[T] {
	return call[T](ctx, g, "create", http.MethodPost, path, body)
}

// Update issues PUT path with body and decodes the payload into T.
func Update[T any](ctx context.Context, g *Gateway, path string, body any) Result[T] {
	return call[T](ctx, g, "update", http.MethodPut, path, body)
}

func call[T any](ctx context.Context, g *Gateway, verb, method, path string, body any) (result Result[T]) {
	startTime := time.Now()
	defer func() {
		// nothing may escape the gateway, not even a panic from a broken transport
		if rec := recover(); rec != nil {
			result = fail[T](ctx, g, verb, path, KindNetwork, fmt.Errorf("transport panic: %v", rec))
		}
		g.metrics.RequestDuration.WithLabelValues(verb).Observe(time.Since(startTime).Seconds())
		g.metrics.Requests.WithLabelValues(verb, result.Kind.String()).Inc()
	}()

	resp, err := g.transport.Do(ctx, method, path, body)
	if err != nil {
		return fail[T](ctx, g, verb, path, classify(err), err)
	}

	if len(resp.Body) == 0 {
		return Result[T]{}
	}

	var value T
	if err = json.Unmarshal(resp.Body, &value); err != nil {
		return fail[T](ctx, g, verb, path, KindDecode, fmt.Errorf("failed to decode response: %w", err))
	}

	return Result[T]{Value: value}
}

func fail[T any](ctx context.Context, g *Gateway, verb, path string, kind ErrorKind, err error) Result[T] {
	attrs := []any{
		slog.String("verb", verb),
		slog.String("path", path),
		slog.String("kind", kind.String()),
		sl.Err(err),
	}

	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		attrs = append(attrs,
			slog.Int("status", statusErr.StatusCode),
			slog.String("request_id", statusErr.RequestID),
			slog.String("diagnostic", Diagnostic(statusErr.ContentType, statusErr.Body)),
		)
	}

	g.log.ErrorContext(ctx, "API call failed", attrs...)

	return Result[T]{Kind: kind, Err: err}
}
