package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/horae/internal/lib/logger/sl"
	"github.com/UnknownOlympus/horae/internal/models"
	"github.com/UnknownOlympus/horae/internal/storage"
	"github.com/google/uuid"
)

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

var ErrInvalidBaseURL = errors.New("invalid base URL")

// Response is a successful (2xx) API response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method      string
	Path        string
	StatusCode  int
	ContentType string
	Body        []byte
	RequestID   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed with status code %d", e.Method, e.Path, e.StatusCode)
}

// Transport issues JSON requests against a fixed base URL and signs them with the
// bearer token found in durable storage at request time.
type Transport struct {
	log        *slog.Logger
	baseURL    *url.URL
	httpClient *http.Client
	storage    storage.Storage
	tokenKey   string
}

// NewTransport creates a transport for baseURL. The token is looked up in store under tokenKey
// before every request, so logging in or out takes effect on the next call.
func NewTransport(
	log *slog.Logger,
	httpClient *http.Client,
	baseURL string,
	store storage.Storage,
	tokenKey string,
) (*Transport, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidBaseURL, baseURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w %q: scheme and host are required", ErrInvalidBaseURL, baseURL)
	}

	return &Transport{
		log:        log.With(slog.String("division", "transport")),
		baseURL:    parsed,
		httpClient: httpClient,
		storage:    store,
		tokenKey:   tokenKey,
	}, nil
}

// BaseURL returns the API origin the transport talks to.
func (t *Transport) BaseURL() string {
	return t.baseURL.String()
}

func (t *Transport) Get(ctx context.Context, path string) (*Response, error) {
	return t.Do(ctx, http.MethodGet, path, nil)
}

func (t *Transport) Post(ctx context.Context, path string, data any) (*Response, error) {
	return t.Do(ctx, http.MethodPost, path, data)
}

func (t *Transport) Put(ctx context.Context, path string, data any) (*Response, error) {
	return t.Do(ctx, http.MethodPut, path, data)
}

// Do performs a single request. There is no retry: one attempt, success or error.
func (t *Transport) Do(ctx context.Context, method, path string, data any) (*Response, error) {
	var body io.Reader
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	fullURL := t.baseURL.JoinPath(strings.TrimPrefix(path, "/")).String()
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", fullURL, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", models.UserAgent)
	req.Header.Set(RequestIDHeader, requestID)

	token, ok, err := t.storage.GetItem(ctx, t.tokenKey)
	if err != nil {
		// an unreadable token is treated as absent; the server decides whether that is acceptable
		t.log.WarnContext(ctx, "Failed to read bearer token from storage", sl.Err(err))
	}
	if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log := t.log.With(slog.String("method", method), slog.String("path", path), slog.String("request_id", requestID))
	startTime := time.Now()

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", fullURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	log.DebugContext(ctx, "Request completed", "status", resp.StatusCode, "duration", time.Since(startTime))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &StatusError{
			Method:      method,
			Path:        path,
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        respBody,
			RequestID:   requestID,
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
		RequestID:  requestID,
	}, nil
}
