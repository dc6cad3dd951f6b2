package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"outlai/internal/log"
)

// tracingTransport wraps an http.RoundTripper with per-request IDs and
// structured request/response logging.
type tracingTransport struct {
	next   http.RoundTripper
	logger *log.Logger
}

func newTracingTransport(next http.RoundTripper, logger *log.Logger) *tracingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &tracingTransport{next: next, logger: logger}
}

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := uuid.New().String()

	t.logger.DebugContext(req.Context(), "API request started",
		log.FieldRequestID, requestID,
		log.FieldMethod, req.Method,
		log.FieldPath, req.URL.Path,
		log.FieldQuery, req.URL.RawQuery)

	resp, err := t.next.RoundTrip(req)
	durationMs := time.Since(start).Milliseconds()

	if err != nil {
		t.logger.ErrorContext(req.Context(), "API request failed",
			log.FieldRequestID, requestID,
			log.FieldMethod, req.Method,
			log.FieldPath, req.URL.Path,
			log.FieldDuration, durationMs,
			log.FieldError, err.Error())
		return nil, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		level = slog.LevelWarn
	} else if resp.StatusCode >= 500 {
		level = slog.LevelError
	}
	t.logger.Log(req.Context(), level, "API request completed",
		log.FieldComponent, log.ComponentAPI,
		log.FieldRequestID, requestID,
		log.FieldMethod, req.Method,
		log.FieldPath, req.URL.Path,
		log.FieldStatusCode, resp.StatusCode,
		log.FieldDuration, durationMs)

	return resp, nil
}
