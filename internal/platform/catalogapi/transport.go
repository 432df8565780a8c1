package catalogapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

type contextKey string

const requestIDKey contextKey = "requestID"

// ContextWithRequestID pins the request ID sent with calls made under ctx.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func requestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// accessLogTransport stamps a request ID on every outgoing call and logs
// the exchange once it completes.
type accessLogTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

func (t *accessLogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := requestIDFrom(req.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}
	req = req.Clone(req.Context())
	req.Header.Set(requestIDHeader, requestID)

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.logger.Warn("backend request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"request_id", requestID,
			"error", err,
		)
		return nil, err
	}

	level := slog.LevelDebug
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	t.logger.Log(req.Context(), level, "backend request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", duration.Milliseconds(),
		"request_id", requestID,
	)
	return resp, nil
}
