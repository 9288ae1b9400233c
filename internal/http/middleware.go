package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// TokenValidator checks the bearer token issued by the access gate.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) error
}

// RequireToken rejects requests that do not carry a live session token.
func RequireToken(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	responder := newResponder(logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractTokenFromRequest(r)
			if token == "" {
				responder.writeError(r.Context(), w, http.StatusUnauthorized, errMissingSessionToken)
				return
			}

			if err := validator.ValidateToken(r.Context(), token); err != nil {
				responder.writeJSON(r.Context(), w, http.StatusUnauthorized, errorResponse{
					ErrorCode: "AUTH_SESSION_EXPIRED",
					Message:   "セッションが無効です。再度ログインしてください。",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HTTPMetrics records response outcomes. Implemented by the metrics Collector.
type HTTPMetrics interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	return sr.ResponseWriter.Write(b)
}

// RequestLogger attaches a per-request logger to the context and logs the
// request lifecycle. When metrics is non-nil, status codes and latency are
// recorded as well.
func RequestLogger(base *slog.Logger, metrics HTTPMetrics) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := ContextWithLogger(r.Context(), logger)
			recorder := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			logger.InfoContext(ctx, "request started")
			next.ServeHTTP(recorder, r.WithContext(ctx))
			duration := time.Since(start)

			status := recorder.status
			if status == 0 {
				status = http.StatusOK
			}
			if metrics != nil {
				metrics.RecordHTTPStatus(status)
				metrics.RecordRequestLatency(duration)
			}
			logger.InfoContext(ctx, "request completed", "status", status, "duration", duration)
		})
	}
}

// RateLimit enforces a per-client request budget. Clients are keyed by remote
// IP; each key gets a token bucket refilled at perMinute requests per minute.
func RateLimit(perMinute int, logger *slog.Logger) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	responder := newResponder(logger)
	limit := rate.Limit(float64(perMinute) / 60.0)
	burst := perMinute
	if burst > 30 {
		burst = 30
	}

	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)
	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if limiter, ok := limiters[key]; ok {
			return limiter
		}
		limiter := rate.NewLimiter(limit, burst)
		limiters[key] = limiter
		return limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if !limiterFor(host).Allow() {
				w.Header().Set("Retry-After", "60")
				responder.writeJSON(r.Context(), w, http.StatusTooManyRequests, errorResponse{
					Message: localizedStatusMessage(http.StatusTooManyRequests),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
