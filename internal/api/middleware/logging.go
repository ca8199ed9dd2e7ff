package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Logger writes one access log line per request. Failed requests are logged at
// warn (4xx) or error (5xx) level with the error kind recorded by the handler.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		rl := &requestLog{}

		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), reqLogKey, rl)))

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
			"job_id", w.Header().Get(JobIDHeader),
		}
		if reqID := w.Header().Get(RequestIDHeader); reqID != "" {
			attrs = append(attrs, "request_id", reqID)
		}
		if rl.errorKind != "" {
			attrs = append(attrs, "error_kind", rl.errorKind)
		}

		level := slog.LevelInfo
		switch {
		case rec.status >= http.StatusInternalServerError:
			level = slog.LevelError
		case rec.status >= http.StatusBadRequest:
			level = slog.LevelWarn
		}
		slog.Log(r.Context(), level, "request", attrs...)
	})
}
