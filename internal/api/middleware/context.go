package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	jobIDKey  contextKey = "job_id"
	reqLogKey contextKey = "request_log"
)

const (
	// RequestIDHeader is the caller's correlation id. It is echoed back
	// unchanged and logged, but never used as the job id.
	RequestIDHeader = "X-Request-ID"
	// JobIDHeader carries the job id on every response.
	JobIDHeader = "X-Job-ID"

	maxRequestIDLen = 128
)

func SetJobID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, jobIDKey, id)
}

func GetJobID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(jobIDKey).(uuid.UUID)
	return id, ok
}

// JobID assigns every request a freshly generated job id and exposes it in the
// X-Job-ID response header. A caller's X-Request-ID is echoed as is.
func JobID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New()
		w.Header().Set(JobIDHeader, id.String())
		if reqID := r.Header.Get(RequestIDHeader); reqID != "" && len(reqID) <= maxRequestIDLen {
			w.Header().Set(RequestIDHeader, reqID)
		}
		next.ServeHTTP(w, r.WithContext(SetJobID(r.Context(), id)))
	})
}

// requestLog collects fields set by handlers for the access log line.
type requestLog struct {
	errorKind string
}

// SetErrorKind records the error kind a request failed with, so Logger can
// include it. It is a no-op outside Logger.
func SetErrorKind(r *http.Request, kind string) {
	if rl, ok := r.Context().Value(reqLogKey).(*requestLog); ok {
		rl.errorKind = kind
	}
}
