package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/kiranshivaraju/mediaguard/internal/api/response"
)

const panicErrorKind = "INTERNAL_ERROR"

// Recovery turns a handler panic into a 500 with the standard error body. The
// job id is kept in the log line so the failed job can be traced.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rv := recover(); rv != nil {
				if rv == http.ErrAbortHandler {
					panic(rv)
				}
				slog.Error("handler panicked",
					"panic", rv,
					"stack", string(debug.Stack()),
					"path", r.URL.Path,
					"job_id", w.Header().Get(JobIDHeader),
				)
				SetErrorKind(r, panicErrorKind)
				response.Error(w, http.StatusInternalServerError, panicErrorKind, "Error interno")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
