package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const TraceContextKey = contextKey("trace_id")

// TraceMiddleware tags every request with a trace id and writes a
// structured access log line when the handler returns.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		w.Header().Set("X-Trace-Id", traceID)

		ctx := context.WithValue(r.Context(), TraceContextKey, traceID)
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(ctx))

		slog.Info("request",
			"trace_id", traceID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// TraceID returns the trace id attached to the context, or "" outside a
// traced request.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(TraceContextKey).(string)
	return id
}
