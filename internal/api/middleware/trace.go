package middleware

import (
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/study-buddy/internal/api/shared"
)

// TraceHeader carries the trace ID back to the client.
const TraceHeader = "X-Trace-Id"

// TraceMiddleware adds a trace ID to the request context and response headers.
// It reuses the chi request ID when RequestID runs earlier in the chain.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
			ctx = shared.WithTraceID(ctx, reqID)
		} else {
			ctx = shared.SetTraceID(ctx)
		}

		traceID := shared.GetTraceID(ctx)
		w.Header().Set(TraceHeader, traceID)

		slog.DebugContext(ctx, "request started",
			slog.String("trace_id", traceID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
