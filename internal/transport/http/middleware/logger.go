package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger logs one structured line per request. Paths are reported by
// their route pattern so URL-embedded secrets such as reset signatures never
// reach the log.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return chimiddleware.RequestLogger(&slogFormatter{log: log})
}

type slogFormatter struct {
	log *slog.Logger
}

func (f *slogFormatter) NewLogEntry(r *http.Request) chimiddleware.LogEntry {
	return &slogEntry{log: f.log, r: r}
}

type slogEntry struct {
	log *slog.Logger
	r   *http.Request
}

func (e *slogEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	e.log.InfoContext(e.r.Context(), "request",
		"method", e.r.Method,
		"route", routePattern(e.r),
		"status", status,
		"bytes", bytes,
		"duration_ms", elapsed.Milliseconds(),
		"request_id", chimiddleware.GetReqID(e.r.Context()),
	)
}

func (e *slogEntry) Panic(v interface{}, stack []byte) {
	e.log.ErrorContext(e.r.Context(), "panic",
		"panic", v,
		"route", routePattern(e.r),
		"stack", string(stack),
		"request_id", chimiddleware.GetReqID(e.r.Context()),
	)
}

// routePattern returns the matched chi pattern, or "unmatched" when routing
// found nothing.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		return rc.RoutePattern()
	}
	return "unmatched"
}
