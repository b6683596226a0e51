package logger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/screwyprof/lotto/pkg/httpkit"
)

// responseWriter wraps http.ResponseWriter to capture status code and response size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytesOut   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.bytesOut += size
	return size, err
}

// NewMiddleware creates HTTP request logging middleware
func NewMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			r = r.WithContext(httpkit.WithErrorTracking(r.Context()))

			// ContentLength is -1 when unknown
			bytesIn := max(0, int(r.ContentLength))

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("uri", r.RequestURI),
				slog.Int("status", rw.statusCode),
				slog.Duration("duration", duration),
				slog.Int("bytes_in", bytesIn),
				slog.Int("bytes_out", rw.bytesOut),
			}

			if id := httpkit.RequestID(r.Context()); id != "" {
				attrs = append(attrs, slog.String("request_id", id))
			}

			if err := httpkit.Error(r.Context()); err != nil {
				attrs = append(attrs, slog.String("error", errorMessage(err)))
			}

			logger.LogAttrs(r.Context(), levelFor(rw.statusCode), "HTTP", attrs...)
		})
	}
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// errorMessage extracts the appropriate error message for logging
func errorMessage(err error) string {
	if httpErr, ok := err.(httpkit.HTTPError); ok {
		return httpErr.Cause().Error()
	}
	return err.Error()
}
