package middleware

import (
	"net/http"
	"time"

	"github.com/hmorita143/eventchat/internal/logging"
)

// responseRecorder wraps http.ResponseWriter to capture status code and size.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.size += n
	return n, err
}

// RequestLogger logs HTTP requests with timing information.
type RequestLogger struct {
	logger *logging.Logger
}

func NewRequestLogger(logger *logging.Logger) *RequestLogger {
	if logger == nil {
		logger = logging.Default
	}
	return &RequestLogger{logger: logger}
}

func (l *RequestLogger) Apply(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		recorder := &responseRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(recorder, r)

		fields := map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      recorder.statusCode,
			"size":        recorder.size,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": r.RemoteAddr,
		}
		if r.URL.RawQuery != "" {
			fields["query"] = r.URL.RawQuery
		}

		switch {
		case recorder.statusCode >= 500:
			l.logger.Error("HTTP request", fields)
		case recorder.statusCode >= 400:
			l.logger.Warn("HTTP request", fields)
		default:
			l.logger.Info("HTTP request", fields)
		}
	})
}
