package middleware

import (
	"net/http"
	"time"

	"github.com/crucial707/listing-admin/internal/metrics"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Prometheus records request duration and count for each request except scrapes of /metrics.
func Prometheus(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := r.URL.Path
		if path == "" {
			path = "/"
		}
		metrics.RecordRequest(r.Method, path, status, time.Since(start).Seconds())
	})
}
