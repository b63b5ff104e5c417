package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Suraj182004/saaraansh/internal/logging"
	"github.com/Suraj182004/saaraansh/internal/metrics"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

const internalServerError = "Internal server error"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware opens the request's wide event and emits it once the
// handler returns.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		event := logging.NewWideEvent("http.request")
		ctx := logging.WithContext(r.Context(), event)
		logging.EnrichHTTP(ctx, r.Method, r.URL.Path)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		w.Header().Set("X-Trace-Id", event.TraceID)

		next.ServeHTTP(rec, r.WithContext(ctx))

		duration := time.Since(start)
		logging.EnrichHTTPStatus(ctx, rec.status)
		logging.EnrichHTTPDuration(ctx, duration)
		logging.Emit(ctx)

		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, routeTemplate(r), strconv.Itoa(rec.status)).
			Observe(duration.Seconds())
	})
}

func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logging.EnrichPanic(r.Context())
				logging.EnrichError(r.Context(), fmt.Errorf("panic: %v", err), "handler")
				writeError(w, r, http.StatusInternalServerError, "internal_error", internalServerError)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(allowedOrigins []string) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Trace-Id"},
		AllowCredentials: true,
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}
