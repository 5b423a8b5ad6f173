package middleware

import (
	"net/http"
	"time"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/utils"
)

// statusRecorder captures the response status code for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs every request with its status code and latency.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			requestID, _ := auth.GetRequestID(r)
			utils.LogHTTPRequest(requestID, r.Method, r.URL.Path, r.RemoteAddr,
				recorder.status, time.Since(start))
		})
	}
}
