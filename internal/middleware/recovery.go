package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/kinnikutoken/internal/telemetry/metrics"
	"github.com/2beens/kinnikutoken/pkg"

	log "github.com/sirupsen/logrus"
)

type panicResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// PanicRecovery turns a handler panic into a JSON 500 carrying the request id.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				// the server must not swallow an aborted response
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				requestID := RequestIDFromContext(r.Context())
				if requestID == "" {
					// set by LogRequest further down the chain
					requestID = w.Header().Get(RequestIDHeader)
				}
				log.WithFields(log.Fields{
					"request_id": requestID,
					"method":     r.Method,
					"path":       r.URL.Path,
				}).Errorf("panic serving request: %v\n%s", recovered, debug.Stack())

				if metricsManager != nil {
					metricsManager.CounterHandleRequestPanic.Inc()
				}

				pkg.WriteJSON(w, panicResponse{
					Message:   "An unexpected error occurred.",
					RequestID: requestID,
				}, http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
