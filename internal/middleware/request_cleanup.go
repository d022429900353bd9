package middleware

import (
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// leftovers above this are not read, the client sent far more than any endpoint accepts
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest discards what the handler left unread of the request body, up to maxDrainBytes.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			if r.Body == nil || r.Body == http.NoBody {
				return
			}
			drained, _ := io.CopyN(io.Discard, r.Body, maxDrainBytes+1)
			if drained > maxDrainBytes {
				log.Tracef("request body of [%s %s] not fully drained", r.Method, r.URL.Path)
			}
			_ = r.Body.Close()
		})
	}
}
