package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json; charset=utf-8",
	Text: "text/plain; charset=utf-8",
}

// WriteText writes a plain text body.
func WriteText(w http.ResponseWriter, message string, statusCode int) {
	write(w, ContentType.Text, []byte(message), statusCode)
}

// WriteRawJSON writes an already encoded JSON document, e.g. one proxied from an upstream API.
func WriteRawJSON(w http.ResponseWriter, body []byte, statusCode int) {
	write(w, ContentType.JSON, body, statusCode)
}

// WriteJSON marshals v and writes it with the given status code.
// A value that cannot be marshalled turns into a 500.
func WriteJSON(w http.ResponseWriter, v any, statusCode int) {
	respBytes, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal json response: %s", err)
		write(w, ContentType.JSON, []byte(`{"message":"internal server error"}`), http.StatusInternalServerError)
		return
	}
	write(w, ContentType.JSON, respBytes, statusCode)
}

func write(w http.ResponseWriter, contentType string, body []byte, statusCode int) {
	h := w.Header()
	h.Set("Content-Type", contentType)
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)

	if _, err := w.Write(body); err != nil {
		log.Errorf("write %d response (%d bytes): %s", statusCode, len(body), err)
	}
}
