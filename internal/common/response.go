package common

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the wire shape shared by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	respond(w, code, Envelope{Success: false, Error: message})
}

func RespondWithData(w http.ResponseWriter, code int, data interface{}) {
	respond(w, code, Envelope{Success: true, Data: data})
}

// RespondWithServiceError translates a domain error into the envelope. Internal
// errors are logged and replaced with a generic message so nothing leaks.
func RespondWithServiceError(w http.ResponseWriter, err error) {
	code := HTTPStatusFromError(err)
	if code == http.StatusInternalServerError {
		log.Printf("ERROR: %v", err)
		RespondWithError(w, code, "An unexpected error occurred")
		return
	}
	RespondWithError(w, code, err.Error())
}

func respond(w http.ResponseWriter, code int, payload Envelope) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
