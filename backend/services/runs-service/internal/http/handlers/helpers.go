package handlers

import (
	"encoding/json"
	"net/http"

	"hotfire/backend/services/runs-service/internal/http/middleware"
	"hotfire/backend/services/runs-service/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// withCaller carries the authenticated subject and peer address to the service.
func withCaller(r *http.Request) *http.Request {
	subject, _ := middleware.SubjectFromContext(r.Context())
	ctx := service.WithCaller(r.Context(), service.Caller{Subject: subject, RemoteAddr: r.RemoteAddr})
	return r.WithContext(ctx)
}
