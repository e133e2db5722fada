package http

import (
	"encoding/json"
	"log"
	"net/http"

	"giveflow/internal/domain/reconcile"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeReconcileError maps the reconciliation error taxonomy onto HTTP
// status codes. Untyped errors become opaque 500s so internals never leak.
func writeReconcileError(w http.ResponseWriter, err error) {
	kind := reconcile.KindOf(err)

	var status int
	switch kind {
	case reconcile.KindValidation:
		status = http.StatusBadRequest
	case reconcile.KindNotFound:
		status = http.StatusNotFound
	case reconcile.KindProviderUnavailable:
		status = http.StatusServiceUnavailable
	default:
		log.Printf("Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: string(kind)})
}
