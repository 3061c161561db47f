package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/asfc-labs/docchat/internal/core/domain"
	"github.com/asfc-labs/docchat/internal/logger"
)

// errorResponse is the wire representation of a failure.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind domain.FailureKind, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: string(kind)})
}

// writeDomainError maps a domain error to an HTTP status via its failure kind.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	writeError(w, statusForKind(kind), kind, err.Error())
}

func statusForKind(kind domain.FailureKind) int {
	switch kind {
	case domain.FailureInvalidInput:
		return http.StatusBadRequest
	case domain.FailureNotFound:
		return http.StatusNotFound
	case domain.FailureExtraction:
		return http.StatusUnprocessableEntity
	case domain.FailureModelTimeout:
		return http.StatusGatewayTimeout
	case domain.FailureModelCall:
		return http.StatusBadGateway
	case domain.FailureStore, domain.FailureEmbedding, domain.FailureInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
