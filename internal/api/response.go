package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/metalagman/fitgenius/internal/catalog"
	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/model"
	"github.com/rs/zerolog/log"
)

// GenericFailure is shown to callers alongside the specific reason.
const GenericFailure = "The coach could not complete this request."

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

var fallbackErrorResponse = []byte(`{"error":"internal server error"}`)

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		log.Error().Err(err).Msg("marshal response")
		data = fallbackErrorResponse
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Error: GenericFailure, Reason: err.Error()}
	if fe, ok := flow.AsError(err); ok {
		resp.Kind = string(fe.Kind)
		resp.Field = fe.Field
		resp.Reason = fe.Reason
		if fe.Kind == flow.InvocationFailed {
			resp.Reason = string(fe.Invocation)
		}
	}
	if errors.Is(err, catalog.ErrUnknownFlow) {
		resp.Error = "unknown flow"
	}
	writeJSON(w, status, resp)
}

// StatusFor maps a flow error to an HTTP status code.
func StatusFor(err error) int {
	if errors.Is(err, catalog.ErrUnknownFlow) {
		return http.StatusNotFound
	}
	fe, ok := flow.AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch fe.Kind {
	case flow.InvalidInput:
		return http.StatusBadRequest
	case flow.InvalidOutput:
		return http.StatusBadGateway
	case flow.InvocationFailed:
		switch fe.Invocation {
		case model.RateLimited, model.Unavailable:
			return http.StatusServiceUnavailable
		case model.Timeout:
			return http.StatusGatewayTimeout
		default:
			return http.StatusBadGateway
		}
	}
	return http.StatusInternalServerError
}
