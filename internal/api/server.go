// Package api exposes the flow catalog over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/metalagman/fitgenius/internal/catalog"
	"github.com/metalagman/fitgenius/internal/db"
	"github.com/metalagman/fitgenius/internal/flow"
	"github.com/metalagman/fitgenius/internal/schema"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds request bodies; photos arrive inline as data URIs.
const maxBodyBytes = 12 << 20

// History lists recorded calls.
type History interface {
	Recent(ctx context.Context, flowName string, limit int) ([]db.Call, error)
}

// Server provides the HTTP handlers.
type Server struct {
	catalog *catalog.Catalog
	history History
}

// NewServer creates a server. history may be nil.
func NewServer(c *catalog.Catalog, history History) (*Server, error) {
	if c == nil {
		return nil, errors.New("api: catalog is required")
	}
	return &Server{catalog: c, history: history}, nil
}

// Routes returns the router.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /flows", s.handleListFlows)
	mux.HandleFunc("GET /flows/{name}", s.handleDescribeFlow)
	mux.HandleFunc("POST /flows/{name}", s.handleRunFlow)
	mux.HandleFunc("GET /calls", s.handleListCalls)
	return logRequests(mux)
}

// FlowSummary is an entry of GET /flows.
type FlowSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Input       string `json:"input"`
	Output      string `json:"output"`
}

// FlowSchema is the body of GET /flows/{name}.
type FlowSchema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Input       map[string]any `json:"input"`
	Output      map[string]any `json:"output"`
}

// CallSummary is an entry of GET /calls.
type CallSummary struct {
	ID         string    `json:"id"`
	Flow       string    `json:"flow"`
	Status     string    `json:"status"`
	ErrorKind  string    `json:"errorKind,omitempty"`
	Field      string    `json:"field,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	DurationMS int64     `json:"durationMs"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListFlows(w http.ResponseWriter, _ *http.Request) {
	defs := s.catalog.Definitions()
	out := make([]FlowSummary, 0, len(defs))
	for _, def := range defs {
		out = append(out, FlowSummary{
			Name:        def.Name(),
			Description: def.Description(),
			Input:       def.Input().Describe(),
			Output:      def.Output().Describe(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDescribeFlow(w http.ResponseWriter, r *http.Request) {
	def, err := s.catalog.Get(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FlowSchema{
		Name:        def.Name(),
		Description: def.Description(),
		Input:       def.Input().JSONSchema(),
		Output:      def.Output().JSONSchema(),
	})
}

func (s *Server) handleRunFlow(w http.ResponseWriter, r *http.Request) {
	def, err := s.catalog.Get(r.PathValue("name"))
	if err != nil {
		writeError(w, err)
		return
	}
	input, err := decodeInput(w, r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  GenericFailure,
			Kind:   string(flow.InvalidInput),
			Reason: err.Error(),
		})
		return
	}
	out, err := s.catalog.Orchestrator().Execute(r.Context(), def, input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListCalls(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "call history is disabled"})
		return
	}
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	calls, err := s.history.Recent(r.Context(), r.URL.Query().Get("flow"), limit)
	if err != nil {
		log.Error().Err(err).Msg("list calls")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "could not read call history"})
		return
	}
	out := make([]CallSummary, 0, len(calls))
	for _, c := range calls {
		out = append(out, CallSummary{
			ID:         c.ID,
			Flow:       c.Flow,
			Status:     c.Status,
			ErrorKind:  c.ErrorKind,
			Field:      c.Field,
			Reason:     c.Reason,
			StartedAt:  c.StartedAt,
			DurationMS: c.Duration.Milliseconds(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func decodeInput(w http.ResponseWriter, r *http.Request) (schema.Value, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var input schema.Value
	if err := dec.Decode(&input); err != nil {
		return nil, fmt.Errorf("request body must be a JSON object: %w", err)
	}
	if input == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	if dec.More() {
		return nil, errors.New("request body must contain a single JSON object")
	}
	return input, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}
