// Package v1 exposes the HTTP API: health, the conversational /chat
// endpoint backed by the supervisor, and the synchronous /battle endpoints
// that bypass the oracle entirely.
package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gabrielblins/pokemon-agent-system/internal/clients/renderer"
	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
	"github.com/gabrielblins/pokemon-agent-system/internal/orchestrators/supervisor"
	"github.com/gabrielblins/pokemon-agent-system/internal/pokedex"
)

// Config holds the handler's dependencies.
type Config struct {
	Supervisor supervisor.Service
	Pokedex    pokedex.Service
	Renderer   renderer.Renderer
	Logger     *slog.Logger
}

// Validate ensures all required dependencies are provided.
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.Supervisor == nil {
		vb.RequiredField("Supervisor")
	}
	if cfg.Pokedex == nil {
		vb.RequiredField("Pokedex")
	}
	if cfg.Renderer == nil {
		vb.RequiredField("Renderer")
	}
	if err := vb.Build(); err != nil {
		return err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return nil
}

// Handler serves the v1 HTTP API.
type Handler struct {
	supervisor supervisor.Service
	pokedex    pokedex.Service
	renderer   renderer.Renderer
	logger     *slog.Logger
}

// New creates an HTTP handler with the provided config.
func New(cfg *Config) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Handler{
		supervisor: cfg.Supervisor,
		pokedex:    cfg.Pokedex,
		renderer:   cfg.Renderer,
		logger:     cfg.Logger,
	}, nil
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /", h.health)
	mux.HandleFunc("POST /chat", h.chat)
	mux.HandleFunc("GET /battle", h.battle)
	mux.HandleFunc("GET /battle/visualize", h.battleVisualize)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	h.logger.WarnContext(r.Context(), "request failed",
		slog.String("path", r.URL.Path),
		slog.String("code", string(code)),
		slog.String("error", err.Error()))

	h.writeJSON(w, code.HTTPStatus(), errorBody{
		Error: errors.GetMessage(err),
		Code:  code,
	})
}
