/*
handlers.go - HTTP handlers for the benefit run surface

ENDPOINTS:
  POST /api/runs        Execute a benefit run from normalized sources
  GET  /api/runs/{key}  Look up a cached run by content key
  GET  /api/health      Liveness

ERROR HANDLING:
  400: malformed JSON or unparseable override/holiday values
  404: cache miss on lookup
  422: systemic run failure (missing required category, bad config)
  500: anything else
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/engine"
	"github.com/warp/benefit-engine/pipeline"
)

// Handler holds the dependencies of the HTTP surface.
type Handler struct {
	Runner    *pipeline.Runner
	Cache     pipeline.Cache
	EngineCfg engine.Config

	// DefaultRef fills in month/year for requests that omit them,
	// from the server's configured reference.
	DefaultRef benefit.Reference

	log zerolog.Logger
}

// NewHandler wires the handler. Cache may be nil when caching is disabled;
// the lookup endpoint then always misses.
func NewHandler(runner *pipeline.Runner, cache pipeline.Cache, cfg engine.Config, ref benefit.Reference, log zerolog.Logger) *Handler {
	return &Handler{Runner: runner, Cache: cache, EngineCfg: cfg, DefaultRef: ref, log: log}
}

// RunBenefits executes a benefit run.
func (h *Handler) RunBenefits(w http.ResponseWriter, r *http.Request) {
	var req RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	if req.Month == 0 {
		req.Month = int(h.DefaultRef.Month)
	}
	if req.Year == 0 {
		req.Year = h.DefaultRef.Year
	}

	pr, err := req.ToPipeline(h.EngineCfg)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	result, err := h.Runner.Run(pr)
	if err != nil {
		var runErr *pipeline.RunError
		if errors.As(err, &runErr) {
			h.writeError(w, http.StatusUnprocessableEntity, runErr.Message, runErr.Stage)
			return
		}
		h.log.Error().Err(err).Msg("run failed")
		h.writeError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

// GetCachedRun looks up a previously computed run by its content key.
func (h *Handler) GetCachedRun(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if h.Cache == nil {
		h.writeError(w, http.StatusNotFound, "caching disabled", "")
		return
	}

	payload, err := h.Cache.Get(r.Context(), key)
	if errors.Is(err, benefit.ErrCacheMiss) {
		h.writeError(w, http.StatusNotFound, "no cached run for key", "")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("key", key).Msg("cache lookup failed")
		h.writeError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// Health is the liveness endpoint.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error().Err(err).Msg("response encoding failed")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg, stage string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg, Stage: stage})
}
