package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/datalens-io/datalens-engine/pkg/assistant"
	"github.com/datalens-io/datalens-engine/pkg/catalog"
	"github.com/datalens-io/datalens-engine/pkg/discovery"
	"github.com/datalens-io/datalens-engine/pkg/models"
)

// DiscoveryHandler exposes the discovery engine and assistant over JSON.
// This is a thin binding; all behavior lives in the discovery and assistant
// packages.
type DiscoveryHandler struct {
	store        *catalog.Store
	engine       *discovery.Engine
	orchestrator *assistant.Orchestrator
	logger       *zap.Logger
}

// NewDiscoveryHandler creates a new DiscoveryHandler.
func NewDiscoveryHandler(store *catalog.Store, engine *discovery.Engine, orchestrator *assistant.Orchestrator, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		store:        store,
		engine:       engine,
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// RegisterRoutes registers the discovery routes on the given mux.
func (h *DiscoveryHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/discover", h.Discover)
	mux.HandleFunc("GET /api/search", h.Search)
	mux.HandleFunc("POST /api/assistant/ask", h.Ask)
	mux.HandleFunc("POST /api/assistant/reset", h.Reset)
}

type queryRequest struct {
	Query string `json:"query"`
}

// Discover handles POST /api/discover: full discovery over all entity kinds.
func (h *DiscoveryHandler) Discover(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a query field")
		return
	}

	result := h.engine.Discover(req.Query)
	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to encode discovery response", zap.Error(err))
	}
}

// Search handles GET /api/search?q=...&limit=N: the plain application
// relevance path.
func (h *DiscoveryHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	results := h.engine.Search(query, limit)
	if err := WriteJSON(w, http.StatusOK, map[string][]models.SearchResult{"results": results}); err != nil {
		h.logger.Error("Failed to encode search response", zap.Error(err))
	}
}

type askResponse struct {
	Discovery models.DiscoveryResult `json:"discovery"`
	Response  *models.AIResponse     `json:"response"`
	Mode      string                 `json:"mode"`
}

// Ask handles POST /api/assistant/ask: discovery plus a conversational
// answer. Empty queries get the welcome response. Never returns an error
// for provider failures; degraded answers carry reduced confidence.
func (h *DiscoveryHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be JSON with a query field")
		return
	}

	result := h.engine.Discover(req.Query)
	ranked := h.engine.Search(req.Query, 0)

	resp, err := h.orchestrator.Ask(r.Context(), req.Query, h.store, ranked)
	if err != nil {
		// Should not happen: the orchestrator absorbs provider failures.
		h.logger.Error("assistant returned an error", zap.Error(err))
	}

	out := askResponse{
		Discovery: result,
		Response:  resp,
		Mode:      h.orchestrator.Mode().String(),
	}
	if err := WriteJSON(w, http.StatusOK, out); err != nil {
		h.logger.Error("Failed to encode assistant response", zap.Error(err))
	}
}

// Reset handles POST /api/assistant/reset: manually re-enable the
// generative backend after a demotion.
func (h *DiscoveryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.orchestrator.ResetToPrimary()
	if err := WriteJSON(w, http.StatusOK, map[string]string{"mode": h.orchestrator.Mode().String()}); err != nil {
		h.logger.Error("Failed to encode reset response", zap.Error(err))
	}
}
