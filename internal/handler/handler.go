// Package handler exposes the dashboard HTTP API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"watchtower/internal/config"
	"watchtower/internal/hub"
	"watchtower/internal/service"
)

// Handler handles topology API requests
type Handler struct {
	svc    *service.TopologyService
	hub    *hub.Hub
	cfg    *config.Config
	logger *log.Logger
}

// New creates a handler over the topology service
func New(svc *service.TopologyService, h *hub.Hub, cfg *config.Config, logger *log.Logger) *Handler {
	return &Handler{
		svc:    svc,
		hub:    h,
		cfg:    cfg,
		logger: logger.WithPrefix("http"),
	}
}

// Router builds the full route table. The debug surface is only mounted
// when debug mode is on.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors)

	r.Get("/health", h.Health)
	r.Get("/events", h.hub.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", h.GetConfig)
		r.Get("/topology", h.GetTopology)
		r.Post("/topology/reload", h.ReloadTopology)
		r.Get("/graph", h.GetGraph)
		r.Get("/alerts", h.GetAlerts)

		r.Post("/clusters/{id}/toggle", h.ToggleCluster)
		r.Get("/clusters/expanded", h.GetExpanded)

		if h.cfg.Debug {
			r.Route("/debug", func(r chi.Router) {
				r.Get("/state", h.DebugState)
				r.Put("/expanded", h.DebugSetExpanded)
				r.Get("/snapshots", h.DebugSnapshots)
			})
		}
	})

	return r
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Health reports liveness and the number of connected SSE clients
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"clients": h.hub.ClientCount(),
	}, http.StatusOK)
}

// GetConfig returns the client-relevant parts of the server configuration
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{
		"demo_mode": h.cfg.Topology.DemoMode,
		"debug":     h.cfg.Debug,
	}, http.StatusOK)
}

// GetTopology returns the current topology snapshot
func (h *Handler) GetTopology(w http.ResponseWriter, r *http.Request) {
	topo, err := h.svc.Topology()
	if err != nil {
		h.serviceError(w, "Failed to get topology", err)
		return
	}
	h.writeJSON(w, topo, http.StatusOK)
}

// ReloadTopology pulls a fresh snapshot from the configured source
func (h *Handler) ReloadTopology(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reload(r.Context()); err != nil {
		h.logger.Error("reload failed", "err", err)
		h.writeError(w, "Failed to reload topology", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]string{"status": "reloaded"}, http.StatusOK)
}

// GetGraph returns the composed graph for the current view state
func (h *Handler) GetGraph(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.GraphJSON(r.Context())
	if err != nil {
		h.serviceError(w, "Failed to compose graph", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// GetAlerts returns the active alert list
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.svc.Alerts(r.Context())
	if err != nil {
		h.serviceError(w, "Failed to get alerts", err)
		return
	}
	h.writeJSON(w, map[string]interface{}{
		"alerts": alerts,
		"count":  len(alerts),
	}, http.StatusOK)
}

// ToggleCluster flips expansion for one cluster and returns the new state
func (h *Handler) ToggleCluster(w http.ResponseWriter, r *http.Request) {
	clusterID := chi.URLParam(r, "id")
	if clusterID == "" {
		h.writeError(w, "Invalid cluster ID", "Cluster ID is required", http.StatusBadRequest)
		return
	}

	expanded := h.svc.Toggle(clusterID)
	h.writeJSON(w, map[string]interface{}{
		"cluster_id": clusterID,
		"expanded":   expanded,
		"clusters":   h.svc.Expanded(),
	}, http.StatusOK)
}

// GetExpanded returns the ids of all expanded clusters
func (h *Handler) GetExpanded(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]interface{}{
		"clusters": h.svc.Expanded(),
	}, http.StatusOK)
}

// DebugState reports the service's internal state
func (h *Handler) DebugState(w http.ResponseWriter, r *http.Request) {
	state := h.svc.State()
	state["sse_clients"] = h.hub.ClientCount()
	h.writeJSON(w, state, http.StatusOK)
}

// DebugSetExpanded replaces the whole expansion set in one call
func (h *Handler) DebugSetExpanded(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Clusters []string `json:"clusters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	h.svc.SetExpanded(req.Clusters)
	h.writeJSON(w, map[string]interface{}{
		"clusters": h.svc.Expanded(),
	}, http.StatusOK)
}

// DebugSnapshots lists persisted snapshot summaries
func (h *Handler) DebugSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.svc.Snapshots(r.Context(), 20)
	if err != nil {
		h.logger.Error("list snapshots failed", "err", err)
		h.writeError(w, "Failed to list snapshots", err.Error(), http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, map[string]interface{}{
		"snapshots": snapshots,
	}, http.StatusOK)
}

// serviceError maps service errors to HTTP responses. A missing snapshot
// is 503: the server is up but has nothing to serve yet.
func (h *Handler) serviceError(w http.ResponseWriter, msg string, err error) {
	if errors.Is(err, service.ErrNoSnapshot) {
		h.writeError(w, msg, err.Error(), http.StatusServiceUnavailable)
		return
	}
	h.logger.Error(msg, "err", err)
	h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("encode response failed", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.logger.Error("encode error response failed", "err", err)
	}
}
