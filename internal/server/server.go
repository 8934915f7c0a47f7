// Package server exposes the engine to presentation consumers over HTTP,
// with a websocket channel for project-scoped stats-changed pushes.
package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"serial_dashboard/internal/completion"
	"serial_dashboard/internal/config"
	"serial_dashboard/internal/consistency"
	"serial_dashboard/internal/foreshadow"
	"serial_dashboard/internal/keyword"
	"serial_dashboard/internal/stats"
	"serial_dashboard/internal/store"
	"serial_dashboard/internal/structure"
)

// Handler holds the services behind the HTTP surface.
type Handler struct {
	Store     *store.Store
	Collector *stats.Collector
	Dict      keyword.Dictionary
}

// APIResponse is the standard envelope for every JSON endpoint.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func NewHandler(st *store.Store, collector *stats.Collector, dict keyword.Dictionary) *Handler {
	return &Handler{Store: st, Collector: collector, Dict: dict}
}

// SetupRouter wires the routes. Debug mode controls gin's verbosity only.
func SetupRouter(h *Handler, cfg *config.Config) *gin.Engine {
	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	api := r.Group("/api")
	{
		api.GET("/projects/:id/dashboard", h.GetDashboard)
		api.GET("/projects/:id/consistency", h.GetConsistency)
		api.GET("/projects/:id/completion", h.GetCompletion)
		api.GET("/projects/:id/foreshadows/unresolved", h.GetUnresolved)
		api.GET("/projects/:id/structure", h.GetStructure)
		api.POST("/projects/:id/refresh", h.RefreshStats)
		api.PUT("/projects/:id/episodes/:number/content", h.PutEpisodeContent)
	}

	r.GET("/ws/projects/:id/stats", h.StatsWebSocket)

	return r
}

func (h *Handler) success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

func (h *Handler) fail(c *gin.Context, status int, msg string) {
	c.JSON(status, APIResponse{Success: false, Error: msg})
}

// GetDashboard returns the combined snapshot, refreshing on first request.
func (h *Handler) GetDashboard(c *gin.Context) {
	projectID := c.Param("id")
	snap, ok := h.Collector.Get(projectID)
	if !ok {
		snap = h.Collector.Refresh(c.Request.Context(), projectID)
	}
	h.success(c, snap)
}

// GetConsistency returns per-character consistency results.
func (h *Handler) GetConsistency(c *gin.Context) {
	characters, err := h.Store.ListCharacters(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	results, average, _ := consistency.AnalyzeAll(characters, h.Dict)
	h.success(c, gin.H{"characters": results, "averageScore": average})
}

// GetCompletion returns completion views for platform-assigned episodes.
func (h *Handler) GetCompletion(c *gin.Context) {
	episodes, err := h.Store.ListEpisodes(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	h.success(c, completion.Views(episodes))
}

// GetUnresolved returns the open foreshadow threads and their count.
func (h *Handler) GetUnresolved(c *gin.Context) {
	foreshadows, err := h.Store.ListForeshadows(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	pending := foreshadows[:0:0]
	for _, f := range foreshadows {
		if !f.Resolved() {
			pending = append(pending, f)
		}
	}
	h.success(c, gin.H{
		"count":       foreshadow.UnresolvedCount(foreshadows),
		"foreshadows": pending,
	})
}

// GetStructure returns the act pacing report.
func (h *Handler) GetStructure(c *gin.Context) {
	episodes, err := h.Store.ListEpisodes(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err.Error())
		return
	}
	h.success(c, structure.Pacing(episodes))
}

// RefreshStats is the explicit caller-refresh entry point.
func (h *Handler) RefreshStats(c *gin.Context) {
	h.success(c, h.Collector.Refresh(c.Request.Context(), c.Param("id")))
}

// PutEpisodeContent replaces an episode's text and signals stats-changed so
// watchers get a recomputed snapshot.
func (h *Handler) PutEpisodeContent(c *gin.Context) {
	projectID := c.Param("id")
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		h.fail(c, http.StatusBadRequest, "episode number must be an integer")
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.fail(c, http.StatusBadRequest, err.Error())
		return
	}

	ep, err := h.Store.UpdateEpisodeContent(c.Request.Context(), projectID, number, body.Content)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, err.Error())
		return
	}

	h.Collector.Notify(projectID)
	h.success(c, ep)
}
