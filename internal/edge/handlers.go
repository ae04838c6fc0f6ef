package edge

import (
	"net/http"
	"os"
	"time"

	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/aditeya/ragtenant/internal/utils"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "RAG Chatbot with contact extraction",
		"status":  "Ready!",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":              "healthy",
		"chatbot_ready":       true,
		"message":             "RAG ready",
		"daily_requests_used": 0,
	})
}

type chatRequest struct {
	Query           string `json:"query" form:"query"`
	SessionID       string `json:"session_id" form:"session_id"`
	UserID          string `json:"user_id" form:"user_id"`
	ResourceID      string `json:"resource_id" form:"resource_id"`
	VectorStorePath string `json:"vector_store_path" form:"vector_store_path"`
	DatabaseURI     string `json:"database_uri" form:"database_uri"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if pathResource := c.Param("resource_id"); pathResource != "" && req.ResourceID == "" {
		req.ResourceID = pathResource
	}

	query, ok := utils.ValidateInput(req.Query)
	if !ok || query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Query text is required"})
		return
	}

	tenant, err := resolveTenant(tenantParams{
		ResourceID:      req.ResourceID,
		VectorStorePath: req.VectorStorePath,
		DatabaseURI:     req.DatabaseURI,
		UserID:          req.UserID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	base := req.ResourceID
	if base == "" {
		base = req.UserID
	}
	sessionID := resolveSessionID(req.SessionID, base)

	ctx := logger.WithField(c.Request.Context(), "resource_id", tenant.TenantID)
	logger.Info(ctx, "chat request", "session_id", sessionID, "query", utils.SanitizeForLog(query))

	eng, err := s.registry.Get(ctx, tenant, false)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := eng.Chat(ctx, query, sessionID)
	if err != nil {
		writeError(c, err)
		return
	}

	metadata := gin.H{}
	if req.ResourceID != "" {
		metadata["resource_id"] = req.ResourceID
	}
	if req.UserID != "" {
		metadata["user_id"] = req.UserID
	}
	resp := gin.H{"answer": result.Answer, "session_id": result.SessionID}
	if len(result.Sources) > 0 {
		resp["sources"] = result.Sources
	}
	if len(metadata) > 0 {
		resp["metadata"] = metadata
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleContactInfo(c *gin.Context) {
	tenant, err := resolveTenant(tenantParamsFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	eng, err := s.registry.Get(c.Request.Context(), tenant, false)
	if err != nil {
		writeError(c, err)
		return
	}
	info, formatted, err := eng.ContactInfo(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"emails":             info.Emails,
		"phones":             info.Phones,
		"addresses":          []string{},
		"formatted_response": formatted,
	})
}

func (s *Server) handleListLeads(c *gin.Context) {
	tenant, err := resolveTenant(tenantParamsFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	eng, err := s.registry.Get(c.Request.Context(), tenant, false)
	if err != nil {
		writeError(c, err)
		return
	}
	leads, err := eng.ListLeads(c.Request.Context(), 0, 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads, "count": len(leads)})
}

func (s *Server) handleCountLeads(c *gin.Context) {
	tenant, err := resolveTenant(tenantParamsFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	eng, err := s.registry.Get(c.Request.Context(), tenant, false)
	if err != nil {
		writeError(c, err)
		return
	}
	count, err := eng.CountLeads(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

// handleRefreshCache destroys and recreates the tenant's engine, per
// the original's /refresh-cache: "ALWAYS destroys and recreates the
// entire bot instance to ensure fresh ChromaDB data."
func (s *Server) handleRefreshCache(c *gin.Context) {
	tenant, err := resolveTenant(tenantParamsFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	ctx := c.Request.Context()
	if err := s.registry.Invalidate(tenant); err != nil {
		writeError(c, err)
		return
	}
	time.Sleep(500 * time.Millisecond)

	eng, err := s.registry.Get(ctx, tenant, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to refresh cache: " + err.Error()})
		return
	}
	docCount, err := eng.CountDocuments(ctx)
	if err != nil {
		logger.Warn(ctx, "could not count documents after refresh", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"document_count": docCount,
		"destroyed":      true,
	})
}

// handleReloadVectors schedules a process exit so the external
// supervisor (cmd/server-supervisor) respawns the server with vector
// stores reloaded fresh from disk, per the original's /reload_vectors.
// Exits with code 1 (not the original's 0) so cmd/server-supervisor's
// exit-code convention — 0 stops the supervisor, 1 respawns immediately
// — actually triggers the restart the endpoint promises.
func (s *Server) handleReloadVectors(c *gin.Context) {
	ctx := logger.CloneContext(c.Request.Context())
	scheduleExit(ctx, 500*time.Millisecond, 1)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"action_taken": "restart_scheduled",
	})
}

func (s *Server) handleMarkDataUpdated(c *gin.Context) {
	tenant, err := resolveTenant(tenantParamsFromQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := s.registry.MarkDirty(tenant); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// handleSystemRestart exits the process with code 1 after a short delay,
// per §6's process-exit convention (1 = "restart me").
func (s *Server) handleSystemRestart(c *gin.Context) {
	ctx := logger.CloneContext(c.Request.Context())
	pid := os.Getpid()
	scheduleExit(ctx, 1*time.Second, 1)
	c.JSON(http.StatusOK, gin.H{"status": "restarting", "pid": pid})
}

func tenantParamsFromQuery(c *gin.Context) tenantParams {
	return tenantParams{
		ResourceID:      c.Query("resource_id"),
		VectorStorePath: c.Query("vector_store_path"),
		DatabaseURI:     c.Query("database_uri"),
		UserID:          c.Query("user_id"),
	}
}
