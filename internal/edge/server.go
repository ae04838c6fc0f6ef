// Package edge is the Edge Surface of §4.I: the gin HTTP server that
// parses requests, enforces the shared-secret gate, extracts tenant
// context, and delegates to the Tenant Registry. Grounded on
// BOT/app_20.py's FastAPI route handlers and handler/system.go's gin
// response shape.
package edge

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aditeya/ragtenant/internal/config"
	"github.com/aditeya/ragtenant/internal/engine"
	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/aditeya/ragtenant/internal/models/chat"
	"github.com/aditeya/ragtenant/internal/models/embedding"
	"github.com/aditeya/ragtenant/internal/models/provider"
	"github.com/aditeya/ragtenant/internal/models/rerank"
	"github.com/aditeya/ragtenant/internal/recordstore"
	"github.com/aditeya/ragtenant/internal/registry"
	"github.com/aditeya/ragtenant/internal/sessionstore"
	"github.com/aditeya/ragtenant/internal/types"
	"github.com/aditeya/ragtenant/internal/vectorstore"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server owns the process-wide dependencies shared across every tenant:
// the registry, the embedding/rerank/chat models (stateless, so one
// instance serves all tenants), the vector-store client, and the
// session store. Everything tenant-specific is resolved per request.
type Server struct {
	cfg       *config.Config
	registry  *registry.Registry
	vectors   vectorstore.VectorStore
	sessions  *sessionstore.Store
	startedAt time.Time
}

// New wires the Server's dependencies from cfg and returns it ready for
// Router to be called.
func New(cfg *config.Config) (*Server, error) {
	vectors, err := vectorstore.NewQdrant(cfg.VectorStore.Addr)
	if err != nil {
		return nil, fmt.Errorf("connect vector store: %w", err)
	}

	embedder, err := embedding.NewEmbedder(embedding.Config{
		Provider:  provider.ProviderName(cfg.Models.EmbeddingProvider),
		BaseURL:   cfg.Models.EmbeddingBaseURL,
		ModelName: cfg.Models.EmbeddingModel,
		APIKey:    cfg.Models.EmbeddingAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("build embedder: %w", err)
	}

	reranker, err := rerank.NewReranker(rerank.RerankerConfig{
		Provider:  provider.ProviderName(cfg.Models.RerankProvider),
		ModelName: cfg.Models.RerankModel,
		APIKey:    cfg.Models.RerankAPIKey,
		BaseURL:   cfg.Models.RerankBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("build reranker: %w", err)
	}

	chatModel, err := chat.NewModel(chat.Config{
		Provider:  provider.ProviderName(cfg.Models.ChatProvider),
		ModelName: cfg.Models.ChatModel,
		APIKey:    cfg.Models.ChatAPIKey,
		BaseURL:   cfg.Models.ChatBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("build chat model: %w", err)
	}

	sessions := sessionstore.New(cfg.SessionStore.Addr)

	s := &Server{cfg: cfg, vectors: vectors, sessions: sessions, startedAt: time.Now()}
	s.registry = registry.New(func(ctx context.Context, tenant types.TenantConfig) (*engine.Engine, error) {
		// Each engine owns its own vector handle and record-store
		// connection (§5) so the registry can destroy one tenant's
		// resources on Invalidate/CloseAll without affecting the rest.
		tenantVectors, err := vectorstore.NewQdrant(cfg.VectorStore.Addr)
		if err != nil {
			return nil, fmt.Errorf("connect vector store for tenant %s: %w", tenant.TenantID, err)
		}
		records, err := recordstore.Open(tenant.RecordStoreURI)
		if err != nil {
			return nil, fmt.Errorf("open record store for tenant %s: %w", tenant.TenantID, err)
		}
		return engine.New(ctx, engine.Config{
			Tenant:    tenant,
			Vectors:   tenantVectors,
			Records:   records,
			Sessions:  sessions,
			Embedder:  embedder,
			Reranker:  reranker,
			ChatModel: chatModel,
			VectorDim: uint64(embedder.GetDimensions()),
		})
	})
	return s, nil
}

// Router builds the gin.Engine serving every endpoint in §6's table.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: false,
	}))

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)

	protected := r.Group("/")
	protected.Use(s.requireServiceSecret())
	protected.POST("/chat", s.handleChat)
	protected.POST("/api/bots/:resource_id/chat", s.handleChat)
	protected.GET("/contact-info", s.handleContactInfo)
	protected.GET("/leads", s.handleListLeads)
	protected.GET("/leads/count", s.handleCountLeads)
	protected.POST("/refresh-cache", s.handleRefreshCache)
	protected.POST("/reload_vectors", s.handleReloadVectors)
	protected.POST("/mark-data-updated", s.handleMarkDataUpdated)
	protected.POST("/system/restart", s.handleSystemRestart)

	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := logger.CloneContext(c.Request.Context())
		ctx = logger.WithField(ctx, "path", c.FullPath())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// scheduleExit exits the process with code after delay, giving the
// in-flight response time to flush; an external supervisor
// (cmd/server-supervisor) observes the exit code and decides whether to
// respawn, per §6's process-exit convention.
func scheduleExit(ctx context.Context, delay time.Duration, code int) {
	go func() {
		time.Sleep(delay)
		logger.Info(ctx, "exiting for external supervisor", "code", code)
		os.Exit(code)
	}()
}
