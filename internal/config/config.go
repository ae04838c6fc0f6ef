// Package config loads the service's construction-time configuration.
// There is no process-wide mutable configuration singleton beyond this
// struct: every component receives the pieces of Config it needs at
// construction time (see SPEC_FULL.md, Design Notes — Global configuration).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration record, loaded once at process start.
type Config struct {
	Server       Server
	VectorStore  VectorStore
	RecordStore  RecordStore
	SessionStore SessionStore
	Models       Models
	Retrieval    Retrieval
	Crawl        Crawl
	Scheduler    Scheduler
	Security     Security
}

// Server configures the edge surface's HTTP listener.
type Server struct {
	Addr string
}

// VectorStore configures the per-tenant vector collection backend.
type VectorStore struct {
	Driver         string // "qdrant"
	Addr           string
	CollectionName string // default "scraped_content"
}

// RecordStore configures the per-tenant document/record backend.
type RecordStore struct {
	Driver string // "postgres"
	DSN    string
}

// SessionStore configures the Redis backend behind the conversational
// state machine's session-scoped records (§3, §4.E).
type SessionStore struct {
	Addr string
}

// Models selects the embedding/rerank/chat providers and their credentials.
type Models struct {
	EmbeddingProvider string
	EmbeddingModel    string
	EmbeddingAPIKey   string
	EmbeddingBaseURL  string

	RerankProvider string
	RerankModel    string
	RerankAPIKey   string
	RerankBaseURL  string

	ChatProvider string
	ChatModel    string
	ChatAPIKey   string
	ChatBaseURL  string
}

// Retrieval tunes the multi-pass retrieval and reranking parameters of §4.D.
type Retrieval struct {
	MaxPassages          int // default 10, §4.D.3
	SynthesisTopN        int // default 40, fed to rerank before synthesis
	SynthesisContextSize int // default 12, §4.D.4
	SourceSnippetChars   int // default 240
	MaxSources           int // default 5
}

// Crawl tunes discovery/extraction defaults of §4.G.
type Crawl struct {
	MaxDepth         int // default 999
	MaxLinksPerPage  int // default 1000
	RespectRobots    bool
	AggressiveDiscov bool
	SkipExtensions   []string
}

// Scheduler tunes the freshness orchestrator of §4.H.
type Scheduler struct {
	IntervalMinutes int // default 5
	BotURL          string
	AdminBackendURL string
	RestartTimeout  time.Duration // default 30s
	NotifyTimeout   time.Duration // default 10s
}

// Security configures the inter-service shared-secret gate and the
// optional JWT bearer token the scheduler signs for admin-backend calls.
type Security struct {
	ServiceSecret string
	JWTSigningKey string
}

// Load reads configuration from a YAML file (if present) and environment
// variables, the latter taking precedence, mirroring the teacher's
// viper-based config loading.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	v.SetEnvPrefix("RAG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		Server: Server{Addr: v.GetString("server.addr")},
		VectorStore: VectorStore{
			Driver:         v.GetString("vectorstore.driver"),
			Addr:           v.GetString("vectorstore.addr"),
			CollectionName: v.GetString("vectorstore.collection_name"),
		},
		RecordStore: RecordStore{
			Driver: v.GetString("recordstore.driver"),
			DSN:    v.GetString("recordstore.dsn"),
		},
		SessionStore: SessionStore{
			Addr: v.GetString("sessionstore.addr"),
		},
		Models: Models{
			EmbeddingProvider: v.GetString("models.embedding.provider"),
			EmbeddingModel:    v.GetString("models.embedding.model"),
			EmbeddingAPIKey:   v.GetString("models.embedding.api_key"),
			EmbeddingBaseURL:  v.GetString("models.embedding.base_url"),
			RerankProvider:    v.GetString("models.rerank.provider"),
			RerankModel:       v.GetString("models.rerank.model"),
			RerankAPIKey:      v.GetString("models.rerank.api_key"),
			RerankBaseURL:     v.GetString("models.rerank.base_url"),
			ChatProvider:      v.GetString("models.chat.provider"),
			ChatModel:         v.GetString("models.chat.model"),
			ChatAPIKey:        v.GetString("models.chat.api_key"),
			ChatBaseURL:       v.GetString("models.chat.base_url"),
		},
		Retrieval: Retrieval{
			MaxPassages:          v.GetInt("retrieval.max_passages"),
			SynthesisTopN:        v.GetInt("retrieval.synthesis_top_n"),
			SynthesisContextSize: v.GetInt("retrieval.synthesis_context_size"),
			SourceSnippetChars:   v.GetInt("retrieval.source_snippet_chars"),
			MaxSources:           v.GetInt("retrieval.max_sources"),
		},
		Crawl: Crawl{
			MaxDepth:         v.GetInt("crawl.max_depth"),
			MaxLinksPerPage:  v.GetInt("crawl.max_links_per_page"),
			RespectRobots:    v.GetBool("crawl.respect_robots"),
			AggressiveDiscov: v.GetBool("crawl.aggressive_discovery"),
			SkipExtensions:   v.GetStringSlice("crawl.skip_extensions"),
		},
		Scheduler: Scheduler{
			IntervalMinutes: v.GetInt("scheduler.interval_minutes"),
			BotURL:          v.GetString("scheduler.bot_url"),
			AdminBackendURL: v.GetString("scheduler.admin_backend_url"),
			RestartTimeout:  v.GetDuration("scheduler.restart_timeout"),
			NotifyTimeout:   v.GetDuration("scheduler.notify_timeout"),
		},
		Security: Security{
			ServiceSecret: v.GetString("security.service_secret"),
			JWTSigningKey: v.GetString("security.jwt_signing_key"),
		},
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("vectorstore.driver", "qdrant")
	v.SetDefault("vectorstore.collection_name", "scraped_content")
	v.SetDefault("recordstore.driver", "postgres")
	v.SetDefault("sessionstore.addr", "127.0.0.1:6379")
	v.SetDefault("retrieval.max_passages", 10)
	v.SetDefault("retrieval.synthesis_top_n", 40)
	v.SetDefault("retrieval.synthesis_context_size", 12)
	v.SetDefault("retrieval.source_snippet_chars", 240)
	v.SetDefault("retrieval.max_sources", 5)
	v.SetDefault("crawl.max_depth", 999)
	v.SetDefault("crawl.max_links_per_page", 1000)
	v.SetDefault("crawl.respect_robots", false)
	v.SetDefault("crawl.aggressive_discovery", true)
	v.SetDefault("crawl.skip_extensions", []string{
		".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
		".zip", ".rar", ".tar", ".gz", ".7z",
		".jpg", ".jpeg", ".png", ".gif", ".svg", ".webp", ".ico",
		".mp3", ".mp4", ".avi", ".mov", ".wav",
		".css", ".js", ".json", ".xml",
		".woff", ".woff2", ".ttf", ".eot",
	})
	v.SetDefault("scheduler.interval_minutes", 5)
	v.SetDefault("scheduler.restart_timeout", 30*time.Second)
	v.SetDefault("scheduler.notify_timeout", 10*time.Second)
}
