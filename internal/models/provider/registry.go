// Package provider is a small registry of pluggable model backends
// (§1's "the embedding/rerank/chat models are pluggable black-box
// functions"), mirroring the registration pattern each concrete
// provider uses (init-time Register call), generalized from WeKnora's
// vendor catalog down to the handful of providers SPEC_FULL.md names.
package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aditeya/ragtenant/internal/types"
)

// ProviderName identifies one registered backend.
type ProviderName string

const (
	ProviderOpenAI  ProviderName = "openai"
	ProviderGeneric ProviderName = "generic"
	ProviderJina    ProviderName = "jina"
)

// ProviderInfo describes a backend's capabilities and defaults.
type ProviderInfo struct {
	Name         ProviderName
	DisplayName  string
	Description  string
	DefaultURLs  map[types.ModelType]string
	ModelTypes   []types.ModelType
	RequiresAuth bool
}

// Config is the per-tenant/per-role configuration handed to a provider
// for validation and client construction.
type Config struct {
	Provider  ProviderName
	ModelName string
	APIKey    string
	BaseURL   string
}

// Provider is implemented by each registered backend.
type Provider interface {
	Info() ProviderInfo
	ValidateConfig(config *Config) error
}

var (
	mu        sync.RWMutex
	providers = map[ProviderName]Provider{}
)

// Register adds a provider to the registry. Called from each provider
// file's init().
func Register(p Provider) {
	mu.Lock()
	defer mu.Unlock()
	providers[p.Info().Name] = p
}

// List returns every registered provider's info, sorted by name.
func List() []ProviderInfo {
	mu.RLock()
	defer mu.RUnlock()
	infos := make([]ProviderInfo, 0, len(providers))
	for _, p := range providers {
		infos = append(infos, p.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Get returns the named provider, or false if unregistered.
func Get(name ProviderName) (Provider, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := providers[name]
	return p, ok
}

// GetOrDefault returns the named provider, falling back to OpenAI (the
// default remote backend per SPEC_FULL.md's DOMAIN STACK) when name is empty
// or unregistered.
func GetOrDefault(name ProviderName) Provider {
	if p, ok := Get(name); ok {
		return p
	}
	p, _ := Get(ProviderOpenAI)
	return p
}

// DetectProvider infers a provider from a base URL override, falling back
// to Generic for any unrecognized OpenAI-compatible endpoint.
func DetectProvider(baseURL string) ProviderName {
	lower := strings.ToLower(baseURL)
	switch {
	case lower == "":
		return ProviderOpenAI
	case strings.Contains(lower, "api.openai.com"):
		return ProviderOpenAI
	case strings.Contains(lower, "api.jina.ai"):
		return ProviderJina
	default:
		return ProviderGeneric
	}
}

// Resolve looks up a provider by name and validates config against it in
// one step, the shape every constructor in internal/models needs.
func Resolve(cfg *Config) (Provider, error) {
	p, ok := Get(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("unregistered model provider %q", cfg.Provider)
	}
	if err := p.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config for provider %q: %w", cfg.Provider, err)
	}
	return p, nil
}
