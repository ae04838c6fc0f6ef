// Package registry is the process-wide Tenant Registry of §4.F: a
// lock-guarded cache of *engine.Engine keyed by a tenant's
// (vector_store_path, record_store_uri) pair, with dirty-flag reload and
// hard-restart semantics, grounded on BOT/app_20.py's TenantChatbotManager.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aditeya/ragtenant/internal/engine"
	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/aditeya/ragtenant/internal/types"
)

// EngineFactory builds a fresh Engine for a tenant; the registry never
// constructs an Engine directly so its tests can substitute a fake.
type EngineFactory func(ctx context.Context, tenant types.TenantConfig) (*engine.Engine, error)

type entry struct {
	eng            *engine.Engine
	lastReloadTime time.Time
	needsReload    bool
}

// Registry caches one Engine per (VectorStorePath, RecordStoreURI) pair.
// Requests for the same tenant resolve to the same cached Engine until
// invalidated or marked dirty, matching TenantChatbotManager's cache-key
// scheme exactly (§4.F).
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	factory EngineFactory
}

// New builds an empty Registry backed by factory for cache misses.
func New(factory EngineFactory) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		factory: factory,
	}
}

func cacheKey(tenant types.TenantConfig) (string, error) {
	if tenant.VectorStorePath == "" {
		return "", fmt.Errorf("vector_store_path is required for tenant isolation and cannot be empty")
	}
	if tenant.RecordStoreURI == "" {
		return "", fmt.Errorf("record_store_uri is required for tenant isolation and cannot be empty")
	}
	if tenant.TenantID == "" {
		return "", fmt.Errorf("tenant id is required to identify the tenant and cannot be empty")
	}
	return fmt.Sprintf("%s::%s", tenant.VectorStorePath, tenant.RecordStoreURI), nil
}

// Get returns the cached Engine for tenant, building one on a cache miss
// and reloading it when forceReload is set or the tenant's dirty flag has
// been raised by MarkDirty since the last load.
func (r *Registry) Get(ctx context.Context, tenant types.TenantConfig, forceReload bool) (*engine.Engine, error) {
	key, err := cacheKey(tenant)
	if err != nil {
		return nil, err
	}

	if forceReload {
		r.mu.Lock()
		stale, ok := r.entries[key]
		delete(r.entries, key)
		r.mu.Unlock()
		if ok && stale.eng != nil {
			if err := stale.eng.Close(); err != nil {
				logger.Warn(ctx, "failed closing stale engine on force reload", "tenant", tenant.TenantID, "error", err)
			}
		}
	}

	r.mu.Lock()
	e, cached := r.entries[key]
	needsReload := cached && e.needsReload
	r.mu.Unlock()

	if cached && !needsReload {
		return e.eng, nil
	}

	if needsReload {
		fresh, err := r.factory(ctx, tenant)
		if err != nil {
			if e.eng == nil {
				return nil, fmt.Errorf("build engine for tenant %s: %w", tenant.TenantID, err)
			}
			logger.Warn(ctx, "auto-reload failed, serving stale engine", "tenant", tenant.TenantID, "error", err)
			return e.eng, nil
		}
		r.mu.Lock()
		e.eng = fresh
		e.lastReloadTime = time.Now()
		e.needsReload = false
		r.mu.Unlock()
		return fresh, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok && !forceReload {
		return e.eng, nil
	}

	built, err := r.factory(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("build engine for tenant %s: %w", tenant.TenantID, err)
	}
	r.entries[key] = &entry{eng: built, lastReloadTime: time.Now()}
	return built, nil
}

// Invalidate drops the cached Engine for tenant so the next Get rebuilds
// it from scratch. If no instance is cached yet, it raises the dirty
// flag so the tenant reloads as soon as one is created.
func (r *Registry) Invalidate(tenant types.TenantConfig) error {
	key, err := cacheKey(tenant)
	if err != nil {
		return err
	}
	r.mu.Lock()
	e, ok := r.entries[key]
	if ok {
		delete(r.entries, key)
	} else {
		r.entries[key] = &entry{needsReload: true}
	}
	r.mu.Unlock()

	if ok && e.eng != nil {
		if err := e.eng.Close(); err != nil {
			logger.Warn(context.Background(), "failed closing engine on invalidate", "tenant", tenant.TenantID, "error", err)
		}
	}
	return nil
}

// MarkDirty raises the dirty flag for tenant without evicting its cached
// Engine: the next Get call reloads it in place.
func (r *Registry) MarkDirty(tenant types.TenantConfig) error {
	key, err := cacheKey(tenant)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		e.needsReload = true
		return nil
	}
	r.entries[key] = &entry{needsReload: true}
	return nil
}

// CloseAll closes and drops every cached Engine, used during process
// shutdown (§4.F's close_all: "For each instance, close the
// record-store connection; clear the map").
func (r *Registry) CloseAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*entry)
	r.mu.Unlock()

	for key, e := range entries {
		if e.eng == nil {
			continue
		}
		if err := e.eng.Close(); err != nil {
			logger.Warn(context.Background(), "failed closing engine during shutdown", "key", key, "error", err)
		}
	}
}
