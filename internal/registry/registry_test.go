package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/aditeya/ragtenant/internal/engine"
	"github.com/aditeya/ragtenant/internal/types"
)

func testTenant(id string) types.TenantConfig {
	return types.TenantConfig{TenantID: id, VectorStorePath: "vs-" + id, RecordStoreURI: "db-" + id}
}

func TestGetCachesByVectorAndRecordStorePair(t *testing.T) {
	builds := 0
	reg := New(func(ctx context.Context, tenant types.TenantConfig) (*engine.Engine, error) {
		builds++
		return &engine.Engine{}, nil
	})

	tenant := testTenant("acme")
	if _, err := reg.Get(context.Background(), tenant, false); err != nil {
		t.Fatalf("first Get: %v", err)
	}
	if _, err := reg.Get(context.Background(), tenant, false); err != nil {
		t.Fatalf("second Get: %v", err)
	}
	if builds != 1 {
		t.Fatalf("expected 1 build across two Get calls, got %d", builds)
	}
}

func TestGetRejectsIncompleteTenantContext(t *testing.T) {
	reg := New(func(ctx context.Context, tenant types.TenantConfig) (*engine.Engine, error) {
		return &engine.Engine{}, nil
	})
	if _, err := reg.Get(context.Background(), types.TenantConfig{TenantID: "acme"}, false); err == nil {
		t.Fatal("expected error for missing vector_store_path/record_store_uri")
	}
}

func TestForceReloadRebuilds(t *testing.T) {
	builds := 0
	reg := New(func(ctx context.Context, tenant types.TenantConfig) (*engine.Engine, error) {
		builds++
		return &engine.Engine{}, nil
	})
	tenant := testTenant("acme")
	if _, err := reg.Get(context.Background(), tenant, false); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Get(context.Background(), tenant, true); err != nil {
		t.Fatal(err)
	}
	if builds != 2 {
		t.Fatalf("expected 2 builds after force reload, got %d", builds)
	}
}

func TestMarkDirtyTriggersReloadOnNextGet(t *testing.T) {
	builds := 0
	reg := New(func(ctx context.Context, tenant types.TenantConfig) (*engine.Engine, error) {
		builds++
		return &engine.Engine{}, nil
	})
	tenant := testTenant("acme")
	if _, err := reg.Get(context.Background(), tenant, false); err != nil {
		t.Fatal(err)
	}
	if err := reg.MarkDirty(tenant); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Get(context.Background(), tenant, false); err != nil {
		t.Fatal(err)
	}
	if builds != 2 {
		t.Fatalf("expected dirty flag to force a second build, got %d builds", builds)
	}
}

func TestInvalidateEvictsCachedEngine(t *testing.T) {
	builds := 0
	reg := New(func(ctx context.Context, tenant types.TenantConfig) (*engine.Engine, error) {
		builds++
		return &engine.Engine{}, nil
	})
	tenant := testTenant("acme")
	if _, err := reg.Get(context.Background(), tenant, false); err != nil {
		t.Fatal(err)
	}
	if err := reg.Invalidate(tenant); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Get(context.Background(), tenant, false); err != nil {
		t.Fatal(err)
	}
	if builds != 2 {
		t.Fatalf("expected invalidate to force a rebuild, got %d builds", builds)
	}
}

func TestCloseAllClearsCache(t *testing.T) {
	builds := 0
	reg := New(func(ctx context.Context, tenant types.TenantConfig) (*engine.Engine, error) {
		builds++
		return &engine.Engine{}, nil
	})
	tenant := testTenant("acme")
	if _, err := reg.Get(context.Background(), tenant, false); err != nil {
		t.Fatal(err)
	}
	reg.CloseAll()
	if _, err := reg.Get(context.Background(), tenant, false); err != nil {
		t.Fatal(err)
	}
	if builds != 2 {
		t.Fatalf("expected CloseAll to force a rebuild, got %d builds", builds)
	}
}

func TestGetPropagatesFactoryError(t *testing.T) {
	reg := New(func(ctx context.Context, tenant types.TenantConfig) (*engine.Engine, error) {
		return nil, errors.New("boom")
	})
	if _, err := reg.Get(context.Background(), testTenant("acme"), false); err == nil {
		t.Fatal("expected factory error to propagate")
	}
}
