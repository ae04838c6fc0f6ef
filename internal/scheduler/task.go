// Package scheduler implements the Freshness Orchestrator (§4.H): a
// per-tenant scheduler supervisor that enqueues incremental crawl jobs on
// a fixed interval, an asynq-backed updater worker that runs them, and the
// two-step restart/notify protocol that follows a successful run.
//
// This replaces the original's subprocess.run-a-sibling-script model
// (run_tenant_scheduler.py spawning run_tenant_updater.py) with an
// asynq.Client enqueueing onto a Redis-backed queue and a separate
// asynq.Server process consuming it — the same "a fresh, isolated process
// does the actual work" shape, expressed with a durable queue instead of
// an ad-hoc subprocess call.
package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// TaskTypeRefresh is the asynq task type the scheduler supervisor
// enqueues once per tick and the updater worker consumes.
const TaskTypeRefresh = "crawl:refresh"

// RefreshPayload carries everything the updater worker needs to run one
// incremental crawl pass for a tenant, mirroring
// run_tenant_scheduler.py's _build_updater_command argument set.
type RefreshPayload struct {
	TenantID           string `json:"tenant_id"`
	StartURL           string `json:"start_url"`
	Domain             string `json:"domain"`
	SitemapURL         string `json:"sitemap_url,omitempty"`
	VectorCollection   string `json:"vector_collection"`
	RecordStoreDSN     string `json:"record_store_dsn"`
	MaxDepth           int    `json:"max_depth"`
	MaxLinksPerPage    int    `json:"max_links_per_page"`
	RespectRobots      bool   `json:"respect_robots"`
	AggressiveDiscover bool   `json:"aggressive_discover"`
	JobID              string `json:"job_id"`
}

// NewRefreshTask marshals payload into an asynq.Task of TaskTypeRefresh.
func NewRefreshTask(payload RefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal refresh payload: %w", err)
	}
	return asynq.NewTask(TaskTypeRefresh, data), nil
}

// ParseRefreshPayload unmarshals the payload carried by an asynq.Task of
// TaskTypeRefresh.
func ParseRefreshPayload(t *asynq.Task) (RefreshPayload, error) {
	var payload RefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return RefreshPayload{}, fmt.Errorf("unmarshal refresh payload: %w", err)
	}
	return payload, nil
}
