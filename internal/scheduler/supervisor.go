package scheduler

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/hibiken/asynq"
)

// Supervisor is the long-lived per-tenant process that enqueues a refresh
// task on a fixed interval, grounded on run_tenant_scheduler.py: PID file
// for reliable external process detection, a JSON line on start and on
// stop for a parent process to capture, and a ticker wait that selects on
// ctx.Done so termination is honored at once (§5's cancellation
// guarantee) instead of blocking for the whole interval.
type Supervisor struct {
	Client       *asynq.Client
	Interval     time.Duration
	PIDFilePath  string
	RunImmediate bool
	NextPayload  func() RefreshPayload
}

type statusLine struct {
	Status          string `json:"status"`
	PID             int    `json:"pid"`
	TenantID        string `json:"tenant_id,omitempty"`
	IntervalMinutes int    `json:"interval_minutes,omitempty"`
	Timestamp       string `json:"timestamp"`
}

func printStatusLine(status, tenantID string, intervalMinutes int) {
	line := statusLine{
		Status:          status,
		PID:             os.Getpid(),
		TenantID:        tenantID,
		IntervalMinutes: intervalMinutes,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
	data, _ := json.Marshal(line)
	fmt.Println(string(data))
}

// Run writes the PID file, emits the startup status line, then ticks
// until ctx is canceled (by a received SIGTERM/SIGINT, per the caller's
// signal.NotifyContext wiring), enqueueing one refresh task per tick.
func (s *Supervisor) Run(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.PIDFilePath), 0o755); err != nil {
		return fmt.Errorf("create pid file directory: %w", err)
	}
	if err := os.WriteFile(s.PIDFilePath, []byte(fmt.Sprintf("%d", os.Getpid())), 0o644); err != nil {
		logger.Warn(ctx, "could not write pid file", "path", s.PIDFilePath, "error", err)
	}
	defer os.Remove(s.PIDFilePath)

	firstPayload := s.NextPayload()
	printStatusLine("started", firstPayload.TenantID, int(s.Interval/time.Minute))

	if s.RunImmediate {
		s.enqueue(ctx, firstPayload)
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			printStatusLine("stopped", firstPayload.TenantID, int(s.Interval/time.Minute))
			return nil
		case <-ticker.C:
			s.enqueue(ctx, s.NextPayload())
		}
	}
}

func (s *Supervisor) enqueue(ctx context.Context, payload RefreshPayload) {
	payload.JobID = fmt.Sprintf("scheduled_%s_%s", payload.TenantID, time.Now().UTC().Format("20060102_150405"))

	task, err := NewRefreshTask(payload)
	if err != nil {
		logger.Error(ctx, "failed to build refresh task", "error", err)
		return
	}
	if _, err := s.Client.EnqueueContext(ctx, task); err != nil {
		logger.Error(ctx, "failed to enqueue refresh task", "error", err)
		return
	}
	logger.Info(ctx, "enqueued scheduled refresh", "job_id", payload.JobID)
}
