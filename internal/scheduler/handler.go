package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/aditeya/ragtenant/internal/crawler"
	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/aditeya/ragtenant/internal/models/embedding"
	"github.com/aditeya/ragtenant/internal/recordstore"
	"github.com/aditeya/ragtenant/internal/vectorstore"
	"github.com/hibiken/asynq"
)

// UpdaterHandler runs one incremental crawl pass per task, then drives
// the restart/notify protocol. It implements interfaces.TaskHandler so it
// can be registered against an asynq.ServeMux the same way the teacher
// registers its other task handlers.
type UpdaterHandler struct {
	Vectors  vectorstore.VectorStore
	Embedder embedding.Embedder
	Notifier *Notifier
}

// NewUpdaterHandler builds a handler sharing one vector-store connection
// and one embedder across tasks; each task opens (and closes) its own
// record-store connection since tenants vary DSNs per task.
func NewUpdaterHandler(vectors vectorstore.VectorStore, embedder embedding.Embedder, notifier *Notifier) *UpdaterHandler {
	return &UpdaterHandler{Vectors: vectors, Embedder: embedder, Notifier: notifier}
}

// Handle runs the crawl described by t's payload and reports the outcome.
func (h *UpdaterHandler) Handle(ctx context.Context, t *asynq.Task) error {
	payload, err := ParseRefreshPayload(t)
	if err != nil {
		return err
	}

	ctx = logger.WithField(ctx, "job_id", payload.JobID)
	ctx = logger.WithField(ctx, "tenant_id", payload.TenantID)
	logger.Info(ctx, "starting scheduled updater job")

	records, openErr := recordstore.Open(payload.RecordStoreDSN)
	if openErr != nil {
		h.reportAndReturn(ctx, payload, fmt.Errorf("open record store: %w", openErr))
		return nil
	}

	start := time.Now()
	stats, runErr := crawler.Run(ctx, crawler.RunOptions{
		StartURL:           payload.StartURL,
		Domain:             payload.Domain,
		SitemapURL:         payload.SitemapURL,
		MaxDepth:           payload.MaxDepth,
		MaxLinksPerPage:    payload.MaxLinksPerPage,
		RespectRobots:      payload.RespectRobots,
		AggressiveDiscover: payload.AggressiveDiscover,
		Vectors:            h.Vectors,
		Embedder:           h.Embedder,
		Records:            records,
		Collection:         payload.VectorCollection,
	})
	elapsed := time.Since(start)

	if runErr != nil {
		logger.Error(ctx, "updater job failed", "error", runErr, "elapsed", elapsed)
	} else {
		logger.Info(ctx, "updater job completed",
			"elapsed", elapsed, "pages_visited", stats.PagesVisited,
			"pages_new", stats.PagesNew, "pages_modified", stats.PagesModified,
			"chunks_indexed", stats.ChunksIndexed, "pages_failed", stats.PagesFailed)
	}

	h.reportAndReturn(ctx, payload, runErr)
	return nil
}

// reportAndReturn always swallows notification errors: a failed restart
// or admin-backend call must not make asynq retry an already-completed
// (or already-failed-and-reported) crawl job.
func (h *UpdaterHandler) reportAndReturn(ctx context.Context, payload RefreshPayload, jobErr error) {
	if err := h.Notifier.OnJobComplete(ctx, payload.TenantID, jobErr, time.Now()); err != nil {
		logger.Warn(ctx, "freshness notification protocol incomplete", "error", err)
	}
}
