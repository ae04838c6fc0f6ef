// Package common holds small cross-cutting helpers shared by the retrieval
// engine and the crawl pipeline.
package common

import (
	"context"

	"github.com/aditeya/ragtenant/internal/logger"
	"github.com/sirupsen/logrus"
)

// PipelineInfo logs a structured info-level entry for one pipeline stage.
func PipelineInfo(ctx context.Context, stage, action string, fields map[string]interface{}) {
	logEntry(ctx, stage, action, fields).Info(action)
}

// PipelineWarn logs a structured warn-level entry for one pipeline stage.
func PipelineWarn(ctx context.Context, stage, action string, fields map[string]interface{}) {
	logEntry(ctx, stage, action, fields).Warn(action)
}

// PipelineError logs a structured error-level entry for one pipeline stage.
func PipelineError(ctx context.Context, stage, action string, fields map[string]interface{}) {
	logEntry(ctx, stage, action, fields).Error(action)
}

func logEntry(ctx context.Context, stage, action string, fields map[string]interface{}) *logrus.Entry {
	entry := logger.GetLogger(ctx).WithField("stage", stage).WithField("action", action)
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	return entry
}
