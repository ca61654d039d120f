// package outboxengine drives periodic outbox processing in the background
package outboxengine

import (
	"context"
	"time"

	"github.com/legennd48/backend-js-autograder/internal/config"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/services/outbox"
)

// OutboxEngine runs ProcessBatch on a fixed interval until its context is
// canceled. A manual endpoint trigger can run concurrently; the repository's
// claim makes the two passes safe together.
type OutboxEngine struct {
	cfg       *config.OutboxConfig
	outboxSvc outbox.IOutboxService
	logger    primary.Logger
}

// NewOutboxEngine creates a new outbox engine
func NewOutboxEngine(cfg *config.OutboxConfig, outboxSvc outbox.IOutboxService, logger primary.Logger) *OutboxEngine {
	return &OutboxEngine{
		cfg:       cfg,
		outboxSvc: outboxSvc,
		logger:    logger,
	}
}

// Start launches the processing loop. It returns immediately; the loop stops
// when ctx is canceled.
func (e *OutboxEngine) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(e.cfg.ProcessInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				e.logger.Info("Outbox engine stopped")
				return
			case <-ticker.C:
				e.runOnce(ctx)
			}
		}
	}()
}

func (e *OutboxEngine) runOnce(ctx context.Context) {
	summary, err := e.outboxSvc.ProcessBatch(ctx, e.cfg.BatchLimit)
	if err != nil {
		e.logger.Error("Outbox batch pass failed", "error", err)
		return
	}
	if summary.Claimed > 0 {
		e.logger.Info("Outbox batch pass completed",
			"claimed", summary.Claimed, "sent", summary.Sent,
			"retried", summary.Retried, "canceled", summary.Canceled)
	}
}
