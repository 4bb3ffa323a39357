package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/payment-ops/internal/service"
)

// TriageWorker periodically sweeps the pending backlog through a triage run.
type TriageWorker struct {
	triage   *service.TriageService
	interval time.Duration
	logger   *zap.Logger
}

// NewTriageWorker constructs the worker. A non-positive interval disables it.
func NewTriageWorker(triage *service.TriageService, interval time.Duration, logger *zap.Logger) *TriageWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TriageWorker{triage: triage, interval: interval, logger: logger}
}

// Start launches the periodic loop. It returns immediately; the loop stops
// when ctx is cancelled.
func (w *TriageWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		w.logger.Info("periodic triage disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		w.logger.Info("periodic triage started", zap.Duration("interval", w.interval))
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("periodic triage stopped")
				return
			case <-ticker.C:
				summary, err := w.triage.RunOnce(ctx)
				if err != nil {
					w.logger.Error("scheduled triage run failed", zap.Error(err))
					continue
				}
				w.logger.Info("scheduled triage run finished",
					zap.String("run_id", summary.RunID),
					zap.Int("payments", summary.TotalPayments),
					zap.Int("errors", len(summary.Errors)))
			}
		}
	}()
}
