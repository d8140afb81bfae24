// Package scheduler runs the nightly valuation refresh on a cron spec.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/middleware"
)

// ValuationScheduler owns the cron instance driving periodic refreshes.
type ValuationScheduler struct {
	cron   *cron.Cron
	batch  portssvc.BatchSvcFacade
	logger *slog.Logger
}

// New creates a scheduler around the batch service. Call Start to arm it.
func New(batch portssvc.BatchSvcFacade, logger *slog.Logger) *ValuationScheduler {
	return &ValuationScheduler{
		cron:   cron.New(),
		batch:  batch,
		logger: logger,
	}
}

// Start registers the refresh job under the given cron spec and starts the
// scheduler. An empty spec disables scheduling; the HTTP trigger remains.
func (s *ValuationScheduler) Start(spec string) error {
	if spec == "" {
		s.logger.Info("Valuation schedule disabled")
		return nil
	}

	_, err := s.cron.AddFunc(spec, s.runRefresh)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("Valuation schedule armed", slog.String("spec", spec))
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *ValuationScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *ValuationScheduler) runRefresh() {
	jobLogger := s.logger.With(slog.String("job", "valuation_refresh"))
	ctx := middleware.WithLogger(context.Background(), jobLogger)

	summary, err := s.batch.RefreshValuations(ctx, nil, false)
	if err != nil {
		jobLogger.Error("Scheduled valuation refresh failed", slog.String("error", err.Error()))
		return
	}
	jobLogger.Info("Scheduled valuation refresh finished",
		slog.Int("processed", summary.AccountsProcessed),
		slog.Int("updated", summary.AccountsUpdated))
}
