package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/estatefolio/investor-dashboard/internal/logging"
)

// Scheduler runs the periodic reconcile of every investor's summaries.
// It heals aggregations that failed after a property write and moves the
// growth series into a new month without waiting for a property change.
type Scheduler struct {
	cron        *cron.Cron
	aggregation *AggregationService
	timeout     time.Duration
}

// NewScheduler registers the reconcile job on the given cron schedule.
// The schedule uses the standard five-field format, evaluated in UTC.
func NewScheduler(schedule string, aggregation *AggregationService) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger{}),
			cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
		),
		aggregation: aggregation,
		timeout:     30 * time.Minute,
	}

	if _, err := s.cron.AddFunc(schedule, s.RunReconcile); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins executing scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		logging.Default().Warn("reconcile still running at shutdown")
	}
}

// RunReconcile reconciles every investor once.
func (s *Scheduler) RunReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	reconciled, err := s.aggregation.RecomputeAll(ctx, start)
	if err != nil {
		logging.Default().Error("reconcile finished with failures",
			zap.Int("reconciled", reconciled),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return
	}

	logging.Info("reconcile finished",
		zap.Int("reconciled", reconciled),
		zap.Duration("duration", time.Since(start)),
	)
}

// cronLogger adapts the global zap logger to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	logging.Default().Sugar().Debugw(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	logging.Default().Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
