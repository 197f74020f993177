package processor

import (
	"context"

	"flexreviews/pkg/logger"
	"flexreviews/reviews-service/internal/app/reviews/service"

	"github.com/robfig/cron/v3"
)

type ReviewSyncer interface {
	SyncGoogleReviews(ctx context.Context) (service.SyncResult, error)
}

// CronScheduler периодически запускает синхронизацию отзывов внешних каналов
type CronScheduler struct {
	cron   *cron.Cron
	syncer ReviewSyncer
}

func NewCronScheduler(syncer ReviewSyncer) *CronScheduler {
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(logger.Printf{})),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	return &CronScheduler{
		cron:   c,
		syncer: syncer,
	}
}

// Start регистрирует задачу, запускает cron и сразу делает первый прогон
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.run(ctx, "scheduled")
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")

	s.run(ctx, "initial")

	return nil
}

func (s *CronScheduler) run(ctx context.Context, trigger string) {
	result, err := s.syncer.SyncGoogleReviews(ctx)
	if err != nil {
		logger.Error().Err(err).Str("trigger", trigger).Msg("Google reviews sync failed")
		return
	}

	logger.Info().
		Str("trigger", trigger).
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Msg("Google reviews sync completed")
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
