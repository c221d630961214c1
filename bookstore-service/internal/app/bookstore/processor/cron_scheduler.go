package processor

import (
	"context"
	"fmt"

	"bookstore/pkg/logger"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CacheWarmer - то, что умеет заново заполнить кеш каталога
type CacheWarmer interface {
	WarmCache(ctx context.Context) error
}

// CronScheduler периодически прогревает кеш каталога
type CronScheduler struct {
	cron   *cron.Cron
	warmer CacheWarmer
	log    zerolog.Logger
}

func NewCronScheduler(warmer CacheWarmer) *CronScheduler {
	c := cron.New(cron.WithLogger(cron.PrintfLogger(logger.Get())))

	return &CronScheduler{
		cron:   c,
		warmer: warmer,
		log:    logger.With().Str("component", "cache_warmer").Logger(),
	}
}

// Start регистрирует задачу, запускает планировщик и сразу выполняет первый прогрев.
// Ошибка первого прогрева не останавливает запуск.
func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	s.log.Info().Str("schedule", schedule).Msg("Starting catalog cache warmer")

	_, err := s.cron.AddFunc(schedule, func() {
		s.warm(ctx, "scheduled")
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cache warmer: %w", err)
	}

	s.cron.Start()
	s.warm(ctx, "initial")

	return nil
}

func (s *CronScheduler) Stop() {
	s.log.Info().Msg("Stopping catalog cache warmer...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("Catalog cache warmer stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}

func (s *CronScheduler) warm(ctx context.Context, trigger string) {
	if err := s.warmer.WarmCache(ctx); err != nil {
		s.log.Warn().Err(err).Str("trigger", trigger).Msg("Failed to warm catalog cache")
		return
	}
	s.log.Debug().Str("trigger", trigger).Msg("Catalog cache warm completed")
}
