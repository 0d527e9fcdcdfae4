// Package worker runs the scheduled maintenance jobs: idle conversation
// deactivation and expired memory deletion.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/mileusna/crontab"
	"github.com/rs/zerolog"

	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/conversation"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/domain/memory"
	"github.com/Syedazobiaamir/ai-wealth-companion-sub000/internal/infrastructure/metrics"
)

// jobTimeout bounds each sweep execution.
const jobTimeout = 5 * time.Minute

// Sweeper schedules the periodic cleanup jobs.
type Sweeper struct {
	ctab          *crontab.Crontab
	conversations *conversation.Service
	memories      *memory.Service
	intervalMin   int
	log           zerolog.Logger
}

// NewSweeper builds the sweeper. intervalMinutes controls the crontab
// schedule; 1 means every minute.
func NewSweeper(conversations *conversation.Service, memories *memory.Service, intervalMinutes int, log zerolog.Logger) *Sweeper {
	if intervalMinutes <= 0 {
		intervalMinutes = 1
	}
	return &Sweeper{
		ctab:          crontab.New(),
		conversations: conversations,
		memories:      memories,
		intervalMin:   intervalMinutes,
		log:           log.With().Str("component", "sweeper").Logger(),
	}
}

// Run schedules the sweep jobs and blocks until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) error {
	// execute once on server start
	s.sweep(ctx)

	cronExpr := "* * * * *"
	if s.intervalMin > 1 {
		cronExpr = fmt.Sprintf("*/%d * * * *", s.intervalMin)
	}
	if err := s.ctab.AddJob(cronExpr, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		s.sweep(jobCtx)
	}); err != nil {
		return fmt.Errorf("schedule sweep job: %w", err)
	}

	<-ctx.Done()
	s.ctab.Shutdown()
	return nil
}

func (s *Sweeper) sweep(ctx context.Context) {
	if closed, err := s.conversations.SweepIdle(ctx); err != nil {
		s.log.Error().Err(err).Msg("idle conversation sweep failed")
		metrics.SweepsTotal.WithLabelValues("conversations", "error").Inc()
	} else {
		if closed > 0 {
			s.log.Info().Int64("closed", closed).Msg("idle conversations deactivated")
		}
		metrics.SweepsTotal.WithLabelValues("conversations", "ok").Inc()
	}

	if purged, err := s.memories.SweepExpired(ctx); err != nil {
		s.log.Error().Err(err).Msg("expired memory sweep failed")
		metrics.SweepsTotal.WithLabelValues("memories", "error").Inc()
	} else {
		if purged > 0 {
			s.log.Info().Int64("purged", purged).Msg("expired memory entries deleted")
		}
		metrics.SweepsTotal.WithLabelValues("memories", "ok").Inc()
	}
}
