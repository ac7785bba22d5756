// internal/workers/conflict_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	redis_a "github.com/basefinder/basefinder-be/internal/adapters/redis_adapter"
	"github.com/basefinder/basefinder-be/internal/core/ports"
)

// ConflictSweepProcessor periodically scans the warehouse for slots holding
// more than one active sample. Conflicts are never repaired automatically;
// the sweep caches the current set and notifies operators so a person can
// resolve them through the API.
type ConflictSweepProcessor struct {
	repo        ports.SampleRepository
	cache       ports.CacheRepository
	asynqClient *asynq.Client
	alertEmail  string
	logger      *slog.Logger
}

// NewConflictSweepProcessor creates a new conflict sweep processor.
// alertEmail may be empty to disable notifications.
func NewConflictSweepProcessor(repo ports.SampleRepository, cache ports.CacheRepository, asynqClient *asynq.Client, alertEmail string, logger *slog.Logger) *ConflictSweepProcessor {
	return &ConflictSweepProcessor{
		repo:        repo,
		cache:       cache,
		asynqClient: asynqClient,
		alertEmail:  alertEmail,
		logger:      logger.With(slog.String("processor", "conflict_sweep")),
	}
}

// SweepConflicts handles conflicts:sweep tasks
func (p *ConflictSweepProcessor) SweepConflicts(ctx context.Context, t *asynq.Task) error {
	p.logger.InfoContext(ctx, "sweeping for slot conflicts")

	groups, err := p.repo.FindConflicts(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to scan for conflicts: %w", err)
	}

	cacheKey := redis_a.BuildKey(redis_a.PrefixConflicts, "all")
	if err := p.cache.SetWithTTL(ctx, cacheKey, groups, 30*time.Minute); err != nil {
		p.logger.WarnContext(ctx, "failed to cache conflict sweep result", slog.Any("error", err))
	}

	if len(groups) == 0 {
		p.logger.InfoContext(ctx, "no conflicts found")
		return nil
	}

	total := 0
	for _, g := range groups {
		total += g.NumberOfConflicts
		p.logger.WarnContext(ctx, "conflicting slot detected",
			slog.Int("shelf", g.Shelf),
			slog.Int("division", g.Division),
			slog.Int("position", g.ConflictingPosition),
			slog.Int("samples", g.NumberOfConflicts))
	}

	p.logger.WarnContext(ctx, "conflict sweep completed",
		slog.Int("conflicting_slots", len(groups)),
		slog.Int("samples_involved", total))

	if p.alertEmail != "" && p.asynqClient != nil {
		if err := p.enqueueAlert(len(groups), total); err != nil {
			p.logger.WarnContext(ctx, "failed to enqueue conflict alert", slog.Any("error", err))
		}
	}

	return nil
}

func (p *ConflictSweepProcessor) enqueueAlert(slots, samples int) error {
	task, err := NewEmailTask(
		p.alertEmail,
		"Sample slot conflicts detected",
		fmt.Sprintf("The conflict sweep found %d slots holding %d samples in total. Please resolve them in the warehouse console.", slots, samples),
	)
	if err != nil {
		return err
	}
	_, err = p.asynqClient.Enqueue(task, asynq.Queue("low"))
	return err
}
