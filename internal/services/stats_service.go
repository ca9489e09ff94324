package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskd/internal/models"
	"github.com/adanyl0v/taskd/internal/stats"
	"github.com/adanyl0v/taskd/internal/storage"
)

type statsServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskStore
	now    func() time.Time
}

func NewStatsService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
) StatsService {
	return &statsServiceImpl{
		logger: logger,
		tasks:  tasks,
		now:    time.Now,
	}
}

func (s *statsServiceImpl) Totals(ctx context.Context, userID int64) (stats.Totals, error) {
	tasks, err := s.load(ctx, userID)
	if err != nil {
		return stats.Totals{}, err
	}
	return stats.ComputeTotals(tasks), nil
}

func (s *statsServiceImpl) ByStatus(ctx context.Context, userID int64) ([]stats.StatusCount, error) {
	tasks, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.ByStatus(tasks), nil
}

func (s *statsServiceImpl) ByPriority(ctx context.Context, userID int64) ([]stats.PriorityCount, error) {
	tasks, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.ByPriority(tasks), nil
}

func (s *statsServiceImpl) NewTasksLastWeek(ctx context.Context, userID int64) ([]stats.DayCount, error) {
	tasks, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return stats.NewTasksLastWeek(tasks, s.now()), nil
}

func (s *statsServiceImpl) load(ctx context.Context, userID int64) ([]*models.Task, error) {
	tasks, err := s.tasks.ListTasksByOwner(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", userID).
			Msg("failed to select tasks for stats")
		return nil, err
	}
	return tasks, nil
}
