package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskd/internal/models"
	"github.com/adanyl0v/taskd/internal/storage"
)

// timePrecision is the coarsest precision any store keeps. Timestamps are
// truncated to it before persisting so that a task reads back unchanged.
const timePrecision = time.Millisecond

type taskServiceImpl struct {
	logger zerolog.Logger
	tasks  storage.TaskStore
	now    func() time.Time
}

func NewTaskService(
	logger zerolog.Logger,
	tasks storage.TaskStore,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		tasks:  tasks,
		now:    time.Now,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, ownerID int64, params TaskParams) (*models.Task, error) {
	err := params.validate()
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", ownerID).
			Msg("invalid task")
		return nil, err
	}

	task := &models.Task{
		UserID:      ownerID,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
		DueDate:     storedTime(params.DueDate),
		CreatedAt:   s.now().UTC().Truncate(timePrecision),
	}

	err = s.tasks.CreateTask(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", ownerID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, requesterID, taskID int64) (*models.Task, error) {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, s.storeError(err, "failed to select task", requesterID, taskID)
	}
	if task.UserID != requesterID {
		return nil, s.storeError(storage.ErrNotOwner, "", requesterID, taskID)
	}

	s.logger.Debug().
		Int64("task_id", task.ID).
		Msg("selected task")
	return task, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, requesterID, taskID int64, params TaskParams) (*models.Task, error) {
	err := params.validate()
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg("invalid task")
		return nil, err
	}

	task := &models.Task{
		ID:          taskID,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
		DueDate:     storedTime(params.DueDate),
	}

	err = s.tasks.UpdateOwnedTask(ctx, requesterID, task)
	if err != nil {
		return nil, s.storeError(err, "failed to update task", requesterID, taskID)
	}

	s.logger.Info().
		Int64("task_id", task.ID).
		Int64("user_id", requesterID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, requesterID, taskID int64) (*models.Task, error) {
	task, err := s.tasks.DeleteOwnedTask(ctx, requesterID, taskID)
	if err != nil {
		return nil, s.storeError(err, "failed to delete task", requesterID, taskID)
	}

	s.logger.Info().
		Int64("task_id", taskID).
		Int64("user_id", requesterID).
		Msg("deleted task")
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	tasks, err := s.tasks.ListTasksByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", ownerID).
			Msg("failed to select tasks by user id")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Int64("user_id", ownerID).
		Msg("selected tasks by user id")
	return tasks, nil
}

// storeError maps storage errors onto service errors and logs them.
func (s *taskServiceImpl) storeError(err error, msg string, requesterID, taskID int64) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		s.logger.Error().
			Int64("task_id", taskID).
			Msg("task not found")
		return ErrTaskNotFound
	case errors.Is(err, storage.ErrNotOwner):
		s.logger.Warn().
			Int64("task_id", taskID).
			Int64("user_id", requesterID).
			Msg("task belongs to another user")
		return ErrTaskForbidden
	default:
		s.logger.Error().
			Err(err).
			Int64("task_id", taskID).
			Msg(msg)
		return err
	}
}

func (p TaskParams) validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if !p.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTaskStatus, p.Status)
	}
	return nil
}

func storedTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	stored := t.UTC().Truncate(timePrecision)
	return &stored
}
