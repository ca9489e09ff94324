package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/adanyl0v/taskd/internal/models"
	"github.com/adanyl0v/taskd/internal/storage"
)

const selectTaskColumns = `
SELECT id,
       user_id,
       title,
       description,
       status,
       priority,
       due_date,
       created_at
FROM tasks
`

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (user_id,
                   title,
                   description,
                   status,
                   priority,
                   due_date,
                   created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	err := s.pgPool.QueryRow(
		ctx,
		insertTaskQuery,
		t.UserID,
		t.Title,
		t.Description,
		string(t.Status),
		t.Priority,
		t.DueDate,
		t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	const selectTaskByIDQuery = selectTaskColumns + `WHERE id = $1`

	t, err := scanTask(s.pgPool.QueryRow(ctx, selectTaskByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}

func (s *Store) UpdateOwnedTask(ctx context.Context, ownerID int64, t *models.Task) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	existing, err := lockTask(ctx, tx, t.ID)
	if err != nil {
		return err
	}
	if existing.UserID != ownerID {
		return storage.ErrNotOwner
	}

	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    status = $3,
    priority = $4,
    due_date = $5
WHERE id = $6
`
	_, err = tx.Exec(
		ctx,
		updateTaskQuery,
		t.Title,
		t.Description,
		string(t.Status),
		t.Priority,
		t.DueDate,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	t.UserID = existing.UserID
	t.CreatedAt = existing.CreatedAt
	return nil
}

func (s *Store) DeleteOwnedTask(ctx context.Context, ownerID, id int64) (*models.Task, error) {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	existing, err := lockTask(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != ownerID {
		return nil, storage.ErrNotOwner
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	if _, err := tx.Exec(ctx, deleteTaskQuery, id); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return existing, nil
}

func (s *Store) ListTasksByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	const selectTasksByOwnerQuery = selectTaskColumns + `
WHERE user_id = $1
ORDER BY created_at, id
`
	rows, err := s.pgPool.Query(ctx, selectTasksByOwnerQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

// lockTask selects the task row FOR UPDATE inside tx.
func lockTask(ctx context.Context, tx pgx.Tx, id int64) (*models.Task, error) {
	const lockTaskQuery = selectTaskColumns + `
WHERE id = $1
FOR UPDATE
`
	t, err := scanTask(tx.QueryRow(ctx, lockTaskQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("select task for update: %w", err)
	}
	return t, nil
}

func scanTask(row pgx.Row) (*models.Task, error) {
	var (
		t      models.Task
		status string
	)
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&status,
		&t.Priority,
		&t.DueDate,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Status = models.Status(status)
	return &t, nil
}
