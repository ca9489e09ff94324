package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/adanyl0v/taskd/internal/models"
	"github.com/adanyl0v/taskd/internal/storage"
)

var taskColumns = []string{
	"id", "user_id", "title", "description", "status", "priority", "due_date", "created_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) CreateTask(ctx context.Context, t *models.Task) error {
	query, args, err := s.builder.
		Insert("tasks").
		Columns("user_id", "title", "description", "status", "priority", "due_date", "created_at").
		Values(t.UserID, t.Title, t.Description, string(t.Status), t.Priority, nullMillis(t.DueDate), toMillis(t.CreatedAt)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert task: %w", err)
	}

	if err := s.sqlDB.QueryRowContext(ctx, query, args...).Scan(&t.ID); err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

func (s *Store) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	return s.getTask(ctx, s.sqlDB, id)
}

func (s *Store) UpdateOwnedTask(ctx context.Context, ownerID int64, t *models.Task) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := s.getTask(ctx, tx, t.ID)
	if err != nil {
		return err
	}
	if existing.UserID != ownerID {
		return storage.ErrNotOwner
	}

	query, args, err := s.builder.
		Update("tasks").
		Set("title", t.Title).
		Set("description", t.Description).
		Set("status", string(t.Status)).
		Set("priority", t.Priority).
		Set("due_date", nullMillis(t.DueDate)).
		Where(sq.Eq{"id": t.ID, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update task: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	t.UserID = existing.UserID
	t.CreatedAt = existing.CreatedAt
	return nil
}

func (s *Store) DeleteOwnedTask(ctx context.Context, ownerID, id int64) (*models.Task, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := s.getTask(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if existing.UserID != ownerID {
		return nil, storage.ErrNotOwner
	}

	query, args, err := s.builder.
		Delete("tasks").
		Where(sq.Eq{"id": id, "user_id": ownerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build delete task: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return existing, nil
}

func (s *Store) ListTasksByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error) {
	query, args, err := s.builder.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"user_id": ownerID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select tasks: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
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

func (s *Store) getTask(ctx context.Context, q queryer, id int64) (*models.Task, error) {
	query, args, err := s.builder.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select task: %w", err)
	}

	t, err := scanTask(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t         models.Task
		status    string
		dueDate   sql.NullInt64
		createdAt int64
	)
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&status,
		&t.Priority,
		&dueDate,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	t.Status = models.Status(status)
	t.CreatedAt = fromMillis(createdAt)
	if dueDate.Valid {
		due := fromMillis(dueDate.Int64)
		t.DueDate = &due
	}
	return &t, nil
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}
