// Package storage defines the persistence ports for users and tasks.
package storage

import (
	"context"
	"errors"

	"github.com/adanyl0v/taskd/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNotOwner      = errors.New("record belongs to another user")
)

type UserStore interface {
	// CreateUser inserts u and sets its ID. It returns ErrAlreadyExists when
	// the username is taken; the unique constraint is the only arbiter.
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type TaskStore interface {
	// CreateTask inserts t and sets its ID.
	CreateTask(ctx context.Context, t *models.Task) error
	GetTask(ctx context.Context, id int64) (*models.Task, error)

	// UpdateOwnedTask replaces the mutable fields of the task with t.ID after
	// checking, in the same transaction, that it belongs to ownerID. On
	// success t is refreshed with the stored owner and creation time.
	UpdateOwnedTask(ctx context.Context, ownerID int64, t *models.Task) error

	// DeleteOwnedTask removes the task after the same ownership check and
	// returns its state prior to removal.
	DeleteOwnedTask(ctx context.Context, ownerID, id int64) (*models.Task, error)

	// ListTasksByOwner returns the owner's tasks ordered by creation time.
	ListTasksByOwner(ctx context.Context, ownerID int64) ([]*models.Task, error)
}

type Store interface {
	UserStore
	TaskStore

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}
