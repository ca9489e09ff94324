package services

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/taskd/internal/models"
	"github.com/adanyl0v/taskd/internal/stats"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTaskNotFound       = errors.New("task not found")
	ErrTaskForbidden      = errors.New("task belongs to another user")
	ErrInvalidTask        = errors.New("invalid task")
	ErrInvalidTaskStatus  = errors.New("invalid task status")
)

type AuthService interface {
	// Register creates a user with the default role and issues a token for it.
	//
	// It returns ErrUserAlreadyExists if the username is taken. The store's
	// unique constraint decides, so concurrent registrations of the same
	// username cannot both succeed.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login checks the credentials and issues a token for the user.
	//
	// It returns ErrInvalidCredentials both when the user does not exist and
	// when the password does not match.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)
}

// UserService resolves user identities. It never mutates users.
type UserService interface {
	// GetByID returns ErrUserNotFound if there is no such user.
	GetByID(ctx context.Context, userID int64) (*models.User, error)

	// GetByUsername returns ErrUserNotFound if there is no such user.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// TaskService manages tasks on behalf of a requester. Every operation on an
// existing task returns ErrTaskForbidden when the requester is not its owner.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID int64, params TaskParams) (*models.Task, error)
	GetTask(ctx context.Context, requesterID, taskID int64) (*models.Task, error)

	// UpdateTask replaces title, description, status, priority and due date.
	UpdateTask(ctx context.Context, requesterID, taskID int64, params TaskParams) (*models.Task, error)

	// DeleteTask returns the task as it was before removal.
	DeleteTask(ctx context.Context, requesterID, taskID int64) (*models.Task, error)

	ListTasks(ctx context.Context, ownerID int64) ([]*models.Task, error)
}

// StatsService aggregates a user's tasks. Results are never cached.
type StatsService interface {
	Totals(ctx context.Context, userID int64) (stats.Totals, error)
	ByStatus(ctx context.Context, userID int64) ([]stats.StatusCount, error)
	ByPriority(ctx context.Context, userID int64) ([]stats.PriorityCount, error)
	NewTasksLastWeek(ctx context.Context, userID int64) ([]stats.DayCount, error)
}

// TokenIssuer signs a token for the given subject.
type TokenIssuer interface {
	Issue(subject string) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, storedHash string) (bool, error)
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

type LoginParams struct {
	Username string
	Password string
}

type AuthResult struct {
	UserID int64
	Token  string
}

type TaskParams struct {
	Title       string
	Description string
	Status      models.Status
	Priority    int
	DueDate     *time.Time
}
