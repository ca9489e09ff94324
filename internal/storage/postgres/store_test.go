package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/taskd/internal/models"
	"github.com/adanyl0v/taskd/internal/storage"
)

// openTestStore connects to TASKD_TEST_POSTGRES_URL and resets the schema.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	connURL := os.Getenv("TASKD_TEST_POSTGRES_URL")
	if connURL == "" {
		t.Skip("TASKD_TEST_POSTGRES_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connURL)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	_, err = pool.Exec(ctx, "DROP TABLE IF EXISTS tasks, users, "+storage.MigrationTable)
	if err != nil {
		pool.Close()
		t.Fatalf("reset schema: %v", err)
	}

	store := New(pool)
	t.Cleanup(func() {
		_ = store.Close()
	})
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func createUser(t *testing.T, store *Store, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$hash",
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := openTestStore(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := openTestStore(t)
	createUser(t, store, "alice")

	err := store.CreateUser(context.Background(), &models.User{
		Username:  "alice",
		Email:     "x@example.com",
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestTaskLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")

	task := &models.Task{
		UserID:    alice.ID,
		Title:     "draft",
		Status:    models.StatusTodo,
		Priority:  2,
		CreatedAt: time.Now().UTC(),
	}
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	if err := store.UpdateOwnedTask(ctx, bob.ID, &models.Task{ID: task.ID, Title: "x", Status: models.StatusTodo}); !errors.Is(err, storage.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	update := &models.Task{ID: task.ID, Title: "final", Status: models.StatusCompleted, Priority: 1}
	if err := store.UpdateOwnedTask(ctx, alice.ID, update); err != nil {
		t.Fatalf("update task: %v", err)
	}

	tasks, err := store.ListTasksByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "final" || tasks[0].Status != models.StatusCompleted {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}

	if _, err := store.DeleteOwnedTask(ctx, bob.ID, task.ID); !errors.Is(err, storage.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	deleted, err := store.DeleteOwnedTask(ctx, alice.ID, task.ID)
	if err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if deleted.Title != "final" {
		t.Fatalf("unexpected snapshot: %+v", deleted)
	}
	if _, err := store.GetTask(ctx, task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
