package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/adanyl0v/taskd/internal/models"
	"github.com/adanyl0v/taskd/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "taskd.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	if err := store.Migrate(context.Background()); err != nil {
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
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := store.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createTask(t *testing.T, store *Store, ownerID int64, title string) *models.Task {
	t.Helper()
	task := &models.Task{
		UserID:    ownerID,
		Title:     title,
		Status:    models.StatusTodo,
		Priority:  2,
		CreatedAt: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
	}
	if err := store.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStoreDBNilSafe(t *testing.T) {
	var store *Store
	if store.DB() != nil {
		t.Fatal("expected nil DB for nil store")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("expected nil close error, got %v", err)
	}
}

func TestOpenLeavesSchemaAlone(t *testing.T) {
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "taskd.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	var count int
	err = store.DB().QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'tasks')").Scan(&count)
	if err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no tables before Migrate, got %d", count)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	err = store.DB().QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'tasks')").Scan(&count)
	if err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 tables after Migrate, got %d", count)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := openTempStore(t)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	var count int
	err := store.DB().QueryRow("SELECT COUNT(*) FROM " + storage.MigrationTable).Scan(&count)
	if err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 applied migration, got %d", count)
	}
}

func TestCreateGetUserRoundTrip(t *testing.T) {
	store := openTempStore(t)
	created := createUser(t, store, "alice")
	if created.ID == 0 {
		t.Fatal("expected generated id")
	}

	byID, err := store.GetUserByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get user by id: %v", err)
	}
	byName, err := store.GetUserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("get user by username: %v", err)
	}
	for _, got := range []*models.User{byID, byName} {
		if got.ID != created.ID || got.Username != "alice" || got.Email != "alice@example.com" ||
			got.Role != models.RoleUser || !got.CreatedAt.Equal(created.CreatedAt) {
			t.Fatalf("unexpected user: %+v", got)
		}
	}
}

func TestGetUserNotFound(t *testing.T) {
	store := openTempStore(t)
	if _, err := store.GetUserByID(context.Background(), 99); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetUserByUsername(context.Background(), "ghost"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := openTempStore(t)
	createUser(t, store, "alice")

	err := store.CreateUser(context.Background(), &models.User{
		Username:     "alice",
		Email:        "other@example.com",
		PasswordHash: "x",
		Role:         models.RoleUser,
		CreatedAt:    time.Now(),
	})
	if !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateUserConcurrentDuplicates(t *testing.T) {
	store := openTempStore(t)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
		failures  []error
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.CreateUser(context.Background(), &models.User{
				Username:     "racer",
				Email:        "racer@example.com",
				PasswordHash: "x",
				Role:         models.RoleUser,
				CreatedAt:    time.Now(),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, storage.ErrAlreadyExists):
				conflicts++
			default:
				failures = append(failures, err)
			}
		}()
	}
	wg.Wait()

	if len(failures) > 0 {
		t.Fatalf("unexpected errors: %v", failures)
	}
	if succeeded != 1 || conflicts != workers-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", workers-1, succeeded, conflicts)
	}
}

func TestCreateGetTaskRoundTrip(t *testing.T) {
	store := openTempStore(t)
	owner := createUser(t, store, "alice")

	due := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	input := &models.Task{
		UserID:      owner.ID,
		Title:       "write report",
		Description: "quarterly",
		Status:      models.StatusInProgress,
		Priority:    3,
		DueDate:     &due,
		CreatedAt:   time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC),
	}
	if err := store.CreateTask(context.Background(), input); err != nil {
		t.Fatalf("create task: %v", err)
	}
	if input.ID == 0 {
		t.Fatal("expected generated id")
	}

	got, err := store.GetTask(context.Background(), input.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.UserID != owner.ID || got.Title != input.Title || got.Description != input.Description ||
		got.Status != input.Status || got.Priority != input.Priority || !got.CreatedAt.Equal(input.CreatedAt) {
		t.Fatalf("unexpected task: %+v", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("unexpected due date: %v", got.DueDate)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	store := openTempStore(t)
	if _, err := store.GetTask(context.Background(), 1); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateTaskRejectsUnknownStatus(t *testing.T) {
	store := openTempStore(t)
	owner := createUser(t, store, "alice")

	err := store.CreateTask(context.Background(), &models.Task{
		UserID:    owner.ID,
		Title:     "bad",
		Status:    models.Status("BOGUS"),
		CreatedAt: time.Now(),
	})
	if err == nil {
		t.Fatal("expected check constraint to reject unknown status")
	}
}

func TestUpdateOwnedTask(t *testing.T) {
	store := openTempStore(t)
	owner := createUser(t, store, "alice")
	task := createTask(t, store, owner.ID, "draft")

	update := &models.Task{
		ID:        task.ID,
		UserID:    12345,
		Title:     "final",
		Status:    models.StatusCompleted,
		Priority:  1,
		CreatedAt: time.Now(),
	}
	if err := store.UpdateOwnedTask(context.Background(), owner.ID, update); err != nil {
		t.Fatalf("update task: %v", err)
	}
	if update.UserID != owner.ID || !update.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("owner and creation time must be immutable: %+v", update)
	}

	got, err := store.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != "final" || got.Status != models.StatusCompleted || got.Priority != 1 ||
		got.UserID != owner.ID || !got.CreatedAt.Equal(task.CreatedAt) {
		t.Fatalf("unexpected task after update: %+v", got)
	}
}

func TestUpdateOwnedTaskRejectsOtherOwner(t *testing.T) {
	store := openTempStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	task := createTask(t, store, alice.ID, "private")

	err := store.UpdateOwnedTask(context.Background(), bob.ID, &models.Task{
		ID:     task.ID,
		Title:  "hijacked",
		Status: models.StatusTodo,
	})
	if !errors.Is(err, storage.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	got, err := store.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Title != "private" {
		t.Fatalf("task was modified: %+v", got)
	}
}

func TestUpdateOwnedTaskNotFound(t *testing.T) {
	store := openTempStore(t)
	owner := createUser(t, store, "alice")
	err := store.UpdateOwnedTask(context.Background(), owner.ID, &models.Task{ID: 404, Status: models.StatusTodo})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOwnedTaskReturnsSnapshot(t *testing.T) {
	store := openTempStore(t)
	owner := createUser(t, store, "alice")
	task := createTask(t, store, owner.ID, "temporary")

	deleted, err := store.DeleteOwnedTask(context.Background(), owner.ID, task.ID)
	if err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if deleted.ID != task.ID || deleted.Title != "temporary" {
		t.Fatalf("unexpected snapshot: %+v", deleted)
	}

	if _, err := store.GetTask(context.Background(), task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if _, err := store.DeleteOwnedTask(context.Background(), owner.ID, task.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestDeleteOwnedTaskRejectsOtherOwner(t *testing.T) {
	store := openTempStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	task := createTask(t, store, alice.ID, "private")

	if _, err := store.DeleteOwnedTask(context.Background(), bob.ID, task.ID); !errors.Is(err, storage.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, err := store.GetTask(context.Background(), task.ID); err != nil {
		t.Fatalf("task should still exist: %v", err)
	}
}

func TestListTasksByOwnerIsScoped(t *testing.T) {
	store := openTempStore(t)
	alice := createUser(t, store, "alice")
	bob := createUser(t, store, "bob")
	createTask(t, store, alice.ID, "a1")
	createTask(t, store, bob.ID, "b1")
	createTask(t, store, alice.ID, "a2")

	tasks, err := store.ListTasksByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.UserID != alice.ID {
			t.Fatalf("leaked task from another owner: %+v", task)
		}
	}
	if tasks[0].Title != "a1" || tasks[1].Title != "a2" {
		t.Fatalf("expected creation order, got %q, %q", tasks[0].Title, tasks[1].Title)
	}
}

func TestListTasksByOwnerEmpty(t *testing.T) {
	store := openTempStore(t)
	tasks, err := store.ListTasksByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", tasks)
	}
}
