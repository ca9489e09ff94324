package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is the closed set of states a task can be in.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

var ErrInvalidStatus = errors.New("invalid task status")

// ValidStatuses returns all statuses in declaration order.
func ValidStatuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusCompleted}
}

func (s Status) IsValid() bool {
	return s.Rank() >= 0
}

// Rank returns the position of s in ValidStatuses or -1.
func (s Status) Rank() int {
	for i, valid := range ValidStatuses() {
		if s == valid {
			return i
		}
	}
	return -1
}

// ParseStatus converts a wire value into a Status. Matching is exact.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.IsValid() {
		valid := make([]string, 0, len(ValidStatuses()))
		for _, s := range ValidStatuses() {
			valid = append(valid, string(s))
		}
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrInvalidStatus, raw, strings.Join(valid, ", "))
	}
	return status, nil
}

type Task struct {
	ID          int64
	UserID      int64
	Title       string
	Description string
	Status      Status
	Priority    int
	DueDate     *time.Time
	CreatedAt   time.Time
}
