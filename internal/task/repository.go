package task

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no task exists for the requested id.
var ErrNotFound = errors.New("task not found")

// Repository is the persistence interface for tasks.
// Defined at the consumer side per Go conventions; the SQLite
// implementation lives in internal/store.
type Repository interface {
	CreateTask(ctx context.Context, t *Task) error
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)
	UpdateTaskStatus(ctx context.Context, id, status string) error
	DeleteTask(ctx context.Context, id string) error
}
