package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kolapsis/wardlink/internal/patient"
)

// Controller owns the task lifecycle. It is the only component that
// mutates a task's status: dashboards create and delete tasks through
// it, the worker's status reports are routed into it by the gateway,
// and every applied transition is persisted before it is broadcast.
type Controller struct {
	repo     Repository
	patients patient.Repository
	bus      Broadcaster
}

// NewController creates a Controller backed by the given repositories
// and broadcaster.
func NewController(repo Repository, patients patient.Repository, bus Broadcaster) *Controller {
	return &Controller{
		repo:     repo,
		patients: patients,
		bus:      bus,
	}
}

// CreateTask creates a pending delivery task for an existing patient,
// persists it and announces it to every observer.
// Returns patient.ErrNotFound when the patient id does not resolve.
func (c *Controller) CreateTask(ctx context.Context, patientID, name, scheduledTime string) (*Task, error) {
	if _, err := c.patients.GetPatient(ctx, patientID); err != nil {
		return nil, fmt.Errorf("resolving patient %q: %w", patientID, err)
	}

	t := New(patientID, name, scheduledTime)
	if err := c.repo.CreateTask(ctx, t); err != nil {
		return nil, fmt.Errorf("persisting task: %w", err)
	}

	slog.Info("task created",
		"task_id", t.ID,
		"patient_id", t.PatientID,
		"name", t.Name)

	c.bus.Publish(CreatedEvent{Type: EventNewTask, Task: t})
	return t, nil
}

// ReportStatus applies a worker-reported status transition. The status
// value is recorded as-is: the worker is the authority on its own
// execution state and the server does not enforce a closed value set.
//
// A report for an unknown task id is dropped silently — the dashboard
// may have deleted the task while the worker was still executing it,
// and the channel has no response semantics to surface an error on.
func (c *Controller) ReportStatus(ctx context.Context, taskID, status string) error {
	err := c.repo.UpdateTaskStatus(ctx, taskID, status)
	if errors.Is(err, ErrNotFound) {
		slog.Warn("status report for unknown task dropped",
			"task_id", taskID,
			"status", status)
		return nil
	}
	if err != nil {
		return fmt.Errorf("persisting status: %w", err)
	}

	slog.Info("task status updated", "task_id", taskID, "status", status)

	c.bus.Publish(StatusEvent{Type: EventStatusUpdate, TaskID: taskID, Status: status})
	return nil
}

// DeleteTask removes a task at any status. No event is broadcast:
// observers learn of deletions on their next full list refresh.
func (c *Controller) DeleteTask(ctx context.Context, taskID string) error {
	if err := c.repo.DeleteTask(ctx, taskID); err != nil {
		return fmt.Errorf("deleting task %q: %w", taskID, err)
	}

	slog.Info("task deleted", "task_id", taskID)
	return nil
}

// GetTask returns a task by id.
func (c *Controller) GetTask(ctx context.Context, id string) (*Task, error) {
	return c.repo.GetTask(ctx, id)
}

// ListTasks returns all tasks in stable order.
func (c *Controller) ListTasks(ctx context.Context) ([]*Task, error) {
	return c.repo.ListTasks(ctx)
}
