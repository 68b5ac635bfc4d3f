package task

import (
	"time"

	"github.com/google/uuid"
)

// CommandDeliver is the only action the delivery worker understands.
const CommandDeliver = "deliver"

// Conventional status values. The worker is the authority on its own
// execution state, so Status stays an open string: these constants cover
// the values the dashboard knows how to render, nothing more.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task is one medicine delivery for one patient, tracked through a
// worker-reported status field.
type Task struct {
	ID            string    `json:"taskId"`
	PatientID     string    `json:"patientId"`
	Name          string    `json:"taskName"`
	ScheduledTime string    `json:"taskTime"`
	Command       string    `json:"command"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// New creates a pending delivery task for the given patient.
func New(patientID, name, scheduledTime string) *Task {
	return &Task{
		ID:            uuid.NewString(),
		PatientID:     patientID,
		Name:          name,
		ScheduledTime: scheduledTime,
		Command:       CommandDeliver,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}
}
