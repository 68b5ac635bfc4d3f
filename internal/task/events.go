package task

// Event type values on the wire. Clients switch on the "type" field.
const (
	EventNewTask      = "new_task"
	EventStatusUpdate = "update_task_status"
)

// CreatedEvent announces a newly created task to every observer.
type CreatedEvent struct {
	Type string `json:"type"`
	Task *Task  `json:"task"`
}

// StatusEvent announces a worker-reported status change.
type StatusEvent struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

// Broadcaster fans an event out to every connected observer.
// Delivery is best-effort: at most once per currently-connected
// observer, never replayed to late joiners.
type Broadcaster interface {
	Publish(v any)
}
