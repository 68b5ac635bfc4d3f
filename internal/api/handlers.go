// Package api exposes the synchronous REST boundary: task lifecycle
// operations for dashboards and patient CRUD.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kolapsis/wardlink/internal/patient"
	"github.com/kolapsis/wardlink/internal/task"
)

// TaskService is the lifecycle surface the handlers consume.
type TaskService interface {
	CreateTask(ctx context.Context, patientID, name, scheduledTime string) (*task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	ListTasks(ctx context.Context) ([]*task.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Handlers bundles the REST handler dependencies.
type Handlers struct {
	Tasks    TaskService
	Patients patient.Repository
}

// Routes registers all REST routes on a fresh chi router.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/tasks", h.createTask)
	r.Get("/tasks", h.listTasks)
	r.Get("/tasks/{id}/status", h.taskStatus)
	r.Delete("/tasks/{id}", h.deleteTask)

	r.Post("/patients", h.createPatient)
	r.Get("/patients", h.listPatients)
	r.Put("/patients/{id}", h.updatePatient)
	r.Delete("/patients/{id}", h.deletePatient)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// --- Task handlers ---

type createTaskRequest struct {
	PatientID string `json:"patientId"`
	TaskName  string `json:"taskName"`
	TaskTime  string `json:"taskTime"`
}

func (h *Handlers) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PatientID == "" || req.TaskName == "" || req.TaskTime == "" {
		writeError(w, http.StatusBadRequest, "patientId, taskName and taskTime are required")
		return
	}

	t, err := h.Tasks.CreateTask(r.Context(), req.PatientID, req.TaskName, req.TaskTime)
	if errors.Is(err, patient.ErrNotFound) {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	if err != nil {
		slog.Error("create task", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, t)
}

func (h *Handlers) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.Tasks.ListTasks(r.Context())
	if err != nil {
		slog.Error("list tasks", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *Handlers) taskStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, err := h.Tasks.GetTask(r.Context(), id)
	if errors.Is(err, task.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		slog.Error("get task", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"taskId": t.ID,
		"status": t.Status,
	})
}

func (h *Handlers) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Tasks.DeleteTask(r.Context(), id)
	if errors.Is(err, task.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		slog.Error("delete task", "task_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "task deleted"})
}

// --- Patient handlers ---

type patientRequest struct {
	Name     string `json:"name"`
	Room     string `json:"room"`
	Medicine string `json:"medicine"`
}

func (h *Handlers) createPatient(w http.ResponseWriter, r *http.Request) {
	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := patient.New(req.Name, req.Room, req.Medicine)
	if err := h.Patients.CreatePatient(r.Context(), p); err != nil {
		slog.Error("create patient", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) listPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.Patients.ListPatients(r.Context())
	if err != nil {
		slog.Error("list patients", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if patients == nil {
		patients = []*patient.Patient{}
	}
	writeJSON(w, http.StatusOK, patients)
}

func (h *Handlers) updatePatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req patientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := &patient.Patient{ID: id, Name: req.Name, Room: req.Room, Medicine: req.Medicine}
	err := h.Patients.UpdatePatient(r.Context(), p)
	if errors.Is(err, patient.ErrNotFound) {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	if err != nil {
		slog.Error("update patient", "patient_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) deletePatient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.Patients.DeletePatient(r.Context(), id)
	if errors.Is(err, patient.ErrNotFound) {
		writeError(w, http.StatusNotFound, "patient not found")
		return
	}
	if err != nil {
		slog.Error("delete patient", "patient_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "patient deleted"})
}
