package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolapsis/wardlink/internal/patient"
	"github.com/kolapsis/wardlink/internal/store"
	"github.com/kolapsis/wardlink/internal/task"
)

// nopBus drops every event; broadcast behavior is covered by the hub
// and gateway tests.
type nopBus struct{}

func (nopBus) Publish(any) {}

func newTestServer(t *testing.T) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()

	db, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	controller := task.NewController(db, db, nopBus{})
	h := &Handlers{Tasks: controller, Patients: db}

	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv, db
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createTestPatient(t *testing.T, db *store.SQLiteStore) *patient.Patient {
	t.Helper()
	p := patient.New("Ada", "301", "aspirin")
	require.NoError(t, db.CreatePatient(context.Background(), p))
	return p
}

func TestCreateTask_ReturnsPendingTask(t *testing.T) {
	t.Parallel()
	srv, db := newTestServer(t)
	p := createTestPatient(t, db)

	resp := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]string{
		"patientId": p.ID,
		"taskName":  "morning round",
		"taskTime":  "08:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decode[task.Task](t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, p.ID, created.PatientID)
	assert.Equal(t, "morning round", created.Name)
	assert.Equal(t, "08:00", created.ScheduledTime)
	assert.Equal(t, task.CommandDeliver, created.Command)
	assert.Equal(t, task.StatusPending, created.Status)
}

func TestCreateTask_UnknownPatient_Returns404(t *testing.T) {
	t.Parallel()
	srv, db := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]string{
		"patientId": "patient-nope",
		"taskName":  "x",
		"taskTime":  "09:00",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	tasks, err := db.ListTasks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks, "no record for a rejected create")
}

func TestCreateTask_MissingFields_Returns400(t *testing.T) {
	t.Parallel()
	srv, db := newTestServer(t)
	p := createTestPatient(t, db)

	for name, body := range map[string]map[string]string{
		"no patientId": {"taskName": "x", "taskTime": "09:00"},
		"no taskName":  {"patientId": p.ID, "taskTime": "09:00"},
		"no taskTime":  {"patientId": p.ID, "taskName": "x"},
	} {
		resp := doJSON(t, http.MethodPost, srv.URL+"/tasks", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, name)
	}
}

func TestGetTaskStatus_AfterCreate_IsPending(t *testing.T) {
	t.Parallel()
	srv, db := newTestServer(t)
	p := createTestPatient(t, db)

	resp := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]string{
		"patientId": p.ID, "taskName": "x", "taskTime": "09:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[task.Task](t, resp)

	resp = doJSON(t, http.MethodGet, srv.URL+"/tasks/"+created.ID+"/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status := decode[map[string]string](t, resp)
	assert.Equal(t, created.ID, status["taskId"])
	assert.Equal(t, task.StatusPending, status["status"])
}

func TestGetTaskStatus_Unknown_Returns404(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/tasks/task-gone/status", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListTasks_IncludesTasksCreatedBeforeConnect(t *testing.T) {
	t.Parallel()
	srv, db := newTestServer(t)
	p := createTestPatient(t, db)

	for i := 0; i < 3; i++ {
		resp := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]string{
			"patientId": p.ID, "taskName": fmt.Sprintf("round %d", i), "taskTime": "09:00",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := doJSON(t, http.MethodGet, srv.URL+"/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tasks := decode[[]task.Task](t, resp)
	assert.Len(t, tasks, 3)
}

func TestListTasks_Empty_ReturnsEmptyArray(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/tasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	tasks := decode[[]task.Task](t, resp)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()
	srv, db := newTestServer(t)
	p := createTestPatient(t, db)

	resp := doJSON(t, http.MethodPost, srv.URL+"/tasks", map[string]string{
		"patientId": p.ID, "taskName": "x", "taskTime": "09:00",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[task.Task](t, resp)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPatientCRUD(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/patients", map[string]string{
		"name": "Ada", "room": "301", "medicine": "aspirin",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[patient.Patient](t, resp)
	require.NotEmpty(t, created.ID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/patients", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	patients := decode[[]patient.Patient](t, resp)
	require.Len(t, patients, 1)

	resp = doJSON(t, http.MethodPut, srv.URL+"/patients/"+created.ID, map[string]string{
		"name": "Ada", "room": "305", "medicine": "aspirin",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[patient.Patient](t, resp)
	assert.Equal(t, "305", updated.Room)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/patients/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/patients/"+created.ID, map[string]string{"name": "x"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}
