// Package store persists patients and tasks in SQLite. The database is
// the single source of truth for task state: every successful mutation
// is durable before the call returns.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kolapsis/wardlink/internal/patient"
	"github.com/kolapsis/wardlink/internal/task"
)

const timeFormat = time.RFC3339

// SQLiteStore implements task.Repository and patient.Repository using
// modernc.org/sqlite (pure Go, zero CGO).
type SQLiteStore struct {
	db *sql.DB
}

var (
	_ task.Repository    = (*SQLiteStore)(nil)
	_ patient.Repository = (*SQLiteStore)(nil)
)

// NewSQLiteStore opens (or creates) a SQLite database and runs migrations.
// The database file is created with 0600 permissions and its parent
// directory with 0700.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0600)
			if err != nil {
				return nil, fmt.Errorf("creating database file: %w", err)
			}
			_ = f.Close()
		}
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=ON"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One writer connection: simultaneous mutations to the same id
	// (delete racing a status report) serialize here, so exactly one
	// of them wins and no partial record results.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	var current int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for i := current; i < len(migrations); i++ {
		slog.Info("applying migration", "version", i+1)
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", i+1); err != nil {
			return fmt.Errorf("recording migration %d: %w", i+1, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Tasks ---

func (s *SQLiteStore) CreateTask(ctx context.Context, t *task.Task) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks
		(id, patient_id, name, scheduled_time, command, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.PatientID, t.Name, t.ScheduledTime, t.Command, t.Status,
		formatTime(t.CreatedAt))
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, patient_id, name, scheduled_time,
		command, status, created_at FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (s *SQLiteStore) ListTasks(ctx context.Context) ([]*task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, patient_id, name, scheduled_time,
		command, status, created_at FROM tasks ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*task.Task
	for rows.Next() {
		var t task.Task
		var createdAt string
		if err := rows.Scan(&t.ID, &t.PatientID, &t.Name, &t.ScheduledTime,
			&t.Command, &t.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		t.CreatedAt = parseTime(createdAt)
		tasks = append(tasks, &t)
	}
	return tasks, rows.Err()
}

func (s *SQLiteStore) UpdateTaskStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE tasks SET status = ? WHERE id = ?", status, id)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	if n == 0 {
		return task.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if n == 0 {
		return task.ErrNotFound
	}
	return nil
}

// --- Patients ---

func (s *SQLiteStore) CreatePatient(ctx context.Context, p *patient.Patient) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO patients (id, name, room, medicine)
		VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Room, p.Medicine)
	if err != nil {
		return fmt.Errorf("inserting patient: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetPatient(ctx context.Context, id string) (*patient.Patient, error) {
	var p patient.Patient
	err := s.db.QueryRowContext(ctx, `SELECT id, name, room, medicine
		FROM patients WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Room, &p.Medicine)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, patient.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning patient: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStore) ListPatients(ctx context.Context) ([]*patient.Patient, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, room, medicine FROM patients ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patients []*patient.Patient
	for rows.Next() {
		var p patient.Patient
		if err := rows.Scan(&p.ID, &p.Name, &p.Room, &p.Medicine); err != nil {
			return nil, fmt.Errorf("scanning patient: %w", err)
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}

func (s *SQLiteStore) UpdatePatient(ctx context.Context, p *patient.Patient) error {
	res, err := s.db.ExecContext(ctx, `UPDATE patients SET name = ?, room = ?, medicine = ?
		WHERE id = ?`,
		p.Name, p.Room, p.Medicine, p.ID)
	if err != nil {
		return fmt.Errorf("updating patient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating patient: %w", err)
	}
	if n == 0 {
		return patient.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) DeletePatient(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM patients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting patient: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting patient: %w", err)
	}
	if n == 0 {
		return patient.ErrNotFound
	}
	return nil
}

// --- Helpers ---

func scanTask(row *sql.Row) (*task.Task, error) {
	var t task.Task
	var createdAt string

	err := row.Scan(&t.ID, &t.PatientID, &t.Name, &t.ScheduledTime,
		&t.Command, &t.Status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, task.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.CreatedAt = parseTime(createdAt)
	return &t, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeFormat)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(timeFormat, s)
	return t
}
