package store

// migrations are applied in order; each entry is one schema version.
var migrations = []string{
	`CREATE TABLE patients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		room TEXT NOT NULL DEFAULT '',
		medicine TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE tasks (
		id TEXT PRIMARY KEY,
		patient_id TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		scheduled_time TEXT NOT NULL DEFAULT '',
		command TEXT NOT NULL DEFAULT 'deliver',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL
	)`,
}
