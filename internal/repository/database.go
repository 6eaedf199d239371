package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("repository: not found")

func InitDB(dbPath string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, err
	}

	if err := seedDefaults(db); err != nil {
		return nil, err
	}

	return db, nil
}

func createTables(db *sqlx.DB) error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id TEXT PRIMARY KEY,
        username TEXT NOT NULL UNIQUE,
        password_hash TEXT NOT NULL,
        email TEXT UNIQUE,
        full_name TEXT NOT NULL,
        troop_rank TEXT NOT NULL DEFAULT '',
        role TEXT NOT NULL DEFAULT 'member',
        can_create_tasks INTEGER NOT NULL DEFAULT 0,
        can_delete_tasks INTEGER NOT NULL DEFAULT 0,
        can_manage_users INTEGER NOT NULL DEFAULT 0,
        created_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS ranks (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL UNIQUE,
        order_index INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS sla_settings (
        id TEXT PRIMARY KEY,
        priority TEXT NOT NULL UNIQUE,
        response_hours INTEGER NOT NULL,
        reminder_intervals TEXT NOT NULL DEFAULT '',
        escalation_enabled INTEGER NOT NULL DEFAULT 0
    );

    CREATE TABLE IF NOT EXISTS tasks (
        id TEXT PRIMARY KEY,
        title TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        status TEXT NOT NULL,
        priority TEXT NOT NULL,
        due_date DATETIME,
        created_by TEXT NOT NULL REFERENCES users(id),
        reminder_3d_sent INTEGER NOT NULL DEFAULT 0,
        reminder_1d_sent INTEGER NOT NULL DEFAULT 0,
        reminder_due_sent INTEGER NOT NULL DEFAULT 0,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS task_assignees (
        task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
        user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
        PRIMARY KEY (task_id, user_id)
    );

    CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
    `

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// seedDefaults inserts the default rank ladder and SLA rows on first run.
func seedDefaults(db *sqlx.DB) error {
	var rankCount int
	if err := db.Get(&rankCount, "SELECT COUNT(*) FROM ranks"); err != nil {
		return fmt.Errorf("count ranks: %w", err)
	}
	if rankCount == 0 {
		defaults := []string{"Private", "Corporal", "Sergeant", "Lieutenant", "Captain", "Major", "Colonel"}
		for i, name := range defaults {
			_, err := db.Exec(
				"INSERT INTO ranks (id, name, order_index) VALUES (?, ?, ?)",
				uuid.New().String(), name, i+1,
			)
			if err != nil {
				return fmt.Errorf("seed rank %s: %w", name, err)
			}
		}
	}

	var slaCount int
	if err := db.Get(&slaCount, "SELECT COUNT(*) FROM sla_settings"); err != nil {
		return fmt.Errorf("count sla settings: %w", err)
	}
	if slaCount == 0 {
		type slaSeed struct {
			priority   string
			hours      int
			intervals  string
			escalation bool
		}
		defaults := []slaSeed{
			{"high", 4, "1,2,4", true},
			{"medium", 24, "4,12,24", true},
			{"low", 72, "24,48,72", false},
		}
		for _, s := range defaults {
			_, err := db.Exec(
				"INSERT INTO sla_settings (id, priority, response_hours, reminder_intervals, escalation_enabled) VALUES (?, ?, ?, ?, ?)",
				uuid.New().String(), s.priority, s.hours, s.intervals, s.escalation,
			)
			if err != nil {
				return fmt.Errorf("seed sla %s: %w", s.priority, err)
			}
		}
	}

	return nil
}
