// Package persistence provides SQLite-based decision telemetry: goal
// changes, plan failures and notable events, queryable after a run.
package persistence

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite connection for telemetry writes.
type Store struct {
	conn *sqlx.DB
}

// GoalChange is one recorded goal transition.
type GoalChange struct {
	Tick      uint64 `db:"tick" json:"tick"`
	AgentID   uint64 `db:"agent_id" json:"agent_id"`
	FromGoal  string `db:"from_goal" json:"from_goal"`
	ToGoal    string `db:"to_goal" json:"to_goal"`
	Interrupt bool   `db:"interrupt" json:"interrupt"`
}

// PlanFailure is one recorded plan abandonment.
type PlanFailure struct {
	Tick    uint64 `db:"tick" json:"tick"`
	AgentID uint64 `db:"agent_id" json:"agent_id"`
	Goal    string `db:"goal" json:"goal"`
}

// EventRow is one recorded simulation event.
type EventRow struct {
	Tick        uint64 `db:"tick" json:"tick"`
	Description string `db:"description" json:"description"`
	Category    string `db:"category" json:"category"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &Store{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *Store) Close() error {
	return db.conn.Close()
}

func (db *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS goal_changes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		from_goal TEXT NOT NULL,
		to_goal TEXT NOT NULL,
		interrupt INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS plan_failures (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		goal TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		tick INTEGER NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_goal_changes_tick ON goal_changes(tick);
	CREATE INDEX IF NOT EXISTS idx_goal_changes_agent ON goal_changes(agent_id);
	CREATE INDEX IF NOT EXISTS idx_plan_failures_tick ON plan_failures(tick);
	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordGoalChange appends one goal transition.
func (db *Store) RecordGoalChange(tick, agentID uint64, from, to string, interrupt bool) error {
	flag := 0
	if interrupt {
		flag = 1
	}
	_, err := db.conn.Exec(
		"INSERT INTO goal_changes (tick, agent_id, from_goal, to_goal, interrupt) VALUES (?, ?, ?, ?, ?)",
		tick, agentID, from, to, flag,
	)
	return err
}

// RecordPlanFailure appends one plan abandonment.
func (db *Store) RecordPlanFailure(tick, agentID uint64, goalName string) error {
	_, err := db.conn.Exec(
		"INSERT INTO plan_failures (tick, agent_id, goal) VALUES (?, ?, ?)",
		tick, agentID, goalName,
	)
	return err
}

// RecordEvent appends one simulation event.
func (db *Store) RecordEvent(tick uint64, description, category string) error {
	_, err := db.conn.Exec(
		"INSERT INTO events (tick, description, category) VALUES (?, ?, ?)",
		tick, description, category,
	)
	return err
}

// SaveMeta stores a key-value pair.
func (db *Store) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *Store) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM meta WHERE key = ?", key)
	return value, err
}

// RecentGoalChanges returns the most recent N goal transitions.
func (db *Store) RecentGoalChanges(limit int) ([]GoalChange, error) {
	var rows []GoalChange
	err := db.conn.Select(&rows,
		"SELECT tick, agent_id, from_goal, to_goal, interrupt FROM goal_changes ORDER BY id DESC LIMIT ?",
		limit,
	)
	return rows, err
}

// RecentPlanFailures returns the most recent N plan abandonments.
func (db *Store) RecentPlanFailures(limit int) ([]PlanFailure, error) {
	var rows []PlanFailure
	err := db.conn.Select(&rows,
		"SELECT tick, agent_id, goal FROM plan_failures ORDER BY id DESC LIMIT ?",
		limit,
	)
	return rows, err
}

// RecentEvents returns the most recent N events.
func (db *Store) RecentEvents(limit int) ([]EventRow, error) {
	var rows []EventRow
	err := db.conn.Select(&rows,
		"SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?",
		limit,
	)
	return rows, err
}
