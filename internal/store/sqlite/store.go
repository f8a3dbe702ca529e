// Package sqlite stores change sets, runs and their steps in a SQLite
// database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/simplesurance/csresolver/internal/changeset"
)

// Store is a SQLite implementation of the change set, run and step stores.
// Updates use optimistic concurrency control, a record is only written when
// the version of the passed record matches the stored version.
type Store struct {
	db *sql.DB
}

// New opens or creates the database at dbPath and initializes its schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA busy_timeout=5000;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS change_sets (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL DEFAULT '',
			pull_request_raised INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT '',
			version INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			commit_id TEXT NOT NULL,
			branch_commit_id TEXT NOT NULL DEFAULT '',
			deployment_triggered INTEGER NOT NULL DEFAULT 0,
			config TEXT,
			version INTEGER NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS steps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			message TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_change_sets_run ON change_sets(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_steps_run ON steps(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

// CreateChangeSet inserts a new change set and sets cs.Version to 1.
func (s *Store) CreateChangeSet(ctx context.Context, cs *changeset.ChangeSet) error {
	now := time.Now()

	query := `INSERT INTO change_sets (id, run_id, pull_request_raised, status, version, created_at, updated_at)
	          VALUES (?, ?, ?, ?, 1, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		string(cs.ID), cs.RunID, cs.PullRequestRaised, string(cs.Status), now, now)
	if err != nil {
		return fmt.Errorf("failed to create change set: %w", err)
	}

	cs.Version = 1

	return nil
}

func (s *Store) FindChangeSet(ctx context.Context, id changeset.ID) (*changeset.ChangeSet, error) {
	query := `SELECT id, run_id, pull_request_raised, status, version
	          FROM change_sets WHERE id = ?`

	var cs changeset.ChangeSet
	var csID, status string

	err := s.db.QueryRowContext(ctx, query, string(id)).Scan(
		&csID, &cs.RunID, &cs.PullRequestRaised, &status, &cs.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("change set %s: %w", id, changeset.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get change set: %w", err)
	}

	cs.ID = changeset.ID(csID)
	cs.Status = changeset.Status(status)

	return &cs, nil
}

// UpdateChangeSet stores cs when cs.Version matches the stored version and
// increments cs.Version.
// If the versions differ changeset.ErrVersionConflict is returned.
func (s *Store) UpdateChangeSet(ctx context.Context, cs *changeset.ChangeSet) error {
	query := `UPDATE change_sets
	          SET run_id = ?, pull_request_raised = ?, status = ?, version = version + 1, updated_at = ?
	          WHERE id = ? AND version = ?`

	res, err := s.db.ExecContext(ctx, query,
		cs.RunID, cs.PullRequestRaised, string(cs.Status), time.Now(), string(cs.ID), cs.Version)
	if err != nil {
		return fmt.Errorf("failed to update change set: %w", err)
	}

	if err := s.checkUpdated(ctx, res, "change_sets", string(cs.ID)); err != nil {
		return fmt.Errorf("change set %s: %w", cs.ID, err)
	}

	cs.Version++

	return nil
}

// CreateRun inserts a new run and sets run.Version to 1.
func (s *Store) CreateRun(ctx context.Context, run *changeset.Run) error {
	now := time.Now()

	config, err := marshalConfig(run.Config)
	if err != nil {
		return err
	}

	query := `INSERT INTO runs (id, commit_id, branch_commit_id, deployment_triggered, config, version, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, 1, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		run.ID, run.CommitID, run.BranchCommitID, run.DeploymentTriggered, config, now, now)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	run.Version = 1

	return nil
}

func (s *Store) GetRun(ctx context.Context, id string) (*changeset.Run, error) {
	query := `SELECT id, commit_id, branch_commit_id, deployment_triggered, config, version
	          FROM runs WHERE id = ?`

	var run changeset.Run
	var configJSON sql.NullString

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.CommitID, &run.BranchCommitID, &run.DeploymentTriggered, &configJSON, &run.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, changeset.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if configJSON.Valid && configJSON.String != "" {
		var cfg changeset.RunConfig

		if err := json.Unmarshal([]byte(configJSON.String), &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run config: %w", err)
		}

		run.Config = &cfg
	}

	return &run, nil
}

// UpdateRun stores run when run.Version matches the stored version and
// increments run.Version.
// If the versions differ changeset.ErrVersionConflict is returned.
func (s *Store) UpdateRun(ctx context.Context, run *changeset.Run) error {
	config, err := marshalConfig(run.Config)
	if err != nil {
		return err
	}

	query := `UPDATE runs
	          SET commit_id = ?, branch_commit_id = ?, deployment_triggered = ?, config = ?, version = version + 1, updated_at = ?
	          WHERE id = ? AND version = ?`

	res, err := s.db.ExecContext(ctx, query,
		run.CommitID, run.BranchCommitID, run.DeploymentTriggered, config, time.Now(), run.ID, run.Version)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	if err := s.checkUpdated(ctx, res, "runs", run.ID); err != nil {
		return fmt.Errorf("run %s: %w", run.ID, err)
	}

	run.Version++

	return nil
}

// AddStep appends a step to the audit trail of a run.
func (s *Store) AddStep(ctx context.Context, step *changeset.Step) error {
	if step.CreatedAt.IsZero() {
		step.CreatedAt = time.Now()
	}

	query := `INSERT INTO steps (run_id, message, error, created_at) VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query, step.RunID, step.Message, step.Error, step.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add step: %w", err)
	}

	return nil
}

// Steps returns the steps of a run in the order they were added.
func (s *Store) Steps(ctx context.Context, runID string) ([]*changeset.Step, error) {
	query := `SELECT run_id, message, error, created_at
	          FROM steps WHERE run_id = ?
	          ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps: %w", err)
	}
	defer rows.Close()

	var steps []*changeset.Step
	for rows.Next() {
		var step changeset.Step
		if err := rows.Scan(&step.RunID, &step.Message, &step.Error, &step.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, &step)
	}

	return steps, rows.Err()
}

// checkUpdated returns nil if res affected a row. Otherwise it returns
// changeset.ErrNotFound if no row with the id exists in table and
// changeset.ErrVersionConflict if it exists.
func (s *Store) checkUpdated(ctx context.Context, res sql.Result, table, id string) error {
	cnt, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if cnt > 0 {
		return nil
	}

	var exists bool
	// table is never user input
	err = s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = ?)", id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check existence: %w", err)
	}

	if !exists {
		return changeset.ErrNotFound
	}

	return changeset.ErrVersionConflict
}

func marshalConfig(cfg *changeset.RunConfig) (sql.NullString, error) {
	if cfg == nil {
		return sql.NullString{}, nil
	}

	buf, err := json.Marshal(cfg)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal run config: %w", err)
	}

	return sql.NullString{String: string(buf), Valid: true}, nil
}
