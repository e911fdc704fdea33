package table

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"

	"github.com/vburojevic/eccstat/internal/domain"
)

// ErrNoRuns is returned when a database holds no extraction runs
var ErrNoRuns = errors.New("no runs stored")

const createResultsTable = `
CREATE TABLE IF NOT EXISTS results (
	run_id              TEXT NOT NULL,
	generated_at        TEXT NOT NULL,
	ecc_type            TEXT NOT NULL,
	capacity            TEXT NOT NULL,
	capacity_gb         REAL NOT NULL,
	ce                  INTEGER NOT NULL,
	ue                  INTEGER NOT NULL,
	sdc                 INTEGER NOT NULL,
	ue_plus_sdc         INTEGER NOT NULL,
	critical_error_rate REAL NOT NULL,
	total               INTEGER NOT NULL,
	sims                INTEGER NOT NULL,
	source              TEXT NOT NULL,
	position            INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS results_run_id ON results (run_id);
`

// SQLiteStore appends extraction runs to a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, createResultsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create results table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save stores every row of the extraction under its run id in one transaction
func (s *SQLiteStore) Save(ctx context.Context, ext *domain.Extraction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO results (
		run_id, generated_at, ecc_type, capacity, capacity_gb, ce, ue, sdc,
		ue_plus_sdc, critical_error_rate, total, sims, source, position
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	generatedAt := ext.GeneratedAt.UTC().Format(time.RFC3339Nano)
	for i, r := range ext.Rows {
		if _, err := stmt.ExecContext(ctx,
			ext.RunID, generatedAt, string(r.ECCType), r.Capacity.Label, r.Capacity.GB,
			r.CE, r.UE, r.SDC, r.UEPlusSDC, r.CriticalErrorRate, r.Total, r.Sims, r.Source, i,
		); err != nil {
			return fmt.Errorf("insert %s %s: %w", r.ECCType, r.Capacity, err)
		}
	}

	return tx.Commit()
}

// LatestRun returns the id of the most recently generated run
func (s *SQLiteStore) LatestRun(ctx context.Context) (string, error) {
	var runID string
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id FROM results ORDER BY generated_at DESC, rowid DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoRuns
	}
	return runID, err
}

// Rows loads the rows of one run in their stored order. An empty runID
// selects the latest run.
func (s *SQLiteStore) Rows(ctx context.Context, runID string) ([]domain.Row, error) {
	if runID == "" {
		var err error
		if runID, err = s.LatestRun(ctx); err != nil {
			return nil, err
		}
	}

	rs, err := s.db.QueryContext(ctx, `SELECT ecc_type, capacity, ce, ue, sdc, ue_plus_sdc,
		critical_error_rate, total, sims, source
		FROM results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var rows []domain.Row
	for rs.Next() {
		var (
			r        domain.Row
			ecc      string
			capacity string
		)
		if err := rs.Scan(&ecc, &capacity, &r.CE, &r.UE, &r.SDC, &r.UEPlusSDC,
			&r.CriticalErrorRate, &r.Total, &r.Sims, &r.Source); err != nil {
			return nil, err
		}
		r.ECCType = domain.ParseECCType(ecc)
		r.Capacity = domain.ParseCapacity(capacity)
		rows = append(rows, r)
	}
	return rows, rs.Err()
}
