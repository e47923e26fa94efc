package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/underwrite-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	filename   TEXT NOT NULL,
	kinds      TEXT NOT NULL,
	risk_score INTEGER NOT NULL,
	valid      INTEGER NOT NULL,
	analysis   TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_runs_filename ON runs(filename);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, filename string, analysis *model.Analysis) (*Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	matched := analysis.Matched()
	kinds := make([]string, 0, len(matched))
	for _, kind := range matched {
		kinds = append(kinds, string(kind))
	}

	kindsJSON, err := json.Marshal(kinds)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal kinds")
	}
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal analysis")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, filename, kinds, risk_score, valid, analysis, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, filename, string(kindsJSON), analysis.Risk.Score, analysis.Validation.OverallValid, string(analysisJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &Run{
		ID:        id,
		Filename:  filename,
		Kinds:     kinds,
		RiskScore: analysis.Risk.Score,
		Valid:     analysis.Validation.OverallValid,
		Analysis:  analysis,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, filename, kinds, risk_score, valid, analysis, created_at FROM runs WHERE id = ?`,
		runID,
	)
	return scanRun(row)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]Run, error) {
	query := `SELECT id, filename, kinds, risk_score, valid, analysis, created_at FROM runs WHERE 1=1`
	var args []any

	if filter.Filename != "" {
		query += ` AND filename = ?`
		args = append(args, filter.Filename)
	}
	if filter.Kind != "" {
		query += ` AND EXISTS (SELECT 1 FROM json_each(kinds) WHERE json_each.value = ?)`
		args = append(args, filter.Kind)
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*Run, error) {
	var r Run
	var kindsJSON, analysisJSON string

	err := row.Scan(&r.ID, &r.Filename, &kindsJSON, &r.RiskScore, &r.Valid, &analysisJSON, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}

	if err := json.Unmarshal([]byte(kindsJSON), &r.Kinds); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal kinds")
	}
	r.Analysis = &model.Analysis{}
	if err := json.Unmarshal([]byte(analysisJSON), r.Analysis); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
	}
	return &r, nil
}
