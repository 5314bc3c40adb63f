package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries runs the run history statements against db.
type Queries struct {
	db DBTX
}

// New creates a Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const runColumns = `id, query, platform, classifier, fetched, filtered, duplicates,
	positive, negative, neutral, positive_pct, negative_pct, neutral_pct,
	classification_failures, render_failures, posting_failures, replied, error,
	started_at, finished_at`

const createRun = `INSERT INTO runs (` + runColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// CreateRunParams holds the values of a new run row.
type CreateRunParams struct {
	ID                     string
	Query                  string
	Platform               string
	Classifier             string
	Fetched                int64
	Filtered               int64
	Duplicates             int64
	Positive               int64
	Negative               int64
	Neutral                int64
	PositivePct            float64
	NegativePct            float64
	NeutralPct             float64
	ClassificationFailures int64
	RenderFailures         int64
	PostingFailures        int64
	Replied                int64
	Error                  sql.NullString
	StartedAt              time.Time
	FinishedAt             time.Time
}

// CreateRun records a finished run.
func (q *Queries) CreateRun(ctx context.Context, arg CreateRunParams) error {
	_, err := q.db.ExecContext(ctx, createRun,
		arg.ID,
		arg.Query,
		arg.Platform,
		arg.Classifier,
		arg.Fetched,
		arg.Filtered,
		arg.Duplicates,
		arg.Positive,
		arg.Negative,
		arg.Neutral,
		arg.PositivePct,
		arg.NegativePct,
		arg.NeutralPct,
		arg.ClassificationFailures,
		arg.RenderFailures,
		arg.PostingFailures,
		arg.Replied,
		arg.Error,
		arg.StartedAt.UTC(),
		arg.FinishedAt.UTC(),
	)
	return err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (Run, error) {
	var r Run
	err := row.Scan(
		&r.ID,
		&r.Query,
		&r.Platform,
		&r.Classifier,
		&r.Fetched,
		&r.Filtered,
		&r.Duplicates,
		&r.Positive,
		&r.Negative,
		&r.Neutral,
		&r.PositivePct,
		&r.NegativePct,
		&r.NeutralPct,
		&r.ClassificationFailures,
		&r.RenderFailures,
		&r.PostingFailures,
		&r.Replied,
		&r.Error,
		&r.StartedAt,
		&r.FinishedAt,
	)
	return r, err
}

const getRun = `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

// GetRun returns the run with id.
func (q *Queries) GetRun(ctx context.Context, id string) (Run, error) {
	return scanRun(q.db.QueryRowContext(ctx, getRun, id))
}

const listRecentRuns = `SELECT ` + runColumns + ` FROM runs
ORDER BY started_at DESC
LIMIT ?`

// ListRecentRuns returns up to limit runs, newest first.
func (q *Queries) ListRecentRuns(ctx context.Context, limit int64) ([]Run, error) {
	rows, err := q.db.QueryContext(ctx, listRecentRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRuns = `SELECT COUNT(*) FROM runs`

// CountRuns returns the number of recorded runs.
func (q *Queries) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countRuns).Scan(&count)
	return count, err
}

const getRunTotals = `SELECT
	COUNT(*),
	COALESCE(SUM(fetched), 0),
	COALESCE(SUM(positive), 0),
	COALESCE(SUM(negative), 0),
	COALESCE(SUM(neutral), 0),
	COALESCE(SUM(replied), 0),
	COALESCE(SUM(classification_failures + render_failures + posting_failures), 0)
FROM runs`

// GetRunTotals sums every recorded run.
func (q *Queries) GetRunTotals(ctx context.Context) (RunTotals, error) {
	var t RunTotals
	err := q.db.QueryRowContext(ctx, getRunTotals).Scan(
		&t.Runs,
		&t.Fetched,
		&t.Positive,
		&t.Negative,
		&t.Neutral,
		&t.Replied,
		&t.Failures,
	)
	return t, err
}
