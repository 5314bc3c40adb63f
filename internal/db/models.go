package db

import (
	"database/sql"
	"time"
)

// Run is one row of the run history.
type Run struct {
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

// RunTotals aggregates every recorded run.
type RunTotals struct {
	Runs     int64
	Fetched  int64
	Positive int64
	Negative int64
	Neutral  int64
	Replied  int64
	Failures int64
}
