// Package eventlog records LLM API calls in a local sqlite database.
// The log is append-only and purely observational: the app runs fine
// with a nil repo, and logging failures never fail the request that
// triggered them.
package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// LLMRequestData captures one LLM API call.
type LLMRequestData struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequest is a stored event row.
type LLMRequest struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestData
}

// UsageStat aggregates token usage for one purpose or model.
type UsageStat struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// Repo provides append and query access to LLM request events.
type Repo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestData) error

	// QueryLLMRequests returns up to limit events, newest first.
	QueryLLMRequests(ctx context.Context, limit int) ([]LLMRequest, error)

	// GetLLMRequest returns a single event by id, or nil if missing.
	GetLLMRequest(ctx context.Context, id int) (*LLMRequest, error)

	// UsageByPurpose aggregates token usage grouped by purpose.
	UsageByPurpose(ctx context.Context) ([]UsageStat, error)

	// UsageByModel aggregates token usage grouped by model.
	UsageByModel(ctx context.Context) ([]UsageStat, error)
}

// Log is a sqlite-backed Repo.
type Log struct {
	db  *sql.DB
	seq *sequenceCounter
}

var _ Repo = (*Log)(nil)

// Open creates a Log backed by the sqlite database at dsn, applying
// recommended pragmas and creating tables as needed.
func Open(dsn string) (*Log, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Log{db: db, seq: seq}, nil
}

// Close closes the database connection.
func (l *Log) Close() error {
	return l.db.Close()
}

// AppendLLMRequest implements Repo.
func (l *Log) AppendLLMRequest(ctx context.Context, data LLMRequestData) error {
	seqNum, err := l.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `INSERT INTO llm_request_events
		(sequence, timestamp, provider, model, purpose, session_id, input_tokens,
		 output_tokens, latency_ms, success, error_message, request_body, response_body)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UTC().Format(time.RFC3339Nano),
		data.Provider, data.Model, data.Purpose, data.SessionID,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

const eventColumns = `id, sequence, timestamp, provider, model, purpose,
	session_id, input_tokens, output_tokens, latency_ms, success,
	error_message, request_body, response_body`

// QueryLLMRequests implements Repo.
func (l *Log) QueryLLMRequests(ctx context.Context, limit int) ([]LLMRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM llm_request_events ORDER BY sequence DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query LLM request events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequest
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, rows.Err()
}

// GetLLMRequest implements Repo.
func (l *Log) GetLLMRequest(ctx context.Context, id int) (*LLMRequest, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM llm_request_events WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get LLM request event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanEvent(rows)
}

// UsageByPurpose implements Repo.
func (l *Log) UsageByPurpose(ctx context.Context) ([]UsageStat, error) {
	return l.usage(ctx, "purpose")
}

// UsageByModel implements Repo.
func (l *Log) UsageByModel(ctx context.Context) ([]UsageStat, error) {
	return l.usage(ctx, "model")
}

func (l *Log) usage(ctx context.Context, column string) ([]UsageStat, error) {
	// column is one of the fixed identifiers above, never user input.
	rows, err := l.db.QueryContext(ctx, `SELECT `+column+`, COUNT(*),
		COALESCE(SUM(input_tokens), 0), COALESCE(SUM(output_tokens), 0),
		COALESCE(AVG(latency_ms), 0)
		FROM llm_request_events GROUP BY `+column+` ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("aggregate usage: %w", err)
	}
	defer rows.Close()

	var out []UsageStat
	for rows.Next() {
		var st UsageStat
		var key string
		var avg float64
		if err := rows.Scan(&key, &st.Calls, &st.InputTokens, &st.OutputTokens, &avg); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		st.AvgLatencyMs = int64(avg)
		if column == "model" {
			st.Model = key
		} else {
			st.Purpose = key
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func scanEvent(rows *sql.Rows) (*LLMRequest, error) {
	var ev LLMRequest
	var ts string
	if err := rows.Scan(&ev.ID, &ev.Sequence, &ts, &ev.Provider, &ev.Model, &ev.Purpose,
		&ev.SessionID, &ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success,
		&ev.ErrorMessage, &ev.RequestBody, &ev.ResponseBody); err != nil {
		return nil, fmt.Errorf("scan event: %w", err)
	}
	ev.Timestamp, _ = time.Parse(time.RFC3339Nano, ts)
	return &ev, nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		session_id TEXT NOT NULL DEFAULT '',
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`)
	return err
}

// sequenceCounter assigns a single increasing sequence to every event.
// The mutex serializes within the process; the RETURNING clause makes
// the increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
