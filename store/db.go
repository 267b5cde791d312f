// Package store persists protocol exchanges to a local SQLite database so
// external evaluation tooling can inspect traffic after a conformance run.
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const (
	// DBFileName is the default SQLite file name.
	DBFileName = "mcp-testbed-trace.db"
)

// DBPath is the runtime-configured SQLite file path. If empty, DBFileName is
// used.
var DBPath string

// SetDBPath sets a custom SQLite file path. Empty resets to default.
func SetDBPath(path string) {
	DBPath = path
}

func dbPath() string {
	if DBPath != "" {
		return DBPath
	}
	return DBFileName
}

// InitDatabase opens the trace database and creates the schema.
func InitDatabase() (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := CreateTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return db, nil
}

// CreateTables creates the trace schema if it does not exist.
func CreateTables(db *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS exchanges (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		seq        INTEGER NOT NULL,
		request    TEXT NOT NULL,
		response   TEXT,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_exchanges_session ON exchanges(session_id, seq);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create exchanges table: %w", err)
	}
	return nil
}

// Exchange is one recorded request/response pair. Replied is false for
// suppressed notifications.
type Exchange struct {
	SessionID string
	Seq       int
	Request   string
	Response  string
	Replied   bool
	CreatedAt string
}

// Recorder persists one row per dispatched message unit. Safe for use from
// concurrent sessions.
type Recorder struct {
	db  *sql.DB
	mu  sync.Mutex
	seq map[string]int
}

// NewRecorder returns a recorder writing to the given database.
func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db, seq: make(map[string]int)}
}

// Record stores one exchange. A nil response marks a request that produced no
// wire output.
func (r *Recorder) Record(sessionID, request string, response *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq[sessionID]++
	_, err := r.db.Exec(
		`INSERT INTO exchanges(session_id, seq, request, response, created_at) VALUES (?, ?, ?, ?, ?)`,
		sessionID, r.seq[sessionID], request, response, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}
	return nil
}

// ListExchanges returns a session's exchanges in arrival order.
func ListExchanges(db *sql.DB, sessionID string) ([]Exchange, error) {
	rows, err := db.Query(
		`SELECT session_id, seq, request, response, created_at FROM exchanges WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var res []Exchange
	for rows.Next() {
		var ex Exchange
		var response sql.NullString
		if err := rows.Scan(&ex.SessionID, &ex.Seq, &ex.Request, &response, &ex.CreatedAt); err != nil {
			return nil, err
		}
		ex.Response = response.String
		ex.Replied = response.Valid
		res = append(res, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
