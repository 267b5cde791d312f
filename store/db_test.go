package store

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := CreateTables(db); err != nil {
		t.Fatalf("failed to create tables: %v", err)
	}
	return db
}

func TestRecorderRecord(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	rec := NewRecorder(db)

	reply := `{"jsonrpc":"2.0","id":1,"result":{}}`
	if err := rec.Record("s1", `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`, &reply); err != nil {
		t.Fatalf("failed to record: %v", err)
	}
	if err := rec.Record("s1", `{"jsonrpc":"2.0","method":"notifications/initialized"}`, nil); err != nil {
		t.Fatalf("failed to record: %v", err)
	}

	exchanges, err := ListExchanges(db, "s1")
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(exchanges) != 2 {
		t.Fatalf("got %d exchanges, want 2", len(exchanges))
	}
	if exchanges[0].Seq != 1 || exchanges[1].Seq != 2 {
		t.Errorf("sequence numbers wrong: %d, %d", exchanges[0].Seq, exchanges[1].Seq)
	}
	if !exchanges[0].Replied || exchanges[0].Response != reply {
		t.Errorf("first exchange response: %+v", exchanges[0])
	}
	if exchanges[1].Replied {
		t.Errorf("suppressed exchange should have no response: %+v", exchanges[1])
	}
}

func TestRecorderSeparatesSessions(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	rec := NewRecorder(db)

	if err := rec.Record("a", "req-a", nil); err != nil {
		t.Fatal(err)
	}
	if err := rec.Record("b", "req-b", nil); err != nil {
		t.Fatal(err)
	}

	exchanges, err := ListExchanges(db, "b")
	if err != nil {
		t.Fatal(err)
	}
	if len(exchanges) != 1 || exchanges[0].Request != "req-b" {
		t.Fatalf("got %+v", exchanges)
	}
	// Sequence counters are per session, both start at 1.
	if exchanges[0].Seq != 1 {
		t.Errorf("seq: got %d, want 1", exchanges[0].Seq)
	}
}

func TestInitDatabaseCustomPath(t *testing.T) {
	original := DBPath
	t.Cleanup(func() { SetDBPath(original) })

	SetDBPath(filepath.Join(t.TempDir(), "trace.db"))
	db, err := InitDatabase()
	if err != nil {
		t.Fatalf("failed to init database: %v", err)
	}
	defer db.Close()

	if err := NewRecorder(db).Record("s", "req", nil); err != nil {
		t.Fatalf("failed to record: %v", err)
	}
}
