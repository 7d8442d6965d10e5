// README: Turn ledger tests (summary aggregation and Postgres round trip).
package usage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"wanderlust/internal/modules/conversation"
	"wanderlust/migrations"
)

// fakeLedger is an in-memory stand-in for *Store.
type fakeLedger struct {
	inserted []conversation.TurnRecord
	counts   map[conversation.Outcome]int64
	top      []CityCount
	err      error
}

func (f *fakeLedger) Insert(_ context.Context, rec conversation.TurnRecord) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeLedger) CountByOutcome(context.Context) (map[conversation.Outcome]int64, error) {
	return f.counts, f.err
}

func (f *fakeLedger) TopCities(context.Context, int) ([]CityCount, error) {
	return f.top, f.err
}

func TestSummaryTotals(t *testing.T) {
	svc := &Service{store: &fakeLedger{
		counts: map[conversation.Outcome]int64{
			conversation.OutcomeDelivered: 7,
			conversation.OutcomeFailed:    2,
		},
	}}

	sum, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Total != 9 || sum.Delivered != 7 || sum.Failed != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.TopCities == nil {
		t.Fatal("expected empty, non-nil top cities for JSON")
	}
}

func TestRecordTurnWrapsErrors(t *testing.T) {
	dbErr := errors.New("connection refused")
	svc := &Service{store: &fakeLedger{err: dbErr}}

	err := svc.RecordTurn(context.Background(), conversation.TurnRecord{TurnID: "t1"})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
	if err := svc.RecordTurn(context.Background(), conversation.TurnRecord{}); err == nil {
		t.Fatal("expected error for record without id")
	}
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("-- ledger\nCREATE TABLE IF NOT EXISTS t (\n  id TEXT\n);\n\nCREATE INDEX IF NOT EXISTS i ON t (id);\n")
	want := []string{"CREATE TABLE IF NOT EXISTS t (\n  id TEXT\n)", "CREATE INDEX IF NOT EXISTS i ON t (id)"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEmbeddedMigrationsCreateTurnLog(t *testing.T) {
	content, err := fs.ReadFile(migrations.FS, "0001_turn_log.sql")
	if err != nil {
		t.Fatalf("read embedded migration: %v", err)
	}
	stmts := splitStatements(string(content))
	if len(stmts) != 2 || !strings.Contains(stmts[0], "CREATE TABLE IF NOT EXISTS turn_log") {
		t.Fatalf("unexpected statements %q", stmts)
	}
}

// TestStoreRoundTrip inserts turns and reads the summary back from Postgres.
func TestStoreRoundTrip(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	records := []conversation.TurnRecord{
		{TurnID: "t1", SessionID: "s1", Query: "Paris", CityName: "Paris", Outcome: conversation.OutcomeDelivered, StartedAt: now, Duration: 1200 * time.Millisecond},
		{TurnID: "t2", SessionID: "s1", Query: "paris", CityName: "Paris", Outcome: conversation.OutcomeDelivered, StartedAt: now, Duration: time.Second},
		{TurnID: "t3", SessionID: "s1", Query: "Tokyo", CityName: "Tokyo", Outcome: conversation.OutcomeDelivered, StartedAt: now, Duration: time.Second},
		{TurnID: "t4", SessionID: "s1", Query: "Xyzzyplonk123", Outcome: conversation.OutcomeFailed, Error: "city info decode: malformed city info", StartedAt: now, Duration: time.Second},
	}
	for _, rec := range records {
		if err := svc.RecordTurn(ctx, rec); err != nil {
			t.Fatalf("RecordTurn %s: %v", rec.TurnID, err)
		}
	}
	// Replays are ignored.
	if err := svc.RecordTurn(ctx, records[0]); err != nil {
		t.Fatalf("RecordTurn replay: %v", err)
	}

	var durationMs int64
	if err := db.QueryRow(ctx, "SELECT duration_ms FROM turn_log WHERE turn_id = 't1'").Scan(&durationMs); err != nil {
		t.Fatalf("query: %v", err)
	}
	if durationMs != 1200 {
		t.Fatalf("expected 1200ms, got %d", durationMs)
	}

	sum, err := svc.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Total != 4 || sum.Delivered != 3 || sum.Failed != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if len(sum.TopCities) != 2 || sum.TopCities[0].CityName != "Paris" || sum.TopCities[0].Turns != 2 {
		t.Fatalf("unexpected top cities %+v", sum.TopCities)
	}
}

// setupTestService creates a real postgres-backed Service for integration tests.
// It skips the test when WANDERS_TEST_DSN is not set.
func setupTestService(t *testing.T) (*Service, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("WANDERS_TEST_DSN")
	if dsn == "" {
		t.Skip("WANDERS_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Twice, to show startup migration is repeatable.
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, db); err != nil {
			t.Fatalf("Migrate: %v", err)
		}
	}

	if _, err := db.Exec(ctx, "TRUNCATE TABLE turn_log"); err != nil {
		t.Fatalf("truncate turn_log: %v", err)
	}

	return NewService(NewStore(db)), db
}
