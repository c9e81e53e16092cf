package store

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database handle")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestFileDatabaseUsesWAL.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestFileDatabaseUsesWAL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "immowert.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestSlotSaveLoadDelete(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	slots := s.Slots("session-a")

	if _, ok, err := slots.Load(ctx, "answers"); err != nil || ok {
		t.Fatalf("load empty slot: ok=%v err=%v", ok, err)
	}

	if err := slots.Save(ctx, "answers", []byte(`{"city":"Bonn"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := slots.Save(ctx, "answers", []byte(`{"city":"Köln"}`)); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, ok, err := slots.Load(ctx, "answers")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"city":"Köln"}` {
		t.Errorf("load = %s, want latest value", got)
	}

	var rows int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM session_slots").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != 1 {
		t.Errorf("expected upsert to keep 1 row, got %d", rows)
	}

	if ts, err := slots.UpdatedAt(ctx, "answers"); err != nil || ts.IsZero() {
		t.Errorf("UpdatedAt = %v, %v; want a timestamp", ts, err)
	}

	if err := slots.Delete(ctx, "answers"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := slots.Load(ctx, "answers"); ok {
		t.Error("expected slot to be gone after delete")
	}
	if err := slots.Delete(ctx, "answers"); err != nil {
		t.Errorf("deleting a missing slot: %v", err)
	}
}

func TestSlotsAreScopedBySession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Slots("a").Save(ctx, "answers", []byte("1")); err != nil {
		t.Fatalf("save a: %v", err)
	}
	if err := s.Slots("b").Save(ctx, "answers", []byte("2")); err != nil {
		t.Fatalf("save b: %v", err)
	}

	got, _, _ := s.Slots("a").Load(ctx, "answers")
	if string(got) != "1" {
		t.Errorf("session a sees %q, want 1", got)
	}
	if err := s.Slots("b").Delete(ctx, "answers"); err != nil {
		t.Fatalf("delete b: %v", err)
	}
	if _, ok, _ := s.Slots("a").Load(ctx, "answers"); !ok {
		t.Error("deleting b's slot removed a's slot")
	}
}

func TestSubmissionEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.SubmissionRepo()

	events := []SubmissionEventData{
		{SessionID: "a", Endpoint: "http://hook", Outcome: "parsed", StatusCode: 200, LatencyMs: 100, Success: true},
		{SessionID: "a", Endpoint: "http://hook", Outcome: "acknowledged", StatusCode: 200, LatencyMs: 50, Success: true},
		{SessionID: "b", Endpoint: "http://hook", Outcome: "failed", StatusCode: 502, LatencyMs: 300, ErrorMessage: "bad gateway"},
		{SessionID: "b", Endpoint: "http://hook", Outcome: "parsed", StatusCode: 200, LatencyMs: 300, Success: true, Comparison: true},
	}
	for _, e := range events {
		if err := repo.AppendSubmission(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QuerySubmissions(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 events, got %d", len(all))
	}
	if !all[0].Comparison || all[0].SessionID != "b" {
		t.Errorf("expected newest event first, got %+v", all[0])
	}

	limited, err := repo.QuerySubmissions(ctx, QueryOpts{Limit: 1, SessionID: "a"})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Outcome != "acknowledged" {
		t.Errorf("unexpected limited result: %+v", limited)
	}

	got, err := repo.GetSubmission(ctx, all[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.ErrorMessage != "bad gateway" || got.StatusCode != 502 {
		t.Errorf("unexpected event: %+v", got)
	}

	missing, err := repo.GetSubmission(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("GetSubmission(missing) = %v, %v; want nil, nil", missing, err)
	}

	stats, err := repo.StatsByOutcome(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := map[string]OutcomeStats{
		"acknowledged": {Outcome: "acknowledged", Count: 1, AvgLatencyMs: 50},
		"failed":       {Outcome: "failed", Count: 1, AvgLatencyMs: 300},
		"parsed":       {Outcome: "parsed", Count: 2, AvgLatencyMs: 200},
	}
	if len(stats) != len(want) {
		t.Fatalf("expected %d outcome rows, got %d", len(want), len(stats))
	}
	for _, st := range stats {
		if st != want[st.Outcome] {
			t.Errorf("stats[%s] = %+v, want %+v", st.Outcome, st, want[st.Outcome])
		}
	}
}
