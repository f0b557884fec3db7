package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/vesaa/hostwatch/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "log.db"), nil)
	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return s
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Append(ctx, models.Record{Timestamp: "2024-01-01 00:00:00", PingStatus: models.PingUp}); err != nil {
		t.Fatal(err)
	}
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
	all, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("rows after second EnsureSchema = %d, want 1", len(all))
	}
}

func TestAllEmptyTable(t *testing.T) {
	s := newTestStore(t)
	all, err := s.All(context.Background())
	if err != nil {
		t.Fatalf("All on empty table: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("All = %#v, want empty non-nil slice", all)
	}

	recent, err := s.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("Recent on empty table: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("Recent = %d rows, want 0", len(recent))
	}
}

func TestAppendThenRecentSingle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rec := models.Record{
		Timestamp:  "2024-03-04 05:06:07",
		CPU:        12.5,
		Memory:     48.25,
		Disk:       70.1,
		PingStatus: models.PingUp,
		PingMS:     9.87,
	}
	if err := s.Append(ctx, rec); err != nil {
		t.Fatal(err)
	}
	if rec.ID != 0 {
		t.Errorf("Append mutated caller's record id: %d", rec.ID)
	}

	got, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("Recent(1) = %d rows, want 1", len(got))
	}
	got[0].ID = 0
	if got[0] != rec {
		t.Errorf("Recent(1) = %+v, want %+v", got[0], rec)
	}
}

func TestRecentReturnsNewest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := models.Record{Timestamp: "2024-01-01 00:00:00", CPU: 10, PingStatus: models.PingUp, PingMS: 12.3}
	second := models.Record{Timestamp: "2024-01-01 00:00:10", CPU: 90, PingStatus: models.PingDown, PingMS: models.NoLatency}
	for _, r := range []models.Record{first, second} {
		if err := s.Append(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("Recent(1) = %d rows, want 1", len(got))
	}
	if got[0].Timestamp != second.Timestamp || got[0].CPU != 90 || got[0].PingStatus != models.PingDown || got[0].PingMS != -1 {
		t.Errorf("Recent(1) = %+v, want second record", got[0])
	}
}

func TestRecentOrderingAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	// Inserted out of order; ordering must follow the timestamp, not the id.
	stamps := []string{
		"2024-01-01 00:00:30",
		"2024-01-01 00:00:10",
		"2024-01-02 00:00:00",
		"2023-12-31 23:59:59",
		"2024-01-01 00:00:20",
		"2024-01-01 00:00:20",
	}
	for _, ts := range stamps {
		if err := s.Append(ctx, models.Record{Timestamp: ts, PingStatus: models.PingUp}); err != nil {
			t.Fatal(err)
		}
	}

	for _, limit := range []int{0, 1, 3, 6, 10} {
		t.Run(fmt.Sprintf("limit=%d", limit), func(t *testing.T) {
			got, err := s.Recent(ctx, limit)
			if err != nil {
				t.Fatal(err)
			}
			want := limit
			if want > len(stamps) {
				want = len(stamps)
			}
			if len(got) != want {
				t.Fatalf("Recent(%d) = %d rows, want %d", limit, len(got), want)
			}
			for i := 1; i < len(got); i++ {
				if got[i-1].Timestamp < got[i].Timestamp {
					t.Errorf("row %d (%s) newer than row %d (%s)", i, got[i].Timestamp, i-1, got[i-1].Timestamp)
				}
			}
		})
	}

	all, err := s.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(stamps) {
		t.Fatalf("All = %d rows, want %d", len(all), len(stamps))
	}
	if all[0].Timestamp != "2023-12-31 23:59:59" || all[len(all)-1].Timestamp != "2024-01-02 00:00:00" {
		t.Errorf("All not ascending: first %s, last %s", all[0].Timestamp, all[len(all)-1].Timestamp)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Timestamp > all[i].Timestamp {
			t.Errorf("All row %d out of order", i)
		}
	}
}

func TestAppendRejectsIncompleteRecord(t *testing.T) {
	s := newTestStore(t)
	err := s.Append(context.Background(), models.Record{CPU: 1})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("Append error = %v, want ErrInvalidRecord", err)
	}
}

func TestReadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.db"), nil)
	if s.Exists() {
		t.Fatal("Exists() = true for absent file")
	}
	if _, err := s.All(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("All error = %v, want ErrNotFound", err)
	}
	if _, err := s.Recent(context.Background(), 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("Recent error = %v, want ErrNotFound", err)
	}
	if s.Exists() {
		t.Error("read path created the database file")
	}
}
