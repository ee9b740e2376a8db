package journal

import (
	"errors"
	"testing"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/store"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db.Conn())
}

func intp(v int) *int { return &v }

func TestUpsertMerges(t *testing.T) {
	s := setupTestStore(t)
	day := calendar.MustParse("2024-02-10")

	if _, err := s.Upsert(Entry{Date: day, Mood: intp(4), Note: "good run"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := s.Upsert(Entry{Date: day, Energy: intp(2)})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if got.Mood == nil || *got.Mood != 4 || got.Energy == nil || *got.Energy != 2 || got.Note != "good run" {
		t.Errorf("merged entry = %+v", got)
	}

	stored, err := s.Get(day)
	if err != nil || stored == nil {
		t.Fatalf("Get = %v, %v", stored, err)
	}
	if stored.Summary() != "mood 4/5 · energy 2/5 · good run" {
		t.Errorf("Summary = %q", stored.Summary())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   Entry
		wantErr bool
	}{
		{"ok", Entry{Date: calendar.MustParse("2024-01-01"), Mood: intp(5)}, false},
		{"no date", Entry{Mood: intp(3)}, true},
		{"mood too high", Entry{Date: calendar.MustParse("2024-01-01"), Mood: intp(6)}, true},
		{"energy too low", Entry{Date: calendar.MustParse("2024-01-01"), Energy: intp(0)}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.entry.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
	err := (&Entry{Date: calendar.MustParse("2024-01-01"), Mood: intp(9)}).Validate()
	if !errors.Is(err, ErrInvalidScore) {
		t.Errorf("expected ErrInvalidScore, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	s := setupTestStore(t)
	e, err := s.Get(calendar.MustParse("2024-01-01"))
	if err != nil || e != nil {
		t.Errorf("Get missing = %+v, %v", e, err)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	for _, d := range []string{"2024-01-02", "2024-01-05", "2024-01-01"} {
		if _, err := s.Upsert(Entry{Date: calendar.MustParse(d), Note: d}); err != nil {
			t.Fatal(err)
		}
	}
	list, err := s.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].Date.String() != "2024-01-05" || list[1].Date.String() != "2024-01-02" {
		t.Errorf("List(2) = %+v", list)
	}

	if err := s.Delete(calendar.MustParse("2024-01-05")); err != nil {
		t.Fatal(err)
	}
	all, _ := s.List(0)
	if len(all) != 2 {
		t.Errorf("after delete got %d entries", len(all))
	}
}

func TestEmpty(t *testing.T) {
	if !(&Entry{Note: "  "}).Empty() {
		t.Error("blank entry should be empty")
	}
	if (&Entry{Mood: intp(1)}).Empty() {
		t.Error("entry with mood is not empty")
	}
}
