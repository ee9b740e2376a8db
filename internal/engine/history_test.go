package engine

import (
	"testing"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/habit"
)

func TestNewHistory_SortsAscending(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), logs(t, "h",
		"2024-01-07", "DONE",
		"2024-01-03", "MISSED",
		"2024-01-05", "PARTIAL",
	))
	want := []string{"2024-01-03", "2024-01-05", "2024-01-07"}
	got := hist.Logs()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Date.String() != want[i] {
			t.Errorf("logs[%d] = %s, want %s", i, got[i].Date, want[i])
		}
	}
}

func TestNewHistory_DropsBadAndPreCreationDates(t *testing.T) {
	in := logs(t, "h", "2023-12-31", "DONE", "2024-01-02", "DONE")
	in = append(in, habit.Log{ID: "corrupt", HabitID: "h", Status: habit.Done})

	hist := NewHistory(day("2024-01-01"), in)
	if hist.Len() != 1 {
		t.Fatalf("Len = %d, want 1", hist.Len())
	}
	if hist.Dropped() != 2 {
		t.Errorf("Dropped = %d, want 2", hist.Dropped())
	}
}

func TestNewHistory_LaterSameDateWins(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), logs(t, "h",
		"2024-01-02", "MISSED",
		"2024-01-02", "DONE",
	))
	if hist.Len() != 1 {
		t.Fatalf("Len = %d, want 1", hist.Len())
	}
	l, ok := hist.ByDate(day("2024-01-02"))
	if !ok || l.Status != habit.Done {
		t.Errorf("ByDate = %+v, %v; want DONE", l, ok)
	}
}

func TestNewHistory_ZeroCreatedAtKeepsEverything(t *testing.T) {
	hist := NewHistory(calendar.Date{}, logs(t, "h", "1999-01-01", "DONE"))
	if hist.Len() != 1 {
		t.Errorf("Len = %d, want 1", hist.Len())
	}
}

func TestSuccessDates(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), logs(t, "h",
		"2024-01-02", "DONE",
		"2024-01-03", "MISSED",
		"2024-01-04", "RESISTED",
		"2024-01-05", "PARTIAL",
	))
	desc := hist.SuccessDatesDescending()
	if len(desc) != 2 || desc[0].String() != "2024-01-04" || desc[1].String() != "2024-01-02" {
		t.Errorf("SuccessDatesDescending = %v", desc)
	}
	asc := hist.SuccessDatesAscending()
	if len(asc) != 2 || asc[0].String() != "2024-01-02" {
		t.Errorf("SuccessDatesAscending = %v", asc)
	}
}

func TestBuildIndex(t *testing.T) {
	read := *dailyHabit("2024-01-01")
	gym := *weeklyHabit("2024-01-01")
	all := append(doneOn(t, read.ID, "2024-01-02", "2024-01-03"), doneOn(t, gym.ID, "2024-01-05")...)
	all = append(all, doneOn(t, "ghost", "2024-01-02")...)

	idx := BuildIndex([]habit.Habit{read, gym}, all)
	if n := len(idx.ForHabit(read.ID)); n != 2 {
		t.Errorf("ForHabit(read) = %d logs, want 2", n)
	}
	if _, ok := idx.ByDate(gym.ID, day("2024-01-05")); !ok {
		t.Error("ByDate(gym, 01-05) missing")
	}
	if got := idx.SuccessDatesDescending(read.ID); got[0].String() != "2024-01-03" {
		t.Errorf("SuccessDatesDescending = %v", got)
	}
	if idx.Orphans() != 1 {
		t.Errorf("Orphans = %d, want 1", idx.Orphans())
	}
	if idx.History("unknown").Len() != 0 {
		t.Error("unknown habit should have an empty history")
	}
}
