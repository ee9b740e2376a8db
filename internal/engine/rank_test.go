package engine

import (
	"testing"

	"github.com/rnwolfe/lifeos/internal/habit"
)

func TestRankScore(t *testing.T) {
	if got := RankScore(50, 3); got != 80 {
		t.Errorf("RankScore(50, 3) = %d, want 80", got)
	}
	if got := RankScore(0, 0); got != 0 {
		t.Errorf("RankScore(0, 0) = %d", got)
	}
}

func TestRank(t *testing.T) {
	today := "2024-01-10"
	mk := func(id, name string) habit.Habit {
		h := *dailyHabit("2024-01-01")
		h.ID, h.Name = id, name
		return h
	}
	steady := mk("a", "Steady")    // 5/10 days, streak 0 → 50
	streaky := mk("b", "Streaky")  // 3/10 days, streak 3 → 60
	zeta := mk("c", "Zeta")        // 2/10, streak 0 → 20
	alpha := mk("d", "alpha")      // 2/10, streak 0 → 20, ties with Zeta
	archived := mk("e", "Archived")
	archived.Active = false

	all := doneOn(t, "a", "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05")
	all = append(all, doneOn(t, "b", "2024-01-08", "2024-01-09", "2024-01-10")...)
	all = append(all, doneOn(t, "c", "2024-01-01", "2024-01-03")...)
	all = append(all, doneOn(t, "d", "2024-01-02", "2024-01-04")...)
	all = append(all, doneOn(t, "e", "2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10")...)

	habits := []habit.Habit{zeta, steady, archived, alpha, streaky}
	idx := BuildIndex(habits, all)

	got := Rank(habits, idx, day(today), 0)
	wantOrder := []string{"Streaky", "Steady", "alpha", "Zeta"}
	if len(got) != len(wantOrder) {
		t.Fatalf("ranked %d habits, want %d", len(got), len(wantOrder))
	}
	for i, name := range wantOrder {
		if got[i].Habit.Name != name {
			t.Errorf("rank %d = %s, want %s", i, got[i].Habit.Name, name)
		}
	}
	if got[0].Score != 60 || got[0].Rate != 30 || got[0].Streak != 3 || got[0].DaysActive != 10 {
		t.Errorf("top = %+v", got[0])
	}

	top := Rank(habits, idx, day(today), 3)
	if len(top) != 3 {
		t.Errorf("limit 3 returned %d", len(top))
	}
}
