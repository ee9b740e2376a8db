package engine

import (
	"testing"
)

func TestStreaks_Empty(t *testing.T) {
	info := Streaks(NewHistory(day("2024-01-01"), nil), day("2024-01-07"))
	if info.Current != 0 || info.Longest != 0 {
		t.Fatalf("expected 0,0 for empty history, got %d,%d", info.Current, info.Longest)
	}
}

func TestStreaks_ThreeDaysEndingToday(t *testing.T) {
	h := dailyHabit("2024-01-01")
	hist := NewHistory(h.CreatedAt, doneOn(t, h.ID, "2024-01-05", "2024-01-06", "2024-01-07"))

	info := Streaks(hist, day("2024-01-07"))
	if info.Current != 3 {
		t.Errorf("current streak = %d, want 3", info.Current)
	}
	if info.Longest != 3 {
		t.Errorf("longest streak = %d, want 3", info.Longest)
	}
}

func TestStreaks_DeadAfterTwoDays(t *testing.T) {
	h := dailyHabit("2024-01-01")
	hist := NewHistory(h.CreatedAt, doneOn(t, h.ID, "2024-01-05", "2024-01-06", "2024-01-07"))

	info := Streaks(hist, day("2024-01-09"))
	if info.Current != 0 {
		t.Errorf("current streak = %d, want 0 (no success today or yesterday)", info.Current)
	}
	if info.Longest != 3 {
		t.Errorf("longest streak = %d, want 3", info.Longest)
	}
}

func TestCurrentStreak_YesterdayGrace(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), doneOn(t, "h", "2024-01-05", "2024-01-06"))
	if got := CurrentStreak(hist, day("2024-01-07")); got != 2 {
		t.Errorf("current streak = %d, want 2 (grace: logged yesterday)", got)
	}
}

func TestCurrentStreak_FailureAndAbsenceBreakAlike(t *testing.T) {
	withFailure := NewHistory(day("2024-01-01"), logs(t, "h",
		"2024-01-04", "DONE",
		"2024-01-05", "MISSED",
		"2024-01-06", "DONE",
		"2024-01-07", "DONE",
	))
	withGap := NewHistory(day("2024-01-01"), doneOn(t, "h", "2024-01-04", "2024-01-06", "2024-01-07"))

	for name, hist := range map[string]*History{"failure": withFailure, "gap": withGap} {
		if got := CurrentStreak(hist, day("2024-01-07")); got != 2 {
			t.Errorf("%s: current streak = %d, want 2", name, got)
		}
	}
}

func TestCurrentStreak_PartialBreaksRun(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), logs(t, "h",
		"2024-01-05", "DONE",
		"2024-01-06", "PARTIAL",
		"2024-01-07", "DONE",
	))
	if got := CurrentStreak(hist, day("2024-01-07")); got != 1 {
		t.Errorf("current streak = %d, want 1", got)
	}
}

func TestCurrentStreak_QuitHabitResisted(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), logs(t, "h",
		"2024-01-06", "RESISTED",
		"2024-01-07", "RESISTED",
	))
	if got := CurrentStreak(hist, day("2024-01-07")); got != 2 {
		t.Errorf("current streak = %d, want 2", got)
	}
}

func TestCurrentStreak_IgnoresFutureSuccesses(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), doneOn(t, "h", "2024-01-05", "2024-01-06", "2024-01-10"))
	if got := CurrentStreak(hist, day("2024-01-06")); got != 2 {
		t.Errorf("current streak as of 01-06 = %d, want 2", got)
	}
}

func TestBestStreak_LongestLongerThanCurrent(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), doneOn(t, "h",
		"2024-02-10", "2024-02-11", "2024-02-12", "2024-02-13", "2024-02-14",
		"2024-02-25", "2024-02-26",
	))
	info := Streaks(hist, day("2024-02-26"))
	if info.Current != 2 {
		t.Errorf("current streak = %d, want 2", info.Current)
	}
	if info.Longest != 5 {
		t.Errorf("longest streak = %d, want 5", info.Longest)
	}
}

func TestBestStreak_AcrossMonthBoundary(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), doneOn(t, "h", "2024-02-28", "2024-02-29", "2024-03-01"))
	if got := BestStreak(hist); got != 3 {
		t.Errorf("best streak across leap day = %d, want 3", got)
	}
}

func TestStreaks_LongestNeverBelowCurrent(t *testing.T) {
	histories := [][]string{
		nil,
		{"2024-01-07"},
		{"2024-01-01", "2024-01-03", "2024-01-05", "2024-01-06"},
		{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07"},
	}
	for _, dates := range histories {
		hist := NewHistory(day("2024-01-01"), doneOn(t, "h", dates...))
		for _, asOf := range []string{"2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-20"} {
			info := Streaks(hist, day(asOf))
			if info.Longest < info.Current {
				t.Errorf("dates %v asOf %s: longest %d < current %d", dates, asOf, info.Longest, info.Current)
			}
		}
	}
}
