package engine

import (
	"testing"
	"time"

	"github.com/rnwolfe/lifeos/internal/habit"
)

func TestSuccessRate(t *testing.T) {
	h := dailyHabit("2024-01-01")
	tests := []struct {
		name  string
		dates []string
		asOf  string
		want  int
	}{
		{"no logs on creation day", nil, "2024-01-01", 0},
		{"half of ten days", []string{"2024-01-01", "2024-01-03", "2024-01-05", "2024-01-07", "2024-01-09"}, "2024-01-10", 50},
		{"every day", []string{"2024-01-01", "2024-01-02", "2024-01-03"}, "2024-01-03", 100},
		{"one of three rounds", []string{"2024-01-02"}, "2024-01-03", 33},
		{"successes after asOf ignored", []string{"2024-01-01", "2024-01-05"}, "2024-01-02", 50},
		{"asOf before creation", []string{"2024-01-01"}, "2023-12-25", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hist := NewHistory(h.CreatedAt, doneOn(t, h.ID, tc.dates...))
			if got := SuccessRate(h, hist, day(tc.asOf)); got != tc.want {
				t.Errorf("SuccessRate = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSuccessRate_DenominatorIsCalendarDays(t *testing.T) {
	h := dailyHabit("2024-01-01")
	// Two logged days out of twenty: logging sparsely must not look like 100%.
	hist := NewHistory(h.CreatedAt, doneOn(t, h.ID, "2024-01-10", "2024-01-20"))
	if got := SuccessRate(h, hist, day("2024-01-20")); got != 10 {
		t.Errorf("SuccessRate = %d, want 10", got)
	}
}

func TestSuccessRate_Bounds(t *testing.T) {
	h := dailyHabit("2024-01-01")
	histories := [][]habit.Log{
		nil,
		doneOn(t, h.ID, "2024-01-01"),
		logs(t, h.ID, "2024-01-01", "MISSED", "2024-01-02", "FAILED"),
	}
	for _, in := range histories {
		hist := NewHistory(h.CreatedAt, in)
		for _, asOf := range []string{"2023-01-01", "2024-01-01", "2024-01-02", "2030-01-01"} {
			got := SuccessRate(h, hist, day(asOf))
			if got < 0 || got > 100 {
				t.Errorf("SuccessRate out of range: %d", got)
			}
		}
	}
}

func TestResilienceScore(t *testing.T) {
	tests := []struct {
		name  string
		pairs []string
		want  int
	}{
		{"no logs", nil, 0},
		{"single failure", []string{"2024-01-02", "MISSED"}, 0},
		{"single success", []string{"2024-01-02", "DONE"}, 0},
		{"no failures", []string{"2024-01-02", "DONE", "2024-01-03", "PARTIAL", "2024-01-04", "DONE"}, 100},
		{"trailing failure is not judged", []string{"2024-01-02", "DONE", "2024-01-03", "MISSED"}, 100},
		{"never recovered", []string{"2024-01-02", "MISSED", "2024-01-03", "FAILED", "2024-01-04", "PARTIAL"}, 0},
		{"half recovered", []string{
			"2024-01-02", "MISSED",
			"2024-01-03", "DONE",
			"2024-01-04", "FAILED",
			"2024-01-05", "PARTIAL",
			"2024-01-06", "MISSED",
		}, 50},
		{"recovery after a gap counts", []string{"2024-01-02", "MISSED", "2024-01-09", "RESISTED"}, 100},
		{"two of three rounds", []string{
			"2024-01-02", "MISSED", "2024-01-03", "DONE",
			"2024-01-04", "MISSED", "2024-01-05", "DONE",
			"2024-01-06", "MISSED", "2024-01-07", "MISSED",
		}, 67},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hist := NewHistory(day("2024-01-01"), logs(t, "h", tc.pairs...))
			if got := ResilienceScore(hist); got != tc.want {
				t.Errorf("ResilienceScore = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDayOfWeek(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), logs(t, "h",
		"2024-01-01", "DONE", // Mon
		"2024-01-07", "DONE", // Sun
		"2024-01-08", "RESISTED", // Mon
		"2024-01-09", "MISSED", // Tue
	))
	got := DayOfWeek(hist)
	if got[time.Sunday] != 1 || got[time.Monday] != 2 || got[time.Tuesday] != 0 {
		t.Errorf("DayOfWeek = %v", got)
	}
}

func TestSystemDayOfWeek(t *testing.T) {
	a := *dailyHabit("2024-01-01")
	b := *weeklyHabit("2024-01-01", time.Monday)
	archived := *dailyHabit("2024-01-01")
	archived.ID = "h-archived"
	archived.Active = false

	all := append(doneOn(t, a.ID, "2024-01-01", "2024-01-02"), doneOn(t, b.ID, "2024-01-08")...)
	all = append(all, doneOn(t, archived.ID, "2024-01-03", "2024-01-10")...)
	idx := BuildIndex([]habit.Habit{a, b, archived}, all)

	got := SystemDayOfWeek([]habit.Habit{a, b, archived}, idx)
	if got[time.Monday].Count != 2 || got[time.Tuesday].Count != 1 || got[time.Wednesday].Count != 0 {
		t.Errorf("counts = %+v", got)
	}
	if got[time.Monday].Intensity != 1 || got[time.Tuesday].Intensity != 0.5 {
		t.Errorf("intensity mon %.2f tue %.2f", got[time.Monday].Intensity, got[time.Tuesday].Intensity)
	}

	empty := SystemDayOfWeek(nil, BuildIndex(nil, nil))
	for _, b := range empty {
		if b.Count != 0 || b.Intensity != 0 {
			t.Errorf("empty system bucket = %+v", b)
		}
	}
}

func TestMonthlyRates(t *testing.T) {
	h := dailyHabit("2024-01-15")
	hist := NewHistory(h.CreatedAt, logs(t, h.ID,
		"2024-01-16", "DONE",
		"2024-01-20", "MISSED",
		"2024-03-02", "DONE",
		"2024-03-20", "DONE", // after now
	))

	got := MonthlyRates(h, hist, day("2024-03-10"))
	if len(got) != 3 {
		t.Fatalf("got %d months, want 3: %+v", len(got), got)
	}
	want := []struct {
		month     string
		successes int
		logs      int
		rate      int
	}{
		{"2024-01-01", 1, 2, 50},
		{"2024-02-01", 0, 0, 0},
		{"2024-03-01", 1, 1, 100},
	}
	for i, w := range want {
		m := got[i]
		if m.Month.String() != w.month || m.Successes != w.successes || m.Logs != w.logs || m.Rate != w.rate {
			t.Errorf("month %d = %+v, want %+v", i, m, w)
		}
	}
}

func TestMonthlyRates_DiffersFromSuccessRate(t *testing.T) {
	h := dailyHabit("2024-01-01")
	hist := NewHistory(h.CreatedAt, doneOn(t, h.ID, "2024-01-10"))
	now := day("2024-01-10")

	months := MonthlyRates(h, hist, now)
	if months[0].Rate != 100 {
		t.Errorf("monthly rate = %d, want 100 (one logged day, one success)", months[0].Rate)
	}
	if got := SuccessRate(h, hist, now); got != 10 {
		t.Errorf("success rate = %d, want 10 (one success in ten days)", got)
	}
}

func TestMonthlyRates_AcrossYear(t *testing.T) {
	h := dailyHabit("2023-11-20")
	got := MonthlyRates(h, NewHistory(h.CreatedAt, nil), day("2024-02-01"))
	if len(got) != 4 || got[3].Month.String() != "2024-02-01" {
		t.Errorf("months = %+v", got)
	}
}

func TestStatusDistribution(t *testing.T) {
	hist := NewHistory(day("2024-01-01"), logs(t, "h",
		"2024-01-01", "DONE",
		"2024-01-02", "DONE",
		"2024-01-03", "PARTIAL",
		"2024-01-04", "MISSED",
		"2024-01-05", "FAILED",
		"2024-01-06", "RESISTED",
	))
	c := StatusDistribution(hist)
	if c.Done != 2 || c.Partial != 1 || c.Missed != 1 || c.Failed != 1 || c.Resisted != 1 || c.Total() != 6 {
		t.Errorf("StatusDistribution = %+v", c)
	}
	if TotalReps(hist) != 3 {
		t.Errorf("TotalReps = %d, want 3", TotalReps(hist))
	}
}

func TestNumericTrend(t *testing.T) {
	start := day("2024-01-01")
	var in []habit.Log
	for i := 0; i < 35; i++ {
		v := float64(i)
		in = append(in, habit.Log{HabitID: "h", Date: start.AddDays(i), Status: habit.Done, Value: &v})
	}
	in = append(in, habit.Log{HabitID: "h", Date: start.AddDays(40), Status: habit.Done})

	pts := NumericTrend(NewHistory(start, in))
	if len(pts) != NumericTrendLimit {
		t.Fatalf("len = %d, want %d", len(pts), NumericTrendLimit)
	}
	if pts[0].Value != 5 || pts[len(pts)-1].Value != 34 {
		t.Errorf("trend spans %.0f..%.0f, want 5..34", pts[0].Value, pts[len(pts)-1].Value)
	}
}

func TestAverageConsistency(t *testing.T) {
	a := *dailyHabit("2024-01-01")
	b := *dailyHabit("2024-01-03")
	b.ID = "h-b"
	off := *dailyHabit("2024-01-01")
	off.ID = "h-off"
	off.Active = false

	all := append(doneOn(t, a.ID, "2024-01-01", "2024-01-02"), doneOn(t, b.ID, "2024-01-03", "2024-01-04")...)
	habits := []habit.Habit{a, b, off}
	idx := BuildIndex(habits, all)

	// a: 2 of 4 days, b: 2 of 2 days, off is ignored.
	if got := AverageConsistency(habits, idx, day("2024-01-04")); got != 75 {
		t.Errorf("AverageConsistency = %d, want 75", got)
	}
	if got := AverageConsistency(nil, idx, day("2024-01-04")); got != 0 {
		t.Errorf("AverageConsistency with no habits = %d, want 0", got)
	}
}

func TestSystemPulse(t *testing.T) {
	today := day("2024-03-01")

	if got := SystemPulse(nil, BuildIndex(nil, nil), today); len(got) != 7 {
		t.Errorf("empty system: %d points, want 7", len(got))
	}

	young := *dailyHabit("2024-02-20")
	got := SystemPulse([]habit.Habit{young}, BuildIndex([]habit.Habit{young}, nil), today)
	if len(got) != 11 {
		t.Errorf("10-day-old system: %d points, want 11", len(got))
	}

	old := *dailyHabit("2023-06-01")
	old.ID = "h-old"
	habits := []habit.Habit{old, young}
	all := append(doneOn(t, old.ID, "2024-03-01", "2024-02-29"), doneOn(t, young.ID, "2024-03-01")...)
	got = SystemPulse(habits, BuildIndex(habits, all), today)
	if len(got) != 30 {
		t.Fatalf("mature system: %d points, want 30", len(got))
	}
	last := got[len(got)-1]
	if !last.Date.Equal(today) || last.Volume != 2 {
		t.Errorf("today's point = %+v, want volume 2", last)
	}
	if got[len(got)-2].Volume != 1 {
		t.Errorf("yesterday's volume = %d, want 1", got[len(got)-2].Volume)
	}
	if !got[0].Date.Equal(today.AddDays(-29)) {
		t.Errorf("first point = %s", got[0].Date)
	}
}

func TestZeroLogDefaults(t *testing.T) {
	h := dailyHabit("2024-01-01")
	hist := NewHistory(h.CreatedAt, nil)
	today := day("2024-01-01")

	s := Summarize(h, hist, today)
	if s.Streak.Current != 0 || s.Streak.Longest != 0 {
		t.Errorf("streak = %+v", s.Streak)
	}
	if s.SuccessRate != 0 {
		t.Errorf("rate = %d", s.SuccessRate)
	}
	if ResilienceScore(hist) != 0 {
		t.Errorf("resilience with no logs = %d", ResilienceScore(hist))
	}
	hm := Project(h, hist, today)
	if hm.Count(CellSuccess)+hm.Count(CellFailure)+hm.Count(CellPartial) != 0 {
		t.Error("heatmap of empty history has coloured cells")
	}
}
