package insight

import (
	"testing"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/habit"
)

func day(s string) calendar.Date { return calendar.MustParse(s) }

func testHabit(id, name string) habit.Habit {
	return habit.Habit{
		ID:           id,
		Name:         name,
		Type:         habit.Build,
		Frequency:    habit.Daily,
		TrackingMode: habit.Binary,
		CreatedAt:    day("2024-01-01"),
		Active:       true,
	}
}

func TestBuildGoalContext(t *testing.T) {
	g := &goal.Goal{ID: "g1", Name: "Run a marathon", Category: "health", Completed: true, CompletedAt: day("2024-03-01")}
	h := testHabit("h1", "Run")
	logs := []habit.Log{
		{HabitID: "h1", Date: day("2024-01-01"), Status: habit.Done},
		{HabitID: "h1", Date: day("2024-01-02"), Status: habit.Missed},
		{HabitID: "h1", Date: day("2024-01-03"), Status: habit.Done},
	}
	idx := engine.BuildIndex([]habit.Habit{h}, logs)

	var progress []goal.Progress
	start := day("2024-01-01")
	for i := 39; i >= 0; i-- { // newest first, as the store returns them
		progress = append(progress, goal.Progress{Date: start.AddDays(i), MovedForward: i%2 == 0})
	}

	ctx := BuildGoalContext(g, []habit.Habit{h}, idx, progress)
	if ctx.EndDate != "2024-03-01" {
		t.Errorf("end date = %q", ctx.EndDate)
	}
	if ctx.StartDate != "2024-01-01" {
		t.Errorf("start date = %q", ctx.StartDate)
	}
	if len(ctx.Habits) != 1 || ctx.Habits[0].Consistency != "67%" || ctx.Habits[0].Successes != 2 || ctx.Habits[0].TotalLogs != 3 {
		t.Errorf("habit digest = %+v", ctx.Habits)
	}

	if len(ctx.MomentumLogs) != momentumHead+momentumTail {
		t.Fatalf("momentum logs = %d, want %d", len(ctx.MomentumLogs), momentumHead+momentumTail)
	}
	if ctx.MomentumLogs[0].Date != "2024-01-01" || ctx.MomentumLogs[4].Date != "2024-01-05" {
		t.Errorf("head = %s..%s", ctx.MomentumLogs[0].Date, ctx.MomentumLogs[4].Date)
	}
	if ctx.MomentumLogs[5].Date != "2024-01-16" || ctx.MomentumLogs[29].Date != "2024-02-09" {
		t.Errorf("tail = %s..%s", ctx.MomentumLogs[5].Date, ctx.MomentumLogs[29].Date)
	}
}

func TestBuildGoalContext_OpenAndEmpty(t *testing.T) {
	g := &goal.Goal{ID: "g1", Name: "Learn Go"}
	ctx := BuildGoalContext(g, nil, engine.BuildIndex(nil, nil), nil)
	if ctx.EndDate != "Ongoing" || ctx.StartDate != "Unknown" {
		t.Errorf("dates = %q..%q", ctx.StartDate, ctx.EndDate)
	}
	if ctx.Habits == nil || ctx.MomentumLogs == nil {
		t.Error("empty lists should encode as [] not null")
	}
}

func TestBuildHabitContext(t *testing.T) {
	h := testHabit("h1", "Meditate")
	logs := []habit.Log{
		{HabitID: "h1", Date: day("2024-01-01"), Status: habit.Done, Note: "calm"},
		{HabitID: "h1", Date: day("2024-01-02"), Status: habit.Missed, Note: "overslept"},
		{HabitID: "h1", Date: day("2024-01-03"), Status: habit.Done},
	}
	idx := engine.BuildIndex([]habit.Habit{h}, logs)
	hist := idx.History("h1")
	s := engine.Summarize(&h, hist, day("2024-01-03"))

	ctx := BuildHabitContext(s, hist)
	if ctx.Schedule != "every day" || ctx.CurrentStreak != 1 || ctx.BestStreak != 1 {
		t.Errorf("context = %+v", ctx)
	}
	if ctx.Status["done"] != 2 || ctx.Status["missed"] != 1 {
		t.Errorf("status = %v", ctx.Status)
	}
	if len(ctx.RecentNotes) != 2 || ctx.RecentNotes[0].Note != "overslept" {
		t.Errorf("recent notes = %+v", ctx.RecentNotes)
	}
	// 2024-01-01 was a Monday, 2024-01-03 a Wednesday.
	if ctx.DayOfWeek["MON"] != 1 || ctx.DayOfWeek["WED"] != 1 || ctx.DayOfWeek["TUE"] != 0 {
		t.Errorf("weekdays = %v", ctx.DayOfWeek)
	}
}

func TestBuildGlobalContext(t *testing.T) {
	a := testHabit("a", "Alpha")
	b := testHabit("b", "Bravo")
	archived := testHabit("c", "Charlie")
	archived.Active = false
	habits := []habit.Habit{a, b, archived}
	logs := []habit.Log{
		{HabitID: "a", Date: day("2024-01-01"), Status: habit.Done},
		{HabitID: "a", Date: day("2024-01-02"), Status: habit.Done},
		{HabitID: "b", Date: day("2024-01-02"), Status: habit.Done},
	}
	idx := engine.BuildIndex(habits, logs)

	ctx := BuildGlobalContext(habits, idx, day("2024-01-02"), 1)
	if ctx.ActiveHabits != 2 || len(ctx.Habits) != 2 {
		t.Errorf("active = %d, habits = %d", ctx.ActiveHabits, len(ctx.Habits))
	}
	if len(ctx.Leaderboard) != 1 || ctx.Leaderboard[0].Name != "Alpha" {
		t.Errorf("leaderboard = %+v", ctx.Leaderboard)
	}
	if ctx.DayOfWeek["TUE"] != 2 {
		t.Errorf("weekday counts = %v", ctx.DayOfWeek)
	}
	if len(ctx.Pulse) == 0 {
		t.Error("pulse should not be empty")
	}
}
