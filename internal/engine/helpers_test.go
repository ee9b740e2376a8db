package engine

import (
	"testing"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/habit"
)

func day(s string) calendar.Date { return calendar.MustParse(s) }

func dailyHabit(created string) *habit.Habit {
	return &habit.Habit{
		ID:           "h-daily",
		Name:         "Read",
		Type:         habit.Build,
		Frequency:    habit.Daily,
		TrackingMode: habit.Binary,
		CreatedAt:    day(created),
		Active:       true,
	}
}

func weeklyHabit(created string, days ...time.Weekday) *habit.Habit {
	h := dailyHabit(created)
	h.ID = "h-weekly"
	h.Name = "Gym"
	h.Frequency = habit.Weekly
	h.Config = habit.FrequencyConfig{Days: days}
	return h
}

func windowedHabit(created string, target, period int) *habit.Habit {
	h := dailyHabit(created)
	h.ID = "h-windowed"
	h.Name = "Swim"
	h.Frequency = habit.Windowed
	h.Config = habit.FrequencyConfig{Target: target, Period: period}
	return h
}

// logs builds logs for habitID from date/status pairs: "2024-01-05", "DONE", ...
func logs(t *testing.T, habitID string, pairs ...string) []habit.Log {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatalf("logs: odd number of arguments")
	}
	var out []habit.Log
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, habit.Log{
			ID:      pairs[i],
			HabitID: habitID,
			Date:    day(pairs[i]),
			Status:  habit.Status(pairs[i+1]),
		})
	}
	return out
}

func doneOn(t *testing.T, habitID string, dates ...string) []habit.Log {
	t.Helper()
	var pairs []string
	for _, d := range dates {
		pairs = append(pairs, d, string(habit.Done))
	}
	return logs(t, habitID, pairs...)
}
