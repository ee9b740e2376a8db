package engine

import (
	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/habit"
)

// Summary is everything the presentation layer shows about one habit on one
// day, derived in a single pass from its history.
type Summary struct {
	Habit       habit.Habit
	Today       calendar.Date
	Due         bool
	TodayLog    *habit.Log
	Window      *WindowState // WINDOWED habits only
	Streak      StreakInfo
	SuccessRate int
	Resilience  int
	TotalReps   int
	Logs        int
	Status      StatusCounts
	DayOfWeek   [7]int
	Dropped     int
}

// Summarize derives the Summary of h as of today.
func Summarize(h *habit.Habit, hist *History, today calendar.Date) Summary {
	s := Summary{
		Habit:       *h,
		Today:       today,
		Due:         IsDue(h, hist, today),
		Streak:      Streaks(hist, today),
		SuccessRate: SuccessRate(h, hist, today),
		Resilience:  ResilienceScore(hist),
		TotalReps:   TotalReps(hist),
		Logs:        hist.Len(),
		Status:      StatusDistribution(hist),
		DayOfWeek:   DayOfWeek(hist),
		Dropped:     hist.Dropped(),
	}
	if l, ok := hist.ByDate(today); ok {
		s.TodayLog = &l
	}
	if h.Frequency == habit.Windowed {
		ws := Window(h, hist, today)
		s.Window = &ws
	}
	return s
}

// Done reports whether today already has a success-class log.
func (s Summary) Done() bool {
	return s.TodayLog != nil && s.TodayLog.Status.IsSuccess()
}
