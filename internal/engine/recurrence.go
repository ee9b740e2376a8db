package engine

import (
	"fmt"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/habit"
)

// WindowState is the progress of a WINDOWED habit in the trailing window
// ending on a reference date.
type WindowState struct {
	Start         calendar.Date
	End           calendar.Date
	CurrentCount  int
	Target        int
	DaysRemaining int
	Satisfied     bool
	// Failed is set once the window has fully elapsed without reaching
	// Target.
	Failed bool
}

// IsDue reports whether h is scheduled on d. Nothing is due before the
// habit's creation date. A WINDOWED habit stays due until its trailing
// window is satisfied, and stays due on any day that already has a
// success-class check-in so the completed entry remains visible.
func IsDue(h *habit.Habit, hist *History, d calendar.Date) bool {
	if !h.CreatedAt.IsZero() && d.Before(h.CreatedAt) {
		return false
	}
	switch h.Frequency {
	case habit.Daily:
		return true
	case habit.Weekly:
		return h.Config.HasDay(d.Weekday())
	case habit.Windowed:
		if hist.SuccessOn(d) {
			return true
		}
		return !Window(h, hist, d).Satisfied
	}
	return false
}

// Window computes the trailing window of h ending on d: the last Period days
// up to and including d, clipped at the creation date. For habits that are
// not WINDOWED it returns a single-day window with a target of one.
func Window(h *habit.Habit, hist *History, d calendar.Date) WindowState {
	target, period := 1, 1
	if h.Frequency == habit.Windowed {
		target, period = max(h.Config.Target, 1), max(h.Config.Period, 1)
	}

	ws := WindowState{End: d, Target: target}
	if !h.CreatedAt.IsZero() && d.Before(h.CreatedAt) {
		ws.Start = d
		ws.DaysRemaining = period
		return ws
	}

	ws.Start = d.AddDays(-(period - 1))
	if !h.CreatedAt.IsZero() && ws.Start.Before(h.CreatedAt) {
		ws.Start = h.CreatedAt
	}
	ws.CurrentCount = hist.countSuccesses(ws.Start, d)
	ws.DaysRemaining = period - (d.DaysSince(ws.Start) + 1)
	ws.Satisfied = ws.CurrentCount >= target
	ws.Failed = ws.DaysRemaining <= 0 && !ws.Satisfied
	return ws
}

// ExpiredWindows walks the fixed, creation-aligned windows of a WINDOWED
// habit that have fully elapsed before today and returns a FAILED log for
// each one that missed its target. A window that already has any log on its
// last day is skipped, so calling this repeatedly never produces a second
// entry for the same window. The returned logs have no id.
func ExpiredWindows(h *habit.Habit, hist *History, today calendar.Date) []habit.Log {
	if h.Frequency != habit.Windowed || h.CreatedAt.IsZero() || !h.CreatedAt.Before(today) {
		return nil
	}
	target, period := max(h.Config.Target, 1), max(h.Config.Period, 1)

	completed := today.DaysSince(h.CreatedAt) / period
	var out []habit.Log
	for i := 0; i < completed; i++ {
		start := h.CreatedAt.AddDays(i * period)
		end := start.AddDays(period - 1)
		if _, logged := hist.ByDate(end); logged {
			continue
		}
		count := hist.countSuccesses(start, end)
		if count >= target {
			continue
		}
		out = append(out, habit.Log{
			HabitID: h.ID,
			Date:    end,
			Status:  habit.Failed,
			Note:    fmt.Sprintf("Window expired. Completed %d/%d.", count, target),
		})
	}
	return out
}
