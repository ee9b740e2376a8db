package insight

import (
	"sort"
	"strconv"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/habit"
)

// Momentum log sampling for goal prompts: the opening entries show how the
// goal started and the trailing ones how it finished.
const (
	momentumHead = 5
	momentumTail = 25
)

// GoalContext is the data handed to the model for a goal retrospective.
type GoalContext struct {
	Goal         string            `json:"goal"`
	Category     string            `json:"category"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	Habits       []GoalHabitDigest `json:"habits_summary"`
	MomentumLogs []MomentumEntry   `json:"momentum_logs"`
}

// GoalHabitDigest summarizes one habit linked to the goal.
type GoalHabitDigest struct {
	Name      string `json:"name"`
	Frequency string `json:"frequency"`
	// Consistency is successes over logged days, not over calendar days.
	Consistency string `json:"consistency_rate"`
	TotalLogs   int    `json:"total_logs"`
	Successes   int    `json:"successes"`
}

// MomentumEntry is one progress entry.
type MomentumEntry struct {
	Date         string `json:"date"`
	MovedForward bool   `json:"moved_forward"`
	Note         string `json:"note"`
}

// BuildGoalContext gathers a goal, the habits linked to it and its progress
// entries (in any order).
func BuildGoalContext(g *goal.Goal, linked []habit.Habit, idx *engine.Index, progress []goal.Progress) GoalContext {
	ctx := GoalContext{
		Goal:     g.Name,
		Category: g.Category,
		EndDate:  "Ongoing",
		Habits:   []GoalHabitDigest{},
	}
	if g.Completed && !g.CompletedAt.IsZero() {
		ctx.EndDate = g.CompletedAt.String()
	}

	for i := range linked {
		hist := idx.History(linked[i].ID)
		successes := 0
		for _, l := range hist.Logs() {
			if l.Status.IsSuccess() {
				successes++
			}
		}
		rate := 0
		if hist.Len() > 0 {
			rate = int(float64(successes)/float64(hist.Len())*100 + 0.5)
		}
		ctx.Habits = append(ctx.Habits, GoalHabitDigest{
			Name:        linked[i].Name,
			Frequency:   string(linked[i].Frequency),
			Consistency: strconv.Itoa(rate) + "%",
			TotalLogs:   hist.Len(),
			Successes:   successes,
		})
	}

	sorted := append([]goal.Progress(nil), progress...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	if len(sorted) > momentumHead+momentumTail {
		sorted = append(sorted[:momentumHead:momentumHead], sorted[len(sorted)-momentumTail:]...)
	}
	ctx.MomentumLogs = make([]MomentumEntry, 0, len(sorted))
	for _, p := range sorted {
		ctx.MomentumLogs = append(ctx.MomentumLogs, MomentumEntry{
			Date:         p.Date.String(),
			MovedForward: p.MovedForward,
			Note:         p.Note,
		})
	}
	ctx.StartDate = "Unknown"
	if len(sorted) > 0 {
		ctx.StartDate = sorted[0].Date.String()
	}
	return ctx
}

// HabitContext is the data handed to the model for habit coaching.
type HabitContext struct {
	Name          string          `json:"name"`
	Type          string          `json:"type"`
	Schedule      string          `json:"schedule"`
	CreatedAt     string          `json:"created_at"`
	SuccessRate   int             `json:"success_rate"`
	Resilience    int             `json:"resilience_score"`
	CurrentStreak int             `json:"current_streak"`
	BestStreak    int             `json:"best_streak"`
	TotalReps     int             `json:"total_reps"`
	Status        map[string]int  `json:"status_breakdown"`
	DayOfWeek     map[string]int  `json:"successes_by_weekday"`
	RecentNotes   []MomentumEntry `json:"recent_notes,omitempty"`
}

// recentNotes caps how many log notes go into a coaching prompt.
const recentNotes = 10

// BuildHabitContext flattens an engine summary for the prompt.
func BuildHabitContext(s engine.Summary, hist *engine.History) HabitContext {
	ctx := HabitContext{
		Name:          s.Habit.Name,
		Type:          string(s.Habit.Type),
		Schedule:      s.Habit.Config.Describe(s.Habit.Frequency),
		CreatedAt:     s.Habit.CreatedAt.String(),
		SuccessRate:   s.SuccessRate,
		Resilience:    s.Resilience,
		CurrentStreak: s.Streak.Current,
		BestStreak:    s.Streak.Longest,
		TotalReps:     s.TotalReps,
		Status: map[string]int{
			"done":     s.Status.Done,
			"resisted": s.Status.Resisted,
			"partial":  s.Status.Partial,
			"missed":   s.Status.Missed,
			"failed":   s.Status.Failed,
		},
		DayOfWeek: weekdayMap(s.DayOfWeek),
	}
	logs := hist.Logs()
	for i := len(logs) - 1; i >= 0 && len(ctx.RecentNotes) < recentNotes; i-- {
		if logs[i].Note == "" {
			continue
		}
		ctx.RecentNotes = append(ctx.RecentNotes, MomentumEntry{
			Date:         logs[i].Date.String(),
			MovedForward: logs[i].Status.IsSuccess(),
			Note:         logs[i].Note,
		})
	}
	return ctx
}

// GlobalContext is the data handed to the model for the system overview.
type GlobalContext struct {
	ActiveHabits       int            `json:"active_habits"`
	AverageConsistency int            `json:"average_consistency"`
	Leaderboard        []RankedHabit  `json:"leaderboard"`
	Habits             []RankedHabit  `json:"habits"`
	DayOfWeek          map[string]int `json:"successes_by_weekday"`
	Pulse              []PulseEntry   `json:"recent_daily_volume"`
}

// RankedHabit is one habit's score line.
type RankedHabit struct {
	Name   string `json:"name"`
	Rate   int    `json:"success_rate"`
	Streak int    `json:"current_streak"`
	Score  int    `json:"score"`
}

// PulseEntry is one day's success volume.
type PulseEntry struct {
	Date   string `json:"date"`
	Volume int    `json:"volume"`
}

// BuildGlobalContext ranks every active habit as of today.
func BuildGlobalContext(habits []habit.Habit, idx *engine.Index, today calendar.Date, leaderboard int) GlobalContext {
	all := engine.Rank(habits, idx, today, 0)
	ctx := GlobalContext{
		ActiveHabits:       len(all),
		AverageConsistency: engine.AverageConsistency(habits, idx, today),
		Leaderboard:        []RankedHabit{},
		Habits:             make([]RankedHabit, 0, len(all)),
	}
	for i, r := range all {
		rh := RankedHabit{Name: r.Habit.Name, Rate: r.Rate, Streak: r.Streak, Score: r.Score}
		ctx.Habits = append(ctx.Habits, rh)
		if i < leaderboard {
			ctx.Leaderboard = append(ctx.Leaderboard, rh)
		}
	}

	var counts [7]int
	for d, b := range engine.SystemDayOfWeek(habits, idx) {
		counts[d] = b.Count
	}
	ctx.DayOfWeek = weekdayMap(counts)

	for _, p := range engine.SystemPulse(habits, idx, today) {
		ctx.Pulse = append(ctx.Pulse, PulseEntry{Date: p.Date.String(), Volume: p.Volume})
	}
	return ctx
}

func weekdayMap(counts [7]int) map[string]int {
	m := make(map[string]int, 7)
	for d, c := range counts {
		m[calendar.WeekdayCode(time.Weekday(d))] = c
	}
	return m
}
