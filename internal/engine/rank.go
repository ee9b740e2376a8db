package engine

import (
	"sort"
	"strings"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/habit"
)

// StreakWeight is how many score points each day of current streak is worth.
const StreakWeight = 10

// RankScore weighs the calendar-day success rate with current momentum.
func RankScore(rate, streak int) int {
	return rate + streak*StreakWeight
}

// Ranking is one row of the leaderboard.
type Ranking struct {
	Habit      habit.Habit
	Rate       int
	Streak     int
	Score      int
	DaysActive int
}

// Rank scores every active habit as of asOf and returns the best first. Ties
// are broken by name. limit <= 0 returns every habit.
func Rank(habits []habit.Habit, idx *Index, asOf calendar.Date, limit int) []Ranking {
	var out []Ranking
	for i := range habits {
		h := &habits[i]
		if !h.Active {
			continue
		}
		hist := idx.History(h.ID)
		rate := SuccessRate(h, hist, asOf)
		streak := CurrentStreak(hist, asOf)
		days := 0
		if start := firstDay(h, hist); !start.IsZero() {
			days = max(1, asOf.DaysSince(start)+1)
		}
		out = append(out, Ranking{
			Habit:      *h,
			Rate:       rate,
			Streak:     streak,
			Score:      RankScore(rate, streak),
			DaysActive: days,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return strings.ToLower(out[i].Habit.Name) < strings.ToLower(out[j].Habit.Name)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
