package engine

import "github.com/rnwolfe/lifeos/internal/calendar"

// StreakInfo holds current and longest streak values.
type StreakInfo struct {
	Current int
	Longest int
}

// CurrentStreak counts consecutive days with a success-class log ending at
// the most recent success. The streak is alive only if that success is on
// asOf or the day before (one day of grace for not having logged yet
// today). A day without a log breaks the run just like a failure does.
// Successes dated after asOf are ignored.
func CurrentStreak(hist *History, asOf calendar.Date) int {
	dates := hist.SuccessDatesDescending()
	for len(dates) > 0 && dates[0].After(asOf) {
		dates = dates[1:]
	}
	if len(dates) == 0 {
		return 0
	}
	yesterday := asOf.AddDays(-1)
	if !dates[0].Equal(asOf) && !dates[0].Equal(yesterday) {
		return 0
	}

	current := 1
	for i := 1; i < len(dates); i++ {
		if dates[i-1].AddDays(-1).Equal(dates[i]) {
			current++
		} else {
			break
		}
	}
	return current
}

// BestStreak returns the longest run of consecutive success days ever.
func BestStreak(hist *History) int {
	asc := hist.SuccessDatesAscending()
	if len(asc) == 0 {
		return 0
	}

	longest := 1
	run := 1
	for i := 1; i < len(asc); i++ {
		if asc[i].AddDays(-1).Equal(asc[i-1]) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// Streaks returns both streak values. Longest is never below Current.
func Streaks(hist *History, asOf calendar.Date) StreakInfo {
	current := CurrentStreak(hist, asOf)
	longest := BestStreak(hist)
	if current > longest {
		longest = current
	}
	return StreakInfo{Current: current, Longest: longest}
}
