package engine

import (
	"math"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/habit"
)

// NumericTrendLimit is how many recent numeric entries NumericTrend keeps.
const NumericTrendLimit = 30

// SuccessRate is the percentage of calendar days from creation through asOf
// (inclusive) that have a success-class log. The denominator counts days,
// not logs, so sparse logging cannot inflate the rate. The result is in
// [0, 100].
func SuccessRate(h *habit.Habit, hist *History, asOf calendar.Date) int {
	return percent(successFraction(h, hist, asOf))
}

// successFraction is the unrounded, clamped SuccessRate in [0, 1].
func successFraction(h *habit.Habit, hist *History, asOf calendar.Date) float64 {
	start := firstDay(h, hist)
	if start.IsZero() || asOf.Before(start) {
		return 0
	}
	days := max(1, asOf.DaysSince(start)+1)
	successes := hist.countSuccesses(start, asOf)
	return math.Min(1, float64(successes)/float64(days))
}

// firstDay is the habit's creation date, or its earliest log when the
// creation date is unknown.
func firstDay(h *habit.Habit, hist *History) calendar.Date {
	if !h.CreatedAt.IsZero() {
		return h.CreatedAt
	}
	if logs := hist.Logs(); len(logs) > 0 {
		return logs[0].Date
	}
	return calendar.Date{}
}

// ResilienceScore is the percentage of failure-class logs that are
// immediately followed, in log order, by a success-class log. The next log
// need not be on the next calendar day. It is 0 with fewer than two logs
// and 100 when no failure has a following log to judge.
func ResilienceScore(hist *History) int {
	logs := hist.Logs()
	if len(logs) < 2 {
		return 0
	}

	fails, recovered := 0, 0
	for i := 0; i < len(logs)-1; i++ {
		if !logs[i].Status.IsFailure() {
			continue
		}
		fails++
		if logs[i+1].Status.IsSuccess() {
			recovered++
		}
	}
	if fails == 0 {
		return 100
	}
	return int(math.Round(float64(recovered) / float64(fails) * 100))
}

// DayOfWeek counts success-class logs per weekday, indexed by
// time.Weekday (0 = Sunday).
func DayOfWeek(hist *History) [7]int {
	var counts [7]int
	for _, l := range hist.Logs() {
		if l.Status.IsSuccess() {
			counts[l.Date.Weekday()]++
		}
	}
	return counts
}

// DayBucket is one weekday of the system-wide distribution. Intensity is
// Count relative to the busiest weekday, in [0, 1].
type DayBucket struct {
	Weekday   time.Weekday
	Count     int
	Intensity float64
}

// SystemDayOfWeek combines DayOfWeek over all active habits.
func SystemDayOfWeek(habits []habit.Habit, idx *Index) [7]DayBucket {
	var counts [7]int
	for i := range habits {
		if !habits[i].Active {
			continue
		}
		per := DayOfWeek(idx.History(habits[i].ID))
		for d := range counts {
			counts[d] += per[d]
		}
	}

	peak := 1
	for _, c := range counts {
		peak = max(peak, c)
	}
	var out [7]DayBucket
	for d, c := range counts {
		out[d] = DayBucket{Weekday: time.Weekday(d), Count: c, Intensity: float64(c) / float64(peak)}
	}
	return out
}

// MonthRate is the outcome of one calendar month.
type MonthRate struct {
	Month     calendar.Date // first day of the month
	Successes int
	Logs      int
	// Rate is Successes over Logs as a percentage. Unlike SuccessRate it
	// measures the quality of the days that were logged, not coverage of
	// every day.
	Rate int
}

// MonthlyRates returns one bucket per calendar month from the habit's first
// month through now's month, oldest first.
func MonthlyRates(h *habit.Habit, hist *History, now calendar.Date) []MonthRate {
	start := firstDay(h, hist)
	if start.IsZero() || now.Before(start) {
		return nil
	}

	var out []MonthRate
	for m := start.StartOfMonth(); !m.After(now); m = m.AddMonths(1) {
		out = append(out, MonthRate{Month: m})
	}
	for _, l := range hist.Logs() {
		if l.Date.After(now) {
			continue
		}
		i := monthsBetween(out[0].Month, l.Date)
		if i < 0 || i >= len(out) {
			continue
		}
		out[i].Logs++
		if l.Status.IsSuccess() {
			out[i].Successes++
		}
	}
	for i := range out {
		out[i].Rate = int(math.Round(float64(out[i].Successes) / float64(max(1, out[i].Logs)) * 100))
	}
	return out
}

func monthsBetween(from, to calendar.Date) int {
	return (to.Year()-from.Year())*12 + int(to.Month()-from.Month())
}

// StatusCounts tallies logs by status.
type StatusCounts struct {
	Done     int
	Resisted int
	Partial  int
	Missed   int
	Failed   int
}

// Total returns the number of counted logs.
func (c StatusCounts) Total() int {
	return c.Done + c.Resisted + c.Partial + c.Missed + c.Failed
}

// StatusDistribution counts the habit's logs by status.
func StatusDistribution(hist *History) StatusCounts {
	var c StatusCounts
	for _, l := range hist.Logs() {
		switch l.Status {
		case habit.Done:
			c.Done++
		case habit.Resisted:
			c.Resisted++
		case habit.Partial:
			c.Partial++
		case habit.Missed:
			c.Missed++
		case habit.Failed:
			c.Failed++
		}
	}
	return c
}

// NumericPoint is one recorded value of a NUMERIC habit.
type NumericPoint struct {
	Date  calendar.Date
	Value float64
}

// NumericTrend returns the most recent NumericTrendLimit logged values,
// oldest first.
func NumericTrend(hist *History) []NumericPoint {
	var pts []NumericPoint
	for _, l := range hist.Logs() {
		if l.Value != nil {
			pts = append(pts, NumericPoint{Date: l.Date, Value: *l.Value})
		}
	}
	if len(pts) > NumericTrendLimit {
		pts = pts[len(pts)-NumericTrendLimit:]
	}
	return pts
}

// TotalReps counts success-class logs.
func TotalReps(hist *History) int {
	n := 0
	for _, l := range hist.Logs() {
		if l.Status.IsSuccess() {
			n++
		}
	}
	return n
}

// AverageConsistency is the mean calendar-day success rate of the active
// habits, as a percentage. It is 0 when no habit is active.
func AverageConsistency(habits []habit.Habit, idx *Index, asOf calendar.Date) int {
	var sum float64
	n := 0
	for i := range habits {
		if !habits[i].Active {
			continue
		}
		sum += successFraction(&habits[i], idx.History(habits[i].ID), asOf)
		n++
	}
	if n == 0 {
		return 0
	}
	return percent(sum / float64(n))
}

// PulsePoint is the number of active habits with a success on one day.
type PulsePoint struct {
	Date   calendar.Date
	Volume int
}

// SystemPulse returns daily success volume across active habits for the
// trailing window ending today. The window covers the days since the oldest
// active habit was created, at least 7 and at most 30 days.
func SystemPulse(habits []habit.Habit, idx *Index, today calendar.Date) []PulsePoint {
	earliest := today
	var active []*habit.Habit
	for i := range habits {
		if !habits[i].Active {
			continue
		}
		active = append(active, &habits[i])
		if c := habits[i].CreatedAt; !c.IsZero() && c.Before(earliest) {
			earliest = c
		}
	}

	span := min(max(today.DaysSince(earliest), 6), 29)
	out := make([]PulsePoint, 0, span+1)
	for i := span; i >= 0; i-- {
		d := today.AddDays(-i)
		vol := 0
		for _, h := range active {
			if !h.CreatedAt.IsZero() && d.Before(h.CreatedAt) {
				continue
			}
			if idx.History(h.ID).SuccessOn(d) {
				vol++
			}
		}
		out = append(out, PulsePoint{Date: d, Volume: vol})
	}
	return out
}

func percent(f float64) int {
	p := int(math.Round(f * 100))
	return min(max(p, 0), 100)
}
