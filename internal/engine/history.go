// Package engine derives everything shown about a habit from its immutable
// log history: whether it is due, window progress, streaks, rates,
// resilience and the heatmap grid.
//
// Every function here is pure and total. Nothing is cached between calls;
// callers rebuild a History from the current log snapshot whenever the logs
// change.
package engine

import (
	"sort"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/habit"
)

// History is one habit's logs, ascending by date with at most one entry per
// date.
type History struct {
	createdAt calendar.Date
	logs      []habit.Log
	byDate    map[calendar.Date]int
	dropped   int
}

// NewHistory indexes logs for a habit created on createdAt. Entries with a
// zero date or a date before createdAt are dropped. When two entries share a
// date the later one in logs wins. A zero createdAt disables the lower bound.
func NewHistory(createdAt calendar.Date, logs []habit.Log) *History {
	h := &History{createdAt: createdAt, byDate: make(map[calendar.Date]int, len(logs))}

	latest := make(map[calendar.Date]habit.Log, len(logs))
	for _, l := range logs {
		if l.Date.IsZero() || (!createdAt.IsZero() && l.Date.Before(createdAt)) {
			h.dropped++
			continue
		}
		if _, dup := latest[l.Date]; dup {
			h.dropped++
		}
		latest[l.Date] = l
	}

	h.logs = make([]habit.Log, 0, len(latest))
	for _, l := range latest {
		h.logs = append(h.logs, l)
	}
	sort.Slice(h.logs, func(i, j int) bool { return h.logs[i].Date.Before(h.logs[j].Date) })
	for i, l := range h.logs {
		h.byDate[l.Date] = i
	}
	return h
}

// CreatedAt returns the lower bound the history was built with.
func (h *History) CreatedAt() calendar.Date { return h.createdAt }

// Dropped returns how many input entries were excluded.
func (h *History) Dropped() int { return h.dropped }

// Len returns the number of indexed logs.
func (h *History) Len() int { return len(h.logs) }

// Logs returns the logs in ascending date order. The slice must not be
// modified.
func (h *History) Logs() []habit.Log { return h.logs }

// ByDate returns the log on d, if any.
func (h *History) ByDate(d calendar.Date) (habit.Log, bool) {
	i, ok := h.byDate[d]
	if !ok {
		return habit.Log{}, false
	}
	return h.logs[i], true
}

// SuccessOn reports whether d has a success-class log.
func (h *History) SuccessOn(d calendar.Date) bool {
	l, ok := h.ByDate(d)
	return ok && l.Status.IsSuccess()
}

// SuccessDatesAscending returns the dates of success-class logs, oldest first.
func (h *History) SuccessDatesAscending() []calendar.Date {
	var dates []calendar.Date
	for _, l := range h.logs {
		if l.Status.IsSuccess() {
			dates = append(dates, l.Date)
		}
	}
	return dates
}

// SuccessDatesDescending returns the dates of success-class logs, newest first.
func (h *History) SuccessDatesDescending() []calendar.Date {
	asc := h.SuccessDatesAscending()
	for i, j := 0, len(asc)-1; i < j; i, j = i+1, j-1 {
		asc[i], asc[j] = asc[j], asc[i]
	}
	return asc
}

// countSuccesses counts success-class logs dated within [from, to].
func (h *History) countSuccesses(from, to calendar.Date) int {
	n := 0
	for _, l := range h.logs {
		if l.Date.Before(from) || l.Date.After(to) {
			continue
		}
		if l.Status.IsSuccess() {
			n++
		}
	}
	return n
}

// Index groups the logs of many habits by habit id.
type Index struct {
	habits    map[string]habit.Habit
	histories map[string]*History
	orphans   int
}

// BuildIndex builds a History for every habit. Logs for habits not in
// habits are ignored and counted by Orphans.
func BuildIndex(habits []habit.Habit, logs []habit.Log) *Index {
	grouped := make(map[string][]habit.Log, len(habits))
	known := make(map[string]habit.Habit, len(habits))
	for _, h := range habits {
		known[h.ID] = h
	}

	idx := &Index{habits: known, histories: make(map[string]*History, len(habits))}
	for _, l := range logs {
		if _, ok := known[l.HabitID]; !ok {
			idx.orphans++
			continue
		}
		grouped[l.HabitID] = append(grouped[l.HabitID], l)
	}
	for id, h := range known {
		idx.histories[id] = NewHistory(h.CreatedAt, grouped[id])
	}
	return idx
}

// History returns the history of habit id. Unknown ids get an empty history.
func (idx *Index) History(id string) *History {
	if h, ok := idx.histories[id]; ok {
		return h
	}
	return NewHistory(calendar.Date{}, nil)
}

// ForHabit returns the habit's logs in ascending date order.
func (idx *Index) ForHabit(id string) []habit.Log {
	return idx.History(id).Logs()
}

// ByDate returns the habit's log on d, if any.
func (idx *Index) ByDate(id string, d calendar.Date) (habit.Log, bool) {
	return idx.History(id).ByDate(d)
}

// SuccessDatesDescending returns the habit's success dates, newest first.
func (idx *Index) SuccessDatesDescending(id string) []calendar.Date {
	return idx.History(id).SuccessDatesDescending()
}

// Orphans returns how many logs referenced unknown habits.
func (idx *Index) Orphans() int { return idx.orphans }

// Dropped returns the total number of log entries excluded across all
// habits.
func (idx *Index) Dropped() int {
	n := 0
	for _, h := range idx.histories {
		n += h.Dropped()
	}
	return n
}
