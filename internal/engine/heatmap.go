package engine

import (
	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/habit"
)

// CellStatus is the derived state of one heatmap day.
type CellStatus int

const (
	// CellFuture is after today and never coloured.
	CellFuture CellStatus = iota
	// CellFiller is before the habit existed; layout only.
	CellFiller
	// CellEmpty is a tracked day with no log.
	CellEmpty
	CellSuccess
	CellFailure
	CellPartial
)

func (s CellStatus) String() string {
	switch s {
	case CellFuture:
		return "future"
	case CellFiller:
		return "filler"
	case CellEmpty:
		return "empty"
	case CellSuccess:
		return "success"
	case CellFailure:
		return "failure"
	case CellPartial:
		return "partial"
	}
	return "unknown"
}

// Cell is one day of the grid.
type Cell struct {
	Date   calendar.Date
	Status CellStatus
}

// Week is seven cells, Monday first.
type Week [7]Cell

// Heatmap is the habit's history laid out in Monday-starting weeks.
type Heatmap struct {
	Start calendar.Date // Monday of the first week
	Today calendar.Date
	Weeks []Week
}

// Project lays out every day from the Monday on or before the habit's
// creation date through the week containing today. It has no side effects;
// the same inputs always produce the same grid.
func Project(h *habit.Habit, hist *History, today calendar.Date) Heatmap {
	created := firstDay(h, hist)
	if created.IsZero() || created.After(today) {
		return Heatmap{Today: today}
	}

	hm := Heatmap{Start: created.StartOfWeek(), Today: today}
	last := today.StartOfWeek()
	for monday := hm.Start; !monday.After(last); monday = monday.AddDays(7) {
		var w Week
		for i := range w {
			d := monday.AddDays(i)
			w[i] = Cell{Date: d, Status: cellStatus(hist, created, today, d)}
		}
		hm.Weeks = append(hm.Weeks, w)
	}
	return hm
}

func cellStatus(hist *History, created, today, d calendar.Date) CellStatus {
	if d.After(today) {
		return CellFuture
	}
	if d.Before(created) {
		return CellFiller
	}
	l, ok := hist.ByDate(d)
	if !ok {
		return CellEmpty
	}
	switch {
	case l.Status.IsSuccess():
		return CellSuccess
	case l.Status.IsFailure():
		return CellFailure
	case l.Status == habit.Partial:
		return CellPartial
	}
	return CellEmpty
}

// Tail returns the last n weeks of the grid. n <= 0 returns all of it.
func (hm Heatmap) Tail(n int) Heatmap {
	if n <= 0 || len(hm.Weeks) <= n {
		return hm
	}
	weeks := hm.Weeks[len(hm.Weeks)-n:]
	return Heatmap{Start: weeks[0][0].Date, Today: hm.Today, Weeks: weeks}
}

// Count returns how many cells have status s.
func (hm Heatmap) Count(s CellStatus) int {
	n := 0
	for _, w := range hm.Weeks {
		for _, c := range w {
			if c.Status == s {
				n++
			}
		}
	}
	return n
}
