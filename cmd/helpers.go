package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/habit"
	"github.com/rnwolfe/lifeos/internal/journal"
	"github.com/rnwolfe/lifeos/internal/logger"
	"github.com/rnwolfe/lifeos/internal/snapshot"
	"github.com/rnwolfe/lifeos/internal/store"
	"github.com/rnwolfe/lifeos/internal/ui"
)

// stores bundles the database and every store built on it.
type stores struct {
	db      *store.DB
	habits  *habit.Store
	goals   *goal.Store
	journal *journal.Store
}

func openStores() (*stores, error) {
	db, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	conn := db.Conn()
	return &stores{
		db:      db,
		habits:  habit.NewStore(conn),
		goals:   goal.NewStore(conn),
		journal: journal.NewStore(conn),
	}, nil
}

func (s *stores) Close() error {
	return s.db.Close()
}

func (s *stores) snapshot() snapshot.Stores {
	return snapshot.Stores{Habits: s.habits, Goals: s.goals, Journal: s.journal}
}

// dayView is every active habit summarized for one day.
type dayView struct {
	habits    []habit.Habit
	idx       *engine.Index
	summaries []engine.Summary
}

// loadDay indexes all logs once and summarizes every active habit on day.
func (s *stores) loadDay(day calendar.Date) (*dayView, error) {
	habits, err := s.habits.List(false)
	if err != nil {
		return nil, err
	}
	logs, err := s.habits.AllLogs()
	if err != nil {
		return nil, err
	}
	v := &dayView{habits: habits, idx: engine.BuildIndex(habits, logs)}
	if n := v.idx.Dropped(); n > 0 {
		logger.Warn("malformed habit logs ignored", "count", n)
	}
	for i := range habits {
		h := &habits[i]
		v.summaries = append(v.summaries, engine.Summarize(h, v.idx.History(h.ID), day))
	}
	return v, nil
}

// history loads one habit's indexed log history.
func (s *stores) history(h *habit.Habit) (*engine.History, error) {
	logs, err := s.habits.Logs(h.ID)
	if err != nil {
		return nil, err
	}
	hist := engine.NewHistory(h.CreatedAt, logs)
	if n := hist.Dropped(); n > 0 {
		logger.Warn("malformed habit logs ignored", "habit", h.ID, "count", n)
	}
	return hist, nil
}

// parseDay reads a --date flag. Empty means today; "yesterday" and
// "today" are accepted alongside YYYY-MM-DD.
func parseDay(s string) (calendar.Date, error) {
	today := calendar.Today(time.Local)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	d, err := calendar.Parse(s)
	if err != nil {
		return calendar.Date{}, err
	}
	if d.After(today) {
		return calendar.Date{}, fmt.Errorf("date %s is in the future", d)
	}
	return d, nil
}

// printDueList prints the habits due on the summaries' day with their state.
func printDueList(summaries []engine.Summary) {
	shown := 0
	for _, s := range summaries {
		if !s.Due && s.TodayLog == nil {
			continue
		}
		fmt.Println(habitLine(s))
		shown++
	}
	if shown == 0 {
		fmt.Println(ui.Muted.Render("  Nothing due."))
	}
}

func habitLine(s engine.Summary) string {
	mark := ui.Warning.Render("○")
	if s.TodayLog != nil {
		mark = engine.FormatStatus(s.TodayLog.Status)
	}
	detail := engine.FormatStreak(s.Streak)
	if s.Window != nil {
		detail = engine.FormatWindow(*s.Window)
	}
	return fmt.Sprintf("  %s %-24s %s  %s", mark, s.Habit.Name, ui.Muted.Render(s.Habit.ShortID()), detail)
}

// confirm asks a yes/no question on the terminal.
func confirm(title, description string) (bool, error) {
	ok := false
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Value(&ok),
	)).Run()
	return ok, err
}
