package tui

import (
	"database/sql"
	"fmt"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/habit"
	"github.com/rnwolfe/lifeos/internal/journal"
)

// StoreSource backs the dashboard with the local database.
type StoreSource struct {
	habits   *habit.Store
	goals    *goal.Store
	journal  *journal.Store
	rankSize int
}

// NewStoreSource creates a Source over db. rankSize caps the leaderboard.
func NewStoreSource(db *sql.DB, rankSize int) *StoreSource {
	return &StoreSource{
		habits:   habit.NewStore(db),
		goals:    goal.NewStore(db),
		journal:  journal.NewStore(db),
		rankSize: rankSize,
	}
}

// Load summarizes every active habit, open goal and the journal for day.
func (s *StoreSource) Load(day calendar.Date) (TodayData, error) {
	data := TodayData{Day: day}

	habits, err := s.habits.List(false)
	if err != nil {
		return data, err
	}
	logs, err := s.habits.AllLogs()
	if err != nil {
		return data, err
	}
	idx := engine.BuildIndex(habits, logs)
	for i := range habits {
		h := &habits[i]
		data.Habits = append(data.Habits, engine.Summarize(h, idx.History(h.ID), day))
	}
	data.Top = engine.Rank(habits, idx, day, s.rankSize)
	data.Consistency = engine.AverageConsistency(habits, idx, day)

	goals, err := s.goals.List(false)
	if err != nil {
		return data, err
	}
	for _, g := range goals {
		p, err := s.goals.ProgressOn(g.ID, day)
		if err != nil {
			return data, err
		}
		data.Goals = append(data.Goals, GoalLine{Goal: g, Moved: p != nil && p.MovedForward})
	}

	data.Journal, err = s.journal.Get(day)
	if err != nil {
		return data, err
	}
	return data, nil
}

// Mark records the habit's success or failure status on day.
func (s *StoreSource) Mark(habitID string, day calendar.Date, success bool) (*goal.MomentumEvent, error) {
	h, err := s.habits.Get(habitID)
	if err != nil {
		return nil, err
	}
	status := h.FailureStatus()
	if success {
		status = h.SuccessStatus()
	}
	l, _, err := s.habits.Log(h.ID, day, status, "", nil)
	if err != nil {
		return nil, fmt.Errorf("marking %s: %w", h.Name, err)
	}
	return s.goals.Momentum(h, *l)
}

// Undo removes the habit's log for day.
func (s *StoreSource) Undo(habitID string, day calendar.Date) error {
	return s.habits.Undo(habitID, day)
}

// RecordMomentum stores the event as goal progress.
func (s *StoreSource) RecordMomentum(ev *goal.MomentumEvent) error {
	_, err := s.goals.Record(ev, "")
	return err
}
