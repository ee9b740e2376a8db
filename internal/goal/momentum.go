package goal

import (
	"errors"
	"fmt"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/habit"
)

// MomentumEvent offers to carry a habit check-in over to the goal the habit
// feeds. The presentation layer decides whether to act on it.
type MomentumEvent struct {
	HabitID   string        `json:"habitId"`
	HabitName string        `json:"habitName"`
	GoalID    string        `json:"goalId"`
	GoalName  string        `json:"goalName"`
	Date      calendar.Date `json:"date"`
	// Note is the suggested progress note.
	Note string `json:"note"`
}

// Bridge returns the momentum event for a freshly recorded log, or nil when
// there is nothing to offer: the log is not a success, the habit feeds no
// goal, the goal is finished, or the goal already has progress that day.
func Bridge(h *habit.Habit, l habit.Log, g *Goal, alreadyLogged bool) *MomentumEvent {
	if h == nil || g == nil || !l.Status.IsSuccess() {
		return nil
	}
	if h.LinkedGoalID == "" || h.LinkedGoalID != g.ID || g.Completed || alreadyLogged {
		return nil
	}
	return &MomentumEvent{
		HabitID:   h.ID,
		HabitName: h.Name,
		GoalID:    g.ID,
		GoalName:  g.Name,
		Date:      l.Date,
		Note:      DefaultMomentumNote(h.Name),
	}
}

// DefaultMomentumNote is the progress note suggested for a habit check-in.
func DefaultMomentumNote(habitName string) string {
	return fmt.Sprintf("Momentum via habit: %s", habitName)
}

// Record stores the event as forward progress attributed to its habit.
func (s *Store) Record(ev *MomentumEvent, note string) (*Progress, error) {
	if note == "" {
		note = ev.Note
	}
	return s.LogProgress(ev.GoalID, ev.Date, true, note, ev.HabitID)
}

// Momentum looks up the goal h feeds and returns the event for l, or nil.
// A linked goal that no longer exists yields nil.
func (s *Store) Momentum(h *habit.Habit, l habit.Log) (*MomentumEvent, error) {
	if h == nil || h.LinkedGoalID == "" || !l.Status.IsSuccess() {
		return nil, nil
	}
	g, err := s.Get(h.LinkedGoalID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	existing, err := s.ProgressOn(g.ID, l.Date)
	if err != nil {
		return nil, err
	}
	return Bridge(h, l, g, existing != nil), nil
}
