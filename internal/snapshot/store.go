package snapshot

import (
	"fmt"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/habit"
	"github.com/rnwolfe/lifeos/internal/journal"
	"github.com/rnwolfe/lifeos/internal/logger"
)

// Stores bundles the stores a snapshot reads from and writes to.
type Stores struct {
	Habits  *habit.Store
	Goals   *goal.Store
	Journal *journal.Store
}

// Export builds a snapshot of everything in the stores.
func Export(st Stores, now time.Time) (*Snapshot, error) {
	snap := &Snapshot{
		Version:    Version,
		ExportedAt: now.UTC().Truncate(time.Second),
		Habits:     []Habit{},
		Goals:      []Goal{},
	}

	habits, err := st.Habits.List(true)
	if err != nil {
		return nil, err
	}
	for _, h := range habits {
		logs, err := st.Habits.Logs(h.ID)
		if err != nil {
			return nil, err
		}
		sh, err := FromHabit(h, logs)
		if err != nil {
			return nil, err
		}
		snap.Habits = append(snap.Habits, sh)
	}

	goals, err := st.Goals.List(true)
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		progress, err := st.Goals.Progress(g.ID)
		if err != nil {
			return nil, err
		}
		snap.Goals = append(snap.Goals, FromGoal(g, progress))
	}

	if st.Journal != nil {
		entries, err := st.Journal.List(0)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			snap.Journal = append(snap.Journal, FromJournal(e))
		}
	}
	return snap, nil
}

// Result counts what Import wrote and what it had to skip.
type Result struct {
	Habits   int
	Logs     int
	Goals    int
	Progress int
	Journal  int
	Skipped  int
	// Unlinked counts habits whose goal is in neither the snapshot nor the
	// database; they are imported without the link.
	Unlinked int
}

// Import merges a snapshot into the stores by id: records with a known id
// are replaced, new ones are inserted, nothing is deleted. Records that fail
// validation are skipped and counted.
func Import(st Stores, snap *Snapshot) (Result, error) {
	var res Result

	knownGoals := map[string]bool{}
	existing, err := st.Goals.List(true)
	if err != nil {
		return res, err
	}
	for _, g := range existing {
		knownGoals[g.ID] = true
	}

	for _, sg := range snap.Goals {
		if sg.ID == "" || sg.Name == "" {
			res.Skipped++
			continue
		}
		completedAt, _ := calendar.Parse(sg.CompletedAt)
		g := &goal.Goal{
			ID:             sg.ID,
			Name:           sg.Name,
			Category:       sg.Category,
			Completed:      sg.IsCompleted,
			CompletedAt:    completedAt,
			CompletionNote: sg.CompletionNote,
		}
		if g.Category == "" {
			g.Category = goal.DefaultCategory
		}
		if err := st.Goals.Put(g); err != nil {
			return res, err
		}
		knownGoals[g.ID] = true
		res.Goals++
	}

	knownHabits := map[string]bool{}
	for _, sh := range snap.Habits {
		h, err := sh.habit()
		if err != nil {
			logger.Warn("skipping habit from snapshot", "id", sh.ID, "err", err)
			res.Skipped += 1 + len(sh.Logs)
			continue
		}
		if h.LinkedGoalID != "" && !knownGoals[h.LinkedGoalID] {
			h.LinkedGoalID = ""
			res.Unlinked++
		}
		if err := st.Habits.Put(&h); err != nil {
			logger.Warn("skipping habit from snapshot", "id", h.ID, "err", err)
			res.Skipped += 1 + len(sh.Logs)
			continue
		}
		knownHabits[h.ID] = true
		res.Habits++

		for _, sl := range sh.Logs {
			l := sl.log(h.ID)
			if l.Date.IsZero() || !l.Status.Valid() {
				logger.Warn("skipping log from snapshot", "habit", h.ID, "date", sl.Date, "status", sl.Status)
				res.Skipped++
				continue
			}
			if err := st.Habits.PutLog(l); err != nil {
				return res, err
			}
			res.Logs++
		}
	}

	for _, sg := range snap.Goals {
		if !knownGoals[sg.ID] {
			continue
		}
		for _, sp := range sg.Progress {
			date, err := calendar.Parse(sp.Date)
			if err != nil || sp.ID == "" {
				res.Skipped++
				continue
			}
			p := &goal.Progress{
				ID:           sp.ID,
				GoalID:       sg.ID,
				Date:         date,
				MovedForward: sp.MovedForward,
				Note:         sp.Note,
			}
			if sp.SourceHabitID != "" && knownHabits[sp.SourceHabitID] {
				p.SourceHabitID = sp.SourceHabitID
			}
			if err := st.Goals.PutProgress(p); err != nil {
				return res, err
			}
			res.Progress++
		}
	}

	if st.Journal != nil {
		for _, sj := range snap.Journal {
			date, err := calendar.Parse(sj.Date)
			if err != nil {
				res.Skipped++
				continue
			}
			e := &journal.Entry{Date: date, Mood: sj.Mood, Energy: sj.Energy, Note: sj.Note}
			if err := st.Journal.Put(e); err != nil {
				res.Skipped++
				continue
			}
			res.Journal++
		}
	}

	logger.Info("snapshot imported",
		"habits", res.Habits, "logs", res.Logs, "goals", res.Goals,
		"progress", res.Progress, "skipped", res.Skipped)
	return res, nil
}

// Summary renders the result on one line.
func (r Result) Summary() string {
	return fmt.Sprintf("%d habits, %d logs, %d goals, %d progress entries, %d journal entries (%d skipped)",
		r.Habits, r.Logs, r.Goals, r.Progress, r.Journal, r.Skipped)
}
