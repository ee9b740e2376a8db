// Package snapshot reads and writes the portable JSON document that carries
// every habit, log, goal and journal entry. The engine can compute
// statistics straight from a snapshot without a database.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/habit"
	"github.com/rnwolfe/lifeos/internal/journal"
	"github.com/rnwolfe/lifeos/internal/logger"
)

// Version is the document version written by Encode.
const Version = 1

// Snapshot is the top-level document.
type Snapshot struct {
	Version    int            `json:"version"`
	ExportedAt time.Time      `json:"exportedAt"`
	Habits     []Habit        `json:"habits"`
	Goals      []Goal         `json:"goals"`
	Journal    []JournalEntry `json:"journal,omitempty"`
}

// Habit is a habit with its full log history. Dates are YYYY-MM-DD strings
// and the frequency config stays raw so a document with a bad date or an
// unknown weekday still loads.
type Habit struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	HabitType       string          `json:"habitType"`
	Frequency       string          `json:"frequency"`
	FrequencyConfig json.RawMessage `json:"frequencyConfig,omitempty"`
	TrackingMode    string          `json:"trackingMode"`
	CreatedAt       string          `json:"createdAt"`
	IsActive        bool            `json:"isActive"`
	LinkedGoalID    string          `json:"linkedGoalId,omitempty"`
	Logs            []Log           `json:"logs"`
}

// Log is one habit log entry.
type Log struct {
	ID         string   `json:"id"`
	Date       string   `json:"date"`
	Status     string   `json:"status"`
	Note       string   `json:"note,omitempty"`
	EntryValue *float64 `json:"entryValue,omitempty"`
}

// Goal is a goal with its progress entries.
type Goal struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	IsCompleted    bool       `json:"isCompleted"`
	CompletedAt    string     `json:"completedAt,omitempty"`
	CompletionNote string     `json:"completionNote,omitempty"`
	Progress       []Progress `json:"progress"`
}

// Progress is one goal progress entry.
type Progress struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	MovedForward  bool   `json:"movedForward"`
	Note          string `json:"note,omitempty"`
	SourceHabitID string `json:"sourceHabitId,omitempty"`
}

// JournalEntry is one day of the journal.
type JournalEntry struct {
	Date   string `json:"date"`
	Mood   *int   `json:"mood,omitempty"`
	Energy *int   `json:"energy,omitempty"`
	Note   string `json:"note,omitempty"`
}

// Decode reads a snapshot. Documents from a newer version are rejected.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if s.Version > Version {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", s.Version, Version)
	}
	return &s, nil
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// FromHabit converts a stored habit and its logs.
func FromHabit(h habit.Habit, logs []habit.Log) (Habit, error) {
	cfg, err := json.Marshal(h.Config)
	if err != nil {
		return Habit{}, fmt.Errorf("encoding frequency of %s: %w", h.Name, err)
	}
	out := Habit{
		ID:              h.ID,
		Name:            h.Name,
		Description:     h.Description,
		HabitType:       string(h.Type),
		Frequency:       string(h.Frequency),
		FrequencyConfig: cfg,
		TrackingMode:    string(h.TrackingMode),
		CreatedAt:       h.CreatedAt.String(),
		IsActive:        h.Active,
		LinkedGoalID:    h.LinkedGoalID,
		Logs:            make([]Log, 0, len(logs)),
	}
	for _, l := range logs {
		out.Logs = append(out.Logs, Log{
			ID:         l.ID,
			Date:       l.Date.String(),
			Status:     string(l.Status),
			Note:       l.Note,
			EntryValue: l.Value,
		})
	}
	return out, nil
}

// FromGoal converts a stored goal and its progress.
func FromGoal(g goal.Goal, progress []goal.Progress) Goal {
	out := Goal{
		ID:             g.ID,
		Name:           g.Name,
		Category:       g.Category,
		IsCompleted:    g.Completed,
		CompletedAt:    g.CompletedAt.String(),
		CompletionNote: g.CompletionNote,
		Progress:       make([]Progress, 0, len(progress)),
	}
	for _, p := range progress {
		out.Progress = append(out.Progress, Progress{
			ID:            p.ID,
			Date:          p.Date.String(),
			MovedForward:  p.MovedForward,
			Note:          p.Note,
			SourceHabitID: p.SourceHabitID,
		})
	}
	return out
}

// FromJournal converts a journal entry.
func FromJournal(e journal.Entry) JournalEntry {
	return JournalEntry{Date: e.Date.String(), Mood: e.Mood, Energy: e.Energy, Note: e.Note}
}

// Domain converts the document to engine inputs. Unparseable dates become
// the zero Date; the engine drops such logs and falls back to the earliest
// log for a habit without a creation date. Habits whose frequency config
// cannot be read are left out with their logs and counted in skipped.
func (s *Snapshot) Domain() (habits []habit.Habit, logs []habit.Log, skipped int) {
	habits = make([]habit.Habit, 0, len(s.Habits))
	for _, sh := range s.Habits {
		h, err := sh.habit()
		if err != nil {
			logger.Warn("skipping habit from snapshot", "id", sh.ID, "err", err)
			skipped++
			continue
		}
		habits = append(habits, h)
		for _, sl := range sh.Logs {
			logs = append(logs, sl.log(h.ID))
		}
	}
	return habits, logs, skipped
}

func (sh Habit) habit() (habit.Habit, error) {
	var cfg habit.FrequencyConfig
	if len(sh.FrequencyConfig) > 0 && string(sh.FrequencyConfig) != "null" {
		if err := json.Unmarshal(sh.FrequencyConfig, &cfg); err != nil {
			return habit.Habit{}, fmt.Errorf("%w: %s: %v", habit.ErrInvalidFrequency, sh.Name, err)
		}
	}
	created, _ := calendar.Parse(sh.CreatedAt)
	return habit.Habit{
		ID:           sh.ID,
		Name:         sh.Name,
		Description:  sh.Description,
		Type:         habit.Type(sh.HabitType),
		Frequency:    habit.Frequency(sh.Frequency),
		Config:       cfg,
		TrackingMode: habit.TrackingMode(sh.TrackingMode),
		CreatedAt:    created,
		Active:       sh.IsActive,
		LinkedGoalID: sh.LinkedGoalID,
	}, nil
}

func (sl Log) log(habitID string) habit.Log {
	date, _ := calendar.Parse(sl.Date)
	return habit.Log{
		ID:      sl.ID,
		HabitID: habitID,
		Date:    date,
		Status:  habit.Status(sl.Status),
		Note:    sl.Note,
		Value:   sl.EntryValue,
	}
}
