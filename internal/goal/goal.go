// Package goal stores long-horizon goals and their day-by-day progress.
package goal

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/logger"
)

var (
	// ErrNotFound is returned when no goal matches a reference.
	ErrNotFound = errors.New("goal not found")
	// ErrAmbiguous is returned when a reference matches more than one goal.
	ErrAmbiguous = errors.New("ambiguous goal reference")
	// ErrGoalCompleted is returned when logging progress on a finished goal.
	ErrGoalCompleted = errors.New("goal is already completed")
)

// MinPrefix is the shortest id prefix Resolve accepts.
const MinPrefix = 4

// DefaultCategory is used when a goal is added without one.
const DefaultCategory = "general"

// Goal is a longer-term objective that habits can feed.
type Goal struct {
	ID             string
	Name           string
	Category       string
	Completed      bool
	CompletedAt    calendar.Date
	CompletionNote string
}

// ShortID returns the first eight characters of the id.
func (g *Goal) ShortID() string {
	if len(g.ID) > 8 {
		return g.ID[:8]
	}
	return g.ID
}

// Progress is one day's entry in a goal's momentum log.
type Progress struct {
	ID           string
	GoalID       string
	Date         calendar.Date
	MovedForward bool
	Note         string
	// SourceHabitID is set when the entry came from a linked habit.
	SourceHabitID string
}

// Store handles goal persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new goal store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const goalColumns = `id, name, category, is_completed, completed_at, completion_note`

// Add creates a goal and returns it.
func (s *Store) Add(name, category string) (*Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("adding goal: name is required")
	}
	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}
	g := &Goal{ID: uuid.NewString(), Name: name, Category: category}
	if err := s.Put(g); err != nil {
		return nil, fmt.Errorf("adding goal: %w", err)
	}
	logger.Debug("goal added", "id", g.ID, "name", g.Name)
	return g, nil
}

// Put inserts g or replaces the stored goal with the same id.
func (s *Store) Put(g *Goal) error {
	var completedAt any
	if !g.CompletedAt.IsZero() {
		completedAt = g.CompletedAt.String()
	}
	_, err := s.db.Exec(
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   category = excluded.category,
		   is_completed = excluded.is_completed,
		   completed_at = excluded.completed_at,
		   completion_note = excluded.completion_note,
		   updated_at = CURRENT_TIMESTAMP`,
		g.ID, g.Name, g.Category, g.Completed, completedAt, g.CompletionNote,
	)
	if err != nil {
		return fmt.Errorf("storing goal: %w", err)
	}
	return nil
}

// Get returns the goal with exactly this id.
func (s *Store) Get(id string) (*Goal, error) {
	row := s.db.QueryRow(`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting goal: %w", err)
	}
	return g, nil
}

// Resolve finds a goal by id, exact name (case-insensitive) or unique id
// prefix of at least MinPrefix characters.
func (s *Store) Resolve(ref string) (*Goal, error) {
	ref = strings.TrimSpace(ref)
	goals, err := s.List(true)
	if err != nil {
		return nil, err
	}

	var byName, byPrefix []*Goal
	for i := range goals {
		g := &goals[i]
		if g.ID == ref {
			return g, nil
		}
		if strings.EqualFold(g.Name, ref) {
			byName = append(byName, g)
		}
		if len(ref) >= MinPrefix && strings.HasPrefix(g.ID, strings.ToLower(ref)) {
			byPrefix = append(byPrefix, g)
		}
	}
	for _, matches := range [][]*Goal{byName, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return nil, fmt.Errorf("%w: %q matches %d goals", ErrAmbiguous, ref, len(matches))
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// List returns goals, open ones first then by name. Completed goals are only
// included when includeCompleted is set.
func (s *Store) List(includeCompleted bool) ([]Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	if !includeCompleted {
		query += ` WHERE is_completed = 0`
	}
	query += ` ORDER BY is_completed ASC, name ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// Complete marks a goal finished on date with an optional note.
func (s *Store) Complete(id string, date calendar.Date, note string) error {
	res, err := s.db.Exec(
		`UPDATE goals SET is_completed = 1, completed_at = ?, completion_note = ?,
		   updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_completed = 0`,
		date.String(), note, id,
	)
	if err != nil {
		return fmt.Errorf("completing goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s not found or already completed", shortID(id))
	}
	logger.Debug("goal completed", "id", id)
	return nil
}

// Reopen clears a goal's completion.
func (s *Store) Reopen(id string) error {
	res, err := s.db.Exec(
		`UPDATE goals SET is_completed = 0, completed_at = NULL, completion_note = '',
		   updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND is_completed = 1`, id,
	)
	if err != nil {
		return fmt.Errorf("reopening goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s not found or not completed", shortID(id))
	}
	return nil
}

// Delete removes a goal with its progress and cached insight. Linked habits
// are unlinked, not deleted.
func (s *Store) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmts := []string{
		`UPDATE habits SET linked_goal_id = NULL WHERE linked_goal_id = ?`,
		`DELETE FROM goal_progress WHERE goal_id = ?`,
		`DELETE FROM goal_insights WHERE goal_id = ?`,
	}
	for _, q := range stmts {
		if _, err := tx.Exec(q, id); err != nil {
			return fmt.Errorf("deleting goal: %w", err)
		}
	}
	res, err := tx.Exec(`DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, shortID(id))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	logger.Debug("goal deleted", "id", id)
	return nil
}

// LogProgress records whether the goal moved forward on date. There is one
// entry per goal per day; logging again replaces it. Completed goals are
// frozen.
func (s *Store) LogProgress(goalID string, date calendar.Date, movedForward bool, note, sourceHabitID string) (*Progress, error) {
	g, err := s.Get(goalID)
	if err != nil {
		return nil, err
	}
	if g.Completed {
		return nil, fmt.Errorf("%w: %s", ErrGoalCompleted, g.Name)
	}

	p := &Progress{
		ID:            uuid.NewString(),
		GoalID:        goalID,
		Date:          date,
		MovedForward:  movedForward,
		Note:          note,
		SourceHabitID: sourceHabitID,
	}
	if err := s.PutProgress(p); err != nil {
		return nil, err
	}
	logger.Debug("goal progress logged", "goal", goalID, "date", date, "source", sourceHabitID)
	return p, nil
}

// PutProgress upserts a progress entry by id, replacing any other entry the
// goal has on the same date.
func (s *Store) PutProgress(p *Progress) error {
	var source any
	if p.SourceHabitID != "" {
		source = p.SourceHabitID
	}
	if _, err := s.db.Exec(
		`DELETE FROM goal_progress WHERE goal_id = ? AND date = ? AND id != ?`,
		p.GoalID, p.Date.String(), p.ID,
	); err != nil {
		return fmt.Errorf("logging progress: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO goal_progress (id, goal_id, date, moved_forward, note, source_habit_id)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   date = excluded.date,
		   moved_forward = excluded.moved_forward,
		   note = excluded.note,
		   source_habit_id = excluded.source_habit_id`,
		p.ID, p.GoalID, p.Date.String(), p.MovedForward, p.Note, source,
	)
	if err != nil {
		return fmt.Errorf("logging progress: %w", err)
	}
	return nil
}

// ProgressOn returns the goal's entry on date, or nil.
func (s *Store) ProgressOn(goalID string, date calendar.Date) (*Progress, error) {
	list, err := s.queryProgress(
		`SELECT id, goal_id, date, moved_forward, note, source_habit_id FROM goal_progress
		 WHERE goal_id = ? AND date = ?`, goalID, date.String(),
	)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return &list[0], nil
}

// Progress returns a goal's entries, newest first.
func (s *Store) Progress(goalID string) ([]Progress, error) {
	return s.queryProgress(
		`SELECT id, goal_id, date, moved_forward, note, source_habit_id FROM goal_progress
		 WHERE goal_id = ? ORDER BY date DESC`, goalID,
	)
}

func (s *Store) queryProgress(query string, args ...any) ([]Progress, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing progress: %w", err)
	}
	defer rows.Close()

	var out []Progress
	for rows.Next() {
		var p Progress
		var date string
		var moved int
		var source sql.NullString
		if err := rows.Scan(&p.ID, &p.GoalID, &date, &moved, &p.Note, &source); err != nil {
			return nil, err
		}
		p.Date, _ = calendar.Parse(date)
		p.MovedForward = moved == 1
		p.SourceHabitID = source.String
		out = append(out, p)
	}
	return out, rows.Err()
}

// CachedInsight returns the stored insight text for a goal, if any.
func (s *Store) CachedInsight(goalID string) (string, bool, error) {
	var content string
	err := s.db.QueryRow(`SELECT content FROM goal_insights WHERE goal_id = ?`, goalID).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading insight: %w", err)
	}
	return content, true, nil
}

// SaveInsight caches generated insight text for a goal.
func (s *Store) SaveInsight(goalID, content, provider, model string) error {
	_, err := s.db.Exec(
		`INSERT INTO goal_insights (goal_id, content, provider, model) VALUES (?, ?, ?, ?)
		 ON CONFLICT(goal_id) DO UPDATE SET
		   content = excluded.content,
		   provider = excluded.provider,
		   model = excluded.model,
		   created_at = CURRENT_TIMESTAMP`,
		goalID, content, provider, model,
	)
	if err != nil {
		return fmt.Errorf("saving insight: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(row scanner) (*Goal, error) {
	var g Goal
	var done int
	var completedAt sql.NullString
	if err := row.Scan(&g.ID, &g.Name, &g.Category, &done, &completedAt, &g.CompletionNote); err != nil {
		return nil, err
	}
	g.Completed = done == 1
	if completedAt.Valid {
		g.CompletedAt, _ = calendar.Parse(completedAt.String)
	}
	return &g, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
