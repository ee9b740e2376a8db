// Package journal keeps a one-line-per-day mood and energy journal.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/logger"
)

// Scale bounds for mood and energy.
const (
	MinScore = 1
	MaxScore = 5
)

// ErrInvalidScore is returned for a mood or energy outside 1..5.
var ErrInvalidScore = errors.New("score must be between 1 and 5")

// Entry is one day in the journal. Mood and Energy are nil when unset.
type Entry struct {
	Date   calendar.Date
	Mood   *int
	Energy *int
	Note   string
}

// Empty reports whether the entry carries nothing.
func (e *Entry) Empty() bool {
	return e.Mood == nil && e.Energy == nil && strings.TrimSpace(e.Note) == ""
}

// Validate checks the score ranges.
func (e *Entry) Validate() error {
	if e.Date.IsZero() {
		return fmt.Errorf("journal entry needs a date")
	}
	for name, v := range map[string]*int{"mood": e.Mood, "energy": e.Energy} {
		if v != nil && (*v < MinScore || *v > MaxScore) {
			return fmt.Errorf("%s %d: %w", name, *v, ErrInvalidScore)
		}
	}
	return nil
}

// Summary renders the entry on one line, e.g. "mood 4/5 · energy 3/5 · slept well".
func (e *Entry) Summary() string {
	var parts []string
	if e.Mood != nil {
		parts = append(parts, "mood "+strconv.Itoa(*e.Mood)+"/5")
	}
	if e.Energy != nil {
		parts = append(parts, "energy "+strconv.Itoa(*e.Energy)+"/5")
	}
	if n := strings.TrimSpace(e.Note); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, " · ")
}

// Store handles journal persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new journal store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Upsert merges e into the entry for its date. Unset fields in e keep the
// stored value; an empty note keeps the stored note.
func (s *Store) Upsert(e Entry) (*Entry, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	cur, err := s.Get(e.Date)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		cur = &Entry{Date: e.Date}
	}
	if e.Mood != nil {
		cur.Mood = e.Mood
	}
	if e.Energy != nil {
		cur.Energy = e.Energy
	}
	if strings.TrimSpace(e.Note) != "" {
		cur.Note = strings.TrimSpace(e.Note)
	}
	if err := s.Put(cur); err != nil {
		return nil, err
	}
	logger.Debug("journal updated", "date", e.Date)
	return cur, nil
}

// Put writes e as-is, replacing whatever was stored for its date.
func (s *Store) Put(e *Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT INTO daily_logs (date, mood_score, energy_level, note) VALUES (?, ?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
		   mood_score = excluded.mood_score,
		   energy_level = excluded.energy_level,
		   note = excluded.note,
		   updated_at = CURRENT_TIMESTAMP`,
		e.Date.String(), nullInt(e.Mood), nullInt(e.Energy), e.Note,
	)
	if err != nil {
		return fmt.Errorf("saving journal entry: %w", err)
	}
	return nil
}

// Get returns the entry for date, or nil when there is none.
func (s *Store) Get(date calendar.Date) (*Entry, error) {
	row := s.db.QueryRow(
		`SELECT date, mood_score, energy_level, note FROM daily_logs WHERE date = ?`, date.String(),
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading journal entry: %w", err)
	}
	return e, nil
}

// List returns the most recent entries, newest first. limit <= 0 returns all.
func (s *Store) List(limit int) ([]Entry, error) {
	query := `SELECT date, mood_score, energy_level, note FROM daily_logs ORDER BY date DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing journal: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Delete removes the entry for date.
func (s *Store) Delete(date calendar.Date) error {
	if _, err := s.db.Exec(`DELETE FROM daily_logs WHERE date = ?`, date.String()); err != nil {
		return fmt.Errorf("deleting journal entry: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var e Entry
	var date string
	var mood, energy sql.NullInt64
	if err := row.Scan(&date, &mood, &energy, &e.Note); err != nil {
		return nil, err
	}
	e.Date, _ = calendar.Parse(date)
	if mood.Valid {
		v := int(mood.Int64)
		e.Mood = &v
	}
	if energy.Valid {
		v := int(energy.Int64)
		e.Energy = &v
	}
	return &e, nil
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
