package habit

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/logger"
)

// ErrNoLog is returned by Undo when there is nothing logged on that day.
var ErrNoLog = errors.New("no log for that date")

// MinPrefix is the shortest id prefix Resolve accepts.
const MinPrefix = 4

// Store handles habit and log persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a new habit store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const habitColumns = `id, name, description, habit_type, frequency, frequency_config,
	tracking_mode, created_at, is_active, linked_goal_id`

// Add validates h, assigns it an id and stores it as active.
func (s *Store) Add(h *Habit) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.Active = true
	if err := h.Validate(); err != nil {
		return err
	}
	cfg, err := json.Marshal(h.Config)
	if err != nil {
		return fmt.Errorf("encoding frequency config: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?)`,
		h.ID, h.Name, h.Description, string(h.Type), string(h.Frequency), string(cfg),
		string(h.TrackingMode), h.CreatedAt.String(), nullString(h.LinkedGoalID),
	)
	if err != nil {
		return fmt.Errorf("adding habit: %w", err)
	}
	logger.Debug("habit added", "id", h.ID, "name", h.Name, "frequency", h.Frequency)
	return nil
}

// Put inserts h or replaces the stored habit with the same id. Used by
// snapshot import, where ids come from the document.
func (s *Store) Put(h *Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	cfg, err := json.Marshal(h.Config)
	if err != nil {
		return fmt.Errorf("encoding frequency config: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO habits (`+habitColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   description = excluded.description,
		   habit_type = excluded.habit_type,
		   frequency = excluded.frequency,
		   frequency_config = excluded.frequency_config,
		   tracking_mode = excluded.tracking_mode,
		   created_at = excluded.created_at,
		   is_active = excluded.is_active,
		   linked_goal_id = excluded.linked_goal_id,
		   updated_at = CURRENT_TIMESTAMP`,
		h.ID, h.Name, h.Description, string(h.Type), string(h.Frequency), string(cfg),
		string(h.TrackingMode), h.CreatedAt.String(), boolInt(h.Active), nullString(h.LinkedGoalID),
	)
	if err != nil {
		return fmt.Errorf("storing habit %s: %w", h.ShortID(), err)
	}
	return nil
}

// Update saves the editable fields of an existing habit.
func (s *Store) Update(h *Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}
	cfg, err := json.Marshal(h.Config)
	if err != nil {
		return fmt.Errorf("encoding frequency config: %w", err)
	}
	res, err := s.db.Exec(
		`UPDATE habits SET name = ?, description = ?, habit_type = ?, frequency = ?,
		   frequency_config = ?, tracking_mode = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		h.Name, h.Description, string(h.Type), string(h.Frequency), string(cfg),
		string(h.TrackingMode), h.ID,
	)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, h.ShortID())
	}
	logger.Debug("habit updated", "id", h.ID)
	return nil
}

// Get returns the habit with exactly this id.
func (s *Store) Get(id string) (*Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting habit %s: %w", shortID(id), err)
	}
	return h, nil
}

// Resolve finds a habit by full id, by exact name (case-insensitive) or by a
// unique id prefix of at least MinPrefix characters. Archived habits are
// included.
func (s *Store) Resolve(ref string) (*Habit, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	habits, err := s.List(true)
	if err != nil {
		return nil, err
	}
	h, err := Find(habits, ref)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// Find applies the Resolve rules to an in-memory list.
func Find(habits []Habit, ref string) (*Habit, error) {
	for i := range habits {
		if habits[i].ID == ref {
			return &habits[i], nil
		}
	}

	var byName []int
	for i := range habits {
		if strings.EqualFold(habits[i].Name, ref) {
			byName = append(byName, i)
		}
	}
	switch len(byName) {
	case 1:
		return &habits[byName[0]], nil
	case 0:
	default:
		return nil, fmt.Errorf("%w: %d habits are named %q, use an id", ErrAmbiguous, len(byName), ref)
	}

	if len(ref) < MinPrefix {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	var byPrefix []int
	lower := strings.ToLower(ref)
	for i := range habits {
		if strings.HasPrefix(habits[i].ID, lower) {
			byPrefix = append(byPrefix, i)
		}
	}
	switch len(byPrefix) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
	case 1:
		return &habits[byPrefix[0]], nil
	}
	return nil, fmt.Errorf("%w: %q matches %d habits", ErrAmbiguous, ref, len(byPrefix))
}

// List returns habits ordered by creation date then name. Archived habits
// are only included when includeArchived is set.
func (s *Store) List(includeArchived bool) ([]Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits`
	if !includeArchived {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY created_at ASC, name ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// ListByGoal returns the habits linked to goalID.
func (s *Store) ListByGoal(goalID string) ([]Habit, error) {
	rows, err := s.db.Query(
		`SELECT `+habitColumns+` FROM habits WHERE linked_goal_id = ? ORDER BY name ASC`, goalID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing habits for goal: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// SetActive archives (false) or restores (true) a habit. History is kept
// either way.
func (s *Store) SetActive(id string, active bool) error {
	res, err := s.db.Exec(
		`UPDATE habits SET is_active = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		boolInt(active), id,
	)
	if err != nil {
		return fmt.Errorf("updating habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, shortID(id))
	}
	logger.Debug("habit active flag changed", "id", id, "active", active)
	return nil
}

// Link points a habit at a goal. An empty goalID unlinks it.
func (s *Store) Link(id, goalID string) error {
	res, err := s.db.Exec(
		`UPDATE habits SET linked_goal_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nullString(goalID), id,
	)
	if err != nil {
		return fmt.Errorf("linking habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, shortID(id))
	}
	logger.Debug("habit link changed", "id", id, "goal", goalID)
	return nil
}

// Delete removes a habit and all of its logs.
func (s *Store) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(`DELETE FROM habit_logs WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("deleting habit logs: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, shortID(id))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("deleting habit: %w", err)
	}
	logger.Debug("habit deleted", "id", id)
	return nil
}

// Log records status for a habit on date. A habit has at most one log per
// day: logging again replaces the status, note and value of the existing
// entry and keeps its id. created reports whether a new entry was made.
func (s *Store) Log(habitID string, date calendar.Date, status Status, note string, value *float64) (l *Log, created bool, err error) {
	if !status.Valid() {
		return nil, false, fmt.Errorf("invalid status %q", status)
	}
	if date.IsZero() {
		return nil, false, fmt.Errorf("logging habit: date is required")
	}
	h, err := s.Get(habitID)
	if err != nil {
		return nil, false, err
	}
	if date.Before(h.CreatedAt) {
		return nil, false, fmt.Errorf("%w: %s is before %s was created (%s)", ErrBeforeCreated, date, h.Name, h.CreatedAt)
	}

	existing, err := s.LogOn(habitID, date)
	if err != nil {
		return nil, false, err
	}

	l = &Log{HabitID: habitID, Date: date, Status: status, Note: note, Value: value}
	if existing != nil {
		l.ID = existing.ID
		_, err = s.db.Exec(
			`UPDATE habit_logs SET status = ?, note = ?, entry_value = ? WHERE id = ?`,
			string(status), note, value, l.ID,
		)
		if err != nil {
			return nil, false, fmt.Errorf("updating log: %w", err)
		}
		logger.Debug("habit log replaced", "habit", habitID, "date", date, "status", status)
		return l, false, nil
	}

	l.ID = uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO habit_logs (id, habit_id, date, status, note, entry_value) VALUES (?, ?, ?, ?, ?, ?)`,
		l.ID, habitID, date.String(), string(status), note, value,
	)
	if err != nil {
		return nil, false, fmt.Errorf("logging habit: %w", err)
	}
	logger.Debug("habit logged", "habit", habitID, "date", date, "status", status)
	return l, true, nil
}

// PutLog inserts l or replaces the stored log with the same id. A log for
// the same habit and date under a different id is replaced.
func (s *Store) PutLog(l Log) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if _, err := s.db.Exec(
		`DELETE FROM habit_logs WHERE habit_id = ? AND date = ? AND id != ?`,
		l.HabitID, l.Date.String(), l.ID,
	); err != nil {
		return fmt.Errorf("storing log: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO habit_logs (id, habit_id, date, status, note, entry_value) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   habit_id = excluded.habit_id,
		   date = excluded.date,
		   status = excluded.status,
		   note = excluded.note,
		   entry_value = excluded.entry_value`,
		l.ID, l.HabitID, l.Date.String(), string(l.Status), l.Note, l.Value,
	)
	if err != nil {
		return fmt.Errorf("storing log: %w", err)
	}
	return nil
}

// Undo deletes the log for a habit on date.
func (s *Store) Undo(habitID string, date calendar.Date) error {
	res, err := s.db.Exec(
		`DELETE FROM habit_logs WHERE habit_id = ? AND date = ?`, habitID, date.String(),
	)
	if err != nil {
		return fmt.Errorf("undoing log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w %s", ErrNoLog, date)
	}
	logger.Debug("habit log removed", "habit", habitID, "date", date)
	return nil
}

// LogOn returns the log for a habit on date, or nil.
func (s *Store) LogOn(habitID string, date calendar.Date) (*Log, error) {
	row := s.db.QueryRow(
		`SELECT id, habit_id, date, status, note, entry_value FROM habit_logs
		 WHERE habit_id = ? AND date = ?`, habitID, date.String(),
	)
	l, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting log: %w", err)
	}
	return l, nil
}

// Logs returns a habit's logs in ascending date order.
func (s *Store) Logs(habitID string) ([]Log, error) {
	return s.queryLogs(
		`SELECT id, habit_id, date, status, note, entry_value FROM habit_logs
		 WHERE habit_id = ? ORDER BY date ASC`, habitID,
	)
}

// AllLogs returns every log of every habit, ordered by habit then date.
func (s *Store) AllLogs() ([]Log, error) {
	return s.queryLogs(
		`SELECT id, habit_id, date, status, note, entry_value FROM habit_logs
		 ORDER BY habit_id ASC, date ASC`,
	)
}

// LogsOn returns every habit's log on one day.
func (s *Store) LogsOn(date calendar.Date) ([]Log, error) {
	return s.queryLogs(
		`SELECT id, habit_id, date, status, note, entry_value FROM habit_logs
		 WHERE date = ? ORDER BY habit_id ASC`, date.String(),
	)
}

func (s *Store) queryLogs(query string, args ...any) ([]Log, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	defer rows.Close()

	var logs []Log
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (*Habit, error) {
	var h Habit
	var habitType, freq, cfg, mode, created string
	var active int
	var goalID sql.NullString

	if err := row.Scan(&h.ID, &h.Name, &h.Description, &habitType, &freq, &cfg,
		&mode, &created, &active, &goalID); err != nil {
		return nil, err
	}
	h.Type = Type(habitType)
	h.Frequency = Frequency(freq)
	h.TrackingMode = TrackingMode(mode)
	h.Active = active == 1
	h.LinkedGoalID = goalID.String
	if cfg != "" {
		if err := json.Unmarshal([]byte(cfg), &h.Config); err != nil {
			return nil, fmt.Errorf("decoding frequency config of %s: %w", shortID(h.ID), err)
		}
	}
	// A malformed stored date stays zero; callers treat it as unknown.
	h.CreatedAt, _ = calendar.Parse(created)
	return &h, nil
}

func scanLog(row scanner) (*Log, error) {
	var l Log
	var date, status string
	var note sql.NullString
	var value sql.NullFloat64

	if err := row.Scan(&l.ID, &l.HabitID, &date, &status, &note, &value); err != nil {
		return nil, err
	}
	// Left zero when malformed; the engine drops such entries.
	l.Date, _ = calendar.Parse(date)
	l.Status = Status(status)
	l.Note = note.String
	if value.Valid {
		v := value.Float64
		l.Value = &v
	}
	return &l, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
