// Package habit holds the Habit and Log model, its validation rules and the
// sqlite-backed store.
package habit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
)

var (
	// ErrNotFound is returned when no habit matches a reference.
	ErrNotFound = errors.New("habit not found")
	// ErrAmbiguous is returned when a prefix matches more than one habit.
	ErrAmbiguous = errors.New("ambiguous habit reference")
	// ErrInvalidFrequency is returned for frequency configurations the
	// recurrence rules cannot evaluate.
	ErrInvalidFrequency = errors.New("invalid frequency")
	// ErrInvalidHabit wraps every other validation failure.
	ErrInvalidHabit = errors.New("invalid habit")
	// ErrBeforeCreated is returned when a log is dated before its habit
	// existed. Such entries would never count toward a streak or rate.
	ErrBeforeCreated = errors.New("date is before the habit was created")
)

// Type says whether a habit is being built or quit.
type Type string

const (
	Build Type = "BUILD"
	Quit  Type = "QUIT"
)

// Frequency is the recurrence rule kind.
type Frequency string

const (
	Daily    Frequency = "DAILY"
	Weekly   Frequency = "WEEKLY"
	Windowed Frequency = "WINDOWED"
)

// TrackingMode is how a check-in is recorded.
type TrackingMode string

const (
	Binary    TrackingMode = "BINARY"
	Numeric   TrackingMode = "NUMERIC"
	Checklist TrackingMode = "CHECKLIST"
)

// Status is the outcome recorded for one habit on one day.
type Status string

const (
	Done     Status = "DONE"
	Missed   Status = "MISSED"
	Partial  Status = "PARTIAL"
	Resisted Status = "RESISTED"
	Failed   Status = "FAILED"
)

// IsSuccess reports whether s counts toward streaks and rates.
func (s Status) IsSuccess() bool { return s == Done || s == Resisted }

// IsFailure reports whether s breaks a streak and counts for resilience.
func (s Status) IsFailure() bool { return s == Missed || s == Failed }

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case Done, Missed, Partial, Resisted, Failed:
		return true
	}
	return false
}

// ParseType parses "build" or "quit", case-insensitively.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case Build, Quit:
		return t, nil
	}
	return "", fmt.Errorf("invalid habit type %q (use build or quit)", s)
}

// ParseFrequency parses "daily", "weekly" or "windowed".
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToUpper(strings.TrimSpace(s)))
	switch f {
	case Daily, Weekly, Windowed:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown frequency %q (use daily, weekly or windowed)", ErrInvalidFrequency, s)
}

// ParseTrackingMode parses "binary", "numeric" or "checklist".
func ParseTrackingMode(s string) (TrackingMode, error) {
	m := TrackingMode(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case Binary, Numeric, Checklist:
		return m, nil
	}
	return "", fmt.Errorf("invalid tracking mode %q (use binary, numeric or checklist)", s)
}

// ParseStatus parses a log status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q (use done, missed, partial, resisted or failed)", s)
	}
	return st, nil
}

// FrequencyConfig is the per-frequency payload. Days is used by WEEKLY,
// Target and Period by WINDOWED. DAILY carries nothing.
type FrequencyConfig struct {
	Days   []time.Weekday
	Target int
	Period int
}

// Validate checks that cfg can be evaluated under freq.
func (cfg FrequencyConfig) Validate(freq Frequency) error {
	switch freq {
	case Daily:
		return nil
	case Weekly:
		if len(cfg.Days) == 0 {
			return fmt.Errorf("%w: weekly habits need at least one day", ErrInvalidFrequency)
		}
		for _, d := range cfg.Days {
			if d < time.Sunday || d > time.Saturday {
				return fmt.Errorf("%w: weekday %d out of range", ErrInvalidFrequency, d)
			}
		}
		return nil
	case Windowed:
		if cfg.Target < 1 {
			return fmt.Errorf("%w: target must be at least 1", ErrInvalidFrequency)
		}
		if cfg.Period < 1 {
			return fmt.Errorf("%w: period must be at least 1 day", ErrInvalidFrequency)
		}
		if cfg.Target > cfg.Period {
			return fmt.Errorf("%w: target %d exceeds period of %d days", ErrInvalidFrequency, cfg.Target, cfg.Period)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown frequency %q", ErrInvalidFrequency, freq)
}

// HasDay reports whether wd is one of the configured weekly days.
func (cfg FrequencyConfig) HasDay(wd time.Weekday) bool {
	for _, d := range cfg.Days {
		if d == wd {
			return true
		}
	}
	return false
}

// frequencyConfigJSON is the stored shape: {"days":["MON"]} or
// {"target":3,"period":7}.
type frequencyConfigJSON struct {
	Days   []string `json:"days,omitempty"`
	Target int      `json:"target,omitempty"`
	Period int      `json:"period,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (cfg FrequencyConfig) MarshalJSON() ([]byte, error) {
	out := frequencyConfigJSON{Target: cfg.Target, Period: cfg.Period}
	for _, d := range cfg.Days {
		out.Days = append(out.Days, calendar.WeekdayCode(d))
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (cfg *FrequencyConfig) UnmarshalJSON(b []byte) error {
	var in frequencyConfigJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	days, err := calendar.ParseWeekdays(strings.Join(in.Days, ","))
	if err != nil {
		return err
	}
	*cfg = FrequencyConfig{Days: days, Target: in.Target, Period: in.Period}
	return nil
}

// Describe renders cfg for humans, e.g. "MON, WED, FRI" or "3x every 7 days".
func (cfg FrequencyConfig) Describe(freq Frequency) string {
	switch freq {
	case Weekly:
		return calendar.FormatWeekdays(cfg.Days)
	case Windowed:
		return fmt.Sprintf("%dx every %d days", cfg.Target, cfg.Period)
	}
	return "every day"
}

// Habit is a recurring behaviour to build or quit.
type Habit struct {
	ID           string
	Name         string
	Description  string
	Type         Type
	Frequency    Frequency
	Config       FrequencyConfig
	TrackingMode TrackingMode
	CreatedAt    calendar.Date
	Active       bool
	// LinkedGoalID is empty when the habit feeds no goal.
	LinkedGoalID string
}

// Validate checks every rule a habit must satisfy before it is stored.
func (h *Habit) Validate() error {
	if strings.TrimSpace(h.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidHabit)
	}
	if h.Type != Build && h.Type != Quit {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidHabit, h.Type)
	}
	switch h.TrackingMode {
	case Binary, Numeric, Checklist:
	default:
		return fmt.Errorf("%w: unknown tracking mode %q", ErrInvalidHabit, h.TrackingMode)
	}
	if h.Type == Quit && h.TrackingMode != Binary {
		return fmt.Errorf("%w: quit habits must use binary tracking", ErrInvalidHabit)
	}
	if h.CreatedAt.IsZero() {
		return fmt.Errorf("%w: creation date is required", ErrInvalidHabit)
	}
	return h.Config.Validate(h.Frequency)
}

// SuccessStatus is the status a plain check-in records: DONE for BUILD
// habits, RESISTED for QUIT habits.
func (h *Habit) SuccessStatus() Status {
	if h.Type == Quit {
		return Resisted
	}
	return Done
}

// FailureStatus is the status a missed day records.
func (h *Habit) FailureStatus() Status {
	return Missed
}

// ShortID returns the first eight characters of the id.
func (h *Habit) ShortID() string { return shortID(h.ID) }

// Log is one habit's outcome on one calendar day.
type Log struct {
	ID      string
	HabitID string
	Date    calendar.Date
	Status  Status
	Note    string
	// Value is set for NUMERIC habits.
	Value *float64
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
