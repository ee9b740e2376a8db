package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/habit"
)

func configTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")
	t.Setenv("NO_COLOR", "1")
	resetFlags()
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = old
		r.Close()
	}()

	fn()

	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("io.Copy: %v", err)
	}
	return buf.String()
}

// resetFlags puts package-level flag variables back to their defaults,
// since tests call run functions directly.
func resetFlags() {
	habitType, habitFreq, habitDays, habitTracking, habitDescription = "", "", "", "", ""
	habitTarget, habitPeriod = 0, 0
	habitGoal, habitCreated = "", ""
	habitListAll, habitDeleteYes = false, false

	logDate, logNote, logValue, logMomentum, undoDate = "", "", 0, false, ""

	goalCategory, goalDate, goalNote, goalHabit = goal.DefaultCategory, "", "", ""
	goalListAll, goalStalled, goalDeleteYes = false, false, false
	goalLimit = 10

	journalMood, journalEnergy, journalDate, journalLimit = 0, 0, "", 7
	statsSnapshot, statsMonths, heatmapWeeks = "", 6, 0
	evaluateDryRun = false
	exportOutput = ""
	todayDate, todayTUI = "", false
	versionShort, versionVerbose = false, false
	tipsShowAll = false
}

// seed opens the stores and hands them to fn.
func seed(t *testing.T, fn func(st *stores)) {
	t.Helper()
	st, err := openStores()
	if err != nil {
		t.Fatalf("openStores: %v", err)
	}
	defer st.Close()
	fn(st)
}

// addHabit stores a habit created days ago.
func addHabit(t *testing.T, st *stores, name string, freq habit.Frequency, cfg habit.FrequencyConfig, daysAgo int) *habit.Habit {
	t.Helper()
	h := &habit.Habit{
		Name:         name,
		Type:         habit.Build,
		Frequency:    freq,
		Config:       cfg,
		TrackingMode: habit.Binary,
		CreatedAt:    calendar.Today(time.Local).AddDays(-daysAgo),
	}
	if err := st.habits.Add(h); err != nil {
		t.Fatalf("Add(%s): %v", name, err)
	}
	return h
}

func TestParseDay(t *testing.T) {
	today := calendar.Today(time.Local)
	tests := []struct {
		in      string
		want    calendar.Date
		wantErr bool
	}{
		{in: "", want: today},
		{in: "today", want: today},
		{in: " Yesterday ", want: today.AddDays(-1)},
		{in: today.AddDays(-3).String(), want: today.AddDays(-3)},
		{in: today.AddDays(1).String(), wantErr: true},
		{in: "last tuesday", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDay(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDay(%q) = %s, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDay(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseDay(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := percent(1, 0); got != 0 {
		t.Errorf("percent(1, 0) = %d, want 0", got)
	}
	if got := percent(2, 3); got != 66 {
		t.Errorf("percent(2, 3) = %d, want 66", got)
	}
}

func TestShortRef(t *testing.T) {
	if got := shortRef("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortRef = %q", got)
	}
	if got := shortRef("abc"); got != "abc" {
		t.Errorf("shortRef(short) = %q", got)
	}
}

func TestLoadDay_SummarizesActiveHabits(t *testing.T) {
	configTestEnv(t)

	seed(t, func(st *stores) {
		h := addHabit(t, st, "Read", habit.Daily, habit.FrequencyConfig{}, 5)
		archived := addHabit(t, st, "Old", habit.Daily, habit.FrequencyConfig{}, 5)
		if err := st.habits.SetActive(archived.ID, false); err != nil {
			t.Fatalf("SetActive: %v", err)
		}
		today := calendar.Today(time.Local)
		if _, _, err := st.habits.Log(h.ID, today, habit.Done, "", nil); err != nil {
			t.Fatalf("Log: %v", err)
		}

		view, err := st.loadDay(today)
		if err != nil {
			t.Fatalf("loadDay: %v", err)
		}
		if len(view.summaries) != 1 {
			t.Fatalf("summaries = %d, want 1", len(view.summaries))
		}
		if !view.summaries[0].Done() {
			t.Error("Read should be done today")
		}
		if !strings.Contains(habitLine(view.summaries[0]), "Read") {
			t.Error("habitLine should name the habit")
		}
	})
}
