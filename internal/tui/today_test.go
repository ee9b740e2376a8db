package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/habit"
	"github.com/rnwolfe/lifeos/internal/journal"
)

var testToday = calendar.MustParse("2024-03-06")

// fakeSource records calls and serves canned data.
type fakeSource struct {
	data     TodayData
	loadErr  error
	loaded   []calendar.Date
	marked   []string
	undone   []string
	recorded []*goal.MomentumEvent
	offer    *goal.MomentumEvent
}

func (f *fakeSource) Load(day calendar.Date) (TodayData, error) {
	f.loaded = append(f.loaded, day)
	d := f.data
	d.Day = day
	return d, f.loadErr
}

func (f *fakeSource) Mark(habitID string, day calendar.Date, success bool) (*goal.MomentumEvent, error) {
	state := "miss"
	if success {
		state = "done"
	}
	f.marked = append(f.marked, habitID+":"+day.String()+":"+state)
	return f.offer, nil
}

func (f *fakeSource) Undo(habitID string, day calendar.Date) error {
	f.undone = append(f.undone, habitID+":"+day.String())
	return nil
}

func (f *fakeSource) RecordMomentum(ev *goal.MomentumEvent) error {
	f.recorded = append(f.recorded, ev)
	return nil
}

func makeTodayData() TodayData {
	run := habit.Habit{ID: "h-run", Name: "Run", Type: habit.Build, Frequency: habit.Daily, Active: true}
	smoke := habit.Habit{ID: "h-smoke", Name: "No smoking", Type: habit.Quit, Frequency: habit.Daily, Active: true}
	done := habit.Log{HabitID: "h-smoke", Date: testToday, Status: habit.Resisted}
	mood := 4
	return TodayData{
		Day: testToday,
		Habits: []engine.Summary{
			{Habit: run, Today: testToday, Due: true, SuccessRate: 50},
			{Habit: smoke, Today: testToday, Due: true, TodayLog: &done, Streak: engine.StreakInfo{Current: 3, Longest: 5}},
		},
		Goals:   []GoalLine{{Goal: goal.Goal{ID: "g1", Name: "Get fit", Category: "health"}, Moved: true}},
		Journal: &journal.Entry{Date: testToday, Mood: &mood, Note: "good day"},
		Top: []engine.Ranking{
			{Habit: smoke, Rate: 80, Streak: 3},
		},
		Consistency: 65,
	}
}

// newLoadedModel creates a TodayModel with pre-loaded data.
func newLoadedModel(src *fakeSource, width int) *TodayModel {
	m := NewTodayModel(src, testToday, testToday)
	m.width = width
	m.Update(todayDataMsg(src.data))
	return m
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *TodayModel, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	_, next := m.Update(cmd())
	if next != nil {
		m.Update(next())
	}
}

func pressKey(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewTodayModel_ClampsFutureDay(t *testing.T) {
	m := NewTodayModel(&fakeSource{}, testToday, testToday.AddDays(3))
	if !m.day.Equal(testToday) {
		t.Errorf("day = %s, want %s", m.day, testToday)
	}
	if !m.loading {
		t.Error("model should start loading")
	}
}

func TestTodayModel_InitLoads(t *testing.T) {
	src := &fakeSource{data: makeTodayData()}
	m := NewTodayModel(src, testToday, testToday)
	m.Update(m.Init()())
	if m.loading {
		t.Error("loading should be cleared after data arrives")
	}
	if len(src.loaded) != 1 || !src.loaded[0].Equal(testToday) {
		t.Errorf("loaded = %v", src.loaded)
	}
}

func TestTodayModel_LoadError(t *testing.T) {
	src := &fakeSource{loadErr: errors.New("db locked")}
	m := NewTodayModel(src, testToday, testToday)
	m.Update(m.Init()())
	if !strings.Contains(m.View(), "db locked") {
		t.Errorf("view should show the error, got %q", m.View())
	}
}

func TestTodayModel_ViewLayouts(t *testing.T) {
	for _, width := range []int{40, 80, 140} {
		src := &fakeSource{data: makeTodayData()}
		m := newLoadedModel(src, width)
		out := m.View()
		for _, want := range []string{"Run", "No smoking"} {
			if !strings.Contains(out, want) {
				t.Errorf("width %d: view missing %q", width, want)
			}
		}
		if width >= 60 && !strings.Contains(out, "Get fit") {
			t.Errorf("width %d: view missing goal panel", width)
		}
		if width >= 120 && !strings.Contains(out, "Leaderboard") {
			t.Errorf("width %d: two-column view missing leaderboard", width)
		}
	}
}

func TestTodayModel_HeaderCountsDone(t *testing.T) {
	m := newLoadedModel(&fakeSource{data: makeTodayData()}, 80)
	if !strings.Contains(m.View(), "1/2 done") {
		t.Errorf("header should count 1/2 done, got %q", m.View())
	}
}

func TestTodayModel_CursorBounds(t *testing.T) {
	m := newLoadedModel(&fakeSource{data: makeTodayData()}, 80)
	m.Update(pressKey("k"))
	if m.cursor != 0 {
		t.Errorf("cursor moved above first row: %d", m.cursor)
	}
	m.Update(pressKey("down"))
	m.Update(pressKey("j"))
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestTodayModel_MarkDoneOffersMomentum(t *testing.T) {
	ev := &goal.MomentumEvent{HabitID: "h-run", GoalID: "g1", GoalName: "Get fit", Date: testToday}
	src := &fakeSource{data: makeTodayData(), offer: ev}
	m := newLoadedModel(src, 80)

	_, cmd := m.Update(pressKey("enter"))
	run(t, m, cmd)
	if len(src.marked) != 1 || src.marked[0] != "h-run:2024-03-06:done" {
		t.Fatalf("marked = %v", src.marked)
	}
	if m.pending != ev {
		t.Fatal("momentum offer should be pending")
	}
	if !strings.Contains(m.View(), "press g") {
		t.Errorf("view should prompt for momentum, got %q", m.View())
	}

	_, cmd = m.Update(pressKey("g"))
	run(t, m, cmd)
	if len(src.recorded) != 1 || src.recorded[0] != ev {
		t.Errorf("recorded = %v", src.recorded)
	}
	if m.pending != nil {
		t.Error("pending offer should be consumed")
	}
	if _, cmd := m.Update(pressKey("g")); cmd != nil {
		t.Error("g without an offer should do nothing")
	}
}

func TestTodayModel_MarkMissed(t *testing.T) {
	src := &fakeSource{data: makeTodayData()}
	m := newLoadedModel(src, 80)
	_, cmd := m.Update(pressKey("x"))
	run(t, m, cmd)
	if len(src.marked) != 1 || src.marked[0] != "h-run:2024-03-06:miss" {
		t.Errorf("marked = %v", src.marked)
	}
}

func TestTodayModel_Undo(t *testing.T) {
	src := &fakeSource{data: makeTodayData()}
	m := newLoadedModel(src, 80)

	if _, cmd := m.Update(pressKey("u")); cmd != nil {
		t.Error("undo on a habit with no log should do nothing")
	}
	m.Update(pressKey("down"))
	_, cmd := m.Update(pressKey("u"))
	run(t, m, cmd)
	if len(src.undone) != 1 || src.undone[0] != "h-smoke:2024-03-06" {
		t.Errorf("undone = %v", src.undone)
	}
}

func TestTodayModel_DayNavigation(t *testing.T) {
	src := &fakeSource{data: makeTodayData()}
	m := newLoadedModel(src, 80)

	if _, cmd := m.Update(pressKey("right")); cmd != nil {
		t.Error("should not move past today")
	}
	_, cmd := m.Update(pressKey("left"))
	m.Update(cmd())
	if !m.day.Equal(testToday.AddDays(-1)) {
		t.Fatalf("day = %s", m.day)
	}
	if !strings.Contains(m.View(), "1 days ago") {
		t.Errorf("view should flag a past day, got %q", m.View())
	}

	_, cmd = m.Update(pressKey("enter"))
	run(t, m, cmd)
	if src.marked[0] != "h-run:2024-03-05:done" {
		t.Errorf("mark should target the viewed day, got %v", src.marked)
	}

	_, cmd = m.Update(pressKey("right"))
	m.Update(cmd())
	if !m.day.Equal(testToday) {
		t.Errorf("day = %s, want today", m.day)
	}
}

func TestTodayModel_Quit(t *testing.T) {
	m := newLoadedModel(&fakeSource{data: makeTodayData()}, 80)
	_, cmd := m.Update(pressKey("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestTodayModel_HelpToggle(t *testing.T) {
	m := newLoadedModel(&fakeSource{data: makeTodayData()}, 80)
	if !strings.Contains(m.View(), "momentum") {
		t.Errorf("short help should list momentum, got %q", m.View())
	}
	if strings.Contains(m.View(), "prev day") {
		t.Error("short help should not list day navigation")
	}
	m.Update(pressKey("?"))
	if !strings.Contains(m.View(), "prev day") {
		t.Errorf("full help should list day navigation, got %q", m.View())
	}
}

func TestRenderPanels_Empty(t *testing.T) {
	if out := renderHabitsPanel(nil, 0, 80); !strings.Contains(out, "No habits yet") {
		t.Errorf("habits panel: %q", out)
	}
	if out := renderGoalsPanel(nil, 80); !strings.Contains(out, "No open goals") {
		t.Errorf("goals panel: %q", out)
	}
	if out := renderJournalPanel(nil); !strings.Contains(out, "Nothing logged") {
		t.Errorf("journal panel: %q", out)
	}
	if out := renderTopPanel(nil, 0); !strings.Contains(out, "Log a few days") {
		t.Errorf("top panel: %q", out)
	}
}

func TestRenderGoalsPanel_ShowsTop5(t *testing.T) {
	goals := make([]GoalLine, 8)
	for i := range goals {
		goals[i] = GoalLine{Goal: goal.Goal{Name: "goal"}}
	}
	if out := renderGoalsPanel(goals, 80); !strings.Contains(out, "and 3 more") {
		t.Errorf("expected '…and 3 more', got %q", out)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Meditate", 20, "Meditate"},
		{"Meditate daily", 8, "Meditat…"},
		{"Über", 3, "Üb…"},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
