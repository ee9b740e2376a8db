package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/journal"
	"github.com/rnwolfe/lifeos/internal/ui"
)

// GoalLine is an open goal and whether it moved forward on the viewed day.
type GoalLine struct {
	Goal  goal.Goal
	Moved bool
}

// TodayData holds everything the dashboard shows for one day.
type TodayData struct {
	Day         calendar.Date
	Habits      []engine.Summary
	Goals       []GoalLine
	Journal     *journal.Entry
	Top         []engine.Ranking
	Consistency int
}

// Source loads and mutates the data behind the dashboard.
type Source interface {
	Load(day calendar.Date) (TodayData, error)
	// Mark logs the habit's success or failure status for day and returns
	// the momentum offer for its goal, if any.
	Mark(habitID string, day calendar.Date, success bool) (*goal.MomentumEvent, error)
	Undo(habitID string, day calendar.Date) error
	RecordMomentum(ev *goal.MomentumEvent) error
}

type todayDataMsg TodayData
type todayErrMsg struct{ err error }
type markedMsg struct {
	name    string
	success bool
	ev      *goal.MomentumEvent
}
type flashMsg string

// TodayModel is the Bubbletea model for the daily check-in dashboard.
type TodayModel struct {
	src     Source
	today   calendar.Date
	day     calendar.Date
	data    TodayData
	cursor  int
	width   int
	height  int
	loading bool
	err     error
	flash   string
	pending *goal.MomentumEvent
	keys    todayKeyMap
	help    help.Model
}

// NewTodayModel creates a dashboard for day. Days after today are never shown.
func NewTodayModel(src Source, today, day calendar.Date) *TodayModel {
	if day.IsZero() || day.After(today) {
		day = today
	}
	return &TodayModel{
		src:     src,
		today:   today,
		day:     day,
		width:   80,
		height:  24,
		loading: true,
		keys:    defaultTodayKeys(),
		help:    help.New(),
	}
}

// RunToday runs the dashboard until the user quits.
func RunToday(src Source, today, day calendar.Date) error {
	prog := tea.NewProgram(NewTodayModel(src, today, day), tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	return nil
}

func (m *TodayModel) Init() tea.Cmd {
	return m.loadData()
}

func (m *TodayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case todayDataMsg:
		m.data = TodayData(msg)
		m.loading = false
		m.err = nil
		if m.cursor >= len(m.data.Habits) {
			m.cursor = max(0, len(m.data.Habits)-1)
		}
		return m, nil

	case todayErrMsg:
		m.err = msg.err
		m.loading = false
		return m, nil

	case markedMsg:
		m.pending = msg.ev
		if msg.success {
			m.flash = ui.IconOk + msg.name
		} else {
			m.flash = ui.IconError + msg.name
		}
		if msg.ev != nil {
			m.flash += fmt.Sprintf(" · press g to log momentum for %q", msg.ev.GoalName)
		}
		return m, m.loadData()

	case flashMsg:
		m.flash = string(msg)
		return m, m.loadData()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *TodayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.data.Habits)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevDay):
		m.day = m.day.AddDays(-1)
		m.pending = nil
		m.loading = true
		return m, m.loadData()
	case key.Matches(msg, m.keys.NextDay):
		if m.day.Before(m.today) {
			m.day = m.day.AddDays(1)
			m.pending = nil
			m.loading = true
			return m, m.loadData()
		}
	case key.Matches(msg, m.keys.Done):
		return m, m.mark(true)
	case key.Matches(msg, m.keys.Miss):
		return m, m.mark(false)
	case key.Matches(msg, m.keys.Undo):
		return m, m.undo()
	case key.Matches(msg, m.keys.Momentum):
		return m, m.recordMomentum()
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, m.loadData()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *TodayModel) View() string {
	if m.loading {
		return "\n  " + ui.Muted.Render("Loading…") + "\n"
	}
	if m.err != nil {
		return "\n  " + ui.Error.Render("Error: "+m.err.Error()) + "\n"
	}
	switch {
	case m.width < 60:
		return m.renderMinimal()
	case m.width >= 120:
		return m.renderTwoColumn()
	default:
		return m.renderStacked()
	}
}

// --- Layout builders ---

func (m *TodayModel) renderTwoColumn() string {
	leftW := m.width/2 - 2
	rightW := m.width - leftW - 4

	left := lipgloss.NewStyle().Width(leftW).Render(
		renderHabitsPanel(m.data.Habits, m.cursor, leftW),
	)
	right := lipgloss.NewStyle().Width(rightW).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			renderGoalsPanel(m.data.Goals, rightW),
			"",
			renderJournalPanel(m.data.Journal),
			"",
			renderTopPanel(m.data.Top, m.data.Consistency),
		),
	)

	cols := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return m.header() + cols + "\n\n" + m.footer()
}

func (m *TodayModel) renderStacked() string {
	w := m.width - 4
	parts := []string{
		renderHabitsPanel(m.data.Habits, m.cursor, w),
		"",
		renderGoalsPanel(m.data.Goals, w),
		"",
		renderJournalPanel(m.data.Journal),
	}
	return m.header() + lipgloss.JoinVertical(lipgloss.Left, parts...) + "\n\n" + m.footer()
}

func (m *TodayModel) renderMinimal() string {
	var b strings.Builder
	b.WriteString("  " + ui.Title.Render(m.data.Day.Format("Mon Jan 2")) + "\n\n")
	for i, s := range m.data.Habits {
		pointer := "  "
		if i == m.cursor {
			pointer = ui.Accent.Render(ui.IconArrow + " ")
		}
		b.WriteString(fmt.Sprintf("  %s%s %s\n", pointer, habitMark(s), s.Habit.Name))
	}
	if len(m.data.Habits) == 0 {
		b.WriteString("  " + ui.Muted.Render("No habits yet.") + "\n")
	}
	b.WriteString("\n  " + ui.Muted.Render("enter done · x miss · q quit") + "\n")
	return b.String()
}

func (m *TodayModel) header() string {
	title := ui.Title.Render(ui.IconLeaf + " " + m.day.Format("Monday, Jan 2"))
	if !m.day.Equal(m.today) {
		title += ui.Warning.Render(fmt.Sprintf("  (%d days ago)", m.today.DaysSince(m.day)))
	}
	done, due := 0, 0
	for _, s := range m.data.Habits {
		if s.Due || s.Done() {
			due++
		}
		if s.Done() {
			done++
		}
	}
	progress := ui.Muted.Render(fmt.Sprintf("  %d/%d done", done, due))
	return "  " + title + progress + "\n\n"
}

func (m *TodayModel) footer() string {
	var b strings.Builder
	if m.flash != "" {
		b.WriteString("  " + m.flash + "\n")
	}
	b.WriteString("  " + m.help.View(m.keys) + "\n")
	return b.String()
}

// --- Panel renderers ---

func renderHabitsPanel(items []engine.Summary, cursor, width int) string {
	var b strings.Builder
	b.WriteString("  " + ui.Title.Render(ui.IconTarget+" Habits") + "\n\n")
	if len(items) == 0 {
		b.WriteString("  " + ui.Muted.Render("No habits yet. Run `lifeos habit add`.") + "\n")
		return b.String()
	}
	nameW := width - 30
	if nameW < 12 {
		nameW = 12
	}
	for i, s := range items {
		pointer := "  "
		nameStyle := lipgloss.NewStyle()
		if i == cursor {
			pointer = ui.Accent.Render(ui.IconArrow + " ")
			nameStyle = nameStyle.Foreground(ui.Gold).Bold(true)
		} else if !s.Due && !s.Done() {
			nameStyle = ui.Muted
		}
		name := truncate(s.Habit.Name, nameW)
		line := fmt.Sprintf("  %s%s %s  %s", pointer, habitMark(s), nameStyle.Render(name), habitDetail(s))
		b.WriteString(line + "\n")
	}
	return b.String()
}

// habitMark is the one-glyph state of a habit on the viewed day.
func habitMark(s engine.Summary) string {
	switch {
	case s.Done():
		return ui.Success.Render("✓")
	case s.TodayLog != nil && s.TodayLog.Status.IsFailure():
		return ui.Error.Render("✗")
	case s.TodayLog != nil:
		return ui.Warning.Render("◐")
	case s.Due:
		return ui.Warning.Render("○")
	}
	return ui.Muted.Render(ui.IconDot)
}

func habitDetail(s engine.Summary) string {
	if s.Window != nil {
		return engine.FormatWindow(*s.Window)
	}
	if s.Streak.Current > 0 {
		return ui.Accent.Render(fmt.Sprintf("%s %d", ui.IconFire, s.Streak.Current))
	}
	return ui.Muted.Render(fmt.Sprintf("%d%%", s.SuccessRate))
}

func renderGoalsPanel(goals []GoalLine, width int) string {
	var b strings.Builder
	b.WriteString("  " + ui.Title.Render(ui.IconStar+" Goals") + "\n\n")
	if len(goals) == 0 {
		b.WriteString("  " + ui.Muted.Render("No open goals.") + "\n")
		return b.String()
	}
	shown := goals
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for _, gl := range shown {
		mark := ui.Muted.Render("○")
		if gl.Moved {
			mark = ui.Success.Render("▲")
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", mark, truncate(gl.Goal.Name, width-20),
			ui.Muted.Render(gl.Goal.Category)))
	}
	if len(goals) > 5 {
		b.WriteString("  " + ui.Muted.Render(fmt.Sprintf("…and %d more", len(goals)-5)) + "\n")
	}
	return b.String()
}

func renderJournalPanel(e *journal.Entry) string {
	var b strings.Builder
	b.WriteString("  " + ui.Title.Render(ui.IconJournal+" Journal") + "\n\n")
	if e == nil || e.Empty() {
		b.WriteString("  " + ui.Muted.Render("Nothing logged. Try `lifeos journal --mood 4`.") + "\n")
		return b.String()
	}
	b.WriteString("  " + e.Summary() + "\n")
	return b.String()
}

func renderTopPanel(top []engine.Ranking, consistency int) string {
	var b strings.Builder
	b.WriteString("  " + ui.Title.Render(ui.IconSpark+" Leaderboard") +
		ui.Muted.Render(fmt.Sprintf("  consistency %d%%", consistency)) + "\n\n")
	if len(top) == 0 {
		b.WriteString("  " + ui.Muted.Render("Log a few days to build a ranking.") + "\n")
		return b.String()
	}
	for i, r := range top {
		b.WriteString(fmt.Sprintf("  %d. %s %s\n", i+1, r.Habit.Name,
			ui.Muted.Render(fmt.Sprintf("%d%% · %d day streak", r.Rate, r.Streak))))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// --- Commands ---

func (m *TodayModel) loadData() tea.Cmd {
	src, day := m.src, m.day
	return func() tea.Msg {
		data, err := src.Load(day)
		if err != nil {
			return todayErrMsg{err}
		}
		return todayDataMsg(data)
	}
}

func (m *TodayModel) selected() (engine.Summary, bool) {
	if m.loading || m.cursor < 0 || m.cursor >= len(m.data.Habits) {
		return engine.Summary{}, false
	}
	return m.data.Habits[m.cursor], true
}

func (m *TodayModel) mark(success bool) tea.Cmd {
	s, ok := m.selected()
	if !ok {
		return nil
	}
	src, day := m.src, m.day
	return func() tea.Msg {
		ev, err := src.Mark(s.Habit.ID, day, success)
		if err != nil {
			return todayErrMsg{err}
		}
		return markedMsg{name: s.Habit.Name, success: success, ev: ev}
	}
}

func (m *TodayModel) undo() tea.Cmd {
	s, ok := m.selected()
	if !ok || s.TodayLog == nil {
		return nil
	}
	m.pending = nil
	src, day := m.src, m.day
	return func() tea.Msg {
		if err := src.Undo(s.Habit.ID, day); err != nil {
			return todayErrMsg{err}
		}
		return flashMsg("Cleared " + s.Habit.Name)
	}
}

func (m *TodayModel) recordMomentum() tea.Cmd {
	ev := m.pending
	if ev == nil {
		return nil
	}
	m.pending = nil
	src := m.src
	return func() tea.Msg {
		if err := src.RecordMomentum(ev); err != nil {
			return todayErrMsg{err}
		}
		return flashMsg(ui.IconStar + " " + ev.GoalName + " moved forward")
	}
}
