package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/habit"
	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/logger"
	"github.com/rnwolfe/lifeos/internal/tui"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

var (
	logDate     string
	logNote     string
	logValue    float64
	logMomentum bool
	undoDate    string
)

var logCmd = &cobra.Command{
	Use:   "log [habit] [status]",
	Short: "Check in a habit for a day",
	Long: `Record a habit's outcome. The status defaults to done (resisted for quit habits).

Statuses: done, resisted, partial, missed, failed.
Logging the same habit twice on one day replaces the earlier entry.

Examples:
  lifeos log read
  lifeos log "No sugar" failed --note "birthday cake"
  lifeos log pushups --value 40
  lifeos log run --date yesterday`,
	Args: cobra.MaximumNArgs(2),
	RunE: hook.Wrap("log", runLog),
}

var undoCmd = &cobra.Command{
	Use:   "undo <habit>",
	Short: "Remove a habit's check-in for a day",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("undo", runUndo),
}

func init() {
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(undoCmd)

	logCmd.Flags().StringVar(&logDate, "date", "", "Day to log (YYYY-MM-DD or yesterday)")
	logCmd.Flags().StringVarP(&logNote, "note", "n", "", "Note for the day")
	logCmd.Flags().Float64VarP(&logValue, "value", "v", 0, "Amount for numeric habits")
	logCmd.Flags().BoolVar(&logMomentum, "momentum", false, "Record goal progress without asking")
	undoCmd.Flags().StringVar(&undoDate, "date", "", "Day to clear (default today)")
}

func runLog(cmd *cobra.Command, args []string) error {
	day, err := parseDay(logDate)
	if err != nil {
		return err
	}

	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := pickHabit(st, args)
	if err != nil || h == nil {
		return err
	}

	status := h.SuccessStatus()
	if len(args) == 2 {
		if status, err = habit.ParseStatus(args[1]); err != nil {
			return err
		}
	}

	var value *float64
	if cmd != nil && cmd.Flags().Changed("value") {
		v := logValue
		value = &v
	} else if h.TrackingMode == habit.Numeric && status.IsSuccess() {
		ui.Warn(h.Name + " tracks a number; pass --value to record it")
	}

	l, created, err := st.habits.Log(h.ID, day, status, logNote, value)
	if err != nil {
		return err
	}
	hook.Emit(cmd, "habit.logged", l)

	verb := "Logged"
	if !created {
		verb = "Updated"
	}
	ui.Ok(fmt.Sprintf("%s %s %s %s", verb, ui.Accent.Render(h.Name), engine.FormatStatus(l.Status), ui.Muted.Render(day.String())))

	hist, err := st.history(h)
	if err != nil {
		return err
	}
	fmt.Println("  " + progressLine(engine.Summarize(h, hist, day)))

	ev, err := st.goals.Momentum(h, *l)
	if err != nil {
		logger.Warn("momentum lookup failed", "habit", h.ID, "err", err)
		return nil
	}
	if ev == nil {
		return nil
	}
	hook.Emit(cmd, "goal.momentum", ev)
	return offerMomentum(st.goals, ev)
}

// offerMomentum records goal progress for ev when asked to, prompts on a
// terminal, and otherwise prints how to do it.
func offerMomentum(goals *goal.Store, ev *goal.MomentumEvent) error {
	note := ev.Note
	switch {
	case logMomentum:
	case ui.IsStdinTTY():
		record := true
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Did this move %q forward?", ev.GoalName)).
				Value(&record),
			huh.NewInput().
				Title("Progress note").
				Value(&note),
		)).Run()
		if ok, err := momentumAccepted(record, err); !ok {
			return err
		}
	default:
		ui.Tip(fmt.Sprintf("This habit feeds %q. `lifeos goal progress %q --habit %s` to record it.",
			ev.GoalName, ev.GoalName, shortRef(ev.HabitID)))
		return nil
	}

	p, err := goals.Record(ev, strings.TrimSpace(note))
	if errors.Is(err, goal.ErrGoalCompleted) {
		return nil
	}
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s %s moved forward %s", ui.IconStar, ui.Accent.Render(ev.GoalName), ui.Muted.Render(p.Date.String())))
	return nil
}

// momentumAccepted interprets the momentum prompt's outcome. Aborting the
// form declines without an error; any other form failure is returned.
func momentumAccepted(record bool, formErr error) (bool, error) {
	if errors.Is(formErr, huh.ErrUserAborted) {
		return false, nil
	}
	if formErr != nil {
		return false, fmt.Errorf("momentum prompt: %w", formErr)
	}
	return record, nil
}

// pickHabit resolves args[0], or on a terminal lets the user choose among
// active habits. A nil habit with no error means the user canceled.
func pickHabit(st *stores, args []string) (*habit.Habit, error) {
	if len(args) > 0 {
		return st.habits.Resolve(args[0])
	}
	if !ui.IsStdinTTY() {
		return nil, fmt.Errorf("which habit? lifeos log <habit>")
	}
	habits, err := st.habits.List(false)
	if err != nil {
		return nil, err
	}
	if len(habits) == 0 {
		return nil, fmt.Errorf("no habits yet: lifeos habit add \"Read 20 pages\"")
	}
	options := make([]tui.Option, len(habits))
	for i := range habits {
		options[i] = tui.Option{Value: habits[i].ID, Label: habits[i].Name, Hint: habits[i].Config.Describe(habits[i].Frequency)}
	}
	opt, err := tui.Choose("Log which habit?", options)
	if err != nil || opt == nil {
		return nil, err
	}
	return st.habits.Get(opt.Value)
}

func runUndo(cmd *cobra.Command, args []string) error {
	day, err := parseDay(undoDate)
	if err != nil {
		return err
	}

	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := st.habits.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := st.habits.Undo(h.ID, day); err != nil {
		if errors.Is(err, habit.ErrNoLog) {
			ui.Inf(fmt.Sprintf("%s has no check-in on %s", h.Name, day))
			return nil
		}
		return err
	}
	hook.Emit(cmd, "habit.undone", map[string]string{"habitId": h.ID, "date": day.String()})
	ui.Ok(fmt.Sprintf("Cleared %s for %s", h.Name, day))
	return nil
}

// progressLine is the streak, or the window count for windowed habits.
func progressLine(s engine.Summary) string {
	if s.Window != nil {
		return engine.FormatWindow(*s.Window)
	}
	return engine.FormatStreak(s.Streak)
}

func shortRef(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
