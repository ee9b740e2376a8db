package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:     "goal",
	Aliases: []string{"goals", "g"},
	Short:   "Track longer-term goals and their momentum",
	RunE:    hook.Wrap("goal", runGoalList),
}

var (
	goalCategory  string
	goalListAll   bool
	goalDate      string
	goalNote      string
	goalStalled   bool
	goalHabit     string
	goalDeleteYes bool
	goalLimit     int
)

var goalAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a goal",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("goal.add", runGoalAdd),
}

var goalListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List goals",
	Args:    cobra.NoArgs,
	RunE:    hook.Wrap("goal.list", runGoalList),
}

var goalShowCmd = &cobra.Command{
	Use:   "show <goal>",
	Short: "Show a goal, its habits and its momentum log",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("goal.show", runGoalShow),
}

var goalProgressCmd = &cobra.Command{
	Use:   "progress <goal> [note]",
	Short: "Record whether a goal moved forward today",
	Long: `Record one momentum entry for a day. Recording again on the same day replaces it.

Examples:
  lifeos goal progress marathon "long run went well"
  lifeos goal progress marathon --stalled --note "sick"`,
	Args: cobra.RangeArgs(1, 2),
	RunE: hook.Wrap("goal.progress", runGoalProgress),
}

var goalDoneCmd = &cobra.Command{
	Use:   "done <goal> [note]",
	Short: "Mark a goal completed",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  hook.Wrap("goal.done", runGoalDone),
}

var goalReopenCmd = &cobra.Command{
	Use:   "reopen <goal>",
	Short: "Reopen a completed goal",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("goal.reopen", runGoalReopen),
}

var goalDeleteCmd = &cobra.Command{
	Use:   "delete <goal>",
	Short: "Delete a goal; linked habits are kept and unlinked",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("goal.delete", runGoalDelete),
}

func init() {
	rootCmd.AddCommand(goalCmd)
	goalCmd.AddCommand(goalAddCmd, goalListCmd, goalShowCmd, goalProgressCmd,
		goalDoneCmd, goalReopenCmd, goalDeleteCmd)

	goalAddCmd.Flags().StringVarP(&goalCategory, "category", "c", goal.DefaultCategory, "Category, e.g. health")
	goalListCmd.Flags().BoolVarP(&goalListAll, "all", "a", false, "Include completed goals")
	goalShowCmd.Flags().IntVarP(&goalLimit, "limit", "l", 10, "Momentum entries to show")
	for _, c := range []*cobra.Command{goalProgressCmd, goalDoneCmd} {
		c.Flags().StringVar(&goalDate, "date", "", "Day (YYYY-MM-DD or yesterday, default today)")
		c.Flags().StringVarP(&goalNote, "note", "n", "", "Note")
	}
	goalProgressCmd.Flags().BoolVar(&goalStalled, "stalled", false, "Record that the goal did not move")
	goalProgressCmd.Flags().StringVar(&goalHabit, "habit", "", "Habit this progress came from")
	goalDeleteCmd.Flags().BoolVarP(&goalDeleteYes, "yes", "y", false, "Skip confirmation")
}

func runGoalAdd(_ *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	g, err := st.goals.Add(args[0], goalCategory)
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Goal %s added %s", ui.Accent.Render(g.Name), ui.Muted.Render(g.ShortID())))
	ui.Tip(fmt.Sprintf("`lifeos habit link <habit> %q` to feed it with a habit.", g.Name))
	fmt.Println()
	return nil
}

func runGoalList(_ *cobra.Command, _ []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	goals, err := st.goals.List(goalListAll)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  No goals yet."))
		ui.Tip("`lifeos goal add \"Run a marathon\" --category health` to create one.")
		fmt.Println()
		return nil
	}

	fmt.Println()
	for _, g := range goals {
		habits, err := st.habits.ListByGoal(g.ID)
		if err != nil {
			return err
		}
		state := ""
		if g.Completed {
			state = ui.Success.Render(" " + ui.IconOk + "done " + g.CompletedAt.String())
		}
		fmt.Printf("  %s  %-28s %s%s\n", ui.Muted.Render(g.ShortID()), g.Name,
			ui.Muted.Render(fmt.Sprintf("%s · %d habits", g.Category, len(habits))), state)
	}
	fmt.Println()
	return nil
}

func runGoalShow(_ *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	g, err := st.goals.Resolve(args[0])
	if err != nil {
		return err
	}
	habits, err := st.habits.ListByGoal(g.ID)
	if err != nil {
		return err
	}
	progress, err := st.goals.Progress(g.ID)
	if err != nil {
		return err
	}

	ui.Header(ui.IconStar + " " + g.Name)
	ui.Kv("ID", g.ID)
	ui.Kv("Category", g.Category)
	if g.Completed {
		ui.Kv("Completed", g.CompletedAt.String())
		if g.CompletionNote != "" {
			ui.Kv("Note", g.CompletionNote)
		}
	}
	moved := 0
	for _, p := range progress {
		if p.MovedForward {
			moved++
		}
	}
	ui.Kv("Momentum", fmt.Sprintf("%d of %d days moved forward", moved, len(progress)))
	fmt.Println()

	if len(habits) > 0 {
		fmt.Println("  " + ui.Title.Render("Habits"))
		for _, h := range habits {
			fmt.Printf("  %s %s %s\n", ui.IconDot, h.Name, ui.Muted.Render(h.Config.Describe(h.Frequency)))
		}
		fmt.Println()
	}

	if len(progress) > 0 {
		fmt.Println("  " + ui.Title.Render("Momentum log"))
		shown := progress
		if goalLimit > 0 && len(shown) > goalLimit {
			shown = shown[:goalLimit]
		}
		for _, p := range shown {
			mark := ui.Success.Render("▲")
			if !p.MovedForward {
				mark = ui.Muted.Render("■")
			}
			src := ""
			if p.SourceHabitID != "" {
				src = ui.Muted.Render(" via habit")
			}
			fmt.Printf("  %s %s  %s%s\n", mark, ui.Muted.Render(p.Date.String()), p.Note, src)
		}
		if len(progress) > len(shown) {
			fmt.Println(ui.Muted.Render(fmt.Sprintf("  …and %d more", len(progress)-len(shown))))
		}
		fmt.Println()
	}
	return nil
}

func runGoalProgress(cmd *cobra.Command, args []string) error {
	day, err := parseDay(goalDate)
	if err != nil {
		return err
	}
	note := goalNote
	if len(args) == 2 {
		note = args[1]
	}

	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	g, err := st.goals.Resolve(args[0])
	if err != nil {
		return err
	}
	source := ""
	if goalHabit != "" {
		h, err := st.habits.Resolve(goalHabit)
		if err != nil {
			return err
		}
		source = h.ID
		if note == "" {
			note = goal.DefaultMomentumNote(h.Name)
		}
	}

	p, err := st.goals.LogProgress(g.ID, day, !goalStalled, strings.TrimSpace(note), source)
	if errors.Is(err, goal.ErrGoalCompleted) {
		return fmt.Errorf("%s is completed; `lifeos goal reopen` first", g.Name)
	}
	if err != nil {
		return err
	}
	hook.Emit(cmd, "goal.progress", p)

	if p.MovedForward {
		ui.Ok(fmt.Sprintf("%s moved forward %s", ui.Accent.Render(g.Name), ui.Muted.Render(day.String())))
	} else {
		ui.Inf(fmt.Sprintf("%s stalled %s", g.Name, day))
	}
	return nil
}

func runGoalDone(cmd *cobra.Command, args []string) error {
	day, err := parseDay(goalDate)
	if err != nil {
		return err
	}
	note := goalNote
	if len(args) == 2 {
		note = args[1]
	}

	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	g, err := st.goals.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := st.goals.Complete(g.ID, day, note); err != nil {
		return err
	}
	hook.Emit(cmd, "goal.completed", map[string]string{"goalId": g.ID, "date": day.String()})
	ui.Ok(fmt.Sprintf("%s %s completed", ui.IconStar, ui.Accent.Render(g.Name)))
	ui.Tip(fmt.Sprintf("`lifeos insight goal %q` for a retrospective.", g.Name))
	fmt.Println()
	return nil
}

func runGoalReopen(_ *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	g, err := st.goals.Resolve(args[0])
	if err != nil {
		return err
	}
	if err := st.goals.Reopen(g.ID); err != nil {
		return err
	}
	ui.Ok("Reopened " + g.Name)
	return nil
}

func runGoalDelete(_ *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	g, err := st.goals.Resolve(args[0])
	if err != nil {
		return err
	}
	if !goalDeleteYes {
		if !ui.IsStdinTTY() {
			return fmt.Errorf("refusing to delete %q without --yes", g.Name)
		}
		ok, err := confirm(fmt.Sprintf("Delete goal %q?", g.Name), "Its momentum log goes with it. Linked habits stay.")
		if err != nil || !ok {
			ui.Inf("Kept " + g.Name)
			return nil
		}
	}
	if err := st.goals.Delete(g.ID); err != nil {
		return err
	}
	ui.Ok("Deleted " + g.Name)
	return nil
}
