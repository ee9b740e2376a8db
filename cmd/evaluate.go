package cmd

import (
	"fmt"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/habit"
	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

// lastEvaluateKey records when windows were last judged.
const lastEvaluateKey = "evaluate.last_run"

var evaluateDryRun bool

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Record failures for windowed habits whose windows ran out",
	Long: `Walk every windowed habit's elapsed windows and record a FAILED log on the last
day of each window that missed its target. Running it again never adds a second
entry for the same window.`,
	Args: cobra.NoArgs,
	RunE: hook.Wrap("evaluate", runEvaluate),
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	evaluateCmd.Flags().BoolVar(&evaluateDryRun, "dry-run", false, "Show what would be recorded")
}

func runEvaluate(cmd *cobra.Command, _ []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	today := calendar.Today(time.Local)
	view, err := st.loadDay(today)
	if err != nil {
		return err
	}

	var pending []habit.Log
	names := make(map[string]string)
	for i := range view.habits {
		h := &view.habits[i]
		expired := engine.ExpiredWindows(h, view.idx.History(h.ID), today)
		pending = append(pending, expired...)
		names[h.ID] = h.Name
	}

	if len(pending) == 0 {
		ui.Ok("Every elapsed window is accounted for")
	}
	for _, l := range pending {
		action := "Recorded"
		if evaluateDryRun {
			action = "Would record"
		} else if err := st.habits.PutLog(l); err != nil {
			return fmt.Errorf("recording expired window for %s: %w", names[l.HabitID], err)
		}
		fmt.Printf("  %s %s %s  %s\n", ui.Error.Render(ui.IconError), action,
			ui.Accent.Render(names[l.HabitID]), ui.Muted.Render(l.Date.String()+" · "+l.Note))
	}

	if evaluateDryRun {
		return nil
	}
	hook.Emit(cmd, "windows.expired", len(pending))
	if last, ok, err := st.db.GetKV(lastEvaluateKey); err == nil && ok && len(pending) > 0 {
		fmt.Println(ui.Muted.Render("  previous run: " + last))
	}
	return st.db.SetKV(lastEvaluateKey, time.Now().Format(time.RFC3339))
}
