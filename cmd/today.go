package cmd

import (
	"fmt"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/config"
	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/tui"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

var (
	todayDate string
	todayTUI  bool
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show what is due today",
	Long:  `List the habits due on a day with their check-in state. --tui opens the interactive dashboard.`,
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("today", runToday),
}

func init() {
	rootCmd.AddCommand(todayCmd)
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Day to show (YYYY-MM-DD or yesterday)")
	todayCmd.Flags().BoolVarP(&todayTUI, "tui", "t", false, "Open the interactive dashboard")
}

func runToday(_ *cobra.Command, _ []string) error {
	day, err := parseDay(todayDate)
	if err != nil {
		return err
	}

	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	if todayTUI {
		if !ui.IsStdinTTY() || !ui.IsStdoutTTY() {
			return fmt.Errorf("the dashboard needs an interactive terminal")
		}
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		src := tui.NewStoreSource(st.db.Conn(), cfg.Habits.RankingSize)
		return tui.RunToday(src, calendar.Today(time.Local), day)
	}

	view, err := st.loadDay(day)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("  " + ui.Title.Render(ui.IconLeaf+" "+day.Format("Monday, January 2")))
	fmt.Println()
	if len(view.habits) == 0 {
		fmt.Println(ui.Muted.Render("  No habits yet."))
		ui.Tip("`lifeos habit add \"Read 20 pages\"` to create one.")
		fmt.Println()
		return nil
	}
	printDueList(view.summaries)

	if e, err := st.journal.Get(day); err == nil && e != nil && !e.Empty() {
		fmt.Println()
		fmt.Printf("  %s %s\n", ui.IconJournal, e.Summary())
	}
	fmt.Println()
	return nil
}
