package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/config"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/logger"
	"github.com/rnwolfe/lifeos/internal/tips"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

var (
	flagDebug   bool
	flagNoColor bool
)

var rootCmd = &cobra.Command{
	Use:   "lifeos",
	Short: "Habits, goals and momentum from your terminal",
	Long:  `lifeos tracks habits and goals locally and tells you what is due, what is working and what is slipping.`,
	RunE:  hook.Wrap("lifeos", runDashboard),
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		return setup()
	},
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	// Hooks are optional; the CLI works without them.
	if err := hook.RegisterUserHooks(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Warning.Render("warning: loading user hooks: "+err.Error()))
	}

	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Write debug logs to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// setup applies global flags and starts the logger.
func setup() error {
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		ui.DisableColor()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	err = logger.Init(logger.Config{
		Debug: flagDebug || cfg.Log.Debug,
		Dir:   config.GetPaths().StateDir,
	})
	if err != nil {
		return fmt.Errorf("starting logger: %w", err)
	}
	return nil
}

// runDashboard shows the at-a-glance status when you just type `lifeos`.
func runDashboard(_ *cobra.Command, _ []string) error {
	now := time.Now()
	if !config.Initialized() {
		fmt.Println(ui.Greet("", now))
		fmt.Println()
		fmt.Println("  Looks like this is your first time. Let's set things up!")
		fmt.Println()
		fmt.Printf("  Run %s to get started.\n", ui.Accent.Render("lifeos init"))
		fmt.Println()
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	fmt.Println(ui.Greet(cfg.User.Name, now))
	fmt.Println()

	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	today := calendar.FromTime(now)
	day, err := st.loadDay(today)
	if err != nil {
		return err
	}

	ui.Kv("📅 Today", now.Format("Monday, January 2"))
	if len(day.habits) == 0 {
		ui.Tip("`lifeos habit add \"Read 20 pages\"` to create your first habit.")
		fmt.Println()
		return nil
	}

	due, done := 0, 0
	for _, s := range day.summaries {
		if s.Due || s.Done() {
			due++
		}
		if s.Done() {
			done++
		}
	}
	ui.Kv(ui.IconTarget+" Habits", fmt.Sprintf("%d/%d done  %s", done, due, ui.Bar(percent(done, due), 20)))
	ui.Kv(ui.IconSpark+" Consistency", fmt.Sprintf("%d%%", engine.AverageConsistency(day.habits, day.idx, today)))
	if best := engine.Rank(day.habits, day.idx, today, 1); len(best) > 0 && best[0].Streak > 0 {
		ui.Kv(ui.IconFire+" Top streak", fmt.Sprintf("%s (%d days)", best[0].Habit.Name, best[0].Streak))
	}
	if e, err := st.journal.Get(today); err == nil && e != nil && !e.Empty() {
		ui.Kv(ui.IconJournal+" Journal", e.Summary())
	}
	fmt.Println()

	printDueList(day.summaries)

	switch {
	case done < due:
		ui.Tip("`lifeos log <habit>` to check in, or `lifeos today --tui` for the dashboard.")
	default:
		ui.Tip(tips.Daily(now))
	}
	fmt.Println()
	return nil
}

func percent(n, d int) int {
	if d == 0 {
		return 0
	}
	return n * 100 / d
}
