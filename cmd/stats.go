package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/config"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/habit"
	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/logger"
	"github.com/rnwolfe/lifeos/internal/snapshot"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

var (
	statsSnapshot string
	statsMonths   int
	heatmapWeeks  int
)

var statsCmd = &cobra.Command{
	Use:   "stats [habit]",
	Short: "Show statistics for one habit or the whole system",
	Long: `Without a habit, show the leaderboard, weekday pattern and daily pulse of every
active habit. With --snapshot, read habits and logs from an exported JSON file
instead of the database.`,
	Args: cobra.MaximumNArgs(1),
	RunE: hook.Wrap("stats", runStats),
}

var heatmapCmd = &cobra.Command{
	Use:   "heatmap <habit>",
	Short: "Draw a habit's calendar heatmap",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("heatmap", runHeatmap),
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(heatmapCmd)
	statsCmd.Flags().StringVar(&statsSnapshot, "snapshot", "", "Read from an exported snapshot file")
	statsCmd.Flags().IntVar(&statsMonths, "months", 6, "Months of history in the monthly breakdown")
	heatmapCmd.Flags().IntVarP(&heatmapWeeks, "weeks", "w", 0, "Trailing weeks to draw (default from config, 0 = all)")
	heatmapCmd.Flags().StringVar(&statsSnapshot, "snapshot", "", "Read from an exported snapshot file")
}

// loadHistory returns every habit and log, from the snapshot file when one
// is given and from the database otherwise.
func loadHistory(snapshotPath string) ([]habit.Habit, []habit.Log, error) {
	if snapshotPath != "" {
		f, err := os.Open(snapshotPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening snapshot: %w", err)
		}
		defer f.Close()
		snap, err := snapshot.Decode(f)
		if err != nil {
			return nil, nil, err
		}
		habits, logs, skipped := snap.Domain()
		if skipped > 0 {
			ui.Warn(fmt.Sprintf("%d habit(s) in the snapshot have an unreadable frequency and were left out", skipped))
		}
		return habits, logs, nil
	}

	st, err := openStores()
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()
	habits, err := st.habits.List(true)
	if err != nil {
		return nil, nil, err
	}
	logs, err := st.habits.AllLogs()
	if err != nil {
		return nil, nil, err
	}
	return habits, logs, nil
}

func runStats(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	habits, logs, err := loadHistory(statsSnapshot)
	if err != nil {
		return err
	}
	idx := engine.BuildIndex(habits, logs)
	if n := idx.Dropped() + idx.Orphans(); n > 0 {
		logger.Warn("logs excluded from statistics", "dropped", idx.Dropped(), "orphans", idx.Orphans())
	}
	today := calendar.Today(time.Local)

	if len(args) == 1 {
		h, err := habit.Find(habits, args[0])
		if err != nil {
			return err
		}
		printHabitStats(h, idx.History(h.ID), today, statsMonths)
		return nil
	}
	printGlobalStats(habits, idx, today, cfg.Habits.RankingSize)
	return nil
}

func printHabitStats(h *habit.Habit, hist *engine.History, today calendar.Date, months int) {
	ui.Header(h.Name)
	fmt.Println(ui.Muted.Render("  " + describeSchedule(h)))
	fmt.Println()
	printSummary(engine.Summarize(h, hist, today))

	rates := engine.MonthlyRates(h, hist, today)
	if months > 0 && len(rates) > months {
		rates = rates[len(rates)-months:]
	}
	if len(rates) > 0 {
		fmt.Println("  " + ui.Title.Render("Monthly"))
		for _, m := range rates {
			fmt.Printf("  %s  %s %3d%%  %s\n", m.Month.Format("Jan 2006"), ui.Bar(m.Rate, 20), m.Rate,
				ui.Muted.Render(fmt.Sprintf("%d/%d logs", m.Successes, m.Logs)))
		}
		fmt.Println()
	}

	fmt.Println("  " + ui.Title.Render("By weekday"))
	fmt.Println(weekdayChart(engine.DayOfWeek(hist)))
	fmt.Println()

	if pts := engine.NumericTrend(hist); len(pts) > 0 {
		fmt.Println("  " + ui.Title.Render("Recent values"))
		vals := make([]string, len(pts))
		for i, p := range pts {
			vals[i] = fmt.Sprintf("%g", p.Value)
		}
		fmt.Println("  " + strings.Join(vals, " · "))
		fmt.Println()
	}
}

func printGlobalStats(habits []habit.Habit, idx *engine.Index, today calendar.Date, size int) {
	ui.Header("System")
	ui.Kv("Consistency", fmt.Sprintf("%d%%", engine.AverageConsistency(habits, idx, today)))
	if idx.Orphans() > 0 || idx.Dropped() > 0 {
		ui.Kv("Ignored", ui.Warning.Render(fmt.Sprintf("%d malformed · %d orphaned logs", idx.Dropped(), idx.Orphans())))
	}
	fmt.Println()

	top := engine.Rank(habits, idx, today, size)
	if len(top) == 0 {
		fmt.Println(ui.Muted.Render("  No active habits."))
		fmt.Println()
		return
	}
	fmt.Println("  " + ui.Title.Render(ui.IconSpark+" Leaderboard"))
	for i, r := range top {
		fmt.Printf("  %d. %-24s %3d%%  %s  %s\n", i+1, r.Habit.Name, r.Rate,
			ui.Accent.Render(fmt.Sprintf("%s %d", ui.IconFire, r.Streak)),
			ui.Muted.Render(fmt.Sprintf("score %d · %d days", r.Score, r.DaysActive)))
	}
	fmt.Println()

	var counts [7]int
	for i, b := range engine.SystemDayOfWeek(habits, idx) {
		counts[i] = b.Count
	}
	fmt.Println("  " + ui.Title.Render("By weekday"))
	fmt.Println(weekdayChart(counts))
	fmt.Println()

	fmt.Println("  " + ui.Title.Render("Pulse"))
	fmt.Println("  " + pulseLine(engine.SystemPulse(habits, idx, today)))
	fmt.Println()
}

// weekdayChart draws one bar per weekday, Monday first.
func weekdayChart(counts [7]int) string {
	peak := 1
	for _, c := range counts {
		peak = max(peak, c)
	}
	var b strings.Builder
	for i := 1; i <= 7; i++ {
		wd := time.Weekday(i % 7)
		c := counts[wd]
		fmt.Fprintf(&b, "  %s %s %d\n", calendar.WeekdayCode(wd), ui.Bar(c*100/peak, 20), c)
	}
	return strings.TrimRight(b.String(), "\n")
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// pulseLine renders daily success volume as a sparkline.
func pulseLine(pts []engine.PulsePoint) string {
	peak := 1
	for _, p := range pts {
		peak = max(peak, p.Volume)
	}
	var b strings.Builder
	for _, p := range pts {
		b.WriteRune(sparks[p.Volume*(len(sparks)-1)/peak])
	}
	if len(pts) > 0 {
		return ui.Success.Render(b.String()) + ui.Muted.Render(fmt.Sprintf("  %s → %s", pts[0].Date, pts[len(pts)-1].Date))
	}
	return ""
}

func runHeatmap(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	habits, logs, err := loadHistory(statsSnapshot)
	if err != nil {
		return err
	}
	h, err := habit.Find(habits, args[0])
	if err != nil {
		return err
	}
	var own []habit.Log
	for _, l := range logs {
		if l.HabitID == h.ID {
			own = append(own, l)
		}
	}
	hist := engine.NewHistory(h.CreatedAt, own)

	weeks := cfg.Habits.HeatmapWeeks
	if cmd != nil && cmd.Flags().Changed("weeks") {
		weeks = heatmapWeeks
	}
	hm := engine.Project(h, hist, calendar.Today(time.Local))
	if weeks > 0 {
		hm = hm.Tail(weeks)
	}

	ui.Header(h.Name)
	fmt.Println(engine.FormatHeatmap(hm))
	fmt.Println()
	return nil
}
