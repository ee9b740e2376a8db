package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/config"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/habit"
	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"habits", "h"},
	Short:   "Create and manage habits",
	RunE:    hook.Wrap("habit", runHabitList),
}

var (
	habitType        string
	habitFreq        string
	habitDays        string
	habitTarget      int
	habitPeriod      int
	habitTracking    string
	habitDescription string
	habitGoal        string
	habitCreated     string
	habitListAll     bool
	habitDeleteYes   bool
)

var habitAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a habit",
	Long: `Create a habit. Without a name on a terminal, a short form asks for the details.

Examples:
  lifeos habit add "Read 20 pages"
  lifeos habit add "Gym" --freq weekly --days mon,wed,fri
  lifeos habit add "Run" --freq windowed --target 3 --period 7
  lifeos habit add "No sugar" --type quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: hook.Wrap("habit.add", runHabitAdd),
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits",
	Args:    cobra.NoArgs,
	RunE:    hook.Wrap("habit.list", runHabitList),
}

var habitShowCmd = &cobra.Command{
	Use:   "show <habit>",
	Short: "Show a habit's schedule and statistics",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("habit.show", runHabitShow),
}

var habitEditCmd = &cobra.Command{
	Use:   "edit <habit> [new-name]",
	Short: "Change a habit's name, schedule or tracking",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  hook.Wrap("habit.edit", runHabitEdit),
}

var habitArchiveCmd = &cobra.Command{
	Use:   "archive <habit>",
	Short: "Hide a habit without losing its history",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("habit.archive", runHabitArchive),
}

var habitRestoreCmd = &cobra.Command{
	Use:   "restore <habit>",
	Short: "Bring an archived habit back",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("habit.restore", runHabitRestore),
}

var habitDeleteCmd = &cobra.Command{
	Use:   "delete <habit>",
	Short: "Delete a habit and all its logs",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("habit.delete", runHabitDelete),
}

var habitLinkCmd = &cobra.Command{
	Use:   "link <habit> <goal>",
	Short: "Feed a habit's check-ins into a goal",
	Args:  cobra.ExactArgs(2),
	RunE:  hook.Wrap("habit.link", runHabitLink),
}

var habitUnlinkCmd = &cobra.Command{
	Use:   "unlink <habit>",
	Short: "Detach a habit from its goal",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("habit.unlink", runHabitUnlink),
}

func init() {
	rootCmd.AddCommand(habitCmd)
	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitShowCmd, habitEditCmd,
		habitArchiveCmd, habitRestoreCmd, habitDeleteCmd, habitLinkCmd, habitUnlinkCmd)

	for _, c := range []*cobra.Command{habitAddCmd, habitEditCmd} {
		c.Flags().StringVar(&habitType, "type", "", "build or quit")
		c.Flags().StringVarP(&habitFreq, "freq", "f", "", "daily, weekly or windowed")
		c.Flags().StringVar(&habitDays, "days", "", "Weekly days, e.g. mon,wed,fri")
		c.Flags().IntVar(&habitTarget, "target", 0, "Windowed: check-ins needed per window")
		c.Flags().IntVar(&habitPeriod, "period", 0, "Windowed: window length in days")
		c.Flags().StringVar(&habitTracking, "tracking", "", "binary, numeric or checklist")
		c.Flags().StringVarP(&habitDescription, "description", "d", "", "Free-form description")
	}
	habitAddCmd.Flags().StringVarP(&habitGoal, "goal", "g", "", "Goal this habit feeds")
	habitAddCmd.Flags().StringVar(&habitCreated, "created", "", "Start date (YYYY-MM-DD, default today)")
	habitListCmd.Flags().BoolVarP(&habitListAll, "all", "a", false, "Include archived habits")
	habitDeleteCmd.Flags().BoolVarP(&habitDeleteYes, "yes", "y", false, "Skip confirmation")
}

func runHabitAdd(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	h := &habit.Habit{Frequency: habit.Daily, TrackingMode: habit.Binary}
	if len(args) == 1 {
		h.Name = args[0]
	} else if ui.IsStdinTTY() {
		if err := habitWizard(h, cfg.Habits.DefaultType); err != nil {
			return err
		}
	} else {
		return fmt.Errorf("habit name required: lifeos habit add \"Read 20 pages\"")
	}

	if h.Type == "" {
		kind := habitType
		if kind == "" {
			kind = cfg.Habits.DefaultType
		}
		if h.Type, err = habit.ParseType(kind); err != nil {
			return err
		}
	}
	if err := applyHabitFlags(h); err != nil {
		return err
	}

	h.CreatedAt, err = parseDay(habitCreated)
	if err != nil {
		return err
	}

	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	if habitGoal != "" {
		g, err := st.goals.Resolve(habitGoal)
		if err != nil {
			return err
		}
		h.LinkedGoalID = g.ID
	}

	if err := st.habits.Add(h); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Habit %s added %s", ui.Accent.Render(h.Name), ui.Muted.Render(h.ShortID())))
	fmt.Println(ui.Muted.Render("  " + describeSchedule(h)))
	ui.Tip(fmt.Sprintf("`lifeos log %q` to check in.", h.Name))
	fmt.Println()
	return nil
}

// applyHabitFlags overlays the type, frequency and tracking flags onto h.
// Frequency flags replace the whole rule; --days alone implies weekly and
// --target/--period imply windowed.
func applyHabitFlags(h *habit.Habit) error {
	var err error
	if habitType != "" {
		if h.Type, err = habit.ParseType(habitType); err != nil {
			return err
		}
	}
	if habitTracking != "" {
		if h.TrackingMode, err = habit.ParseTrackingMode(habitTracking); err != nil {
			return err
		}
	}
	if habitDescription != "" {
		h.Description = habitDescription
	}

	freq := habitFreq
	switch {
	case freq == "" && habitDays != "":
		freq = "weekly"
	case freq == "" && (habitTarget > 0 || habitPeriod > 0):
		freq = "windowed"
	}
	if freq == "" {
		return nil
	}
	if h.Frequency, err = habit.ParseFrequency(freq); err != nil {
		return err
	}
	h.Config = habit.FrequencyConfig{}
	switch h.Frequency {
	case habit.Weekly:
		if h.Config.Days, err = calendar.ParseWeekdays(habitDays); err != nil {
			return err
		}
	case habit.Windowed:
		h.Config.Target, h.Config.Period = habitTarget, habitPeriod
	}
	return h.Config.Validate(h.Frequency)
}

// habitWizard asks for a new habit's details.
func habitWizard(h *habit.Habit, defaultType string) error {
	kind := strings.ToUpper(defaultType)
	if kind != string(habit.Quit) {
		kind = string(habit.Build)
	}
	freq := string(habit.Daily)
	var days []time.Weekday
	target, period := "3", "7"

	dayOptions := make([]huh.Option[time.Weekday], 7)
	for i := range dayOptions {
		wd := time.Weekday((i + 1) % 7)
		dayOptions[i] = huh.NewOption(wd.String(), wd)
	}
	positive := func(s string) error {
		if n, err := strconv.Atoi(s); err != nil || n < 1 {
			return fmt.Errorf("enter a whole number of at least 1")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit name").
				Value(&h.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Build: something to do", string(habit.Build)),
					huh.NewOption("Quit: something to resist", string(habit.Quit)),
				).
				Value(&kind),
			huh.NewSelect[string]().
				Title("How often?").
				Options(
					huh.NewOption("Every day", string(habit.Daily)),
					huh.NewOption("On certain weekdays", string(habit.Weekly)),
					huh.NewOption("N times in any rolling window", string(habit.Windowed)),
				).
				Value(&freq),
		),
		huh.NewGroup(
			huh.NewMultiSelect[time.Weekday]().
				Title("Which days?").
				Options(dayOptions...).
				Value(&days).
				Validate(func(d []time.Weekday) error {
					if len(d) == 0 {
						return fmt.Errorf("pick at least one day")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return freq != string(habit.Weekly) }),
		huh.NewGroup(
			huh.NewInput().Title("Check-ins per window").Value(&target).Validate(positive),
			huh.NewInput().Title("Window length in days").Value(&period).Validate(positive),
		).WithHideFunc(func() bool { return freq != string(habit.Windowed) }),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("habit form: %w", err)
	}

	h.Name = strings.TrimSpace(h.Name)
	h.Type = habit.Type(kind)
	h.Frequency = habit.Frequency(freq)
	switch h.Frequency {
	case habit.Weekly:
		slices.Sort(days)
		h.Config.Days = days
	case habit.Windowed:
		h.Config.Target, _ = strconv.Atoi(target)
		h.Config.Period, _ = strconv.Atoi(period)
	}
	return h.Config.Validate(h.Frequency)
}

func runHabitList(_ *cobra.Command, _ []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	habits, err := st.habits.List(habitListAll)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  No habits yet."))
		ui.Tip("`lifeos habit add \"Read 20 pages\"` to create one.")
		fmt.Println()
		return nil
	}

	fmt.Println()
	for i := range habits {
		h := &habits[i]
		name := h.Name
		if !h.Active {
			name = ui.Muted.Render(name + " (archived)")
		}
		kind := ""
		if h.Type == habit.Quit {
			kind = ui.Warning.Render(" quit")
		}
		fmt.Printf("  %s  %-28s %s%s\n", ui.Muted.Render(h.ShortID()), name,
			ui.Muted.Render(h.Config.Describe(h.Frequency)), kind)
	}
	fmt.Println()
	fmt.Println(ui.Muted.Render(fmt.Sprintf("  %d habits", len(habits))))
	fmt.Println()
	return nil
}

func runHabitShow(_ *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := st.habits.Resolve(args[0])
	if err != nil {
		return err
	}
	hist, err := st.history(h)
	if err != nil {
		return err
	}
	today := calendar.Today(time.Local)
	s := engine.Summarize(h, hist, today)

	ui.Header(h.Name)
	if h.Description != "" {
		fmt.Println("  " + h.Description)
	}
	ui.Kv("ID", h.ID)
	ui.Kv("Schedule", describeSchedule(h))
	ui.Kv("Tracking", strings.ToLower(string(h.TrackingMode)))
	ui.Kv("Since", h.CreatedAt.String())
	if !h.Active {
		ui.Kv("Status", ui.Warning.Render("archived"))
	}
	if h.LinkedGoalID != "" {
		if g, err := st.goals.Get(h.LinkedGoalID); err == nil {
			ui.Kv("Goal", g.Name)
		}
	}
	fmt.Println()
	printSummary(s)
	return nil
}

// printSummary prints the statistics block shared by `habit show` and `stats`.
func printSummary(s engine.Summary) {
	today := ui.Muted.Render("not due")
	switch {
	case s.TodayLog != nil:
		today = engine.FormatStatus(s.TodayLog.Status)
	case s.Due:
		today = ui.Warning.Render("due")
	}
	ui.Kv("Today", today)
	if s.Window != nil {
		ui.Kv("Window", engine.FormatWindow(*s.Window))
	}
	ui.Kv("Streak", engine.FormatStreak(s.Streak))
	ui.Kv("Success", fmt.Sprintf("%s %d%%", ui.Bar(s.SuccessRate, 20), s.SuccessRate))
	ui.Kv("Resilience", fmt.Sprintf("%d%%", s.Resilience))
	ui.Kv("Check-ins", fmt.Sprintf("%d of %d logs", s.TotalReps, s.Logs))
	c := s.Status
	ui.Kv("Breakdown", fmt.Sprintf("%d done · %d resisted · %d partial · %d missed · %d failed",
		c.Done, c.Resisted, c.Partial, c.Missed, c.Failed))
	if s.Dropped > 0 {
		ui.Kv("Ignored", ui.Warning.Render(fmt.Sprintf("%d malformed logs", s.Dropped)))
	}
	fmt.Println()
}

func describeSchedule(h *habit.Habit) string {
	kind := "build"
	if h.Type == habit.Quit {
		kind = "quit"
	}
	return fmt.Sprintf("%s · %s", kind, h.Config.Describe(h.Frequency))
}

func runHabitEdit(_ *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := st.habits.Resolve(args[0])
	if err != nil {
		return err
	}
	if len(args) > 1 {
		h.Name = args[1]
	}
	if err := applyHabitFlags(h); err != nil {
		return err
	}
	if err := st.habits.Update(h); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Updated %s: %s", ui.Accent.Render(h.Name), describeSchedule(h)))
	return nil
}

func runHabitArchive(_ *cobra.Command, args []string) error {
	return setHabitActive(args[0], false)
}

func runHabitRestore(_ *cobra.Command, args []string) error {
	return setHabitActive(args[0], true)
}

func setHabitActive(ref string, active bool) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := st.habits.Resolve(ref)
	if err != nil {
		return err
	}
	if err := st.habits.SetActive(h.ID, active); err != nil {
		return err
	}
	if active {
		ui.Ok("Restored " + h.Name)
	} else {
		ui.Ok("Archived " + h.Name + ui.Muted.Render(" (history kept)"))
	}
	return nil
}

func runHabitDelete(_ *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := st.habits.Resolve(args[0])
	if err != nil {
		return err
	}

	if !habitDeleteYes {
		if !ui.IsStdinTTY() {
			return fmt.Errorf("refusing to delete %q without --yes", h.Name)
		}
		confirmed, err := confirm(fmt.Sprintf("Delete %q and all its logs?", h.Name),
			"Archive keeps the history; delete does not.")
		if err != nil || !confirmed {
			ui.Inf("Kept " + h.Name)
			return nil
		}
	}

	if err := st.habits.Delete(h.ID); err != nil {
		return err
	}
	ui.Ok("Deleted " + h.Name)
	return nil
}

func runHabitLink(_ *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := st.habits.Resolve(args[0])
	if err != nil {
		return err
	}
	g, err := st.goals.Resolve(args[1])
	if err != nil {
		return err
	}
	if err := st.habits.Link(h.ID, g.ID); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s now feeds %s", h.Name, ui.Accent.Render(g.Name)))
	return nil
}

func runHabitUnlink(_ *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	h, err := st.habits.Resolve(args[0])
	if err != nil {
		return err
	}
	if h.LinkedGoalID == "" {
		ui.Inf(h.Name + " is not linked to a goal")
		return nil
	}
	if err := st.habits.Link(h.ID, ""); err != nil {
		return err
	}
	ui.Ok("Unlinked " + h.Name)
	return nil
}
