package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rnwolfe/lifeos/internal/ai"
	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/config"
	"github.com/rnwolfe/lifeos/internal/engine"
	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/insight"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

// insightTimeout bounds one provider round trip.
const insightTimeout = 90 * time.Second

var (
	insightRefresh bool
	insightRaw     bool
)

var insightCmd = &cobra.Command{
	Use:     "insight",
	Aliases: []string{"insights"},
	Short:   "Ask your AI provider to read your history",
	Long: `Generate a written review from your data. The provider comes from ` + "`lifeos ai config`" + `.
Goal retrospectives need a completed goal and are cached until --refresh.`,
}

var insightGoalCmd = &cobra.Command{
	Use:   "goal <goal>",
	Short: "Retrospective for a completed goal",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("insight.goal", runInsightGoal),
}

var insightHabitCmd = &cobra.Command{
	Use:   "habit <habit>",
	Short: "Coaching for one habit",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("insight.habit", runInsightHabit),
}

var insightGlobalCmd = &cobra.Command{
	Use:     "global",
	Aliases: []string{"system"},
	Short:   "Review the whole habit system",
	Args:    cobra.NoArgs,
	RunE:    hook.Wrap("insight.global", runInsightGlobal),
}

func init() {
	rootCmd.AddCommand(insightCmd)
	insightCmd.AddCommand(insightGoalCmd, insightHabitCmd, insightGlobalCmd)
	insightCmd.PersistentFlags().BoolVar(&insightRaw, "raw", false, "Print markdown without rendering")
	insightGoalCmd.Flags().BoolVar(&insightRefresh, "refresh", false, "Ignore the cached retrospective")
}

// newGenerator builds an insight generator from the configured provider.
func newGenerator() (*insight.Generator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	p, err := ai.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	g := insight.NewGenerator(p, cfg.AI.SystemInstructions)
	g.Model = ai.ModelFor(p.Name(), cfg.AI.Model)
	return g, nil
}

func insightContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, insightTimeout)
	return ctx, func() { cancel(); stop() }
}

func printInsight(md string) error {
	w := ui.NewMarkdownWriter(os.Stdout, insightRaw)
	if _, err := w.Write([]byte(md)); err != nil {
		return err
	}
	return w.Flush()
}

func explainAIError(err error) error {
	if ai.IsAuthError(err) {
		return fmt.Errorf("%w\n  check your key with `lifeos ai providers`", err)
	}
	return err
}

func runInsightGoal(cmd *cobra.Command, args []string) error {
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	g, err := st.goals.Resolve(args[0])
	if err != nil {
		return err
	}
	if !g.Completed {
		return fmt.Errorf("%s is still open; retrospectives are written for completed goals (`lifeos goal done`)", g.Name)
	}

	linked, err := st.habits.ListByGoal(g.ID)
	if err != nil {
		return err
	}
	logs, err := st.habits.AllLogs()
	if err != nil {
		return err
	}
	progress, err := st.goals.Progress(g.ID)
	if err != nil {
		return err
	}
	gc := insight.BuildGoalContext(g, linked, engine.BuildIndex(linked, logs), progress)

	gen, err := newGenerator()
	if err != nil {
		return err
	}
	ctx, cancel := insightContext()
	defer cancel()

	ui.Inf(fmt.Sprintf("Reviewing %s with %s…", g.Name, gen.Provider.Name()))
	gi, cached, err := gen.Goal(ctx, st.goals, gc, g, insightRefresh)
	if err != nil {
		return explainAIError(err)
	}
	hook.Emit(cmd, "insight.goal", map[string]any{"goalId": g.ID, "cached": cached})
	if err := printInsight(gi.Markdown(g.Name)); err != nil {
		return err
	}
	if cached {
		ui.Tip("Cached retrospective. `--refresh` asks again.")
		fmt.Println()
	}
	return nil
}

func runInsightHabit(cmd *cobra.Command, args []string) error {
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
	hc := insight.BuildHabitContext(engine.Summarize(h, hist, calendar.Today(time.Local)), hist)

	gen, err := newGenerator()
	if err != nil {
		return err
	}
	ctx, cancel := insightContext()
	defer cancel()

	ui.Inf(fmt.Sprintf("Coaching %s with %s…", h.Name, gen.Provider.Name()))
	hi, err := gen.Habit(ctx, hc)
	if err != nil {
		return explainAIError(err)
	}
	hook.Emit(cmd, "insight.habit", map[string]string{"habitId": h.ID})
	return printInsight(hi.Markdown(h.Name))
}

func runInsightGlobal(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	view, err := st.loadDay(calendar.Today(time.Local))
	if err != nil {
		return err
	}
	if len(view.habits) == 0 {
		return fmt.Errorf("no active habits to review")
	}
	gc := insight.BuildGlobalContext(view.habits, view.idx, calendar.Today(time.Local), cfg.Habits.RankingSize)

	gen, err := newGenerator()
	if err != nil {
		return err
	}
	ctx, cancel := insightContext()
	defer cancel()

	ui.Inf(fmt.Sprintf("Reviewing %d habits with %s…", len(view.habits), gen.Provider.Name()))
	gi, err := gen.Global(ctx, gc)
	if err != nil {
		return explainAIError(err)
	}
	hook.Emit(cmd, "insight.global", len(view.habits))
	return printInsight(gi.Markdown())
}
