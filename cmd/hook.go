package cmd

import (
	"fmt"
	"strings"

	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run your own scripts around lifeos commands",
	Long: `Run scripts before or after lifeos commands, or whenever a command emits an
event such as habit.logged or goal.momentum. Scripts live in the hooks
directory and are named <pattern>.<stage>.sh.`,
	RunE:  hook.Wrap("hook", runHookList),
}

var hookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all active hook scripts",
	RunE:  hook.Wrap("hook.list", runHookList),
}

var hookCreateCmd = &cobra.Command{
	Use:   "create <command-pattern> <stage>",
	Short: "Scaffold a new hook script",
	Long: `Create a starter hook script.

Examples:
  lifeos hook create log notify
  lifeos hook create "habit.*" postexec
  lifeos hook create "*" preexec`,
	Args: cobra.ExactArgs(2),
	RunE: hook.Wrap("hook.create", runHookCreate),
}

var hookEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the events notify hooks can subscribe to",
	Args:  cobra.NoArgs,
	RunE:  hook.Wrap("hook.events", runHookEvents),
}

var hookTestCmd = &cobra.Command{
	Use:   "test <file>",
	Short: "Dry-run a hook with sample input",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("hook.test", runHookTest),
}

func init() {
	rootCmd.AddCommand(hookCmd)
	hookCmd.AddCommand(hookListCmd, hookCreateCmd, hookEventsCmd, hookTestCmd)
}

func runHookList(_ *cobra.Command, _ []string) error {
	dir := hook.HooksDir()
	hooks, err := hook.Discover(dir)
	if err != nil {
		return err
	}

	if len(hooks) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  No hooks found."))
		fmt.Println()
		fmt.Printf("  Hooks directory: %s\n", ui.Accent.Render(dir))
		fmt.Printf("  Create one: %s\n", ui.Accent.Render("lifeos hook create goal.momentum notify"))
		fmt.Println()
		return nil
	}

	fmt.Println()
	fmt.Println("  " + ui.Title.Render("Hooks"))
	fmt.Println()
	for _, h := range hooks {
		trigger := "command"
		if h.Stage == hook.StageNotify && hook.IsEvent(h.Pattern) {
			trigger = "event"
		}
		fmt.Printf("  %s %-20s %-12s %s\n",
			ui.Success.Render(ui.IconDot),
			ui.Accent.Render(h.Pattern),
			ui.Muted.Render(string(h.Stage)),
			ui.Muted.Render(trigger),
		)
	}
	fmt.Println()
	fmt.Printf("  %s\n", ui.Muted.Render(fmt.Sprintf("%d hooks in %s", len(hooks), dir)))
	fmt.Println()
	return nil
}

func runHookCreate(_ *cobra.Command, args []string) error {
	pattern := args[0]
	stage, err := hook.ParseStage(args[1])
	if err != nil {
		return err
	}

	path, err := hook.CreateHookScript(hook.HooksDir(), pattern, stage)
	if err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Created hook: %s", path))
	fmt.Println()
	fmt.Printf("  Pattern: %s\n", ui.Accent.Render(pattern))
	fmt.Printf("  Stage:   %s\n", ui.Accent.Render(string(stage)))
	fmt.Println()
	fmt.Printf("  Edit:    %s\n", ui.Accent.Render("$EDITOR "+path))
	fmt.Printf("  Test:    %s\n", ui.Accent.Render("lifeos hook test "+path))
	fmt.Println()
	return nil
}

func runHookEvents(_ *cobra.Command, _ []string) error {
	ui.Header("Events")
	for _, ev := range hook.Events {
		fmt.Printf("  %-18s %s %s\n", ui.Accent.Render(ev.Name), ev.Summary,
			ui.Muted.Render("("+strings.Join(ev.Commands, ", ")+")"))
	}
	fmt.Println()
	ui.Tip("`lifeos hook create goal.momentum notify` runs a script whenever a habit feeds a goal.")
	fmt.Println()
	return nil
}

func runHookTest(_ *cobra.Command, args []string) error {
	path := args[0]

	fmt.Println()
	fmt.Printf("  Testing: %s\n", ui.Accent.Render(path))
	fmt.Println()

	output, err := hook.DryRun(path)
	if err != nil {
		return err
	}

	ui.Ok("Hook executed successfully")
	if output != "" {
		fmt.Println()
		fmt.Printf("  Output:\n  %s\n", ui.Muted.Render(output))
	}
	fmt.Println()
	return nil
}
