package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/tips"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

var tipsShowAll bool

var tipsCmd = &cobra.Command{
	Use:   "tips [topic]",
	Short: "Discover what lifeos can do",
	Long: `Show today's tip, every tip with --all, or the tips on one topic:
habits, goals, stats, journal, ai or data.`,
	Args: cobra.MaximumNArgs(1),
	RunE: hook.Wrap("tips", runTips),
}

func init() {
	rootCmd.AddCommand(tipsCmd)
	tipsCmd.Flags().BoolVarP(&tipsShowAll, "all", "a", false, "List all tips")
}

func runTips(_ *cobra.Command, args []string) error {
	switch {
	case len(args) == 1:
		list := tips.About(args[0])
		if len(list) == 0 {
			return fmt.Errorf("no tips about %q (topics: %s)", args[0], strings.Join(tips.Topics(), ", "))
		}
		printTips(args[0], list)
	case tipsShowAll:
		for _, topic := range tips.Topics() {
			printTips(topic, tips.About(topic))
		}
	default:
		ui.Tip(tips.Daily(time.Now()))
		fmt.Println(ui.Muted.Render("  `lifeos tips --all` lists every tip."))
	}
	fmt.Println()
	return nil
}

func printTips(topic string, list []tips.Tip) {
	fmt.Println()
	fmt.Println("  " + ui.Title.Render(strings.ToLower(topic)))
	for _, t := range list {
		fmt.Printf("  %s %s\n", ui.Accent.Render(ui.IconSpark), ui.Muted.Render(t.Text))
	}
}
