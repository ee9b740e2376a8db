package cmd

import (
	"fmt"
	"strings"

	"github.com/rnwolfe/lifeos/internal/hook"
	"github.com/rnwolfe/lifeos/internal/journal"
	"github.com/rnwolfe/lifeos/internal/ui"
	"github.com/spf13/cobra"
)

var (
	journalMood   int
	journalEnergy int
	journalDate   string
	journalLimit  int
)

var journalCmd = &cobra.Command{
	Use:     "journal [note]",
	Aliases: []string{"j"},
	Short:   "Record or review your daily mood, energy and notes",
	Long: `Record how a day went. Without arguments or flags, show recent entries.
Running it again for the same day fills in what you pass and keeps the rest.

Examples:
  lifeos journal --mood 4 --energy 3
  lifeos journal "slept badly, long meeting day"
  lifeos journal --date yesterday --mood 2`,
	RunE: hook.Wrap("journal", runJournal),
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.Flags().IntVarP(&journalMood, "mood", "m", 0, "Mood from 1 to 5")
	journalCmd.Flags().IntVarP(&journalEnergy, "energy", "e", 0, "Energy from 1 to 5")
	journalCmd.Flags().StringVar(&journalDate, "date", "", "Day (YYYY-MM-DD or yesterday, default today)")
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "l", 7, "Entries to show")
}

func runJournal(cmd *cobra.Command, args []string) error {
	day, err := parseDay(journalDate)
	if err != nil {
		return err
	}

	e := journal.Entry{Date: day, Note: strings.Join(args, " ")}
	if cmd != nil && cmd.Flags().Changed("mood") {
		m := journalMood
		e.Mood = &m
	}
	if cmd != nil && cmd.Flags().Changed("energy") {
		v := journalEnergy
		e.Energy = &v
	}

	st, err := openStores()
	if err != nil {
		return err
	}
	defer st.Close()

	if e.Empty() {
		return printJournal(st.journal, journalLimit)
	}

	saved, err := st.journal.Upsert(e)
	if err != nil {
		return err
	}
	hook.Emit(cmd, "journal.updated", saved)
	ui.Ok(fmt.Sprintf("%s %s  %s", ui.IconJournal, ui.Muted.Render(day.String()), saved.Summary()))
	return nil
}

func printJournal(js *journal.Store, limit int) error {
	entries, err := js.List(limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  Journal is empty."))
		ui.Tip("`lifeos journal --mood 4 \"good day\"` to write the first entry.")
		fmt.Println()
		return nil
	}
	fmt.Println()
	for _, e := range entries {
		fmt.Printf("  %s  %s\n", ui.Muted.Render(e.Date.Format("Mon Jan 2")), e.Summary())
	}
	fmt.Println()
	return nil
}
