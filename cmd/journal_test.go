package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/rnwolfe/lifeos/internal/calendar"
	"github.com/rnwolfe/lifeos/internal/journal"
)

// setJournalFlag sets a flag the way cobra would, so Changed reports it.
func setJournalFlag(t *testing.T, name, value string) {
	t.Helper()
	if err := journalCmd.Flags().Set(name, value); err != nil {
		t.Fatalf("Set(%s): %v", name, err)
	}
	t.Cleanup(func() { journalCmd.Flags().Lookup(name).Changed = false })
}

func TestRunJournal_MergesSameDay(t *testing.T) {
	configTestEnv(t)

	setJournalFlag(t, "mood", "4")
	captureStdout(t, func() {
		if err := runJournal(journalCmd, []string{"good", "day"}); err != nil {
			t.Fatalf("runJournal: %v", err)
		}
	})
	journalCmd.Flags().Lookup("mood").Changed = false

	setJournalFlag(t, "energy", "2")
	captureStdout(t, func() {
		if err := runJournal(journalCmd, nil); err != nil {
			t.Fatalf("runJournal energy: %v", err)
		}
	})

	seed(t, func(st *stores) {
		e, err := st.journal.Get(calendar.Today(time.Local))
		if err != nil || e == nil {
			t.Fatalf("Get: %v %v", e, err)
		}
		if e.Mood == nil || *e.Mood != 4 {
			t.Errorf("mood = %v, want 4 kept from the first entry", e.Mood)
		}
		if e.Energy == nil || *e.Energy != 2 {
			t.Errorf("energy = %v, want 2", e.Energy)
		}
		if e.Note != "good day" {
			t.Errorf("note = %q", e.Note)
		}
	})
}

func TestRunJournal_RejectsOutOfRange(t *testing.T) {
	configTestEnv(t)
	setJournalFlag(t, "mood", "9")
	if err := runJournal(journalCmd, nil); err == nil {
		t.Fatal("expected an error for mood 9")
	}
}

func TestRunJournal_ListsWhenEmpty(t *testing.T) {
	configTestEnv(t)
	out := captureStdout(t, func() {
		if err := runJournal(journalCmd, nil); err != nil {
			t.Fatalf("runJournal: %v", err)
		}
	})
	if !strings.Contains(out, "Journal is empty") {
		t.Errorf("output:\n%s", out)
	}

	seed(t, func(st *stores) {
		if _, err := st.journal.Upsert(journal.Entry{Date: calendar.Today(time.Local).AddDays(-1), Note: "tired"}); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	})
	out = captureStdout(t, func() {
		if err := runJournal(journalCmd, nil); err != nil {
			t.Fatalf("runJournal: %v", err)
		}
	})
	if !strings.Contains(out, "tired") {
		t.Errorf("list output:\n%s", out)
	}
}
