package tips

import (
	"strings"
	"testing"
	"time"
)

func TestAll_ShowCommands(t *testing.T) {
	if len(All()) < 20 {
		t.Fatalf("All() returned %d tips, want at least 20", len(All()))
	}
	for i, tip := range All() {
		if !strings.Contains(tip.Text, "lifeos ") {
			t.Errorf("tip %d does not show a command: %q", i, tip.Text)
		}
		if tip.Topic == "" {
			t.Errorf("tip %d has no topic", i)
		}
	}
}

func TestTopics(t *testing.T) {
	got := strings.Join(Topics(), ",")
	if got != "habits,goals,stats,journal,ai,data" {
		t.Errorf("Topics() = %s", got)
	}
}

func TestAbout(t *testing.T) {
	goals := About("Goals")
	if len(goals) != 3 {
		t.Fatalf("About(Goals) = %d tips, want 3", len(goals))
	}
	for _, tip := range goals {
		if tip.Topic != "goals" {
			t.Errorf("unexpected topic %q", tip.Topic)
		}
	}
	if len(About("gardening")) != 0 {
		t.Error("unknown topic should have no tips")
	}
}

func TestDaily(t *testing.T) {
	morning := time.Date(2024, 6, 15, 7, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 6, 15, 22, 30, 0, 0, time.UTC)
	if Daily(morning) != Daily(evening) {
		t.Error("Daily() changed within one day")
	}

	seen := make(map[string]bool)
	for i := range 10 {
		seen[Daily(morning.AddDate(0, 0, i))] = true
	}
	if len(seen) < 2 {
		t.Error("Daily() returned the same tip for 10 consecutive days")
	}
}
