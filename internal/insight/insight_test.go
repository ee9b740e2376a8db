package insight

import (
	"errors"
	"strings"
	"testing"
)

func TestParseGoal(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{"plain", `{"overview":"Steady.","patterns":["a","b"],"optional_reflection":null}`, false},
		{"fenced", "```json\n{\"overview\":\"Steady.\",\"patterns\":[]}\n```", false},
		{"chatter", "Here you go:\n{\"overview\":\"Steady.\"}\nHope that helps!", false},
		{"not json", "I could not analyse this goal.", true},
		{"broken json", `{"overview": "Steady.", "patterns": [}`, true},
		{"missing overview", `{"patterns":["a"]}`, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gi, err := ParseGoal(tc.content)
			if tc.wantErr {
				if !errors.Is(err, ErrMalformedInsight) {
					t.Fatalf("expected ErrMalformedInsight, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGoal: %v", err)
			}
			if gi.Overview != "Steady." {
				t.Errorf("overview = %q", gi.Overview)
			}
		})
	}
}

func TestParseHabitAndGlobal(t *testing.T) {
	hi, err := ParseHabit(`{"overview":"o","patterns":["p"],"recommendation":"r"}`)
	if err != nil || hi.Recommendation != "r" {
		t.Fatalf("ParseHabit = %+v, %v", hi, err)
	}
	if _, err := ParseHabit(`{"overview":"o"}`); !errors.Is(err, ErrMalformedInsight) {
		t.Errorf("missing recommendation: got %v", err)
	}

	gi, err := ParseGlobal(`{"system_health":"h","correlations":["c"],"strategy":"s"}`)
	if err != nil || gi.Strategy != "s" {
		t.Fatalf("ParseGlobal = %+v, %v", gi, err)
	}
	if _, err := ParseGlobal(`{"system_health":"h"}`); !errors.Is(err, ErrMalformedInsight) {
		t.Errorf("missing strategy: got %v", err)
	}
}

func TestMarkdown(t *testing.T) {
	reflection := "Small steps add up."
	gi := &GoalInsight{Overview: "It went well.", Patterns: []string{"Mornings worked"}, Reflection: &reflection}
	md := gi.Markdown("Run a marathon")
	for _, want := range []string{"# Run a marathon", "It went well.", "- Mornings worked", "> Small steps add up."} {
		if !strings.Contains(md, want) {
			t.Errorf("goal markdown missing %q:\n%s", want, md)
		}
	}

	empty := ""
	if strings.Contains((&GoalInsight{Overview: "x", Reflection: &empty}).Markdown("g"), "Reflection") {
		t.Error("blank reflection should be omitted")
	}

	hm := (&HabitInsight{Overview: "o", Recommendation: "Do it at 7am"}).Markdown("Run")
	if !strings.Contains(hm, "# Coach: Run") || !strings.Contains(hm, "Do it at 7am") {
		t.Errorf("habit markdown:\n%s", hm)
	}
	if strings.Contains(hm, "Patterns") {
		t.Error("empty pattern list should be omitted")
	}

	gm := (&GlobalInsight{SystemHealth: "h", Correlations: []string{"c1"}, Strategy: "s"}).Markdown()
	if !strings.Contains(gm, "- c1") || !strings.Contains(gm, "## Strategy") {
		t.Errorf("global markdown:\n%s", gm)
	}
}
