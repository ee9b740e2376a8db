// Package insight turns engine statistics into prompts for a language model
// and parses the structured reflections that come back.
package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedInsight is returned when a model reply is not the JSON object
// that was asked for.
var ErrMalformedInsight = errors.New("malformed insight response")

// GoalInsight is the retrospective written for a completed goal.
type GoalInsight struct {
	Overview   string   `json:"overview"`
	Patterns   []string `json:"patterns"`
	Reflection *string  `json:"optional_reflection"`
}

// HabitInsight is coaching for a single habit.
type HabitInsight struct {
	Overview       string   `json:"overview"`
	Patterns       []string `json:"patterns"`
	Recommendation string   `json:"recommendation"`
}

// GlobalInsight looks across every active habit.
type GlobalInsight struct {
	SystemHealth string   `json:"system_health"`
	Correlations []string `json:"correlations"`
	Strategy     string   `json:"strategy"`
}

func (g *GoalInsight) validate() error {
	if strings.TrimSpace(g.Overview) == "" {
		return fmt.Errorf("%w: missing overview", ErrMalformedInsight)
	}
	return nil
}

func (h *HabitInsight) validate() error {
	if strings.TrimSpace(h.Overview) == "" || strings.TrimSpace(h.Recommendation) == "" {
		return fmt.Errorf("%w: missing overview or recommendation", ErrMalformedInsight)
	}
	return nil
}

func (g *GlobalInsight) validate() error {
	if strings.TrimSpace(g.SystemHealth) == "" || strings.TrimSpace(g.Strategy) == "" {
		return fmt.Errorf("%w: missing system_health or strategy", ErrMalformedInsight)
	}
	return nil
}

// Parse decodes a model reply into v. Replies wrapped in a fenced code block
// or surrounded by chatter are accepted as long as they hold one JSON object.
func Parse[T any, PT interface {
	*T
	validate() error
}](content string) (*T, error) {
	raw, err := extractJSON(content)
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInsight, err)
	}
	if err := PT(&v).validate(); err != nil {
		return nil, err
	}
	return &v, nil
}

// ParseGoal decodes a goal insight reply.
func ParseGoal(content string) (*GoalInsight, error) { return Parse[GoalInsight](content) }

// ParseHabit decodes a habit coach reply.
func ParseHabit(content string) (*HabitInsight, error) { return Parse[HabitInsight](content) }

// ParseGlobal decodes a global insight reply.
func ParseGlobal(content string) (*GlobalInsight, error) { return Parse[GlobalInsight](content) }

func extractJSON(content string) (string, error) {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in reply", ErrMalformedInsight)
	}
	return s[start : end+1], nil
}

// Markdown renders the insight for the terminal.
func (g *GoalInsight) Markdown(goalName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n", goalName, g.Overview)
	writeList(&b, "Patterns", g.Patterns)
	if g.Reflection != nil && strings.TrimSpace(*g.Reflection) != "" {
		fmt.Fprintf(&b, "\n## Reflection\n\n> %s\n", *g.Reflection)
	}
	return b.String()
}

// Markdown renders the insight for the terminal.
func (h *HabitInsight) Markdown(habitName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Coach: %s\n\n%s\n", habitName, h.Overview)
	writeList(&b, "Patterns", h.Patterns)
	fmt.Fprintf(&b, "\n## Next step\n\n%s\n", h.Recommendation)
	return b.String()
}

// Markdown renders the insight for the terminal.
func (g *GlobalInsight) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# System health\n\n%s\n", g.SystemHealth)
	writeList(&b, "Correlations", g.Correlations)
	fmt.Fprintf(&b, "\n## Strategy\n\n%s\n", g.Strategy)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, it := range items {
		fmt.Fprintf(b, "- %s\n", it)
	}
}
