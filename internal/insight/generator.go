package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rnwolfe/lifeos/internal/ai"
	"github.com/rnwolfe/lifeos/internal/goal"
	"github.com/rnwolfe/lifeos/internal/logger"
)

// ErrGoalNotCompleted is returned when a retrospective is requested for an
// open goal.
var ErrGoalNotCompleted = errors.New("goal must be completed to generate insights")

const domainPrimer = `<context>
This system tracks long-term goals and daily habits.
**Habits** are repeatable actions (DAILY, WEEKLY, or WINDOWED: n times in any rolling period).
**BUILD** habits are things to do; **QUIT** habits are things to resist.
**Momentum logs** record whether a goal moved forward on a day, with a note.
**Habit statuses**: DONE/RESISTED (success), PARTIAL (neutral), MISSED/FAILED (failure).
</context>`

const (
	goalSystem = `You generate goal insight summaries based on historical data. Your tone should be reflective, analytical, and human-readable. Focus on patterns, consistency, gaps, and how progress unfolded over time. Do not invent reasons not present in the data. Return strictly JSON.`

	goalShape = `{
  "overview": "A 2-3 sentence summary of how progress unfolded",
  "patterns": ["Observation 1", "Observation 2", "Observation 3"],
  "optional_reflection": "A single high-level takeaway (or null)"
}`

	habitSystem = `You are a pragmatic habit coach. Read the statistics of one habit, point out what is working and what is not, and suggest one concrete next step. Only reference facts present in the data. Return strictly JSON.`

	habitShape = `{
  "overview": "2-3 sentences on how this habit is going",
  "patterns": ["Observation 1", "Observation 2"],
  "recommendation": "One specific, actionable suggestion"
}`

	globalSystem = `You analyse a person's whole habit system. Look for cross-habit correlations, strong and weak days, and overall health. Be concise and honest. Only reference facts present in the data. Return strictly JSON.`

	globalShape = `{
  "system_health": "2-3 sentences on the state of the habit system",
  "correlations": ["Correlation 1", "Correlation 2"],
  "strategy": "One strategy to strengthen the system"
}`
)

// Generator builds prompts, calls the provider and parses the reply.
type Generator struct {
	Provider ai.Provider
	// Instructions is extra guidance appended to every system prompt.
	Instructions string
	// Model overrides the provider default when set.
	Model string
}

// NewGenerator returns a generator for p.
func NewGenerator(p ai.Provider, instructions string) *Generator {
	return &Generator{Provider: p, Instructions: instructions}
}

// Goal writes the retrospective for a completed goal. A cached retrospective
// is returned unless refresh is set; fresh results are cached.
func (g *Generator) Goal(ctx context.Context, store *goal.Store, gc GoalContext, gl *goal.Goal, refresh bool) (*GoalInsight, bool, error) {
	if !gl.Completed {
		return nil, false, fmt.Errorf("%w: %s", ErrGoalNotCompleted, gl.Name)
	}
	if !refresh {
		if cached, ok, err := store.CachedInsight(gl.ID); err != nil {
			return nil, false, err
		} else if ok {
			if gi, err := ParseGoal(cached); err == nil {
				return gi, true, nil
			}
			logger.Warn("discarding unreadable cached insight", "goal", gl.ID)
		}
	}

	content, err := g.complete(ctx, goalSystem, gc, goalShape)
	if err != nil {
		return nil, false, err
	}
	gi, err := ParseGoal(content)
	if err != nil {
		return nil, false, err
	}

	encoded, err := json.Marshal(gi)
	if err != nil {
		return nil, false, fmt.Errorf("encoding insight: %w", err)
	}
	if err := store.SaveInsight(gl.ID, string(encoded), g.Provider.Name(), g.Model); err != nil {
		return nil, false, err
	}
	return gi, false, nil
}

// Habit coaches one habit.
func (g *Generator) Habit(ctx context.Context, hc HabitContext) (*HabitInsight, error) {
	content, err := g.complete(ctx, habitSystem, hc, habitShape)
	if err != nil {
		return nil, err
	}
	return ParseHabit(content)
}

// Global reviews the whole habit system.
func (g *Generator) Global(ctx context.Context, gc GlobalContext) (*GlobalInsight, error) {
	content, err := g.complete(ctx, globalSystem, gc, globalShape)
	if err != nil {
		return nil, err
	}
	return ParseGlobal(content)
}

func (g *Generator) complete(ctx context.Context, system string, data any, shape string) (string, error) {
	req, err := BuildRequest(system, g.Instructions, data, shape)
	if err != nil {
		return "", err
	}
	req.Model = g.Model

	logger.Debug("requesting insight", "provider", g.Provider.Name(), "prompt_bytes", len(req.Prompt))
	resp, err := g.Provider.Complete(ctx, req)
	if err != nil {
		logger.Warn("insight request failed", "provider", g.Provider.Name(), "err", err)
		return "", err
	}
	return resp.Content, nil
}

// BuildRequest assembles the system and user prompts around a JSON dump of
// data and the expected reply shape.
func BuildRequest(system, instructions string, data any, shape string) (*ai.Request, error) {
	dump, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding insight context: %w", err)
	}

	var prompt strings.Builder
	prompt.WriteString(domainPrimer)
	prompt.WriteString("\n\n<data>\n")
	prompt.Write(dump)
	prompt.WriteString("\n</data>\n\nGenerate a JSON object with this EXACT structure:\n")
	prompt.WriteString(shape)

	req := ai.NewRequest(prompt.String())
	req.System = system
	if s := strings.TrimSpace(instructions); s != "" {
		req.System += "\n\n" + s
	}
	return req, nil
}
