// Package tips rotates short usage hints for the lifeos CLI.
package tips

import (
	"slices"
	"strings"
	"time"
)

// Tip is one usage hint filed under a topic.
type Tip struct {
	Topic string
	Text  string
}

var all = []Tip{
	{"habits", "`lifeos log <habit>` checks in for today; add `--date yesterday` to catch up."},
	{"habits", "`lifeos log <habit> partial` records a day that only half happened."},
	{"habits", "`lifeos undo <habit>` clears a check-in logged by mistake."},
	{"habits", "`lifeos today --tui` opens the dashboard: j/k to move, space to check in, x to miss, ? for help."},
	{"habits", "`lifeos habit add Gym --target 3 --period 7` builds a habit you do 3 times in any week."},
	{"habits", "`lifeos habit add \"Long run\" --days sat` schedules a habit for Saturdays only."},
	{"habits", "`lifeos habit add \"No sugar\" --type quit` tracks something you want to resist."},
	{"habits", "`lifeos habit archive <habit>` pauses a habit and keeps its history."},
	{"habits", "`lifeos evaluate` records failures for windowed habits whose windows ran out."},
	{"goals", "`lifeos habit link <habit> <goal>` turns each check-in into goal momentum."},
	{"goals", "`lifeos log <habit> --momentum` records goal progress without asking."},
	{"goals", "`lifeos goal progress <goal> --stalled` is honest bookkeeping, not failure."},
	{"stats", "`lifeos stats` shows the leaderboard, your strongest weekday and the daily pulse."},
	{"stats", "`lifeos heatmap <habit> -w 52` draws a full year of check-ins."},
	{"stats", "`lifeos stats --snapshot backup.json` analyses an export without touching the database."},
	{"journal", "`lifeos journal --mood 4 --energy 3` takes ten seconds and pays off in insights."},
	{"ai", "`lifeos insight habit <habit>` asks your AI provider for one concrete next step."},
	{"ai", "`lifeos insight goal <goal>` writes a retrospective once a goal is done."},
	{"data", "`lifeos export -o backup.json` keeps a portable copy of everything."},
	{"data", "`lifeos hook create goal.momentum notify` runs your own script whenever a habit feeds a goal."},
	{"data", "`lifeos config list` shows every setting you can change."},
}

// All returns every tip.
func All() []Tip {
	return all
}

// Topics returns the topic names in the order they first appear.
func Topics() []string {
	var topics []string
	for _, t := range all {
		if !slices.Contains(topics, t.Topic) {
			topics = append(topics, t.Topic)
		}
	}
	return topics
}

// About returns the tips filed under topic, matched case-insensitively.
func About(topic string) []Tip {
	var out []Tip
	for _, t := range all {
		if strings.EqualFold(t.Topic, topic) {
			out = append(out, t)
		}
	}
	return out
}

// Daily returns a deterministic tip for the given day.
// The same tip is returned all day; it changes each day.
func Daily(t time.Time) string {
	return all[t.YearDay()%len(all)].Text
}
