package hook

import "slices"

// Event describes something a command can publish to notify hooks.
type Event struct {
	Name     string
	Commands []string
	Summary  string
}

// Events lists every event lifeos commands emit. A notify script named after
// an event (goal.momentum.notify.sh) fires whenever any command emits it.
var Events = []Event{
	{"habit.logged", []string{"log"}, "a check-in was recorded or replaced"},
	{"habit.undone", []string{"undo"}, "a check-in was removed"},
	{"goal.momentum", []string{"log"}, "a success fed a linked goal's momentum log"},
	{"goal.progress", []string{"goal.progress"}, "goal momentum was recorded by hand"},
	{"goal.completed", []string{"goal.done"}, "a goal was marked completed"},
	{"journal.updated", []string{"journal"}, "a journal entry was written"},
	{"windows.expired", []string{"evaluate"}, "missed windows were recorded as failures"},
	{"insight.goal", []string{"insight.goal"}, "a goal retrospective was generated"},
	{"insight.habit", []string{"insight.habit"}, "a habit coaching report was generated"},
	{"insight.global", []string{"insight.global"}, "a system-wide report was generated"},
	{"snapshot.exported", []string{"export"}, "habits, logs and goals were exported"},
	{"snapshot.imported", []string{"import"}, "a snapshot was merged into the database"},
	{"config.changed", []string{"config.set", "config.unset"}, "a config key was changed"},
}

// EventsOf returns the names of the events a command can emit.
func EventsOf(command string) []string {
	var names []string
	for _, ev := range Events {
		if slices.Contains(ev.Commands, command) {
			names = append(names, ev.Name)
		}
	}
	return names
}

// IsEvent reports whether a hook pattern subscribes to at least one event.
func IsEvent(pattern string) bool {
	return slices.ContainsFunc(Events, func(ev Event) bool { return matchPattern(pattern, ev.Name) })
}
