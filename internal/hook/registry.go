package hook

import (
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"sync"
)

// Registry holds registered hooks. A hook's pattern is matched against the
// command name for every stage and, for notify hooks, also against the names
// of the events the command emitted.
type Registry struct {
	mu    sync.RWMutex
	hooks []Hook
}

// DefaultRegistry is the global hook registry.
var DefaultRegistry = &Registry{}

// Register adds a hook. Malformed patterns are rejected.
func (r *Registry) Register(h Hook) error {
	if _, err := filepath.Match(h.Pattern, ""); err != nil {
		return fmt.Errorf("invalid hook pattern %q: %w", h.Pattern, err)
	}
	if h.Handler == nil {
		return fmt.Errorf("hook %q has no handler", h.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, h)
	return nil
}

// Unregister removes all hooks from the given source.
func (r *Registry) Unregister(source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = slices.DeleteFunc(r.hooks, func(h Hook) bool { return h.Source == source })
}

// Resolve returns the hooks for a command and stage, sorted by name.
func (r *Registry) Resolve(command string, stage Stage) []Hook {
	return r.resolve(stage, func(h Hook) bool { return matchPattern(h.Pattern, command) })
}

// ResolveNotify returns the notify hooks for a finished command: those whose
// pattern matches the command and those subscribed to one of its events.
// A hook matching both runs once.
func (r *Registry) ResolveNotify(command string, events []string) []Hook {
	return r.resolve(StageNotify, func(h Hook) bool {
		if matchPattern(h.Pattern, command) {
			return true
		}
		return slices.ContainsFunc(events, func(ev string) bool { return matchPattern(h.Pattern, ev) })
	})
}

func (r *Registry) resolve(stage Stage, match func(Hook) bool) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Hook
	for _, h := range r.hooks {
		if h.Stage == stage && match(h) {
			matched = append(matched, h)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched
}

// Listens reports whether a command needs the pipeline: some hook matches
// it directly, or a notify hook is subscribed to an event it can emit.
func (r *Registry) Listens(command string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.hooks {
		if matchPattern(h.Pattern, command) {
			return true
		}
		if h.Stage == StageNotify && slices.ContainsFunc(EventsOf(command), func(ev string) bool {
			return matchPattern(h.Pattern, ev)
		}) {
			return true
		}
	}
	return false
}

// Count returns the number of registered hooks.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// Register adds a hook to the default registry.
func Register(h Hook) error {
	return DefaultRegistry.Register(h)
}

// matchPattern matches dotted command and event names with shell globs:
// "habit.*" matches "habit.add" and "habit.logged" but not "log".
func matchPattern(pattern, name string) bool {
	matched, _ := filepath.Match(pattern, name)
	return matched
}
