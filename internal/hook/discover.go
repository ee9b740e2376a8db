package hook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rnwolfe/lifeos/internal/config"
)

// UserHook is a script found in the hooks directory.
type UserHook struct {
	Path    string
	Pattern string
	Stage   Stage
	Name    string
}

// HooksDir returns the user hooks directory.
func HooksDir() string {
	return filepath.Join(config.GetPaths().ConfigDir, "hooks")
}

// Discover returns the executable scripts in dir named
// <command-pattern>.<stage>[.<ext>], e.g. log.notify.sh or habit.*.preexec.py.
// Other files are ignored.
func Discover(dir string) ([]UserHook, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading hooks dir: %w", err)
	}

	var hooks []UserHook
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		h, err := parseHookFilename(e.Name())
		if err != nil {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		h.Path = filepath.Join(dir, e.Name())
		hooks = append(hooks, h)
	}
	return hooks, nil
}

// parseHookFilename splits a script name from the right, since patterns may
// contain dots: "habit.add.preexec.sh" is pattern "habit.add", stage preexec.
func parseHookFilename(name string) (UserHook, error) {
	base := name
	if ext := filepath.Ext(name); ext != "" {
		if _, err := ParseStage(strings.TrimPrefix(ext, ".")); err != nil {
			base = strings.TrimSuffix(name, ext)
		}
	}

	dot := strings.LastIndex(base, ".")
	if dot <= 0 {
		return UserHook{}, fmt.Errorf("invalid hook filename: %s", name)
	}
	stage, err := ParseStage(base[dot+1:])
	if err != nil {
		return UserHook{}, fmt.Errorf("invalid hook filename %s: %w", name, err)
	}
	return UserHook{Pattern: base[:dot], Stage: stage, Name: name}, nil
}

// ParseStage converts a stage name to a Stage.
func ParseStage(s string) (Stage, error) {
	for _, st := range AllStages {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (want prevalidate, preexec, postexec or notify)", s)
}

// RegisterUserHooks registers every script in the user hooks directory.
func RegisterUserHooks() error {
	hooks, err := Discover(HooksDir())
	if err != nil {
		return err
	}
	for _, h := range hooks {
		if err := Register(Hook{
			Pattern: h.Pattern,
			Stage:   h.Stage,
			Mode:    ModeFor(h.Stage),
			Name:    h.Name,
			Source:  "user",
			Handler: ExecHandler(h, 0),
		}); err != nil {
			return fmt.Errorf("registering hook %s: %w", h.Name, err)
		}
	}
	return nil
}

const scriptTemplate = `#!/bin/sh
# lifeos %s hook for %q (%s mode)
#
# The hook context arrives as JSON on stdin:
#   {"command":"log","args":["Run"],"flags":{"date":"2024-01-05"},
#    "events":{"habit.logged":{...},"goal.momentum":{...}},
#    "timestamp":"2024-01-05T07:30:00Z"}
# Events are only present at postexec and notify. The environment carries
# LIFEOS_COMMAND, LIFEOS_STAGE, LIFEOS_EVENTS and LIFEOS_DATA_DIR.
# Run "lifeos hook events" for the event names.
CONTEXT=$(cat)
`

// CreateHookScript writes a starter script into dir and returns its path.
func CreateHookScript(dir, pattern string, stage Stage) (string, error) {
	if pattern == "" || strings.ContainsAny(pattern, `/\`) || strings.Contains(pattern, "..") {
		return "", fmt.Errorf("invalid hook pattern %q", pattern)
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return "", fmt.Errorf("invalid hook pattern %q: %w", pattern, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating hooks dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.%s.sh", pattern, stage))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("hook already exists: %s", path)
	}

	mode := ModeFor(stage)
	script := fmt.Sprintf(scriptTemplate, stage, pattern, mode)
	if mode == ModeTransform {
		script += "\n# Print the (optionally modified) context to pass it on.\necho \"$CONTEXT\"\n"
	}
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return "", fmt.Errorf("writing hook script: %w", err)
	}
	return path, nil
}

// DryRun runs a script once with a sample context and returns what it printed.
func DryRun(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("hook not found: %s", path)
	}
	if info.Mode()&0o111 == 0 {
		return "", fmt.Errorf("hook not executable: %s (run: chmod +x %s)", path, path)
	}
	h, err := parseHookFilename(filepath.Base(path))
	if err != nil {
		return "", err
	}

	h.Path = path
	sample := sampleContext(h.Pattern)
	mode := ModeFor(h.Stage)
	result, err := ExecHandler(h, 0)(sample)
	if err != nil {
		return "", fmt.Errorf("hook execution failed: %w", err)
	}
	if mode == ModeNotify {
		return "notify hook ran (output is ignored)", nil
	}
	data, err := result.JSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// sampleContext builds a plausible context for a pattern. Event patterns get
// the command that emits the event; command patterns get that command with a
// habit check-in attached.
func sampleContext(pattern string) *Context {
	command := pattern
	for _, ev := range Events {
		if matchPattern(pattern, ev.Name) {
			command = ev.Commands[0]
			break
		}
	}
	sample := NewContext(command, []string{"Run"}, map[string]string{"date": "2024-01-05"})
	sample.Emit("habit.logged", map[string]string{"habit": "Run", "status": "DONE", "date": "2024-01-05"})
	if matchPattern(pattern, "goal.momentum") {
		sample.Emit("goal.momentum", map[string]string{"goal": "Run a marathon", "habit": "Run", "date": "2024-01-05"})
	}
	return sample
}
