// Package hook runs user scripts around lifeos commands.
//
// A wrapped command passes through prevalidate → preexec → (command) →
// postexec → notify. Transform hooks may rewrite the context; notify hooks
// only observe it. Commands publish domain events (a habit logged, goal
// momentum) into the context so notify scripts can react to them. With no
// hooks registered the wrapper calls straight through.
package hook

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"time"
)

// Stage identifies when a hook runs in the pipeline.
type Stage string

const (
	StagePrevalidate Stage = "prevalidate"
	StagePreexec     Stage = "preexec"
	StagePostexec    Stage = "postexec"
	StageNotify      Stage = "notify"
)

// AllStages is the execution order for the pipeline.
var AllStages = []Stage{StagePrevalidate, StagePreexec, StagePostexec, StageNotify}

// Mode determines how a hook interacts with the pipeline.
type Mode string

const (
	ModeTransform Mode = "transform"
	ModeNotify    Mode = "notify"
)

// ModeFor returns the mode scripts at a stage run in.
func ModeFor(s Stage) Mode {
	if s == StageNotify {
		return ModeNotify
	}
	return ModeTransform
}

// Context carries data through the hook pipeline.
type Context struct {
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Flags   map[string]string `json:"flags"`
	// Events holds what the command did, keyed by event name
	// (e.g. "habit.logged", "goal.momentum").
	Events    map[string]any `json:"events,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// NewContext creates a Context for the given command invocation.
func NewContext(command string, args []string, flags map[string]string) *Context {
	if args == nil {
		args = []string{}
	}
	if flags == nil {
		flags = map[string]string{}
	}
	return &Context{
		Command:   command,
		Args:      args,
		Flags:     flags,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Emit records an event on the context.
func (c *Context) Emit(name string, payload any) {
	if c.Events == nil {
		c.Events = make(map[string]any)
	}
	c.Events[name] = payload
}

// EventNames returns the emitted event names in sorted order.
func (c *Context) EventNames() []string {
	return slices.Sorted(maps.Keys(c.Events))
}

// JSON serializes the context for passing to hook executables.
func (c *Context) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// ParseContext deserializes a Context from JSON.
func ParseContext(data []byte) (*Context, error) {
	var ctx Context
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("parsing hook context: %w", err)
	}
	return &ctx, nil
}

// Hook is a single registration.
type Hook struct {
	// Pattern matches dotted command names ("log", "habit.*", "*") and, for
	// notify hooks, event names ("goal.momentum").
	Pattern string
	Stage   Stage
	Mode    Mode
	Name    string
	// Source says where the hook came from, e.g. "user".
	Source  string
	Handler Handler
	// Timeout of zero means the mode default.
	Timeout time.Duration
}

// Handler runs a hook. Transform handlers may return a modified context.
type Handler func(ctx *Context) (*Context, error)

// Default timeouts per mode.
const (
	DefaultTransformTimeout = 5 * time.Second
	DefaultNotifyTimeout    = 30 * time.Second
)
