package config

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeInt    KeyType = "int"
	KeyTypeBool   KeyType = "bool"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type (string, int, bool).
	Type KeyType
	// Desc is a human-readable description shown in `lifeos config list`.
	Desc string
	// DefaultStr is the string representation of the default/zero value.
	DefaultStr string

	get   func(*Config) string
	set   func(cfg *Config, value string) error
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on type mismatch.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

// Providers are the AI provider names ai.provider accepts.
var Providers = []string{"claude", "openai", "groq", "openrouter"}

// SchemaKeys is the authoritative registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = map[string]*KeyEntry{
	"user.name": {
		Type:       KeyTypeString,
		Desc:       "Display name used in greetings",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.User.Name },
		set:        func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
		unset:      func(cfg *Config) { cfg.User.Name = "" },
	},
	"ai.provider": {
		Type:       KeyTypeString,
		Desc:       "AI provider (claude, openai, groq, openrouter)",
		DefaultStr: "claude",
		get:        func(cfg *Config) string { return cfg.AI.Provider },
		set: func(cfg *Config, v string) error {
			v = strings.ToLower(strings.TrimSpace(v))
			if !slices.Contains(Providers, v) {
				return fmt.Errorf("unknown provider %q (use %s)", v, strings.Join(Providers, ", "))
			}
			cfg.AI.Provider = v
			return nil
		},
		unset: func(cfg *Config) { cfg.AI.Provider = "claude" },
	},
	"ai.model": {
		Type:       KeyTypeString,
		Desc:       "AI model name",
		DefaultStr: DefaultModel,
		get:        func(cfg *Config) string { return cfg.AI.Model },
		set:        func(cfg *Config, v string) error { cfg.AI.Model = v; return nil },
		unset:      func(cfg *Config) { cfg.AI.Model = DefaultModel },
	},
	"ai.system_instructions": {
		Type:       KeyTypeString,
		Desc:       "Extra instructions appended to every insight prompt",
		DefaultStr: "",
		get:        func(cfg *Config) string { return cfg.AI.SystemInstructions },
		set:        func(cfg *Config, v string) error { cfg.AI.SystemInstructions = v; return nil },
		unset:      func(cfg *Config) { cfg.AI.SystemInstructions = "" },
	},
	"habits.default_type": {
		Type:       KeyTypeString,
		Desc:       "Type for new habits when --type is omitted (build, quit)",
		DefaultStr: "build",
		get:        func(cfg *Config) string { return cfg.Habits.DefaultType },
		set: func(cfg *Config, v string) error {
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "build", "quit":
				cfg.Habits.DefaultType = strings.ToLower(strings.TrimSpace(v))
				return nil
			}
			return fmt.Errorf("invalid value %q for habits.default_type (use build or quit)", v)
		},
		unset: func(cfg *Config) { cfg.Habits.DefaultType = "build" },
	},
	"habits.heatmap_weeks": {
		Type:       KeyTypeInt,
		Desc:       "Trailing weeks shown by `lifeos heatmap` (0 = all)",
		DefaultStr: "26",
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Habits.HeatmapWeeks) },
		set: func(cfg *Config, v string) error {
			n, err := parseNonNegative(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for habits.heatmap_weeks: %w", v, err)
			}
			cfg.Habits.HeatmapWeeks = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Habits.HeatmapWeeks = 26 },
	},
	"habits.ranking_size": {
		Type:       KeyTypeInt,
		Desc:       "Habits shown on the leaderboard in `lifeos stats`",
		DefaultStr: "3",
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Habits.RankingSize) },
		set: func(cfg *Config, v string) error {
			n, err := parseNonNegative(v)
			if err != nil || n == 0 {
				return fmt.Errorf("invalid value %q for habits.ranking_size: must be a positive integer", v)
			}
			cfg.Habits.RankingSize = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Habits.RankingSize = 3 },
	},
	"log.debug": {
		Type:       KeyTypeBool,
		Desc:       "Write debug logs and echo them to stderr",
		DefaultStr: "false",
		get:        func(cfg *Config) string { return strconv.FormatBool(cfg.Log.Debug) },
		set: func(cfg *Config, v string) error {
			b, err := ParseBoolValue(v)
			if err != nil {
				return fmt.Errorf("invalid value %q for log.debug: %w", v, err)
			}
			cfg.Log.Debug = b
			return nil
		},
		unset: func(cfg *Config) { cfg.Log.Debug = false },
	},
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}

// ParseBoolValue accepts common boolean string representations.
// Valid truthy values: true, 1, yes, on.
// Valid falsy values: false, 0, no, off.
func ParseBoolValue(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean: %q (use one of: true/false, 1/0, yes/no, on/off)", s)
	}
}

func parseNonNegative(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("not an integer")
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}
