package config

import (
	"slices"
	"sort"
	"testing"
)

func TestValidKeyNames(t *testing.T) {
	names := ValidKeyNames()
	if !sort.StringsAreSorted(names) {
		t.Fatalf("key names not sorted: %v", names)
	}
	for _, want := range []string{
		"ai.model", "ai.provider", "ai.system_instructions",
		"habits.default_type", "habits.heatmap_weeks", "habits.ranking_size",
		"log.debug", "user.name",
	} {
		if !slices.Contains(names, want) {
			t.Errorf("missing key %q", want)
		}
	}
	if _, ok := LookupKey("habits.streak_grace"); ok {
		t.Error("unknown key should not resolve")
	}
}

func TestParseBoolValue(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"YES", true, false},
		{" on ", true, false},
		{"1", true, false},
		{"false", false, false},
		{"No", false, false},
		{"0", false, false},
		{"off", false, false},
		{"maybe", false, true},
		{"", false, true},
		{"2", false, true},
	}
	for _, tt := range tests {
		got, err := ParseBoolValue(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBoolValue(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseBoolValue(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestKeyEntry_SetGetUnset(t *testing.T) {
	tests := []struct {
		key        string
		set        string
		want       string
		afterUnset string
	}{
		{"user.name", "Ada", "Ada", ""},
		{"ai.provider", "OpenRouter", "openrouter", "claude"},
		{"ai.model", "gpt-4o-mini", "gpt-4o-mini", DefaultModel},
		{"ai.system_instructions", "Be brief.", "Be brief.", ""},
		{"habits.default_type", " QUIT ", "quit", "build"},
		{"habits.heatmap_weeks", "52", "52", "26"},
		{"habits.heatmap_weeks", "0", "0", "26"},
		{"habits.ranking_size", "5", "5", "3"},
		{"log.debug", "yes", "true", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.set, func(t *testing.T) {
			cfg := defaultConfig()
			entry, ok := LookupKey(tt.key)
			if !ok {
				t.Fatalf("%s not registered", tt.key)
			}
			if err := entry.Set(cfg, tt.set); err != nil {
				t.Fatalf("Set(%q): %v", tt.set, err)
			}
			if got := entry.Get(cfg); got != tt.want {
				t.Errorf("Get = %q, want %q", got, tt.want)
			}
			entry.Unset(cfg)
			if got := entry.Get(cfg); got != tt.afterUnset {
				t.Errorf("after Unset = %q, want %q", got, tt.afterUnset)
			}
		})
	}
}

func TestKeyEntry_SetRejects(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"ai.provider", "gemini"},
		{"habits.default_type", "maintain"},
		{"habits.heatmap_weeks", "-1"},
		{"habits.heatmap_weeks", "1.5"},
		{"habits.ranking_size", "0"},
		{"habits.ranking_size", "top"},
		{"log.debug", "notabool"},
	}
	for _, tt := range tests {
		cfg := defaultConfig()
		entry, _ := LookupKey(tt.key)
		before := entry.Get(cfg)
		if err := entry.Set(cfg, tt.value); err == nil {
			t.Errorf("%s = %q: expected error", tt.key, tt.value)
		}
		if got := entry.Get(cfg); got != before {
			t.Errorf("%s changed to %q after a rejected set", tt.key, got)
		}
	}
}

func TestSchemaKeys_Complete(t *testing.T) {
	cfg := defaultConfig()
	for key, entry := range SchemaKeys {
		if entry.Desc == "" {
			t.Errorf("%s has no description", key)
		}
		switch entry.Type {
		case KeyTypeString, KeyTypeInt, KeyTypeBool:
		default:
			t.Errorf("%s has unknown type %q", key, entry.Type)
		}
		entry.Unset(cfg)
		if got := entry.Get(cfg); got != entry.DefaultStr {
			t.Errorf("%s unset to %q, documented default %q", key, got, entry.DefaultStr)
		}
		if err := entry.Set(cfg, entry.DefaultStr); err != nil {
			t.Errorf("%s rejects its own default %q: %v", key, entry.DefaultStr, err)
		}
	}
}

func TestKeyEntry_RoundTripThroughFile(t *testing.T) {
	setupTestXDG(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	weeks, _ := LookupKey("habits.heatmap_weeks")
	name, _ := LookupKey("user.name")
	if err := weeks.Set(cfg, "12"); err != nil {
		t.Fatal(err)
	}
	if err := name.Set(cfg, "Ada"); err != nil {
		t.Fatal(err)
	}
	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if weeks.Get(loaded) != "12" || name.Get(loaded) != "Ada" {
		t.Errorf("round trip = weeks %s, name %q", weeks.Get(loaded), name.Get(loaded))
	}
}
