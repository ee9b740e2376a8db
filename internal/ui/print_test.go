package ui

import (
	"strings"
	"testing"
	"time"
)

func TestGreet(t *testing.T) {
	at := func(hour int) time.Time { return time.Date(2024, 1, 7, hour, 0, 0, 0, time.UTC) }
	tests := []struct {
		name     string
		now      time.Time
		expected string
	}{
		{"", at(9), "🌱 Good morning!"},
		{"Ada", at(9), "🌱 Good morning, Ada!"},
		{"Ada", at(14), "🌱 Good afternoon, Ada!"},
		{"Ada", at(21), "🌱 Good evening, Ada!"},
		{"Ada", at(2), "🌱 Still up, Ada!"},
	}

	for _, tt := range tests {
		got := Greet(tt.name, tt.now)
		if got != tt.expected {
			t.Errorf("Greet(%q, %d:00) = %q, want %q", tt.name, tt.now.Hour(), got, tt.expected)
		}
	}
}

func TestBar(t *testing.T) {
	DisableColor()
	tests := []struct {
		pct  int
		want string
	}{
		{0, "░░░░░░░░░░"},
		{50, "█████░░░░░"},
		{100, "██████████"},
		{150, "██████████"},
		{-5, "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		if got := Bar(tt.pct, 10); got != tt.want {
			t.Errorf("Bar(%d) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestDisableColor(t *testing.T) {
	DisableColor()
	if !ColorDisabled() {
		t.Fatal("expected color to be disabled")
	}
	if got := Accent.Render("x"); strings.Contains(got, "\x1b[") {
		t.Errorf("styled output still contains ANSI codes: %q", got)
	}
}

func TestIconConstants(t *testing.T) {
	icons := []string{
		IconLeaf, IconFire, IconTarget, IconStar, IconJournal, IconSpark,
		IconLock, IconWarn, IconError, IconOk, IconArrow, IconDot,
	}
	for i, icon := range icons {
		if icon == "" {
			t.Errorf("Icon at index %d is empty", i)
		}
	}
}
