package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rnwolfe/lifeos/internal/ui"
)

// Option is one entry in a chooser list.
type Option struct {
	// Value is returned to the caller, typically an id.
	Value string
	Label string
	Hint  string
}

// Chooser is a type-to-filter list selector.
type Chooser struct {
	title    string
	options  []Option
	matches  []Option
	query    string
	cursor   int
	offset   int
	rows     int
	chosen   *Option
	canceled bool
}

// NewChooser creates a Chooser showing up to rows options at once.
func NewChooser(title string, options []Option, rows int) *Chooser {
	if rows <= 0 {
		rows = 10
	}
	c := &Chooser{title: title, options: options, rows: rows}
	c.filter()
	return c
}

// Choose shows options full screen and returns the picked one, or nil when
// the user cancels.
func Choose(title string, options []Option) (*Option, error) {
	if len(options) == 0 {
		return nil, nil
	}
	final, err := tea.NewProgram(NewChooser(title, options, 10)).Run()
	if err != nil {
		return nil, fmt.Errorf("chooser: %w", err)
	}
	c := final.(*Chooser)
	if c.canceled {
		return nil, nil
	}
	return c.chosen, nil
}

func (c *Chooser) Init() tea.Cmd { return nil }

func (c *Chooser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	switch km.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		c.canceled = true
		return c, tea.Quit
	case tea.KeyEnter:
		if len(c.matches) > 0 {
			opt := c.matches[c.cursor]
			c.chosen = &opt
		}
		return c, tea.Quit
	case tea.KeyUp, tea.KeyCtrlP:
		c.move(-1)
	case tea.KeyDown, tea.KeyCtrlN:
		c.move(1)
	case tea.KeyBackspace:
		if q := []rune(c.query); len(q) > 0 {
			c.query = string(q[:len(q)-1])
			c.filter()
		}
	case tea.KeyRunes:
		c.query += string(km.Runes)
		c.filter()
	case tea.KeySpace:
		c.query += " "
		c.filter()
	}
	return c, nil
}

func (c *Chooser) View() string {
	var b strings.Builder
	if c.title != "" {
		b.WriteString("  " + ui.Title.Render(c.title) + "\n\n")
	}
	prompt := lipgloss.NewStyle().Foreground(ui.Gold).Bold(true).Render("> ")
	b.WriteString("  " + prompt + c.query + ui.Accent.Render("▎") + "\n\n")

	if len(c.matches) == 0 {
		b.WriteString("  " + ui.Muted.Render("No matches") + "\n")
	}
	end := min(c.offset+c.rows, len(c.matches))
	for i := c.offset; i < end; i++ {
		opt := c.matches[i]
		pointer := "  "
		label := opt.Label
		if i == c.cursor {
			pointer = ui.Accent.Render(ui.IconArrow + " ")
			label = lipgloss.NewStyle().Foreground(ui.Gold).Bold(true).Render(label)
		}
		if opt.Hint != "" {
			label += "  " + ui.Muted.Render(opt.Hint)
		}
		b.WriteString("  " + pointer + label + "\n")
	}

	b.WriteString("\n" + ui.Muted.Render(fmt.Sprintf("  %d/%d · type to filter · enter select · esc cancel",
		len(c.matches), len(c.options))) + "\n")
	return b.String()
}

func (c *Chooser) move(delta int) {
	c.cursor += delta
	c.cursor = max(0, min(c.cursor, len(c.matches)-1))
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.rows {
		c.offset = c.cursor - c.rows + 1
	}
}

func (c *Chooser) filter() {
	c.cursor, c.offset = 0, 0
	c.matches = c.matches[:0]
	if c.query == "" {
		c.matches = append(c.matches, c.options...)
		return
	}
	type hit struct {
		opt   Option
		score int
	}
	var hits []hit
	for _, opt := range c.options {
		if score, ok := matchScore(c.query, opt.Label); ok {
			hits = append(hits, hit{opt, score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	for _, h := range hits {
		c.matches = append(c.matches, h.opt)
	}
}

// matchScore reports whether every rune of query appears in target in order,
// ignoring case. Runs of adjacent matches and matches at the start of a word
// score higher.
func matchScore(query, target string) (int, bool) {
	q := []rune(strings.ToLower(query))
	t := []rune(strings.ToLower(target))
	if len(q) == 0 {
		return 0, true
	}
	qi, score, run := 0, 0, 0
	for ti := 0; ti < len(t) && qi < len(q); ti++ {
		if t[ti] != q[qi] {
			run = 0
			continue
		}
		qi++
		run++
		score += run
		if ti == 0 || strings.ContainsRune(" -_/.", t[ti-1]) {
			score += 2
		}
	}
	return score, qi == len(q)
}
