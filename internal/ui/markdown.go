package ui

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// maxWrap caps the markdown word-wrap column on wide terminals.
const maxWrap = 100

// IsStdoutTTY returns true when stdout is connected to a terminal.
func IsStdoutTTY() bool {
	return isTerminal(os.Stdout)
}

// IsStdinTTY returns true when stdin is connected to a terminal.
func IsStdinTTY() bool {
	return isTerminal(os.Stdin)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// wrapWidth picks a word-wrap column that fits the terminal.
func wrapWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return min(w-4, maxWrap)
	}
	return maxWrap
}

func newRenderer() (*glamour.TermRenderer, error) {
	style := glamour.WithAutoStyle()
	if ColorDisabled() {
		style = glamour.WithStandardStyle("notty")
	}
	return glamour.NewTermRenderer(style, glamour.WithWordWrap(wrapWidth()))
}

// MarkdownWriter buffers markdown and renders it for the terminal on Flush.
// When raw is set, or the target is not a terminal, writes pass straight
// through and Flush does nothing.
type MarkdownWriter struct {
	out   io.Writer
	buf   bytes.Buffer
	raw   bool
	isTTY bool
}

// NewMarkdownWriter creates a MarkdownWriter targeting out.
func NewMarkdownWriter(out io.Writer, raw bool) *MarkdownWriter {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isTerminal(f)
	}
	return &MarkdownWriter{out: out, raw: raw, isTTY: tty}
}

func (m *MarkdownWriter) passthrough() bool { return m.raw || !m.isTTY }

// Write satisfies io.Writer.
func (m *MarkdownWriter) Write(p []byte) (int, error) {
	if m.passthrough() {
		return m.out.Write(p)
	}
	return m.buf.Write(p)
}

// Flush renders the buffered markdown. If rendering fails the raw text is
// written instead, with a note on stderr.
func (m *MarkdownWriter) Flush() error {
	if m.passthrough() || m.buf.Len() == 0 {
		return nil
	}

	rendered, err := render(m.buf.String())
	if err != nil {
		fmt.Fprintln(os.Stderr, Muted.Render("  (markdown rendering failed, showing raw output)"))
		_, werr := m.out.Write(m.buf.Bytes())
		return werr
	}
	_, err = io.WriteString(m.out, rendered)
	return err
}

func render(md string) (string, error) {
	r, err := newRenderer()
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// RenderMarkdown renders md for the terminal, or returns it unchanged if
// rendering fails.
func RenderMarkdown(md string) string {
	out, err := render(md)
	if err != nil {
		return md
	}
	return out
}
