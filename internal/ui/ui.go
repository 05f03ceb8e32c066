// Package ui holds the terminal styles for command output and TTY detection.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	MutedStyle   = lipgloss.NewStyle().Faint(true)
)

// Interactive reports whether stdin and stdout are both terminals, so
// prompts can be shown.
func Interactive() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Header prints a bold section title
func Header(w io.Writer, title string) {
	fmt.Fprintln(w, HeaderStyle.Render(title))
}

// Success prints a line prefixed with a check mark
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, SuccessStyle.Render("✓")+" "+fmt.Sprintf(format, args...))
}

// Warn prints a line prefixed with an exclamation mark
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, WarnStyle.Render("!")+" "+fmt.Sprintf(format, args...))
}

// Fail prints a line prefixed with a cross
func Fail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, ErrorStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}

// Muted prints a faint line
func Muted(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, MutedStyle.Render(fmt.Sprintf(format, args...)))
}
