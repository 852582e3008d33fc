package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Say prints a plain line.
func (u *UI) Say(msg string) {
	u.println(msg)
}

// Sayf prints a formatted line.
func (u *UI) Sayf(format string, args ...any) {
	u.println(fmt.Sprintf(format, args...))
}

// Success prints a success message: "  ✓ msg" in green (TTY) or "  ok msg"
// (non-TTY).
func (u *UI) Success(msg string) {
	if u.isTTY {
		style := u.renderer.NewStyle().Foreground(lipgloss.Color("2"))
		u.println(style.Render("  ✓ " + msg))
	} else {
		u.println("  ok " + msg)
	}
}

// Keyval prints an indented, aligned key/value pair.
func (u *UI) Keyval(key, value string) {
	padded := fmt.Sprintf("%-12s", key)
	if u.isTTY {
		style := u.renderer.NewStyle().Bold(true)
		u.println("  " + style.Render(padded) + value)
	} else {
		u.println("  " + padded + value)
	}
}

// Warn prints a warning message to errOut.
func (u *UI) Warn(msg string) {
	if u.isTTY {
		prefix := u.renderer.NewStyle().Foreground(lipgloss.Color("3")).Render("warning:")
		_, _ = fmt.Fprintf(u.errOut, "%s %s\n", prefix, msg)
	} else {
		_, _ = fmt.Fprintln(u.errOut, "warning: "+msg)
	}
}

// Error prints an error message: "error: msg" to errOut.
// Only the "error:" prefix is styled to prevent lipgloss from mangling
// multi-line message bodies.
func (u *UI) Error(msg string) {
	if u.isTTY {
		prefix := u.renderer.NewStyle().Foreground(lipgloss.Color("1")).Render("error:")
		_, _ = fmt.Fprintf(u.errOut, "%s %s\n", prefix, msg)
	} else {
		_, _ = fmt.Fprintln(u.errOut, "error: "+msg)
	}
}

// Green renders s in green when the output is a terminal. Used for
// service container names and created paths.
func (u *UI) Green(s string) string {
	return u.color(s, "2")
}

// Cyan renders s in cyan when the output is a terminal. Used for
// workspace container names.
func (u *UI) Cyan(s string) string {
	return u.color(s, "6")
}

// Blue renders s in blue when the output is a terminal. Used for
// workspace URLs and prerequisite hints.
func (u *UI) Blue(s string) string {
	return u.color(s, "4")
}

// Red renders s in red when the output is a terminal.
func (u *UI) Red(s string) string {
	return u.color(s, "1")
}

func (u *UI) color(s, c string) string {
	if !u.isTTY {
		return s
	}
	return u.renderer.NewStyle().Foreground(lipgloss.Color(c)).Render(s)
}

// DecorateHelp dims a command's help text and appends its unmet
// prerequisites, each quoted and highlighted. With no requirements the
// text is returned untouched.
func (u *UI) DecorateHelp(text string, requirements []string) string {
	if len(requirements) == 0 {
		return text
	}

	if u.isTTY {
		text = u.renderer.NewStyle().Faint(true).Render(text)
	}

	quoted := make([]string, len(requirements))
	for i, req := range requirements {
		quoted[i] = "'" + u.Blue(req) + "'"
	}
	return text + " ( " + strings.Join(quoted, " ") + " )"
}

// println writes a line to out, discarding errors (not recoverable in CLI
// output).
func (u *UI) println(msg string) {
	_, _ = fmt.Fprintln(u.out, msg)
}
