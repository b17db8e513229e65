// Package ui renders command output and interactive prompts.
package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rickylabs/scriptvault/internal/safety"
	"github.com/rickylabs/scriptvault/internal/store"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorInfo)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
)

func Title(s string) string   { return titleStyle.Render(s) }
func Success(s string) string { return successStyle.Render(s) }
func Error(s string) string   { return errorStyle.Render(s) }
func Warning(s string) string { return warningStyle.Render(s) }
func Muted(s string) string   { return mutedStyle.Render(s) }

// IsInteractive reports whether stdin and stdout are both terminals.
// Prompts are only rendered interactively; otherwise the caller falls
// back to its non-interactive default.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

// ConfirmRisky warns about the matched danger patterns and asks the
// user to confirm. Non-interactive sessions decline: a risky script
// only runs unattended with an explicit --yes.
func ConfirmRisky(script store.Script, verdict safety.Verdict) (bool, error) {
	fmt.Fprintln(os.Stderr, Warning("warning: this script contains potentially dangerous commands"))
	for _, m := range verdict.Matches {
		fmt.Fprintf(os.Stderr, "  %s %s\n", Warning("["+m.PatternID+"]"), m.Explanation)
	}

	if !IsInteractive() {
		fmt.Fprintln(os.Stderr, Muted("non-interactive session: declining risky run (use --yes to override)"))
		return false, nil
	}

	ok := false
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Run %q anyway?", script.Name)).
			Affirmative("Run it").
			Negative("Cancel").
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// Confirm asks a plain yes/no question. Non-interactive sessions get
// the provided default.
func Confirm(title string, nonInteractiveDefault bool) (bool, error) {
	if !IsInteractive() {
		return nonInteractiveDefault, nil
	}
	ok := nonInteractiveDefault
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Value(&ok),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return ok, nil
}

// FormatTags renders a tag set for display.
func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return Muted("-")
	}
	return strings.Join(tags, ", ")
}
