package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"

	"vibrowser/internal/diagnostics"
)

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// printDiagnostics writes every event to stderr, styled by severity, using
// the same "[<severity>] <module>/<stage>: <message>" form
// format_diagnostic produces.
func printDiagnostics(events []diagnostics.DiagnosticEvent) {
	for _, e := range events {
		line := diagnostics.FormatDiagnostic(e)
		switch e.Severity {
		case diagnostics.Warning:
			fmt.Fprintln(os.Stderr, warningStyle.Render(line))
		case diagnostics.Error:
			fmt.Fprintln(os.Stderr, errorStyle.Render(line))
		default:
			fmt.Fprintln(os.Stderr, infoStyle.Render(line))
		}
	}
}
