package ux

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/attendly/attendly/internal/errors"
)

var (
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// PrintError writes err to w in a readable form. Console errors get their
// message and suggestions; anything else prints as-is.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}

	consoleErr, ok := err.(*errors.ConsoleError)
	if !ok {
		fmt.Fprintf(w, "%s\n", errorStyle.Render("Error: "+err.Error()))
		return
	}

	fmt.Fprintf(w, "%s\n", errorStyle.Render("Error: "+consoleErr.Message))
	for _, suggestion := range consoleErr.Suggestions {
		fmt.Fprintf(w, "%s\n", suggestionStyle.Render("  → "+suggestion))
	}
}
