package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"piper/internal/svgdoc"
)

var (
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorGray   = lipgloss.Color("245")
	colorWhite  = lipgloss.Color("255")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorGray)
	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

func issueIcon(l svgdoc.Level) string {
	switch l {
	case svgdoc.LevelError:
		return styleError.Render(iconError)
	case svgdoc.LevelWarning:
		return styleWarning.Render(iconWarning)
	default:
		return styleDim.Render(iconInfo)
	}
}

func printIssues(w io.Writer, name string, issues []svgdoc.Issue) {
	fmt.Fprintln(w, styleTitle.Render(name))
	for _, is := range issues {
		fmt.Fprintf(w, "  %s %s\n", issueIcon(is.Level), is.Message)
	}
	if !svgdoc.HasErrors(issues) {
		fmt.Fprintf(w, "  %s %s\n", styleSuccess.Render(iconSuccess), "ok")
	}
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintf(w, "%s %s\n", styleDim.Render(key+":"), value)
}

func printFile(w io.Writer, path string) {
	fmt.Fprintf(w, "  %s %s\n", styleDim.Render(iconArrow), path)
}
