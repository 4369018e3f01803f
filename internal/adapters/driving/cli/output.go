package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// Styles for plain command output. Colours are dropped automatically when
// stdout is not a terminal.
var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF9933"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#138808"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5A50A"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func printHeading(cmd *cobra.Command, title string) {
	cmd.Println(headingStyle.Render(title))
}

func printWarning(cmd *cobra.Command, format string, args ...any) {
	cmd.Println(warnStyle.Render("Warning: ") + fmt.Sprintf(format, args...))
}

func printOK(cmd *cobra.Command, format string, args ...any) {
	cmd.Println(okStyle.Render(fmt.Sprintf(format, args...)))
}
