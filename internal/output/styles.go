package output

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette: named constants for all ANSI 256 colors used in the CLI.
var (
	// ColorCyan is used for identifiable nouns: task names, bundle targets.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for written files, sizes and requesting paths.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for warning detail.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for error detail.
	ColorRed = lipgloss.Color("196")

	// ColorMagenta is used for timings.
	ColorMagenta = lipgloss.Color("13")

	// ColorGrey is used for hashes, reason types and placeholders.
	ColorGrey = lipgloss.Color("245")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	StyleBold    = lipgloss.NewStyle().Bold(true)
	StyleNoun    = lipgloss.NewStyle().Foreground(ColorCyan)
	StyleGreen   = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow  = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed     = lipgloss.NewStyle().Foreground(ColorRed)
	StyleMagenta = lipgloss.NewStyle().Foreground(ColorMagenta)
	StyleGrey    = lipgloss.NewStyle().Foreground(ColorGrey)
)

// Bold renders v in bold.
func Bold(v any) string { return StyleBold.Render(fmt.Sprint(v)) }

// Green renders v in green.
func Green(v any) string { return StyleGreen.Render(fmt.Sprint(v)) }

// Yellow renders v in yellow.
func Yellow(v any) string { return StyleYellow.Render(fmt.Sprint(v)) }

// Red renders v in red.
func Red(v any) string { return StyleRed.Render(fmt.Sprint(v)) }

// Magenta renders v in magenta.
func Magenta(v any) string { return StyleMagenta.Render(fmt.Sprint(v)) }

// Grey renders v in grey.
func Grey(v any) string { return StyleGrey.Render(fmt.Sprint(v)) }

// Noun renders v as an identifiable noun (task or target name).
func Noun(v any) string { return StyleNoun.Render(fmt.Sprint(v)) }

// FormatCheckmark renders a green checkmark with a message for stdout output.
func FormatCheckmark(msg string) string {
	check := lipgloss.NewStyle().Foreground(ColorGreen).Render("✔")
	return check + " " + msg
}

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
