// Package ui holds the ANSI styling shared by CLI output.
package ui

import "os"

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// NoColor disables the helpers below; it follows the NO_COLOR convention.
var NoColor = os.Getenv("NO_COLOR") != ""

func paint(style, s string) string {
	if NoColor {
		return s
	}
	return style + s + ColorReset
}

// Heading renders a section title.
func Heading(s string) string {
	return paint(ColorBold+ColorWhite, s)
}

// Title renders the command banner.
func Title(s string) string {
	return paint(ColorBold+ColorCyan, s)
}

// Command renders a command name or path.
func Command(s string) string {
	return paint(ColorCyan, s)
}

// Placeholder renders an argument the user fills in.
func Placeholder(s string) string {
	return paint(ColorYellow, s)
}

// Flag renders a flag or an example command line.
func Flag(s string) string {
	return paint(ColorGreen, s)
}

// Dim renders descriptions and comments.
func Dim(s string) string {
	return paint(ColorDim, s)
}

// Value renders a highlighted value.
func Value(s string) string {
	return paint(ColorWhite, s)
}

// Bold renders a heading.
func Bold(s string) string {
	return paint(ColorBold, s)
}

// Success renders a positive status.
func Success(s string) string {
	return paint(ColorGreen, s)
}

// Info renders a secondary note.
func Info(s string) string {
	return paint(ColorDim+ColorYellow, s)
}

// Error renders a failure.
func Error(s string) string {
	return paint(ColorRed, s)
}
