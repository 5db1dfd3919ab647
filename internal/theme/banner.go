package theme

import (
	"fmt"
)

const (
	cyan    = "\033[36m"
	green   = "\033[32m"
	red     = "\033[31m"
	magenta = "\033[35m"
	reset   = "\033[0m"
)

// Banner returns the CLI banner.
func Banner() string {
	art := "" +
		magenta + "  ┌─────────────────────────┐\n" + reset +
		magenta + "  │" + reset + cyan + "  ▲ tutorly  ♥  ✎  ▼   " + reset + magenta + " │\n" + reset +
		magenta + "  └─────────────────────────┘\n" + reset +
		"   votes, likes and comments for your tutorial site\n"
	return art
}

// PrintBanner prints the banner to stdout.
func PrintBanner() {
	fmt.Print(Banner())
}

// Notice styles a notification line: green check or red cross.
func Notice(failure bool, msg string) string {
	if failure {
		return red + "✗ " + reset + msg
	}
	return green + "✓ " + reset + msg
}
