package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Header prints a bold section title.
func Header(title string) {
	Brand.Println(title)
}

// Table prints a simple aligned table.
func Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Println(strings.TrimRight(headerLine, " "))
	Subtle.Println(strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
}

// Added prints a "+" line in green.
func Added(format string, a ...interface{}) {
	Good.Printf("  + "+format+"\n", a...)
}

// Removed prints a "-" line in red.
func Removed(format string, a ...interface{}) {
	Bad.Printf("  - "+format+"\n", a...)
}

// Changed prints a "~" line in yellow.
func Changed(format string, a ...interface{}) {
	Warn.Printf("  ~ "+format+"\n", a...)
}
