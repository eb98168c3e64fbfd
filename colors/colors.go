package colors

import "github.com/fatih/color"

var (
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Blue   = color.New(color.FgBlue).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()

	// Highlight marks today's date in terminal calendars
	Highlight = color.New(color.FgBlack, color.BgYellow).SprintFunc()
	Birthday  = color.New(color.FgMagenta, color.Bold).SprintFunc()
)
