// Package style maps question status and difficulty values to their
// presentation: an icon name and a color class.
package style

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Style is the icon and color class for a value. The zero Style means "unstyled".
type Style struct {
	Icon  string
	Color string
}

const (
	IconTodo      = "circle"
	IconSolved    = "circle-check"
	IconAttempted = "circle-dot"
)

var statusStyles = map[string]Style{
	"TODO":      {Icon: IconTodo, Color: "text-primary"},
	"SOLVED":    {Icon: IconSolved, Color: "text-emerald-700"},
	"ATTEMPTED": {Icon: IconAttempted, Color: "text-orange-600"},
}

var difficultyColors = map[string]string{
	"EASY":   "text-teal-700",
	"MEDIUM": "text-yellow-700",
	"HARD":   "text-red-600",
}

// StatusStyle returns the style of a status, or the zero Style for unknown values.
func StatusStyle(status string) Style {
	return statusStyles[status]
}

// DifficultyColor returns the color class of a difficulty, or "".
func DifficultyColor(difficulty string) string {
	return difficultyColors[difficulty]
}

// Label title-cases value: each word gets an upper-case first letter and a
// lower-case rest, so a single-word enum like "MEDIUM" becomes "Medium".
func Label(value string) string {
	// cases.Caser is stateful, so one per call.
	return cases.Title(language.Und).String(value)
}
