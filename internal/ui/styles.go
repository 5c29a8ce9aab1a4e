package ui

import (
	"fmt"
	"os"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent = 74  // blue
	colorCmd    = 250 // light gray
	colorMuted  = 245 // medium gray
	colorWarn   = 214 // orange
	colorError  = 203 // red
	colorOK     = 114 // green
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render(colorCmd, s) }

// RenderPriority colors a priority name: high red, medium orange, low gray.
func RenderPriority(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return render(colorError, string(p))
	case model.PriorityMedium:
		return render(colorWarn, string(p))
	default:
		return render(colorMuted, string(p))
	}
}

// RenderDue renders a due badge for status, or "" when there is none to show.
func RenderDue(status model.DueStatus) string {
	switch status {
	case model.DueOverdue:
		return render(colorError, "overdue")
	case model.DueToday:
		return render(colorWarn, "due today")
	case model.DueTomorrow:
		return render(colorOK, "due tomorrow")
	}
	return ""
}

// hexRenderer emits label and column colors. Whether to color at all is
// decided by ShouldUseColor, so the profile is pinned to truecolor.
var hexRenderer = func() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.TrueColor)
	return r
}()

// RenderHex returns s in a "#rrggbb" truecolor. Invalid colors leave s plain.
func RenderHex(hex, s string) string {
	if noColor || !model.IsHexColor(hex) {
		return s
	}
	if len(hex) == 4 {
		hex = string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	return hexRenderer.NewStyle().Foreground(lipgloss.Color(hex)).Render(s)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
