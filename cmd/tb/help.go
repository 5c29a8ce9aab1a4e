package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/ANUPAM4545/taskboard-pro/internal/model"
	"github.com/ANUPAM4545/taskboard-pro/internal/ui"
	"github.com/spf13/cobra"
)

// boardSections are the command groups registered on the root command. They
// are accented; Cobra's own headers (Usage:, Flags:, ...) are not.
var boardSections = map[string]bool{
	"Tasks:":  true,
	"Labels:": true,
	"Views:":  true,
	"System:": true,
}

var (
	// Unindented line ending with ":".
	reHeader = regexp.MustCompile(`(?m)^([A-Z][^\n]*:)[ \t]*$`)

	// "  add         Add a task": two-space indent, name, two or more spaces.
	reCommandLine = regexp.MustCompile(`(?m)^(  )([a-z][\w-]*)(  +)`)

	// A flag line: indented, optional shorthand, then --name.
	reFlagLine = regexp.MustCompile(`(?m)^[ \t]+(?:-\w, )?--[^\n]*$`)

	// The value placeholder pflag prints after a flag name.
	reFlagValue = regexp.MustCompile(`(--[\w-]+ )(stringArray|strings|string|int64|int|uint|duration)\b`)

	rePriorityWord = regexp.MustCompile(`\b(low|medium|high)\b`)
	reDateLayout   = regexp.MustCompile(`YYYY-MM-DD`)
	reDefault      = regexp.MustCompile(`\(default [^)]*\)`)
)

// colorizedHelpFunc returns a Cobra help function that colors the default
// usage text when the terminal supports it.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if !ui.ShouldUseColor() {
			_ = cmd.Usage()
			return
		}
		orig := cmd.OutOrStdout()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(orig)
		fmt.Fprint(orig, colorizeHelpOutput(buf.String()))
	}
}

// colorizeHelpOutput styles tb's usage text: board command groups in the
// accent color, command names, and within flag lines the value type, priority
// names in their badge colors, date placeholders and defaults.
func colorizeHelpOutput(s string) string {
	s = reHeader.ReplaceAllStringFunc(s, func(h string) string {
		h = strings.TrimRight(h, " \t")
		if boardSections[h] {
			return ui.RenderAccent(h)
		}
		return ui.RenderCommand(h)
	})
	s = reCommandLine.ReplaceAllString(s, "${1}"+ui.RenderCommand("${2}")+"${3}")
	return reFlagLine.ReplaceAllStringFunc(s, colorizeFlagLine)
}

func colorizeFlagLine(line string) string {
	line = reFlagValue.ReplaceAllString(line, "${1}"+ui.RenderMuted("${2}"))
	line = rePriorityWord.ReplaceAllStringFunc(line, func(w string) string {
		return ui.RenderPriority(model.Priority(w))
	})
	line = reDateLayout.ReplaceAllStringFunc(line, ui.RenderAccent)
	return reDefault.ReplaceAllStringFunc(line, ui.RenderMuted)
}
