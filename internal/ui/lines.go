package ui

import (
	"fmt"
	"strings"

	"beamgrid/internal/catalog"
	"beamgrid/internal/core"
)

// PanelLines flattens a parameter snapshot into "Label: value" lines with a
// blank line between groups.
func PanelLines(snap core.ParameterSnapshot) []string {
	var out []string
	for i, g := range snap.Groups {
		if i > 0 {
			out = append(out, "")
		}
		for _, p := range g.Params {
			out = append(out, fmt.Sprintf("%s: %s", p.Label, p.Value))
		}
	}
	return out
}

// ToolLines lists every tool with its key, marking the selected one.
func ToolLines(selected catalog.Tool) []string {
	tools := catalog.Tools()
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		mark := " "
		if t.Index == selected.Index {
			mark = ">"
		}
		out = append(out, fmt.Sprintf("%s %s %s", mark, t.Key, t.Name()))
	}
	return out
}

// ToolHint describes the selected tool in one line.
func ToolHint(t catalog.Tool) string {
	return t.Name() + ": " + t.Description()
}

// Wrap breaks s into lines of at most width columns at spaces. Words longer
// than width get a line of their own.
func Wrap(s string, width int) []string {
	words := strings.Fields(s)
	if width <= 0 {
		return []string{strings.Join(words, " ")}
	}
	var out []string
	line := ""
	for _, w := range words {
		switch {
		case line == "":
			line = w
		case len(line)+1+len(w) <= width:
			line += " " + w
		default:
			out = append(out, line)
			line = w
		}
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}

// KeyHelp is the one-line key reference shown under the panel.
const KeyHelp = "1-9 tool  x erase  n/p level  r reset  space pause  q quit"
