package catalog

import (
	"errors"
	"fmt"

	"beamgrid/internal/core"
)

// ErrUnknownToolKind reports a tool index or key with no mapped component.
var ErrUnknownToolKind = errors.New("unknown tool")

// Tool binds a keyboard shortcut to a placeable kind.
type Tool struct {
	Index       int
	Key         string
	Kind        core.Kind
	Orientation int
	Eraser      bool
}

// Name returns the display name shown in the tool indicator.
func (t Tool) Name() string {
	if t.Eraser {
		return "Eraser"
	}
	if d, ok := byKind[t.Kind]; ok {
		return d.Name
	}
	return string(t.Kind)
}

// Description returns the longer help text for the tool.
func (t Tool) Description() string {
	if t.Eraser {
		return "Removes a placed component"
	}
	return byKind[t.Kind].Desc
}

// EraserIndex is the tool index of the eraser.
const EraserIndex = 0

var tools = []Tool{
	{Index: EraserIndex, Key: "x", Eraser: true},
	{Index: 1, Key: "1", Kind: Mirror, Orientation: Slash},
	{Index: 2, Key: "2", Kind: Splitter, Orientation: Slash},
	{Index: 3, Key: "3", Kind: FilterRed},
	{Index: 4, Key: "4", Kind: FilterGreen},
	{Index: 5, Key: "5", Kind: FilterBlue},
	{Index: 6, Key: "6", Kind: Diode, Orientation: int(core.DirRight)},
	{Index: 7, Key: "7", Kind: Glass},
	{Index: 8, Key: "8", Kind: Prism, Orientation: int(core.DirRight)},
	{Index: 9, Key: "9", Kind: Wall},
}

// Tools returns the tool table ordered by index.
func Tools() []Tool {
	out := make([]Tool, len(tools))
	copy(out, tools)
	return out
}

// DefaultTool is selected whenever a level loads.
func DefaultTool() Tool { return tools[1] }

// ToolByIndex resolves a tool by its numeric index.
func ToolByIndex(idx int) (Tool, error) {
	for _, t := range tools {
		if t.Index == idx {
			return t, nil
		}
	}
	return Tool{}, fmt.Errorf("tool index %d: %w", idx, ErrUnknownToolKind)
}

// ToolByKey resolves a tool by its keyboard shortcut. "delete" is an alias
// for the eraser.
func ToolByKey(key string) (Tool, error) {
	if key == "delete" {
		key = "x"
	}
	for _, t := range tools {
		if t.Key == key {
			return t, nil
		}
	}
	return Tool{}, fmt.Errorf("tool key %q: %w", key, ErrUnknownToolKind)
}
