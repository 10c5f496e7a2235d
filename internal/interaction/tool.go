// Package interaction turns pointer events into shape creation, polygon
// drafting and shape dragging.
package interaction

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTool is returned by ParseTool for an unrecognised name.
var ErrUnknownTool = errors.New("unknown tool")

// Tool is the active drawing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolRectangle
	ToolCircle
	ToolLine
	ToolPolygon
)

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{ToolSelect, ToolRectangle, ToolCircle, ToolLine, ToolPolygon}
}

func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "select"
	case ToolRectangle:
		return "rectangle"
	case ToolCircle:
		return "circle"
	case ToolLine:
		return "line"
	case ToolPolygon:
		return "polygon"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

// creates reports whether the tool builds a shape from a single drag.
func (t Tool) creates() bool {
	return t == ToolRectangle || t == ToolCircle || t == ToolLine
}

// ParseTool converts a tool name. "move" is accepted for the select tool.
func ParseTool(name string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "select", "move":
		return ToolSelect, nil
	case "rectangle", "rect":
		return ToolRectangle, nil
	case "circle":
		return ToolCircle, nil
	case "line":
		return ToolLine, nil
	case "polygon":
		return ToolPolygon, nil
	}
	return ToolSelect, fmt.Errorf("%w: %q", ErrUnknownTool, name)
}
