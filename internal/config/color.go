package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ColorNames lists the eight terminal base colors in ANSI order.
var ColorNames = []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// Color is either one of the terminal base colors, optionally bright,
// or a 24-bit RGB value when Name is empty.
type Color struct {
	Name    string
	Bright  bool
	R, G, B uint8
}

// IsRGB reports whether the color is a true color value.
func (c Color) IsRGB() bool { return c.Name == "" }

// Index returns the ANSI offset of a named color, or -1.
func (c Color) Index() int {
	for i, n := range ColorNames {
		if n == c.Name {
			return i
		}
	}
	return -1
}

func (c Color) String() string {
	switch {
	case c.IsRGB():
		return fmt.Sprintf("[%d, %d, %d]", c.R, c.G, c.B)
	case c.Bright:
		return "bright " + c.Name
	default:
		return c.Name
	}
}

// ParseColor parses a color name such as "Blue", "purple" or "bright red".
func ParseColor(s string) (Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	var c Color
	if rest, ok := strings.CutPrefix(name, "bright "); ok {
		c.Bright = true
		name = strings.TrimSpace(rest)
	}
	if name == "purple" {
		name = "magenta"
	}
	c.Name = name
	if c.Index() < 0 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	return c, nil
}

func parseColorNode(node *yaml.Node) (Color, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		return ParseColor(node.Value)
	case yaml.SequenceNode:
		var rgb []int
		if err := node.Decode(&rgb); err != nil || len(rgb) != 3 {
			return Color{}, fmt.Errorf("invalid rgb color at line %d", node.Line)
		}
		for _, v := range rgb {
			if v < 0 || v > 255 {
				return Color{}, fmt.Errorf("rgb component %d out of range", v)
			}
		}
		return Color{R: uint8(rgb[0]), G: uint8(rgb[1]), B: uint8(rgb[2])}, nil
	default:
		return Color{}, fmt.Errorf("invalid color at line %d", node.Line)
	}
}
