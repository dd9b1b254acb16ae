package config

import (
	"fmt"
	"image/color"
	"math/rand"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// RandomColor is the colour value that picks a random hue per particle.
const RandomColor = "random"

// Color is a colour option. It accepts "#rrggbb"/"#rgb" hex strings and
// "random" (a fresh saturated hue for every particle).
type Color struct {
	Value  string
	RGBA   color.RGBA
	Random bool
}

// ParseColor parses a colour option value.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{RGBA: color.RGBA{R: 255, G: 255, B: 255, A: 255}}, nil
	}
	if strings.EqualFold(s, RandomColor) {
		return Color{Value: RandomColor, Random: true}, nil
	}

	hex := s
	if len(hex) == 4 && strings.HasPrefix(hex, "#") {
		// #rgb → #rrggbb
		hex = fmt.Sprintf("#%c%c%c%c%c%c", hex[1], hex[1], hex[2], hex[2], hex[3], hex[3])
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return Color{Value: s, RGBA: color.RGBA{R: r, G: g, B: b, A: 255}}, nil
}

// MustColor parses s and panics on error. Only for literals in defaults.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve returns the concrete colour for one particle.
func (c Color) Resolve(rng *rand.Rand) color.RGBA {
	if !c.Random {
		return c.RGBA
	}
	hue := 0.0
	if rng != nil {
		hue = rng.Float64() * 360
	} else {
		hue = rand.Float64() * 360
	}
	r, g, b := colorful.Hsl(hue, 1, 0.5).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// UnmarshalYAML parses a colour string.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML writes the original colour string.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.Value, nil
}

// ModeList is a list of mode names; a single string is accepted as a one-element list.
type ModeList []string

// Has reports whether mode is in the list.
func (m ModeList) Has(mode string) bool {
	for _, item := range m {
		if item == mode {
			return true
		}
	}
	return false
}

// UnmarshalYAML accepts "attract" or [attract, grab].
func (m *ModeList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "" {
			*m = nil
			return nil
		}
		*m = ModeList{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*m = list
		return nil
	}
	return fmt.Errorf("line %d: mode must be a string or a list", node.Line)
}
