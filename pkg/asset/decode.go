package asset

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Length
// =============================================================================

// Length is a pixel count or a percentage of a reference dimension.
// It decodes from a number (12), a numeric string ("12") or a percentage
// string ("10%").
type Length struct {
	Value   float64
	Percent bool
}

// Px returns a pixel Length.
func Px(v int) *Length { return &Length{Value: float64(v)} }

// Pct returns a percentage Length.
func Pct(v float64) *Length { return &Length{Value: v, Percent: true} }

// ParseLength parses "12", "12.5" or "10%".
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	pct := strings.HasSuffix(s, "%")
	num := strings.TrimSpace(strings.TrimSuffix(s, "%"))
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Length{}, fmt.Errorf("invalid length %q", s)
	}
	if v < 0 {
		return Length{}, fmt.Errorf("negative length %q", s)
	}
	return Length{Value: v, Percent: pct}, nil
}

// String formats the length the way it is written in configs.
func (l Length) String() string {
	s := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Percent {
		return s + "%"
	}
	return s
}

// UnmarshalJSON accepts a number or a string.
func (l *Length) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		parsed, err := ParseLength(s)
		if err != nil {
			return err
		}
		*l = parsed
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("invalid length %s", b)
	}
	if v < 0 {
		return fmt.Errorf("negative length %s", b)
	}
	*l = Length{Value: v}
	return nil
}

// MarshalJSON writes pixels as a number and percentages as a string.
func (l Length) MarshalJSON() ([]byte, error) {
	if l.Percent {
		return json.Marshal(l.String())
	}
	return json.Marshal(l.Value)
}

// UnmarshalYAML accepts any scalar.
func (l *Length) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: length must be a number or percentage", node.Line)
	}
	parsed, err := ParseLength(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*l = parsed
	return nil
}

// MarshalYAML writes the config notation.
func (l Length) MarshalYAML() (any, error) {
	if l.Percent {
		return l.String(), nil
	}
	return l.Value, nil
}

// UnmarshalTOML accepts integers, floats and strings.
func (l *Length) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case int64:
		if x < 0 {
			return fmt.Errorf("negative length %d", x)
		}
		*l = Length{Value: float64(x)}
	case float64:
		if x < 0 {
			return fmt.Errorf("negative length %v", x)
		}
		*l = Length{Value: x}
	case string:
		parsed, err := ParseLength(x)
		if err != nil {
			return err
		}
		*l = parsed
	default:
		return fmt.Errorf("invalid length %v", v)
	}
	return nil
}

// MarshalTOML writes pixels as a number and percentages as a string.
func (l Length) MarshalTOML() ([]byte, error) {
	if l.Percent {
		return []byte(strconv.Quote(l.String())), nil
	}
	return []byte(strconv.FormatFloat(l.Value, 'f', -1, 64)), nil
}

// =============================================================================
// Color
// =============================================================================

// RGBA is a structured color with an alpha in 0..1. A missing alpha
// decodes as 1.
type RGBA struct {
	R     uint8   `yaml:"r" toml:"r" json:"r"`
	G     uint8   `yaml:"g" toml:"g" json:"g"`
	B     uint8   `yaml:"b" toml:"b" json:"b"`
	Alpha float64 `yaml:"alpha" toml:"alpha" json:"alpha"`
}

// Color is a background specification: either a hex string or an RGBA
// object. Exactly one of Hex and RGBA is set after decoding.
type Color struct {
	Hex  string
	RGBA *RGBA
}

// Hex returns a Color from a hex string.
func Hex(s string) *Color { return &Color{Hex: s} }

// IsZero reports whether no color was specified.
func (c *Color) IsZero() bool {
	return c == nil || (c.Hex == "" && c.RGBA == nil)
}

// String returns the hex form or an rgba() rendering.
func (c *Color) String() string {
	if c == nil {
		return ""
	}
	if c.RGBA != nil {
		return fmt.Sprintf("rgba(%d,%d,%d,%g)", c.RGBA.R, c.RGBA.G, c.RGBA.B, c.RGBA.Alpha)
	}
	return c.Hex
}

// UnmarshalJSON accepts "#rrggbb" or {"r":..,"g":..,"b":..,"alpha":..}.
func (c *Color) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &c.Hex)
	}
	rgba := RGBA{Alpha: 1}
	if err := json.Unmarshal(b, &rgba); err != nil {
		return fmt.Errorf("invalid color %s", b)
	}
	c.RGBA = &rgba
	return nil
}

// MarshalJSON mirrors UnmarshalJSON.
func (c Color) MarshalJSON() ([]byte, error) {
	if c.RGBA != nil {
		return json.Marshal(c.RGBA)
	}
	return json.Marshal(c.Hex)
}

// UnmarshalYAML accepts a scalar or a mapping.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		c.Hex = node.Value
		return nil
	case yaml.MappingNode:
		rgba := RGBA{Alpha: 1}
		if err := node.Decode(&rgba); err != nil {
			return err
		}
		c.RGBA = &rgba
		return nil
	}
	return fmt.Errorf("line %d: color must be a hex string or an rgba mapping", node.Line)
}

// MarshalYAML mirrors UnmarshalYAML.
func (c Color) MarshalYAML() (any, error) {
	if c.RGBA != nil {
		return c.RGBA, nil
	}
	return c.Hex, nil
}

// UnmarshalTOML accepts a string or an inline table.
func (c *Color) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		c.Hex = x
		return nil
	case map[string]any:
		rgba := &RGBA{Alpha: 1}
		for k, raw := range x {
			switch k {
			case "r", "g", "b":
				n, ok := raw.(int64)
				if !ok || n < 0 || n > 255 {
					return fmt.Errorf("color channel %s must be 0..255", k)
				}
				switch k {
				case "r":
					rgba.R = uint8(n)
				case "g":
					rgba.G = uint8(n)
				default:
					rgba.B = uint8(n)
				}
			case "alpha":
				switch a := raw.(type) {
				case float64:
					rgba.Alpha = a
				case int64:
					rgba.Alpha = float64(a)
				default:
					return fmt.Errorf("color alpha must be a number")
				}
			}
		}
		c.RGBA = rgba
		return nil
	}
	return fmt.Errorf("invalid color %v", v)
}

// MarshalTOML writes a string or an inline table.
func (c Color) MarshalTOML() ([]byte, error) {
	if c.RGBA != nil {
		return fmt.Appendf(nil, "{ r = %d, g = %d, b = %d, alpha = %s }",
			c.RGBA.R, c.RGBA.G, c.RGBA.B, strconv.FormatFloat(c.RGBA.Alpha, 'f', -1, 64)), nil
	}
	return []byte(strconv.Quote(c.Hex)), nil
}

// =============================================================================
// Monochrome
// =============================================================================

// Monochrome configures the monochrome theme. A bare string in a config is
// shorthand for {color: <string>}.
type Monochrome struct {
	Color     string `yaml:"color,omitempty" toml:"color,omitempty" json:"color,omitempty"`
	Threshold int    `yaml:"threshold,omitempty" toml:"threshold,omitempty" json:"threshold,omitempty"`
}

// monochromeFields avoids recursion into the custom decoders.
type monochromeFields Monochrome

// UnmarshalJSON accepts "#fff" or {"color":..,"threshold":..}.
func (m *Monochrome) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &m.Color)
	}
	return json.Unmarshal(b, (*monochromeFields)(m))
}

// UnmarshalYAML accepts a scalar or a mapping.
func (m *Monochrome) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		m.Color = node.Value
		return nil
	}
	return node.Decode((*monochromeFields)(m))
}

// UnmarshalTOML accepts a string or an inline table.
func (m *Monochrome) UnmarshalTOML(v any) error {
	switch x := v.(type) {
	case string:
		m.Color = x
		return nil
	case map[string]any:
		if c, ok := x["color"].(string); ok {
			m.Color = c
		}
		if t, ok := x["threshold"].(int64); ok {
			m.Threshold = int(t)
		}
		return nil
	}
	return fmt.Errorf("invalid monochrome value %v", v)
}
