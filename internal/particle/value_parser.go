// Package particle provides the value types and parsers shared by the
// particle-field option files.
//
// Numeric options may be written as a fixed value or as a random range:
//   - Fixed value: 5, "5"
//   - Range string: "[1 3]" (random value between min and max)
//   - Sequence: [1, 3]
//   - Mapping: {min: 1, max: 3}
package particle

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// RangeValue is a numeric option that is either fixed (Min == Max) or drawn
// uniformly from [Min, Max] each time it is sampled.
type RangeValue struct {
	Min float64
	Max float64
}

// Fixed returns a RangeValue that always samples value.
func Fixed(value float64) RangeValue {
	return RangeValue{Min: value, Max: value}
}

// Range returns a RangeValue over [min, max]; the bounds are swapped if needed.
func Range(min, max float64) RangeValue {
	if min > max {
		min, max = max, min
	}
	return RangeValue{Min: min, Max: max}
}

// IsFixed reports whether the value has no spread.
func (r RangeValue) IsFixed() bool {
	return r.Min == r.Max
}

// Sample draws a value from the range. A nil rng uses the global source.
func (r RangeValue) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	if rng == nil {
		return r.Min + rand.Float64()*(r.Max-r.Min)
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Average returns the midpoint of the range.
func (r RangeValue) Average() float64 {
	return (r.Min + r.Max) / 2
}

// ClampMin raises both bounds to at least min.
func (r RangeValue) ClampMin(min float64) RangeValue {
	if r.Min < min {
		r.Min = min
	}
	if r.Max < min {
		r.Max = min
	}
	return r
}

// String formats the value the way ParseValue reads it.
func (r RangeValue) String() string {
	if r.IsFixed() {
		return strconv.FormatFloat(r.Min, 'g', -1, 64)
	}
	return fmt.Sprintf("[%s %s]",
		strconv.FormatFloat(r.Min, 'g', -1, 64),
		strconv.FormatFloat(r.Max, 'g', -1, 64))
}

// ParseValue parses a value string from an option file.
// Supports:
//   - Fixed value: "1500" → min=1500, max=1500
//   - Range: "[0.7 0.9]" → min=0.7, max=0.9
//   - Single bracket value: "[3]" → min=3, max=3
//
// Returns an error for anything else; callers decide whether to fall back.
func ParseValue(s string) (RangeValue, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RangeValue{}, fmt.Errorf("empty value")
	}

	// Check for range format: "[min max]" or "[value]"
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		rangeStr := strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
		rangeStr = strings.ReplaceAll(rangeStr, ",", " ")
		parts := strings.Fields(rangeStr)

		switch len(parts) {
		case 1:
			val, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return RangeValue{}, fmt.Errorf("invalid range value %q: %w", s, err)
			}
			return Fixed(val), nil
		case 2:
			min, err1 := strconv.ParseFloat(parts[0], 64)
			max, err2 := strconv.ParseFloat(parts[1], 64)
			if err1 != nil || err2 != nil {
				return RangeValue{}, fmt.Errorf("invalid range %q", s)
			}
			return Range(min, max), nil
		}
		return RangeValue{}, fmt.Errorf("range %q must have one or two values", s)
	}

	// Fixed value format
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return RangeValue{}, fmt.Errorf("invalid value %q: %w", s, err)
	}
	return Fixed(value), nil
}

// UnmarshalYAML accepts scalars, two-element sequences and min/max mappings.
func (r *RangeValue) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v, err := ParseValue(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*r = v
		return nil

	case yaml.SequenceNode:
		var values []float64
		if err := node.Decode(&values); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		switch len(values) {
		case 1:
			*r = Fixed(values[0])
		case 2:
			*r = Range(values[0], values[1])
		default:
			return fmt.Errorf("line %d: range must have one or two values, got %d", node.Line, len(values))
		}
		return nil

	case yaml.MappingNode:
		var m struct {
			Min *float64 `yaml:"min"`
			Max *float64 `yaml:"max"`
		}
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		switch {
		case m.Min != nil && m.Max != nil:
			*r = Range(*m.Min, *m.Max)
		case m.Min != nil:
			*r = Fixed(*m.Min)
		case m.Max != nil:
			*r = Fixed(*m.Max)
		default:
			return fmt.Errorf("line %d: range mapping needs min or max", node.Line)
		}
		return nil
	}

	return fmt.Errorf("line %d: unsupported range value", node.Line)
}

// MarshalYAML writes fixed values as numbers and ranges as min/max mappings.
func (r RangeValue) MarshalYAML() (interface{}, error) {
	if r.IsFixed() {
		return r.Min, nil
	}
	return map[string]float64{"min": r.Min, "max": r.Max}, nil
}
