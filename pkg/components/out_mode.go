package components

import "fmt"

// OutMode is the policy applied when a particle reaches the canvas bounds.
type OutMode int

const (
	// OutModeBounce reflects the particle on both axes.
	OutModeBounce OutMode = iota
	// OutModeBounceHorizontal reflects only on the left/right edges.
	OutModeBounceHorizontal
	// OutModeBounceVertical reflects only on the top/bottom edges.
	OutModeBounceVertical
	// OutModeWrap re-enters the particle on the opposite edge.
	OutModeWrap
	// OutModeDestroy removes the particle once it has fully left the canvas.
	OutModeDestroy
	// OutModeNone lets the particle travel freely.
	OutModeNone
)

var outModeNames = map[OutMode]string{
	OutModeBounce:           "bounce",
	OutModeBounceHorizontal: "bounce-horizontal",
	OutModeBounceVertical:   "bounce-vertical",
	OutModeWrap:             "wrap",
	OutModeDestroy:          "destroy",
	OutModeNone:             "none",
}

// String returns the option name of the out mode.
func (m OutMode) String() string {
	if name, ok := outModeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("OutMode(%d)", int(m))
}

// IsBounce reports whether the mode reflects on at least one axis.
func (m OutMode) IsBounce() bool {
	return m == OutModeBounce || m == OutModeBounceHorizontal || m == OutModeBounceVertical
}

// BouncesHorizontally reports whether left/right edges reflect.
func (m OutMode) BouncesHorizontally() bool {
	return m == OutModeBounce || m == OutModeBounceHorizontal
}

// BouncesVertically reports whether top/bottom edges reflect.
func (m OutMode) BouncesVertically() bool {
	return m == OutModeBounce || m == OutModeBounceVertical
}

// ParseOutMode converts an option name into an OutMode.
// Both "bounceHorizontal" and "bounce-horizontal" spellings are accepted.
func ParseOutMode(s string) (OutMode, error) {
	switch s {
	case "bounce":
		return OutModeBounce, nil
	case "bounce-horizontal", "bounceHorizontal":
		return OutModeBounceHorizontal, nil
	case "bounce-vertical", "bounceVertical":
		return OutModeBounceVertical, nil
	case "wrap", "out":
		return OutModeWrap, nil
	case "destroy":
		return OutModeDestroy, nil
	case "none":
		return OutModeNone, nil
	}
	return OutModeNone, fmt.Errorf("unknown out mode %q", s)
}
