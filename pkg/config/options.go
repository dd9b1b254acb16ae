package config

import (
	"github.com/decker502/particlefield/internal/particle"
	"github.com/decker502/particlefield/pkg/components"
)

// Interactor names understood by the engine registry.
const (
	InteractorAttract   = "attract"
	InteractorRepulse   = "repulse"
	InteractorBounce    = "bounce"
	InteractorGrab      = "grab"
	InteractorLinks     = "links"
	InteractorInfection = "infection"
	InteractorEmitters  = "emitters"
)

// Hover and click mode names.
const (
	ModeAttract = "attract"
	ModeRepulse = "repulse"
	ModeBounce  = "bounce"
	ModeGrab    = "grab"
	ModePush    = "push"
	ModeRemove  = "remove"
)

// Options is the fully resolved configuration tree consumed by the engine.
//
// An Options value is built by Load/Merge, fixed up by Normalize and then
// treated as immutable: the container swaps whole *Options pointers on hot
// reload and never mutates one in place.
//
// 配置文件示例: presets/default.yaml
type Options struct {
	// Seed for the simulation random source; 0 picks a time-based seed.
	Seed int64 `yaml:"seed"`

	// FPSLimit caps the host frame rate (0 = host default).
	FPSLimit int `yaml:"fpsLimit"`

	// Interactors lists the behaviours to run each frame, in order.
	Interactors []string `yaml:"interactors"`

	Particles     ParticlesOptions     `yaml:"particles"`
	Interactivity InteractivityOptions `yaml:"interactivity"`
	Infection     InfectionOptions     `yaml:"infection"`
	Emitters      []EmitterOptions     `yaml:"emitters"`
}

// ParticlesOptions 主粒子组配置
type ParticlesOptions struct {
	Number  NumberOptions       `yaml:"number"`
	Color   Color               `yaml:"color"`
	Opacity float64             `yaml:"opacity"`
	Size    particle.RangeValue `yaml:"size"`
	Move    MoveOptions         `yaml:"move"`
	Links   LinksOptions        `yaml:"links"`
}

// NumberOptions controls the population size.
type NumberOptions struct {
	// Value is the initial population.
	Value int `yaml:"value"`
	// Limit caps the population including pushes and emitters (0 = no cap).
	Limit int `yaml:"limit"`
	// Respawn replaces destroyed particles.
	Respawn bool `yaml:"respawn"`
}

// MoveOptions 粒子移动配置
type MoveOptions struct {
	Enable  bool         `yaml:"enable"`
	Speed   float64      `yaml:"speed"`
	OutMode string       `yaml:"outMode"`
	Noise   NoiseOptions `yaml:"noise"`

	outMode components.OutMode
}

// ResolvedOutMode returns the out mode parsed by Normalize.
func (m MoveOptions) ResolvedOutMode() components.OutMode {
	return m.outMode
}

// NoiseOptions drives a perlin-noise drift added to the integrated motion.
type NoiseOptions struct {
	Enable   bool    `yaml:"enable"`
	Scale    float64 `yaml:"scale"`
	Strength float64 `yaml:"strength"`
}

// LinksOptions 粒子连线配置
type LinksOptions struct {
	Enable    bool                 `yaml:"enable"`
	Distance  float64              `yaml:"distance"`
	Opacity   float64              `yaml:"opacity"`
	Width     float64              `yaml:"width"`
	Color     Color                `yaml:"color"`
	Frequency float64              `yaml:"frequency"`
	Triangles LinksTriangleOptions `yaml:"triangles"`
}

// LinksTriangleOptions fills triangles between three mutually linked particles.
type LinksTriangleOptions struct {
	Enable    bool    `yaml:"enable"`
	Frequency float64 `yaml:"frequency"`
	// Opacity defaults to the link opacity when unset.
	Opacity *float64 `yaml:"opacity,omitempty"`
	Color   *Color   `yaml:"color,omitempty"`
}

// InteractivityOptions 交互配置
type InteractivityOptions struct {
	Events EventsOptions `yaml:"events"`
	Modes  ModesOptions  `yaml:"modes"`
}

// EventsOptions enables hover and click behaviours.
type EventsOptions struct {
	OnHover EventOptions `yaml:"onHover"`
	OnClick EventOptions `yaml:"onClick"`
}

// EventOptions is one input event binding.
type EventOptions struct {
	Enable bool     `yaml:"enable"`
	Mode   ModeList `yaml:"mode"`
}

// Has reports whether the event is enabled and lists mode.
func (e EventOptions) Has(mode string) bool {
	return e.Enable && e.Mode.Has(mode)
}

// ModesOptions holds per-mode parameters.
type ModesOptions struct {
	Attract AttractOptions `yaml:"attract"`
	Repulse RepulseOptions `yaml:"repulse"`
	Bounce  BounceOptions  `yaml:"bounce"`
	Grab    GrabOptions    `yaml:"grab"`
	Push    PushOptions    `yaml:"push"`
	Remove  RemoveOptions  `yaml:"remove"`
}

// AttractOptions 吸引模式参数
type AttractOptions struct {
	Distance float64 `yaml:"distance"`
	Speed    float64 `yaml:"speed"`
	// Duration auto-releases a held click after this many seconds (0 = on mouse up only).
	Duration float64 `yaml:"duration"`
}

// RepulseOptions 排斥模式参数
type RepulseOptions struct {
	Distance float64 `yaml:"distance"`
	Speed    float64 `yaml:"speed"`
	Duration float64 `yaml:"duration"`
}

// BounceOptions 弹开模式参数
type BounceOptions struct {
	Distance float64 `yaml:"distance"`
}

// GrabOptions 抓取连线参数
type GrabOptions struct {
	Distance float64          `yaml:"distance"`
	Links    GrabLinksOptions `yaml:"links"`
}

// GrabLinksOptions styles the mouse links drawn by grab.
type GrabLinksOptions struct {
	Opacity float64 `yaml:"opacity"`
	Color   *Color  `yaml:"color,omitempty"`
}

// PushOptions adds particles at the click position.
type PushOptions struct {
	Quantity int `yaml:"quantity"`
}

// RemoveOptions removes the oldest particles on click.
type RemoveOptions struct {
	Quantity int `yaml:"quantity"`
}

// InfectionOptions 感染插件配置
type InfectionOptions struct {
	Enable bool `yaml:"enable"`
	// Cure clears the infection after the last stage; otherwise it loops to stage 0.
	Cure bool `yaml:"cure"`
	// Delay in seconds between exposure and the infection becoming active.
	Delay float64 `yaml:"delay"`
	// Infections is the number of particles infected at start.
	Infections int              `yaml:"infections"`
	Stages     []InfectionStage `yaml:"stages"`
}

// InfectionStage is one step of the infection progression.
type InfectionStage struct {
	Color Color `yaml:"color"`
	// Duration in seconds before advancing; nil or negative means forever.
	Duration *float64 `yaml:"duration,omitempty"`
	// Rate is the expected number of infections per frame among neighbours.
	Rate float64 `yaml:"rate"`
	// Radius of the infection query around an infected particle.
	Radius float64 `yaml:"radius"`
	// InfectedStage is the stage given to newly infected neighbours (nil = same stage).
	InfectedStage *int `yaml:"infectedStage,omitempty"`
}

// EmitterOptions 发射器配置
type EmitterOptions struct {
	Name string `yaml:"name"`
	// Position in percent of the canvas (0-100).
	Position PercentPosition `yaml:"position"`
	// Size of the spawn box in percent of the canvas; zero is a point emitter.
	Size      PercentSize       `yaml:"size"`
	Direction string            `yaml:"direction"`
	Rate      EmitterRate       `yaml:"rate"`
	Life      EmitterLife       `yaml:"life"`
	Particles ParticleOverrides `yaml:"particles"`
}

// PercentPosition is a canvas-relative position.
type PercentPosition struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// PercentSize is a canvas-relative box size.
type PercentSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// EmitterRate is how often and how many particles an emitter creates.
type EmitterRate struct {
	// Delay in seconds between emissions.
	Delay particle.RangeValue `yaml:"delay"`
	// Quantity of particles per emission.
	Quantity particle.RangeValue `yaml:"quantity"`
}

// EmitterLife bounds the active periods of an emitter.
type EmitterLife struct {
	// Count of active periods (0 = infinite).
	Count int `yaml:"count"`
	// Duration of one active period in seconds (0 = infinite).
	Duration float64 `yaml:"duration"`
	// Delay in seconds between active periods.
	Delay float64 `yaml:"delay"`
}

// ParticleOverrides replace main group options for emitted particles.
type ParticleOverrides struct {
	OutMode string               `yaml:"outMode,omitempty"`
	Color   *Color               `yaml:"color,omitempty"`
	Size    *particle.RangeValue `yaml:"size,omitempty"`

	outMode    components.OutMode
	hasOutMode bool
}

// ResolvedOutMode returns the override parsed by Normalize, if any.
func (p ParticleOverrides) ResolvedOutMode() (components.OutMode, bool) {
	return p.outMode, p.hasOutMode
}

// EmitterByName returns the emitter options with the given name.
func (o *Options) EmitterByName(name string) (EmitterOptions, bool) {
	for _, e := range o.Emitters {
		if e.Name == name {
			return e, true
		}
	}
	return EmitterOptions{}, false
}

// StagesCount returns the number of configured infection stages.
func (o *Options) StagesCount() int {
	return len(o.Infection.Stages)
}
