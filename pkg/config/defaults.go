package config

import (
	"github.com/decker502/particlefield/internal/particle"
	"github.com/decker502/particlefield/pkg/components"
)

// DefaultInteractorOrder is the interactor sequence used when none is configured.
// Mouse interactors run before particle-to-particle ones so links and
// infection see the positions after mouse forces.
var DefaultInteractorOrder = []string{
	InteractorAttract,
	InteractorRepulse,
	InteractorBounce,
	InteractorGrab,
	InteractorLinks,
	InteractorInfection,
	InteractorEmitters,
}

// Default returns the option tree every load starts from.
func Default() *Options {
	return &Options{
		Seed:        0,
		FPSLimit:    60,
		Interactors: append([]string(nil), DefaultInteractorOrder...),
		Particles: ParticlesOptions{
			Number:  NumberOptions{Value: 80},
			Color:   MustColor("#ffffff"),
			Opacity: 1,
			Size:    particle.Range(1, 3),
			Move: MoveOptions{
				Enable:  true,
				Speed:   2,
				OutMode: components.OutModeBounce.String(),
				Noise:   NoiseOptions{Scale: 0.01, Strength: 0.5},
				outMode: components.OutModeBounce,
			},
			Links: LinksOptions{
				Distance:  150,
				Opacity:   0.4,
				Width:     1,
				Color:     MustColor("#ffffff"),
				Frequency: 1,
				Triangles: LinksTriangleOptions{Frequency: 1},
			},
		},
		Interactivity: InteractivityOptions{
			Events: EventsOptions{
				OnHover: EventOptions{Enable: true, Mode: ModeList{ModeAttract}},
				OnClick: EventOptions{Enable: true, Mode: ModeList{ModePush}},
			},
			Modes: ModesOptions{
				Attract: AttractOptions{Distance: 200, Speed: 1, Duration: 0.4},
				Repulse: RepulseOptions{Distance: 200, Speed: 1, Duration: 0.4},
				Bounce:  BounceOptions{Distance: 200},
				Grab:    GrabOptions{Distance: 100, Links: GrabLinksOptions{Opacity: 1}},
				Push:    PushOptions{Quantity: 4},
				Remove:  RemoveOptions{Quantity: 2},
			},
		},
		Infection: InfectionOptions{
			Stages: []InfectionStage{
				{Color: MustColor("#ff0000"), Rate: 1},
			},
		},
	}
}

// defaultEmitter fills the fields a YAML emitter entry usually omits.
func defaultEmitter() EmitterOptions {
	return EmitterOptions{
		Position:  PercentPosition{X: 50, Y: 50},
		Direction: "none",
		Rate: EmitterRate{
			Delay:    particle.Fixed(0.1),
			Quantity: particle.Fixed(1),
		},
	}
}
