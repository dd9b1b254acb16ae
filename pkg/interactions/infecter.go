package interactions

import (
	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/ecs"
	"github.com/decker502/particlefield/pkg/engine"
)

// Infecter spreads a staged infection between neighbouring particles and
// advances every particle's infection state machine.
//
// State machine (per particle, InfectionComponent):
//
//	none --StartInfection--> delayed --delay elapsed--> active(stage)
//	active(stage) --duration elapsed--> active(stage+1)
//	active(last) --> none (cure) | active(0) (loop)
//
// Every entry point rejects stages outside [0, stagesCount).
type Infecter struct {
	container *engine.Container
}

// NewInfecter creates the infection interactor.
func NewInfecter(c *engine.Container) engine.Interactor {
	return &Infecter{container: c}
}

// Name implements engine.Interactor.
func (inf *Infecter) Name() string {
	return config.InteractorInfection
}

// IsEnabled implements engine.Interactor.
func (inf *Infecter) IsEnabled() bool {
	opts := inf.container.Options()
	return opts.Infection.Enable && opts.StagesCount() > 0
}

// Reset implements engine.Interactor.
func (inf *Infecter) Reset() {}

// ParticleCreated implements engine.ParticleInitializer.
func (inf *Infecter) ParticleCreated(p *components.Particle) {
	inf.container.Entities().AddComponent(p.ID, &components.InfectionComponent{})
}

// Detach implements engine.Detacher: every particle loses its infection.
func (inf *Infecter) Detach() {
	em := inf.container.Entities()
	for _, id := range ecs.GetEntitiesWith1[*components.InfectionComponent](em) {
		ecs.RemoveComponent[*components.InfectionComponent](em, id)
	}
}

// Start infects the configured number of random particles.
func (inf *Infecter) Start() {
	if !inf.IsEnabled() {
		return
	}
	rng := inf.container.Rand()
	for i := 0; i < inf.container.Options().Infection.Infections; i++ {
		var candidates []*components.Particle
		for _, p := range inf.container.Particles() {
			if state := inf.state(p); state != nil && state.Phase == components.InfectionNone {
				candidates = append(candidates, p)
			}
		}
		if len(candidates) == 0 {
			return
		}
		inf.StartInfection(candidates[rng.Intn(len(candidates))], 0)
	}
}

func (inf *Infecter) state(p *components.Particle) *components.InfectionComponent {
	state, ok := ecs.GetComponent[*components.InfectionComponent](inf.container.Entities(), p.ID)
	if !ok {
		return nil
	}
	return state
}

func (inf *Infecter) validStage(stage int) bool {
	return stage >= 0 && stage < inf.container.Options().StagesCount()
}

// StartInfection arms an infection at stage. Particles already infected or
// already exposed are left alone.
func (inf *Infecter) StartInfection(p *components.Particle, stage int) {
	state := inf.state(p)
	if state == nil || !inf.validStage(stage) || state.Phase != components.InfectionNone {
		return
	}
	state.Phase = components.InfectionDelayed
	state.Delay = 0
	state.DelayStage = stage
}

// UpdateInfectionStage jumps p to stage. Invalid stages and stages lower
// than the current one are rejected.
func (inf *Infecter) UpdateInfectionStage(p *components.Particle, stage int) {
	state := inf.state(p)
	if state == nil || !inf.validStage(stage) {
		return
	}
	if state.Phase == components.InfectionActive && state.Stage > stage {
		return
	}
	state.Phase = components.InfectionActive
	state.Stage = stage
	state.Time = 0
}

// UpdateInfection advances the delay countdown or the active stage timer by
// delta.Value milliseconds.
func (inf *Infecter) UpdateInfection(p *components.Particle, delta engine.Delta) {
	state := inf.state(p)
	if state == nil {
		return
	}
	opts := inf.container.Options()

	switch state.Phase {
	case components.InfectionDelayed:
		if !inf.validStage(state.DelayStage) {
			state.Phase = components.InfectionNone
			return
		}
		if state.Delay >= opts.Infection.Delay*1000 {
			state.Phase = components.InfectionActive
			state.Stage = state.DelayStage
			state.Time = 0
			state.Delay = 0
		} else {
			state.Delay += delta.Value
		}

	case components.InfectionActive:
		if !inf.validStage(state.Stage) {
			// 重载后阶段表变短
			state.Phase = components.InfectionNone
			state.Stage = 0
			state.Time = 0
			return
		}
		stage := opts.Infection.Stages[state.Stage]
		if stage.Duration != nil && *stage.Duration >= 0 && state.Time > *stage.Duration*1000 {
			inf.nextStage(state)
		} else {
			state.Time += delta.Value
		}
	}
}

// nextStage advances to the next stage, curing or looping past the last one.
func (inf *Infecter) nextStage(state *components.InfectionComponent) {
	opts := inf.container.Options()
	count := opts.StagesCount()
	if count <= 0 {
		return
	}

	state.Time = 0
	state.Stage++
	if state.Stage < count {
		return
	}
	state.Stage = 0
	if opts.Infection.Cure {
		state.Phase = components.InfectionNone
	}
}

// ParticleUpdate implements engine.ParticleUpdater.
func (inf *Infecter) ParticleUpdate(p *components.Particle, delta engine.Delta) {
	if !inf.IsEnabled() {
		return
	}
	inf.UpdateInfection(p, delta)
}

// ParticleStyle implements engine.ParticleStyler: active particles take the
// colour of their stage.
func (inf *Infecter) ParticleStyle(p *components.Particle, view *engine.ParticleView) {
	if !inf.IsEnabled() {
		return
	}
	state := inf.state(p)
	if state == nil || state.Phase != components.InfectionActive || !inf.validStage(state.Stage) {
		return
	}
	view.InfectionStage = state.Stage
	if stageColor := inf.container.Options().Infection.Stages[state.Stage].Color; !stageColor.Random {
		view.Color = stageColor.RGBA
	}
}

// Interact spreads the infection from every active particle to its
// neighbours within the stage radius.
func (inf *Infecter) Interact(delta engine.Delta) {
	opts := inf.container.Options()
	rng := inf.container.Rand()
	tree := inf.container.QuadTree()

	for _, p := range inf.container.Particles() {
		if p.Destroyed {
			continue
		}
		state := inf.state(p)
		if state == nil || state.Phase != components.InfectionActive || !inf.validStage(state.Stage) {
			continue
		}

		stage := opts.Infection.Stages[state.Stage]
		if stage.Radius <= 0 || stage.Rate <= 0 {
			continue
		}
		neighbours := tree.QueryCircle(p.Position, stage.Radius)
		if len(neighbours) == 0 {
			continue
		}
		infectedStage := state.Stage
		if stage.InfectedStage != nil {
			infectedStage = *stage.InfectedStage
		}
		chance := stage.Rate / float64(len(neighbours))

		for _, other := range neighbours {
			if other == p || other.Destroyed {
				continue
			}
			otherState := inf.state(other)
			if otherState == nil {
				continue
			}
			otherActive := otherState.Phase == components.InfectionActive
			if otherActive && otherState.Stage == state.Stage {
				continue
			}
			if rng.Float64() >= chance {
				continue
			}

			switch {
			case !otherActive:
				inf.StartInfection(other, infectedStage)
			case otherState.Stage < state.Stage:
				inf.UpdateInfectionStage(other, infectedStage)
			case otherState.Stage > state.Stage && inf.validStage(otherState.Stage):
				otherStage := opts.Infection.Stages[otherState.Stage]
				target := otherState.Stage
				if otherStage.InfectedStage != nil {
					target = *otherStage.InfectedStage
				}
				inf.UpdateInfectionStage(p, target)
			}
		}
	}
}

// Stage returns the active infection stage of p.
func (inf *Infecter) Stage(p *components.Particle) (int, bool) {
	state := inf.state(p)
	if state == nil || state.Phase != components.InfectionActive {
		return 0, false
	}
	return state.Stage, true
}
