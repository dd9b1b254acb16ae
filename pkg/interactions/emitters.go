package interactions

import (
	"log"
	"math"

	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/engine"
	"github.com/decker502/particlefield/pkg/utils"
)

// emitterState is the runtime state of one configured emitter.
type emitterState struct {
	// Accumulated time since the last emission and the current emit delay (ms)
	emitElapsed float64
	nextDelay   float64

	active       bool
	lifeElapsed  float64
	pauseElapsed float64
	lives        int
	finished     bool

	launched int
}

// EmitterSpawner adds particles from the configured emitters and replaces
// destroyed emitter particles at their emitter.
//
// Emitter state is keyed by emitter name and survives option reloads.
type EmitterSpawner struct {
	container *engine.Container
	states    map[string]*emitterState
}

// NewEmitterSpawner creates the emitters interactor.
func NewEmitterSpawner(c *engine.Container) engine.Interactor {
	return &EmitterSpawner{container: c, states: make(map[string]*emitterState)}
}

// Name implements engine.Interactor.
func (es *EmitterSpawner) Name() string {
	return config.InteractorEmitters
}

// IsEnabled implements engine.Interactor.
func (es *EmitterSpawner) IsEnabled() bool {
	return len(es.container.Options().Emitters) > 0
}

// Reset implements engine.Interactor.
func (es *EmitterSpawner) Reset() {}

// Interact advances every emitter and emits due particles.
func (es *EmitterSpawner) Interact(delta engine.Delta) {
	emitters := es.container.Options().Emitters
	live := make(map[string]bool, len(emitters))

	for i := range emitters {
		e := &emitters[i]
		live[e.Name] = true
		state := es.stateFor(e)
		if state.finished {
			continue
		}

		if !state.active {
			state.pauseElapsed += delta.Value
			if state.pauseElapsed < e.Life.Delay*1000 {
				continue
			}
			state.active = true
			state.lifeElapsed = 0
			state.emitElapsed = 0
		}

		state.lifeElapsed += delta.Value
		state.emitElapsed += delta.Value
		for state.emitElapsed >= state.nextDelay {
			state.emitElapsed -= state.nextDelay
			state.nextDelay = es.sampleDelay(e)
			if !es.emit(e, state) {
				// 达到粒子上限，丢弃积累的时间
				state.emitElapsed = 0
				break
			}
		}

		if e.Life.Duration > 0 && state.lifeElapsed >= e.Life.Duration*1000 {
			state.active = false
			state.pauseElapsed = 0
			state.lives++
			if e.Life.Count > 0 && state.lives >= e.Life.Count {
				state.finished = true
				log.Printf("[EmitterSpawner] Emitter %s finished after %d lives (%d particles)", e.Name, state.lives, state.launched)
			}
		}
	}

	// 重载后移除的发射器
	for name := range es.states {
		if !live[name] {
			delete(es.states, name)
		}
	}
}

func (es *EmitterSpawner) stateFor(e *config.EmitterOptions) *emitterState {
	state, ok := es.states[e.Name]
	if !ok {
		state = &emitterState{active: true, nextDelay: es.sampleDelay(e)}
		es.states[e.Name] = state
	}
	return state
}

func (es *EmitterSpawner) sampleDelay(e *config.EmitterOptions) float64 {
	return math.Max(e.Rate.Delay.Sample(es.container.Rand()), 0.01) * 1000
}

// emit spawns one batch. It returns false when the population limit stopped it.
func (es *EmitterSpawner) emit(e *config.EmitterOptions, state *emitterState) bool {
	quantity := int(math.Round(e.Rate.Quantity.Sample(es.container.Rand())))
	for i := 0; i < quantity; i++ {
		pos := es.spawnPosition(e)
		if es.container.SpawnParticle(&pos, e.Name) == nil {
			return false
		}
		state.launched++
	}
	return true
}

// spawnPosition picks a point inside the emitter box.
func (es *EmitterSpawner) spawnPosition(e *config.EmitterOptions) utils.Vector {
	width, height := es.container.CanvasSize()
	rng := es.container.Rand()

	center := utils.Vector{X: e.Position.X / 100 * width, Y: e.Position.Y / 100 * height}
	boxW := e.Size.Width / 100 * width
	boxH := e.Size.Height / 100 * height
	return utils.Vector{
		X: center.X + utils.RandomInRange(rng, -boxW/2, boxW/2),
		Y: center.Y + utils.RandomInRange(rng, -boxH/2, boxH/2),
	}
}

// Respawn implements engine.Respawner: particles of an emitter group come
// back at their emitter.
func (es *EmitterSpawner) Respawn(dead *components.Particle) bool {
	if dead.Group == "" {
		return false
	}
	e, ok := es.container.Options().EmitterByName(dead.Group)
	if !ok {
		return false
	}
	pos := es.spawnPosition(&e)
	es.container.SpawnParticle(&pos, e.Name)
	return true
}

// Launched returns how many particles the named emitter has created.
func (es *EmitterSpawner) Launched(name string) int {
	if state, ok := es.states[name]; ok {
		return state.launched
	}
	return 0
}

// Finished reports whether the named emitter has used up its lives.
func (es *EmitterSpawner) Finished(name string) bool {
	state, ok := es.states[name]
	return ok && state.finished
}
