package components

// InfectionPhase is the state of a particle's infection state machine.
type InfectionPhase int

const (
	// InfectionNone: not infected (never infected, or cured).
	InfectionNone InfectionPhase = iota
	// InfectionDelayed: an infection is armed and counting down Delay.
	InfectionDelayed
	// InfectionActive: infected at Stage for Time milliseconds.
	InfectionActive
)

// InfectionComponent holds per-particle infection state.
//
// Particles carry this component while the infection interactor is
// installed; interactors skip particles without it.
//
// Invariant: when Phase == InfectionActive, Stage is a valid index into the
// configured stage table.
type InfectionComponent struct {
	Phase InfectionPhase

	// Active infection (毫秒)
	Stage int
	Time  float64

	// Armed infection waiting for the configured delay
	Delay      float64
	DelayStage int
}
