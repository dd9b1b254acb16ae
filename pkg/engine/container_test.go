package engine

import (
	"strings"
	"testing"

	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/ecs"
	"github.com/decker502/particlefield/pkg/utils"
)

// newTestOptions parses a YAML overlay on top of the defaults with a fixed
// seed and no interactors unless the overlay sets them.
func newTestOptions(t *testing.T, overlay string) *config.Options {
	t.Helper()
	opts, err := config.ParseOptions([]byte("seed: 42\ninteractors: []\n"), []byte(overlay))
	if err != nil {
		t.Fatalf("ParseOptions failed: %v", err)
	}
	return opts
}

// recordingInteractor logs its calls into a shared journal.
type recordingInteractor struct {
	name    string
	enabled bool
	journal *[]string
	onTouch func(delta Delta)
}

func (r *recordingInteractor) Name() string    { return r.name }
func (r *recordingInteractor) IsEnabled() bool { return r.enabled }
func (r *recordingInteractor) Reset()          { *r.journal = append(*r.journal, r.name+".reset") }
func (r *recordingInteractor) Interact(delta Delta) {
	*r.journal = append(*r.journal, r.name+".interact")
	if r.onTouch != nil {
		r.onTouch(delta)
	}
}

func TestNewDelta(t *testing.T) {
	tests := []struct {
		name       string
		elapsed    float64
		wantValue  float64
		wantFactor float64
	}{
		{"one frame", FrameDuration60, FrameDuration60, 1},
		{"two frames", 2 * FrameDuration60, 2 * FrameDuration60, 2},
		{"negative", -5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDelta(tt.elapsed)
			if d.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", d.Value, tt.wantValue)
			}
			if diff := d.Factor - tt.wantFactor; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Factor = %v, want %v", d.Factor, tt.wantFactor)
			}
		})
	}
}

func TestContainer_Lifecycle(t *testing.T) {
	c := NewContainer(nil, newTestOptions(t, "particles: {number: {value: 10}}"), 800, 600)

	if snap := c.Update(FrameDuration60); !snap.Empty() {
		t.Error("uninitialized container must return an empty snapshot")
	}
	if c.Play() || c.Pause() {
		t.Error("Play/Pause must be rejected before Start")
	}

	if !c.Start() {
		t.Fatal("Start failed")
	}
	if c.Start() {
		t.Error("second Start must be rejected")
	}
	if c.Count() != 10 {
		t.Fatalf("expected 10 particles, got %d", c.Count())
	}

	first := c.Update(FrameDuration60)
	if len(first.Particles) != 10 || first.Frame != 1 {
		t.Fatalf("unexpected first snapshot: frame %d, %d particles", first.Frame, len(first.Particles))
	}

	if !c.Pause() {
		t.Fatal("Pause failed")
	}
	paused := c.Update(FrameDuration60)
	if paused.Frame != first.Frame {
		t.Errorf("paused container advanced: frame %d", paused.Frame)
	}

	if !c.Play() {
		t.Fatal("Play failed")
	}
	if snap := c.Update(FrameDuration60); snap.Frame != 2 {
		t.Errorf("expected frame 2 after Play, got %d", snap.Frame)
	}

	c.Destroy()
	if c.State() != StateDestroyed || c.Count() != 0 {
		t.Errorf("Destroy left state %s with %d particles", c.State(), c.Count())
	}
	if !c.Update(FrameDuration60).Empty() {
		t.Error("destroyed container must return an empty snapshot")
	}
	if c.Start() {
		t.Error("destroyed container must not restart")
	}
}

func TestContainer_InteractorOrder(t *testing.T) {
	var journal []string
	reg := NewRegistry()
	for _, spec := range []struct {
		name    string
		enabled bool
	}{{"a", true}, {"b", false}, {"c", true}} {
		spec := spec
		reg.Register(spec.name, func(c *Container) Interactor {
			return &recordingInteractor{name: spec.name, enabled: spec.enabled, journal: &journal}
		})
	}

	opts := newTestOptions(t, "interactors: [c, a, b, missing, a]\nparticles: {number: {value: 1}}")
	c := NewContainer(reg, opts, 100, 100)
	c.Start()

	if got := len(c.Interactors()); got != 3 {
		t.Fatalf("expected 3 interactors (unknown and duplicate skipped), got %d", got)
	}

	c.Update(FrameDuration60)
	want := "c.reset,a.reset,c.interact,a.interact"
	if got := strings.Join(journal, ","); got != want {
		t.Errorf("journal = %s, want %s", got, want)
	}
}

func TestContainer_RecoversFromPanic(t *testing.T) {
	reg := NewRegistry()
	armed := true
	reg.Register("boom", func(c *Container) Interactor {
		var journal []string
		return &recordingInteractor{name: "boom", enabled: true, journal: &journal, onTouch: func(Delta) {
			if armed {
				panic("interactor failure")
			}
		}}
	})

	c := NewContainer(reg, newTestOptions(t, "interactors: [boom]\nparticles: {number: {value: 20}}"), 400, 300)
	c.Start()

	snap := c.Update(FrameDuration60)
	if !snap.Empty() {
		t.Errorf("expected empty snapshot after panic, got %d particles", len(snap.Particles))
	}
	if c.Count() != 0 {
		t.Errorf("population must be cleared after panic, got %d", c.Count())
	}

	armed = false
	c.SpawnParticle(nil, "")
	if snap := c.Update(FrameDuration60); len(snap.Particles) != 1 {
		t.Errorf("container should keep running after a recovered panic, got %d particles", len(snap.Particles))
	}
}

func TestContainer_BounceContainment(t *testing.T) {
	for _, mode := range []string{"bounce", "bounce-horizontal", "bounce-vertical"} {
		t.Run(mode, func(t *testing.T) {
			opts := newTestOptions(t, `
particles:
  number: {value: 100}
  size: "[1 6]"
  move: {enable: true, speed: 40, outMode: `+mode+`}
`)
			c := NewContainer(nil, opts, 300, 200)
			c.Start()

			for frame := 0; frame < 300; frame++ {
				snap := c.Update(FrameDuration60)
				for _, p := range snap.Particles {
					if mode != "bounce-vertical" && (p.Position.X < p.Size || p.Position.X > 300-p.Size) {
						t.Fatalf("frame %d: particle %d x=%.2f escaped [%.2f, %.2f]", frame, p.ID, p.Position.X, p.Size, 300-p.Size)
					}
					if mode != "bounce-horizontal" && (p.Position.Y < p.Size || p.Position.Y > 200-p.Size) {
						t.Fatalf("frame %d: particle %d y=%.2f escaped [%.2f, %.2f]", frame, p.ID, p.Position.Y, p.Size, 200-p.Size)
					}
				}
			}
		})
	}
}

func TestContainer_OutModes(t *testing.T) {
	t.Run("destroy without respawn", func(t *testing.T) {
		opts := newTestOptions(t, "particles: {number: {value: 1}, size: 1, move: {enable: true, speed: 2, outMode: destroy}}")
		c := NewContainer(nil, opts, 100, 100)
		c.Start()
		p := c.Particles()[0]
		p.Position = utils.Vector{X: 99, Y: 50}
		p.Velocity = components.Velocity{Horizontal: 5}

		c.Update(FrameDuration60)
		if c.Count() != 0 {
			t.Errorf("expected particle destroyed, %d left", c.Count())
		}
	})

	t.Run("destroy with respawn", func(t *testing.T) {
		opts := newTestOptions(t, "particles: {number: {value: 1, respawn: true}, size: 1, move: {enable: true, speed: 2, outMode: destroy}}")
		c := NewContainer(nil, opts, 100, 100)
		c.Start()
		old := c.Particles()[0]
		old.Position = utils.Vector{X: 99, Y: 50}
		old.Velocity = components.Velocity{Horizontal: 5}

		c.Update(FrameDuration60)
		if c.Count() != 1 {
			t.Fatalf("expected respawned particle, got %d", c.Count())
		}
		if c.Particles()[0].ID == old.ID {
			t.Error("respawned particle must be a new entity")
		}
		if ecs.HasComponent[*components.Particle](c.Entities(), old.ID) {
			t.Error("destroyed particle's entity must be removed")
		}
	})

	t.Run("wrap", func(t *testing.T) {
		opts := newTestOptions(t, "particles: {number: {value: 1}, size: 2, move: {enable: true, speed: 2, outMode: wrap}}")
		c := NewContainer(nil, opts, 100, 100)
		c.Start()
		p := c.Particles()[0]
		p.Position = utils.Vector{X: 101.5, Y: 50}
		p.Velocity = components.Velocity{Horizontal: 1}

		c.Update(FrameDuration60)
		if p.Position.X != -2 {
			t.Errorf("expected wrap to x=-2, got %.2f", p.Position.X)
		}
	})

	t.Run("none", func(t *testing.T) {
		opts := newTestOptions(t, "particles: {number: {value: 1}, size: 2, move: {enable: true, speed: 2, outMode: none}}")
		c := NewContainer(nil, opts, 100, 100)
		c.Start()
		p := c.Particles()[0]
		p.Position = utils.Vector{X: 500, Y: 50}
		p.Velocity = components.Velocity{}

		c.Update(FrameDuration60)
		if c.Count() != 1 || p.Position.X != 500 {
			t.Errorf("out mode none must leave the particle alone, got x=%.2f count=%d", p.Position.X, c.Count())
		}
	})
}

func TestContainer_ClickModes(t *testing.T) {
	opts := newTestOptions(t, `
particles: {number: {value: 5, limit: 8}}
interactivity:
  events:
    onClick: {enable: true, mode: [push]}
  modes:
    push: {quantity: 4}
`)
	c := NewContainer(nil, opts, 200, 200)
	c.Start()

	c.MouseDown(10, 20)
	c.MouseUp()
	if c.Count() != 8 {
		t.Fatalf("push must respect the limit: expected 8, got %d", c.Count())
	}
	last := c.Particles()[7]
	if last.Position != (utils.Vector{X: 10, Y: 20}) {
		t.Errorf("pushed particle at %+v, want click position", last.Position)
	}

	removeOpts := newTestOptions(t, `
particles: {number: {value: 5}}
interactivity:
  events:
    onClick: {enable: true, mode: remove}
  modes:
    remove: {quantity: 2}
`)
	c.Reload(removeOpts)
	c.Update(FrameDuration60)
	firstID := c.Particles()[0].ID
	thirdID := c.Particles()[2].ID

	c.MouseDown(0, 0)
	if c.Count() != 6 {
		t.Fatalf("expected 6 after remove, got %d", c.Count())
	}
	if c.Particles()[0].ID != thirdID || ecs.HasComponent[*components.Particle](c.Entities(), firstID) {
		t.Error("remove must delete the oldest particles")
	}
}

func TestContainer_ClickSessionLifecycle(t *testing.T) {
	opts := newTestOptions(t, `
particles: {number: {value: 3}, move: {enable: false}}
interactivity:
  events:
    onClick: {enable: true, mode: attract}
  modes:
    attract: {duration: 0.5}
`)
	c := NewContainer(nil, opts, 200, 200)
	c.Start()

	c.MouseDown(100, 100)
	session := c.AttractSession()
	if !session.Held() {
		t.Fatal("MouseDown must open the attract session")
	}

	p := c.Particles()[0]
	session.Capture(p)
	session.Capture(p)
	if session.Count != 1 || len(session.Particles) != 1 {
		t.Fatalf("capture must be distinct: count %d, %d particles", session.Count, len(session.Particles))
	}
	p.Velocity = components.Velocity{Horizontal: 42, Vertical: -42}

	// 未达到时长前保持按下状态
	for i := 0; i < 4; i++ {
		c.Update(100)
	}
	if !session.Held() {
		t.Fatalf("session released too early (held %.0fms)", session.HeldFor)
	}

	// 超过 duration 自动释放，随后恢复初始速度
	c.Update(100)
	if session.Clicking != ClickReleased {
		t.Fatalf("expected auto release after duration, phase %d", session.Clicking)
	}
	if p.Velocity != p.InitialVelocity {
		t.Errorf("velocity not restored: %+v vs %+v", p.Velocity, p.InitialVelocity)
	}
	if len(session.Particles) != 0 {
		t.Error("captured set must be cleared on release")
	}
}

func TestClickSession_Finish(t *testing.T) {
	var s ClickSession
	s.Begin()
	a := &components.Particle{ID: 1}
	b := &components.Particle{ID: 2}

	s.Capture(a)
	s.UpdateFinish(2)
	if s.Finish {
		t.Error("Finish set before every particle was captured")
	}
	s.Capture(b)
	s.UpdateFinish(2)
	if !s.Finish {
		t.Error("Finish must be set once Count reaches the population")
	}

	s.Begin()
	if s.Finish || s.Count != 0 || len(s.Particles) != 0 {
		t.Errorf("Begin must reset the session: %+v", s)
	}
}

func TestContainer_ReloadAdoptedAtTick(t *testing.T) {
	c := NewContainer(nil, newTestOptions(t, "particles: {number: {value: 4}, move: {outMode: bounce}}"), 100, 100)
	c.Start()

	next := newTestOptions(t, "particles: {number: {value: 4}, move: {outMode: wrap}}")
	c.Reload(next)
	if c.Options() == next {
		t.Fatal("options must not change before the next tick")
	}

	c.Update(FrameDuration60)
	if c.Options() != next {
		t.Fatal("options not adopted at tick start")
	}
	for _, p := range c.Particles() {
		if p.OutMode != components.OutModeWrap {
			t.Errorf("particle %d out mode %v not re-resolved", p.ID, p.OutMode)
		}
	}
}

func TestContainer_ResizeAndZeroCanvas(t *testing.T) {
	c := NewContainer(nil, newTestOptions(t, "particles: {number: {value: 5}}"), 100, 100)
	c.Start()

	c.Resize(0, 0)
	if snap := c.Update(FrameDuration60); len(snap.Particles) != 0 {
		t.Errorf("zero-sized canvas must give an empty snapshot, got %d", len(snap.Particles))
	}
	if c.Count() != 5 {
		t.Errorf("resize must keep particles, got %d", c.Count())
	}

	c.Resize(640, 480)
	snap := c.Update(FrameDuration60)
	if snap.Width != 640 || snap.Height != 480 || len(snap.Particles) != 5 {
		t.Errorf("unexpected snapshot after resize: %.0fx%.0f, %d particles", snap.Width, snap.Height, len(snap.Particles))
	}
}

func TestSnapshot_DoesNotAlias(t *testing.T) {
	c := NewContainer(nil, newTestOptions(t, "particles: {number: {value: 2}}"), 100, 100)
	c.Start()

	snap := c.Update(FrameDuration60)
	live := c.Particles()[0].Position
	snap.Particles[0].Position.X += 1000
	if c.Particles()[0].Position != live {
		t.Error("modifying the snapshot changed live particle state")
	}
}

func TestSnapshot_ResolvesOverlay(t *testing.T) {
	reg := NewRegistry()
	reg.Register("draw", func(c *Container) Interactor {
		var journal []string
		return &recordingInteractor{name: "draw", enabled: true, journal: &journal, onTouch: func(Delta) {
			ps := c.Particles()
			if len(ps) < 2 {
				return
			}
			c.Overlay().AddLink(OverlayLink{From: ps[0].ID, To: ps[1].ID, Opacity: 0.5})
			c.Overlay().AddMouseLink(OverlayMouseLink{ID: ps[0].ID, Opacity: 1})
			ps[1].Destroyed = true
		}}
	})

	c := NewContainer(reg, newTestOptions(t, "interactors: [draw]\nparticles: {number: {value: 2}, move: {enable: false}}"), 100, 100)
	c.Start()
	c.MouseMove(50, 50)

	snap := c.Update(FrameDuration60)
	if len(snap.Links) != 0 {
		t.Error("links to destroyed particles must be dropped")
	}
	if len(snap.MouseLinks) != 1 || snap.MouseLinks[0].To != (utils.Vector{X: 50, Y: 50}) {
		t.Errorf("unexpected mouse links: %+v", snap.MouseLinks)
	}

	c.MouseLeave()
	if snap := c.Update(FrameDuration60); len(snap.MouseLinks) != 0 {
		t.Error("mouse links must not be published without a pointer")
	}
}
