package interactions

import (
	"testing"

	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/engine"
	"github.com/decker502/particlefield/pkg/utils"
)

// newTestContainer starts a container with the built-in registry. The
// overlay is applied on top of the defaults with a fixed seed.
func newTestContainer(t *testing.T, overlay string, width, height float64) *engine.Container {
	t.Helper()
	opts, err := config.ParseOptions([]byte("seed: 7\n"), []byte(overlay))
	if err != nil {
		t.Fatalf("ParseOptions failed: %v", err)
	}
	c := engine.NewContainer(NewRegistry(), opts, width, height)
	if !c.Start() {
		t.Fatal("Start failed")
	}
	return c
}

func TestHoverFactor(t *testing.T) {
	const radius = 100.0

	prev := HoverFactor(0, radius, 1)
	if prev != maxHoverFactor {
		t.Errorf("factor at d=0 = %v, want clamp %v", prev, maxHoverFactor)
	}
	for d := 1.0; d <= radius; d++ {
		f := HoverFactor(d, radius, 1)
		if f > prev {
			t.Fatalf("factor increased at d=%v: %v > %v", d, f, prev)
		}
		prev = f
	}
	if f := HoverFactor(radius, radius, 1); f != 0 {
		t.Errorf("factor at radius = %v, want 0", f)
	}
	if f := HoverFactor(150, radius, 1); f != 0 {
		t.Errorf("factor beyond radius = %v, want 0", f)
	}
	if f := HoverFactor(10, 0, 1); f != 0 {
		t.Errorf("zero radius must give 0, got %v", f)
	}
}

// TestAttractor_HoverScenario 100 个粒子，800×600 画布，鼠标位于中心
func TestAttractor_HoverScenario(t *testing.T) {
	c := newTestContainer(t, `
interactors: [attract]
particles:
  number: {value: 100}
  move: {enable: false}
interactivity:
  events:
    onHover: {enable: true, mode: attract}
  modes:
    attract: {distance: 100}
`, 800, 600)

	center := utils.Vector{X: 400, Y: 300}
	// 保证半径内一定有粒子
	for i, p := range c.Particles()[:10] {
		p.Position = utils.Vector{X: 400 + float64(i*10+3), Y: 300 - float64(i)}
	}

	before := make(map[int]utils.Vector)
	for i, p := range c.Particles() {
		before[i] = p.Position
	}

	c.MouseMove(center.X, center.Y)
	c.Update(engine.FrameDuration60)

	inside := 0
	for i, p := range c.Particles() {
		d0 := utils.GetDistance(before[i], center)
		d1 := utils.GetDistance(p.Position, center)
		switch {
		case d0 < 100:
			inside++
			if d1 >= d0 {
				t.Errorf("particle %d at %.2f did not move closer (now %.2f)", i, d0, d1)
			}
		case p.Position != before[i]:
			t.Errorf("particle %d beyond radius moved from %+v to %+v", i, before[i], p.Position)
		}
	}
	if inside < 10 {
		t.Errorf("expected at least 10 particles inside the radius, got %d", inside)
	}
}

func TestAttractor_HoverRespectsBounceBounds(t *testing.T) {
	c := newTestContainer(t, `
interactors: [attract]
particles:
  number: {value: 1}
  size: 5
  move: {enable: false, outMode: bounce}
interactivity:
  events:
    onHover: {enable: true, mode: attract}
  modes:
    attract: {distance: 100}
`, 200, 200)

	p := c.Particles()[0]
	p.Position = utils.Vector{X: 100, Y: 6}
	// 鼠标在粒子上方画布外：y 方向的目标越界，只允许 x 方向移动
	c.MouseMove(110, -30)
	c.Update(engine.FrameDuration60)

	if p.Position.Y != 6 {
		t.Errorf("y moved out of bounds to %.2f", p.Position.Y)
	}
	if p.Position.X <= 100 {
		t.Errorf("x should move towards the pointer, got %.2f", p.Position.X)
	}
}

// TestAttractor_HoverReachesOffCanvas 画布边缘外仍存活的粒子也会被吸引
func TestAttractor_HoverReachesOffCanvas(t *testing.T) {
	tests := []struct {
		name    string
		outMode string
		start   utils.Vector
	}{
		{"wrap just past the left edge", "wrap", utils.Vector{X: -2, Y: 300}},
		{"none well outside", "none", utils.Vector{X: -40, Y: 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContainer(t, `
interactors: [attract]
particles:
  number: {value: 1}
  size: 4
  move: {enable: false, outMode: `+tt.outMode+`}
interactivity:
  events:
    onHover: {enable: true, mode: attract}
  modes:
    attract: {distance: 100}
`, 800, 600)

			p := c.Particles()[0]
			p.Position = tt.start
			pointer := utils.Vector{X: 20, Y: 300}

			c.MouseMove(pointer.X, pointer.Y)
			c.Update(engine.FrameDuration60)

			d0 := utils.GetDistance(tt.start, pointer)
			if d1 := utils.GetDistance(p.Position, pointer); d1 >= d0 {
				t.Errorf("particle at %+v (%.0fpx from the pointer) was not attracted, now %+v", tt.start, d0, p.Position)
			}
		})
	}
}

func TestRepulser_Hover(t *testing.T) {
	c := newTestContainer(t, `
interactors: [repulse]
particles:
  number: {value: 2}
  move: {enable: false}
interactivity:
  events:
    onHover: {enable: true, mode: repulse}
  modes:
    repulse: {distance: 100}
`, 800, 600)

	near, far := c.Particles()[0], c.Particles()[1]
	near.Position = utils.Vector{X: 430, Y: 300}
	far.Position = utils.Vector{X: 600, Y: 300}

	c.MouseMove(400, 300)
	c.Update(engine.FrameDuration60)

	if near.Position.X <= 430 || near.Position.Y != 300 {
		t.Errorf("near particle not pushed away: %+v", near.Position)
	}
	if far.Position != (utils.Vector{X: 600, Y: 300}) {
		t.Errorf("far particle moved: %+v", far.Position)
	}
}

func TestAttractor_ClickTransactional(t *testing.T) {
	for _, mode := range []string{"attract", "repulse"} {
		t.Run(mode, func(t *testing.T) {
			c := newTestContainer(t, `
interactors: [attract, repulse]
particles:
  number: {value: 5}
  move: {enable: false}
interactivity:
  events:
    onHover: {enable: false}
    onClick: {enable: true, mode: `+mode+`}
  modes:
    attract: {distance: 200, duration: 0}
    repulse: {distance: 200, duration: 0}
`, 800, 600)

			initial := make(map[*components.Particle]components.Velocity)
			for i, p := range c.Particles() {
				p.Position = utils.Vector{X: 400 + float64(20*(i+1)), Y: 300}
				initial[p] = p.InitialVelocity
			}

			session := c.AttractSession()
			if mode == "repulse" {
				session = c.RepulseSession()
			}

			c.MouseDown(400, 300)
			for k := 0; k < 3; k++ {
				c.Update(engine.FrameDuration60)
			}

			if session.Count != 5 || len(session.Particles) != 5 {
				t.Fatalf("expected 5 captured particles, got count %d, %d particles", session.Count, len(session.Particles))
			}
			if !session.Finish {
				t.Error("Finish must be set once the whole population is captured")
			}
			for _, p := range c.Particles() {
				towards := p.Velocity.Horizontal < 0
				if (mode == "attract") != towards {
					t.Errorf("particle at x=%.0f has velocity %+v for %s", p.Position.X, p.Velocity, mode)
				}
			}

			c.MouseUp()
			c.Update(engine.FrameDuration60)

			for p, v := range initial {
				if p.Velocity != v {
					t.Errorf("velocity not restored: %+v, want %+v", p.Velocity, v)
				}
			}
			if len(session.Particles) != 0 {
				t.Error("captured set must be cleared on release")
			}
		})
	}
}

func TestBouncer(t *testing.T) {
	c := newTestContainer(t, `
interactors: [bounce]
particles:
  number: {value: 2}
  move: {enable: false}
interactivity:
  events:
    onHover: {enable: true, mode: bounce}
  modes:
    bounce: {distance: 50}
`, 800, 600)

	incoming, leaving := c.Particles()[0], c.Particles()[1]
	incoming.Position = utils.Vector{X: 420, Y: 300}
	incoming.Velocity = components.Velocity{Horizontal: -1}
	leaving.Position = utils.Vector{X: 380, Y: 300}
	leaving.Velocity = components.Velocity{Horizontal: -1}

	c.MouseMove(400, 300)
	c.Update(engine.FrameDuration60)

	if incoming.Velocity.Horizontal != 1 {
		t.Errorf("incoming velocity not reflected: %+v", incoming.Velocity)
	}
	if incoming.Position != (utils.Vector{X: 450, Y: 300}) {
		t.Errorf("incoming particle not pushed to the circle edge: %+v", incoming.Position)
	}
	if leaving.Velocity.Horizontal != -1 || leaving.Position.X != 380 {
		t.Errorf("particle moving away must be untouched: %+v at %+v", leaving.Velocity, leaving.Position)
	}
}

// TestBouncer_RespectsBounceBounds 推回圆周时不越过 bounce 粒子的画布边界
func TestBouncer_RespectsBounceBounds(t *testing.T) {
	tests := []struct {
		name     string
		start    utils.Vector
		velocity components.Velocity
		wantX    float64
		movesY   bool
	}{
		{"edge beyond the left wall", utils.Vector{X: 10, Y: 100}, components.Velocity{Horizontal: 1}, 10, false},
		{"diagonal keeps the in-bounds axis", utils.Vector{X: 10, Y: 110}, components.Velocity{Horizontal: 1, Vertical: -1}, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestContainer(t, `
interactors: [bounce]
particles:
  number: {value: 1}
  size: 5
  move: {enable: false, outMode: bounce}
interactivity:
  events:
    onHover: {enable: true, mode: bounce}
  modes:
    bounce: {distance: 50}
`, 200, 200)

			p := c.Particles()[0]
			p.Position = tt.start
			p.Velocity = tt.velocity

			c.MouseMove(20, 100)
			c.Update(engine.FrameDuration60)

			if p.Position.X != tt.wantX {
				t.Errorf("x = %.2f, want %.2f", p.Position.X, tt.wantX)
			}
			if p.Position.X < p.Size || p.Position.X > 200-p.Size || p.Position.Y < p.Size || p.Position.Y > 200-p.Size {
				t.Errorf("particle pushed out of bounds to %+v", p.Position)
			}
			if moved := p.Position.Y != tt.start.Y; moved != tt.movesY {
				t.Errorf("y moved = %v, want %v (now %+v)", moved, tt.movesY, p.Position)
			}
			if p.Velocity.Horizontal >= 0 {
				t.Errorf("velocity not reflected: %+v", p.Velocity)
			}
		})
	}
}

func TestGrabber(t *testing.T) {
	c := newTestContainer(t, `
interactors: [grab]
particles:
  number: {value: 2}
  move: {enable: false}
interactivity:
  events:
    onHover: {enable: true, mode: grab}
  modes:
    grab: {distance: 100, links: {opacity: 1}}
`, 800, 600)

	c.Particles()[0].Position = utils.Vector{X: 450, Y: 300}
	c.Particles()[1].Position = utils.Vector{X: 700, Y: 300}

	c.MouseMove(400, 300)
	snap := c.Update(engine.FrameDuration60)

	if len(snap.MouseLinks) != 1 {
		t.Fatalf("expected 1 mouse link, got %d", len(snap.MouseLinks))
	}
	link := snap.MouseLinks[0]
	if link.Opacity != 0.5 {
		t.Errorf("opacity = %v, want 0.5", link.Opacity)
	}
	if link.To != (utils.Vector{X: 400, Y: 300}) {
		t.Errorf("link must end at the pointer, got %+v", link.To)
	}
}
