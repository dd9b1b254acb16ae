package engine

import (
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/utils"
)

// MouseMove records the pointer position in canvas coordinates.
func (c *Container) MouseMove(x, y float64) {
	pos := utils.Vector{X: x, Y: y}
	c.interactivity.Mouse.Position = &pos
	c.interactivity.Status = MouseMove
}

// MouseLeave records that the pointer left the canvas.
func (c *Container) MouseLeave() {
	c.interactivity.Mouse.Position = nil
	c.interactivity.Status = MouseLeave
}

// MouseDown starts a click at (x, y) and runs the configured click modes.
func (c *Container) MouseDown(x, y float64) {
	pos := utils.Vector{X: x, Y: y}
	c.interactivity.Mouse.ClickPosition = &pos
	c.interactivity.Mouse.Clicking = true

	if c.state != StateRunning {
		return
	}

	onClick := c.options.Interactivity.Events.OnClick
	if !onClick.Enable {
		return
	}
	for _, mode := range onClick.Mode {
		c.handleClickMode(mode, pos)
	}
}

// MouseUp ends the current click; held sessions are released on the next frame.
func (c *Container) MouseUp() {
	c.interactivity.Mouse.Clicking = false
	c.attractSession.End()
	c.repulseSession.End()
}

func (c *Container) handleClickMode(mode string, pos utils.Vector) {
	modes := c.options.Interactivity.Modes
	switch mode {
	case config.ModeAttract:
		c.attractSession.Begin()
	case config.ModeRepulse:
		c.repulseSession.Begin()
	case config.ModePush:
		for i := 0; i < modes.Push.Quantity; i++ {
			at := pos
			if c.SpawnParticle(&at, "") == nil {
				break
			}
		}
	case config.ModeRemove:
		c.RemoveParticles(modes.Remove.Quantity)
	}
}

// advanceSessions auto-releases sessions held longer than their mode duration.
func (c *Container) advanceSessions(delta Delta) {
	modes := c.options.Interactivity.Modes
	advanceSession(&c.attractSession, modes.Attract.Duration, delta)
	advanceSession(&c.repulseSession, modes.Repulse.Duration, delta)
}

func advanceSession(s *ClickSession, duration float64, delta Delta) {
	if !s.Held() {
		return
	}
	s.HeldFor += delta.Value
	if duration > 0 && s.HeldFor >= duration*1000 {
		s.End()
	}
}
