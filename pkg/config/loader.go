package config

import (
	"fmt"
	"log"
	"os"

	"github.com/decker502/particlefield/pkg/components"
	"gopkg.in/yaml.v3"
)

// LoadOptions 加载粒子场配置
//
// 从默认配置开始，按顺序合并每个 YAML 文件（后面的文件覆盖前面的字段），
// 然后规范化并验证结果。
//
// 参数:
//   - paths: 配置文件路径（如 "presets/links.yaml", "local.yaml"）
//
// 返回:
//   - *Options: 合并后的不可变配置
//   - error: 读取、解析或验证失败时返回错误
func LoadOptions(paths ...string) (*Options, error) {
	docs := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read options %s: %w", path, err)
		}
		docs = append(docs, data)
	}

	opts, err := ParseOptions(docs...)
	if err != nil {
		return nil, err
	}
	log.Printf("[Config] Loaded options from %d file(s)", len(paths))
	return opts, nil
}

// ParseOptions builds options from the defaults plus each YAML document in order.
func ParseOptions(docs ...[]byte) (*Options, error) {
	return Merge(Default(), docs...)
}

// Merge returns a copy of base with each YAML document applied on top.
// Fields absent from a document keep their previous value; lists are replaced
// wholesale. base is not modified.
func Merge(base *Options, docs ...[]byte) (*Options, error) {
	if base == nil {
		base = Default()
	}
	opts := base.Clone()

	for i, data := range docs {
		if err := yaml.Unmarshal(data, opts); err != nil {
			return nil, fmt.Errorf("failed to parse options document %d: %w", i, err)
		}
	}

	opts.Normalize()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

// Marshal encodes the options as YAML.
func (o *Options) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal options: %w", err)
	}
	return data, nil
}

// Clone returns a deep copy of the options.
func (o *Options) Clone() *Options {
	c := *o
	c.Interactors = append([]string(nil), o.Interactors...)
	c.Interactivity.Events.OnHover.Mode = append(ModeList(nil), o.Interactivity.Events.OnHover.Mode...)
	c.Interactivity.Events.OnClick.Mode = append(ModeList(nil), o.Interactivity.Events.OnClick.Mode...)
	c.Particles.Links.Triangles.Opacity = cloneFloat(o.Particles.Links.Triangles.Opacity)
	c.Particles.Links.Triangles.Color = cloneColor(o.Particles.Links.Triangles.Color)
	c.Interactivity.Modes.Grab.Links.Color = cloneColor(o.Interactivity.Modes.Grab.Links.Color)

	c.Infection.Stages = make([]InfectionStage, len(o.Infection.Stages))
	for i, s := range o.Infection.Stages {
		s.Duration = cloneFloat(s.Duration)
		if s.InfectedStage != nil {
			v := *s.InfectedStage
			s.InfectedStage = &v
		}
		c.Infection.Stages[i] = s
	}

	c.Emitters = make([]EmitterOptions, len(o.Emitters))
	for i, e := range o.Emitters {
		e.Particles.Color = cloneColor(e.Particles.Color)
		if e.Particles.Size != nil {
			v := *e.Particles.Size
			e.Particles.Size = &v
		}
		c.Emitters[i] = e
	}
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneColor(v *Color) *Color {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Normalize clamps numeric options into their valid ranges.
// Out-of-range values are corrected rather than rejected.
func (o *Options) Normalize() {
	if o.FPSLimit < 0 {
		o.FPSLimit = 0
	}
	// An explicit empty list disables every interactor.
	if o.Interactors == nil {
		o.Interactors = append([]string(nil), DefaultInteractorOrder...)
	}

	p := &o.Particles
	p.Number.Value = maxInt(p.Number.Value, 0)
	p.Number.Limit = maxInt(p.Number.Limit, 0)
	p.Opacity = clamp01(p.Opacity)
	p.Size = p.Size.ClampMin(0)
	p.Move.Speed = maxFloat(p.Move.Speed, 0)
	p.Move.Noise.Scale = maxFloat(p.Move.Noise.Scale, 0)
	p.Links.Distance = maxFloat(p.Links.Distance, 0)
	p.Links.Opacity = clamp01(p.Links.Opacity)
	p.Links.Width = maxFloat(p.Links.Width, 0)
	p.Links.Frequency = clamp01(p.Links.Frequency)
	p.Links.Triangles.Frequency = clamp01(p.Links.Triangles.Frequency)
	if p.Links.Triangles.Opacity != nil {
		v := clamp01(*p.Links.Triangles.Opacity)
		p.Links.Triangles.Opacity = &v
	}

	m := &o.Interactivity.Modes
	m.Attract.Distance = maxFloat(m.Attract.Distance, 0)
	m.Attract.Speed = maxFloat(m.Attract.Speed, 0)
	m.Attract.Duration = maxFloat(m.Attract.Duration, 0)
	m.Repulse.Distance = maxFloat(m.Repulse.Distance, 0)
	m.Repulse.Speed = maxFloat(m.Repulse.Speed, 0)
	m.Repulse.Duration = maxFloat(m.Repulse.Duration, 0)
	m.Bounce.Distance = maxFloat(m.Bounce.Distance, 0)
	m.Grab.Distance = maxFloat(m.Grab.Distance, 0)
	m.Grab.Links.Opacity = clamp01(m.Grab.Links.Opacity)
	m.Push.Quantity = maxInt(m.Push.Quantity, 0)
	m.Remove.Quantity = maxInt(m.Remove.Quantity, 0)

	inf := &o.Infection
	inf.Delay = maxFloat(inf.Delay, 0)
	inf.Infections = maxInt(inf.Infections, 0)
	for i := range inf.Stages {
		s := &inf.Stages[i]
		s.Rate = maxFloat(s.Rate, 0)
		s.Radius = maxFloat(s.Radius, 0)
		if s.InfectedStage != nil && (*s.InfectedStage < 0 || *s.InfectedStage >= len(inf.Stages)) {
			log.Printf("[Config] Warning: infection stage %d has invalid infectedStage %d, ignoring", i, *s.InfectedStage)
			s.InfectedStage = nil
		}
	}

	for i := range o.Emitters {
		e := &o.Emitters[i]
		if e.Name == "" {
			e.Name = fmt.Sprintf("emitter-%d", i)
		}
		// A zero delay would emit forever within one frame.
		e.Rate.Delay = e.Rate.Delay.ClampMin(0.01)
		e.Rate.Quantity = e.Rate.Quantity.ClampMin(0)
		e.Life.Count = maxInt(e.Life.Count, 0)
		e.Life.Duration = maxFloat(e.Life.Duration, 0)
		e.Life.Delay = maxFloat(e.Life.Delay, 0)
		e.Size.Width = clampFloat(e.Size.Width, 0, 100)
		e.Size.Height = clampFloat(e.Size.Height, 0, 100)
		if e.Particles.Size != nil {
			v := e.Particles.Size.ClampMin(0)
			e.Particles.Size = &v
		}
	}
}

// Validate resolves enumerated names and reports values that cannot be clamped.
func (o *Options) Validate() error {
	mode, err := components.ParseOutMode(o.Particles.Move.OutMode)
	if err != nil {
		return fmt.Errorf("particles.move.outMode: %w", err)
	}
	o.Particles.Move.outMode = mode

	for i := range o.Emitters {
		e := &o.Emitters[i]
		switch e.Direction {
		case "", "none", "top", "bottom", "left", "right":
		default:
			return fmt.Errorf("emitters[%d].direction: unknown direction %q", i, e.Direction)
		}

		e.Particles.hasOutMode = false
		if e.Particles.OutMode != "" {
			mode, err := components.ParseOutMode(e.Particles.OutMode)
			if err != nil {
				return fmt.Errorf("emitters[%d].particles.outMode: %w", i, err)
			}
			e.Particles.outMode = mode
			e.Particles.hasOutMode = true
		}
	}
	return nil
}

// UnmarshalYAML starts every emitter entry from the emitter defaults.
func (e *EmitterOptions) UnmarshalYAML(node *yaml.Node) error {
	type plain EmitterOptions
	p := plain(defaultEmitter())
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = EmitterOptions(p)
	return nil
}

// UnmarshalYAML starts every stage entry with rate 1.
func (s *InfectionStage) UnmarshalYAML(node *yaml.Node) error {
	type plain InfectionStage
	p := plain(InfectionStage{Rate: 1, Color: MustColor("#ff0000")})
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = InfectionStage(p)
	return nil
}

func maxInt(v, min int) int {
	if v < min {
		return min
	}
	return v
}

func maxFloat(v, min float64) float64 {
	if v < min {
		return min
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}
