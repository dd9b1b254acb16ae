package interactions

import (
	"sort"

	"github.com/decker502/particlefield/pkg/components"
	"github.com/decker502/particlefield/pkg/config"
	"github.com/decker502/particlefield/pkg/ecs"
	"github.com/decker502/particlefield/pkg/engine"
	"github.com/decker502/particlefield/pkg/utils"
)

// pairKey identifies an unordered particle pair.
type pairKey struct {
	a, b ecs.EntityID
}

func newPairKey(a, b ecs.EntityID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// tripleKey identifies an unordered particle triple.
type tripleKey struct {
	a, b, c ecs.EntityID
}

func newTripleKey(a, b, c ecs.EntityID) tripleKey {
	ids := []ecs.EntityID{a, b, c}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return tripleKey{a: ids[0], b: ids[1], c: ids[2]}
}

// Linker connects particles closer than links.distance and fills triangles
// between mutually linked triples.
//
// Each pair (and triple) draws one random value the first time it is seen;
// the pair links whenever that value is <= the configured frequency, so a
// given pair flickers neither between frames nor after a reload.
type Linker struct {
	container *engine.Container

	linkFreq     map[pairKey]float64
	triangleFreq map[tripleKey]float64
}

// NewLinker creates the links interactor.
func NewLinker(c *engine.Container) engine.Interactor {
	return &Linker{
		container:    c,
		linkFreq:     make(map[pairKey]float64),
		triangleFreq: make(map[tripleKey]float64),
	}
}

// Name implements engine.Interactor.
func (l *Linker) Name() string {
	return config.InteractorLinks
}

// IsEnabled implements engine.Interactor.
func (l *Linker) IsEnabled() bool {
	return l.container.Options().Particles.Links.Enable
}

// ParticleCreated implements engine.ParticleInitializer.
func (l *Linker) ParticleCreated(p *components.Particle) {
	l.container.Entities().AddComponent(p.ID, &components.LinkComponent{})
}

// Reset clears the links of the previous frame.
func (l *Linker) Reset() {
	em := l.container.Entities()
	for _, p := range l.container.Particles() {
		if links, ok := ecs.GetComponent[*components.LinkComponent](em, p.ID); ok {
			links.Partners = links.Partners[:0]
		}
	}
	l.pruneCaches()
}

// Interact implements engine.Interactor.
func (l *Linker) Interact(delta engine.Delta) {
	opts := l.container.Options().Particles.Links
	if opts.Distance <= 0 {
		return
	}
	em := l.container.Entities()
	tree := l.container.QuadTree()
	rgba := opts.Color.Resolve(l.container.Rand())

	for _, p1 := range l.container.Particles() {
		if p1.Destroyed {
			continue
		}
		links1, ok := ecs.GetComponent[*components.LinkComponent](em, p1.ID)
		if !ok {
			continue
		}

		for _, p2 := range tree.QueryCircle(p1.Position, opts.Distance) {
			if p2 == p1 || p2.Destroyed {
				continue
			}
			links2, ok := ecs.GetComponent[*components.LinkComponent](em, p2.ID)
			if !ok || hasPartner(links1, p2.ID) || hasPartner(links2, p1.ID) {
				continue
			}

			d := utils.GetDistance(p1.Position, p2.Position)
			opacity := (1 - d/opts.Distance) * opts.Opacity
			if opacity <= 0 {
				continue
			}
			if l.pairFrequency(p1.ID, p2.ID) > opts.Frequency {
				continue
			}

			links1.Partners = append(links1.Partners, components.LinkPartner{ID: p2.ID, Opacity: opacity})
			l.container.Overlay().AddLink(engine.OverlayLink{
				From: p1.ID, To: p2.ID,
				Opacity: opacity, Width: opts.Width, Color: rgba,
			})
		}
	}

	if opts.Triangles.Enable {
		l.triangles(opts)
	}
}

// triangles emits a triangle for every mutually linked triple.
func (l *Linker) triangles(opts config.LinksOptions) {
	em := l.container.Entities()

	// 无向邻接表
	adjacency := make(map[ecs.EntityID]map[ecs.EntityID]bool)
	connect := func(a, b ecs.EntityID) {
		if adjacency[a] == nil {
			adjacency[a] = make(map[ecs.EntityID]bool)
		}
		adjacency[a][b] = true
	}
	for _, p := range l.container.Particles() {
		links, ok := ecs.GetComponent[*components.LinkComponent](em, p.ID)
		if !ok {
			continue
		}
		for _, partner := range links.Partners {
			connect(p.ID, partner.ID)
			connect(partner.ID, p.ID)
		}
	}

	opacity := opts.Opacity
	if opts.Triangles.Opacity != nil {
		opacity = *opts.Triangles.Opacity
	}
	fill := opts.Color
	if opts.Triangles.Color != nil {
		fill = *opts.Triangles.Color
	}
	rgba := fill.Resolve(l.container.Rand())

	for _, p := range l.container.Particles() {
		a := p.ID
		for _, b := range sortedNeighbours(adjacency[a], a) {
			for _, c := range sortedNeighbours(adjacency[b], b) {
				if !adjacency[a][c] {
					continue
				}
				if l.tripleFrequency(a, b, c) > opts.Triangles.Frequency {
					continue
				}
				l.container.Overlay().AddTriangle(engine.OverlayTriangle{
					A: a, B: b, C: c, Opacity: opacity, Color: rgba,
				})
			}
		}
	}
}

// sortedNeighbours returns the neighbours with an ID greater than self.
func sortedNeighbours(set map[ecs.EntityID]bool, self ecs.EntityID) []ecs.EntityID {
	result := make([]ecs.EntityID, 0, len(set))
	for id := range set {
		if id > self {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

func hasPartner(links *components.LinkComponent, id ecs.EntityID) bool {
	for _, partner := range links.Partners {
		if partner.ID == id {
			return true
		}
	}
	return false
}

func (l *Linker) pairFrequency(a, b ecs.EntityID) float64 {
	key := newPairKey(a, b)
	v, ok := l.linkFreq[key]
	if !ok {
		v = l.container.Rand().Float64()
		l.linkFreq[key] = v
	}
	return v
}

func (l *Linker) tripleFrequency(a, b, c ecs.EntityID) float64 {
	key := newTripleKey(a, b, c)
	v, ok := l.triangleFreq[key]
	if !ok {
		v = l.container.Rand().Float64()
		l.triangleFreq[key] = v
	}
	return v
}

// pruneCaches drops cached rolls of particles that no longer carry a link
// component once the caches have grown well beyond the population.
func (l *Linker) pruneCaches() {
	em := l.container.Entities()
	limit := 8*l.container.Count() + 1024
	linked := func(id ecs.EntityID) bool {
		return ecs.HasComponent[*components.LinkComponent](em, id)
	}

	if len(l.linkFreq) > limit {
		for key := range l.linkFreq {
			if !linked(key.a) || !linked(key.b) {
				delete(l.linkFreq, key)
			}
		}
	}
	if len(l.triangleFreq) > limit {
		for key := range l.triangleFreq {
			if !linked(key.a) || !linked(key.b) || !linked(key.c) {
				delete(l.triangleFreq, key)
			}
		}
	}
}

// Detach implements engine.Detacher.
func (l *Linker) Detach() {
	em := l.container.Entities()
	for _, id := range ecs.GetEntitiesWith1[*components.LinkComponent](em) {
		ecs.RemoveComponent[*components.LinkComponent](em, id)
	}
	l.linkFreq = make(map[pairKey]float64)
	l.triangleFreq = make(map[tripleKey]float64)
}

// LinkFrequencyCacheSize returns the number of cached pair rolls.
func (l *Linker) LinkFrequencyCacheSize() int {
	return len(l.linkFreq)
}
