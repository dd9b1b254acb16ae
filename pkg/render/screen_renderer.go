package render

import (
	"image"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/particlefield/pkg/engine"
)

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// whiteTexture returns the 1x1 white source texture for filled triangles.
func whiteTexture() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// ScreenRenderer draws snapshots onto an ebiten image.
//
// Draw order: background, triangles, links, mouse links, particles.
type ScreenRenderer struct {
	Background color.Color
	// Antialias smooths circles and lines at some GPU cost.
	Antialias bool

	vertices []ebiten.Vertex
	indices  []uint16
}

// NewScreenRenderer creates a renderer with a black background.
func NewScreenRenderer() *ScreenRenderer {
	return &ScreenRenderer{
		Background: color.Black,
		Antialias:  true,
	}
}

// Draw renders snap onto dst.
func (r *ScreenRenderer) Draw(dst *ebiten.Image, snap engine.Snapshot) {
	if r.Background != nil {
		dst.Fill(r.Background)
	}

	r.drawTriangles(dst, snap.Triangles)

	for _, l := range snap.Links {
		r.drawLine(dst, l)
	}
	for _, l := range snap.MouseLinks {
		r.drawLine(dst, l)
	}

	for _, p := range snap.Particles {
		if p.Size <= 0 || p.Opacity <= 0 {
			continue
		}
		vector.DrawFilledCircle(dst,
			float32(p.Position.X), float32(p.Position.Y), float32(p.Size),
			withOpacity(p.Color, p.Opacity), r.Antialias)
	}
}

func (r *ScreenRenderer) drawLine(dst *ebiten.Image, l engine.LinkView) {
	if l.Opacity <= 0 || l.Width <= 0 {
		return
	}
	vector.StrokeLine(dst,
		float32(l.From.X), float32(l.From.Y), float32(l.To.X), float32(l.To.Y),
		float32(l.Width), withOpacity(l.Color, l.Opacity), r.Antialias)
}

// maxBatchVertices keeps every vertex index of a batch within uint16.
const maxBatchVertices = 0xffff

// drawTriangles draws the triangles in as few DrawTriangles calls as the
// uint16 index limit allows.
func (r *ScreenRenderer) drawTriangles(dst *ebiten.Image, tris []engine.TriangleView) {
	op := &ebiten.DrawTrianglesOptions{AntiAlias: r.Antialias}
	r.batchTriangles(tris, func(vertices []ebiten.Vertex, indices []uint16) {
		dst.DrawTriangles(vertices, indices, whiteTexture(), op)
	})
}

// batchTriangles fills the vertex buffers and calls flush whenever the next
// triangle would overflow the index range, and once more at the end.
func (r *ScreenRenderer) batchTriangles(tris []engine.TriangleView, flush func([]ebiten.Vertex, []uint16)) {
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]

	for _, t := range tris {
		if t.Opacity <= 0 {
			continue
		}
		// uint16 索引上限：提交当前批次并重新开始
		if len(r.vertices)+3 > maxBatchVertices {
			flush(r.vertices, r.indices)
			r.vertices = r.vertices[:0]
			r.indices = r.indices[:0]
		}
		cr, cg, cb, ca := colorComponents(t.Color, t.Opacity)
		base := uint16(len(r.vertices))
		for _, v := range [3][2]float64{{t.A.X, t.A.Y}, {t.B.X, t.B.Y}, {t.C.X, t.C.Y}} {
			r.vertices = append(r.vertices, ebiten.Vertex{
				DstX: float32(v[0]), DstY: float32(v[1]),
				SrcX: 1, SrcY: 1,
				ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca,
			})
		}
		r.indices = append(r.indices, base, base+1, base+2)
	}
	if len(r.indices) > 0 {
		flush(r.vertices, r.indices)
	}
}

// withOpacity returns c with its alpha multiplied by opacity (premultiplied).
func withOpacity(c color.RGBA, opacity float64) color.RGBA {
	if opacity >= 1 {
		return c
	}
	if opacity <= 0 {
		return color.RGBA{}
	}
	return color.RGBA{
		R: uint8(float64(c.R) * opacity),
		G: uint8(float64(c.G) * opacity),
		B: uint8(float64(c.B) * opacity),
		A: uint8(float64(c.A) * opacity),
	}
}

// colorComponents returns premultiplied vertex colour components.
func colorComponents(c color.RGBA, opacity float64) (r, g, b, a float32) {
	pm := withOpacity(c, opacity)
	return float32(pm.R) / 255, float32(pm.G) / 255, float32(pm.B) / 255, float32(pm.A) / 255
}
