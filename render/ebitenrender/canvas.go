// Package ebitenrender draws the sandbox onto Ebiten images.
package ebitenrender

import (
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/grabbox/render"
)

var (
	whiteOnce     sync.Once
	whiteSubImage *ebiten.Image
)

// solidSource returns a 1x1 white source image for filling triangles.
func solidSource() *ebiten.Image {
	whiteOnce.Do(func() {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	})
	return whiteSubImage
}

// Canvas draws onto an Ebiten image. Every primitive is built as a
// vector path, mapped through the current transform and filled with the
// current colour.
type Canvas struct {
	dst      *ebiten.Image
	geoM     ebiten.GeoM
	color    color.RGBA
	path     vector.Path
	vertices []ebiten.Vertex
	indices  []uint16
}

var _ render.Canvas = (*Canvas)(nil)

// NewCanvas returns a canvas targeting dst.
func NewCanvas(dst *ebiten.Image) *Canvas {
	return &Canvas{dst: dst, color: color.RGBA{A: 255}}
}

// Retarget points the canvas at a new frame and clears its transform, so one
// canvas can be reused across frames.
func (c *Canvas) Retarget(dst *ebiten.Image) {
	c.dst = dst
	c.geoM.Reset()
}

func (c *Canvas) SetColor(col color.RGBA) {
	c.color = col
}

func (c *Canvas) SetTransform(a, b, cc, d, e, f float64) {
	c.geoM.Reset()
	c.geoM.SetElement(0, 0, a)
	c.geoM.SetElement(1, 0, b)
	c.geoM.SetElement(0, 1, cc)
	c.geoM.SetElement(1, 1, d)
	c.geoM.SetElement(0, 2, e)
	c.geoM.SetElement(1, 2, f)
}

func (c *Canvas) ResetTransform() {
	c.geoM.Reset()
}

func (c *Canvas) DrawCircle(x, y, radius float64) {
	var p vector.Path
	p.Arc(float32(x), float32(y), float32(radius), 0, 2*math.Pi, vector.Clockwise)
	p.Close()
	c.fill(&p)
}

func (c *Canvas) DrawRect(x, y, w, h float64) {
	var p vector.Path
	p.MoveTo(float32(x), float32(y))
	p.LineTo(float32(x+w), float32(y))
	p.LineTo(float32(x+w), float32(y+h))
	p.LineTo(float32(x), float32(y+h))
	p.Close()
	c.fill(&p)
}

func (c *Canvas) BeginPath() {
	c.path = vector.Path{}
}

func (c *Canvas) MoveTo(x, y float64) {
	c.path.MoveTo(float32(x), float32(y))
}

func (c *Canvas) LineTo(x, y float64) {
	c.path.LineTo(float32(x), float32(y))
}

func (c *Canvas) Fill() {
	c.path.Close()
	c.fill(&c.path)
}

func (c *Canvas) fill(p *vector.Path) {
	if c.dst == nil {
		return
	}
	c.vertices, c.indices = p.AppendVerticesAndIndicesForFilling(c.vertices[:0], c.indices[:0])
	if len(c.indices) == 0 {
		return
	}

	r := float32(c.color.R) / 255
	g := float32(c.color.G) / 255
	b := float32(c.color.B) / 255
	a := float32(c.color.A) / 255
	for i := range c.vertices {
		v := &c.vertices[i]
		x, y := c.geoM.Apply(float64(v.DstX), float64(v.DstY))
		v.DstX, v.DstY = float32(x), float32(y)
		v.SrcX, v.SrcY = 1, 1
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
	}

	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	c.dst.DrawTriangles(c.vertices, c.indices, solidSource(), op)
}
