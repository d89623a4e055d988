package ebitenrender

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/grabbox/common"
	"golang.org/x/image/colornames"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
	debugStrokeWidth    = 1
)

// DrawPhysicsDebug outlines every shape in space on top of screen.
func DrawPhysicsDebug(space *cp.Space, screen *ebiten.Image) {
	if space == nil || screen == nil {
		return
	}
	cp.DrawSpace(space, &physicsDebugDrawer{screen: screen})
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	half := size / 2
	if size <= 0 {
		half = debugDotSize / 2
	}
	x, y := common.ToRender(pos)
	c := toNRGBA(fill)
	vector.StrokeLine(d.screen, float32(x-half), float32(y), float32(x+half), float32(y), debugStrokeWidth, c, false)
	vector.StrokeLine(d.screen, float32(x), float32(y-half), float32(x), float32(y+half), debugStrokeWidth, c, false)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return toFColor(colornames.Limegreen)
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape != nil && shape.Body() != nil && shape.Body().GetType() != cp.BODY_DYNAMIC {
		return toFColor(colornames.Cornflowerblue)
	}
	return toFColor(colornames.Orchid)
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return toFColor(colornames.Orange)
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return toFColor(colornames.Red)
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := common.ToRender(a)
	x2, y2 := common.ToRender(b)
	vector.StrokeLine(d.screen, float32(x1), float32(y1), float32(x2), float32(y2), debugStrokeWidth, toNRGBA(c), true)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

func toFColor(c color.RGBA) cp.FColor {
	return cp.FColor{R: float32(c.R) / 255, G: float32(c.G) / 255, B: float32(c.B) / 255, A: float32(c.A) / 255}
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
