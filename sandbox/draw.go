package sandbox

import (
	"fmt"
	"image/color"

	"github.com/milk9111/grabbox/common"
	"github.com/milk9111/grabbox/physics"
	"github.com/milk9111/grabbox/pointer"
	"github.com/milk9111/grabbox/render"
	"github.com/milk9111/grabbox/scene"
	"go.uber.org/zap"
)

const (
	pressedCursorRadius  = 0.02
	releasedCursorRadius = 0.03
	pressedCursorAlpha   = 255
	releasedCursorAlpha  = 150
)

// Draw emits every object, then every visible pointer, in render space.
func (s *Sandbox) Draw(canvas render.Canvas) {
	for _, obj := range s.registry.Objects() {
		s.drawObject(canvas, obj)
	}
	s.machine.Each(func(_ pointer.Key, st *pointer.State) {
		if st.Render {
			drawCursor(canvas, st)
		}
	})
}

func (s *Sandbox) drawObject(canvas render.Canvas, obj scene.Object) {
	colliders, err := s.world.Colliders(obj.Body)
	if err != nil {
		s.logger.Debug("sandbox: skipping object", zap.Stringer("body", obj.Body), zap.Error(err))
		return
	}

	for _, c := range colliders {
		if u, ok := c.Shape.(physics.Unsupported); ok {
			s.logger.Warn("sandbox: unsupported shape", zap.Stringer("body", obj.Body), zap.String("class", u.Class))
			continue
		}

		canvas.SetTransform(c.Transform.Matrix(1 / common.WorldScaleFactor))
		canvas.SetColor(obj.Color)

		switch shape := c.Shape.(type) {
		case physics.Ball:
			canvas.DrawCircle(0, 0, shape.Radius)
		case physics.Box:
			hx, hy := shape.HalfExtents.X, shape.HalfExtents.Y
			canvas.DrawRect(-hx, -hy, hx*2, hy*2)
		case physics.ConvexPolygon:
			if len(shape.Points) == 0 {
				break
			}
			canvas.BeginPath()
			canvas.MoveTo(shape.Points[0].X, shape.Points[0].Y)
			for _, p := range shape.Points[1:] {
				canvas.LineTo(p.X, p.Y)
			}
			canvas.LineTo(shape.Points[0].X, shape.Points[0].Y)
			canvas.Fill()
		default:
			s.logger.Warn("sandbox: unhandled shape", zap.String("type", fmt.Sprintf("%T", shape)))
		}
		canvas.ResetTransform()
	}
}

func drawCursor(canvas render.Canvas, st *pointer.State) {
	radius, alpha := releasedCursorRadius, uint8(releasedCursorAlpha)
	if st.Pressed {
		radius, alpha = pressedCursorRadius, uint8(pressedCursorAlpha)
	}
	x, y := common.ToRender(st.Cursor)
	canvas.SetColor(color.RGBA{R: st.Color.R, G: st.Color.G, B: st.Color.B, A: alpha})
	canvas.DrawCircle(x, y, common.ToRenderLength(radius))
}
