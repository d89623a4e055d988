package scene

const (
	floorHalfDepth = 0.02
	floorHeight    = 1.5 - floorHalfDepth

	stackBoxSize    = 0.1
	stackBoxPadding = 0.01

	// dropSpacing separates loose shapes that start in the same column.
	dropSpacing = 0.25
)

// Default builds the startup scene: a kinematic floor, a 3x3 stack of boxes,
// four planks, five triangles and three balls.
func Default(r *Registry) error {
	floor := FloorColor
	if _, err := r.AddRectangle(0.5, floorHeight+floorHalfDepth, 4.0, floorHalfDepth, true, &floor); err != nil {
		return err
	}

	step := stackBoxSize*2 + stackBoxPadding
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			x := 0.8 + float64(i)*step
			y := floorHeight - float64(j)*step
			if _, err := r.AddRectangle(x, y, stackBoxSize, stackBoxSize, false, nil); err != nil {
				return err
			}
		}
	}

	for j := 0; j < 4; j++ {
		if _, err := r.AddRectangle(1.8, float64(j)*0.2, 0.3, 0.05, false, nil); err != nil {
			return err
		}
	}

	for i := 0; i < 5; i++ {
		if _, err := r.AddRegularPolygon(2.0, 0.5-float64(i)*dropSpacing, 3, 0.12); err != nil {
			return err
		}
	}

	for i := 0; i < 3; i++ {
		if _, err := r.AddBall(0.4, 0.5-float64(i)*dropSpacing, 0.1); err != nil {
			return err
		}
	}
	return nil
}
