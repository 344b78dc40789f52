package types

// Interpolate returns the presentation position between two consecutive
// cells at tick progress t in [0,1]. When the move crossed the wrap seam the
// entity slides out along the shortest path and reappears on the other side.
// It never feeds back into simulation state.
func Interpolate(g Grid, prev, cur Vec, t float64) Vec {
	if t <= 0 {
		return prev
	}
	if t >= 1 {
		return cur
	}
	d := g.Delta(prev, cur)
	return g.Wrap(prev.Add(d.Scale(t)))
}
