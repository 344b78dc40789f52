// Package input turns raw pointer gestures into grid directions.
package input

import (
	"math"

	"torus-snake/game/types"
)

// Mapper recognises swipes. Coordinates are y-up; front-ends with a y-down
// screen flip before calling Map.
type Mapper struct {
	MinSwipeDistance float64
}

func NewMapper(minSwipeDistance float64) Mapper {
	if minSwipeDistance <= 0 {
		minSwipeDistance = types.DefaultMinSwipeDistance
	}
	return Mapper{MinSwipeDistance: minSwipeDistance}
}

// Map returns the dominant direction of the drag from start to end. Drags
// shorter than MinSwipeDistance are not gestures.
func (m Mapper) Map(start, end types.Vec) (types.Direction, bool) {
	delta := end.Sub(start)
	if delta.Len() < m.MinSwipeDistance {
		return types.None, false
	}
	if math.Abs(delta.X) > math.Abs(delta.Y) {
		if delta.X > 0 {
			return types.Right, true
		}
		return types.Left, true
	}
	if delta.Y > 0 {
		return types.Up, true
	}
	return types.Down, true
}
