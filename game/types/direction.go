package types

// Direction is a cardinal heading on the grid
type Direction int

const (
	None Direction = iota
	Up
	Right
	Down
	Left
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "none"
	}
}

// Vec converts a Direction into a unit step; Up is +Y.
func (d Direction) Vec() Vec {
	switch d {
	case Up:
		return Vec{X: 0, Y: 1}
	case Right:
		return Vec{X: 1, Y: 0}
	case Down:
		return Vec{X: 0, Y: -1}
	case Left:
		return Vec{X: -1, Y: 0}
	default:
		return Vec{}
	}
}

// Opposite returns the reversed heading. None has no opposite.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Right:
		return Left
	case Down:
		return Up
	case Left:
		return Right
	default:
		return None
	}
}

// TurnLeft returns the heading after a quarter turn counter-clockwise.
func (d Direction) TurnLeft() Direction {
	switch d {
	case Up:
		return Left
	case Right:
		return Up
	case Down:
		return Right
	case Left:
		return Down
	default:
		return d
	}
}

// TurnRight returns the heading after a quarter turn clockwise.
func (d Direction) TurnRight() Direction {
	switch d {
	case Up:
		return Right
	case Right:
		return Down
	case Down:
		return Left
	case Left:
		return Up
	default:
		return d
	}
}

// Directions lists the four playable headings in clockwise order.
var Directions = [4]Direction{Up, Right, Down, Left}
