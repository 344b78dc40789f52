package types

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Vec is a point in world units. Grid cells are Vecs quantized to the cell size.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec) Scale(f float64) Vec { return Vec{X: v.X * f, Y: v.Y * f} }
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

// Unit returns v scaled to length 1, or the zero Vec when v is zero.
func (v Vec) Unit() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Angle returns the heading of v in degrees, 0 pointing up (+Y), clockwise positive.
func (v Vec) Angle() float64 {
	if v.X == 0 && v.Y == 0 {
		return 0
	}
	return math.Atan2(v.X, v.Y) * 180 / math.Pi
}

var ErrInvalidGrid = errors.New("invalid grid")

// Grid is the toroidal playing field centred on the origin.
// It is immutable for the lifetime of a session.
type Grid struct {
	CellSize float64
	Width    float64
	Height   float64
}

func NewGrid(cellSize, width, height float64) (Grid, error) {
	g := Grid{CellSize: cellSize, Width: width, Height: height}
	return g, g.Validate()
}

// Validate checks that the extents are positive multiples of the cell size.
func (g Grid) Validate() error {
	if g.CellSize <= 0 || g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: cell %g, size %gx%g must be positive", ErrInvalidGrid, g.CellSize, g.Width, g.Height)
	}
	if !IsMultiple(g.Width, g.CellSize) || !IsMultiple(g.Height, g.CellSize) {
		return fmt.Errorf("%w: size %gx%g is not a multiple of cell %g", ErrInvalidGrid, g.Width, g.Height, g.CellSize)
	}
	return nil
}

// IsMultiple reports whether v is a whole number of steps.
func IsMultiple(v, step float64) bool {
	n := v / step
	return math.Abs(n-math.Round(n)) < 1e-9
}

// Normalize snaps v to the nearest cell and wraps it into
// [-W/2, W/2) x [-H/2, H/2). Cells sit on whole multiples of the cell size
// through the origin, so two normalized cells compare equal with ==.
func (g Grid) Normalize(v Vec) Vec {
	return Vec{
		X: float64(g.wrapIndex(v.X/g.CellSize, g.Cols())) * g.CellSize,
		Y: float64(g.wrapIndex(v.Y/g.CellSize, g.Rows())) * g.CellSize,
	}
}

// wrapIndex rounds a position in cell units to a lattice index in
// [-n/2, n-n/2).
func (g Grid) wrapIndex(units float64, n int) int {
	k := int(math.Round(units))
	if n <= 0 {
		return k
	}
	lo := -(n / 2)
	return ((k-lo)%n+n)%n + lo
}

// Wrap folds v into [-W/2, W/2) x [-H/2, H/2) without snapping. It is meant
// for presentation positions between cells.
func (g Grid) Wrap(v Vec) Vec {
	return Vec{X: wrap(v.X, g.Width), Y: wrap(v.Y, g.Height)}
}

func wrap(v, size float64) float64 {
	half := size / 2
	r := math.Mod(math.Mod(v+half, size)+size, size) - half
	if r >= half {
		// float rounding on the second Mod can land exactly on size
		r -= size
	}
	return r
}

func (g Grid) Cols() int { return int(math.Floor(g.Width/g.CellSize + 1e-9)) }
func (g Grid) Rows() int { return int(math.Floor(g.Height/g.CellSize + 1e-9)) }

// CellCount is the number of distinct cells, used for spawn-space exhaustion checks.
func (g Grid) CellCount() int {
	return g.Cols() * g.Rows()
}

// CellAt returns the cell at column col and row row counted from the lower-left corner.
func (g Grid) CellAt(col, row int) Vec {
	cols, rows := g.Cols(), g.Rows()
	return g.Normalize(Vec{
		X: float64(col-cols/2) * g.CellSize,
		Y: float64(row-rows/2) * g.CellSize,
	})
}

// Index converts a cell back to its column and row.
func (g Grid) Index(c Vec) (col, row int) {
	cols, rows := g.Cols(), g.Rows()
	col = g.wrapIndex(c.X/g.CellSize, cols) + cols/2
	row = g.wrapIndex(c.Y/g.CellSize, rows) + rows/2
	return col, row
}

// Offset is the fractional column and row of a presentation position, so a
// cell lands on whole numbers and a sprite mid-step lands between them.
func (g Grid) Offset(v Vec) (col, row float64) {
	v = g.Wrap(v)
	return v.X/g.CellSize + float64(g.Cols()/2), v.Y/g.CellSize + float64(g.Rows()/2)
}

// Contains reports whether v is one of the grid's cells, on the lattice and
// inside the wrapped domain.
func (g Grid) Contains(v Vec) bool {
	return g.Normalize(v) == v
}

// Delta returns the shortest displacement from a to b on the torus.
func (g Grid) Delta(a, b Vec) Vec {
	return Vec{X: shortest(b.X-a.X, g.Width), Y: shortest(b.Y-a.Y, g.Height)}
}

func shortest(d, size float64) float64 {
	d = math.Mod(d, size)
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// ManhattanDistance counts cell steps between a and b, taking wrap-around into account.
func (g Grid) ManhattanDistance(a, b Vec) int {
	d := g.Delta(a, b)
	return int(math.Round(math.Abs(d.X)/g.CellSize)) + int(math.Round(math.Abs(d.Y)/g.CellSize))
}

// EntityID identifies an object the spawn space created for the core.
type EntityID = uuid.UUID

// EntityKind tags what an entity represents to collaborators.
type EntityKind int

const (
	KindHead EntityKind = iota
	KindBody
	KindFood
	KindBigFood
)

func (k EntityKind) String() string {
	switch k {
	case KindHead:
		return "head"
	case KindBody:
		return "body"
	case KindFood:
		return "food"
	case KindBigFood:
		return "bigfood"
	default:
		return "unknown"
	}
}

// Game constants
const (
	DefaultCellSize         = 1.0
	DefaultGridWidth        = 20.0
	DefaultGridHeight       = 20.0
	DefaultBodySpacing      = 1.0
	DefaultGraceSegments    = 4
	DefaultSpawnAttempts    = 100
	DefaultBigFoodMinGap    = 7
	DefaultBigFoodMaxGap    = 11
	DefaultMinSwipeDistance = 50.0

	SmallFoodPoints = 1
	BigFoodPoints   = 5
)
