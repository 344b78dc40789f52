package entity

import (
	"errors"
	"fmt"

	"torus-snake/game/types"
)

// ErrSelfCollision is returned when the head would move onto its own body.
var ErrSelfCollision = errors.New("self collision")

// CollisionError reports where a rejected move would have put the head.
type CollisionError struct {
	Cell    types.Vec
	Segment int
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("head into segment %d at %v: %v", e.Segment, e.Cell, ErrSelfCollision)
}

func (e *CollisionError) Unwrap() error { return ErrSelfCollision }

// Segment is one body part trailing the head.
type Segment struct {
	ID     types.EntityID
	Pos    types.Vec
	Facing types.Vec // presentation only
	// Collidable is fixed when the segment is added; grace segments never take part in self-collision.
	Collidable bool
}

// MoveOutcome describes a committed tick.
type MoveOutcome struct {
	Moved   bool
	From    types.Vec
	To      types.Vec
	Heading types.Direction
}

type Snake struct {
	HeadID    types.EntityID
	Head      types.Vec
	Direction types.Direction // applied on the next tick
	Heading   types.Direction // direction of the last committed move
	Segments  []Segment

	BodySpacing   float64
	GraceSegments int
}

func NewSnake(startPos types.Vec, bodySpacing float64, graceSegments int) *Snake {
	return &Snake{
		Head:          startPos,
		Direction:     types.None,
		Heading:       types.None,
		Segments:      make([]Segment, 0),
		BodySpacing:   bodySpacing,
		GraceSegments: graceSegments,
	}
}

// SetDirection queues dir for the next tick. A reversal against the way the
// head last travelled is rejected; a queued turn can still be replaced by
// any other legal one before the tick.
func (s *Snake) SetDirection(dir types.Direction) bool {
	if dir == types.None || dir == s.Direction || dir == s.Heading.Opposite() {
		return false
	}
	s.Direction = dir
	return true
}

// Occupancy counts the head plus every body segment.
func (s *Snake) Occupancy() int {
	return len(s.Segments) + 1
}

// Tail returns the last body segment position, or the head when there is no body.
func (s *Snake) Tail() types.Vec {
	if len(s.Segments) == 0 {
		return s.Head
	}
	return s.Segments[len(s.Segments)-1].Pos
}

// Cells returns the head followed by every segment position.
func (s *Snake) Cells() []types.Vec {
	cells := make([]types.Vec, 0, len(s.Segments)+1)
	cells = append(cells, s.Head)
	for _, seg := range s.Segments {
		cells = append(cells, seg.Pos)
	}
	return cells
}

// Occupied returns the set of cells a spawn must avoid.
func (s *Snake) Occupied() map[types.Vec]struct{} {
	set := make(map[types.Vec]struct{}, len(s.Segments)+1)
	for _, c := range s.Cells() {
		set[c] = struct{}{}
	}
	return set
}

// NextHead is where the head lands on the next tick.
func (s *Snake) NextHead(grid types.Grid) types.Vec {
	return grid.Normalize(s.Head.Add(s.Direction.Vec().Scale(grid.CellSize)))
}

// CollidesAt reports the first collidable segment at pos, or -1.
func (s *Snake) CollidesAt(pos types.Vec) int {
	for i, seg := range s.Segments {
		if seg.Collidable && seg.Pos == pos {
			return i
		}
	}
	return -1
}

// TryAdvance moves the head one cell in the queued direction and drags the
// body behind it. A move onto a collidable segment is rejected with a
// *CollisionError and leaves the snake untouched.
func (s *Snake) TryAdvance(grid types.Grid) (MoveOutcome, error) {
	if s.Direction == types.None {
		return MoveOutcome{From: s.Head, To: s.Head}, nil
	}

	newHead := s.NextHead(grid)
	if i := s.CollidesAt(newHead); i >= 0 {
		return MoveOutcome{}, &CollisionError{Cell: newHead, Segment: i}
	}

	dir := s.Direction
	from := s.Head
	s.Head = newHead
	s.Heading = dir

	if len(s.Segments) > 0 {
		step := dir.Vec().Scale(s.BodySpacing)
		next := grid.Normalize(newHead.Sub(step))
		for i := range s.Segments {
			prev := s.Segments[i].Pos
			s.Segments[i].Pos = next
			next = prev
		}
		s.refreshFacing(grid)
	}

	return MoveOutcome{Moved: true, From: from, To: newHead, Heading: dir}, nil
}

func (s *Snake) refreshFacing(grid types.Grid) {
	ahead := s.Head
	for i := range s.Segments {
		f := grid.Delta(s.Segments[i].Pos, ahead).Unit()
		if f != (types.Vec{}) {
			s.Segments[i].Facing = f
		}
		ahead = s.Segments[i].Pos
	}
}

// AddSegment appends a tail segment one body spacing behind the current
// tail. The returned pointer is valid until the next AddSegment.
func (s *Snake) AddSegment(grid types.Grid) *Segment {
	dir := s.Direction
	if dir == types.None {
		dir = s.Heading
	}
	step := dir.Vec().Scale(s.BodySpacing)
	s.Segments = append(s.Segments, Segment{
		Pos:        grid.Normalize(s.Tail().Sub(step)),
		Facing:     dir.Vec(),
		Collidable: len(s.Segments) >= s.GraceSegments,
	})
	return &s.Segments[len(s.Segments)-1]
}
