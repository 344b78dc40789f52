package manager

import "torus-snake/game/types"

// Tag is the label a physics collaborator attaches to an overlapping object.
type Tag string

const (
	TagHead    Tag = "Head"
	TagBody    Tag = "Body"
	TagFood    Tag = "Food"
	TagBigFood Tag = "Bigfood"
)

// OverlapKind is what an overlap between the head and another object means.
type OverlapKind int

const (
	NoOverlap OverlapKind = iota
	HeadBodyOverlap
	HeadFoodOverlap
	HeadBigFoodOverlap
)

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{grid: grid}
}

// Classify orders a reported pair so the head comes first and returns the
// other entity with what the overlap means. Pairs without a head are ignored.
func (cm *CollisionManager) Classify(a, b types.EntityID, tagA, tagB Tag) (OverlapKind, types.EntityID) {
	if tagB == TagHead && tagA != TagHead {
		a, b = b, a
		tagA, tagB = tagB, tagA
	}
	if tagA != TagHead {
		return NoOverlap, types.EntityID{}
	}
	switch tagB {
	case TagBody:
		return HeadBodyOverlap, b
	case TagFood:
		return HeadFoodOverlap, b
	case TagBigFood:
		return HeadBigFoodOverlap, b
	default:
		return NoOverlap, types.EntityID{}
	}
}

// IsFoodCollision checks whether the head cell matches a food cell.
func (cm *CollisionManager) IsFoodCollision(head, food types.Vec) bool {
	return cm.grid.Normalize(head) == cm.grid.Normalize(food)
}

// ValidateSpawnPosition reports whether pos is on the grid and outside excluded.
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Vec, excluded map[types.Vec]struct{}) bool {
	if !cm.grid.Contains(pos) {
		return false
	}
	_, taken := excluded[pos]
	return !taken
}
