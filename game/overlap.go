package game

import (
	"torus-snake/game/manager"
	"torus-snake/game/types"
)

// Overlap is a head contact reported by the physics collaborator.
type Overlap interface {
	overlap()
}

// HeadSegmentOverlap: the head touched a body segment.
type HeadSegmentOverlap struct {
	Segment types.EntityID
}

// FoodOverlap: the head touched small food.
type FoodOverlap struct {
	Food types.EntityID
}

// BigFoodOverlap: the head touched big food.
type BigFoodOverlap struct {
	Food types.EntityID
}

func (HeadSegmentOverlap) overlap() {}
func (FoodOverlap) overlap() {}
func (BigFoodOverlap) overlap() {}

// OverlapFromTags builds the typed overlap for a tagged pair, or nil when
// the pair does not involve the head.
func OverlapFromTags(cm *manager.CollisionManager, a, b types.EntityID, tagA, tagB manager.Tag) Overlap {
	kind, other := cm.Classify(a, b, tagA, tagB)
	switch kind {
	case manager.HeadBodyOverlap:
		return HeadSegmentOverlap{Segment: other}
	case manager.HeadFoodOverlap:
		return FoodOverlap{Food: other}
	case manager.HeadBigFoodOverlap:
		return BigFoodOverlap{Food: other}
	default:
		return nil
	}
}
