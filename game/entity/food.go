package entity

import (
	"time"

	"torus-snake/game/types"
)

type FoodKind int

const (
	SmallFood FoodKind = iota
	BigFood
)

func (k FoodKind) String() string {
	if k == BigFood {
		return "big"
	}
	return "small"
}

// EntityKind maps the food kind onto the tag collaborators see.
func (k FoodKind) EntityKind() types.EntityKind {
	if k == BigFood {
		return types.KindBigFood
	}
	return types.KindFood
}

// Points is the score a kind is worth.
func (k FoodKind) Points() int {
	if k == BigFood {
		return types.BigFoodPoints
	}
	return types.SmallFoodPoints
}

type Food struct {
	ID   types.EntityID
	Kind FoodKind
	Pos  types.Vec

	// Big food only.
	Lifetime  time.Duration
	Remaining time.Duration

	consumed bool
}

func NewFood(id types.EntityID, kind FoodKind, pos types.Vec, lifetime time.Duration) *Food {
	f := &Food{ID: id, Kind: kind, Pos: pos}
	if kind == BigFood {
		f.Lifetime = lifetime
		f.Remaining = lifetime
	}
	return f
}

// TryConsume marks the item eaten. Only the first call succeeds.
// Callers hold the game lock, so check and set happen as one step.
func (f *Food) TryConsume() bool {
	if f == nil || f.consumed {
		return false
	}
	f.consumed = true
	return true
}

func (f *Food) Consumed() bool {
	return f != nil && f.consumed
}

// Countdown advances the lifetime by dt and reports whether it ran out.
func (f *Food) Countdown(dt time.Duration) (expired bool) {
	if f.Lifetime <= 0 {
		return false
	}
	f.Remaining -= dt
	if f.Remaining < 0 {
		f.Remaining = 0
	}
	return f.Remaining == 0
}

// Fraction is the normalized time left, 1 at spawn and 0 at expiry.
func (f *Food) Fraction() float64 {
	if f.Lifetime <= 0 {
		return 0
	}
	return float64(f.Remaining) / float64(f.Lifetime)
}
