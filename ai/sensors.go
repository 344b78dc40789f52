package ai

import (
	"fmt"

	"torus-snake/game"
	"torus-snake/game/types"
)

// State is the compact view of a session the autopilot learns over.
type State struct {
	RelativeFoodDir [2]int  // sign of the shortest wrapped offset to the food (x, y)
	FoodDistance    int     // wrapped Manhattan distance to the food, in cells
	DangerDirs      [4]bool // body in the next cell (up, right, down, left)
	LastAction      types.Direction
}

// Observe reads a State from a snapshot. Big food, when present and closer,
// is the target.
func Observe(snap game.Snapshot) State {
	s := State{LastAction: snap.Heading}

	target, ok := nearestFood(snap)
	if ok {
		d := snap.Grid.Delta(snap.Head, target)
		s.RelativeFoodDir = [2]int{sign(d.X), sign(d.Y)}
		s.FoodDistance = snap.Grid.ManhattanDistance(snap.Head, target)
	}

	body := make(map[types.Vec]struct{}, len(snap.Segments))
	for _, p := range snap.Segments {
		body[p] = struct{}{}
	}
	for i, dir := range types.Directions {
		next := snap.Grid.Normalize(snap.Head.Add(dir.Vec().Scale(snap.Grid.CellSize)))
		_, s.DangerDirs[i] = body[next]
	}
	return s
}

func nearestFood(snap game.Snapshot) (types.Vec, bool) {
	switch {
	case snap.HasFood && snap.HasBigFood:
		if snap.Grid.ManhattanDistance(snap.Head, snap.BigFood) <= snap.Grid.ManhattanDistance(snap.Head, snap.Food) {
			return snap.BigFood, true
		}
		return snap.Food, true
	case snap.HasBigFood:
		return snap.BigFood, true
	case snap.HasFood:
		return snap.Food, true
	}
	return types.Vec{}, false
}

func (s State) key() string {
	return fmt.Sprintf("%d,%d|%t,%t,%t,%t|%d",
		s.RelativeFoodDir[0], s.RelativeFoodDir[1],
		s.DangerDirs[0], s.DangerDirs[1], s.DangerDirs[2], s.DangerDirs[3],
		s.LastAction)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
