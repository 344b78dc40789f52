package manager

import (
	"errors"
	"fmt"

	"torus-snake/game/entity"
	"torus-snake/game/types"
)

// ErrNoValidPosition means the grid has no room left for food.
var ErrNoValidPosition = errors.New("no valid position")

// IntSource is the slice of *rand.Rand the spawner needs; tests script it.
type IntSource interface {
	Intn(n int) int
}

// FoodManager picks free cells for food and decides when big food is due.
type FoodManager struct {
	grid         types.Grid
	rng          IntSource
	maxAttempts  int
	scheduler    *Scheduler
	collisionMgr *CollisionManager
}

func NewFoodManager(grid types.Grid, collisionMgr *CollisionManager, rng IntSource, maxAttempts, minGap, maxGap int) *FoodManager {
	if maxAttempts <= 0 {
		maxAttempts = types.DefaultSpawnAttempts
	}
	return &FoodManager{
		grid:         grid,
		rng:          rng,
		maxAttempts:  maxAttempts,
		scheduler:    NewScheduler(rng, minGap, maxGap),
		collisionMgr: collisionMgr,
	}
}

func (fm *FoodManager) Scheduler() *Scheduler {
	return fm.scheduler
}

// Spawn draws random cells until one is not excluded. A saturated grid fails
// at once; otherwise the search gives up after maxAttempts draws.
func (fm *FoodManager) Spawn(kind entity.FoodKind, excluded map[types.Vec]struct{}) (types.Vec, error) {
	if len(excluded) >= fm.grid.CellCount() {
		return types.Vec{}, fmt.Errorf("spawn %s food: %d of %d cells occupied: %w",
			kind, len(excluded), fm.grid.CellCount(), ErrNoValidPosition)
	}

	cols, rows := fm.grid.Cols(), fm.grid.Rows()
	for attempt := 0; attempt < fm.maxAttempts; attempt++ {
		pos := fm.grid.CellAt(fm.rng.Intn(cols), fm.rng.Intn(rows))
		if fm.collisionMgr.ValidateSpawnPosition(pos, excluded) {
			return pos, nil
		}
	}
	return types.Vec{}, fmt.Errorf("spawn %s food: gave up after %d attempts: %w",
		kind, fm.maxAttempts, ErrNoValidPosition)
}

// ShouldSpawnBig is checked once per small food eaten.
func (fm *FoodManager) ShouldSpawnBig(occupancy int) bool {
	return fm.scheduler.Due(occupancy)
}

// Scheduler holds the growth thresholds that trigger big food.
type Scheduler struct {
	rng           IntSource
	minGap        int
	maxGap        int
	LastOccupancy int
	NextThreshold int
}

func NewScheduler(rng IntSource, minGap, maxGap int) *Scheduler {
	if minGap <= 0 {
		minGap = types.DefaultBigFoodMinGap
	}
	if maxGap < minGap {
		maxGap = minGap
	}
	return &Scheduler{rng: rng, minGap: minGap, maxGap: maxGap}
}

// Reset starts a session: no big food has spawned yet.
func (s *Scheduler) Reset() {
	s.LastOccupancy = 0
	s.roll()
}

// Due reports whether the snake has grown past the current threshold.
func (s *Scheduler) Due(occupancy int) bool {
	return occupancy >= s.NextThreshold && s.NextThreshold > 0
}

// MarkSpawned records a big food spawn at occupancy and rolls the next threshold.
func (s *Scheduler) MarkSpawned(occupancy int) {
	s.LastOccupancy = occupancy
	s.roll()
}

func (s *Scheduler) roll() {
	s.NextThreshold = s.LastOccupancy + s.minGap + s.rng.Intn(s.maxGap-s.minGap+1)
}
