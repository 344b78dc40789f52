package manager

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"torus-snake/game/entity"
	"torus-snake/game/types"
)

// scripted replays fixed values, modulo n.
type scripted struct {
	vals []int
	i    int
}

func (s *scripted) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func newFoodManager(g types.Grid, rng IntSource) *FoodManager {
	return NewFoodManager(g, NewCollisionManager(g), rng, types.DefaultSpawnAttempts,
		types.DefaultBigFoodMinGap, types.DefaultBigFoodMaxGap)
}

func TestSpawnNeverReturnsExcludedCell(t *testing.T) {
	g := types.Grid{CellSize: 1, Width: 6, Height: 5}
	r := rand.New(rand.NewSource(42))
	fm := newFoodManager(g, r)

	all := make([]types.Vec, 0, g.CellCount())
	for c := 0; c < g.Cols(); c++ {
		for row := 0; row < g.Rows(); row++ {
			all = append(all, g.CellAt(c, row))
		}
	}

	for trial := 0; trial < 500; trial++ {
		n := r.Intn(g.CellCount()) // up to capacity - 1
		r.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
		excluded := make(map[types.Vec]struct{}, n)
		for _, c := range all[:n] {
			excluded[c] = struct{}{}
		}

		pos, err := fm.Spawn(entity.SmallFood, excluded)
		if err != nil {
			if !errors.Is(err, ErrNoValidPosition) {
				t.Fatalf("unexpected error: %v", err)
			}
			continue
		}
		if _, bad := excluded[pos]; bad {
			t.Fatalf("trial %d: spawned on excluded cell %v", trial, pos)
		}
		if !g.Contains(pos) {
			t.Fatalf("trial %d: spawned off grid at %v", trial, pos)
		}
	}
}

func TestSpawnSaturatedGridFailsWithoutRetrying(t *testing.T) {
	g := types.Grid{CellSize: 1, Width: 2, Height: 2}
	src := &scripted{vals: []int{0}}
	fm := newFoodManager(g, src)

	excluded := map[types.Vec]struct{}{}
	for c := 0; c < 2; c++ {
		for r := 0; r < 2; r++ {
			excluded[g.CellAt(c, r)] = struct{}{}
		}
	}
	_, err := fm.Spawn(entity.BigFood, excluded)
	if !errors.Is(err, ErrNoValidPosition) {
		t.Fatalf("err = %v, want ErrNoValidPosition", err)
	}
	if src.i != 0 {
		t.Fatalf("spawner drew %d random values on a full grid", src.i)
	}
}

func TestSpawnGivesUpAfterBoundedAttempts(t *testing.T) {
	g := types.Grid{CellSize: 1, Width: 4, Height: 4}
	// always draws the lower-left cell, which is taken
	src := &scripted{vals: []int{0}}
	fm := newFoodManager(g, src)

	_, err := fm.Spawn(entity.SmallFood, map[types.Vec]struct{}{g.CellAt(0, 0): {}})
	if !errors.Is(err, ErrNoValidPosition) {
		t.Fatalf("err = %v, want ErrNoValidPosition", err)
	}
	if src.i != 2*types.DefaultSpawnAttempts {
		t.Fatalf("drew %d values, want %d", src.i, 2*types.DefaultSpawnAttempts)
	}
}

func TestSpawnQuantizesToCells(t *testing.T) {
	g := types.Grid{CellSize: 0.5, Width: 3, Height: 2}
	fm := newFoodManager(g, &scripted{vals: []int{5, 3}})
	pos, err := fm.Spawn(entity.SmallFood, nil)
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if want := (types.Vec{X: 1, Y: 0.5}); pos != want {
		t.Fatalf("pos = %v, want %v", pos, want)
	}
}

func TestSchedulerThresholds(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	s := NewScheduler(r, types.DefaultBigFoodMinGap, types.DefaultBigFoodMaxGap)
	s.Reset()

	if s.Due(1) {
		t.Fatal("due at occupancy 1")
	}
	prev := s.NextThreshold
	if prev < 7 || prev > 11 {
		t.Fatalf("initial threshold %d outside [7,11]", prev)
	}

	occ := 1
	for spawns := 0; spawns < 200; {
		occ++
		if !s.Due(occ) {
			continue
		}
		s.MarkSpawned(occ)
		spawns++
		k := s.NextThreshold - s.LastOccupancy
		if k < 7 || k > 11 {
			t.Fatalf("gap %d outside [7,11]", k)
		}
		if s.NextThreshold < prev {
			t.Fatalf("threshold decreased: %d -> %d", prev, s.NextThreshold)
		}
		prev = s.NextThreshold
	}
}

func TestSchedulerNeverDueBeforeReset(t *testing.T) {
	s := NewScheduler(&scripted{vals: []int{0}}, 7, 11)
	if s.Due(100) {
		t.Fatal("zero threshold reported due")
	}
}

func TestClassify(t *testing.T) {
	cm := NewCollisionManager(types.Grid{CellSize: 1, Width: 4, Height: 4})
	head, other := uuid.New(), uuid.New()

	tests := []struct {
		tagA, tagB Tag
		a, b       types.EntityID
		want       OverlapKind
	}{
		{TagHead, TagFood, head, other, HeadFoodOverlap},
		{TagBigFood, TagHead, other, head, HeadBigFoodOverlap},
		{TagBody, TagHead, other, head, HeadBodyOverlap},
		{TagBody, TagFood, other, head, NoOverlap},
		{TagHead, "Wall", head, other, NoOverlap},
	}
	for _, tt := range tests {
		kind, id := cm.Classify(tt.a, tt.b, tt.tagA, tt.tagB)
		if kind != tt.want {
			t.Errorf("Classify(%s,%s) = %v, want %v", tt.tagA, tt.tagB, kind, tt.want)
		}
		if kind != NoOverlap && id != other {
			t.Errorf("Classify(%s,%s) returned %v, want the non-head entity", tt.tagA, tt.tagB, id)
		}
	}
}

func TestScoreTracker(t *testing.T) {
	st := NewScoreTracker()
	st.Add(entity.SmallFood)
	if st.Score() != 1 {
		t.Fatalf("score = %d, want 1", st.Score())
	}
	st.Add(entity.BigFood)
	if st.Score() != 6 {
		t.Fatalf("score = %d, want 6", st.Score())
	}
	if small, big := st.Eaten(); small != 1 || big != 1 {
		t.Fatalf("eaten = %d/%d", small, big)
	}
	st.Reset()
	if st.Score() != 0 || st.HighScore() != 6 {
		t.Fatalf("after reset score=%d high=%d", st.Score(), st.HighScore())
	}
}
