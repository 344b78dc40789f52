// Package ai holds a tabular Q-learning autopilot that steers the snake
// through the same SetDirection path a player uses.
package ai

import (
	"math"
	"sync"

	"golang.org/x/exp/rand"

	"torus-snake/game"
	"torus-snake/game/types"
)

// QTable maps a state key to the value of each direction.
type QTable map[string]map[types.Direction]float64

type QLearning struct {
	mu sync.Mutex

	QTable       QTable
	LearningRate float64
	Discount     float64
	Epsilon      float64
	MinEpsilon   float64
	EpsilonDecay float64
	TotalReward  float64
	GamesPlayed  int

	rng *rand.Rand
}

func NewQLearning(seed uint64) *QLearning {
	return &QLearning{
		QTable:       make(QTable),
		LearningRate: 0.1,
		Discount:     0.9,
		Epsilon:      0.1,
		MinEpsilon:   0.01,
		EpsilonDecay: 0.995,
		rng:          rand.New(rand.NewSource(seed)),
	}
}

// Decide picks the next direction. It never proposes the reversal of the
// current heading.
func (q *QLearning) Decide(snap game.Snapshot) types.Direction {
	q.mu.Lock()
	defer q.mu.Unlock()

	legal := legalMoves(snap.Heading)
	if q.rng.Float64() < q.Epsilon {
		return legal[q.rng.Intn(len(legal))]
	}
	return q.bestAction(Observe(snap), legal)
}

// Learn applies one Q-learning update for taking action in prev and ending up in next.
func (q *QLearning) Learn(prev game.Snapshot, action types.Direction, next game.Snapshot, reward float64) {
	if action == types.None {
		return
	}
	stateKey := Observe(prev).key()
	nextValues := q.values(Observe(next).key())

	q.mu.Lock()
	defer q.mu.Unlock()

	maxNextQ := math.Inf(-1)
	for _, v := range nextValues {
		if v > maxNextQ {
			maxNextQ = v
		}
	}
	if next.State.Terminal() {
		maxNextQ = 0
	}

	current := q.row(stateKey)
	current[action] += q.LearningRate * (reward + q.Discount*maxNextQ - current[action])
	q.TotalReward += reward
}

// Reward scores the transition from prev to next.
func Reward(prev, next game.Snapshot) float64 {
	switch {
	case next.State == game.GameOver:
		return -1.0
	case next.Score > prev.Score:
		return 1.0
	}

	before := Observe(prev).FoodDistance
	after := Observe(next).FoodDistance
	switch {
	case after < before:
		return 0.5
	case after > before:
		return -0.3
	}
	return 0
}

// EndEpisode counts a finished session and decays exploration.
func (q *QLearning) EndEpisode() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.GamesPlayed++
	q.Epsilon = math.Max(q.MinEpsilon, q.Epsilon*q.EpsilonDecay)
}

func (q *QLearning) bestAction(s State, legal []types.Direction) types.Direction {
	row := q.row(s.key())

	best := legal[0]
	bestValue := math.Inf(-1)
	for _, dir := range legal {
		v := row[dir]
		if s.DangerDirs[dirIndex(dir)] {
			v -= 1
		}
		if v > bestValue {
			best, bestValue = dir, v
		}
	}
	return best
}

// values returns a copy of the row for key.
func (q *QLearning) values(key string) map[types.Direction]float64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	row := q.row(key)
	out := make(map[types.Direction]float64, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// row returns the row for key, creating it zeroed. The caller holds mu.
func (q *QLearning) row(key string) map[types.Direction]float64 {
	r, ok := q.QTable[key]
	if !ok {
		r = make(map[types.Direction]float64, len(types.Directions))
		for _, dir := range types.Directions {
			r[dir] = 0
		}
		q.QTable[key] = r
	}
	return r
}

func legalMoves(heading types.Direction) []types.Direction {
	moves := make([]types.Direction, 0, len(types.Directions))
	for _, dir := range types.Directions {
		if heading != types.None && dir == heading.Opposite() {
			continue
		}
		moves = append(moves, dir)
	}
	return moves
}

func dirIndex(d types.Direction) int {
	for i, dir := range types.Directions {
		if dir == d {
			return i
		}
	}
	return 0
}
