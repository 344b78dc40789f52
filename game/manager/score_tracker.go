package manager

import "torus-snake/game/entity"

// ScoreTracker accumulates the score of one session. It never decreases.
type ScoreTracker struct {
	score     int
	small     int
	big       int
	highScore int
}

func NewScoreTracker() *ScoreTracker {
	return &ScoreTracker{}
}

// Add credits one eaten item and returns the new score.
func (st *ScoreTracker) Add(kind entity.FoodKind) int {
	st.score += kind.Points()
	if kind == entity.BigFood {
		st.big++
	} else {
		st.small++
	}
	if st.score > st.highScore {
		st.highScore = st.score
	}
	return st.score
}

func (st *ScoreTracker) Score() int { return st.score }

// Eaten returns how many small and big items were consumed.
func (st *ScoreTracker) Eaten() (small, big int) { return st.small, st.big }

// Reset zeroes the session counters; the high score survives.
func (st *ScoreTracker) Reset() {
	st.score = 0
	st.small = 0
	st.big = 0
}

func (st *ScoreTracker) HighScore() int { return st.highScore }
