package main

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"torus-snake/game"
)

// GroupSize is how many records of one compression level are folded into a
// single summary record once that many have accumulated.
const GroupSize = 100

// SessionRecord describes one finished session, or a group of them once
// compressed.
type SessionRecord struct {
	UUID      uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	Score     int
	Occupancy int
	EndState  game.State

	CompressionIndex int // 0 for a single session
	GamesCount       int
	AverageScore     float64
	MedianScore      float64
	MaxScore         int
	MinScore         int
	AverageDuration  float64 // seconds
	MaxDuration      float64
	MinDuration      float64
	EndStates        map[game.State]int
}

// SessionHistory keeps every session played in this process. Old records
// are compressed in groups so memory stays bounded on long autopilot runs.
type SessionHistory struct {
	mutex    sync.RWMutex
	Sessions []SessionRecord
}

func NewSessionHistory() *SessionHistory {
	return &SessionHistory{Sessions: make([]SessionRecord, 0)}
}

// Add records a finished session from its final snapshot.
func (h *SessionHistory) Add(snap game.Snapshot, start, end time.Time) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	seconds := end.Sub(start).Seconds()
	h.Sessions = append(h.Sessions, SessionRecord{
		UUID:            snap.UUID,
		StartTime:       start,
		EndTime:         end,
		Score:           snap.Score,
		Occupancy:       snap.Occupancy,
		EndState:        snap.State,
		GamesCount:      1,
		AverageScore:    float64(snap.Score),
		MedianScore:     float64(snap.Score),
		MaxScore:        snap.Score,
		MinScore:        snap.Score,
		AverageDuration: seconds,
		MaxDuration:     seconds,
		MinDuration:     seconds,
		EndStates:       map[game.State]int{snap.State: 1},
	})
	h.compress()
}

func (h *SessionHistory) compress() {
	sort.SliceStable(h.Sessions, func(i, j int) bool {
		if h.Sessions[i].CompressionIndex != h.Sessions[j].CompressionIndex {
			return h.Sessions[i].CompressionIndex < h.Sessions[j].CompressionIndex
		}
		return h.Sessions[i].StartTime.Before(h.Sessions[j].StartTime)
	})

	for level := 0; ; level++ {
		var records, others []SessionRecord
		for _, r := range h.Sessions {
			if r.CompressionIndex == level {
				records = append(records, r)
			} else {
				others = append(others, r)
			}
		}
		if len(records) < GroupSize {
			return
		}

		var folded []SessionRecord
		for i := 0; i < len(records); i += GroupSize {
			if i+GroupSize > len(records) {
				folded = append(folded, records[i:]...)
				break
			}
			folded = append(folded, fold(records[i:i+GroupSize], level+1))
		}
		h.Sessions = append(others, folded...)
	}
}

func fold(group []SessionRecord, level int) SessionRecord {
	out := SessionRecord{
		CompressionIndex: level,
		StartTime:        group[0].StartTime,
		EndTime:          group[0].EndTime,
		MaxScore:         group[0].MaxScore,
		MinScore:         group[0].MinScore,
		MaxDuration:      group[0].MaxDuration,
		MinDuration:      group[0].MinDuration,
		EndStates:        make(map[game.State]int),
	}

	var totalScore, totalDuration float64
	medians := make([]float64, 0, len(group))
	for _, r := range group {
		out.MaxScore = max(out.MaxScore, r.MaxScore)
		out.MinScore = min(out.MinScore, r.MinScore)
		out.MaxDuration = max(out.MaxDuration, r.MaxDuration)
		out.MinDuration = min(out.MinDuration, r.MinDuration)
		if r.StartTime.Before(out.StartTime) {
			out.StartTime = r.StartTime
		}
		if r.EndTime.After(out.EndTime) {
			out.EndTime = r.EndTime
		}
		totalScore += r.AverageScore * float64(r.GamesCount)
		totalDuration += r.AverageDuration * float64(r.GamesCount)
		out.GamesCount += r.GamesCount
		for state, n := range r.EndStates {
			out.EndStates[state] += n
		}
		for i := 0; i < r.GamesCount; i++ {
			medians = append(medians, r.MedianScore)
		}
	}
	out.AverageScore = totalScore / float64(out.GamesCount)
	out.AverageDuration = totalDuration / float64(out.GamesCount)
	out.MedianScore = median(medians)
	out.Score = out.MaxScore
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	n := len(values)
	if n%2 == 0 {
		return (values[n/2-1] + values[n/2]) / 2
	}
	return values[n/2]
}

func (h *SessionHistory) GamesPlayed() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	total := 0
	for _, r := range h.Sessions {
		total += r.GamesCount
	}
	return total
}

func (h *SessionHistory) AverageScore() float64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	var total float64
	var games int
	for _, r := range h.Sessions {
		total += r.AverageScore * float64(r.GamesCount)
		games += r.GamesCount
	}
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

func (h *SessionHistory) MedianScore() float64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	all := make([]float64, 0)
	for _, r := range h.Sessions {
		for i := 0; i < r.GamesCount; i++ {
			all = append(all, r.MedianScore)
		}
	}
	return median(all)
}

func (h *SessionHistory) MaxScore() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	best := 0
	for _, r := range h.Sessions {
		best = max(best, r.MaxScore)
	}
	return best
}

// AverageDuration is the mean session length in seconds.
func (h *SessionHistory) AverageDuration() float64 {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	var total float64
	var games int
	for _, r := range h.Sessions {
		total += r.AverageDuration * float64(r.GamesCount)
		games += r.GamesCount
	}
	if games == 0 {
		return 0
	}
	return total / float64(games)
}

// EndStates counts every session played by how it ended, compressed groups
// included.
func (h *SessionHistory) EndStates() map[game.State]int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	counts := make(map[game.State]int)
	for _, r := range h.Sessions {
		for state, n := range r.EndStates {
			counts[state] += n
		}
	}
	return counts
}
