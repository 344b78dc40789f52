package input

import (
	"testing"

	"torus-snake/game/types"
)

func TestMap(t *testing.T) {
	m := NewMapper(50)
	tests := []struct {
		name       string
		start, end types.Vec
		want       types.Direction
		ok         bool
	}{
		{"too short", types.Vec{}, types.Vec{X: 30, Y: 30}, types.None, false},
		{"exactly threshold", types.Vec{}, types.Vec{X: 50}, types.Right, true},
		{"right", types.Vec{X: 10, Y: 10}, types.Vec{X: 200, Y: 40}, types.Right, true},
		{"left", types.Vec{X: 200}, types.Vec{X: 20, Y: -60}, types.Left, true},
		{"up", types.Vec{}, types.Vec{X: 20, Y: 90}, types.Up, true},
		{"down", types.Vec{Y: 100}, types.Vec{X: -10}, types.Down, true},
		{"diagonal tie goes vertical", types.Vec{}, types.Vec{X: 60, Y: -60}, types.Down, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Map(tt.start, tt.end)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Map(%v, %v) = %v, %v; want %v, %v", tt.start, tt.end, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNewMapperDefault(t *testing.T) {
	if m := NewMapper(0); m.MinSwipeDistance != types.DefaultMinSwipeDistance {
		t.Fatalf("MinSwipeDistance = %v", m.MinSwipeDistance)
	}
}
