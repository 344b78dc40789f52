package game

import (
	"sync"

	"github.com/google/uuid"

	"torus-snake/game/types"
)

// Renderer receives the committed pose of every snake part after each move.
// Rotation is in degrees, 0 facing up, clockwise positive.
type Renderer interface {
	SetTransform(id types.EntityID, pos types.Vec, rotation float64)
}

// UI is the on-screen chrome: score label, countdown bar and game-over panel.
type UI interface {
	SetScore(value int)
	ShowGameOver()
	HideGameplay()
	SetCountdown(fraction float64)
	ShowCountdown()
	HideCountdown()
}

// SpawnSpace creates and removes the visual objects backing core entities.
type SpawnSpace interface {
	Instantiate(kind types.EntityKind, pos types.Vec) types.EntityID
	Destroy(id types.EntityID)
}

// Collaborators groups the outbound interfaces. Nil fields get no-op stand-ins.
type Collaborators struct {
	Renderer Renderer
	UI       UI
	Space    SpawnSpace
}

func (c Collaborators) withDefaults() Collaborators {
	if c.Renderer == nil {
		c.Renderer = NopRenderer{}
	}
	if c.UI == nil {
		c.UI = NopUI{}
	}
	if c.Space == nil {
		c.Space = NewMemorySpace()
	}
	return c
}

type NopRenderer struct{}

func (NopRenderer) SetTransform(types.EntityID, types.Vec, float64) {}

type NopUI struct{}

func (NopUI) SetScore(int) {}
func (NopUI) ShowGameOver() {}
func (NopUI) HideGameplay() {}
func (NopUI) SetCountdown(float64) {}
func (NopUI) ShowCountdown() {}
func (NopUI) HideCountdown() {}

// Entity is what MemorySpace remembers about a spawned object.
type Entity struct {
	Kind types.EntityKind
	Pos  types.Vec
}

// MemorySpace is a headless SpawnSpace that hands out uuids.
type MemorySpace struct {
	mu       sync.RWMutex
	entities map[types.EntityID]Entity
}

func NewMemorySpace() *MemorySpace {
	return &MemorySpace{entities: make(map[types.EntityID]Entity)}
}

func (m *MemorySpace) Instantiate(kind types.EntityKind, pos types.Vec) types.EntityID {
	id := uuid.New()
	m.mu.Lock()
	m.entities[id] = Entity{Kind: kind, Pos: pos}
	m.mu.Unlock()
	return id
}

func (m *MemorySpace) Destroy(id types.EntityID) {
	m.mu.Lock()
	delete(m.entities, id)
	m.mu.Unlock()
}

func (m *MemorySpace) Get(id types.EntityID) (Entity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entities[id]
	return e, ok
}

// Count returns how many live entities of kind exist.
func (m *MemorySpace) Count(kind types.EntityKind) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, e := range m.entities {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
