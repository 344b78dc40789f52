package game

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"torus-snake/game/entity"
	"torus-snake/game/input"
	"torus-snake/game/manager"
	"torus-snake/game/types"
)

var ErrNotIdle = errors.New("session already started")

type State int

const (
	Idle State = iota
	Playing
	GameOver
	Exhausted
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case GameOver:
		return "game over"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further ticks will be processed.
func (s State) Terminal() bool {
	return s == GameOver || s == Exhausted
}

// TickResult is what one movement tick did.
type TickResult struct {
	Moved bool
	Ate   bool
	Kind  entity.FoodKind
	State State
	// Err is the cause of a terminal transition during this tick.
	Err error
}

// Game is one session of the simulation. All methods are safe for
// concurrent use; the movement and countdown processes share its lock.
type Game struct {
	mu sync.Mutex

	UUID   uuid.UUID
	cfg    Config
	grid   types.Grid
	state  State
	ticks  int
	logger *log.Logger

	snake   *entity.Snake
	food    *entity.Food
	bigFood *entity.Food

	foodMgr      *manager.FoodManager
	collisionMgr *manager.CollisionManager
	scores       *manager.ScoreTracker
	mapper       input.Mapper

	renderer Renderer
	ui       UI
	space    SpawnSpace

	countdownVisible bool
	done             chan struct{}
	endErr           error
	StartTime        time.Time
	EndTime          time.Time
}

// Option tweaks a session before it starts.
type Option func(*options)

type options struct {
	rng manager.IntSource
}

// WithRand replaces the spawn RNG. Tests use it to script positions.
func WithRand(rng manager.IntSource) Option {
	return func(o *options) { o.rng = rng }
}

// New builds an idle session. Without WithRand a PCG source seeded from
// cfg.Seed (or the clock) drives spawning.
func New(cfg Config, collab Collaborators, opts ...Option) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	collab = collab.withDefaults()

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	rng := o.rng
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng = rand.New(rand.NewSource(seed))
	}

	id := uuid.New()
	base := cfg.Logger
	if base == nil {
		base = log.Default()
	}

	collisionMgr := manager.NewCollisionManager(cfg.Grid)
	g := &Game{
		UUID:         id,
		cfg:          cfg,
		grid:         cfg.Grid,
		state:        Idle,
		logger:       log.New(base.Writer(), fmt.Sprintf("%s[%s] ", base.Prefix(), id.String()[:8]), base.Flags()),
		snake:        entity.NewSnake(types.Vec{}, cfg.BodySpacing, cfg.GraceSegments),
		collisionMgr: collisionMgr,
		foodMgr: manager.NewFoodManager(cfg.Grid, collisionMgr, rng,
			cfg.SpawnAttempts, cfg.BigFoodMinGap, cfg.BigFoodMaxGap),
		scores:   manager.NewScoreTracker(),
		mapper:   input.NewMapper(cfg.MinSwipeDistance),
		renderer: collab.Renderer,
		ui:       collab.UI,
		space:    collab.Space,
		done:     make(chan struct{}),
	}
	return g, nil
}

// Start moves the session from Idle to Playing: the head appears at the
// centre, the first food is placed and the score is zeroed.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Idle {
		return fmt.Errorf("start %s: %w", g.UUID, ErrNotIdle)
	}
	g.state = Playing
	g.StartTime = time.Now()

	g.snake.HeadID = g.space.Instantiate(types.KindHead, g.snake.Head)
	g.renderer.SetTransform(g.snake.HeadID, g.snake.Head, 0)

	g.scores.Reset()
	g.ui.SetScore(0)
	g.foodMgr.Scheduler().Reset()

	g.logger.Printf("session started on %gx%g grid (cell %g), next big food at occupancy %d",
		g.grid.Width, g.grid.Height, g.grid.CellSize, g.foodMgr.Scheduler().NextThreshold)

	g.spawnSmall()
	return nil
}

// Tick advances the snake one cell and resolves what it ran into.
func (g *Game) Tick() TickResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Playing {
		return TickResult{State: g.state, Err: g.endErr}
	}
	g.ticks++

	out, err := g.snake.TryAdvance(g.grid)
	if err != nil {
		g.finish(GameOver, err)
		return TickResult{State: g.state, Err: err}
	}
	if !out.Moved {
		return TickResult{State: g.state}
	}
	g.publishTransforms()

	res := TickResult{Moved: true}
	head := g.snake.Head
	switch {
	case g.food != nil && g.collisionMgr.IsFoodCollision(head, g.food.Pos):
		res.Ate, res.Kind = g.consume(g.food), entity.SmallFood
	case g.bigFood != nil && g.collisionMgr.IsFoodCollision(head, g.bigFood.Pos):
		res.Ate, res.Kind = g.consume(g.bigFood), entity.BigFood
	}
	res.State = g.state
	if g.state.Terminal() {
		res.Err = g.endErr
	}
	return res
}

// TickCountdown runs the big food lifetime forward by dt. It touches only
// food state and reports whether the big food expired.
func (g *Game) TickCountdown(dt time.Duration) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Playing || g.bigFood == nil {
		return false
	}
	expired := g.bigFood.Countdown(dt)
	g.ui.SetCountdown(g.bigFood.Fraction())
	if !expired || g.bigFood.Consumed() {
		return false
	}

	g.logger.Printf("big food at %v expired after %v", g.bigFood.Pos, g.bigFood.Lifetime)
	g.space.Destroy(g.bigFood.ID)
	g.bigFood = nil
	g.hideCountdown()
	return true
}

// SetDirection queues a heading for the next tick. Reversals are ignored.
func (g *Game) SetDirection(dir types.Direction) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Terminal() {
		return false
	}
	return g.snake.SetDirection(dir)
}

// OnGesture maps a completed swipe and applies it as a direction change.
func (g *Game) OnGesture(start, end types.Vec) bool {
	dir, ok := g.mapper.Map(start, end)
	if !ok {
		return false
	}
	return g.SetDirection(dir)
}

// OnOverlap handles a head contact reported by a physics collaborator.
// It shares the consumed flags with Tick, so an item is eaten at most once.
func (g *Game) OnOverlap(o Overlap) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != Playing {
		return false
	}
	switch o := o.(type) {
	case FoodOverlap:
		if g.food != nil && g.food.ID == o.Food {
			return g.consume(g.food)
		}
	case BigFoodOverlap:
		if g.bigFood != nil && g.bigFood.ID == o.Food {
			return g.consume(g.bigFood)
		}
	case HeadSegmentOverlap:
		for i, seg := range g.snake.Segments {
			if seg.ID != o.Segment {
				continue
			}
			if !seg.Collidable {
				return false
			}
			g.finish(GameOver, &entity.CollisionError{Cell: seg.Pos, Segment: i})
			return true
		}
	}
	return false
}

// OnTaggedOverlap accepts the raw tag pair a physics engine reports.
func (g *Game) OnTaggedOverlap(a, b types.EntityID, tagA, tagB manager.Tag) bool {
	o := OverlapFromTags(g.collisionMgr, a, b, tagA, tagB)
	if o == nil {
		return false
	}
	return g.OnOverlap(o)
}

// Snapshot is a copy of the observable state of a session.
type Snapshot struct {
	UUID      uuid.UUID
	State     State
	Grid      types.Grid
	Head      types.Vec
	Direction types.Direction
	Heading   types.Direction
	Segments  []types.Vec
	Occupancy int

	Food       types.Vec
	HasFood    bool
	BigFood    types.Vec
	HasBigFood bool
	// Countdown is the remaining big food lifetime in [0,1].
	Countdown float64

	Score      int
	SmallEaten int
	BigEaten   int
	Ticks      int
	// NextBigFood is the occupancy that triggers the next big food.
	NextBigFood int
	Err         error
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	snap := Snapshot{
		UUID:        g.UUID,
		State:       g.state,
		Grid:        g.grid,
		Head:        g.snake.Head,
		Direction:   g.snake.Direction,
		Heading:     g.snake.Heading,
		Segments:    make([]types.Vec, len(g.snake.Segments)),
		Occupancy:   g.snake.Occupancy(),
		Score:       g.scores.Score(),
		Ticks:       g.ticks,
		NextBigFood: g.foodMgr.Scheduler().NextThreshold,
		Err:         g.endErr,
	}
	for i, seg := range g.snake.Segments {
		snap.Segments[i] = seg.Pos
	}
	snap.SmallEaten, snap.BigEaten = g.scores.Eaten()
	if g.food != nil {
		snap.Food, snap.HasFood = g.food.Pos, true
	}
	if g.bigFood != nil {
		snap.BigFood, snap.HasBigFood = g.bigFood.Pos, true
		snap.Countdown = g.bigFood.Fraction()
	}
	return snap
}

// Done is closed once the session reaches a terminal state.
func (g *Game) Done() <-chan struct{} {
	return g.done
}

func (g *Game) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Game) Config() Config {
	return g.cfg
}

// consume eats f. The caller holds the lock.
func (g *Game) consume(f *entity.Food) bool {
	if !f.TryConsume() {
		return false
	}
	g.space.Destroy(f.ID)

	seg := g.snake.AddSegment(g.grid)
	seg.ID = g.space.Instantiate(types.KindBody, seg.Pos)
	g.renderer.SetTransform(seg.ID, seg.Pos, seg.Facing.Angle())

	score := g.scores.Add(f.Kind)
	g.ui.SetScore(score)
	g.logger.Printf("ate %s food at %v: score %d, occupancy %d", f.Kind, f.Pos, score, g.snake.Occupancy())

	switch f.Kind {
	case entity.SmallFood:
		g.food = nil
		if !g.spawnSmall() {
			return true
		}
		if g.foodMgr.ShouldSpawnBig(g.snake.Occupancy()) {
			g.spawnBig()
		}
	case entity.BigFood:
		g.bigFood = nil
		g.hideCountdown()
	}
	return true
}

func (g *Game) spawnSmall() bool {
	excluded := g.snake.Occupied()
	if g.bigFood != nil {
		excluded[g.bigFood.Pos] = struct{}{}
	}
	pos, err := g.foodMgr.Spawn(entity.SmallFood, excluded)
	if err != nil {
		g.finish(Exhausted, err)
		return false
	}
	id := g.space.Instantiate(types.KindFood, pos)
	g.food = entity.NewFood(id, entity.SmallFood, pos, 0)
	return true
}

func (g *Game) spawnBig() bool {
	occupancy := g.snake.Occupancy()
	excluded := g.snake.Occupied()
	if g.food != nil {
		excluded[g.food.Pos] = struct{}{}
	}
	pos, err := g.foodMgr.Spawn(entity.BigFood, excluded)
	if err != nil {
		g.finish(Exhausted, err)
		return false
	}

	if g.bigFood != nil {
		// a single slot: the newer item replaces the old one
		g.space.Destroy(g.bigFood.ID)
	}
	id := g.space.Instantiate(types.KindBigFood, pos)
	g.bigFood = entity.NewFood(id, entity.BigFood, pos, g.cfg.BigFoodLifetime)

	g.ui.ShowCountdown()
	g.ui.SetCountdown(1)
	g.countdownVisible = true

	sched := g.foodMgr.Scheduler()
	sched.MarkSpawned(occupancy)
	g.logger.Printf("big food spawned at %v (occupancy %d), next at %d", pos, occupancy, sched.NextThreshold)
	return true
}

func (g *Game) hideCountdown() {
	if !g.countdownVisible {
		return
	}
	g.countdownVisible = false
	g.ui.HideCountdown()
}

func (g *Game) publishTransforms() {
	g.renderer.SetTransform(g.snake.HeadID, g.snake.Head, g.snake.Heading.Vec().Angle())
	for _, seg := range g.snake.Segments {
		g.renderer.SetTransform(seg.ID, seg.Pos, seg.Facing.Angle())
	}
}

// finish enters a terminal state once; later calls are no-ops.
func (g *Game) finish(state State, cause error) {
	if g.state.Terminal() {
		return
	}
	g.state = state
	g.endErr = cause
	g.EndTime = time.Now()

	g.hideCountdown()
	g.ui.ShowGameOver()
	g.ui.HideGameplay()
	close(g.done)

	g.logger.Printf("session ended (%s) after %d ticks with score %d: %v", state, g.ticks, g.scores.Score(), cause)
}
