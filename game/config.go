package game

import (
	"errors"
	"fmt"
	"log"
	"time"

	"torus-snake/game/types"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is fixed for the lifetime of a session.
type Config struct {
	Grid types.Grid

	// BodySpacing is how far each segment trails the one ahead of it.
	BodySpacing float64
	// GraceSegments is how many of the first body segments never collide with the head.
	GraceSegments int

	MoveInterval    time.Duration
	CountdownStep   time.Duration
	BigFoodLifetime time.Duration

	MinSwipeDistance float64
	SpawnAttempts    int
	BigFoodMinGap    int
	BigFoodMaxGap    int

	// Seed feeds the spawn RNG; zero picks one from the clock.
	Seed uint64

	Logger *log.Logger
}

func DefaultConfig() Config {
	return Config{
		Grid: types.Grid{
			CellSize: types.DefaultCellSize,
			Width:    types.DefaultGridWidth,
			Height:   types.DefaultGridHeight,
		},
		BodySpacing:      types.DefaultBodySpacing,
		GraceSegments:    types.DefaultGraceSegments,
		MoveInterval:     500 * time.Millisecond,
		CountdownStep:    100 * time.Millisecond,
		BigFoodLifetime:  6 * time.Second,
		MinSwipeDistance: types.DefaultMinSwipeDistance,
		SpawnAttempts:    types.DefaultSpawnAttempts,
		BigFoodMinGap:    types.DefaultBigFoodMinGap,
		BigFoodMaxGap:    types.DefaultBigFoodMaxGap,
	}
}

func (c Config) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.BodySpacing <= 0:
		return fmt.Errorf("%w: body spacing %g must be positive", ErrInvalidConfig, c.BodySpacing)
	case !types.IsMultiple(c.BodySpacing, c.Grid.CellSize):
		// segments off the cell lattice could never meet the head
		return fmt.Errorf("%w: body spacing %g is not a multiple of cell %g",
			ErrInvalidConfig, c.BodySpacing, c.Grid.CellSize)
	case c.GraceSegments < 0:
		return fmt.Errorf("%w: grace segments %d must not be negative", ErrInvalidConfig, c.GraceSegments)
	case c.MoveInterval <= 0 || c.CountdownStep <= 0:
		return fmt.Errorf("%w: move interval %v and countdown step %v must be positive",
			ErrInvalidConfig, c.MoveInterval, c.CountdownStep)
	case c.BigFoodLifetime <= 0:
		return fmt.Errorf("%w: big food lifetime %v must be positive", ErrInvalidConfig, c.BigFoodLifetime)
	case c.SpawnAttempts <= 0:
		return fmt.Errorf("%w: spawn attempts %d must be positive", ErrInvalidConfig, c.SpawnAttempts)
	case c.BigFoodMinGap <= 0 || c.BigFoodMaxGap < c.BigFoodMinGap:
		return fmt.Errorf("%w: big food gap [%d,%d] is not a valid range",
			ErrInvalidConfig, c.BigFoodMinGap, c.BigFoodMaxGap)
	}
	return nil
}
