package game

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Runner drives a Game with two independent periodic processes: movement
// ticks and big food countdown steps.
type Runner struct {
	game *Game

	onTick func(TickResult)

	running  atomic.Bool
	lastTick atomic.Int64 // unix nanos of the last movement tick
	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewRunner(g *Game) *Runner {
	return &Runner{
		game:     g,
		stopChan: make(chan struct{}),
	}
}

// OnTick registers fn to run after every movement tick, on the movement
// goroutine. Set it before Start.
func (r *Runner) OnTick(fn func(TickResult)) {
	r.onTick = fn
}

// Start launches both loops. A second call is a no-op.
func (r *Runner) Start(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		return
	}
	r.lastTick.Store(time.Now().UnixNano())

	r.wg.Add(2)
	go r.movementLoop(ctx)
	go r.countdownLoop(ctx)
}

// Stop signals both loops and waits for them to exit. Safe to call more than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopChan)
	})
	r.wg.Wait()
	r.running.Store(false)
}

// Wait blocks until both loops have exited on their own.
func (r *Runner) Wait() {
	r.wg.Wait()
	r.running.Store(false)
}

func (r *Runner) Running() bool {
	return r.running.Load()
}

// Progress is how far the clock is between the last movement tick and the
// next, in [0,1]. Front-ends interpolate with it.
func (r *Runner) Progress() float64 {
	interval := r.game.cfg.MoveInterval
	elapsed := time.Since(time.Unix(0, r.lastTick.Load()))
	p := float64(elapsed) / float64(interval)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (r *Runner) movementLoop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.game.cfg.MoveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-r.game.Done():
			return
		case <-ticker.C:
			res := r.game.Tick()
			r.lastTick.Store(time.Now().UnixNano())
			if r.onTick != nil {
				r.onTick(res)
			}
			if res.State.Terminal() {
				return
			}
		}
	}
}

func (r *Runner) countdownLoop(ctx context.Context) {
	defer r.wg.Done()

	step := r.game.cfg.CountdownStep
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-r.game.Done():
			return
		case <-ticker.C:
			r.game.TickCountdown(step)
		}
	}
}
