package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"torus-snake/ai"
	"torus-snake/game"
	"torus-snake/game/types"
	"torus-snake/tui"
	"torus-snake/ui"
)

// restartDelay is how long the game over screen stays up between sessions.
const restartDelay = 2 * time.Second

// frontend is the part of a display the session loop needs besides the
// collaborator interfaces.
type frontend interface {
	game.Renderer
	game.UI
	game.SpawnSpace
	Reset()
}

type host struct {
	cfg       game.Config
	games     int
	history   *SessionHistory
	pilot     *ai.QLearning
	logger    *log.Logger
	startTime time.Time
}

func main() {
	mode := flag.String("ui", "raylib", "front-end: raylib, term or headless")
	width := flag.Float64("width", types.DefaultGridWidth, "grid width in world units")
	height := flag.Float64("height", types.DefaultGridHeight, "grid height in world units")
	cell := flag.Float64("cell", types.DefaultCellSize, "cell size in world units")
	interval := flag.Duration("interval", 500*time.Millisecond, "time between movement ticks")
	lifetime := flag.Duration("lifetime", 6*time.Second, "big food lifetime")
	grace := flag.Int("grace", types.DefaultGraceSegments, "body segments that never collide with the head")
	seed := flag.Uint64("seed", 0, "spawn RNG seed (0 picks one from the clock)")
	autopilot := flag.Bool("autopilot", false, "let the Q-learning agent steer")
	games := flag.Int("games", 0, "sessions to play before exiting (0 means unlimited)")
	logFile := flag.String("log", "", "write logs to this file instead of stderr")
	flag.Parse()

	var out io.Writer = os.Stderr
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		out = f
	} else if *mode == "term" {
		// stderr would scribble over the screen
		out = io.Discard
	}
	logger := log.New(out, "snake ", log.LstdFlags)

	cfg := game.DefaultConfig()
	cfg.Grid = types.Grid{CellSize: *cell, Width: *width, Height: *height}
	cfg.BodySpacing = *cell
	cfg.MoveInterval = *interval
	cfg.BigFoodLifetime = *lifetime
	cfg.GraceSegments = *grace
	cfg.Seed = *seed
	cfg.Logger = logger
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	h := &host{
		cfg:       cfg,
		games:     *games,
		history:   NewSessionHistory(),
		logger:    logger,
		startTime: time.Now(),
	}
	if *autopilot || *mode == "headless" {
		pilotSeed := *seed
		if pilotSeed == 0 {
			pilotSeed = uint64(time.Now().UnixNano())
		}
		h.pilot = ai.NewQLearning(pilotSeed)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch *mode {
	case "raylib":
		err = h.runRaylib(ctx)
	case "term":
		err = h.runTerminal(ctx)
	case "headless":
		err = h.runHeadless(ctx)
	default:
		err = fmt.Errorf("unknown front-end %q", *mode)
	}
	h.summary()
	if err != nil {
		log.Fatal(err)
	}
}

func (h *host) done() bool {
	return h.games > 0 && h.history.GamesPlayed() >= h.games
}

// startSession builds and starts a new game with its runner. The autopilot,
// when enabled, steers from the runner's movement goroutine.
func (h *host) startSession(ctx context.Context, fe frontend) (*game.Game, *game.Runner, error) {
	if fe != nil {
		fe.Reset()
	}
	collab := game.Collaborators{}
	if fe != nil {
		collab = game.Collaborators{Renderer: fe, UI: fe, Space: fe}
	}

	cfg := h.cfg
	if cfg.Seed != 0 {
		cfg.Seed += uint64(h.history.GamesPlayed())
	}
	g, err := game.New(cfg, collab)
	if err != nil {
		return nil, nil, err
	}
	if err := g.Start(); err != nil {
		return nil, nil, err
	}

	r := game.NewRunner(g)
	if h.pilot != nil {
		h.attachPilot(g, r)
	}
	r.Start(ctx)
	return g, r, nil
}

func (h *host) attachPilot(g *game.Game, r *game.Runner) {
	prev := g.Snapshot()
	action := h.pilot.Decide(prev)
	g.SetDirection(action)

	r.OnTick(func(res game.TickResult) {
		if !res.Moved && !res.State.Terminal() {
			return
		}
		next := g.Snapshot()
		h.pilot.Learn(prev, action, next, ai.Reward(prev, next))
		if res.State.Terminal() {
			h.pilot.EndEpisode()
			return
		}
		prev = next
		action = h.pilot.Decide(next)
		g.SetDirection(action)
	})
}

func (h *host) finishSession(g *game.Game, r *game.Runner) {
	r.Stop()
	snap := g.Snapshot()
	h.history.Add(snap, g.StartTime, time.Now())
	h.logger.Printf("game %d finished: %s, score %d, length %d", h.history.GamesPlayed(), snap.State, snap.Score, snap.Occupancy)
}

func (h *host) hud() ui.HUD {
	return ui.HUD{
		Session:   h.history.GamesPlayed() + 1,
		HighScore: h.history.MaxScore(),
		Average:   h.history.AverageScore(),
		Autopilot: h.pilot != nil,
		Elapsed:   time.Since(h.startTime),
	}
}

func (h *host) runHeadless(ctx context.Context) error {
	for !h.done() {
		g, r, err := h.startSession(ctx, nil)
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			r.Stop()
			return nil
		case <-g.Done():
		}
		h.finishSession(g, r)
	}
	return nil
}

func (h *host) runRaylib(ctx context.Context) error {
	rl.InitWindow(1280, 800, "Torus Snake")
	rl.SetWindowState(rl.FlagWindowResizable)
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	renderer := ui.NewRenderer()
	g, r, err := h.startSession(ctx, renderer)
	if err != nil {
		return err
	}
	var endedAt time.Time

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		if rl.IsKeyPressed(rl.KeyQ) {
			break
		}
		renderer.HandleInput(g)

		select {
		case <-g.Done():
			if endedAt.IsZero() {
				endedAt = time.Now()
				h.finishSession(g, r)
			}
			if h.done() {
				return nil
			}
			if time.Since(endedAt) >= restartDelay || rl.IsKeyPressed(rl.KeySpace) {
				if g, r, err = h.startSession(ctx, renderer); err != nil {
					return err
				}
				endedAt = time.Time{}
			}
		default:
		}

		renderer.Draw(h.cfg.Grid, r.Progress(), h.hud())
	}
	r.Stop()
	return nil
}

func (h *host) runTerminal(ctx context.Context) error {
	term, err := tui.Open()
	if err != nil {
		return err
	}
	defer term.Close()

	g, r, err := h.startSession(ctx, term)
	if err != nil {
		return err
	}
	events := term.Events()
	frame := time.NewTicker(16 * time.Millisecond)
	defer frame.Stop()
	var restart <-chan time.Time
	ended := g.Done()

	for {
		select {
		case <-ctx.Done():
			r.Stop()
			return nil
		case ev, ok := <-events:
			if !ok || !term.HandleEvent(ev, g) {
				r.Stop()
				return nil
			}
		case <-ended:
			ended = nil
			h.finishSession(g, r)
			if h.done() {
				term.Draw(h.cfg.Grid, h.history.GamesPlayed(), h.history.MaxScore())
				return nil
			}
			restart = time.After(restartDelay)
		case <-restart:
			restart = nil
			if g, r, err = h.startSession(ctx, term); err != nil {
				return err
			}
			ended = g.Done()
		case <-frame.C:
			term.Draw(h.cfg.Grid, h.history.GamesPlayed()+1, h.history.MaxScore())
		}
	}
}

func (h *host) summary() {
	played := h.history.GamesPlayed()
	if played == 0 {
		return
	}
	h.logger.Printf("played %d games in %v: max %d, average %.2f, median %.1f, average length %.1fs",
		played, time.Since(h.startTime).Round(time.Second), h.history.MaxScore(),
		h.history.AverageScore(), h.history.MedianScore(), h.history.AverageDuration())
	for state, n := range h.history.EndStates() {
		h.logger.Printf("  %s: %d", state, n)
	}
	if h.pilot != nil {
		h.logger.Printf("autopilot: %d episodes, epsilon %.3f, total reward %.1f",
			h.pilot.GamesPlayed, h.pilot.Epsilon, h.pilot.TotalReward)
	}
}
