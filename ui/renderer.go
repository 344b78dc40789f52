// Package ui is the raylib desktop front-end. Renderer implements the
// game's Renderer, UI and SpawnSpace collaborators; calls from the runner
// goroutines are recorded under a lock and drawn on the main thread.
package ui

import (
	"fmt"
	"sync"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"torus-snake/game"
	"torus-snake/game/types"
)

const (
	borderPadding = 10
	countdownBarH = 8
)

// HUD is the session information shown in the stats panel.
type HUD struct {
	Session   int
	HighScore int
	Average   float64
	Autopilot bool
	Elapsed   time.Duration
}

type sprite struct {
	kind     types.EntityKind
	prev     types.Vec
	cur      types.Vec
	rotation float64
}

type Renderer struct {
	mu sync.Mutex

	sprites          map[types.EntityID]*sprite
	score            int
	gameOver         bool
	gameplayHidden   bool
	countdownVisible bool
	countdown        float64

	dragging  bool
	dragStart rl.Vector2

	screenWidth  int32
	screenHeight int32
	statsPanel   int32
	gameWidth    int32
	cellSize     int32
	offsetX      int32
	offsetY      int32
}

func NewRenderer() *Renderer {
	r := &Renderer{sprites: make(map[types.EntityID]*sprite)}
	return r
}

// Reset clears everything a previous session left behind.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sprites = make(map[types.EntityID]*sprite)
	r.score = 0
	r.gameOver = false
	r.gameplayHidden = false
	r.countdownVisible = false
	r.countdown = 0
}

func (r *Renderer) Instantiate(kind types.EntityKind, pos types.Vec) types.EntityID {
	id := uuid.New()
	r.mu.Lock()
	r.sprites[id] = &sprite{kind: kind, prev: pos, cur: pos}
	r.mu.Unlock()
	return id
}

func (r *Renderer) Destroy(id types.EntityID) {
	r.mu.Lock()
	delete(r.sprites, id)
	r.mu.Unlock()
}

func (r *Renderer) SetTransform(id types.EntityID, pos types.Vec, rotation float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sprites[id]
	if !ok {
		return
	}
	s.prev = s.cur
	s.cur = pos
	s.rotation = rotation
}

func (r *Renderer) SetScore(value int) {
	r.mu.Lock()
	r.score = value
	r.mu.Unlock()
}

func (r *Renderer) ShowGameOver() {
	r.mu.Lock()
	r.gameOver = true
	r.mu.Unlock()
}

func (r *Renderer) HideGameplay() {
	r.mu.Lock()
	r.gameplayHidden = true
	r.mu.Unlock()
}

func (r *Renderer) SetCountdown(fraction float64) {
	r.mu.Lock()
	r.countdown = fraction
	r.mu.Unlock()
}

func (r *Renderer) ShowCountdown() {
	r.mu.Lock()
	r.countdownVisible = true
	r.mu.Unlock()
}

func (r *Renderer) HideCountdown() {
	r.mu.Lock()
	r.countdownVisible = false
	r.mu.Unlock()
}

// HandleInput forwards arrow keys and completed left-button drags to g.
// Screen y grows downwards, so drags are flipped before mapping.
func (r *Renderer) HandleInput(g *game.Game) {
	switch {
	case rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyW):
		g.SetDirection(types.Up)
	case rl.IsKeyPressed(rl.KeyRight) || rl.IsKeyPressed(rl.KeyD):
		g.SetDirection(types.Right)
	case rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyS):
		g.SetDirection(types.Down)
	case rl.IsKeyPressed(rl.KeyLeft) || rl.IsKeyPressed(rl.KeyA):
		g.SetDirection(types.Left)
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		r.dragging = true
		r.dragStart = rl.GetMousePosition()
	}
	if r.dragging && rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		r.dragging = false
		end := rl.GetMousePosition()
		g.OnGesture(
			types.Vec{X: float64(r.dragStart.X), Y: -float64(r.dragStart.Y)},
			types.Vec{X: float64(end.X), Y: -float64(end.Y)},
		)
	}
}

func (r *Renderer) UpdateDimensions(grid types.Grid) {
	r.screenWidth = int32(rl.GetScreenWidth())
	r.screenHeight = int32(rl.GetScreenHeight())
	r.statsPanel = r.screenWidth / 7
	r.gameWidth = r.screenWidth - r.statsPanel

	availableWidth := r.gameWidth - borderPadding*2
	availableHeight := r.screenHeight - borderPadding*2
	r.cellSize = min(availableWidth/int32(grid.Cols()), availableHeight/int32(grid.Rows()))
	if r.cellSize < 1 {
		r.cellSize = 1
	}

	r.offsetX = borderPadding
	r.offsetY = (r.screenHeight - r.cellSize*int32(grid.Rows())) / 2
}

// toScreen converts a y-up world cell to the top-left pixel of its square.
func (r *Renderer) toScreen(grid types.Grid, p types.Vec) (int32, int32) {
	col, row := grid.Offset(p)
	row = float64(grid.Rows()-1) - row
	return r.offsetX + int32(col*float64(r.cellSize)), r.offsetY + int32(row*float64(r.cellSize))
}

// Draw renders one frame. progress is how far the runner is between two
// movement ticks; sprites are interpolated along the wrapped path.
func (r *Renderer) Draw(grid types.Grid, progress float64, hud HUD) {
	r.UpdateDimensions(grid)

	r.mu.Lock()
	defer r.mu.Unlock()

	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.Black)

	fontSize := min(r.screenHeight/45, r.statsPanel/10)
	cols, rows := int32(grid.Cols()), int32(grid.Rows())

	rl.DrawRectangle(r.offsetX-1, r.offsetY-1, r.cellSize*cols+2, r.cellSize*rows+2, rl.DarkGray)
	for x := int32(0); x < cols; x++ {
		for y := int32(0); y < rows; y++ {
			rl.DrawRectangleLines(r.offsetX+x*r.cellSize, r.offsetY+y*r.cellSize, r.cellSize, r.cellSize, rl.Gray)
		}
	}

	if !r.gameplayHidden {
		for _, s := range r.sprites {
			r.drawSprite(grid, s, progress)
		}
		if r.countdownVisible {
			w := int32(float64(r.cellSize*cols) * r.countdown)
			rl.DrawRectangle(r.offsetX, r.offsetY-countdownBarH-2, w, countdownBarH, rl.Gold)
		}
	}

	if r.gameOver {
		text := fmt.Sprintf("Game Over! Score %d", r.score)
		textWidth := rl.MeasureText(text, fontSize*2)
		rl.DrawText(text,
			r.offsetX+(r.cellSize*cols-textWidth)/2,
			r.offsetY+r.cellSize*rows/2,
			fontSize*2, rl.Red)
	}

	r.drawStatsPanel(fontSize, hud)
}

func (r *Renderer) drawSprite(grid types.Grid, s *sprite, progress float64) {
	pos := s.cur
	if s.kind == types.KindHead || s.kind == types.KindBody {
		pos = types.Interpolate(grid, s.prev, s.cur, progress)
	}
	x, y := r.toScreen(grid, pos)

	switch s.kind {
	case types.KindHead:
		rl.DrawRectangle(x, y, r.cellSize, r.cellSize, rl.Lime)
		half := float32(r.cellSize) / 2
		rl.DrawRectanglePro(
			rl.Rectangle{X: float32(x) + half, Y: float32(y) + half, Width: half / 2, Height: half},
			rl.Vector2{X: half / 4, Y: half},
			float32(s.rotation), rl.Yellow)
	case types.KindBody:
		rl.DrawRectangle(x+1, y+1, r.cellSize-2, r.cellSize-2, rl.Green)
	case types.KindFood:
		rl.DrawRectangle(x, y, r.cellSize, r.cellSize, rl.Red)
	case types.KindBigFood:
		rl.DrawCircle(x+r.cellSize/2, y+r.cellSize/2, float32(r.cellSize)*0.7, rl.Orange)
	}
}

func (r *Renderer) drawStatsPanel(fontSize int32, hud HUD) {
	statsX := r.gameWidth + 5
	statsY := int32(10)
	lineHeight := fontSize + fontSize/2

	rl.DrawRectangle(statsX-5, 0, r.statsPanel+5, r.screenHeight, rl.DarkGray)

	lines := []string{
		fmt.Sprintf("Score: %d", r.score),
		fmt.Sprintf("High: %d", hud.HighScore),
		fmt.Sprintf("Game: %d", hud.Session),
		fmt.Sprintf("Avg: %.2f", hud.Average),
	}
	if hud.Autopilot {
		lines = append(lines, "Autopilot")
	}
	for _, line := range lines {
		rl.DrawText(line, statsX, statsY, fontSize, rl.White)
		statsY += lineHeight
	}

	elapsed := hud.Elapsed
	timeText := fmt.Sprintf("%02d:%02d:%02d", int(elapsed.Hours()), int(elapsed.Minutes())%60, int(elapsed.Seconds())%60)
	rl.DrawText(timeText, statsX, r.screenHeight-fontSize-5, fontSize, rl.White)
}
