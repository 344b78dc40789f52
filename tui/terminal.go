// Package tui renders a session in a terminal with tcell. Terminal is a
// drop-in set of collaborators for the game, like ui.Renderer.
package tui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"torus-snake/game"
	"torus-snake/game/types"
)

// A terminal cell is roughly twice as tall as it is wide. Mouse drags are
// scaled by these so the swipe threshold reads like pixels.
const (
	pixelsPerCol = 8
	pixelsPerRow = 16
)

var (
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHead    = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	styleBody    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleFood    = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleBigFood = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleText    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleBar     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

type entity struct {
	kind     types.EntityKind
	pos      types.Vec
	rotation float64
}

type Terminal struct {
	screen tcell.Screen

	mu               sync.Mutex
	entities         map[types.EntityID]*entity
	score            int
	gameOver         bool
	gameplayHidden   bool
	countdownVisible bool
	countdown        float64

	dragging bool
	dragX    int
	dragY    int
}

// Open initializes the terminal screen with mouse support.
func Open() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	return NewTerminal(screen), nil
}

// NewTerminal wraps an initialized screen.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen:   screen,
		entities: make(map[types.EntityID]*entity),
	}
}

func (t *Terminal) Close() {
	t.screen.Fini()
}

// Events pumps screen events into a channel until the screen is finalized.
func (t *Terminal) Events() <-chan tcell.Event {
	ch := make(chan tcell.Event, 100)
	go func() {
		defer close(ch)
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			ch <- ev
		}
	}()
	return ch
}

func (t *Terminal) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entities = make(map[types.EntityID]*entity)
	t.score = 0
	t.gameOver = false
	t.gameplayHidden = false
	t.countdownVisible = false
	t.countdown = 0
}

func (t *Terminal) Instantiate(kind types.EntityKind, pos types.Vec) types.EntityID {
	id := uuid.New()
	t.mu.Lock()
	t.entities[id] = &entity{kind: kind, pos: pos}
	t.mu.Unlock()
	return id
}

func (t *Terminal) Destroy(id types.EntityID) {
	t.mu.Lock()
	delete(t.entities, id)
	t.mu.Unlock()
}

func (t *Terminal) SetTransform(id types.EntityID, pos types.Vec, rotation float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, ok := t.entities[id]; ok {
		e.pos = pos
		e.rotation = rotation
	}
}

func (t *Terminal) SetScore(value int) {
	t.mu.Lock()
	t.score = value
	t.mu.Unlock()
}

func (t *Terminal) ShowGameOver() {
	t.mu.Lock()
	t.gameOver = true
	t.mu.Unlock()
}

func (t *Terminal) HideGameplay() {
	t.mu.Lock()
	t.gameplayHidden = true
	t.mu.Unlock()
}

func (t *Terminal) SetCountdown(fraction float64) {
	t.mu.Lock()
	t.countdown = fraction
	t.mu.Unlock()
}

func (t *Terminal) ShowCountdown() {
	t.mu.Lock()
	t.countdownVisible = true
	t.mu.Unlock()
}

func (t *Terminal) HideCountdown() {
	t.mu.Lock()
	t.countdownVisible = false
	t.mu.Unlock()
}

// HandleEvent applies one input event to g. It returns false when the
// player asked to quit.
func (t *Terminal) HandleEvent(ev tcell.Event, g *game.Game) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			g.SetDirection(types.Up)
		case tcell.KeyRight:
			g.SetDirection(types.Right)
		case tcell.KeyDown:
			g.SetDirection(types.Down)
		case tcell.KeyLeft:
			g.SetDirection(types.Left)
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'w':
				g.SetDirection(types.Up)
			case 'd':
				g.SetDirection(types.Right)
			case 's':
				g.SetDirection(types.Down)
			case 'a':
				g.SetDirection(types.Left)
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		pressed := ev.Buttons()&tcell.Button1 != 0
		switch {
		case pressed && !t.dragging:
			t.dragging, t.dragX, t.dragY = true, x, y
		case !pressed && t.dragging:
			t.dragging = false
			// rows grow downwards
			g.OnGesture(
				types.Vec{X: float64(t.dragX * pixelsPerCol), Y: -float64(t.dragY * pixelsPerRow)},
				types.Vec{X: float64(x * pixelsPerCol), Y: -float64(y * pixelsPerRow)},
			)
		}

	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// cellOrigin is the top-left screen position of the board. Every grid cell
// takes two columns.
func (t *Terminal) cellOrigin(grid types.Grid) (int, int) {
	w, h := t.screen.Size()
	x := (w - grid.Cols()*2 - 2) / 2
	y := (h - grid.Rows() - 4) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x + 1, y + 2
}

// ScreenPos maps a y-up world cell to its left screen column and row.
func (t *Terminal) ScreenPos(grid types.Grid, p types.Vec) (int, int) {
	ox, oy := t.cellOrigin(grid)
	col, row := grid.Index(p)
	return ox + col*2, oy + grid.Rows() - 1 - row
}

// Draw renders the board, HUD line and overlays.
func (t *Terminal) Draw(grid types.Grid, session, highScore int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	ox, oy := t.cellOrigin(grid)
	cols, rows := grid.Cols(), grid.Rows()

	for x := ox - 1; x <= ox+cols*2; x++ {
		t.screen.SetContent(x, oy-1, '─', nil, styleBorder)
		t.screen.SetContent(x, oy+rows, '─', nil, styleBorder)
	}
	for y := oy; y < oy+rows; y++ {
		t.screen.SetContent(ox-1, y, '│', nil, styleBorder)
		t.screen.SetContent(ox+cols*2, y, '│', nil, styleBorder)
	}

	t.drawText(ox, oy-2, styleText, fmt.Sprintf("Score %d  High %d  Game %d", t.score, highScore, session))

	if !t.gameplayHidden {
		for _, e := range t.entities {
			x, y := t.ScreenPos(grid, e.pos)
			r, style := glyph(e)
			t.screen.SetContent(x, y, r, nil, style)
			t.screen.SetContent(x+1, y, r, nil, style)
		}
		if t.countdownVisible {
			n := int(float64(cols*2) * t.countdown)
			for x := 0; x < n; x++ {
				t.screen.SetContent(ox+x, oy+rows+1, '▀', nil, styleBar)
			}
		}
	}

	if t.gameOver {
		msg := fmt.Sprintf("GAME OVER  score %d", t.score)
		t.drawText(ox+(cols*2-len(msg))/2, oy+rows/2, styleFood.Bold(true), msg)
	}
	t.screen.Show()
}

func (t *Terminal) drawText(x, y int, style tcell.Style, s string) {
	for i, r := range []rune(s) {
		t.screen.SetContent(x+i, y, r, nil, style)
	}
}

func glyph(e *entity) (rune, tcell.Style) {
	switch e.kind {
	case types.KindHead:
		return '█', styleHead
	case types.KindBody:
		return '▓', styleBody
	case types.KindBigFood:
		return '◆', styleBigFood
	default:
		return '●', styleFood
	}
}
