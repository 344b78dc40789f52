package tui

import (
	"io"
	"log"
	"testing"

	"github.com/gdamore/tcell/v2"

	"torus-snake/game"
	"torus-snake/game/types"
)

func newTestTerminal(t *testing.T) (*Terminal, *game.Game) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	screen.SetSize(80, 30)
	t.Cleanup(screen.Fini)

	term := NewTerminal(screen)
	cfg := game.DefaultConfig()
	cfg.Seed = 3
	cfg.Logger = log.New(io.Discard, "", 0)
	g, err := game.New(cfg, game.Collaborators{Renderer: term, UI: term, Space: term})
	if err != nil {
		t.Fatalf("new game: %v", err)
	}
	if err := g.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return term, g
}

func TestDrawPlacesHead(t *testing.T) {
	term, g := newTestTerminal(t)
	grid := g.Config().Grid

	term.Draw(grid, 1, 0)

	x, y := term.ScreenPos(grid, types.Vec{})
	r, _, _, _ := term.screen.GetContent(x, y)
	if r != '█' {
		t.Fatalf("head cell shows %q", r)
	}
	snap := g.Snapshot()
	fx, fy := term.ScreenPos(grid, snap.Food)
	if r, _, _, _ := term.screen.GetContent(fx, fy); r != '●' {
		t.Fatalf("food cell shows %q", r)
	}
}

func TestScreenPosFlipsRows(t *testing.T) {
	term, g := newTestTerminal(t)
	grid := g.Config().Grid

	_, yTop := term.ScreenPos(grid, types.Vec{Y: grid.Height/2 - grid.CellSize})
	_, yBottom := term.ScreenPos(grid, types.Vec{Y: -grid.Height / 2})
	if yTop >= yBottom {
		t.Fatalf("top row %d drawn below bottom row %d", yTop, yBottom)
	}
	xLeft, _ := term.ScreenPos(grid, types.Vec{X: -grid.Width / 2})
	xRight, _ := term.ScreenPos(grid, types.Vec{X: grid.Width/2 - grid.CellSize})
	if xRight-xLeft != (grid.Cols()-1)*2 {
		t.Fatalf("columns span %d", xRight-xLeft)
	}
}

func TestKeysSteer(t *testing.T) {
	term, g := newTestTerminal(t)

	if !term.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), g) {
		t.Fatal("w quit the game")
	}
	if d := g.Snapshot().Direction; d != types.Up {
		t.Fatalf("direction %v", d)
	}
	g.Tick()
	term.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), g)
	if d := g.Snapshot().Direction; d != types.Up {
		t.Fatalf("reversal accepted: %v", d)
	}
	if term.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), g) {
		t.Fatal("escape did not quit")
	}
}

func TestMouseDragSteers(t *testing.T) {
	term, g := newTestTerminal(t)

	term.HandleEvent(tcell.NewEventMouse(10, 10, tcell.Button1, tcell.ModNone), g)
	term.HandleEvent(tcell.NewEventMouse(12, 10, tcell.Button1, tcell.ModNone), g)
	term.HandleEvent(tcell.NewEventMouse(20, 10, tcell.ButtonNone, tcell.ModNone), g)
	if d := g.Snapshot().Direction; d != types.Right {
		t.Fatalf("direction %v after a rightward drag", d)
	}

	// two columns is below the swipe threshold
	term.HandleEvent(tcell.NewEventMouse(10, 10, tcell.Button1, tcell.ModNone), g)
	term.HandleEvent(tcell.NewEventMouse(10, 8, tcell.ButtonNone, tcell.ModNone), g)
	if d := g.Snapshot().Direction; d != types.Right {
		t.Fatalf("short drag changed direction to %v", d)
	}
}

func TestGameOverOverlay(t *testing.T) {
	term, g := newTestTerminal(t)
	term.ShowGameOver()
	term.HideGameplay()
	grid := g.Config().Grid
	term.Draw(grid, 1, 0)

	x, y := term.ScreenPos(grid, types.Vec{})
	if r, _, _, _ := term.screen.GetContent(x, y); r == '█' {
		t.Fatal("head still drawn after gameplay was hidden")
	}
}
