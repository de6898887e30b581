package commands

import (
	"errors"
	"fmt"

	"github.com/battlesnakeio/autopilot/board"
	"github.com/mattn/go-runewidth"
	termbox "github.com/nsf/termbox-go"
)

const (
	defaultColor = termbox.ColorDefault
	bgColor      = termbox.ColorDefault
	snakeColor   = termbox.ColorGreen
	headColor    = termbox.ColorYellow
	foodColor    = termbox.ColorRed
	deadColor    = termbox.ColorRed

	// cellWidth is the number of terminal columns per board cell.
	cellWidth = 2
	left      = 2
	top       = 2
)

func render(game *board.Game, frame *board.GameFrame, footer string) error {
	if frame == nil {
		return errors.New("received nil frame")
	}
	err := termbox.Clear(defaultColor, defaultColor)
	if err != nil {
		return err
	}

	renderTitle(frame)
	renderBoard(game)
	if frame.Food != nil {
		setCell(*frame.Food, 'o', foodColor, bgColor)
	}
	renderSnake(frame)
	renderDecision(game, frame)
	tbprint(left-1, top+game.Height+2, defaultColor, defaultColor, footer)

	return termbox.Flush()
}

func setCell(p board.Point, ch rune, fg, bg termbox.Attribute) {
	x := left + p.X*cellWidth
	y := top + p.Y + 1
	termbox.SetCell(x, y, ch, fg, bg)
	termbox.SetCell(x+1, y, ' ', fg, bg)
}

func renderSnake(frame *board.GameFrame) {
	if frame.Snake == nil {
		return
	}
	color := snakeColor
	if frame.Death != nil {
		color = deadColor
	}
	for i := len(frame.Snake.Body) - 1; i >= 0; i-- {
		c := color
		if i == 0 && frame.Death == nil {
			c = headColor
		}
		setCell(frame.Snake.Body[i], ' ', c, c)
	}
}

func renderTitle(frame *board.GameFrame) {
	text := fmt.Sprintf("Autopilot - Turn %d - Score %d", frame.Turn, frame.Score)
	switch {
	case frame.Won:
		text += " - board filled"
	case frame.Death != nil:
		text += " - " + frame.Death.Cause
	}
	tbprint(left-1, top-1, defaultColor, defaultColor, text)
}

func renderDecision(game *board.Game, frame *board.GameFrame) {
	if frame.Decision == nil {
		return
	}
	x := left + game.Width*cellWidth + 3
	d := frame.Decision
	lines := []string{
		fmt.Sprintf("mode:  %s", d.Mode),
		fmt.Sprintf("rule:  %s", d.Rule),
		fmt.Sprintf("move:  %s", d.Direction),
		fmt.Sprintf("free:  %d", d.FreeSpaces),
	}
	for i, l := range lines {
		tbprint(x, top+1+i, defaultColor, defaultColor, l)
	}
}

func renderBoard(game *board.Game) {
	width := game.Width * cellWidth
	bottom := top + game.Height + 1
	for i := top + 1; i < bottom; i++ {
		termbox.SetCell(left-1, i, '│', defaultColor, bgColor)
		termbox.SetCell(left+width, i, '│', defaultColor, bgColor)
	}

	termbox.SetCell(left-1, top, '┌', defaultColor, bgColor)
	termbox.SetCell(left-1, bottom, '└', defaultColor, bgColor)
	termbox.SetCell(left+width, top, '┐', defaultColor, bgColor)
	termbox.SetCell(left+width, bottom, '┘', defaultColor, bgColor)

	fill(left, top, width, 1, termbox.Cell{Ch: '─'})
	fill(left, bottom, width, 1, termbox.Cell{Ch: '─'})
}

func fill(x, y, w, h int, cell termbox.Cell) {
	for ly := 0; ly < h; ly++ {
		for lx := 0; lx < w; lx++ {
			termbox.SetCell(x+lx, y+ly, cell.Ch, cell.Fg, cell.Bg)
		}
	}
}

func tbprint(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x += runewidth.RuneWidth(c)
	}
}

func setupEventQueue() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			ev <- termbox.PollEvent()
		}
	}(eventQueue)
	return eventQueue
}
