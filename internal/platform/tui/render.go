package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/netpong/internal/fixed"
	"github.com/vovakirdan/netpong/internal/game"
)

// Cell kinds for the playfield grid. Runs of the same kind share one style
// to keep ANSI output small over SSH.
type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellNet
	cellPaddleLeft
	cellPaddleRight
	cellBall
)

var cellStyles = map[cellKind]lipgloss.Style{
	cellEmpty:       lipgloss.NewStyle(),
	cellNet:         lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	cellPaddleLeft:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	cellPaddleRight: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	cellBall:        lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
}

var cellRunes = map[cellKind]rune{
	cellEmpty:       ' ',
	cellNet:         '┊',
	cellPaddleLeft:  '█',
	cellPaddleRight: '█',
	cellBall:        '●',
}

var (
	scoreStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// RenderMatch draws the score, the playfield, and a status footer. The
// simulation lives in a unit square; this projects it onto whatever cell
// grid the terminal offers, so peers with different window sizes still see
// the same match.
func RenderMatch(v game.View, width, height int, footer string) string {
	fieldW, fieldH := fieldSize(width, height)

	grid := make([][]cellKind, fieldH)
	for y := range grid {
		grid[y] = make([]cellKind, fieldW)
	}

	// Center net.
	for y := 0; y < fieldH; y += 2 {
		grid[y][fieldW/2] = cellNet
	}

	drawPaddle(grid, v.LeftY, v.PaddleHalfH, scaleX(v.PaddleX, fieldW), cellPaddleLeft)
	drawPaddle(grid, v.RightY, v.PaddleHalfH, scaleX(fixed.One-v.PaddleX, fieldW), cellPaddleRight)

	bx := scaleX(v.BallPos.X, fieldW)
	by := scaleY(v.BallPos.Y, fieldH)
	if bx >= 0 && bx < fieldW && by >= 0 && by < fieldH {
		grid[by][bx] = cellBall
	}

	var b strings.Builder
	b.WriteString(centerText(scoreStyle.Render(fmt.Sprintf("%d  :  %d", v.Score[0], v.Score[1])), width))
	b.WriteString("\n")
	b.WriteString(centerText(borderStyle.Render("┌"+strings.Repeat("─", fieldW)+"┐"), width))
	b.WriteString("\n")
	for y := 0; y < fieldH; y++ {
		b.WriteString(centerText(borderStyle.Render("│")+renderRow(grid[y])+borderStyle.Render("│"), width))
		b.WriteString("\n")
	}
	b.WriteString(centerText(borderStyle.Render("└"+strings.Repeat("─", fieldW)+"┘"), width))
	b.WriteString("\n")
	b.WriteString(centerText(statusStyle.Render(footer), width))
	return b.String()
}

// renderRow emits a grid row, grouping adjacent cells of the same kind
// into a single styled run.
func renderRow(row []cellKind) string {
	var b strings.Builder
	x := 0
	for x < len(row) {
		kind := row[x]
		var run strings.Builder
		for x < len(row) && row[x] == kind {
			run.WriteRune(cellRunes[kind])
			x++
		}
		if kind == cellEmpty {
			b.WriteString(run.String())
		} else {
			b.WriteString(cellStyles[kind].Render(run.String()))
		}
	}
	return b.String()
}

func drawPaddle(grid [][]cellKind, centerY, halfH fixed.Fx, col int, kind cellKind) {
	fieldH := len(grid)
	if fieldH == 0 || col < 0 || col >= len(grid[0]) {
		return
	}
	top := scaleY(centerY+halfH, fieldH)
	bottom := scaleY(centerY-halfH, fieldH)
	for y := top; y <= bottom; y++ {
		if y >= 0 && y < fieldH {
			grid[y][col] = kind
		}
	}
}

// fieldSize fits the playfield into the window, leaving room for the score
// line, two border rows, and the footer. A 2:1 width bias compensates for
// terminal cells being roughly twice as tall as wide.
func fieldSize(width, height int) (int, int) {
	w := width - 4
	h := height - 4
	if w < 20 {
		w = 20
	}
	if h < 8 {
		h = 8
	}
	if w > 2*h {
		w = 2 * h
	}
	return w, h
}

// scaleX maps a normalized coordinate onto a column.
func scaleX(v fixed.Fx, cells int) int {
	return clampCell(int(int64(v)*int64(cells)/int64(fixed.One)), cells)
}

// scaleY maps a normalized coordinate onto a row; simulation Y grows
// upward, terminal rows grow downward.
func scaleY(v fixed.Fx, cells int) int {
	return clampCell(cells-1-int(int64(v)*int64(cells)/int64(fixed.One)), cells)
}

func clampCell(v, cells int) int {
	if v < 0 {
		return 0
	}
	if v >= cells {
		return cells - 1
	}
	return v
}

// centerText centers a rendered line in the window width.
func centerText(text string, width int) string {
	pad := (width - lipgloss.Width(text)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text
}
