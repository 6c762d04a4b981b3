package terminal

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wricardo/ladderdare/game/board"
	"github.com/wricardo/ladderdare/game/deck"
	"github.com/wricardo/ladderdare/game/engine"
)

const (
	boardSide = 10
	cellWidth = 5
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	snakeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	ladderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	truthStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	dareStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	winStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	glowStyle   = lipgloss.NewStyle().Bold(true).Reverse(true)

	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("13")).
			Padding(0, 1).
			Width(44)
)

// CellAt returns the cell drawn at row and column of the board, row 0 being
// the top. Rows alternate direction so the path snakes upward from cell 1 in
// the bottom left corner.
func CellAt(row, col int) int {
	fromBottom := boardSide - 1 - row
	if fromBottom%2 == 1 {
		col = boardSide - 1 - col
	}
	return fromBottom*boardSide + col + 1
}

// PlayerStyle returns the style for a player color.
func PlayerStyle(c engine.Color) lipgloss.Style {
	hex := fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color(hex))
}

// RenderBoard draws the board with pieces, hazards and challenge cells. The
// start cell of lit, the hazard taken in the last turn, is highlighted and
// marked with a star. lit may be nil.
func RenderBoard(state *engine.GameState, lit *board.Hazard) string {
	occupants := make(map[int][]int)
	for p, pos := range state.Positions {
		occupants[pos] = append(occupants[pos], p)
	}

	rows := make([]string, 0, boardSide)
	for row := 0; row < boardSide; row++ {
		var line strings.Builder
		for col := 0; col < boardSide; col++ {
			line.WriteString(renderCell(state, CellAt(row, col), occupants, lit))
		}
		rows = append(rows, line.String())
	}
	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderCell(state *engine.GameState, cell int, occupants map[int][]int, lit *board.Hazard) string {
	pad := func(s string) string { return fmt.Sprintf("%-*s", cellWidth, s) }

	if players := occupants[cell]; len(players) > 0 {
		var mark strings.Builder
		for _, p := range players {
			initial := string([]rune(state.Players[p] + "?")[0])
			mark.WriteString(PlayerStyle(colorOf(state, p)).Render(initial))
		}
		return mark.String() + strings.Repeat(" ", cellWidth-len(players))
	}

	if h, ok := state.HazardAt(cell); ok {
		if lit != nil && lit.Start == cell {
			letter := "L"
			if h.Kind == board.Snake {
				letter = "S"
			}
			return glowStyle.Render(pad(fmt.Sprintf("%s%d*", letter, cell)))
		}
		if h.Kind == board.Snake {
			return snakeStyle.Render(pad(fmt.Sprintf("S%d", cell)))
		}
		return ladderStyle.Render(pad(fmt.Sprintf("L%d", cell)))
	}

	if card, ok := state.Assignment[strconv.Itoa(cell)]; ok {
		if card.Category == deck.Truth {
			return truthStyle.Render(pad(fmt.Sprintf("T%d", cell)))
		}
		return dareStyle.Render(pad(fmt.Sprintf("D%d", cell)))
	}

	return dimStyle.Render(pad(strconv.Itoa(cell)))
}

func colorOf(state *engine.GameState, player int) engine.Color {
	if player < len(state.Colors) {
		return state.Colors[player]
	}
	return engine.Palette[player%len(engine.Palette)]
}

// RenderStatus draws the roster, the hazards legend and the pending card.
func RenderStatus(state *engine.GameState) string {
	var out strings.Builder

	out.WriteString(titleStyle.Render(fmt.Sprintf("Level %d · Round %d", state.Level, state.Rounds+1)))
	out.WriteString("\n")

	for i, name := range state.Players {
		marker := "  "
		if i == state.Turn && !state.GameOver() {
			marker = "▶ "
		}
		out.WriteString(fmt.Sprintf("%s%s %-12s %3d\n", marker, PlayerStyle(colorOf(state, i)).Render(" "), name, state.Positions[i]))
	}

	var legend []string
	for _, h := range state.Hazards() {
		style := ladderStyle
		if h.Kind == board.Snake {
			style = snakeStyle
		}
		legend = append(legend, style.Render(fmt.Sprintf("%d→%d", h.Start, h.End)))
	}
	if len(legend) > 0 {
		out.WriteString(dimStyle.Render("hazards ") + strings.Join(legend, " ") + "\n")
	}

	if p := state.Pending; p != nil {
		style := dareStyle
		if p.Category == deck.Truth {
			style = truthStyle
		}
		body := style.Render(strings.ToUpper(string(p.Category))) + "\n" + p.Text
		if p.Timed {
			body += "\n" + dimStyle.Render(fmt.Sprintf("⏱ %d detik", p.TimerSeconds))
		}
		out.WriteString(cardStyle.Render(body) + "\n")
	}

	if state.GameOver() && state.Winner >= 0 && state.Winner < len(state.Players) {
		out.WriteString(winStyle.Render(fmt.Sprintf("🏆 %s menang!", state.Players[state.Winner])) + "\n")
	}

	return out.String()
}

// RenderLog returns the last n lines of the turn log.
func RenderLog(lines []string, n int) string {
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return dimStyle.Render(strings.Join(lines, "\n"))
}

// Render draws the full screen: board beside status.
func Render(state *engine.GameState, log []string, lit *board.Hazard) string {
	side := lipgloss.JoinVertical(lipgloss.Left, RenderStatus(state), RenderLog(log, 8))
	return lipgloss.JoinHorizontal(lipgloss.Top, RenderBoard(state, lit), "  ", side)
}
