package model

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

const clearScreen = "\033[H\033[2J"

// displayChars is indexed by cellDisplay: dead, born, dying, alive
var displayChars = [4]byte{'.', 'o', '*', 'O'}

var displayStyles = [4]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#444444")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#777777")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#00BB00")),
}

// TerminalRenderer prints worlds as text, one character per cell
type TerminalRenderer struct {
	Out    io.Writer
	Styled bool // colour cells with lipgloss
}

// NewTerminalRenderer returns a renderer writing to stdout. Colour is only used
// when stdout is a terminal.
func NewTerminalRenderer(styled bool) *TerminalRenderer {
	return &TerminalRenderer{
		Out:    os.Stdout,
		Styled: styled && term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// cellDisplay maps a cell to an index into displayChars. Before the next state
// is calculated a cell is only dead or alive.
func cellDisplay(phase Phase, cell uint32) int {
	current := cell & 1
	if phase != PhaseShift {
		return int(current * 3)
	}
	next := (cell >> 1) & 1
	switch {
	case current == 0 && next == 0:
		return 0
	case current == 0:
		return 1
	case next == 0:
		return 2
	default:
		return 3
	}
}

// Display renders the world header and grid
func (r *TerminalRenderer) Display(w *World) error {
	out := bufio.NewWriter(r.out())
	fmt.Fprintf(out, "World %dx%d, state: %s, gen %d:\n", w.Width(), w.Height(), w.Phase(), w.Generation())

	w.ForEachCell(func(x, y int, cell uint32) uint32 {
		idx := cellDisplay(w.Phase(), cell)
		if r.Styled {
			out.WriteString(displayStyles[idx].Render(string(displayChars[idx])))
		} else {
			out.WriteByte(displayChars[idx])
		}
		if x == w.Width()-1 {
			out.WriteByte('\n')
		}
		return cell
	})
	return out.Flush()
}

// Clear clears the terminal screen
func (r *TerminalRenderer) Clear() error {
	_, err := io.WriteString(r.out(), clearScreen)
	return err
}

func (r *TerminalRenderer) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}
