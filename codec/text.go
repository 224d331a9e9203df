package codec

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-yals/model"
)

// ErrBadTextHeader is returned when a text world lacks a valid "W,H,ON,OFF" line
var ErrBadTextHeader = errors.New("bad text world header")

// Default characters for live and dead cells in text worlds
const (
	TextOn  = 'O'
	TextOff = 'X'
)

/*
FormatText renders a world in the plain text format:

	W,H,ON,OFF
	<H rows of W characters>

A cell is written as on when either of its bits is set. Generation and phase are
not part of the text format.
*/
func FormatText(w *model.World, on, off rune) string {
	var b strings.Builder
	b.Grow(w.CellCount() + w.Height() + 32)
	fmt.Fprintf(&b, "%d,%d,%c,%c\n", w.Width(), w.Height(), on, off)

	w.ForEachCell(func(x, _ int, cell uint32) uint32 {
		if cell != 0 {
			b.WriteRune(on)
		} else {
			b.WriteRune(off)
		}
		if x == w.Width()-1 {
			b.WriteByte('\n')
		}
		return cell
	})
	return b.String()
}

// ParseText reads a world in the format written by FormatText. Row breaks are
// not significant; cells are consumed in row-major order, missing cells are dead
// and any character other than ON counts as dead.
func ParseText(text string) (*model.World, error) {
	lines := strings.Split(text, "\n")

	meta := strings.Split(strings.TrimSpace(lines[0]), ",")
	if len(meta) != 4 {
		return nil, errors.Wrapf(ErrBadTextHeader, "[ParseText] expected 4 fields, got %q", lines[0])
	}
	width, err := strconv.Atoi(meta[0])
	if err != nil {
		return nil, errors.Wrapf(ErrBadTextHeader, "[ParseText] width %q", meta[0])
	}
	height, err := strconv.Atoi(meta[1])
	if err != nil {
		return nil, errors.Wrapf(ErrBadTextHeader, "[ParseText] height %q", meta[1])
	}
	if utf8.RuneCountInString(meta[2]) != 1 || utf8.RuneCountInString(meta[3]) != 1 {
		return nil, errors.Wrapf(ErrBadTextHeader, "[ParseText] on/off must be single characters: %q, %q", meta[2], meta[3])
	}
	on, _ := utf8.DecodeRuneInString(meta[2])

	w, err := model.NewWorld(width, height, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[ParseText]")
	}

	var cells []rune
	for _, line := range lines[1:] {
		cells = append(cells, []rune(strings.TrimSpace(line))...)
		if len(cells) >= w.CellCount() {
			break
		}
	}

	i := 0
	w.ForEachCell(func(_, _ int, _ uint32) uint32 {
		var v uint32
		if i < len(cells) && cells[i] == on {
			v = 1
		}
		i++
		return v
	})
	return w, nil
}
