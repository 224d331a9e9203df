package model

import (
	"math"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-yals/rules"
)

const (
	bitsPerCell  = 2
	cellsPerWord = 16 // 32-bit words
	wordShift    = 4  // log2(cellsPerWord)
	offsetMask   = cellsPerWord - 1
	windowLen    = 1 << (3 * bitsPerCell)

	cellMask     uint32 = 0x3
	currentBit   uint32 = 0x1
	currentMask  uint32 = 0x55555555
	windowMask   uint32 = 0x3f
	rowStartMask uint32 = 0x0f // drops the left cell of the window
	rowEndMask   uint32 = 0x3c // drops the right cell of the window
)

// MaxCells bounds width*height so both buffers stay allocatable (1 GiB each)
const MaxCells = 1 << 32

var (
	// ErrInvalidDimensions is returned for zero, negative or overflowing world sizes
	ErrInvalidDimensions = errors.New("invalid world dimensions")
	// ErrOutOfBounds is returned when a coordinate lies outside the world
	ErrOutOfBounds = errors.New("cell out of bounds")
)

// Phase is the half-step state of a world
type Phase uint16

const (
	// PhaseCalc means the next state has not been computed yet
	PhaseCalc Phase = 0
	// PhaseShift means next states sit in bit1 waiting to be committed
	PhaseShift Phase = 1
)

func (p Phase) String() string {
	if p == PhaseShift {
		return "SHIFT"
	}
	return "CALC"
}

/*
World is a bounded Life grid stored as packed 2-bit cells, 16 per uint32 word.

Bit0 of each cell is its current state, bit1 its computed next state. The scratch
buffer holds per-cell row counts while the next state is calculated. Both buffers
carry one guard word past the last logical cell.
*/
type World struct {
	width      int
	height     int
	cellCount  int
	dataSize   int
	generation uint32
	phase      Phase
	rule       rules.Rule

	data    []uint32
	scratch []uint32
	history []string // recent state hashes for cycle detection
}

// NewWorld creates an empty world with the specified dimensions.
// A nil rule selects Conway's Life.
func NewWorld(width, height int, rule rules.Rule) (*World, error) {
	if err := validateDimensions(width, height); err != nil {
		return nil, err
	}

	cellCount := width * height
	dataSize := (cellCount + cellsPerWord - 1) / cellsPerWord
	if rule == nil {
		rule = rules.Conway
	}
	return &World{
		width:     width,
		height:    height,
		cellCount: cellCount,
		dataSize:  dataSize,
		phase:     PhaseCalc,
		rule:      rule,
		data:      make([]uint32, dataSize+1),
		scratch:   make([]uint32, dataSize+1),
	}, nil
}

// Restore rebuilds a world from snapshot fields. Words beyond the world's data
// size are ignored and missing words read as zero.
func Restore(width, height int, generation uint32, phase Phase, words []uint32, rule rules.Rule) (*World, error) {
	w, err := NewWorld(width, height, rule)
	if err != nil {
		return nil, errors.Wrap(err, "[Restore] failed to allocate world")
	}
	copy(w.data[:w.dataSize], words)

	// cells past the last logical cell must stay dead
	if tail := w.cellCount & offsetMask; tail != 0 {
		w.data[w.dataSize-1] &= (uint32(1) << (tail * bitsPerCell)) - 1
	}
	w.generation = generation
	w.phase = phase
	return w, nil
}

func validateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Wrapf(ErrInvalidDimensions, "[NewWorld] dimensions must be positive: %dx%d", width, height)
	}
	if uint64(width) > math.MaxUint32 || uint64(height) > math.MaxUint32 {
		return errors.Wrapf(ErrInvalidDimensions, "[NewWorld] dimension exceeds 32 bits: %dx%d", width, height)
	}
	if cells := uint64(width) * uint64(height); cells > MaxCells || cells > math.MaxInt/bitsPerCell {
		return errors.Wrapf(ErrInvalidDimensions, "[NewWorld] %dx%d exceeds %d cells", width, height, uint64(MaxCells))
	}
	return nil
}

// Destroy releases the world's buffers. It is safe to call more than once and
// leaves an empty 0x0 world behind.
func (w *World) Destroy() {
	w.data = nil
	w.scratch = nil
	w.history = nil
	w.width, w.height, w.cellCount, w.dataSize = 0, 0, 0, 0
}

// Width returns the width of the world
func (w *World) Width() int { return w.width }

// Height returns the height of the world
func (w *World) Height() int { return w.height }

// CellCount returns width*height
func (w *World) CellCount() int { return w.cellCount }

// Generation returns the number of committed generations
func (w *World) Generation() uint32 { return w.generation }

// Phase returns the current half-step state
func (w *World) Phase() Phase { return w.phase }

// Rule returns the active next-state rule
func (w *World) Rule() rules.Rule { return w.rule }

// SetRule replaces the next-state rule; nil selects Conway's Life
func (w *World) SetRule(rule rules.Rule) {
	if rule == nil {
		rule = rules.Conway
	}
	w.rule = rule
}

// Data exposes the packed cell words without the guard word. Callers must not
// keep the slice across calls that mutate the world.
func (w *World) Data() []uint32 {
	if w.data == nil {
		return nil
	}
	return w.data[:w.dataSize]
}

// Cell returns the raw 2-bit value of the cell at (x, y)
func (w *World) Cell(x, y int) (uint32, error) {
	idx, err := w.index(x, y)
	if err != nil {
		return 0, err
	}
	return readCell(w.data, idx), nil
}

// Alive reports whether the cell at (x, y) is currently alive.
// Cells outside the world are dead.
func (w *World) Alive(x, y int) bool {
	idx, err := w.index(x, y)
	if err != nil {
		return false
	}
	return readCell(w.data, idx)&currentBit != 0
}

// InvertCell toggles the current state of a single cell. Phase and generation
// are left untouched.
func (w *World) InvertCell(x, y int) error {
	idx, err := w.index(x, y)
	if err != nil {
		return errors.Wrap(err, "[InvertCell]")
	}
	writeCell(w.data, idx, readCell(w.data, idx)^currentBit)
	return nil
}

// Population returns the number of living cells
func (w *World) Population() (count int) {
	for c := 0; c < w.cellCount; c++ {
		count += int(readCell(w.data, c) & currentBit)
	}
	return
}

func (w *World) index(x, y int) (int, error) {
	if x < 0 || x >= w.width || y < 0 || y >= w.height {
		return 0, errors.Wrapf(ErrOutOfBounds, "(%d,%d) in %dx%d world", x, y, w.width, w.height)
	}
	return y*w.width + x, nil
}

// readCell returns the 2-bit value of cell idx
func readCell(buf []uint32, idx int) uint32 {
	return (buf[idx>>wordShift] >> ((idx & offsetMask) * bitsPerCell)) & cellMask
}

// writeCell stores the low 2 bits of val as cell idx
func writeCell(buf []uint32, idx int, val uint32) {
	i := idx >> wordShift
	shift := (idx & offsetMask) * bitsPerCell
	buf[i] = (buf[i] &^ (cellMask << shift)) | ((val & cellMask) << shift)
}

// readWindow masks a rolling three-cell window for column x so that no
// neighbor from an adjacent row leaks in at the row edges
func readWindow(window uint32, x, width int) uint32 {
	window &= windowMask
	if x == 0 {
		window &= rowStartMask
	}
	if x == width-1 {
		window &= rowEndMask
	}
	return window
}
