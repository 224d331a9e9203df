package model

// HalfStep advances the world by one phase. In CALC it computes every cell's
// next state into bit1; in SHIFT it commits bit1 into bit0 and counts the
// generation.
func (w *World) HalfStep() {
	switch w.phase {
	case PhaseShift:
		w.shiftNextState()
	default:
		w.calcNextState()
	}
}

// Step completes one generation from CALC. Called in SHIFT it only finishes
// the pending shift, so the generation moves forward by exactly one either way.
func (w *World) Step() {
	if w.phase != PhaseShift {
		w.HalfStep()
	}
	w.HalfStep()
}

func (w *World) shiftNextState() {
	for i := range w.data {
		w.data[i] = (w.data[i] >> 1) & currentMask
	}
	w.generation++
	w.phase = PhaseCalc
}

func (w *World) calcNextState() {
	if w.cellCount == 0 {
		w.phase = PhaseShift
		return
	}

	// Row counts: the window holds the cell before, at and after c. The guard
	// word makes reading cell c+1 safe at the very end of the grid.
	var (
		x      = 0
		window = readCell(w.data, 0)
	)
	for c := 0; c < w.cellCount; c++ {
		window = (window << bitsPerCell) | readCell(w.data, c+1)
		writeCell(w.scratch, c, uint32(bitCounts[readWindow(window, x, w.width)]))

		x++
		if x == w.width {
			x = 0
		}
	}

	// sum9 adds the row counts above, at and below c, so it includes c itself
	y := 0
	x = 0
	for c := 0; c < w.cellCount; c++ {
		sum9 := readCell(w.scratch, c)
		if y > 0 {
			sum9 += readCell(w.scratch, c-w.width)
		}
		if y < w.height-1 {
			sum9 += readCell(w.scratch, c+w.width)
		}

		current := readCell(w.data, c) & currentBit
		next := w.rule(current, sum9) & currentBit
		writeCell(w.data, c, current|next<<1)

		x++
		if x == w.width {
			x = 0
			y++
		}
	}

	w.phase = PhaseShift
}
