package model

// Visitor receives a cell's coordinates and raw 2-bit value and returns the
// value to store back. Read-only visitors return cell unchanged.
type Visitor func(x, y int, cell uint32) uint32

// ForEachCell visits every cell once in row-major order (y outer, x inner)
func (w *World) ForEachCell(visit Visitor) {
	x, y := 0, 0
	for c := 0; c < w.cellCount; c++ {
		writeCell(w.data, c, visit(x, y, readCell(w.data, c)))

		x++
		if x == w.width {
			x = 0
			y++
		}
	}
}
