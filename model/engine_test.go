package model

import (
	"testing"

	"github.com/sheikhrachel/go-yals/rules"
)

func TestGliderTranslates(t *testing.T) {
	w := newTestWorld(t, 20, 20, [2]int{1, 0}, [2]int{2, 1}, [2]int{0, 2}, [2]int{1, 2}, [2]int{2, 2})

	w.Step()
	assertAlive(t, w, [2]int{0, 1}, [2]int{2, 1}, [2]int{1, 2}, [2]int{2, 2}, [2]int{1, 3})

	for i := 0; i < 3; i++ {
		w.Step()
	}
	if w.Generation() != 4 {
		t.Fatalf("generation = %d, want 4", w.Generation())
	}
	assertAlive(t, w, [2]int{2, 1}, [2]int{3, 2}, [2]int{1, 3}, [2]int{2, 3}, [2]int{3, 3})
}

func TestBlockIsStill(t *testing.T) {
	block := [][2]int{{5, 5}, {6, 5}, {5, 6}, {6, 6}}
	w := newTestWorld(t, 12, 12, block...)
	for i := 0; i < 10; i++ {
		w.Step()
		assertAlive(t, w, block...)
	}
}

func TestBlockInCorner(t *testing.T) {
	block := [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	w := newTestWorld(t, 4, 4, block...)
	for i := 0; i < 10; i++ {
		w.Step()
	}
	assertAlive(t, w, block...)
}

func TestBlinkerOscillation(t *testing.T) {
	w := newTestWorld(t, 5, 5, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})

	w.Step()
	assertAlive(t, w, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})

	w.Step()
	assertAlive(t, w, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})
}

func TestLoneCellDies(t *testing.T) {
	w := newTestWorld(t, 5, 5, [2]int{2, 2})
	w.Step()
	assertAlive(t, w)
}

func TestOverpopulationKills(t *testing.T) {
	// the centre has 4 live neighbors; the arms each see 3 and become a ring
	w := newTestWorld(t, 7, 7, [2]int{3, 3}, [2]int{2, 3}, [2]int{4, 3}, [2]int{3, 2}, [2]int{3, 4})
	w.Step()
	if w.Alive(3, 3) {
		t.Fatal("cell with 4 neighbors survived")
	}
	assertAlive(t, w,
		[2]int{2, 2}, [2]int{3, 2}, [2]int{4, 2},
		[2]int{2, 3}, [2]int{4, 3},
		[2]int{2, 4}, [2]int{3, 4}, [2]int{4, 4},
	)
}

func TestNoWrapAtRowEdges(t *testing.T) {
	// a vertical blinker on the right edge must not see cells at the start of
	// the next rows
	w := newTestWorld(t, 5, 5, [2]int{4, 0}, [2]int{4, 1}, [2]int{4, 2})
	w.Step()
	assertAlive(t, w, [2]int{3, 1}, [2]int{4, 1})
}

func TestNoWrapVertically(t *testing.T) {
	// a horizontal blinker on the bottom row loses its lower half
	w := newTestWorld(t, 5, 4, [2]int{1, 3}, [2]int{2, 3}, [2]int{3, 3})
	w.Step()
	assertAlive(t, w, [2]int{2, 2}, [2]int{2, 3})
}

func TestSingleColumnWorld(t *testing.T) {
	w := newTestWorld(t, 1, 5, [2]int{0, 1}, [2]int{0, 2}, [2]int{0, 3})
	w.Step()
	assertAlive(t, w, [2]int{0, 2})
	w.Step()
	assertAlive(t, w)
}

func TestHalfStepPhases(t *testing.T) {
	w := newTestWorld(t, 5, 5, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})

	w.HalfStep()
	if w.Phase() != PhaseShift || w.Generation() != 0 {
		t.Fatalf("after CALC: phase=%s gen=%d", w.Phase(), w.Generation())
	}
	// current states are untouched until the shift
	assertAlive(t, w, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})
	if cell, _ := w.Cell(1, 2); cell != 2 {
		t.Fatalf("born cell = %02b, want 10", cell)
	}
	if cell, _ := w.Cell(2, 1); cell != 1 {
		t.Fatalf("dying cell = %02b, want 01", cell)
	}
	if cell, _ := w.Cell(2, 2); cell != 3 {
		t.Fatalf("surviving cell = %02b, want 11", cell)
	}

	w.HalfStep()
	if w.Phase() != PhaseCalc || w.Generation() != 1 {
		t.Fatalf("after SHIFT: phase=%s gen=%d", w.Phase(), w.Generation())
	}
	assertAlive(t, w, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})
	for _, word := range w.Data() {
		if word&^currentMask != 0 {
			t.Fatalf("next-state bits left after shift: %#x", word)
		}
	}
}

func TestStepFromShiftAdvancesOneGeneration(t *testing.T) {
	w := newTestWorld(t, 5, 5, [2]int{2, 1}, [2]int{2, 2}, [2]int{2, 3})
	w.HalfStep()
	w.Step()
	if w.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", w.Generation())
	}
	if w.Phase() != PhaseCalc {
		t.Fatalf("phase = %s, want CALC", w.Phase())
	}
	assertAlive(t, w, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})

	w.Step()
	if w.Generation() != 2 {
		t.Fatalf("generation = %d, want 2", w.Generation())
	}
}

func TestRuleReceivesSum9(t *testing.T) {
	w := newTestWorld(t, 3, 3, [2]int{0, 0}, [2]int{1, 1}, [2]int{2, 2})
	seen := map[[2]uint32]bool{}
	w.SetRule(func(current, sum9 uint32) uint32 {
		seen[[2]uint32{current, sum9}] = true
		return current
	})
	w.Step()

	// the centre counts itself and both diagonal cells
	if !seen[[2]uint32{1, 3}] {
		t.Fatalf("centre cell never saw sum9=3: %v", seen)
	}
	// the rule above keeps every state
	assertAlive(t, w, [2]int{0, 0}, [2]int{1, 1}, [2]int{2, 2})
}

func TestCustomRule(t *testing.T) {
	seeds, err := rules.Named("seeds")
	if err != nil {
		t.Fatalf("Named: %v", err)
	}
	w := newTestWorld(t, 6, 6, [2]int{2, 2}, [2]int{3, 2})
	w.SetRule(seeds)
	w.Step()
	// every live cell dies under Seeds; cells with exactly 2 neighbors are born
	assertAlive(t, w, [2]int{2, 1}, [2]int{3, 1}, [2]int{2, 3}, [2]int{3, 3})
}

func BenchmarkStep(b *testing.B) {
	w, err := NewWorld(512, 512, nil)
	if err != nil {
		b.Fatal(err)
	}
	if err := w.Fill(FillRandom, 1); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Step()
	}
}
