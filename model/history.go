package model

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
)

const historyLen = 5

// Hash returns an MD5 hash of the packed world state
func (w *World) Hash() string {
	h := md5.New()
	buf := make([]byte, 0, 4*len(w.Data()))
	for _, word := range w.Data() {
		// only the committed state, so hashes taken in either phase compare equal
		buf = binary.BigEndian.AppendUint32(buf, word&currentMask)
	}
	h.Write(buf)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// UpdateHistory adds current state to history and maintains size
func (w *World) UpdateHistory() {
	w.history = append(w.history, w.Hash())

	// Keep only the last few states to detect cycles
	if len(w.history) > historyLen {
		w.history = w.history[1:]
	}
}

// IsStagnant checks if the world is stuck in a still life or a short cycle.
// It compares against recorded states, so call it before UpdateHistory.
func (w *World) IsStagnant() bool {
	if len(w.history) < 3 {
		return false
	}

	current := w.Hash()
	for i := 1; i <= 3; i++ {
		if w.history[len(w.history)-i] == current {
			return true
		}
	}
	return false
}

// ResetHistory forgets recorded states
func (w *World) ResetHistory() {
	w.history = nil
}
