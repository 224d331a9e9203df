package rules

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrBadNotation is returned when a birth/survival rule string cannot be parsed
var ErrBadNotation = errors.New("bad rule notation")

/*
Rule computes the next state of a single cell.

current is the cell's current state (0 or 1). sum9 is the live population of the
3x3 block centred on the cell, the cell itself included, so it ranges over 0..9.
Only the lowest bit of the result is used. A Rule must be pure and total.
*/
type Rule func(current, sum9 uint32) uint32

/*
Conway applies Conway's Game of Life rules against the sum9 convention.

A block count of 3 means either a dead cell with 3 neighbors (birth) or a live
cell with 2 neighbors (survival), so the cell is alive. A count of 4 means a live
cell with 3 neighbors survives and a dead cell with 4 neighbors stays dead, so the
cell keeps its state. Anything else is dead.
*/
func Conway(current, sum9 uint32) uint32 {
	switch sum9 {
	case 3:
		return 1
	case 4:
		return current & 1
	default:
		return 0
	}
}

var named = map[string]string{
	"highlife": "B36/S23",
	"seeds":    "B2/S",
	"daynight": "B3678/S34678",
	"life":     "B3/S23",
}

// Named resolves a rule by name ("conway", "highlife", "seeds", "daynight") or
// by birth/survival notation such as "B36/S23"
func Named(name string) (Rule, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || key == "conway" {
		return Conway, nil
	}
	if notation, ok := named[key]; ok {
		return FromNotation(notation)
	}
	return FromNotation(name)
}

// FromNotation builds a counted-neighbor rule from "B<digits>/S<digits>" notation
func FromNotation(notation string) (Rule, error) {
	var (
		birth, survive [9]bool
		seenB, seenS   bool
	)
	parts := strings.Split(strings.TrimSpace(notation), "/")
	if len(parts) != 2 {
		return nil, errors.Wrapf(ErrBadNotation, "[FromNotation] expected two parts in %q", notation)
	}

	for _, part := range parts {
		if part == "" {
			return nil, errors.Wrapf(ErrBadNotation, "[FromNotation] empty part in %q", notation)
		}
		var target *[9]bool
		switch part[0] {
		case 'B', 'b':
			if seenB {
				return nil, errors.Wrapf(ErrBadNotation, "[FromNotation] duplicate birth part in %q", notation)
			}
			seenB, target = true, &birth
		case 'S', 's':
			if seenS {
				return nil, errors.Wrapf(ErrBadNotation, "[FromNotation] duplicate survival part in %q", notation)
			}
			seenS, target = true, &survive
		default:
			return nil, errors.Wrapf(ErrBadNotation, "[FromNotation] part %q must start with B or S", part)
		}
		for _, r := range part[1:] {
			if r < '0' || r > '8' {
				return nil, errors.Wrapf(ErrBadNotation, "[FromNotation] neighbor count %q out of range in %q", r, notation)
			}
			target[r-'0'] = true
		}
	}

	return func(current, sum9 uint32) uint32 {
		if current&1 == 1 {
			// sum9 counts the live cell itself
			if sum9 >= 1 && sum9 <= 9 && survive[sum9-1] {
				return 1
			}
			return 0
		}
		if sum9 <= 8 && birth[sum9] {
			return 1
		}
		return 0
	}, nil
}
