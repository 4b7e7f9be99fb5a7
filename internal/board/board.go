// Package board holds the player's private board and the salt that binds it
// into the on-chain commitment. Board values use immutable-update semantics:
// mutating operations return a new board so callers can keep history.
package board

import (
	"fmt"
)

const (
	// Size is the side length of the square grid.
	Size = 5
	// TotalShips is the exact number of ship cells a valid board carries.
	TotalShips = 3
)

// Board is a Size×Size grid; true marks a ship cell.
type Board struct {
	Cells [Size][Size]bool `json:"cells"`
}

// New returns an empty board.
func New() Board {
	return Board{}
}

// InBounds reports whether (x, y) is a valid coordinate.
func InBounds(x, y int) bool {
	return x >= 0 && x < Size && y >= 0 && y < Size
}

// Cell reports whether (x, y) holds a ship. Out-of-bounds reads are false.
func (b Board) Cell(x, y int) bool {
	if !InBounds(x, y) {
		return false
	}
	return b.Cells[y][x]
}

// Toggle returns a copy of the board with (x, y) flipped. Adding a ship past
// the TotalShips budget is a no-op, as is toggling out of bounds.
func (b Board) Toggle(x, y int) Board {
	if !InBounds(x, y) {
		return b
	}
	if !b.Cells[y][x] && b.ShipCount() >= TotalShips {
		return b
	}
	b.Cells[y][x] = !b.Cells[y][x]
	return b
}

// ShipCount returns the number of ship cells placed.
func (b Board) ShipCount() int {
	n := 0
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.Cells[y][x] {
				n++
			}
		}
	}
	return n
}

// Complete reports whether the full ship budget has been placed.
func (b Board) Complete() bool {
	return b.ShipCount() == TotalShips
}

// Validate checks the exact-ship-count invariant before a commitment.
func (b Board) Validate() error {
	if n := b.ShipCount(); n != TotalShips {
		return fmt.Errorf("board: has %d ships, want exactly %d", n, TotalShips)
	}
	return nil
}

// Flatten returns the cells in row-major order as 0/1 values, the layout the
// proof circuit consumes.
func (b Board) Flatten() []uint8 {
	out := make([]uint8, 0, Size*Size)
	for y := 0; y < Size; y++ {
		for x := 0; x < Size; x++ {
			if b.Cells[y][x] {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		}
	}
	return out
}

// Secret is the private pair a player must retain for the whole game:
// the board and the salt folded into the published commitment.
type Secret struct {
	Board   Board  `json:"board"`
	SaltHex string `json:"salt"`
}
