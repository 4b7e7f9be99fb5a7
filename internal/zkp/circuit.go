package zkp

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"

	"github.com/Gabrululu/zk-battleship/internal/board"
)

// totalCells is the flattened board length the circuit is compiled for.
const totalCells = board.Size * board.Size

// ShotCircuit proves that the claimed hit/miss answer for one shot is
// consistent with the committed board, without revealing the board.
//
// Private witnesses: the 25 board cells and the salt.
// Public inputs: the commitment, the shot coordinate, and the claimed hit.
type ShotCircuit struct {
	Cells [totalCells]frontend.Variable `gnark:",secret"`
	Salt  frontend.Variable             `gnark:",secret"`

	Root frontend.Variable `gnark:",public"`
	X    frontend.Variable `gnark:",public"`
	Y    frontend.Variable `gnark:",public"`
	Hit  frontend.Variable `gnark:",public"`
}

// Define constrains:
//   - every cell is boolean
//   - MiMC(cells..., salt) equals the public commitment
//   - Hit equals the cell at index 5*Y+X
func (c *ShotCircuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	for i := 0; i < totalCells; i++ {
		api.AssertIsBoolean(c.Cells[i])
		h.Write(c.Cells[i])
	}
	h.Write(c.Salt)
	api.AssertIsEqual(h.Sum(), c.Root)

	// Select cells[5*Y+X] with an equality mux; Y and X are public so an
	// out-of-range coordinate simply selects nothing and forces Hit == 0,
	// which the contract rejects anyway via its own bounds checks.
	idx := api.Add(api.Mul(c.Y, board.Size), c.X)
	selected := frontend.Variable(0)
	for i := 0; i < totalCells; i++ {
		eq := api.IsZero(api.Sub(idx, i))
		selected = api.Add(selected, api.Mul(eq, c.Cells[i]))
	}
	api.AssertIsBoolean(c.Hit)
	api.AssertIsEqual(c.Hit, selected)
	return nil
}
