package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var fireCmd = &cobra.Command{
	Use:   "fire <x> <y>",
	Short: "Fire at the opponent's board",
	Long: `Fire a shot at the given coordinate (0-indexed, top-left origin).
Only valid on your turn with no shot pending. The outcome arrives with the
opponent's proof-backed response; run 'battleship watch' or 'battleship
status' to see it land.`,
	Args: cobra.ExactArgs(2),
	RunE: runFire,
}

func runFire(cmd *cobra.Command, args []string) error {
	x, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("bad x %q: %w", args[0], err)
	}
	y, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("bad y %q: %w", args[1], err)
	}

	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	// Need a snapshot first so the engine can check whose turn it is.
	if err := a.eng.Refresh(ctx); err != nil {
		return friendly(err)
	}
	if err := a.eng.Fire(ctx, uint32(x), uint32(y)); err != nil {
		return friendly(err)
	}
	fmt.Printf("shot fired at (%d,%d) — waiting for the opponent's response\n", x, y)
	return nil
}
