package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gabrululu/zk-battleship/internal/game"
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Take a seat in the game",
	Long: `Join the game on the configured contract. The first player to join
creates the game instance; the second join starts the commit phase. Sharing
the contract id is how you invite an opponent.`,
	Args: cobra.NoArgs,
	RunE: runJoin,
}

func runJoin(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	if err := a.eng.Join(ctx); err != nil {
		return friendly(err)
	}

	s, ok := a.eng.Snapshot()
	if !ok {
		fmt.Println("joined")
		return nil
	}
	switch s.Phase {
	case game.PhaseWaitingForPlayers:
		fmt.Printf("joined as %s — waiting for an opponent\nshare this contract id: %s\n",
			a.eng.Identity(), a.cfg.Network.ContractID)
	case game.PhaseCommit:
		fmt.Println("joined — both seats taken, commit your board with 'battleship commit'")
	default:
		fmt.Printf("joined, game phase: %s\n", s.Phase)
	}
	return nil
}
