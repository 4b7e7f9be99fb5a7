package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats [address]",
	Short: "Show a player's lifetime record",
	Long: `Show games played and won for a player. Defaults to your own
address. The contract only records finished games.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.eng.Identity()
	if len(args) == 1 {
		addr = args[0]
	}

	stats, ok, err := a.eng.Stats(context.Background(), addr)
	if err != nil {
		return friendly(err)
	}
	if !ok {
		fmt.Printf("%s has no recorded games yet\n", addr)
		return nil
	}
	fmt.Printf("%s: %d played, %d won\n", addr, stats.GamesPlayed, stats.GamesWon)
	return nil
}
