package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the finished game",
	Long: `Reset the game instance so a new one can start. Also discards the
locally stored board secret for this contract.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.eng.Reset(context.Background()); err != nil {
		return friendly(err)
	}
	fmt.Println("game reset")
	return nil
}
