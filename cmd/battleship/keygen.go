package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Gabrululu/zk-battleship/internal/config"
	"github.com/Gabrululu/zk-battleship/internal/wallet"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a local signing key",
	Long: `Generate a fresh ed25519 signing key and store it at the configured
key file path. Refuses to overwrite an existing key.`,
	Args: cobra.NoArgs,
	RunE: runKeygen,
}

func runKeygen(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	path := cfg.Wallet.KeyFile
	if flagKey != "" {
		path = flagKey
	}
	signer, err := wallet.GenerateKeyFile(path)
	if err != nil {
		return err
	}
	fmt.Printf("key written to %s\naddress: %s\n", path, signer.Address())
	return nil
}
