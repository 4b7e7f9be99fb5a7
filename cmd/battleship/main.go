// battleship is a command-line client for a commit-reveal battleship game
// settled on a smart-contract ledger. Boards stay local; only a hash
// commitment and zero-knowledge shot responses ever leave the machine.
//
// Usage:
//
//	battleship keygen             - Generate a local signing key
//	battleship join               - Take a seat in the game
//	battleship commit             - Place ships and publish the commitment
//	battleship fire <x> <y>       - Fire at the opponent
//	battleship status             - Print the current game state
//	battleship stats [address]    - Show a player's lifetime record
//	battleship reset              - Clear the finished game
//	battleship watch              - Live TUI view of the game
//
// Global flags:
//
//	--config <path>   - Config file (default: ~/.zkbattleship/config.yaml)
//	--key <path>      - Signing key file
//	--rpc <url>       - Ledger RPC endpoint
//	--contract <id>   - Game contract id
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Gabrululu/zk-battleship/internal/config"
	"github.com/Gabrululu/zk-battleship/internal/engine"
	"github.com/Gabrululu/zk-battleship/internal/ledger"
	"github.com/Gabrululu/zk-battleship/internal/secretstore"
	"github.com/Gabrululu/zk-battleship/internal/wallet"
	"github.com/Gabrululu/zk-battleship/internal/zkp"
)

var (
	// Global flags
	flagConfig   string
	flagKey      string
	flagRPC      string
	flagContract string
	flagVerbose  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "battleship",
	Short: "Play zero-knowledge battleship from your terminal",
	Long: `battleship plays a commit-reveal battleship game against a smart
contract. Your board never leaves this machine: the contract sees only a
hash commitment, and every hit/miss answer ships with a zero-knowledge
proof that it is consistent with that commitment.

Typical session:
  battleship keygen
  battleship join
  battleship commit
  battleship watch        (in one terminal)
  battleship fire 2 3     (in another)`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagKey, "key", "", "Path to signing key file")
	rootCmd.PersistentFlags().StringVar(&flagRPC, "rpc", "", "Ledger RPC endpoint URL")
	rootCmd.PersistentFlags().StringVar(&flagContract, "contract", "", "Game contract id")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(joinCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(fireCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(watchCmd)
}

// app bundles everything a subcommand needs. Close releases the store.
type app struct {
	cfg     config.Config
	logger  *log.Logger
	session *wallet.Session
	store   *secretstore.Store
	eng     *engine.Engine
}

func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
}

// setup loads config, applies flag overrides, connects the wallet and
// wires the engine.
func setup() (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagKey != "" {
		cfg.Wallet.KeyFile = flagKey
	}
	if flagRPC != "" {
		cfg.Network.RPCURL = flagRPC
	}
	if flagContract != "" {
		cfg.Network.ContractID = flagContract
	}
	if cfg.Network.ContractID == "" {
		return nil, fmt.Errorf("no contract id: set network.contract_id in the config or pass --contract")
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}

	signer, err := wallet.LoadFileSigner(cfg.Wallet.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("loading key (run 'battleship keygen' first?): %w", err)
	}
	session := wallet.Default()
	session.Connect(signer)

	store, err := secretstore.Open(cfg.Storage.SecretDB)
	if err != nil {
		return nil, err
	}

	client := ledger.NewClient(ledger.Config{
		RPCURL:          cfg.Network.RPCURL,
		ContractID:      cfg.Network.ContractID,
		RequestTimeout:  cfg.Network.RequestTimeout,
		ConfirmAttempts: cfg.Network.ConfirmAttempts,
		ConfirmInterval: cfg.Network.ConfirmInterval,
	}, logger)

	eng := engine.New(engine.Options{
		Contract: cfg.Network.ContractID,
		Client:   client,
		Prover:   zkp.NewGrothProver(cfg.Storage.KeysDir),
		Secrets:  store,
		Signer:   session,
		Logger:   logger,
	})

	return &app{cfg: cfg, logger: logger, session: session, store: store, eng: eng}, nil
}

// friendly rewrites pipeline errors into their short actionable form
// before they reach the terminal. Non-pipeline errors pass through.
func friendly(err error) error {
	var ce *ledger.CallError
	if errors.As(err, &ce) {
		return fmt.Errorf("%s", ledger.UserMessage(err))
	}
	return err
}
