// Package config provides YAML-based client configuration loading for the
// battleship client.
package config

import "time"

// Config is the full client configuration.
type Config struct {
	Network Network `yaml:"network"`
	Wallet  Wallet  `yaml:"wallet"`
	Storage Storage `yaml:"storage"`
	Game    Game    `yaml:"game"`
}

// Network describes the ledger endpoint and the contract to play against.
type Network struct {
	RPCURL            string        `yaml:"rpc_url"`
	Passphrase        string        `yaml:"passphrase"`
	ContractID        string        `yaml:"contract_id"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ConfirmAttempts   int           `yaml:"confirm_attempts"`
	ConfirmInterval   time.Duration `yaml:"confirm_interval"`
	SimulationTimeout time.Duration `yaml:"simulation_timeout"`
}

// Wallet points at the player's key material.
type Wallet struct {
	KeyFile string `yaml:"key_file"`
}

// Storage locates local persistence.
type Storage struct {
	SecretDB string `yaml:"secret_db"`
	KeysDir  string `yaml:"keys_dir"` // proving/verifying key cache
}

// Game tunes the client-side protocol loop.
type Game struct {
	PollInterval      time.Duration `yaml:"poll_interval"`
	TurnDuration      time.Duration `yaml:"turn_duration"`
	WarningThreshold  time.Duration `yaml:"warning_threshold"`
	CriticalThreshold time.Duration `yaml:"critical_threshold"`
}

// Default returns the hardcoded baseline configuration. Everything except
// the contract id is usable as-is against a local development node.
func Default() Config {
	return Config{
		Network: Network{
			RPCURL:            "http://localhost:8000/rpc",
			Passphrase:        "Standalone Network ; February 2017",
			RequestTimeout:    15 * time.Second,
			ConfirmAttempts:   10,
			ConfirmInterval:   2 * time.Second,
			SimulationTimeout: 15 * time.Second,
		},
		Wallet: Wallet{
			KeyFile: "~/.zkbattleship/key.json",
		},
		Storage: Storage{
			SecretDB: "~/.zkbattleship/secrets.db",
			KeysDir:  "~/.zkbattleship/keys",
		},
		Game: Game{
			PollInterval:      3 * time.Second,
			TurnDuration:      60 * time.Second,
			WarningThreshold:  20 * time.Second,
			CriticalThreshold: 5 * time.Second,
		},
	}
}
