package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
network:
  rpc_url: https://rpc.example.org
  contract_id: CEXAMPLE
game:
  poll_interval: 1s
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Network.RPCURL != "https://rpc.example.org" {
		t.Errorf("rpc_url = %q", cfg.Network.RPCURL)
	}
	if cfg.Network.ContractID != "CEXAMPLE" {
		t.Errorf("contract_id = %q", cfg.Network.ContractID)
	}
	if cfg.Game.PollInterval != time.Second {
		t.Errorf("poll_interval = %v", cfg.Game.PollInterval)
	}
	// Unset fields keep the defaults.
	if cfg.Game.TurnDuration != Default().Game.TurnDuration {
		t.Errorf("turn_duration = %v, want default", cfg.Game.TurnDuration)
	}
	if cfg.Wallet.KeyFile != Default().Wallet.KeyFile {
		t.Errorf("key_file = %q, want default", cfg.Wallet.KeyFile)
	}
}

func TestLoadMissingCustomPathFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing explicit config path must fail loudly")
	}
}

func TestLoadBadYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("network: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("unparseable explicit config must fail loudly")
	}
}

func TestDefaultsAreSane(t *testing.T) {
	cfg := Default()
	if cfg.Game.WarningThreshold <= cfg.Game.CriticalThreshold {
		t.Error("warning threshold must sit above critical")
	}
	if cfg.Game.TurnDuration <= cfg.Game.WarningThreshold {
		t.Error("turn duration must exceed the warning threshold")
	}
	if cfg.Network.ConfirmAttempts <= 0 || cfg.Network.ConfirmInterval <= 0 {
		t.Error("confirmation polling must be bounded and positive")
	}
}
