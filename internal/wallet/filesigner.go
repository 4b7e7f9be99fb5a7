package wallet

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base32"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSigner signs with an ed25519 key loaded from disk. It is the default
// bridge implementation for the CLI; a browser-extension bridge would
// implement the same Signer interface.
type FileSigner struct {
	key  ed25519.PrivateKey
	addr string
}

type keyFile struct {
	SeedHex string `json:"seed"`
}

// LoadFileSigner reads an ed25519 seed from the given key file
// ("~" expands to the user home).
func LoadFileSigner(path string) (*FileSigner, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: cannot read key file: %w", err)
	}
	var kf keyFile
	if err := json.Unmarshal(raw, &kf); err != nil {
		return nil, fmt.Errorf("wallet: cannot parse key file: %w", err)
	}
	seed, err := hex.DecodeString(kf.SeedHex)
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("wallet: key file holds no valid ed25519 seed")
	}
	key := ed25519.NewKeyFromSeed(seed)
	return &FileSigner{key: key, addr: addressFor(key.Public().(ed25519.PublicKey))}, nil
}

// GenerateKeyFile creates a fresh key at path and returns its signer.
// Fails if the file already exists; an existing key is never overwritten.
func GenerateKeyFile(path string) (*FileSigner, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("wallet: key file %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("wallet: cannot create key directory: %w", err)
	}

	seed := make([]byte, ed25519.SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("wallet: key generation failed: %w", err)
	}
	raw, err := json.Marshal(keyFile{SeedHex: hex.EncodeToString(seed)})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return nil, fmt.Errorf("wallet: cannot write key file: %w", err)
	}
	key := ed25519.NewKeyFromSeed(seed)
	return &FileSigner{key: key, addr: addressFor(key.Public().(ed25519.PublicKey))}, nil
}

// Address returns the account address derived from the public key.
func (f *FileSigner) Address() string {
	return f.addr
}

// SignTransaction signs the payload and wraps it in a signed envelope.
func (f *FileSigner) SignTransaction(_ context.Context, payload []byte) ([]byte, error) {
	sig := ed25519.Sign(f.key, payload)
	env := struct {
		Payload   json.RawMessage `json:"payload"`
		Signature string          `json:"signature"`
		Signer    string          `json:"signer"`
	}{
		Payload:   payload,
		Signature: hex.EncodeToString(sig),
		Signer:    f.addr,
	}
	return json.Marshal(env)
}

// addressFor renders an end-user account address: "G" plus the base32
// public key, matching the ledger's canonical text encoding for accounts.
func addressFor(pub ed25519.PublicKey) string {
	enc := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(pub)
	return "G" + strings.ToUpper(enc)
}

func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("wallet: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
