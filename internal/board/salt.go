package board

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
)

// GenerateSalt draws a uniformly random scalar below the commitment scheme's
// field modulus and renders it as fixed-width hex. Reducing into the field
// keeps the salt a legal circuit input. A fresh salt must be drawn for every
// commitment; reuse across games would link commitments of equal boards.
func GenerateSalt() (string, error) {
	modulus := ecc.BN254.ScalarField()
	s, err := rand.Int(rand.Reader, modulus)
	if err != nil {
		return "", fmt.Errorf("board: salt generation failed: %w", err)
	}
	return fmt.Sprintf("%064x", s), nil
}

// ParseSalt decodes a salt produced by GenerateSalt back into a scalar.
func ParseSalt(hex string) (*big.Int, error) {
	s, ok := new(big.Int).SetString(hex, 16)
	if !ok {
		return nil, fmt.Errorf("board: invalid salt hex %q", truncate(hex, 16))
	}
	if s.Cmp(ecc.BN254.ScalarField()) >= 0 {
		return nil, fmt.Errorf("board: salt exceeds field modulus")
	}
	return s, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
