// Package zkp is the proof-generation engine: it derives the board
// commitment and produces the succinct proof that a hit/miss answer is
// consistent with the committed board.
//
// The commitment is the MiMC digest of the 25 board cells followed by the
// salt, computed with the same parameters the shot circuit uses, so the
// hash-only path and the full proof path can never disagree on a board's
// commitment.
package zkp

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"github.com/Gabrululu/zk-battleship/internal/board"
)

// ErrCommitment marks a failed commitment computation. The secret manager
// surfaces it untouched; retrying is a caller decision.
var ErrCommitment = errors.New("zkp: commitment computation failed")

// ProofRequest carries everything the engine needs to answer one shot.
type ProofRequest struct {
	Board         board.Board
	SaltHex       string
	CommittedHash string // hex, as published on chain
	X, Y          uint32
}

// Proof is the engine's answer: the serialized proof plus the truthful
// hit/miss outcome it attests to.
type Proof struct {
	Bytes []byte
	IsHit bool
}

// Engine generates commitments and shot proofs. Both operations are
// user-perceptibly slow and honor context cancellation between stages.
type Engine interface {
	ComputeCommitment(ctx context.Context, b board.Board, saltHex string) (string, error)
	GenerateProof(ctx context.Context, req ProofRequest) (Proof, error)
}

// HashOnly is an Engine that can commit but not prove. It needs no circuit
// compilation or key material, so commit-only flows stay fast.
type HashOnly struct{}

// ComputeCommitment returns the same digest the full prover uses.
func (HashOnly) ComputeCommitment(_ context.Context, b board.Board, saltHex string) (string, error) {
	return CommitmentHex(b, saltHex)
}

// GenerateProof always fails; use GrothProver to answer shots.
func (HashOnly) GenerateProof(context.Context, ProofRequest) (Proof, error) {
	return Proof{}, errors.New("zkp: hash-only engine cannot generate proofs")
}

// hashBoard computes the commitment digest over cells then salt.
func hashBoard(b board.Board, saltHex string) ([]byte, error) {
	salt, err := board.ParseSalt(saltHex)
	if err != nil {
		return nil, err
	}
	h := mimc.NewMiMC()
	var e fr.Element
	for _, cell := range b.Flatten() {
		e.SetUint64(uint64(cell))
		buf := e.Bytes()
		if _, err := h.Write(buf[:]); err != nil {
			return nil, err
		}
	}
	e.SetBigInt(salt)
	buf := e.Bytes()
	if _, err := h.Write(buf[:]); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}

// CommitmentHex returns the hex commitment for a board+salt pair. Exposed
// for the hash-only flow; GrothProver routes through the same digest.
func CommitmentHex(b board.Board, saltHex string) (string, error) {
	sum, err := hashBoard(b, saltHex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCommitment, err)
	}
	return hex.EncodeToString(sum), nil
}
