package zkp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/Gabrululu/zk-battleship/internal/board"
)

// GrothProver is the gnark-backed Engine. Proving keys are generated once
// and cached in KeysDir; the first proof on a fresh machine pays the setup
// cost.
type GrothProver struct {
	keysDir string

	mu sync.Mutex
	cs constraint.ConstraintSystem
	pk groth16.ProvingKey
	vk groth16.VerifyingKey
}

// NewGrothProver creates a prover caching keys under dir ("~" expands to
// the user home).
func NewGrothProver(dir string) *GrothProver {
	if dir != "" && dir[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}
	return &GrothProver{keysDir: dir}
}

// ComputeCommitment runs the hash-only variant of the shot circuit's digest.
func (p *GrothProver) ComputeCommitment(_ context.Context, b board.Board, saltHex string) (string, error) {
	return CommitmentHex(b, saltHex)
}

// GenerateProof answers the shot at (x, y) with a groth16 proof. The
// returned IsHit is read from the board itself, never from the caller.
func (p *GrothProver) GenerateProof(ctx context.Context, req ProofRequest) (Proof, error) {
	if !board.InBounds(int(req.X), int(req.Y)) {
		return Proof{}, fmt.Errorf("zkp: shot (%d,%d) out of range", req.X, req.Y)
	}
	salt, err := board.ParseSalt(req.SaltHex)
	if err != nil {
		return Proof{}, err
	}
	sum, err := hashBoard(req.Board, req.SaltHex)
	if err != nil {
		return Proof{}, err
	}
	root := new(big.Int).SetBytes(sum)
	if req.CommittedHash != "" {
		committed, ok := new(big.Int).SetString(req.CommittedHash, 16)
		if !ok || committed.Cmp(root) != 0 {
			return Proof{}, fmt.Errorf("zkp: secret does not match the committed hash")
		}
	}

	if err := p.ensureKeys(ctx); err != nil {
		return Proof{}, err
	}
	if err := ctx.Err(); err != nil {
		return Proof{}, err
	}

	isHit := req.Board.Cell(int(req.X), int(req.Y))
	hit := 0
	if isHit {
		hit = 1
	}

	var assign ShotCircuit
	for i, cell := range req.Board.Flatten() {
		assign.Cells[i] = cell
	}
	assign.Salt = salt
	assign.Root = root
	assign.X = req.X
	assign.Y = req.Y
	assign.Hit = hit

	witness, err := frontend.NewWitness(&assign, ecc.BN254.ScalarField())
	if err != nil {
		return Proof{}, fmt.Errorf("zkp: witness assignment failed: %w", err)
	}
	proof, err := groth16.Prove(p.cs, p.pk, witness)
	if err != nil {
		return Proof{}, fmt.Errorf("zkp: proving failed: %w", err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return Proof{}, fmt.Errorf("zkp: proof serialization failed: %w", err)
	}
	return Proof{Bytes: buf.Bytes(), IsHit: isHit}, nil
}

// Verify checks a serialized proof against the public inputs. The contract
// performs the authoritative verification; this mirrors it for tests and
// local diagnostics.
func (p *GrothProver) Verify(ctx context.Context, proofBytes []byte, rootHex string, x, y uint32, isHit bool) error {
	if err := p.ensureKeys(ctx); err != nil {
		return err
	}
	root, ok := new(big.Int).SetString(rootHex, 16)
	if !ok {
		return fmt.Errorf("zkp: invalid root hex")
	}
	hit := 0
	if isHit {
		hit = 1
	}
	pub := ShotCircuit{Root: root, X: x, Y: y, Hit: hit}
	witness, err := frontend.NewWitness(&pub, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return err
	}
	proof := groth16.NewProof(ecc.BN254)
	if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
		return fmt.Errorf("zkp: proof deserialization failed: %w", err)
	}
	return groth16.Verify(proof, p.vk, witness)
}

// ensureKeys loads cached keys or runs the one-time circuit setup.
func (p *GrothProver) ensureKeys(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cs != nil && p.pk != nil && p.vk != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var circuit ShotCircuit
	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, &circuit)
	if err != nil {
		return fmt.Errorf("zkp: circuit compilation failed: %w", err)
	}
	p.cs = cs

	if p.keysDir != "" {
		if pk, vk, err := readKeys(p.keysDir); err == nil {
			p.pk, p.vk = pk, vk
			return nil
		}
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return fmt.Errorf("zkp: key setup failed: %w", err)
	}
	p.pk, p.vk = pk, vk

	if p.keysDir != "" {
		if err := writeKeys(p.keysDir, pk, vk); err != nil {
			// Cache miss next run; the keys in memory are still usable.
			return nil
		}
	}
	return nil
}

func writeKeys(dir string, pk groth16.ProvingKey, vk groth16.VerifyingKey) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := writeTo(filepath.Join(dir, "shot.pk"), pk); err != nil {
		return err
	}
	return writeTo(filepath.Join(dir, "shot.vk"), vk)
}

func writeTo(path string, w io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = w.WriteTo(f)
	return err
}

func readKeys(dir string) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	pk := groth16.NewProvingKey(ecc.BN254)
	if err := readFrom(filepath.Join(dir, "shot.pk"), pk); err != nil {
		return nil, nil, err
	}
	vk := groth16.NewVerifyingKey(ecc.BN254)
	if err := readFrom(filepath.Join(dir, "shot.vk"), vk); err != nil {
		return nil, nil, err
	}
	return pk, vk, nil
}

func readFrom(path string, r io.ReaderFrom) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = r.ReadFrom(f)
	return err
}
