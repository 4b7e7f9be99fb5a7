package board

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
)

func TestToggleDoubleToggleRestores(t *testing.T) {
	b := New()
	b2 := b.Toggle(2, 3).Toggle(2, 3)
	if b2 != b {
		t.Error("double toggle should restore the original board")
	}
}

func TestToggleRespectsShipBudget(t *testing.T) {
	b := New().Toggle(0, 0).Toggle(1, 1).Toggle(2, 2)
	if !b.Complete() {
		t.Fatalf("expected complete board, have %d ships", b.ShipCount())
	}

	// Fourth ship is a no-op regardless of position.
	b2 := b.Toggle(4, 4)
	if b2 != b {
		t.Error("adding past the budget should be a no-op")
	}

	// Removing one then re-adding elsewhere works.
	b3 := b.Toggle(0, 0).Toggle(3, 3)
	if b3.ShipCount() != TotalShips {
		t.Errorf("ship count after move: %d", b3.ShipCount())
	}
	if !b3.Cell(3, 3) || b3.Cell(0, 0) {
		t.Error("move did not land where expected")
	}
}

func TestToggleOutOfBounds(t *testing.T) {
	b := New()
	for _, c := range [][2]int{{-1, 0}, {0, -1}, {Size, 0}, {0, Size}} {
		if got := b.Toggle(c[0], c[1]); got != b {
			t.Errorf("toggle(%d,%d) should be a no-op", c[0], c[1])
		}
	}
}

func TestValidate(t *testing.T) {
	if err := New().Validate(); err == nil {
		t.Error("empty board should fail validation")
	}
	full := New().Toggle(0, 0).Toggle(1, 0).Toggle(2, 0)
	if err := full.Validate(); err != nil {
		t.Errorf("complete board should validate: %v", err)
	}
}

func TestFlattenLayout(t *testing.T) {
	b := New().Toggle(1, 0).Toggle(0, 2).Toggle(4, 4)
	flat := b.Flatten()
	if len(flat) != Size*Size {
		t.Fatalf("flatten length %d", len(flat))
	}
	// Row-major: (x, y) lives at index y*Size+x.
	for _, c := range [][2]int{{1, 0}, {0, 2}, {4, 4}} {
		if flat[c[1]*Size+c[0]] != 1 {
			t.Errorf("cell (%d,%d) not set in flattened layout", c[0], c[1])
		}
	}
}

func TestGenerateSaltInField(t *testing.T) {
	modulus := ecc.BN254.ScalarField()
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		hex, err := GenerateSalt()
		if err != nil {
			t.Fatalf("salt generation: %v", err)
		}
		if len(hex) != 64 {
			t.Fatalf("salt hex width %d, want 64", len(hex))
		}
		s, err := ParseSalt(hex)
		if err != nil {
			t.Fatalf("parse back: %v", err)
		}
		if s.Cmp(modulus) >= 0 {
			t.Fatalf("salt %s not below field modulus", hex)
		}
		if seen[hex] {
			t.Fatalf("salt repeated after %d draws", i)
		}
		seen[hex] = true
	}
}

func TestParseSaltRejectsOutOfField(t *testing.T) {
	over := new(big.Int).Add(ecc.BN254.ScalarField(), big.NewInt(1))
	if _, err := ParseSalt(over.Text(16)); err == nil {
		t.Error("salt above modulus should be rejected")
	}
	if _, err := ParseSalt("not-hex"); err == nil {
		t.Error("garbage salt should be rejected")
	}
}

func TestSecretJSONRoundTrip(t *testing.T) {
	sec := Secret{Board: New().Toggle(1, 1), SaltHex: "0abc"}
	raw, err := json.Marshal(sec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Secret
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != sec {
		t.Errorf("round trip mismatch: %+v vs %+v", back, sec)
	}
}
