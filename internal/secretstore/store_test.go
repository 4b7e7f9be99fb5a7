package secretstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Gabrululu/zk-battleship/internal/board"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "secrets.db")
	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesFile(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "secrets.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestSaveLoadClear(t *testing.T) {
	store := openTestStore(t)

	sec := board.Secret{
		Board:   board.New().Toggle(0, 0).Toggle(1, 1).Toggle(2, 2),
		SaltHex: "0abc",
	}
	if err := store.Save("game-7", "GALICE", sec); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got, ok, err := store.Load("game-7", "GALICE")
	if err != nil || !ok {
		t.Fatalf("Load() = ok=%v err=%v", ok, err)
	}
	if got != sec {
		t.Errorf("loaded secret mismatch: %+v vs %+v", got, sec)
	}

	// Scoped by both keys.
	if _, ok, _ := store.Load("game-8", "GALICE"); ok {
		t.Error("secret leaked across game instances")
	}
	if _, ok, _ := store.Load("game-7", "GBOB"); ok {
		t.Error("secret leaked across players")
	}

	if err := store.Clear("game-7", "GALICE"); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if _, ok, _ := store.Load("game-7", "GALICE"); ok {
		t.Error("secret survived Clear()")
	}
}

func TestSaveOverwrites(t *testing.T) {
	store := openTestStore(t)

	first := board.Secret{Board: board.New().Toggle(0, 0), SaltHex: "01"}
	second := board.Secret{Board: board.New().Toggle(4, 4), SaltHex: "02"}

	if err := store.Save("game-1", "GALICE", first); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := store.Save("game-1", "GALICE", second); err != nil {
		t.Fatalf("Save() overwrite failed: %v", err)
	}

	got, ok, _ := store.Load("game-1", "GALICE")
	if !ok || got != second {
		t.Errorf("overwrite not applied: %+v", got)
	}
}

func TestLoadCorruptPayloadIsAbsent(t *testing.T) {
	store := openTestStore(t)

	_, err := store.db.Exec(
		`INSERT INTO secrets (namespace, game_id, player, payload) VALUES (?, ?, ?, ?)`,
		DefaultNamespace, "game-1", "GALICE", "{not json",
	)
	if err != nil {
		t.Fatalf("seeding corrupt row: %v", err)
	}

	_, ok, err := store.Load("game-1", "GALICE")
	if err != nil {
		t.Errorf("corrupt payload must not surface an error: %v", err)
	}
	if ok {
		t.Error("corrupt payload must be reported absent")
	}
}

func TestLoadMissingIsAbsent(t *testing.T) {
	store := openTestStore(t)
	_, ok, err := store.Load("never", "GNOBODY")
	if err != nil {
		t.Errorf("missing secret must not error: %v", err)
	}
	if ok {
		t.Error("missing secret must be absent")
	}
}
