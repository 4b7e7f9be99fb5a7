// Package secretstore persists the player's private board/salt pair between
// process runs. Uses the pure-Go modernc.org/sqlite driver to avoid CGO
// dependencies.
//
// Secrets are keyed by (namespace, gameID, player) and stored as a JSON
// payload. Missing and corrupt rows are both reported as absent: the secret
// is unrecoverable either way and the caller's handling is identical.
package secretstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/Gabrululu/zk-battleship/internal/board"
)

// DefaultNamespace scopes this client's rows; other tools sharing the file
// stay out of its way.
const DefaultNamespace = "zkbattleship"

// Store manages the SQLite database holding board secrets.
type Store struct {
	db        *sql.DB
	namespace string
}

// Open creates or opens the secrets database at the given path, creating
// parent directories and running migrations as needed.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("secretstore: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("secretstore: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("secretstore: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("secretstore: cannot connect to database: %w", err)
	}

	store := &Store{db: db, namespace: DefaultNamespace}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("secretstore: migration failed: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS secrets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			namespace TEXT NOT NULL,
			game_id TEXT NOT NULL,
			player TEXT NOT NULL,
			payload TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(namespace, game_id, player)
		);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores the secret for (gameID, player), replacing any previous one.
func (s *Store) Save(gameID, player string, sec board.Secret) error {
	payload, err := json.Marshal(sec)
	if err != nil {
		return fmt.Errorf("secretstore: cannot encode secret: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO secrets (namespace, game_id, player, payload)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, game_id, player) DO UPDATE SET payload = excluded.payload`,
		s.namespace, gameID, player, string(payload),
	)
	if err != nil {
		return fmt.Errorf("secretstore: cannot save secret: %w", err)
	}
	return nil
}

// Load retrieves the secret for (gameID, player). The second return is
// false when no usable secret exists; corrupt payloads are treated the same
// as missing rows, never as errors.
func (s *Store) Load(gameID, player string) (board.Secret, bool, error) {
	var payload string
	err := s.db.QueryRow(
		`SELECT payload FROM secrets WHERE namespace = ? AND game_id = ? AND player = ?`,
		s.namespace, gameID, player,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return board.Secret{}, false, nil
	}
	if err != nil {
		return board.Secret{}, false, fmt.Errorf("secretstore: cannot query secret: %w", err)
	}

	var sec board.Secret
	if err := json.Unmarshal([]byte(payload), &sec); err != nil {
		return board.Secret{}, false, nil
	}
	if sec.SaltHex == "" {
		return board.Secret{}, false, nil
	}
	return sec, true, nil
}

// Clear removes the secret for (gameID, player), if any.
func (s *Store) Clear(gameID, player string) error {
	_, err := s.db.Exec(
		`DELETE FROM secrets WHERE namespace = ? AND game_id = ? AND player = ?`,
		s.namespace, gameID, player,
	)
	if err != nil {
		return fmt.Errorf("secretstore: cannot clear secret: %w", err)
	}
	return nil
}
