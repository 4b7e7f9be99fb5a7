// Package engine drives the client side of the game protocol: it owns the
// latest authoritative snapshot, the optimistic local shot logs, and the
// turn protocol that decides when to fire and when a proof-backed response
// is owed. All remote effects go through the ledger pipeline; all slow work
// (network, proof generation) happens outside the engine's lock.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Gabrululu/zk-battleship/internal/board"
	"github.com/Gabrululu/zk-battleship/internal/game"
	"github.com/Gabrululu/zk-battleship/internal/wallet"
	"github.com/Gabrululu/zk-battleship/internal/zkp"
)

var (
	// ErrSecretMissing means the local board secret for this game is gone.
	// The player cannot answer shots without it, so their participation in
	// the current game is over, but the client keeps running.
	ErrSecretMissing = errors.New("engine: board secret not found for this game")

	// ErrNotYourTurn rejects a fire attempt outside the player's firing window.
	ErrNotYourTurn = errors.New("engine: not your turn to fire")

	// ErrCoordinateTried rejects re-firing at an already-tried cell.
	ErrCoordinateTried = errors.New("engine: coordinate already tried")

	// ErrActionInFlight rejects a fire while a previous one is still settling.
	ErrActionInFlight = errors.New("engine: previous shot still in flight")
)

// Caller is the slice of the remote call pipeline the engine drives.
// *ledger.Client satisfies it.
type Caller interface {
	GetState(ctx context.Context) (game.State, bool, error)
	GetPlayerStats(ctx context.Context, address string) (game.Stats, bool, error)
	JoinGame(ctx context.Context, signer wallet.Signer) error
	CommitBoard(ctx context.Context, signer wallet.Signer, hashHex string) error
	FireShot(ctx context.Context, signer wallet.Signer, x, y uint32) error
	SubmitResponse(ctx context.Context, signer wallet.Signer, x, y uint32, isHit bool, proof []byte) error
	ResetGame(ctx context.Context, signer wallet.Signer) error
}

// SecretStore is the scoped persistence the engine keeps board secrets in.
// *secretstore.Store satisfies it.
type SecretStore interface {
	Save(gameID, player string, sec board.Secret) error
	Load(gameID, player string) (board.Secret, bool, error)
	Clear(gameID, player string) error
}

// Options wires an Engine. Contract doubles as the game instance id for
// secret scoping: one deployment hosts one game at a time, and joining an
// existing instance from a shared contract id is the normal entry path.
type Options struct {
	Contract string
	Client   Caller
	Prover   zkp.Engine
	Secrets  SecretStore
	Signer   wallet.Signer
	Logger   *log.Logger
}

// Engine is safe for concurrent use. The poll gate serializes snapshot
// refreshes; the per-action guards serialize fire and respond.
type Engine struct {
	contract string
	client   Caller
	prover   zkp.Engine
	secrets  SecretStore
	signer   wallet.Signer
	logger   *log.Logger

	pollGate sync.Mutex

	mu            sync.Mutex
	snapshot      game.State
	hasSnapshot   bool
	sessionID     uint32
	lastErr       error
	shotsFired    []ShotRecord
	shotsReceived []ShotRecord
	fireBusy      bool
	respondBusy   bool
	respondX      uint32
	respondY      uint32
	secretMissing bool
}

// New builds an engine; it performs no I/O until the first call.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		contract: opts.Contract,
		client:   opts.Client,
		prover:   opts.Prover,
		secrets:  opts.Secrets,
		signer:   opts.Signer,
		logger:   logger.WithPrefix("engine"),
	}
}

// Identity returns the connected player's address, "" when disconnected.
func (e *Engine) Identity() string { return e.signer.Address() }

// Snapshot returns the last authoritative snapshot, false before the first
// successful poll or when the game instance does not exist.
func (e *Engine) Snapshot() (game.State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot, e.hasSnapshot
}

// LastError returns the most recent poll or protocol error, nil when the
// last cycle was clean.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// ShotsFired returns a copy of the local log of shots this player fired.
func (e *Engine) ShotsFired() []ShotRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ShotRecord(nil), e.shotsFired...)
}

// ShotsReceived returns a copy of the shots answered by this player.
func (e *Engine) ShotsReceived() []ShotRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]ShotRecord(nil), e.shotsReceived...)
}

// Secret loads this player's stored board secret, absent when never
// committed or lost.
func (e *Engine) Secret() (board.Secret, bool) {
	me := e.signer.Address()
	if me == "" {
		return board.Secret{}, false
	}
	sec, ok, err := e.secrets.Load(e.contract, me)
	if err != nil || !ok {
		return board.Secret{}, false
	}
	return sec, true
}

// Stats reads a player's lifetime record from the contract.
func (e *Engine) Stats(ctx context.Context, address string) (game.Stats, bool, error) {
	return e.client.GetPlayerStats(ctx, address)
}

// Join seats the connected player in the game and refreshes.
func (e *Engine) Join(ctx context.Context) error {
	if e.signer.Address() == "" {
		return wallet.ErrNotConnected
	}
	if err := e.client.JoinGame(ctx, e.signer); err != nil {
		e.setLastError(err)
		return err
	}
	return e.Refresh(ctx)
}

// Commit publishes the board's commitment. The secret is persisted before
// the transaction is submitted: losing it after a successful commit would
// leave the player unable to ever answer a shot.
func (e *Engine) Commit(ctx context.Context, b board.Board) error {
	if !b.Complete() {
		return fmt.Errorf("engine: board has %d of %d ships placed", b.ShipCount(), board.TotalShips)
	}
	me := e.signer.Address()
	if me == "" {
		return wallet.ErrNotConnected
	}
	salt, err := board.GenerateSalt()
	if err != nil {
		return fmt.Errorf("engine: generating salt: %w", err)
	}
	hash, err := e.prover.ComputeCommitment(ctx, b, salt)
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if err := e.secrets.Save(e.contract, me, board.Secret{Board: b, SaltHex: salt}); err != nil {
		return fmt.Errorf("engine: saving board secret: %w", err)
	}
	e.mu.Lock()
	e.secretMissing = false
	e.mu.Unlock()
	if err := e.client.CommitBoard(ctx, e.signer, hash); err != nil {
		e.setLastError(err)
		return err
	}
	e.logger.Info("board committed", "player", me, "hash", hash[:8])
	return e.Refresh(ctx)
}

// Fire shoots at (x, y). On success the shot lands in the fired log as
// provisional and a forced refresh reconciles it; on failure nothing local
// changes.
func (e *Engine) Fire(ctx context.Context, x, y uint32) error {
	if x >= board.Size || y >= board.Size {
		return fmt.Errorf("engine: coordinate (%d,%d) outside the %dx%d board", x, y, board.Size, board.Size)
	}
	me := e.signer.Address()
	if me == "" {
		return wallet.ErrNotConnected
	}

	e.mu.Lock()
	switch {
	case e.fireBusy:
		e.mu.Unlock()
		return ErrActionInFlight
	case !e.hasSnapshot || !e.snapshot.NeedToFire(me):
		e.mu.Unlock()
		return ErrNotYourTurn
	case hasShotAt(e.shotsFired, x, y):
		e.mu.Unlock()
		return ErrCoordinateTried
	}
	e.fireBusy = true
	e.mu.Unlock()

	err := e.client.FireShot(ctx, e.signer, x, y)

	e.mu.Lock()
	e.fireBusy = false
	if err != nil {
		e.lastErr = err
		e.mu.Unlock()
		return err
	}
	e.shotsFired = append(e.shotsFired, ShotRecord{X: x, Y: y, Outcome: OutcomePending})
	e.mu.Unlock()

	e.logger.Info("shot fired", "x", x, "y", y)
	return e.Refresh(ctx)
}

// Reset clears the game instance on chain and all local traces of it.
func (e *Engine) Reset(ctx context.Context) error {
	me := e.signer.Address()
	if me == "" {
		return wallet.ErrNotConnected
	}
	if err := e.client.ResetGame(ctx, e.signer); err != nil {
		e.setLastError(err)
		return err
	}
	if err := e.secrets.Clear(e.contract, me); err != nil {
		e.logger.Warn("could not clear board secret", "error", err)
	}
	e.ResetLocal()
	return e.Refresh(ctx)
}

// ResetLocal drops all per-player local state: shot logs, latched errors,
// the secret-missing latch. Called on reset and on wallet disconnect.
func (e *Engine) ResetLocal() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shotsFired = nil
	e.shotsReceived = nil
	e.lastErr = nil
	e.secretMissing = false
}

// Refresh performs one authoritative poll. Overlapping refreshes collapse:
// if one is already in flight the call returns immediately and the caller
// gets that poll's result via Snapshot/LastError. A failed poll keeps the
// previous snapshot and updates only the last error. When the new snapshot
// obliges a response it is answered before Refresh returns.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.refresh(ctx, false)
}

// Poll is the synchronizer-facing variant of Refresh: an owed response runs
// on its own goroutine so proof generation and confirmation never stall the
// polling loop. The respond guard keeps later polls from starting a
// duplicate while the proof is still underway.
func (e *Engine) Poll(ctx context.Context) error {
	return e.refresh(ctx, true)
}

func (e *Engine) refresh(ctx context.Context, asyncRespond bool) error {
	if !e.pollGate.TryLock() {
		return nil
	}
	s, present, err := e.client.GetState(ctx)

	e.mu.Lock()
	if err != nil {
		e.lastErr = err
		e.mu.Unlock()
		e.pollGate.Unlock()
		return err
	}
	// A clean poll clears transient errors, but a missing secret stays
	// surfaced: the game is unwinnable for this client until a new commit.
	if e.secretMissing {
		e.lastErr = ErrSecretMissing
	} else {
		e.lastErr = nil
	}
	if present {
		e.applySnapshotLocked(s)
	} else {
		// The instance is gone (never created, or reset raced us).
		e.hasSnapshot = false
		e.shotsFired = nil
		e.shotsReceived = nil
	}
	shot, respond := e.claimRespondLocked()
	e.mu.Unlock()
	e.pollGate.Unlock()

	if respond {
		if asyncRespond {
			go e.respond(ctx, shot)
		} else {
			e.respond(ctx, shot)
		}
	}
	return nil
}

// applySnapshotLocked installs an authoritative snapshot, last writer wins,
// and reconciles the optimistic logs against its counters.
func (e *Engine) applySnapshotLocked(s game.State) {
	if e.hasSnapshot && s.SessionID != e.sessionID {
		// New game instance under the same contract: local logs belong to
		// the old one.
		e.shotsFired = nil
		e.shotsReceived = nil
		e.secretMissing = false
	}
	e.sessionID = s.SessionID
	e.snapshot = s
	e.hasSnapshot = true
	e.reconcileLocked(s)
}

// reconcileLocked makes the fired log agree with the remote counters. The
// counters are authoritative: extra optimistic entries are dropped, and
// provisional outcomes resolve from the hit counter once the entry is no
// longer the live pending shot.
func (e *Engine) reconcileLocked(s game.State) {
	me := e.signer.Address()
	if me == "" {
		return
	}
	if remote := int(s.ShotsFiredBy(me)); len(e.shotsFired) > remote {
		e.shotsFired = e.shotsFired[:remote]
	}
	hits := int(s.HitsOn(s.Opponent(me)))
	known := 0
	for _, r := range e.shotsFired {
		if r.Outcome == OutcomeHit {
			known++
		}
	}
	for i := range e.shotsFired {
		r := &e.shotsFired[i]
		if r.Outcome != OutcomePending {
			continue
		}
		if s.HasPendingShot() && s.PendingShooter == me && s.PendingShotX == r.X && s.PendingShotY == r.Y {
			// Opponent has not answered this one yet.
			continue
		}
		if known < hits {
			r.Outcome = OutcomeHit
			known++
		} else {
			r.Outcome = OutcomeMiss
		}
	}
}

// claimRespondLocked decides whether the snapshot obliges an automatic
// response and, if so, claims the in-flight guard for its coordinates so a
// refresh arriving mid-proof cannot start a duplicate.
func (e *Engine) claimRespondLocked() (ShotRecord, bool) {
	me := e.signer.Address()
	if me == "" || !e.hasSnapshot || e.respondBusy || e.secretMissing {
		return ShotRecord{}, false
	}
	if !e.snapshot.NeedToRespond(me) {
		return ShotRecord{}, false
	}
	e.respondBusy = true
	e.respondX = e.snapshot.PendingShotX
	e.respondY = e.snapshot.PendingShotY
	return ShotRecord{X: e.respondX, Y: e.respondY}, true
}

// respond answers the pending shot: load the secret, prove the outcome,
// submit it, record it. Failures land in LastError and never escape; a
// missing secret latches so the engine does not retry a lost cause every
// poll.
func (e *Engine) respond(ctx context.Context, shot ShotRecord) {
	me := e.signer.Address()

	release := func() {
		e.mu.Lock()
		e.respondBusy = false
		e.mu.Unlock()
	}

	sec, ok, err := e.secrets.Load(e.contract, me)
	if err != nil || !ok {
		e.mu.Lock()
		e.respondBusy = false
		e.secretMissing = true
		e.lastErr = ErrSecretMissing
		e.mu.Unlock()
		e.logger.Error("cannot answer shot, board secret is gone", "x", shot.X, "y", shot.Y)
		return
	}

	e.mu.Lock()
	committed := e.snapshot.CommittedHash(me)
	e.mu.Unlock()

	proof, err := e.prover.GenerateProof(ctx, zkp.ProofRequest{
		Board:         sec.Board,
		SaltHex:       sec.SaltHex,
		CommittedHash: committed,
		X:             shot.X,
		Y:             shot.Y,
	})
	if err != nil {
		e.setLastError(fmt.Errorf("engine: proving response: %w", err))
		release()
		return
	}

	if err := e.client.SubmitResponse(ctx, e.signer, shot.X, shot.Y, proof.IsHit, proof.Bytes); err != nil {
		e.setLastError(err)
		release()
		return
	}

	outcome := OutcomeMiss
	if proof.IsHit {
		outcome = OutcomeHit
	}
	e.mu.Lock()
	e.shotsReceived = append(e.shotsReceived, ShotRecord{X: shot.X, Y: shot.Y, Outcome: outcome})
	e.lastErr = nil
	e.respondBusy = false
	e.mu.Unlock()

	e.logger.Info("shot answered", "x", shot.X, "y", shot.Y, "hit", proof.IsHit)
	e.Refresh(ctx)
}

func (e *Engine) setLastError(err error) {
	e.mu.Lock()
	e.lastErr = err
	e.mu.Unlock()
}
