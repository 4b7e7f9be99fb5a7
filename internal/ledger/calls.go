package ledger

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/Gabrululu/zk-battleship/internal/game"
	"github.com/Gabrululu/zk-battleship/internal/scval"
	"github.com/Gabrululu/zk-battleship/internal/wallet"
)

// Contract method names.
const (
	methodJoinGame       = "join_game"
	methodCommitBoard    = "commit_board"
	methodFireShot       = "fire_shot"
	methodSubmitResponse = "submit_response"
	methodResetGame      = "reset_game"
	methodGetState       = "get_state"
	methodGetPlayerStats = "get_player_stats"
)

// GetState reads the authoritative game snapshot. The second return is
// false when the game instance does not exist yet.
func (c *Client) GetState(ctx context.Context) (game.State, bool, error) {
	v, present, err := c.Query(ctx, Call{Method: methodGetState})
	if err != nil || !present {
		return game.State{}, false, err
	}
	return game.DecodeState(v), true, nil
}

// GetPlayerStats reads a player's lifetime stats; absent when the player
// has no record yet.
func (c *Client) GetPlayerStats(ctx context.Context, address string) (game.Stats, bool, error) {
	v, present, err := c.Query(ctx, Call{
		Method: methodGetPlayerStats,
		Args:   []scval.Value{scval.AccountAddress(address)},
	})
	if err != nil || !present {
		return game.Stats{}, false, err
	}
	stats, ok := game.DecodeStats(v)
	return stats, ok, nil
}

// JoinGame seats the signer in the game.
func (c *Client) JoinGame(ctx context.Context, signer wallet.Signer) error {
	return c.Invoke(ctx, signer, Call{
		Method: methodJoinGame,
		Args:   []scval.Value{scval.AccountAddress(signer.Address())},
	})
}

// CommitBoard publishes the signer's board commitment.
func (c *Client) CommitBoard(ctx context.Context, signer wallet.Signer, hashHex string) error {
	h, err := hex.DecodeString(hashHex)
	if err != nil || len(h) != 32 {
		return fmt.Errorf("ledger: commitment must be 32 bytes of hex, got %q", hashHex)
	}
	return c.Invoke(ctx, signer, Call{
		Method: methodCommitBoard,
		Args: []scval.Value{
			scval.AccountAddress(signer.Address()),
			scval.Bytes(h),
		},
	})
}

// FireShot fires at (x, y).
func (c *Client) FireShot(ctx context.Context, signer wallet.Signer, x, y uint32) error {
	return c.Invoke(ctx, signer, Call{
		Method: methodFireShot,
		Args: []scval.Value{
			scval.AccountAddress(signer.Address()),
			scval.U32(x),
			scval.U32(y),
		},
	})
}

// SubmitResponse answers the pending shot with the proof.
func (c *Client) SubmitResponse(ctx context.Context, signer wallet.Signer, x, y uint32, isHit bool, proof []byte) error {
	return c.Invoke(ctx, signer, Call{
		Method: methodSubmitResponse,
		Args: []scval.Value{
			scval.AccountAddress(signer.Address()),
			scval.U32(x),
			scval.U32(y),
			scval.Bool(isHit),
			scval.Bytes(proof),
		},
	})
}

// ResetGame clears the game instance so a new one can start.
func (c *Client) ResetGame(ctx context.Context, signer wallet.Signer) error {
	return c.Invoke(ctx, signer, Call{
		Method: methodResetGame,
		Args:   []scval.Value{scval.AccountAddress(signer.Address())},
	})
}
