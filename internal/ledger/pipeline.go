package ledger

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gabrululu/zk-battleship/internal/scval"
	"github.com/Gabrululu/zk-battleship/internal/wallet"
)

// Call names a contract method and its arguments.
type Call struct {
	Method string
	Args   []scval.Value
}

// txPayload is the signable transaction: the original call combined with
// the simulation's resource metadata.
type txPayload struct {
	Source    string          `json:"source"`
	Sequence  uint64          `json:"sequence"`
	Contract  string          `json:"contract"`
	Method    string          `json:"method"`
	Args      []scval.Value   `json:"args"`
	Footprint json.RawMessage `json:"footprint,omitempty"`
	MinFee    uint64          `json:"minFee"`
}

// Invoke drives one write call through the full pipeline:
//
//	Built → Simulated → Assembled → Signed → Submitted → Confirmed
//
// Terminal failures map onto the CallError taxonomy; a nil return means
// the transaction settled successfully on chain.
func (c *Client) Invoke(ctx context.Context, signer wallet.Signer, call Call) error {
	source := signer.Address()
	if source == "" {
		return newCallError(KindWalletDeclined, "wallet not connected", wallet.ErrNotConnected)
	}

	// Build: one sequence fetch, reused by simulation and transaction.
	seq, err := c.AccountSequence(ctx, source)
	if err != nil {
		return err
	}

	// Simulate.
	sim, err := c.simulate(ctx, source, seq, call)
	if err != nil {
		return err
	}
	if len(sim.Error) > 0 {
		msg := reduceSimulationError(sim.Error)
		c.logger.Debug("simulation rejected", "method", call.Method, "reason", msg)
		return newCallError(KindSimulationRejected, msg, nil)
	}

	// Assemble.
	payload, err := json.Marshal(txPayload{
		Source:    source,
		Sequence:  seq,
		Contract:  c.contract,
		Method:    call.Method,
		Args:      call.Args,
		Footprint: sim.Footprint,
		MinFee:    sim.MinFee,
	})
	if err != nil {
		return newCallError(KindNetwork, "could not assemble transaction", err)
	}

	// Sign. The bridge is the only component that touches key material.
	signed, err := signer.SignTransaction(ctx, payload)
	if err != nil {
		if errors.Is(err, wallet.ErrSigningDeclined) {
			return newCallError(KindWalletDeclined, "signing cancelled", err)
		}
		return newCallError(KindNetwork, "signing failed", err)
	}

	// Submit.
	res, err := c.sendTransaction(ctx, base64.StdEncoding.EncodeToString(signed))
	if err != nil {
		return err
	}
	switch res.Status {
	case "PENDING", "SUCCESS":
	case "DUPLICATE":
		return newCallError(KindSubmissionRejected, "transaction already submitted", nil)
	case "TRY_AGAIN_LATER":
		return newCallError(KindSubmissionRejected, "node is busy, try again shortly", nil)
	default:
		msg := res.ErrorMessage
		if msg == "" {
			msg = fmt.Sprintf("submission status %q", res.Status)
		}
		return newCallError(KindSubmissionRejected, truncateMessage(msg), nil)
	}

	c.logger.Debug("submitted", "method", call.Method, "hash", res.Hash)
	return c.confirm(ctx, res.Hash)
}

// confirm polls transaction status on a fixed cadence with a bounded
// attempt count. Success, on-chain failure, and attempts-exhausted are
// three distinct outcomes.
func (c *Client) confirm(ctx context.Context, hash string) error {
	for attempt := 0; attempt < c.cfg.ConfirmAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return newCallError(KindConfirmationTimeout, "confirmation interrupted", ctx.Err())
		case <-time.After(c.cfg.ConfirmInterval):
		}

		status, err := c.transactionStatus(ctx, hash)
		if err != nil {
			// Transient poll failure burns the attempt, not the call.
			c.logger.Debug("status poll failed", "hash", hash, "error", err)
			continue
		}
		switch status.Status {
		case "SUCCESS":
			c.logger.Debug("confirmed", "hash", hash, "attempts", attempt+1)
			return nil
		case "FAILED":
			return newCallError(KindOnChainFailure, truncateMessage(status.ResultMessage), nil)
		case "NOT_FOUND", "PENDING":
			// Keep polling.
		default:
			c.logger.Debug("unknown status", "hash", hash, "status", status.Status)
		}
	}
	return newCallError(KindConfirmationTimeout,
		fmt.Sprintf("no settlement after %d polls", c.cfg.ConfirmAttempts), nil)
}
