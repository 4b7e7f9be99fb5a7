package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Gabrululu/zk-battleship/internal/scval"
)

// Config tunes the client's transport and confirmation behavior.
type Config struct {
	// RPCURL is the platform's JSON-RPC endpoint.
	RPCURL string

	// ContractID is the game contract's address.
	ContractID string

	// RequestTimeout bounds a single network round trip.
	RequestTimeout time.Duration

	// ConfirmAttempts and ConfirmInterval bound settlement polling; their
	// product is the hard wall-clock ceiling on waiting for confirmation.
	ConfirmAttempts int
	ConfirmInterval time.Duration
}

// DefaultConfig returns sensible defaults for everything but the endpoint
// and contract.
func DefaultConfig() Config {
	return Config{
		RequestTimeout:  15 * time.Second,
		ConfirmAttempts: 10,
		ConfirmInterval: 2 * time.Second,
	}
}

// Client executes read and write calls against the game contract.
type Client struct {
	rpc      *rpcClient
	contract string
	cfg      Config
	logger   *log.Logger
}

// NewClient builds a client for the configured contract.
func NewClient(cfg Config, logger *log.Logger) *Client {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultConfig().RequestTimeout
	}
	if cfg.ConfirmAttempts <= 0 {
		cfg.ConfirmAttempts = DefaultConfig().ConfirmAttempts
	}
	if cfg.ConfirmInterval <= 0 {
		cfg.ConfirmInterval = DefaultConfig().ConfirmInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Client{
		rpc:      &rpcClient{url: cfg.RPCURL, http: &http.Client{Timeout: cfg.RequestTimeout}},
		contract: cfg.ContractID,
		cfg:      cfg,
		logger:   logger.WithPrefix("ledger"),
	}
}

// --- wire shapes ---

type accountResult struct {
	Sequence uint64 `json:"sequence"`
}

type simulateParams struct {
	Source   string        `json:"source,omitempty"`
	Sequence uint64        `json:"sequence,omitempty"`
	Contract string        `json:"contract"`
	Method   string        `json:"method"`
	Args     []scval.Value `json:"args"`
}

type simulateResult struct {
	Result    json.RawMessage `json:"result,omitempty"`
	Footprint json.RawMessage `json:"footprint,omitempty"`
	MinFee    uint64          `json:"minFee,omitempty"`
	Error     json.RawMessage `json:"error,omitempty"`
}

type sendParams struct {
	Transaction string `json:"transaction"`
}

type sendResult struct {
	Hash         string `json:"hash"`
	Status       string `json:"status"`
	ErrorMessage string `json:"errorMessage,omitempty"`
}

type txStatusParams struct {
	Hash string `json:"hash"`
}

type txStatusResult struct {
	Status        string `json:"status"`
	ResultMessage string `json:"resultMessage,omitempty"`
}

// AccountSequence fetches the current sequence number for an account.
// The pipeline fetches it once per invocation and reuses it for both the
// simulation and the final transaction; a second fetch risks a stale
// number and a spurious rejection.
func (c *Client) AccountSequence(ctx context.Context, address string) (uint64, error) {
	var res accountResult
	err := c.rpc.call(ctx, "getAccount", map[string]string{"address": address}, &res)
	if err != nil {
		return 0, newCallError(KindNetwork, "could not fetch account", err)
	}
	return res.Sequence, nil
}

// simulate executes the call without committing it.
func (c *Client) simulate(ctx context.Context, source string, sequence uint64, call Call) (simulateResult, error) {
	var res simulateResult
	err := c.rpc.call(ctx, "simulateCall", simulateParams{
		Source:   source,
		Sequence: sequence,
		Contract: c.contract,
		Method:   call.Method,
		Args:     call.Args,
	}, &res)
	if err != nil {
		return simulateResult{}, newCallError(KindNetwork, "simulation unreachable", err)
	}
	return res, nil
}

// Query runs a read-only call through simulation and returns the decoded
// result value. The second return is false when the contract reported the
// well-known "no state yet" condition, which is absence, not an error.
func (c *Client) Query(ctx context.Context, call Call) (scval.Value, bool, error) {
	sim, err := c.simulate(ctx, "", 0, call)
	if err != nil {
		return scval.Value{}, false, err
	}
	if len(sim.Error) > 0 {
		msg := reduceSimulationError(sim.Error)
		if isAbsenceMessage(msg) {
			return scval.Value{}, false, nil
		}
		return scval.Value{}, false, newCallError(KindSimulationRejected, msg, nil)
	}
	return scval.Parse(sim.Result), true, nil
}

// reduceSimulationError compresses a structured rejection envelope into a
// short human-readable string. Three envelope shapes are known: a bare
// string, {message, events}, and {error:{message}}. Anything else falls
// back to the truncated raw payload.
func reduceSimulationError(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if m := panicMessage(s); m != "" {
			return m
		}
		return truncateMessage(s)
	}

	var env struct {
		Message string   `json:"message"`
		Events  []string `json:"events"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && (env.Message != "" || len(env.Events) > 0) {
		// Diagnostic events carry the contract's own panic text; the last
		// one is the most specific.
		for i := len(env.Events) - 1; i >= 0; i-- {
			if m := panicMessage(env.Events[i]); m != "" {
				return m
			}
		}
		if m := panicMessage(env.Message); m != "" {
			return m
		}
		if env.Message != "" {
			return truncateMessage(env.Message)
		}
	}

	var nested struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Error != nil && nested.Error.Message != "" {
		if m := panicMessage(nested.Error.Message); m != "" {
			return m
		}
		return truncateMessage(nested.Error.Message)
	}

	return truncateMessage(string(raw))
}

// panicMessage pulls the quoted assertion text out of a host-error line,
// e.g. `HostError: Error(Contract, #1) ... panicked with: "Not your turn"`.
func panicMessage(s string) string {
	if !strings.Contains(s, "Error(Contract") && !strings.Contains(s, "panicked") {
		return ""
	}
	start := strings.Index(s, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(s[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

func truncateMessage(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		return s[:117] + "..."
	}
	return s
}

// isAbsenceMessage recognizes the contract's "state not created yet"
// rejections, which the caller must treat as absent, not failed.
func isAbsenceMessage(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "no game")
}

func (c *Client) sendTransaction(ctx context.Context, envelope string) (sendResult, error) {
	var res sendResult
	err := c.rpc.call(ctx, "sendTransaction", sendParams{Transaction: envelope}, &res)
	if err != nil {
		return sendResult{}, newCallError(KindNetwork, "submission unreachable", err)
	}
	return res, nil
}

func (c *Client) transactionStatus(ctx context.Context, hash string) (txStatusResult, error) {
	var res txStatusResult
	err := c.rpc.call(ctx, "getTransaction", txStatusParams{Hash: hash}, &res)
	if err != nil {
		return txStatusResult{}, fmt.Errorf("status poll: %w", err)
	}
	return res, nil
}
