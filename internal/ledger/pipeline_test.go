package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Gabrululu/zk-battleship/internal/scval"
	"github.com/Gabrululu/zk-battleship/internal/wallet"
)

// fakeRPC is a scriptable JSON-RPC endpoint.
type fakeRPC struct {
	t        *testing.T
	mu       sync.Mutex
	handlers map[string]func(params json.RawMessage) (any, *rpcError)
	calls    map[string]int
}

func newFakeRPC(t *testing.T) (*fakeRPC, *httptest.Server) {
	f := &fakeRPC{
		t:        t,
		handlers: map[string]func(json.RawMessage) (any, *rpcError){},
		calls:    map[string]int{},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     string          `json:"id"`
			Method string          `json:"method"`
			Params json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
			return
		}
		f.mu.Lock()
		f.calls[req.Method]++
		h, ok := f.handlers[req.Method]
		f.mu.Unlock()
		if !ok {
			t.Errorf("unexpected rpc method %q", req.Method)
			return
		}
		result, rpcErr := h(req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeRPC) on(method string, h func(json.RawMessage) (any, *rpcError)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method] = h
}

func (f *fakeRPC) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

type testSigner struct {
	addr    string
	decline bool
	signed  int
}

func (s *testSigner) Address() string { return s.addr }
func (s *testSigner) SignTransaction(_ context.Context, payload []byte) ([]byte, error) {
	if s.decline {
		return nil, wallet.ErrSigningDeclined
	}
	s.signed++
	return append([]byte("signed:"), payload...), nil
}

func testClient(url string) *Client {
	cfg := DefaultConfig()
	cfg.RPCURL = url
	cfg.ContractID = "CGAME"
	cfg.ConfirmAttempts = 3
	cfg.ConfirmInterval = time.Millisecond
	return NewClient(cfg, nil)
}

func happyDefaults(f *fakeRPC, txStatus string) {
	f.on("getAccount", func(json.RawMessage) (any, *rpcError) {
		return accountResult{Sequence: 42}, nil
	})
	f.on("simulateCall", func(json.RawMessage) (any, *rpcError) {
		return map[string]any{"minFee": 100, "footprint": map[string]any{"readOnly": []string{"state"}}}, nil
	})
	f.on("sendTransaction", func(json.RawMessage) (any, *rpcError) {
		return sendResult{Hash: "abc123", Status: "PENDING"}, nil
	})
	f.on("getTransaction", func(json.RawMessage) (any, *rpcError) {
		return txStatusResult{Status: txStatus}, nil
	})
}

func TestInvokeHappyPath(t *testing.T) {
	f, srv := newFakeRPC(t)
	happyDefaults(f, "SUCCESS")

	var simulated simulateParams
	f.on("simulateCall", func(params json.RawMessage) (any, *rpcError) {
		f.mu.Lock()
		json.Unmarshal(params, &simulated)
		f.mu.Unlock()
		return map[string]any{"minFee": 100}, nil
	})

	signer := &testSigner{addr: "GALICE"}
	err := testClient(srv.URL).Invoke(context.Background(), signer, Call{
		Method: "fire_shot",
		Args:   []scval.Value{scval.AccountAddress("GALICE"), scval.U32(2), scval.U32(3)},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if signer.signed != 1 {
		t.Errorf("signer invoked %d times", signer.signed)
	}
	// The sequence is fetched exactly once and reused by the simulation.
	if f.count("getAccount") != 1 {
		t.Errorf("getAccount called %d times, want 1", f.count("getAccount"))
	}
	f.mu.Lock()
	sim := simulated
	f.mu.Unlock()
	if sim.Sequence != 42 || sim.Source != "GALICE" {
		t.Errorf("simulation did not reuse the fetched sequence: %+v", sim)
	}
}

func TestInvokeSimulationRejected(t *testing.T) {
	f, srv := newFakeRPC(t)
	happyDefaults(f, "SUCCESS")
	f.on("simulateCall", func(json.RawMessage) (any, *rpcError) {
		return map[string]any{"error": map[string]any{
			"message": "HostError: Error(Contract, #4)",
			"events":  []string{`contract call panicked with: "Not your turn"`},
		}}, nil
	})

	signer := &testSigner{addr: "GALICE"}
	err := testClient(srv.URL).Invoke(context.Background(), signer, Call{Method: "fire_shot"})
	if KindOf(err) != KindSimulationRejected {
		t.Fatalf("kind = %v, err = %v", KindOf(err), err)
	}
	var ce *CallError
	errors.As(err, &ce)
	if ce.Message != "Not your turn" {
		t.Errorf("reduced message %q", ce.Message)
	}
	if signer.signed != 0 {
		t.Error("rejected simulation must not reach the signer")
	}
	if f.count("sendTransaction") != 0 {
		t.Error("rejected simulation must not submit")
	}
}

func TestInvokeWalletDeclined(t *testing.T) {
	f, srv := newFakeRPC(t)
	happyDefaults(f, "SUCCESS")

	err := testClient(srv.URL).Invoke(context.Background(), &testSigner{addr: "GALICE", decline: true}, Call{Method: "join_game"})
	if KindOf(err) != KindWalletDeclined {
		t.Fatalf("kind = %v, err = %v", KindOf(err), err)
	}
	if f.count("sendTransaction") != 0 {
		t.Error("declined signing must not submit")
	}
}

func TestInvokeSubmissionRejected(t *testing.T) {
	f, srv := newFakeRPC(t)
	happyDefaults(f, "SUCCESS")
	f.on("sendTransaction", func(json.RawMessage) (any, *rpcError) {
		return sendResult{Status: "DUPLICATE"}, nil
	})

	err := testClient(srv.URL).Invoke(context.Background(), &testSigner{addr: "GALICE"}, Call{Method: "join_game"})
	if KindOf(err) != KindSubmissionRejected {
		t.Fatalf("kind = %v, err = %v", KindOf(err), err)
	}
	if f.count("getTransaction") != 0 {
		t.Error("rejected submission must not poll for confirmation")
	}
}

func TestInvokeOnChainFailure(t *testing.T) {
	f, srv := newFakeRPC(t)
	happyDefaults(f, "FAILED")

	err := testClient(srv.URL).Invoke(context.Background(), &testSigner{addr: "GALICE"}, Call{Method: "fire_shot"})
	if KindOf(err) != KindOnChainFailure {
		t.Fatalf("kind = %v, err = %v", KindOf(err), err)
	}
}

func TestInvokeConfirmationTimeout(t *testing.T) {
	f, srv := newFakeRPC(t)
	happyDefaults(f, "NOT_FOUND")

	err := testClient(srv.URL).Invoke(context.Background(), &testSigner{addr: "GALICE"}, Call{Method: "fire_shot"})
	if KindOf(err) != KindConfirmationTimeout {
		t.Fatalf("kind = %v, err = %v", KindOf(err), err)
	}
	if f.count("getTransaction") != 3 {
		t.Errorf("polled %d times, want the configured 3", f.count("getTransaction"))
	}
}

func TestInvokeConfirmationRecoversAfterTransientPollFailure(t *testing.T) {
	f, srv := newFakeRPC(t)
	happyDefaults(f, "SUCCESS")
	polls := 0
	f.on("getTransaction", func(json.RawMessage) (any, *rpcError) {
		f.mu.Lock()
		polls++
		n := polls
		f.mu.Unlock()
		if n == 1 {
			return nil, &rpcError{Code: -32000, Message: "node hiccup"}
		}
		return txStatusResult{Status: "SUCCESS"}, nil
	})

	err := testClient(srv.URL).Invoke(context.Background(), &testSigner{addr: "GALICE"}, Call{Method: "fire_shot"})
	if err != nil {
		t.Fatalf("transient poll failure should not fail the call: %v", err)
	}
}

func TestGetStateAbsence(t *testing.T) {
	f, srv := newFakeRPC(t)
	f.on("simulateCall", func(json.RawMessage) (any, *rpcError) {
		return map[string]any{"error": `contract call panicked with: "No game"`}, nil
	})

	_, present, err := testClient(srv.URL).GetState(context.Background())
	if err != nil {
		t.Fatalf("absence must not be an error: %v", err)
	}
	if present {
		t.Error("uninitialized game must read as absent")
	}
}

func TestGetStateDecodes(t *testing.T) {
	f, srv := newFakeRPC(t)
	f.on("simulateCall", func(json.RawMessage) (any, *rpcError) {
		state := scval.Value{Type: scval.TypeMap, Map: []scval.MapEntry{
			{Key: scval.Symbol("player1"), Val: scval.AccountAddress("GALICE")},
			{Key: scval.Symbol("phase"), Val: scval.Symbol("Commit")},
		}}
		raw, _ := json.Marshal(state)
		return map[string]any{"result": json.RawMessage(raw)}, nil
	})

	s, present, err := testClient(srv.URL).GetState(context.Background())
	if err != nil || !present {
		t.Fatalf("GetState: present=%v err=%v", present, err)
	}
	if s.Player1 != "GALICE" || s.Phase.String() != "Commit" {
		t.Errorf("decoded state: %+v", s)
	}
}

func TestGetPlayerStatsNone(t *testing.T) {
	f, srv := newFakeRPC(t)
	f.on("simulateCall", func(json.RawMessage) (any, *rpcError) {
		raw, _ := json.Marshal(scval.Void())
		return map[string]any{"result": json.RawMessage(raw)}, nil
	})

	_, present, err := testClient(srv.URL).GetPlayerStats(context.Background(), "GNEW")
	if err != nil {
		t.Fatalf("explicit none must not be an error: %v", err)
	}
	if present {
		t.Error("player with no record must read as absent")
	}
}

func TestCommitBoardValidatesHash(t *testing.T) {
	_, srv := newFakeRPC(t)
	c := testClient(srv.URL)
	if err := c.CommitBoard(context.Background(), &testSigner{addr: "G"}, "zz"); err == nil {
		t.Error("malformed hash must be rejected before any network call")
	}
	if err := c.CommitBoard(context.Background(), &testSigner{addr: "G"}, "abcd"); err == nil {
		t.Error("short hash must be rejected")
	}
}
