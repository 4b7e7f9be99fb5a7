package engine

import (
	"context"
	"testing"
	"time"

	"github.com/Gabrululu/zk-battleship/internal/wallet"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestSynchronizerPollsImmediatelyAndPeriodically(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	alice, _ := newTestEngine(ledger, "GALICE")
	if err := ledger.JoinGame(ctx, staticSigner{addr: "GALICE"}); err != nil {
		t.Fatal(err)
	}

	syncer := NewSynchronizer(alice, 10*time.Millisecond, nil, nil)
	syncer.Start(ctx)
	defer syncer.Stop()

	waitFor(t, "first snapshot", func() bool {
		_, ok := alice.Snapshot()
		return ok
	})

	// A change on the ledger shows up without any manual refresh.
	if err := ledger.JoinGame(ctx, staticSigner{addr: "GBOB"}); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "second player visible", func() bool {
		s, ok := alice.Snapshot()
		return ok && s.Player2 == "GBOB"
	})
}

func TestSynchronizerStopAndRestart(t *testing.T) {
	ledger := newFakeLedger()
	alice, _ := newTestEngine(ledger, "GALICE")
	syncer := NewSynchronizer(alice, 10*time.Millisecond, nil, nil)

	syncer.Start(context.Background())
	syncer.Start(context.Background()) // second start is a no-op
	syncer.Stop()
	syncer.Stop() // second stop is a no-op

	syncer.Start(context.Background())
	defer syncer.Stop()
	syncer.RefreshNow()
}

func TestSynchronizerRefreshNow(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	alice, _ := newTestEngine(ledger, "GALICE")

	// A long interval so only the immediate poll and the kicked poll run.
	syncer := NewSynchronizer(alice, time.Hour, nil, nil)
	syncer.Start(ctx)
	defer syncer.Stop()

	waitFor(t, "initial poll", func() bool {
		return alice.LastError() == nil
	})

	if err := ledger.JoinGame(ctx, staticSigner{addr: "GALICE"}); err != nil {
		t.Fatal(err)
	}
	syncer.RefreshNow()
	waitFor(t, "kicked poll", func() bool {
		_, ok := alice.Snapshot()
		return ok
	})
}

func TestSynchronizerResetsOnWalletDisconnect(t *testing.T) {
	ctx := context.Background()
	ledger := newFakeLedger()
	alice, _ := newTestEngine(ledger, "GALICE")
	bob, _ := newTestEngine(ledger, "GBOB")
	mustStartGame(t, ctx, alice, bob)
	if err := alice.Fire(ctx, 2, 3); err != nil {
		t.Fatal(err)
	}
	if len(alice.ShotsFired()) != 1 {
		t.Fatal("no optimistic record")
	}

	session := wallet.NewSession()
	events := session.Subscribe()
	syncer := NewSynchronizer(alice, time.Hour, events, nil)
	syncer.Start(ctx)
	defer syncer.Stop()

	session.Connect(staticSigner{addr: "GALICE"})
	session.Disconnect()

	waitFor(t, "local state reset", func() bool {
		return len(alice.ShotsFired()) == 0
	})
}
