package raise

import (
	"math/big"
	"reflect"
	"testing"
)

func seedAccepted(t *testing.T, store *mockStorage, subscription string, exchanges ...*AssetExchange) {
	t.Helper()
	setRegistry(t, store, acceptedSubsKey, subscription)
	if len(exchanges) > 0 {
		if err := saveAssetExchanges(store, subscription, exchanges); err != nil {
			t.Fatalf("seed exchanges: %v", err)
		}
	}
}

func TestIssueAssetExchanges(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	seedAccepted(t, store, "sub_1")

	issued := []*AssetExchange{
		{Investment: int64Ptr(1_000), CommitmentInShares: int64Ptr(-1_000), Capital: int64Ptr(-1_000)},
		{Capital: int64Ptr(500), Date: int64Ptr(1_700_000_000)},
	}
	if _, err := engine.IssueAssetExchanges(MessageInfo{Sender: "gp"}, "sub_1", issued); err != nil {
		t.Fatalf("issue: %v", err)
	}
	queue, err := loadAssetExchanges(store, "sub_1")
	if err != nil {
		t.Fatalf("load exchanges: %v", err)
	}
	if len(queue) != 2 {
		t.Fatalf("expected two queued exchanges, got %d", len(queue))
	}
	for i := range issued {
		if !queue[i].Equal(issued[i]) {
			t.Fatalf("queued exchange %d differs: %+v", i, queue[i])
		}
	}
}

func TestIssueAssetExchangesBadActor(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	seedAccepted(t, store, "sub_1")

	if _, err := engine.IssueAssetExchanges(MessageInfo{Sender: "bad_actor"}, "sub_1", []*AssetExchange{{Capital: int64Ptr(100)}}); err == nil {
		t.Fatal("expected authorization error")
	}
}

func TestIssueAssetExchangesRequiresAccepted(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	setRegistry(t, store, pendingSubsKey, "sub_1")

	if _, err := engine.IssueAssetExchanges(MessageInfo{Sender: "gp"}, "sub_1", []*AssetExchange{{Capital: int64Ptr(100)}}); err == nil {
		t.Fatal("expected error for non-accepted subscription")
	}
}

func TestCancelAssetExchanges(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	target := &AssetExchange{Investment: int64Ptr(1_000), Capital: int64Ptr(-1_000)}
	other := &AssetExchange{Investment: int64Ptr(1_000), Capital: int64Ptr(-1_000), Date: int64Ptr(1_700_000_000)}
	seedAccepted(t, store, "sub_1", target, other)

	// Cancellation matches all four fields, so the dated entry survives.
	if _, err := engine.CancelAssetExchanges(MessageInfo{Sender: "gp"}, "sub_1", []*AssetExchange{target}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	queue, err := loadAssetExchanges(store, "sub_1")
	if err != nil {
		t.Fatalf("load exchanges: %v", err)
	}
	if len(queue) != 1 || !queue[0].Equal(other) {
		t.Fatalf("unexpected queue after cancel: %+v", queue)
	}
}

func TestCancelAssetExchangesNotFound(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	seedAccepted(t, store, "sub_1", &AssetExchange{Capital: int64Ptr(100)})
	snap := store.snapshot()

	if _, err := engine.CancelAssetExchanges(MessageInfo{Sender: "gp"}, "sub_1", []*AssetExchange{{Capital: int64Ptr(200)}}); err == nil {
		t.Fatal("expected error for missing exchange")
	}
	if !store.equals(snap) {
		t.Fatal("failed cancel must not mutate state")
	}
}

func TestCancelAssetExchangesBadActor(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	seedAccepted(t, store, "sub_1", &AssetExchange{Capital: int64Ptr(100)})

	if _, err := engine.CancelAssetExchanges(MessageInfo{Sender: "bad_actor"}, "sub_1", []*AssetExchange{{Capital: int64Ptr(100)}}); err == nil {
		t.Fatal("expected authorization error")
	}
}

func TestIssueThenCancelRoundTrip(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	seedAccepted(t, store, "sub_1")
	exchange := &AssetExchange{Investment: int64Ptr(2_000), CommitmentInShares: int64Ptr(-2_000)}

	if _, err := engine.IssueAssetExchanges(MessageInfo{Sender: "gp"}, "sub_1", []*AssetExchange{exchange}); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := engine.CancelAssetExchanges(MessageInfo{Sender: "gp"}, "sub_1", []*AssetExchange{exchange}); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	queue, err := loadAssetExchanges(store, "sub_1")
	if err != nil {
		t.Fatalf("load exchanges: %v", err)
	}
	if len(queue) != 0 {
		t.Fatalf("expected empty queue, got %+v", queue)
	}
}

func TestCompleteAssetExchangeBundle(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	exchange := &AssetExchange{
		Investment:         int64Ptr(1_000),
		CommitmentInShares: int64Ptr(-1_000),
		Capital:            int64Ptr(-1_000),
	}
	seedAccepted(t, store, "sub_1", exchange)

	resp, err := engine.CompleteAssetExchange(Env{ContractAddress: "raise_1", BlockTime: 1_700_000_000}, MessageInfo{Sender: "sub_1"}, []*AssetExchange{exchange})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	want := []Msg{
		MsgMarkerTransfer{Denom: "commitment_coin", Amount: big.NewInt(1_000), From: "sub_1", To: "commitment_marker"},
		MsgMarkerBurn{Denom: "commitment_coin", Amount: big.NewInt(1_000)},
		MsgMarkerMint{Denom: "investment_coin", Amount: big.NewInt(1_000)},
		MsgMarkerTransfer{Denom: "investment_coin", Amount: big.NewInt(1_000), From: "investment_marker", To: "sub_1"},
		MsgBankSend{From: "sub_1", To: "gp", Denom: "stable_coin", Amount: big.NewInt(1_000)},
	}
	if !reflect.DeepEqual(want, resp.Messages) {
		t.Fatalf("unexpected message bundle %+v", resp.Messages)
	}
	queue, err := loadAssetExchanges(store, "sub_1")
	if err != nil {
		t.Fatalf("load exchanges: %v", err)
	}
	if len(queue) != 0 {
		t.Fatalf("expected drained queue, got %+v", queue)
	}
}

func TestCompleteAssetExchangeInflow(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	exchange := &AssetExchange{CommitmentInShares: int64Ptr(500), Capital: int64Ptr(200)}
	seedAccepted(t, store, "sub_1", exchange)

	resp, err := engine.CompleteAssetExchange(Env{BlockTime: 1_700_000_000}, MessageInfo{Sender: "sub_1"}, []*AssetExchange{exchange})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	want := []Msg{
		MsgMarkerMint{Denom: "commitment_coin", Amount: big.NewInt(500)},
		MsgMarkerTransfer{Denom: "commitment_coin", Amount: big.NewInt(500), From: "commitment_marker", To: "sub_1"},
		MsgBankSend{From: "gp", To: "sub_1", Denom: "stable_coin", Amount: big.NewInt(200)},
	}
	if !reflect.DeepEqual(want, resp.Messages) {
		t.Fatalf("unexpected message bundle %+v", resp.Messages)
	}
}

func TestCompleteAssetExchangeNotYetAvailable(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	exchange := &AssetExchange{Capital: int64Ptr(100), Date: int64Ptr(2_000_000_000)}
	seedAccepted(t, store, "sub_1", exchange)
	snap := store.snapshot()

	if _, err := engine.CompleteAssetExchange(Env{BlockTime: 1_700_000_000}, MessageInfo{Sender: "sub_1"}, []*AssetExchange{exchange}); err == nil {
		t.Fatal("expected availability error")
	}
	if !store.equals(snap) {
		t.Fatal("failed completion must not mutate state")
	}
}

func TestCompleteAssetExchangeDatedBecomesAvailable(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	exchange := &AssetExchange{Capital: int64Ptr(100), Date: int64Ptr(1_700_000_000)}
	seedAccepted(t, store, "sub_1", exchange)

	if _, err := engine.CompleteAssetExchange(Env{BlockTime: 1_700_000_000}, MessageInfo{Sender: "sub_1"}, []*AssetExchange{exchange}); err != nil {
		t.Fatalf("complete at availability instant: %v", err)
	}
}

func TestCompleteAssetExchangeNotQueued(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	seedAccepted(t, store, "sub_1", &AssetExchange{Capital: int64Ptr(100)})
	snap := store.snapshot()

	if _, err := engine.CompleteAssetExchange(Env{BlockTime: 1_700_000_000}, MessageInfo{Sender: "sub_1"}, []*AssetExchange{{Capital: int64Ptr(999)}}); err == nil {
		t.Fatal("expected error for unqueued exchange")
	}
	if !store.equals(snap) {
		t.Fatal("failed completion must not mutate state")
	}
}

func TestCompleteAssetExchangeBatchAtomicity(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	good := &AssetExchange{Capital: int64Ptr(100)}
	seedAccepted(t, store, "sub_1", good)
	snap := store.snapshot()

	batch := []*AssetExchange{good, {Capital: int64Ptr(999)}}
	if _, err := engine.CompleteAssetExchange(Env{BlockTime: 1_700_000_000}, MessageInfo{Sender: "sub_1"}, batch); err == nil {
		t.Fatal("expected batch to fail on second entry")
	}
	if !store.equals(snap) {
		t.Fatal("partial batch must not commit")
	}
}

func TestCompleteAssetExchangeDuplicateEntriesNeedDuplicateQueue(t *testing.T) {
	engine, store, _ := newTestEngine(t, testConfig())
	exchange := &AssetExchange{Capital: int64Ptr(100)}
	seedAccepted(t, store, "sub_1", exchange)

	batch := []*AssetExchange{exchange, exchange}
	if _, err := engine.CompleteAssetExchange(Env{BlockTime: 1_700_000_000}, MessageInfo{Sender: "sub_1"}, batch); err == nil {
		t.Fatal("second duplicate should not match an already-consumed entry")
	}
}
