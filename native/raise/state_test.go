package raise

import (
	"reflect"
	"testing"
)

func TestAddressSetOrderedAndDeduplicated(t *testing.T) {
	set := addressSet{}
	for _, addr := range []string{"sub_3", "sub_1", "sub_2", "sub_1"} {
		set = set.add(addr)
	}
	if !reflect.DeepEqual(addressSet{"sub_1", "sub_2", "sub_3"}, set) {
		t.Fatalf("unexpected set %v", set)
	}
	if !set.contains("sub_2") {
		t.Fatal("expected membership for sub_2")
	}
	if set.contains("sub_4") {
		t.Fatal("unexpected membership for sub_4")
	}
	set, removed := set.remove("sub_2")
	if !removed {
		t.Fatal("expected removal of sub_2")
	}
	if _, removed := set.remove("sub_2"); removed {
		t.Fatal("second removal should miss")
	}
	if !reflect.DeepEqual(addressSet{"sub_1", "sub_3"}, set) {
		t.Fatalf("unexpected set after removal %v", set)
	}
}

func TestStoredExchangePreservesPresence(t *testing.T) {
	cases := []*AssetExchange{
		{},
		{Capital: int64Ptr(0)},
		{Investment: int64Ptr(-1_000), CommitmentInShares: int64Ptr(1_000)},
		{Investment: int64Ptr(1), CommitmentInShares: int64Ptr(-1), Capital: int64Ptr(-2), Date: int64Ptr(1_700_000_000)},
	}
	for _, original := range cases {
		decoded, err := fromStoredExchange(toStoredExchange(original))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !decoded.Equal(original) {
			t.Fatalf("round trip changed %+v into %+v", original, decoded)
		}
	}
}

func TestStoredExchangeCorruptAmount(t *testing.T) {
	if _, err := fromStoredExchange(storedAssetExchange{Capital: "not a number"}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestStoredRedemptionPreservesAvailability(t *testing.T) {
	original := &Redemption{Subscription: "sub_1", Capital: 100, Asset: 50, AvailableEpochSeconds: int64Ptr(1_700_000_000)}
	decoded, err := fromStoredRedemption(toStoredRedemption(original))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(original, decoded) {
		t.Fatalf("round trip changed %+v into %+v", original, decoded)
	}

	bare := &Redemption{Subscription: "sub_1", Capital: 100, Asset: 50}
	decoded, err = fromStoredRedemption(toStoredRedemption(bare))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.AvailableEpochSeconds != nil {
		t.Fatal("absent availability should stay absent")
	}
}

func TestSaveAssetExchangesEmptyErasesKey(t *testing.T) {
	store := newMockStorage()
	if err := saveAssetExchanges(store, "sub_1", []*AssetExchange{{Capital: int64Ptr(100)}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := saveAssetExchanges(store, "sub_1", nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if _, ok := store.kv[string(assetExchangeKey("sub_1"))]; ok {
		t.Fatal("empty queue should erase the key")
	}
}

func TestLoadRedemptionsDistinguishesMissingFromEmpty(t *testing.T) {
	store := newMockStorage()
	if _, exists, err := loadRedemptions(store); err != nil || exists {
		t.Fatalf("expected missing list, got exists=%v err=%v", exists, err)
	}
	if err := saveRedemptions(store, nil); err != nil {
		t.Fatalf("save: %v", err)
	}
	outstanding, exists, err := loadRedemptions(store)
	if err != nil || !exists {
		t.Fatalf("expected empty list, got exists=%v err=%v", exists, err)
	}
	if len(outstanding) != 0 {
		t.Fatalf("expected no entries, got %+v", outstanding)
	}
}

func TestAssetExchangeEqualPresence(t *testing.T) {
	zero := &AssetExchange{Capital: int64Ptr(0)}
	absent := &AssetExchange{}
	if zero.Equal(absent) {
		t.Fatal("zero and absent must not be equal")
	}
	dated := &AssetExchange{Capital: int64Ptr(0), Date: int64Ptr(1)}
	if zero.Equal(dated) {
		t.Fatal("differing dates must not be equal")
	}
	if !zero.Equal(zero.Clone()) {
		t.Fatal("clone must compare equal")
	}
}

func TestConfigAccredited(t *testing.T) {
	cfg := testConfig()
	if !cfg.Accredited(nil) {
		t.Fatal("empty gate must admit everyone")
	}
	cfg.AcceptableAccreditations = []string{"506b", "506c"}
	if !cfg.Accredited([]string{"kyc", "506c"}) {
		t.Fatal("expected match on 506c")
	}
	if cfg.Accredited([]string{"kyc"}) {
		t.Fatal("expected no match")
	}
}
