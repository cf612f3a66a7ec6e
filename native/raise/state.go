package raise

import (
	"fmt"
	"sort"
	"strconv"
)

// Storage abstracts the subset of state manager functionality required by the
// raise ledgers.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
}

// addressSet is a sorted, duplicate-free set of subscription addresses. The
// sorted representation keeps the persisted form deterministic.
type addressSet []string

func (s addressSet) contains(addr string) bool {
	i := sort.SearchStrings(s, addr)
	return i < len(s) && s[i] == addr
}

func (s addressSet) add(addr string) addressSet {
	i := sort.SearchStrings(s, addr)
	if i < len(s) && s[i] == addr {
		return s
	}
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = addr
	return s
}

func (s addressSet) remove(addr string) (addressSet, bool) {
	i := sort.SearchStrings(s, addr)
	if i >= len(s) || s[i] != addr {
		return s, false
	}
	return append(s[:i], s[i+1:]...), true
}

// Stored mirrors keep the persisted form RLP-friendly: optional and signed
// numerics are encoded as decimal strings, the empty string marking absence.

type storedAssetExchange struct {
	Investment         string
	CommitmentInShares string
	Capital            string
	Date               string
}

type storedRedemption struct {
	Subscription          string
	Capital               uint64
	Asset                 uint64
	AvailableEpochSeconds string
}

func encodeInt64(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func decodeInt64(s string) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("raise: corrupt stored amount %q: %w", s, err)
	}
	return &v, nil
}

func toStoredExchange(e *AssetExchange) storedAssetExchange {
	return storedAssetExchange{
		Investment:         encodeInt64(e.Investment),
		CommitmentInShares: encodeInt64(e.CommitmentInShares),
		Capital:            encodeInt64(e.Capital),
		Date:               encodeInt64(e.Date),
	}
}

func fromStoredExchange(s storedAssetExchange) (*AssetExchange, error) {
	investment, err := decodeInt64(s.Investment)
	if err != nil {
		return nil, err
	}
	commitment, err := decodeInt64(s.CommitmentInShares)
	if err != nil {
		return nil, err
	}
	capital, err := decodeInt64(s.Capital)
	if err != nil {
		return nil, err
	}
	date, err := decodeInt64(s.Date)
	if err != nil {
		return nil, err
	}
	return &AssetExchange{
		Investment:         investment,
		CommitmentInShares: commitment,
		Capital:            capital,
		Date:               date,
	}, nil
}

func toStoredRedemption(r *Redemption) storedRedemption {
	return storedRedemption{
		Subscription:          r.Subscription,
		Capital:               r.Capital,
		Asset:                 r.Asset,
		AvailableEpochSeconds: encodeInt64(r.AvailableEpochSeconds),
	}
}

func fromStoredRedemption(s storedRedemption) (*Redemption, error) {
	available, err := decodeInt64(s.AvailableEpochSeconds)
	if err != nil {
		return nil, err
	}
	return &Redemption{
		Subscription:          s.Subscription,
		Capital:               s.Capital,
		Asset:                 s.Asset,
		AvailableEpochSeconds: available,
	}, nil
}

func loadConfig(store Storage) (*Config, error) {
	var cfg Config
	ok, err := store.KVGet(configKey, &cfg)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("raise: not instantiated")
	}
	return &cfg, nil
}

func saveConfig(store Storage, cfg *Config) error {
	return store.KVPut(configKey, cfg)
}

func configExists(store Storage) (bool, error) {
	return store.KVGet(configKey, nil)
}

func loadAddressSet(store Storage, key []byte) (addressSet, error) {
	var addrs []string
	ok, err := store.KVGet(key, &addrs)
	if err != nil {
		return nil, err
	}
	if !ok {
		return addressSet{}, nil
	}
	return addressSet(addrs), nil
}

func saveAddressSet(store Storage, key []byte, set addressSet) error {
	return store.KVPut(key, []string(set))
}

func loadAssetExchanges(store Storage, subscription string) ([]*AssetExchange, error) {
	var stored []storedAssetExchange
	ok, err := store.KVGet(assetExchangeKey(subscription), &stored)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	exchanges := make([]*AssetExchange, 0, len(stored))
	for _, entry := range stored {
		exchange, err := fromStoredExchange(entry)
		if err != nil {
			return nil, err
		}
		exchanges = append(exchanges, exchange)
	}
	return exchanges, nil
}

// saveAssetExchanges persists the queue for a subscription; an empty queue
// erases the key so the map only holds subscriptions with outstanding entries.
func saveAssetExchanges(store Storage, subscription string, exchanges []*AssetExchange) error {
	key := assetExchangeKey(subscription)
	if len(exchanges) == 0 {
		return store.KVDelete(key)
	}
	stored := make([]storedAssetExchange, 0, len(exchanges))
	for _, exchange := range exchanges {
		stored = append(stored, toStoredExchange(exchange))
	}
	return store.KVPut(key, stored)
}

func loadRedemptions(store Storage) ([]*Redemption, bool, error) {
	var stored []storedRedemption
	ok, err := store.KVGet(redemptionsKey, &stored)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	redemptions := make([]*Redemption, 0, len(stored))
	for _, entry := range stored {
		redemption, err := fromStoredRedemption(entry)
		if err != nil {
			return nil, false, err
		}
		redemptions = append(redemptions, redemption)
	}
	return redemptions, true, nil
}

func saveRedemptions(store Storage, redemptions []*Redemption) error {
	stored := make([]storedRedemption, 0, len(redemptions))
	for _, redemption := range redemptions {
		stored = append(stored, toStoredRedemption(redemption))
	}
	return store.KVPut(redemptionsKey, stored)
}
