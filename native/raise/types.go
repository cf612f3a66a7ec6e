package raise

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Config captures the immutable parameters of a raise, written once at
// instantiation. The gp operates the raise; the recovery admin is handed to
// every subscription contract the raise instantiates.
type Config struct {
	GP                       string   `json:"gp"`
	RecoveryAdmin            string   `json:"recovery_admin"`
	SubscriptionCodeID       uint64   `json:"subscription_code_id"`
	CapitalDenom             string   `json:"capital_denom"`
	CommitmentDenom          string   `json:"commitment_denom"`
	InvestmentDenom          string   `json:"investment_denom"`
	CapitalPerShare          uint64   `json:"capital_per_share"`
	AcceptableAccreditations []string `json:"acceptable_accreditations"`
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	clone.AcceptableAccreditations = append([]string(nil), c.AcceptableAccreditations...)
	return &clone
}

// Sanitize validates and normalises the supplied config, returning a cloned
// instance with trimmed addresses and sorted, de-duplicated accreditations.
// The function does not mutate the original value.
func (c *Config) Sanitize() (*Config, error) {
	if c == nil {
		return nil, fmt.Errorf("raise: nil config")
	}
	clone := c.Clone()
	clone.GP = strings.TrimSpace(clone.GP)
	clone.RecoveryAdmin = strings.TrimSpace(clone.RecoveryAdmin)
	clone.CapitalDenom = strings.TrimSpace(clone.CapitalDenom)
	clone.CommitmentDenom = strings.TrimSpace(clone.CommitmentDenom)
	clone.InvestmentDenom = strings.TrimSpace(clone.InvestmentDenom)
	if clone.GP == "" {
		return nil, fmt.Errorf("raise: gp address required")
	}
	if clone.RecoveryAdmin == "" {
		return nil, fmt.Errorf("raise: recovery admin address required")
	}
	if clone.SubscriptionCodeID == 0 {
		return nil, fmt.Errorf("raise: subscription code id required")
	}
	if clone.CapitalDenom == "" || clone.CommitmentDenom == "" || clone.InvestmentDenom == "" {
		return nil, fmt.Errorf("raise: capital, commitment and investment denoms required")
	}
	if clone.CapitalPerShare == 0 {
		return nil, fmt.Errorf("raise: capital per share must be positive")
	}
	seen := make(map[string]struct{}, len(clone.AcceptableAccreditations))
	accreditations := make([]string, 0, len(clone.AcceptableAccreditations))
	for _, accreditation := range clone.AcceptableAccreditations {
		trimmed := strings.TrimSpace(accreditation)
		if trimmed == "" {
			return nil, fmt.Errorf("raise: empty accreditation name")
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		accreditations = append(accreditations, trimmed)
	}
	sort.Strings(accreditations)
	clone.AcceptableAccreditations = accreditations
	return clone, nil
}

// EvenlyDivisible reports whether the capital amount converts to a whole
// number of commitment shares.
func (c *Config) EvenlyDivisible(capital uint64) bool {
	return capital%c.CapitalPerShare == 0
}

// CapitalToShares converts a capital amount into commitment shares.
func (c *Config) CapitalToShares(capital uint64) uint64 {
	return capital / c.CapitalPerShare
}

// Accredited reports whether the supplied attribute names pass the
// accreditation gate. An empty gate admits everyone.
func (c *Config) Accredited(attributes []string) bool {
	if len(c.AcceptableAccreditations) == 0 {
		return true
	}
	for _, attribute := range attributes {
		for _, acceptable := range c.AcceptableAccreditations {
			if attribute == acceptable {
				return true
			}
		}
	}
	return false
}

// AssetExchange is a queued promise to move up to three denoms on behalf of
// one subscription. Negative values flow from the subscription to the raise,
// positive values flow to the subscription. Date is an epoch-second
// earliest-settlement gate. Two exchanges differing only by Date are distinct.
type AssetExchange struct {
	Investment         *int64 `json:"investment"`
	CommitmentInShares *int64 `json:"commitment_in_shares"`
	Capital            *int64 `json:"capital"`
	Date               *int64 `json:"date"`
}

// Clone returns a deep copy of the exchange.
func (a *AssetExchange) Clone() *AssetExchange {
	if a == nil {
		return nil
	}
	return &AssetExchange{
		Investment:         cloneInt64(a.Investment),
		CommitmentInShares: cloneInt64(a.CommitmentInShares),
		Capital:            cloneInt64(a.Capital),
		Date:               cloneInt64(a.Date),
	}
}

// Equal reports structural equality on all four fields, presence included.
func (a *AssetExchange) Equal(other *AssetExchange) bool {
	if a == nil || other == nil {
		return a == other
	}
	return int64Equal(a.Investment, other.Investment) &&
		int64Equal(a.CommitmentInShares, other.CommitmentInShares) &&
		int64Equal(a.Capital, other.Capital) &&
		int64Equal(a.Date, other.Date)
}

// Redemption is an exit-side record: a subscription surrenders investment
// tokens in return for capital. Identity for lookup and cancellation is the
// (subscription, asset, capital) triple.
type Redemption struct {
	Subscription          string `json:"subscription"`
	Capital               uint64 `json:"capital"`
	Asset                 uint64 `json:"asset"`
	AvailableEpochSeconds *int64 `json:"available_epoch_seconds"`
}

// Clone returns a deep copy of the redemption.
func (r *Redemption) Clone() *Redemption {
	if r == nil {
		return nil
	}
	clone := *r
	clone.AvailableEpochSeconds = cloneInt64(r.AvailableEpochSeconds)
	return &clone
}

// Matches reports whether the record is identified by the supplied triple.
func (r *Redemption) Matches(subscription string, asset, capital uint64) bool {
	return r.Subscription == subscription && r.Asset == asset && r.Capital == capital
}

// AcceptSubscription names a subscription the gp admits along with its
// committed capital.
type AcceptSubscription struct {
	Subscription        string `json:"subscription"`
	CommitmentInCapital uint64 `json:"commitment_in_capital"`
}

// SubState mirrors the state a subscription contract reports about itself.
type SubState struct {
	Admin           string `json:"admin"`
	LP              string `json:"lp"`
	Raise           string `json:"raise"`
	CommitmentDenom string `json:"commitment_denom"`
	InvestmentDenom string `json:"investment_denom"`
	CapitalDenom    string `json:"capital_denom"`
	CapitalPerShare uint64 `json:"capital_per_share"`
}

// Coin is a fungible amount of a single denom attached to a call.
type Coin struct {
	Denom  string   `json:"denom"`
	Amount *big.Int `json:"amount"`
}

// Env carries the host-provided execution context for a single invocation.
type Env struct {
	ContractAddress string
	BlockTime       int64
}

// MessageInfo identifies the caller and any funds attached to the call.
type MessageInfo struct {
	Sender string
	Funds  []Coin
}

// Attribute is a key/value pair attached to a handler response.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response bundles the outbound host messages and attributes produced by a
// handler. The host executes the messages atomically with the handler's state
// writes.
type Response struct {
	Messages   []Msg
	Attributes []Attribute
}

// Reply carries the host's report of a sub-message outcome back into the
// contract. ContractAddress is set on successful instantiations; Err carries
// the failure reason otherwise.
type Reply struct {
	ID              uint64
	ContractAddress string
	Err             string
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	clone := *v
	return &clone
}

func int64Equal(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
