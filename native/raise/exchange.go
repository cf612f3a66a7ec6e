package raise

import (
	"fmt"
	"math/big"
	"strings"
)

// IssueAssetExchanges appends exchanges onto an accepted subscription's queue,
// creating it when absent.
func (e *Engine) IssueAssetExchanges(info MessageInfo, subscription string, exchanges []*AssetExchange) (*Response, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(e.state)
	if err != nil {
		return nil, err
	}
	if info.Sender != cfg.GP {
		return nil, fmt.Errorf("raise: only gp can issue asset exchanges")
	}
	subscription = strings.TrimSpace(subscription)
	accepted, err := loadAddressSet(e.state, acceptedSubsKey)
	if err != nil {
		return nil, err
	}
	if !accepted.contains(subscription) {
		return nil, fmt.Errorf("raise: subscription must be accepted to issue asset exchanges")
	}
	queue, err := loadAssetExchanges(e.state, subscription)
	if err != nil {
		return nil, err
	}
	for _, exchange := range exchanges {
		if exchange == nil {
			return nil, fmt.Errorf("raise: nil asset exchange")
		}
		queue = append(queue, exchange.Clone())
	}
	if err := saveAssetExchanges(e.state, subscription, queue); err != nil {
		return nil, err
	}
	e.emit(NewExchangesIssuedEvent(subscription, len(exchanges)))
	return &Response{}, nil
}

// CancelAssetExchanges removes queued exchanges by exact equality on all four
// fields. Any entry without a match fails the whole batch.
func (e *Engine) CancelAssetExchanges(info MessageInfo, subscription string, exchanges []*AssetExchange) (*Response, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(e.state)
	if err != nil {
		return nil, err
	}
	if info.Sender != cfg.GP {
		return nil, fmt.Errorf("raise: only gp can cancel asset exchanges")
	}
	subscription = strings.TrimSpace(subscription)
	queue, err := loadAssetExchanges(e.state, subscription)
	if err != nil {
		return nil, err
	}
	for _, exchange := range exchanges {
		var found bool
		if queue, found = removeFirstMatch(queue, exchange); !found {
			return nil, fmt.Errorf("raise: no asset exchange found to cancel")
		}
	}
	if err := saveAssetExchanges(e.state, subscription, queue); err != nil {
		return nil, err
	}
	e.emit(NewExchangesCancelledEvent(subscription, len(exchanges)))
	return &Response{}, nil
}

// CompleteAssetExchange settles queued exchanges on behalf of the calling
// subscription. Every entry is matched and time-checked before any message is
// synthesised, so a failing entry aborts the whole call.
func (e *Engine) CompleteAssetExchange(env Env, info MessageInfo, exchanges []*AssetExchange) (*Response, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(e.state)
	if err != nil {
		return nil, err
	}
	subscription := strings.TrimSpace(info.Sender)
	queue, err := loadAssetExchanges(e.state, subscription)
	if err != nil {
		return nil, err
	}
	now := e.blockTime(env)
	var msgs []Msg
	for _, exchange := range exchanges {
		if exchange == nil {
			return nil, fmt.Errorf("raise: nil asset exchange")
		}
		if exchange.Date != nil && *exchange.Date > now {
			return nil, fmt.Errorf("raise: asset exchange not yet available")
		}
		var found bool
		if queue, found = removeFirstMatch(queue, exchange); !found {
			return nil, fmt.Errorf("raise: no asset exchange found to complete")
		}
		bundle, err := e.exchangeMessages(cfg, subscription, exchange)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, bundle...)
	}
	if err := saveAssetExchanges(e.state, subscription, queue); err != nil {
		return nil, err
	}
	e.emit(NewExchangesSettledEvent(subscription, len(exchanges)))
	return &Response{Messages: msgs}, nil
}

func removeFirstMatch(queue []*AssetExchange, target *AssetExchange) ([]*AssetExchange, bool) {
	for i, entry := range queue {
		if entry.Equal(target) {
			return append(queue[:i], queue[i+1:]...), true
		}
	}
	return queue, false
}

// exchangeMessages synthesises the outbound bundle for one settled exchange.
// Signs drive direction: positive values flow to the subscription, negative
// values flow back to the raise. Zero-valued fields emit nothing.
func (e *Engine) exchangeMessages(cfg *Config, subscription string, exchange *AssetExchange) ([]Msg, error) {
	var msgs []Msg
	if exchange.CommitmentInShares != nil {
		movement, err := e.markerMovement(subscription, cfg.CommitmentDenom, *exchange.CommitmentInShares)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, movement...)
	}
	if exchange.Investment != nil {
		movement, err := e.markerMovement(subscription, cfg.InvestmentDenom, *exchange.Investment)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, movement...)
	}
	if exchange.Capital != nil {
		switch value := *exchange.Capital; {
		case value > 0:
			msgs = append(msgs, MsgBankSend{
				From:   cfg.GP,
				To:     subscription,
				Denom:  cfg.CapitalDenom,
				Amount: big.NewInt(value),
			})
		case value < 0:
			msgs = append(msgs, MsgBankSend{
				From:   subscription,
				To:     cfg.GP,
				Denom:  cfg.CapitalDenom,
				Amount: big.NewInt(-value),
			})
		}
	}
	return msgs, nil
}

// markerMovement emits mint+deliver for inflows and collect+burn for outflows
// of a marker-backed denom.
func (e *Engine) markerMovement(subscription, denom string, value int64) ([]Msg, error) {
	if value == 0 {
		return nil, nil
	}
	marker, err := e.querier.MarkerAddress(denom)
	if err != nil {
		return nil, err
	}
	if value > 0 {
		amount := big.NewInt(value)
		return []Msg{
			MsgMarkerMint{Denom: denom, Amount: amount},
			MsgMarkerTransfer{Denom: denom, Amount: amount, From: marker, To: subscription},
		}, nil
	}
	amount := big.NewInt(-value)
	return []Msg{
		MsgMarkerTransfer{Denom: denom, Amount: amount, From: subscription, To: marker},
		MsgMarkerBurn{Denom: denom, Amount: amount},
	}, nil
}
