package raise

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reply correlation ids carried on the subscription instantiate sub-message.
const (
	ReplyPendingSubscription  uint64 = 0
	ReplyEligibleSubscription uint64 = 1
)

const subscriptionLabel = "establish subscription"

// subInstantiateMsg is the init payload handed to a freshly instantiated
// subscription contract. The admin field carries the raise's recovery admin;
// the contract-level admin is the raise itself.
type subInstantiateMsg struct {
	Admin             string  `json:"admin"`
	LP                string  `json:"lp"`
	CommitmentDenom   string  `json:"commitment_denom"`
	InvestmentDenom   string  `json:"investment_denom"`
	CapitalDenom      string  `json:"capital_denom"`
	CapitalPerShare   uint64  `json:"capital_per_share"`
	InitialCommitment *uint64 `json:"initial_commitment"`
}

// ProposeSubscription asks the host to instantiate a subscription contract for
// the sender. Eligibility is evaluated against the proposer's attributes and
// encoded in the sub-message reply id so the reply handler can route the new
// address into the right registry.
func (e *Engine) ProposeSubscription(env Env, info MessageInfo, initialCommitment *uint64) (*Response, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(e.state)
	if err != nil {
		return nil, err
	}
	eligible := true
	if len(cfg.AcceptableAccreditations) > 0 {
		attributes, err := e.querier.AccountAttributes(info.Sender)
		if err != nil {
			return nil, err
		}
		eligible = cfg.Accredited(attributes)
	}
	initMsg, err := json.Marshal(&subInstantiateMsg{
		Admin:             cfg.RecoveryAdmin,
		LP:                info.Sender,
		CommitmentDenom:   cfg.CommitmentDenom,
		InvestmentDenom:   cfg.InvestmentDenom,
		CapitalDenom:      cfg.CapitalDenom,
		CapitalPerShare:   cfg.CapitalPerShare,
		InitialCommitment: initialCommitment,
	})
	if err != nil {
		return nil, err
	}
	replyID := ReplyPendingSubscription
	if eligible {
		replyID = ReplyEligibleSubscription
	}
	e.emit(NewSubscriptionProposedEvent(info.Sender, eligible))
	return &Response{
		Messages: []Msg{MsgInstantiateContract{
			CodeID:  cfg.SubscriptionCodeID,
			Admin:   env.ContractAddress,
			Label:   subscriptionLabel,
			InitMsg: initMsg,
			ReplyID: replyID,
		}},
		Attributes: []Attribute{{Key: "eligible", Value: strconv.FormatBool(eligible)}},
	}, nil
}

// HandleReply registers a freshly instantiated subscription in the pending or
// eligible set according to the reply id. A failed sub-message propagates so
// the host rolls the proposal back.
func (e *Engine) HandleReply(reply Reply) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if reply.Err != "" {
		return fmt.Errorf("raise: subscription instantiation failed: %s", reply.Err)
	}
	subscription := strings.TrimSpace(reply.ContractAddress)
	if subscription == "" {
		return fmt.Errorf("raise: reply missing instantiated contract address")
	}
	var key []byte
	switch reply.ID {
	case ReplyEligibleSubscription:
		key = eligibleSubsKey
	case ReplyPendingSubscription:
		key = pendingSubsKey
	default:
		return fmt.Errorf("raise: unknown reply id %d", reply.ID)
	}
	set, err := loadAddressSet(e.state, key)
	if err != nil {
		return err
	}
	if err := saveAddressSet(e.state, key, set.add(subscription)); err != nil {
		return err
	}
	e.emit(NewSubscriptionRegisteredEvent(subscription, reply.ID == ReplyEligibleSubscription))
	return nil
}

// CloseSubscriptions removes subscriptions from the registry. Pending and
// eligible subscriptions close unconditionally; accepted subscriptions close
// only once their commitment-denom balance is zero, erasing any outstanding
// asset-exchange queue. The batch commits entirely or not at all.
func (e *Engine) CloseSubscriptions(info MessageInfo, subscriptions []string) (*Response, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(e.state)
	if err != nil {
		return nil, err
	}
	if info.Sender != cfg.GP {
		return nil, fmt.Errorf("raise: only gp can close subscriptions")
	}
	pending, err := loadAddressSet(e.state, pendingSubsKey)
	if err != nil {
		return nil, err
	}
	eligible, err := loadAddressSet(e.state, eligibleSubsKey)
	if err != nil {
		return nil, err
	}
	accepted, err := loadAddressSet(e.state, acceptedSubsKey)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(subscriptions))
	deduped := make([]string, 0, len(subscriptions))
	for _, subscription := range subscriptions {
		subscription = strings.TrimSpace(subscription)
		if _, ok := seen[subscription]; ok {
			continue
		}
		seen[subscription] = struct{}{}
		deduped = append(deduped, subscription)
	}
	var erasedQueues []string
	for _, subscription := range deduped {
		var removed bool
		if pending, removed = pending.remove(subscription); removed {
			continue
		}
		if eligible, removed = eligible.remove(subscription); removed {
			continue
		}
		if !accepted.contains(subscription) {
			return nil, fmt.Errorf("raise: no subscription pending or accepted to close")
		}
		remaining, err := e.querier.Balance(subscription, cfg.CommitmentDenom)
		if err != nil {
			return nil, err
		}
		if remaining == nil || remaining.Sign() != 0 {
			return nil, fmt.Errorf("raise: sub still has remaining commitment")
		}
		accepted, _ = accepted.remove(subscription)
		erasedQueues = append(erasedQueues, subscription)
	}
	if err := saveAddressSet(e.state, pendingSubsKey, pending); err != nil {
		return nil, err
	}
	if err := saveAddressSet(e.state, eligibleSubsKey, eligible); err != nil {
		return nil, err
	}
	if err := saveAddressSet(e.state, acceptedSubsKey, accepted); err != nil {
		return nil, err
	}
	for _, subscription := range erasedQueues {
		if err := e.state.KVDelete(assetExchangeKey(subscription)); err != nil {
			return nil, err
		}
	}
	for _, subscription := range deduped {
		e.emit(NewSubscriptionClosedEvent(subscription))
	}
	return &Response{}, nil
}

// AcceptSubscriptions admits pending or eligible subscriptions. A pending
// subscription is re-checked against the accreditation gate using the
// attributes of the lp the subscription contract reports. Each admission
// appends one inbound commitment-shares exchange to the subscription's queue.
func (e *Engine) AcceptSubscriptions(info MessageInfo, accepts []AcceptSubscription) (*Response, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(e.state)
	if err != nil {
		return nil, err
	}
	if info.Sender != cfg.GP {
		return nil, fmt.Errorf("raise: only gp can accept subscriptions")
	}
	pending, err := loadAddressSet(e.state, pendingSubsKey)
	if err != nil {
		return nil, err
	}
	eligible, err := loadAddressSet(e.state, eligibleSubsKey)
	if err != nil {
		return nil, err
	}
	accepted, err := loadAddressSet(e.state, acceptedSubsKey)
	if err != nil {
		return nil, err
	}
	queues := make(map[string][]*AssetExchange, len(accepts))
	for _, accept := range accepts {
		subscription := strings.TrimSpace(accept.Subscription)
		if !cfg.EvenlyDivisible(accept.CommitmentInCapital) {
			return nil, fmt.Errorf("raise: accept amount must be evenly divisible by capital per share")
		}
		var removed bool
		if eligible, removed = eligible.remove(subscription); !removed {
			if !pending.contains(subscription) {
				return nil, fmt.Errorf("raise: subscription must either be pending or eligible")
			}
			if len(cfg.AcceptableAccreditations) > 0 {
				subState, err := e.querier.SubscriptionState(subscription)
				if err != nil {
					return nil, err
				}
				attributes, err := e.querier.AccountAttributes(subState.LP)
				if err != nil {
					return nil, err
				}
				if !cfg.Accredited(attributes) {
					return nil, fmt.Errorf("raise: subscription owner must have one of acceptable accreditations")
				}
			}
			pending, _ = pending.remove(subscription)
		}
		accepted = accepted.add(subscription)
		queue, ok := queues[subscription]
		if !ok {
			if queue, err = loadAssetExchanges(e.state, subscription); err != nil {
				return nil, err
			}
		}
		shares := cfg.CapitalToShares(accept.CommitmentInCapital)
		if shares > math.MaxInt64 {
			return nil, fmt.Errorf("raise: commitment in shares exceeds representable amount")
		}
		commitment := int64(shares)
		queues[subscription] = append(queue, &AssetExchange{CommitmentInShares: &commitment})
	}
	if err := saveAddressSet(e.state, pendingSubsKey, pending); err != nil {
		return nil, err
	}
	if err := saveAddressSet(e.state, eligibleSubsKey, eligible); err != nil {
		return nil, err
	}
	if err := saveAddressSet(e.state, acceptedSubsKey, accepted); err != nil {
		return nil, err
	}
	for subscription, queue := range queues {
		if err := saveAssetExchanges(e.state, subscription, queue); err != nil {
			return nil, err
		}
	}
	for _, accept := range accepts {
		e.emit(NewSubscriptionAcceptedEvent(strings.TrimSpace(accept.Subscription), accept.CommitmentInCapital))
	}
	return &Response{}, nil
}
