package raise

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// InstantiateMsg is the JSON payload that configures a raise at creation.
type InstantiateMsg struct {
	GP                       string   `json:"gp"`
	RecoveryAdmin            string   `json:"recovery_admin"`
	SubscriptionCodeID       uint64   `json:"subscription_code_id"`
	CapitalDenom             string   `json:"capital_denom"`
	CommitmentDenom          string   `json:"commitment_denom"`
	InvestmentDenom          string   `json:"investment_denom"`
	CapitalPerShare          uint64   `json:"capital_per_share"`
	AcceptableAccreditations []string `json:"acceptable_accreditations"`
}

// Config converts the payload into the engine's config type.
func (m *InstantiateMsg) Config() *Config {
	return &Config{
		GP:                       m.GP,
		RecoveryAdmin:            m.RecoveryAdmin,
		SubscriptionCodeID:       m.SubscriptionCodeID,
		CapitalDenom:             m.CapitalDenom,
		CommitmentDenom:          m.CommitmentDenom,
		InvestmentDenom:          m.InvestmentDenom,
		CapitalPerShare:          m.CapitalPerShare,
		AcceptableAccreditations: m.AcceptableAccreditations,
	}
}

// ExecuteMsg is the tagged execute envelope: exactly one variant must be set.
type ExecuteMsg struct {
	ProposeSubscription   *ProposeSubscriptionMsg   `json:"propose_subscription,omitempty"`
	CloseSubscriptions    *CloseSubscriptionsMsg    `json:"close_subscriptions,omitempty"`
	AcceptSubscriptions   *AcceptSubscriptionsMsg   `json:"accept_subscriptions,omitempty"`
	IssueAssetExchanges   *IssueAssetExchangesMsg   `json:"issue_asset_exchanges,omitempty"`
	CancelAssetExchanges  *CancelAssetExchangesMsg  `json:"cancel_asset_exchanges,omitempty"`
	CompleteAssetExchange *CompleteAssetExchangeMsg `json:"complete_asset_exchange,omitempty"`
	IssueRedemptions      *RedemptionsMsg           `json:"issue_redemptions,omitempty"`
	CancelRedemptions     *RedemptionsMsg           `json:"cancel_redemptions,omitempty"`
	ClaimRedemption       *ClaimRedemptionMsg       `json:"claim_redemption,omitempty"`
}

type ProposeSubscriptionMsg struct {
	InitialCommitment *uint64 `json:"initial_commitment"`
}

type CloseSubscriptionsMsg struct {
	Subscriptions []string `json:"subscriptions"`
}

type AcceptSubscriptionsMsg struct {
	Subscriptions []AcceptSubscription `json:"subscriptions"`
}

type IssueAssetExchangesMsg struct {
	Subscription string           `json:"subscription"`
	Exchanges    []*AssetExchange `json:"exchanges"`
}

type CancelAssetExchangesMsg struct {
	Subscription string           `json:"subscription"`
	Exchanges    []*AssetExchange `json:"exchanges"`
}

type CompleteAssetExchangeMsg struct {
	Exchanges []*AssetExchange `json:"exchanges"`
}

type RedemptionsMsg struct {
	Redemptions []*Redemption `json:"redemptions"`
}

type ClaimRedemptionMsg struct {
	Asset   uint64  `json:"asset"`
	Capital uint64  `json:"capital"`
	To      string  `json:"to"`
	Memo    *string `json:"memo,omitempty"`
}

// QueryMsg is the tagged query envelope.
type QueryMsg struct {
	GetState *GetStateMsg `json:"get_state,omitempty"`
}

type GetStateMsg struct{}

// Contract decodes host envelopes and routes them into the engine. It is the
// single entry surface the host invokes: Instantiate, Execute, Query and
// Reply.
type Contract struct {
	engine *Engine
}

// NewContract wraps the supplied engine.
func NewContract(engine *Engine) *Contract {
	return &Contract{engine: engine}
}

// Engine exposes the wrapped engine, primarily for wiring emitters in hosts.
func (c *Contract) Engine() *Engine { return c.engine }

func decodeStrict(raw []byte, out interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("raise: malformed message: %w", err)
	}
	return nil
}

// Instantiate decodes and applies the instantiate payload.
func (c *Contract) Instantiate(env Env, info MessageInfo, raw []byte) (*Response, error) {
	var msg InstantiateMsg
	if err := decodeStrict(raw, &msg); err != nil {
		return nil, err
	}
	if err := c.engine.Instantiate(env, msg.Config()); err != nil {
		return nil, err
	}
	return &Response{}, nil
}

// Execute decodes the tagged envelope and dispatches to the matching handler.
func (c *Contract) Execute(env Env, info MessageInfo, raw []byte) (*Response, error) {
	var msg ExecuteMsg
	if err := decodeStrict(raw, &msg); err != nil {
		return nil, err
	}
	variants := 0
	for _, set := range []bool{
		msg.ProposeSubscription != nil,
		msg.CloseSubscriptions != nil,
		msg.AcceptSubscriptions != nil,
		msg.IssueAssetExchanges != nil,
		msg.CancelAssetExchanges != nil,
		msg.CompleteAssetExchange != nil,
		msg.IssueRedemptions != nil,
		msg.CancelRedemptions != nil,
		msg.ClaimRedemption != nil,
	} {
		if set {
			variants++
		}
	}
	if variants != 1 {
		return nil, fmt.Errorf("raise: exactly one execute variant must be set")
	}
	switch {
	case msg.ProposeSubscription != nil:
		return c.engine.ProposeSubscription(env, info, msg.ProposeSubscription.InitialCommitment)
	case msg.CloseSubscriptions != nil:
		return c.engine.CloseSubscriptions(info, msg.CloseSubscriptions.Subscriptions)
	case msg.AcceptSubscriptions != nil:
		return c.engine.AcceptSubscriptions(info, msg.AcceptSubscriptions.Subscriptions)
	case msg.IssueAssetExchanges != nil:
		return c.engine.IssueAssetExchanges(info, msg.IssueAssetExchanges.Subscription, msg.IssueAssetExchanges.Exchanges)
	case msg.CancelAssetExchanges != nil:
		return c.engine.CancelAssetExchanges(info, msg.CancelAssetExchanges.Subscription, msg.CancelAssetExchanges.Exchanges)
	case msg.CompleteAssetExchange != nil:
		return c.engine.CompleteAssetExchange(env, info, msg.CompleteAssetExchange.Exchanges)
	case msg.IssueRedemptions != nil:
		return c.engine.IssueRedemptions(info, msg.IssueRedemptions.Redemptions)
	case msg.CancelRedemptions != nil:
		return c.engine.CancelRedemptions(info, msg.CancelRedemptions.Redemptions)
	default:
		return c.engine.ClaimRedemption(env, info, msg.ClaimRedemption.Asset, msg.ClaimRedemption.Capital, msg.ClaimRedemption.To, msg.ClaimRedemption.Memo)
	}
}

// Query decodes the tagged query envelope and returns the JSON-encoded result.
func (c *Contract) Query(env Env, raw []byte) ([]byte, error) {
	var msg QueryMsg
	if err := decodeStrict(raw, &msg); err != nil {
		return nil, err
	}
	if msg.GetState == nil {
		return nil, fmt.Errorf("raise: unknown query")
	}
	state, err := c.engine.RaiseState()
	if err != nil {
		return nil, err
	}
	return json.Marshal(state)
}

// Reply routes a sub-message outcome into the engine.
func (c *Contract) Reply(env Env, reply Reply) (*Response, error) {
	if err := c.engine.HandleReply(reply); err != nil {
		return nil, err
	}
	return &Response{}, nil
}
