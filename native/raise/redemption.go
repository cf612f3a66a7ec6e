package raise

import (
	"fmt"
	"math/big"
	"strings"
)

// IssueRedemptions appends records onto the outstanding-redemptions list,
// initialising it when absent. The claim path validates the subscription; no
// registry check happens here.
func (e *Engine) IssueRedemptions(info MessageInfo, redemptions []*Redemption) (*Response, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(e.state)
	if err != nil {
		return nil, err
	}
	if info.Sender != cfg.GP {
		return nil, fmt.Errorf("raise: only gp can issue redemptions")
	}
	outstanding, _, err := loadRedemptions(e.state)
	if err != nil {
		return nil, err
	}
	for _, redemption := range redemptions {
		if redemption == nil {
			return nil, fmt.Errorf("raise: nil redemption")
		}
		outstanding = append(outstanding, redemption.Clone())
	}
	if err := saveRedemptions(e.state, outstanding); err != nil {
		return nil, err
	}
	e.emit(NewRedemptionsIssuedEvent(len(redemptions)))
	return &Response{}, nil
}

// CancelRedemptions removes outstanding records matched by their
// (subscription, asset, capital) triple. Any miss fails the whole batch.
func (e *Engine) CancelRedemptions(info MessageInfo, redemptions []*Redemption) (*Response, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(e.state)
	if err != nil {
		return nil, err
	}
	if info.Sender != cfg.GP {
		return nil, fmt.Errorf("raise: only gp can cancel redemptions")
	}
	outstanding, exists, err := loadRedemptions(e.state)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("raise: no outstanding redemptions to cancel")
	}
	for _, redemption := range redemptions {
		if redemption == nil {
			return nil, fmt.Errorf("raise: nil redemption")
		}
		index := -1
		for i, outstanding := range outstanding {
			if outstanding.Matches(redemption.Subscription, redemption.Asset, redemption.Capital) {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, fmt.Errorf("raise: no redemption found")
		}
		outstanding = append(outstanding[:index], outstanding[index+1:]...)
	}
	if err := saveRedemptions(e.state, outstanding); err != nil {
		return nil, err
	}
	e.emit(NewRedemptionsCancelledEvent(len(redemptions)))
	return &Response{}, nil
}

// ClaimRedemption settles an outstanding record for the calling subscription.
// The caller surrenders exactly the record's asset amount in investment denom
// and receives the record's capital at the destination address. The
// surrendered tokens are parked on the marker and burned.
func (e *Engine) ClaimRedemption(env Env, info MessageInfo, asset, capital uint64, to string, memo *string) (*Response, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(e.state)
	if err != nil {
		return nil, err
	}
	subscription := strings.TrimSpace(info.Sender)
	outstanding, exists, err := loadRedemptions(e.state)
	if err != nil {
		return nil, err
	}
	index := -1
	if exists {
		for i, redemption := range outstanding {
			if redemption.Matches(subscription, asset, capital) {
				index = i
				break
			}
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("raise: no redemption for subscription")
	}
	record := outstanding[index]
	outstanding = append(outstanding[:index], outstanding[index+1:]...)
	if record.AvailableEpochSeconds != nil && *record.AvailableEpochSeconds > e.blockTime(env) {
		return nil, fmt.Errorf("raise: redemption not yet available")
	}
	if len(info.Funds) == 0 {
		return nil, fmt.Errorf("raise: asset required for redemption")
	}
	if len(info.Funds) > 1 {
		return nil, fmt.Errorf("raise: only asset should be sent for redemption")
	}
	sent := info.Funds[0]
	if sent.Denom != cfg.InvestmentDenom {
		return nil, fmt.Errorf("raise: payment should be made in investment denom")
	}
	if sent.Amount == nil || sent.Amount.Cmp(new(big.Int).SetUint64(record.Asset)) != 0 {
		return nil, fmt.Errorf("raise: sent funds should match specified asset")
	}
	// The investment marker shares its base account with the commitment
	// marker, so resolution goes through the commitment denom.
	marker, err := e.querier.MarkerAddress(cfg.CommitmentDenom)
	if err != nil {
		return nil, err
	}
	if err := saveRedemptions(e.state, outstanding); err != nil {
		return nil, err
	}
	assetAmount := new(big.Int).SetUint64(record.Asset)
	msgs := []Msg{
		MsgBankSend{
			From:   env.ContractAddress,
			To:     strings.TrimSpace(to),
			Denom:  cfg.CapitalDenom,
			Amount: new(big.Int).SetUint64(record.Capital),
		},
		MsgBankSend{
			From:   env.ContractAddress,
			To:     marker,
			Denom:  cfg.InvestmentDenom,
			Amount: assetAmount,
		},
		MsgMarkerBurn{Denom: cfg.InvestmentDenom, Amount: assetAmount},
	}
	var attributes []Attribute
	if memo != nil {
		attributes = append(attributes, Attribute{Key: "memo", Value: *memo})
	}
	e.emit(NewRedemptionClaimedEvent(subscription, record.Asset, record.Capital))
	return &Response{Messages: msgs, Attributes: attributes}, nil
}
