package raise

import (
	"strconv"

	"raisecore/core/types"
)

const (
	EventTypeSubscriptionProposed   = "raise.subscription.proposed"
	EventTypeSubscriptionRegistered = "raise.subscription.registered"
	EventTypeSubscriptionAccepted   = "raise.subscription.accepted"
	EventTypeSubscriptionClosed     = "raise.subscription.closed"
	EventTypeExchangesIssued        = "raise.exchange.issued"
	EventTypeExchangesCancelled     = "raise.exchange.cancelled"
	EventTypeExchangesSettled       = "raise.exchange.settled"
	EventTypeRedemptionsIssued      = "raise.redemption.issued"
	EventTypeRedemptionsCancelled   = "raise.redemption.cancelled"
	EventTypeRedemptionClaimed      = "raise.redemption.claimed"
)

// NewSubscriptionProposedEvent returns the canonical payload emitted when an
// lp proposes a subscription.
func NewSubscriptionProposedEvent(lp string, eligible bool) *types.Event {
	return &types.Event{Type: EventTypeSubscriptionProposed, Attributes: map[string]string{
		"lp":       lp,
		"eligible": strconv.FormatBool(eligible),
	}}
}

// NewSubscriptionRegisteredEvent returns the payload emitted when the reply
// handler records a freshly instantiated subscription.
func NewSubscriptionRegisteredEvent(subscription string, eligible bool) *types.Event {
	return &types.Event{Type: EventTypeSubscriptionRegistered, Attributes: map[string]string{
		"subscription": subscription,
		"eligible":     strconv.FormatBool(eligible),
	}}
}

// NewSubscriptionAcceptedEvent returns the payload emitted when the gp admits
// a subscription.
func NewSubscriptionAcceptedEvent(subscription string, commitmentInCapital uint64) *types.Event {
	return &types.Event{Type: EventTypeSubscriptionAccepted, Attributes: map[string]string{
		"subscription":          subscription,
		"commitment_in_capital": strconv.FormatUint(commitmentInCapital, 10),
	}}
}

// NewSubscriptionClosedEvent returns the payload emitted when a subscription
// leaves the registry.
func NewSubscriptionClosedEvent(subscription string) *types.Event {
	return &types.Event{Type: EventTypeSubscriptionClosed, Attributes: map[string]string{
		"subscription": subscription,
	}}
}

// NewExchangesIssuedEvent returns the payload emitted when exchanges are
// queued for a subscription.
func NewExchangesIssuedEvent(subscription string, count int) *types.Event {
	return newExchangeEvent(EventTypeExchangesIssued, subscription, count)
}

// NewExchangesCancelledEvent returns the payload emitted when queued
// exchanges are cancelled.
func NewExchangesCancelledEvent(subscription string, count int) *types.Event {
	return newExchangeEvent(EventTypeExchangesCancelled, subscription, count)
}

// NewExchangesSettledEvent returns the payload emitted when a subscription
// settles queued exchanges.
func NewExchangesSettledEvent(subscription string, count int) *types.Event {
	return newExchangeEvent(EventTypeExchangesSettled, subscription, count)
}

// NewRedemptionsIssuedEvent returns the payload emitted when the gp issues
// redemption records.
func NewRedemptionsIssuedEvent(count int) *types.Event {
	return &types.Event{Type: EventTypeRedemptionsIssued, Attributes: map[string]string{
		"count": strconv.Itoa(count),
	}}
}

// NewRedemptionsCancelledEvent returns the payload emitted when the gp
// cancels redemption records.
func NewRedemptionsCancelledEvent(count int) *types.Event {
	return &types.Event{Type: EventTypeRedemptionsCancelled, Attributes: map[string]string{
		"count": strconv.Itoa(count),
	}}
}

// NewRedemptionClaimedEvent returns the payload emitted when a subscription
// claims a redemption.
func NewRedemptionClaimedEvent(subscription string, asset, capital uint64) *types.Event {
	return &types.Event{Type: EventTypeRedemptionClaimed, Attributes: map[string]string{
		"subscription": subscription,
		"asset":        strconv.FormatUint(asset, 10),
		"capital":      strconv.FormatUint(capital, 10),
	}}
}

func newExchangeEvent(eventType, subscription string, count int) *types.Event {
	return &types.Event{Type: eventType, Attributes: map[string]string{
		"subscription": subscription,
		"count":        strconv.Itoa(count),
	}}
}
