package raise

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"raisecore/core/events"
	"raisecore/core/types"
)

var (
	errNilState   = errors.New("raise engine: state not configured")
	errNilQuerier = errors.New("raise engine: querier not configured")
)

// Querier exposes the synchronous host queries a handler may issue mid-call:
// account attributes, bank balances, marker resolution and the state of a
// remote subscription contract. Every query is fallible and a failure aborts
// the current handler.
type Querier interface {
	AccountAttributes(addr string) ([]string, error)
	Balance(addr string, denom string) (*big.Int, error)
	MarkerAddress(denom string) (string, error)
	SubscriptionState(addr string) (*SubState, error)
}

type raiseEvent struct {
	evt *types.Event
}

func (e raiseEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e raiseEvent) Event() *types.Event { return e.evt }

// Engine wires the raise business logic with external state, host queries and
// event emission. Handlers stage every mutation in local copies and persist
// once on success, so a failing handler leaves state untouched.
type Engine struct {
	state   Storage
	querier Querier
	emitter events.Emitter
	nowFn   func() int64
}

// NewEngine creates a raise engine with a no-op emitter. Callers can override
// the emitter via SetEmitter.
func NewEngine() *Engine {
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state Storage) { e.state = state }

// SetQuerier configures the host querier used by the engine.
func (e *Engine) SetQuerier(querier Querier) { e.querier = querier }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source used when the host supplies no block
// time. Primarily intended for tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(raiseEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) blockTime(env Env) int64 {
	if env.BlockTime > 0 {
		return env.BlockTime
	}
	return e.now()
}

func (e *Engine) ready() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	if e.querier == nil {
		return errNilQuerier
	}
	return nil
}

// Instantiate validates and writes the raise config. Re-instantiation is
// forbidden.
func (e *Engine) Instantiate(env Env, cfg *Config) error {
	if e == nil || e.state == nil {
		return errNilState
	}
	sanitized, err := cfg.Sanitize()
	if err != nil {
		return err
	}
	exists, err := configExists(e.state)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("raise: already instantiated")
	}
	return saveConfig(e.state, sanitized)
}

// RaiseState reports the config plus the three subscription registries.
type RaiseState struct {
	Config                Config   `json:"config"`
	PendingSubscriptions  []string `json:"pending_subscriptions"`
	EligibleSubscriptions []string `json:"eligible_subscriptions"`
	AcceptedSubscriptions []string `json:"accepted_subscriptions"`
}

// RaiseState loads the config and the three subscription sets.
func (e *Engine) RaiseState() (*RaiseState, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	cfg, err := loadConfig(e.state)
	if err != nil {
		return nil, err
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
	return &RaiseState{
		Config:                *cfg,
		PendingSubscriptions:  pending,
		EligibleSubscriptions: eligible,
		AcceptedSubscriptions: accepted,
	}, nil
}
