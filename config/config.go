package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"raisecore/native/raise"
)

// RaiseParams mirrors the raise instantiate payload for deploy tooling. A
// params file is validated locally before the envelope is submitted to the
// host.
type RaiseParams struct {
	GP                       string   `toml:"GP"`
	RecoveryAdmin            string   `toml:"RecoveryAdmin"`
	SubscriptionCodeID       uint64   `toml:"SubscriptionCodeID"`
	CapitalDenom             string   `toml:"CapitalDenom"`
	CommitmentDenom          string   `toml:"CommitmentDenom"`
	InvestmentDenom          string   `toml:"InvestmentDenom"`
	CapitalPerShare          uint64   `toml:"CapitalPerShare"`
	AcceptableAccreditations []string `toml:"AcceptableAccreditations"`
}

// Load reads and validates a raise params file.
func Load(path string) (*RaiseParams, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	params := &RaiseParams{}
	meta, err := toml.DecodeFile(path, params)
	if err != nil {
		return nil, err
	}
	for _, undecoded := range meta.Undecoded() {
		return nil, fmt.Errorf("config file %s has unknown field %s", path, undecoded.String())
	}
	if _, err := params.Config(); err != nil {
		return nil, err
	}
	return params, nil
}

// Config converts the params into a sanitized engine config.
func (p *RaiseParams) Config() (*raise.Config, error) {
	cfg := &raise.Config{
		GP:                       p.GP,
		RecoveryAdmin:            p.RecoveryAdmin,
		SubscriptionCodeID:       p.SubscriptionCodeID,
		CapitalDenom:             p.CapitalDenom,
		CommitmentDenom:          p.CommitmentDenom,
		InvestmentDenom:          p.InvestmentDenom,
		CapitalPerShare:          p.CapitalPerShare,
		AcceptableAccreditations: p.AcceptableAccreditations,
	}
	return cfg.Sanitize()
}

// InstantiateMsg converts the params into the JSON instantiate payload.
func (p *RaiseParams) InstantiateMsg() (*raise.InstantiateMsg, error) {
	cfg, err := p.Config()
	if err != nil {
		return nil, err
	}
	return &raise.InstantiateMsg{
		GP:                       cfg.GP,
		RecoveryAdmin:            cfg.RecoveryAdmin,
		SubscriptionCodeID:       cfg.SubscriptionCodeID,
		CapitalDenom:             cfg.CapitalDenom,
		CommitmentDenom:          cfg.CommitmentDenom,
		InvestmentDenom:          cfg.InvestmentDenom,
		CapitalPerShare:          cfg.CapitalPerShare,
		AcceptableAccreditations: cfg.AcceptableAccreditations,
	}, nil
}
