package raise

import (
	"encoding/json"
	"math/big"
)

// Msg is an outbound host operation attached to a handler response. The host
// executes every message after the handler returns; failure of any message
// rolls the invocation back.
type Msg interface {
	MsgType() string
}

const (
	MsgTypeBankSend            = "bank.send"
	MsgTypeMarkerMint          = "marker.mint"
	MsgTypeMarkerBurn          = "marker.burn"
	MsgTypeMarkerTransfer      = "marker.transfer"
	MsgTypeInstantiateContract = "wasm.instantiate"
)

// MsgBankSend moves capital-denom funds between accounts.
type MsgBankSend struct {
	From   string
	To     string
	Denom  string
	Amount *big.Int
}

func (MsgBankSend) MsgType() string { return MsgTypeBankSend }

// MsgMarkerMint increases the supply held by a denom's marker.
type MsgMarkerMint struct {
	Denom  string
	Amount *big.Int
}

func (MsgMarkerMint) MsgType() string { return MsgTypeMarkerMint }

// MsgMarkerBurn destroys supply held by a denom's marker.
type MsgMarkerBurn struct {
	Denom  string
	Amount *big.Int
}

func (MsgMarkerBurn) MsgType() string { return MsgTypeMarkerBurn }

// MsgMarkerTransfer moves marker-controlled funds between accounts.
type MsgMarkerTransfer struct {
	Denom  string
	Amount *big.Int
	From   string
	To     string
}

func (MsgMarkerTransfer) MsgType() string { return MsgTypeMarkerTransfer }

// MsgInstantiateContract asks the host to instantiate a contract and to report
// the outcome through Reply with the given correlation id.
type MsgInstantiateContract struct {
	CodeID  uint64
	Admin   string
	Label   string
	InitMsg json.RawMessage
	ReplyID uint64
}

func (MsgInstantiateContract) MsgType() string { return MsgTypeInstantiateContract }
