package sdk

import (
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// Env is the per call environment handed in by the host: who calls, how much native
// currency rides along, the ledger time and a correlation id.
type Env struct {
	Sender    Address
	Value     *uint256.Int
	Timestamp int64
	TxID      string
}

// NewEnv builds an env without attached value and a fresh tx id.
// Example payload: sdk.NewEnv(alice, 1700000000)
func NewEnv(sender Address, timestamp int64) Env {
	return Env{
		Sender:    sender,
		Value:     Zero(),
		Timestamp: timestamp,
		TxID:      uuid.NewString(),
	}
}

// WithValue returns a copy of the env carrying v native currency.
// Example payload: sdk.NewEnv(alice, now).WithValue(sdk.Ether(1))
func (e Env) WithValue(v *uint256.Int) Env {
	e.Value = v.Clone()
	return e
}

// WithSender swaps the caller, used for calls the platform makes on its own behalf.
func (e Env) WithSender(a Address) Env {
	e.Sender = a
	return e
}

// Normalize fills the optional parts so the core never sees a nil value or blank id.
func (e Env) Normalize() Env {
	if e.Value == nil {
		e.Value = Zero()
	}
	if e.TxID == "" {
		e.TxID = uuid.NewString()
	}
	return e
}

// Host is what a recipient action gets to see while it runs inside a finishing call.
type Host interface {
	Env() Env
	Ledger() *Ledger
}

// Recipient is the target of a governance proposal. Receive runs inside the finishing
// call, a returned error aborts that call as a whole.
type Recipient interface {
	Receive(h Host, payload []byte) error
}

// RecipientFunc adapts a plain func to Recipient.
type RecipientFunc func(h Host, payload []byte) error

func (f RecipientFunc) Receive(h Host, payload []byte) error {
	return f(h, payload)
}
