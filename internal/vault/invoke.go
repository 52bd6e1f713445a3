package vault

import (
	solana "github.com/gagliardetto/solana-go"

	"github.com/bolander72/orange-refinery/internal/ledger"
)

// AccountRef is one caller-asserted account in an external call: address plus
// the signer/writable flags the caller claims for it.
type AccountRef struct {
	Key      solana.PublicKey
	Signer   bool
	Writable bool
}

// ExternalCall carries an opaque router instruction: target program, payload
// bytes, and the ordered account list, all forwarded verbatim.
type ExternalCall struct {
	Target   solana.PublicKey
	Payload  []byte
	Accounts []AccountRef
}

// Router executes an external call against the ledger. Implementations own
// the payload's meaning; the vault never does.
type Router interface {
	Execute(tx *ledger.Tx, call ExternalCall) error
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(tx *ledger.Tx, call ExternalCall) error

// Execute calls f.
func (f RouterFunc) Execute(tx *ledger.Tx, call ExternalCall) error { return f(tx, call) }

// buildCall assembles the router instruction from caller-supplied parts and
// attaches the derived authority as an implicit signer. Only the shape is
// validated; the payload stays opaque.
func buildCall(target solana.PublicKey, payload []byte, accounts []AccountRef, auth Authority) (ExternalCall, error) {
	if target.IsZero() {
		return ExternalCall{}, ErrSwapFailed
	}
	out := make([]AccountRef, 0, len(accounts)+1)
	attached := false
	for _, ref := range accounts {
		if ref.Key.Equals(auth.Key()) {
			ref.Signer = true
			attached = true
		}
		out = append(out, ref)
	}
	if !attached {
		out = append(out, AccountRef{Key: auth.Key(), Signer: true, Writable: true})
	}
	return ExternalCall{Target: target, Payload: payload, Accounts: out}, nil
}
