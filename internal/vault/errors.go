package vault

import "errors"

var (
	// ErrUnauthorized covers owner mismatch and any authority re-derivation failure.
	ErrUnauthorized = errors.New("unauthorized: caller is not the vault owner")
	// ErrInsufficientFunds signals a checked-subtraction underflow in fee math.
	ErrInsufficientFunds = errors.New("insufficient funds in vault")
	// ErrSwapFailed covers fee-math overflow and invalid settlement deltas.
	ErrSwapFailed = errors.New("swap failed")
)
