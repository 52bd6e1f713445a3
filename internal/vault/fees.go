package vault

import "math/bits"

// SplitFee computes the basis-point fee taken off amountIn and the remainder
// handed to the router: fee = floor(amountIn * bps / 10000). Multiplication is
// overflow-checked; the subtraction can only underflow when bps exceeds 10000.
func SplitFee(amountIn, bps uint64) (fee, remainder uint64, err error) {
	hi, lo := bits.Mul64(amountIn, bps)
	if hi != 0 {
		return 0, 0, ErrSwapFailed
	}
	fee = lo / 10_000
	remainder, borrow := bits.Sub64(amountIn, fee, 0)
	if borrow != 0 {
		return 0, 0, ErrInsufficientFunds
	}
	return fee, remainder, nil
}

// SplitProceeds divides total into the admin share and the part left in the
// vault: adminShare = floor(total * adminPct / 100). The two shares always sum
// to total exactly.
func SplitProceeds(total, adminPct uint64) (adminShare, vaultShare uint64, err error) {
	hi, lo := bits.Mul64(total, adminPct)
	if hi != 0 {
		return 0, 0, ErrSwapFailed
	}
	adminShare = lo / 100
	vaultShare, borrow := bits.Sub64(total, adminShare, 0)
	if borrow != 0 {
		return 0, 0, ErrSwapFailed
	}
	return adminShare, vaultShare, nil
}
