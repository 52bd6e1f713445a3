package vault

import (
	"errors"
	"math"
	"testing"
)

func TestSplitFeeIdentity(t *testing.T) {
	amounts := []uint64{0, 1, 39, 400, 10_000, 123_456_789, math.MaxUint64 / 25}
	for _, amount := range amounts {
		fee, remainder, err := SplitFee(amount, 25)
		if err != nil {
			t.Fatalf("SplitFee(%d) returned error: %v", amount, err)
		}
		if fee > amount {
			t.Fatalf("fee %d exceeds amount %d", fee, amount)
		}
		if fee+remainder != amount {
			t.Fatalf("fee %d + remainder %d != amount %d", fee, remainder, amount)
		}
		if fee != amount*25/10_000 {
			t.Fatalf("fee %d not floor(%d*25/10000)", fee, amount)
		}
	}
}

func TestSplitFeeExample(t *testing.T) {
	fee, remainder, err := SplitFee(10_000, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fee != 25 || remainder != 9_975 {
		t.Fatalf("expected (25, 9975), got (%d, %d)", fee, remainder)
	}
}

func TestSplitFeeOverflow(t *testing.T) {
	_, _, err := SplitFee(math.MaxUint64, 25)
	if !errors.Is(err, ErrSwapFailed) {
		t.Fatalf("expected ErrSwapFailed on overflow, got %v", err)
	}
}

func TestSplitFeeUnderflow(t *testing.T) {
	// bps above 10000 makes the fee exceed the amount
	_, _, err := SplitFee(1_000, 20_000)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestSplitProceedsIdentity(t *testing.T) {
	totals := []uint64{0, 1, 3, 7, 99, 100, 101, 999_999_999, math.MaxUint64 / 60}
	for _, total := range totals {
		adminShare, vaultShare, err := SplitProceeds(total, 60)
		if err != nil {
			t.Fatalf("SplitProceeds(%d) returned error: %v", total, err)
		}
		if adminShare > total {
			t.Fatalf("admin share %d exceeds total %d", adminShare, total)
		}
		if adminShare+vaultShare != total {
			t.Fatalf("admin %d + vault %d != total %d", adminShare, vaultShare, total)
		}
		if adminShare != total*60/100 {
			t.Fatalf("admin share %d not floor(%d*60/100)", adminShare, total)
		}
	}
}

func TestSplitProceedsExample(t *testing.T) {
	adminShare, vaultShare, err := SplitProceeds(1_000_000_000, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if adminShare != 600_000_000 || vaultShare != 400_000_000 {
		t.Fatalf("expected (600000000, 400000000), got (%d, %d)", adminShare, vaultShare)
	}
}

func TestSplitProceedsOverflow(t *testing.T) {
	_, _, err := SplitProceeds(math.MaxUint64, 60)
	if !errors.Is(err, ErrSwapFailed) {
		t.Fatalf("expected ErrSwapFailed on overflow, got %v", err)
	}
	_, _, err = SplitProceeds(1_000, 200)
	if !errors.Is(err, ErrSwapFailed) {
		t.Fatalf("expected ErrSwapFailed when the split exceeds total, got %v", err)
	}
}
