package vault

import (
	"fmt"
	"math/bits"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/bolander72/orange-refinery/internal/config"
	"github.com/bolander72/orange-refinery/internal/ledger"
	"github.com/bolander72/orange-refinery/internal/metrics"
)

// defaultRecordRent funds the custody record's data account when the config
// leaves record_rent_lamports unset.
const defaultRecordRent = 1_343_280

// policy is the parsed, immutable form of config.Vault.
type policy struct {
	program       solana.PublicKey
	routerProgram solana.PublicKey
	targetMint    solana.PublicKey
	feeRecipient  solana.PublicKey
	admin         solana.PublicKey
	feeBps        uint64
	adminSplitPct uint64
	recordRent    uint64
	enforceMinOut bool
}

// Engine executes vault operations against the ledger. Every operation is one
// atomic Tx and re-validates the caller against the custody record before any
// funds move.
type Engine struct {
	led    *ledger.Ledger
	router Router
	log    zerolog.Logger
	policy policy
}

// NewEngine parses the vault policy and wires the engine.
func NewEngine(cfg config.Vault, led *ledger.Ledger, router Router, log zerolog.Logger) (*Engine, error) {
	pol := policy{
		feeBps:        cfg.FeeBps,
		adminSplitPct: cfg.AdminSplitPct,
		recordRent:    cfg.RecordRent,
		enforceMinOut: cfg.EnforceMinOut,
	}
	if pol.recordRent == 0 {
		pol.recordRent = defaultRecordRent
	}
	var err error
	if pol.program, err = solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
		return nil, fmt.Errorf("parse program_id: %w", err)
	}
	if pol.routerProgram, err = solana.PublicKeyFromBase58(cfg.RouterProgram); err != nil {
		return nil, fmt.Errorf("parse router_program: %w", err)
	}
	if pol.targetMint, err = solana.PublicKeyFromBase58(cfg.TargetMint); err != nil {
		return nil, fmt.Errorf("parse target_mint: %w", err)
	}
	if pol.feeRecipient, err = solana.PublicKeyFromBase58(cfg.FeeRecipient); err != nil {
		return nil, fmt.Errorf("parse fee_recipient: %w", err)
	}
	if pol.admin, err = solana.PublicKeyFromBase58(cfg.Admin); err != nil {
		return nil, fmt.Errorf("parse admin: %w", err)
	}
	return &Engine{led: led, router: router, log: log, policy: pol}, nil
}

// SwapRequest drives the two swap operations. Accounts is the router's
// ordered account list, passed through verbatim.
type SwapRequest struct {
	Owner             solana.PublicKey
	Args              SwapArgs
	InputMint         solana.PublicKey
	VaultTokenAccount solana.PublicKey
	FeeTokenAccount   solana.PublicKey
	Accounts          []AccountRef
}

// InitializeVault allocates the custody record for owner and its
// settlement-asset token account. The owner pays record rent. A second
// initialization for the same owner fails with ledger.ErrAccountExists.
func (e *Engine) InitializeVault(owner solana.PublicKey) (vaultAddr, settlement solana.PublicKey, err error) {
	vaultAddr, bump, err := DeriveVaultAddress(owner, e.policy.program)
	if err != nil {
		return vaultAddr, settlement, e.done("initialize_vault", ErrUnauthorized)
	}
	settlement, _, err = DeriveSettlementAccount(vaultAddr, e.policy.program)
	if err != nil {
		return vaultAddr, settlement, e.done("initialize_vault", ErrUnauthorized)
	}

	err = e.led.WithTx(func(tx *ledger.Tx) error {
		rec := Record{Owner: owner, Bump: bump, SettlementTokenAccount: settlement}
		data, err := rec.Marshal()
		if err != nil {
			return err
		}
		if err := tx.CreateDataAccount(vaultAddr, data, owner, e.policy.recordRent); err != nil {
			return err
		}
		// init-if-needed: the settlement account may predate the record
		if _, ok := tx.Token(settlement); !ok {
			if err := tx.CreateTokenAccount(settlement, e.policy.targetMint, vaultAddr); err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		e.log.Info().Str("owner", owner.String()).Str("vault", vaultAddr.String()).Msg("vault initialized")
	}
	return vaultAddr, settlement, e.done("initialize_vault", err)
}

// SwapToTarget takes the basis-point fee off the deposited asset, then
// delegates the remainder to the router under the vault's derived authority.
// If the input already is the settlement asset the call is a no-op: no fee,
// no external call.
func (e *Engine) SwapToTarget(req SwapRequest) error {
	err := e.led.WithTx(func(tx *ledger.Tx) error {
		vaultAddr, _, auth, err := e.loadRecord(tx, req.Owner)
		if err != nil {
			return err
		}
		if req.InputMint.Equals(e.policy.targetMint) {
			e.log.Info().Str("vault", vaultAddr.String()).Msg("input already settlement asset, nothing to do")
			return nil
		}

		fee, swapAmount, err := SplitFee(req.Args.AmountIn, e.policy.feeBps)
		if err != nil {
			return err
		}
		if fee > 0 {
			feeAcct, ok := tx.Token(req.FeeTokenAccount)
			if !ok || !feeAcct.Authority.Equals(e.policy.feeRecipient) {
				return ErrUnauthorized
			}
			if err := tx.TransferToken(req.VaultTokenAccount, req.FeeTokenAccount, fee, auth.Key()); err != nil {
				return err
			}
			metrics.FeeUnitsTotal.WithLabelValues("input_asset").Add(float64(fee))
		}

		call, err := buildCall(e.policy.routerProgram, req.Args.Payload, req.Accounts, auth)
		if err != nil {
			return err
		}
		if err := e.router.Execute(tx, call); err != nil {
			return err
		}
		e.log.Info().
			Uint64("amount_in", req.Args.AmountIn).
			Uint64("fee", fee).
			Uint64("swap_amount", swapAmount).
			Str("vault", vaultAddr.String()).
			Msg("delegated swap executed")
		return nil
	})
	return e.done("swap_to_target", err)
}

// FundGas moves native balance from the owner into the vault to pay for
// future operations. The owner must have signed the enclosing request; the
// transport layer vouches for that.
func (e *Engine) FundGas(owner solana.PublicKey, amount uint64) error {
	err := e.led.WithTx(func(tx *ledger.Tx) error {
		vaultAddr, _, _, err := e.loadRecord(tx, owner)
		if err != nil {
			return err
		}
		if err := tx.TransferLamports(owner, vaultAddr, amount); err != nil {
			return err
		}
		e.log.Info().Uint64("lamports", amount).Str("vault", vaultAddr.String()).Msg("vault funded")
		return nil
	})
	return e.done("fund_gas", err)
}

// CoverFees reimburses a relayer from the vault's native balance for
// transaction costs it fronted on the owner's behalf.
func (e *Engine) CoverFees(owner, relayer solana.PublicKey, amount uint64) error {
	err := e.led.WithTx(func(tx *ledger.Tx) error {
		vaultAddr, _, _, err := e.loadRecord(tx, owner)
		if err != nil {
			return err
		}
		if err := tx.TransferLamports(vaultAddr, relayer, amount); err != nil {
			return err
		}
		e.log.Info().Uint64("lamports", amount).Str("relayer", relayer.String()).Msg("relayer reimbursed")
		return nil
	})
	return e.done("cover_fees", err)
}

// SwapFeeProceeds converts collected fee tokens to native balance through the
// router, then splits the measured proceeds: adminSplitPct percent to the
// admin account, the rest left in the vault for gas. Proceeds are measured by
// snapshotting the vault's lamports around the opaque call; a negative delta
// is a hard failure, never clamped.
func (e *Engine) SwapFeeProceeds(req SwapRequest) error {
	err := e.led.WithTx(func(tx *ledger.Tx) error {
		vaultAddr, _, auth, err := e.loadRecord(tx, req.Owner)
		if err != nil {
			return err
		}

		call, err := buildCall(e.policy.routerProgram, req.Args.Payload, req.Accounts, auth)
		if err != nil {
			return err
		}

		pre := tx.Lamports(vaultAddr)
		if err := e.router.Execute(tx, call); err != nil {
			return err
		}
		post := tx.Lamports(vaultAddr)

		received, borrow := bits.Sub64(post, pre, 0)
		if borrow != 0 {
			return ErrSwapFailed
		}
		if e.policy.enforceMinOut && received < req.Args.MinAmountOut {
			return ErrSwapFailed
		}

		adminShare, vaultShare, err := SplitProceeds(received, e.policy.adminSplitPct)
		if err != nil {
			return err
		}
		if adminShare > 0 {
			if err := tx.TransferLamports(vaultAddr, e.policy.admin, adminShare); err != nil {
				return err
			}
			metrics.FeeUnitsTotal.WithLabelValues("admin_lamports").Add(float64(adminShare))
		}
		e.log.Info().
			Uint64("received", received).
			Uint64("admin_share", adminShare).
			Uint64("vault_share", vaultShare).
			Str("vault", vaultAddr.String()).
			Msg("fee proceeds settled")
		return nil
	})
	return e.done("swap_fee_proceeds", err)
}

// loadRecord derives the vault address for owner, loads the custody record,
// and verifies the caller. A missing or corrupt record fails closed.
func (e *Engine) loadRecord(tx *ledger.Tx, owner solana.PublicKey) (solana.PublicKey, *Record, Authority, error) {
	vaultAddr, _, err := DeriveVaultAddress(owner, e.policy.program)
	if err != nil {
		return vaultAddr, nil, Authority{}, ErrUnauthorized
	}
	data, ok := tx.AccountData(vaultAddr)
	if !ok {
		return vaultAddr, nil, Authority{}, ErrUnauthorized
	}
	rec, err := UnmarshalRecord(data)
	if err != nil {
		return vaultAddr, nil, Authority{}, ErrUnauthorized
	}
	auth, err := rec.Verify(vaultAddr, owner, e.policy.program)
	if err != nil {
		return vaultAddr, nil, Authority{}, err
	}
	return vaultAddr, rec, auth, nil
}

func (e *Engine) done(op string, err error) error {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.OpsTotal.WithLabelValues(op, outcome).Inc()
	return err
}
