// Binary vaultd wires the custody engine against an in-memory ledger with a
// dry-run router, so the full flow can be exercised without touching a live
// chain.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/bolander72/orange-refinery/internal/config"
	dex "github.com/bolander72/orange-refinery/internal/dex/solana"
	"github.com/bolander72/orange-refinery/internal/ledger"
	"github.com/bolander72/orange-refinery/internal/metrics"
	"github.com/bolander72/orange-refinery/internal/util"
	"github.com/bolander72/orange-refinery/internal/vault"
)

func main() {
	cfg, err := config.Load("internal/config/config.yaml")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := util.NewLogger(cfg.App.Name, cfg.App.LogLevel)
	metricsSrv := metrics.Serve(cfg.App.MetricsAddr)
	defer metricsSrv.Close()

	led := ledger.New()
	if cfg.Vault.JournalPath != "" {
		recorder, err := ledger.NewJSONLRecorder(cfg.Vault.JournalPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("journal recorder")
		}
		defer recorder.Close()
		led.SetRecorder(recorder)
	}

	ownerKey, err := dex.LoadOwnerKey(cfg.Wallet)
	if err != nil {
		logger.Fatal().Err(err).Msg("wallet")
	}
	owner := ownerKey.PublicKey()

	router := vault.RouterFunc(func(tx *ledger.Tx, call vault.ExternalCall) error {
		logger.Info().
			Str("target", call.Target.String()).
			Int("accounts", len(call.Accounts)).
			Int("payload_bytes", len(call.Payload)).
			Msg("router call (dry run)")
		return nil
	})

	engine, err := vault.NewEngine(cfg.Vault, led, router, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("engine")
	}

	// Seed the demo owner so initialization and funding have something to spend.
	if err := led.WithTx(func(tx *ledger.Tx) error {
		return tx.CreditLamports(owner, 100_000_000)
	}); err != nil {
		logger.Fatal().Err(err).Msg("seed owner")
	}

	vaultAddr, settlement, err := engine.InitializeVault(owner)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialize vault")
	}
	logger.Info().Str("vault", vaultAddr.String()).Str("settlement", settlement.String()).Msg("custody record ready")

	if err := engine.FundGas(owner, 50_000_000); err != nil {
		logger.Fatal().Err(err).Msg("fund gas")
	}

	// Fetch a live quote to show payload construction; skipped when offline.
	jupiter := dex.NewJupiterClient(
		getEnv("SOLANA_RPC_URL", cfg.Dex.RpcURL),
		getEnv("JUPITER_BASE_URL", cfg.Dex.JupiterBase),
		getEnv("SOLANA_COMMITMENT", cfg.Dex.Commitment),
	)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	const sol = "So11111111111111111111111111111111111111112"
	quote, err := jupiter.GetQuote(ctx, sol, cfg.Vault.TargetMint, 10_000_000, 150)
	if err != nil {
		logger.Warn().Err(err).Msg("quote unavailable, skipping swap demo")
		return
	}
	call, err := jupiter.SwapInstructions(ctx, quote, vaultAddr)
	if err != nil {
		logger.Warn().Err(err).Msg("swap instructions unavailable, skipping swap demo")
		return
	}
	logger.Info().
		Str("out_amount", quote.OutAmount).
		Int("accounts", len(call.Accounts)).
		Msg("router payload built for vault authority")
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
