package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/bolander72/orange-refinery/internal/vault"
)

// JupiterClient talks to the Jupiter v6 API to build the opaque router
// payloads the vault forwards, and to the RPC node for balance reads.
type JupiterClient struct {
	Base   string
	RPC    *rpc.Client
	Commit rpc.CommitmentType
	Http   *http.Client
}

type Quote struct {
	InputMint      string  `json:"inputMint"`
	OutputMint     string  `json:"outputMint"`
	InAmount       string  `json:"inAmount"`
	OutAmount      string  `json:"outAmount"`
	OtherAmount    string  `json:"otherAmountThreshold"`
	SlippageBps    int     `json:"slippageBps"`
	RoutePlan      any     `json:"routePlan"`
	PriceImpactPct float64 `json:"priceImpactPct"`
}

func NewJupiterClient(rpcURL, base, commit string) *JupiterClient {
	c := rpc.CommitmentConfirmed
	switch commit {
	case "processed":
		c = rpc.CommitmentProcessed
	case "finalized":
		c = rpc.CommitmentFinalized
	}
	return &JupiterClient{
		Base:   base,
		RPC:    rpc.New(rpcURL),
		Commit: c,
		Http:   &http.Client{Timeout: 8 * time.Second},
	}
}

// amount is in smallest units (lamports for SOL; token decimals apply).
func (j *JupiterClient) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*Quote, error) {
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", fmt.Sprintf("%d", amount))
	q.Set("slippageBps", fmt.Sprintf("%d", slippageBps))
	q.Set("onlyDirectRoutes", "false")
	u := j.Base + "/v6/quote?" + q.Encode()

	req, _ := http.NewRequestWithContext(ctx, "GET", u, nil)
	resp, err := j.Http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("jupiter quote status %d", resp.StatusCode)
	}
	var out Quote
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

type instructionJSON struct {
	ProgramID string `json:"programId"`
	Accounts  []struct {
		Pubkey     string `json:"pubkey"`
		IsSigner   bool   `json:"isSigner"`
		IsWritable bool   `json:"isWritable"`
	} `json:"accounts"`
	Data string `json:"data"` // base64
}

// SwapInstructions asks Jupiter to build the swap instruction with the
// vault's derived authority as the acting user and converts it into the
// vault's external-call form. The instruction data stays opaque.
func (j *JupiterClient) SwapInstructions(ctx context.Context, quote *Quote, authority solana.PublicKey) (vault.ExternalCall, error) {
	var call vault.ExternalCall

	payload := map[string]any{
		"userPublicKey":    authority.String(),
		"wrapAndUnwrapSol": false,
		"quoteResponse":    quote,
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequestWithContext(ctx, "POST", j.Base+"/v6/swap-instructions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := j.Http.Do(req)
	if err != nil {
		return call, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		return call, fmt.Errorf("jupiter swap-instructions status %d", resp.StatusCode)
	}
	var sr struct {
		SwapInstruction instructionJSON `json:"swapInstruction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return call, err
	}

	call.Target, err = solana.PublicKeyFromBase58(sr.SwapInstruction.ProgramID)
	if err != nil {
		return call, fmt.Errorf("parse program id: %w", err)
	}
	call.Payload, err = base64.StdEncoding.DecodeString(sr.SwapInstruction.Data)
	if err != nil {
		return call, fmt.Errorf("decode instruction data: %w", err)
	}
	call.Accounts = make([]vault.AccountRef, 0, len(sr.SwapInstruction.Accounts))
	for _, acc := range sr.SwapInstruction.Accounts {
		key, err := solana.PublicKeyFromBase58(acc.Pubkey)
		if err != nil {
			return call, fmt.Errorf("parse account %q: %w", acc.Pubkey, err)
		}
		call.Accounts = append(call.Accounts, vault.AccountRef{
			Key:      key,
			Signer:   acc.IsSigner,
			Writable: acc.IsWritable,
		})
	}
	return call, nil
}

// NativeBalance reads an account's lamports at the configured commitment.
func (j *JupiterClient) NativeBalance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	out, err := j.RPC.GetBalance(ctx, addr, j.Commit)
	if err != nil {
		return 0, err
	}
	return out.Value, nil
}
