package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

func TestNewJupiterClientCommit(t *testing.T) {
	client := NewJupiterClient("https://rpc", "https://jup", "finalized")
	if client.Commit != rpc.CommitmentFinalized {
		t.Fatalf("expected finalized commitment, got %v", client.Commit)
	}
}

func TestGetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v6/quote" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("inputMint") != "AAA" {
			t.Fatalf("missing inputMint query")
		}
		resp := Quote{InputMint: "AAA", OutputMint: "BBB", InAmount: "10", OutAmount: "20", SlippageBps: 50}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewJupiterClient("https://rpc", server.URL, "processed")
	client.Http = server.Client()

	quote, err := client.GetQuote(context.Background(), "AAA", "BBB", 10, 50)
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if quote.OutAmount != "20" {
		t.Fatalf("expected OutAmount 20, got %s", quote.OutAmount)
	}
}

func TestSwapInstructions(t *testing.T) {
	program := solana.NewWallet().PublicKey()
	account := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v6/swap-instructions" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["userPublicKey"] != authority.String() {
			t.Fatalf("authority not forwarded as userPublicKey")
		}
		_, _ = w.Write([]byte(`{
			"swapInstruction": {
				"programId": "` + program.String() + `",
				"accounts": [{"pubkey": "` + account.String() + `", "isSigner": false, "isWritable": true}],
				"data": "3q2+7w=="
			}
		}`))
	}))
	defer server.Close()

	client := NewJupiterClient("https://rpc", server.URL, "confirmed")
	client.Http = server.Client()

	call, err := client.SwapInstructions(context.Background(), &Quote{InputMint: "AAA"}, authority)
	if err != nil {
		t.Fatalf("SwapInstructions returned error: %v", err)
	}
	if !call.Target.Equals(program) {
		t.Fatalf("target program mismatch")
	}
	if len(call.Payload) != 4 || call.Payload[0] != 0xde {
		t.Fatalf("instruction data not decoded verbatim: %x", call.Payload)
	}
	if len(call.Accounts) != 1 || !call.Accounts[0].Key.Equals(account) || !call.Accounts[0].Writable || call.Accounts[0].Signer {
		t.Fatalf("account metas not converted: %+v", call.Accounts)
	}
}
