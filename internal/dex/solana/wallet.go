package solana

import (
	"errors"
	"os"

	solana "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"

	"github.com/bolander72/orange-refinery/internal/config"
)

// LoadOwnerKey resolves the vault owner's signing key: environment first,
// config fallback.
func LoadOwnerKey(cfg config.Wallet) (solana.PrivateKey, error) {
	_ = godotenv.Load() // best-effort
	b58 := os.Getenv("VAULT_OWNER_KEY_BASE58")
	if b58 == "" {
		b58 = cfg.PrivateKeyBase58
	}
	if b58 == "" {
		return nil, errors.New("owner key not set (VAULT_OWNER_KEY_BASE58 or wallet.private_key_base58)")
	}
	return solana.PrivateKeyFromBase58(b58)
}
