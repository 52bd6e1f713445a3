// Package vault implements the custody core: per-owner records bound to a
// derived signer, fee-taking delegated swaps through an opaque router, and
// lamport settlement of swap proceeds.
package vault

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
)

const (
	recordSeed     = "vault"
	settlementSeed = "settlement"
)

// RecordLen is the serialized size of a custody record: owner + bump + settlement account.
const RecordLen = 32 + 1 + 32

// Record is the custody record persisted at the derived vault address. All
// fields are write-once at initialization.
type Record struct {
	Owner                  solana.PublicKey
	Bump                   uint8
	SettlementTokenAccount solana.PublicKey
}

// Marshal encodes the record in borsh form for the data account.
func (r *Record) Marshal() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBorshEncoder(buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalRecord decodes a custody record from account data.
func UnmarshalRecord(data []byte) (*Record, error) {
	var rec Record
	if err := bin.NewBorshDecoder(data).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeriveVaultAddress finds the vault address and bump for owner under program.
// Two owners can never collide; re-derivation is deterministic.
func DeriveVaultAddress(owner, program solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(recordSeed), owner.Bytes()}, program)
}

// DeriveSettlementAccount finds the vault's settlement-asset token account address.
func DeriveSettlementAccount(vault, program solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte(settlementSeed), vault.Bytes()}, program)
}

// Authority proves a successful re-derivation of the vault signer. Privileged
// transfers require one, and only Record.Verify hands them out; there is no
// private key behind it.
type Authority struct {
	key solana.PublicKey
}

// Key returns the derived signer address.
func (a Authority) Key() solana.PublicKey { return a.key }

// Verify checks the caller-asserted owner against the record and re-derives
// the vault address from the stored bump. Any mismatch fails closed with
// ErrUnauthorized before funds can move.
func (r *Record) Verify(vaultAddr, owner, program solana.PublicKey) (Authority, error) {
	if !r.Owner.Equals(owner) {
		return Authority{}, ErrUnauthorized
	}
	derived, err := solana.CreateProgramAddress(
		[][]byte{[]byte(recordSeed), r.Owner.Bytes(), {r.Bump}}, program)
	if err != nil || !derived.Equals(vaultAddr) {
		return Authority{}, ErrUnauthorized
	}
	return Authority{key: vaultAddr}, nil
}
