// Package ledger models the hosting chain's account store: lamport balances,
// token accounts, and program-owned data accounts. All mutation happens inside
// an atomic Tx; a failed Tx leaves no trace.
package ledger

import (
	"errors"
	"math/bits"
	"sync"

	solana "github.com/gagliardetto/solana-go"
)

var (
	ErrAccountExists       = errors.New("account already exists")
	ErrUnknownAccount      = errors.New("unknown account")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBadAuthority        = errors.New("authority mismatch")
	ErrMintMismatch        = errors.New("token mint mismatch")
	ErrBalanceOverflow     = errors.New("balance overflow")
)

// TokenAccount holds a balance of one mint spendable by a single authority.
type TokenAccount struct {
	Mint      solana.PublicKey
	Authority solana.PublicKey
	Amount    uint64
}

// EntryRecorder receives committed transfer entries, e.g. for audit files.
type EntryRecorder interface {
	Record(Entry)
}

// Ledger is an in-memory account store. The mutex serializes whole
// transactions, matching the runtime guarantee that no two operations touch
// the same account concurrently.
type Ledger struct {
	mu       sync.Mutex
	native   map[solana.PublicKey]uint64
	tokens   map[solana.PublicKey]TokenAccount
	data     map[solana.PublicKey][]byte
	journal  []Entry
	recorder EntryRecorder
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{
		native: make(map[solana.PublicKey]uint64),
		tokens: make(map[solana.PublicKey]TokenAccount),
		data:   make(map[solana.PublicKey][]byte),
	}
}

// SetRecorder attaches a recorder that observes every committed entry.
func (l *Ledger) SetRecorder(r EntryRecorder) {
	l.mu.Lock()
	l.recorder = r
	l.mu.Unlock()
}

// WithTx runs fn as one atomic unit. Mutations become visible only if fn
// returns nil; any error discards them all.
func (l *Ledger) WithTx(fn func(*Tx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tx := &Tx{
		base:   l,
		native: make(map[solana.PublicKey]uint64),
		tokens: make(map[solana.PublicKey]TokenAccount),
		data:   make(map[solana.PublicKey][]byte),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// Lamports returns the native balance for key (zero for unknown accounts).
func (l *Ledger) Lamports(key solana.PublicKey) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.native[key]
}

// Token returns the token account stored at addr.
func (l *Ledger) Token(addr solana.PublicKey) (TokenAccount, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acct, ok := l.tokens[addr]
	return acct, ok
}

// AccountData returns a copy of the data account stored at addr.
func (l *Ledger) AccountData(addr solana.PublicKey) ([]byte, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	data, ok := l.data[addr]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true
}

// Journal returns a copy of every committed transfer entry.
func (l *Ledger) Journal() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.journal))
	copy(out, l.journal)
	return out
}

// Tx is a copy-on-write view over the ledger. Reads fall through to the base;
// writes stay in the overlay until commit.
type Tx struct {
	base    *Ledger
	native  map[solana.PublicKey]uint64
	tokens  map[solana.PublicKey]TokenAccount
	data    map[solana.PublicKey][]byte
	entries []Entry
}

func (tx *Tx) commit() {
	for key, amount := range tx.native {
		tx.base.native[key] = amount
	}
	for addr, acct := range tx.tokens {
		tx.base.tokens[addr] = acct
	}
	for addr, data := range tx.data {
		tx.base.data[addr] = data
	}
	tx.base.journal = append(tx.base.journal, tx.entries...)
	if tx.base.recorder != nil {
		for _, entry := range tx.entries {
			tx.base.recorder.Record(entry)
		}
	}
}

// Lamports returns the native balance for key as seen by this Tx.
func (tx *Tx) Lamports(key solana.PublicKey) uint64 {
	if amount, ok := tx.native[key]; ok {
		return amount
	}
	return tx.base.native[key]
}

// CreditLamports adds native balance to key. Accounts spring into existence
// on first credit, as system accounts do.
func (tx *Tx) CreditLamports(key solana.PublicKey, amount uint64) error {
	sum, carry := bits.Add64(tx.Lamports(key), amount, 0)
	if carry != 0 {
		return ErrBalanceOverflow
	}
	tx.native[key] = sum
	return nil
}

// TransferLamports moves native balance between accounts.
func (tx *Tx) TransferLamports(from, to solana.PublicKey, amount uint64) error {
	balance := tx.Lamports(from)
	if balance < amount {
		return ErrInsufficientBalance
	}
	sum, carry := bits.Add64(tx.Lamports(to), amount, 0)
	if carry != 0 {
		return ErrBalanceOverflow
	}
	tx.native[from] = balance - amount
	tx.native[to] = sum
	tx.entries = append(tx.entries, Entry{Kind: EntryLamports, From: from, To: to, Amount: amount})
	return nil
}

// Token returns the token account at addr as seen by this Tx.
func (tx *Tx) Token(addr solana.PublicKey) (TokenAccount, bool) {
	if acct, ok := tx.tokens[addr]; ok {
		return acct, true
	}
	acct, ok := tx.base.tokens[addr]
	return acct, ok
}

// CreateTokenAccount allocates an empty token account for mint under authority.
func (tx *Tx) CreateTokenAccount(addr, mint, authority solana.PublicKey) error {
	if _, ok := tx.Token(addr); ok {
		return ErrAccountExists
	}
	tx.tokens[addr] = TokenAccount{Mint: mint, Authority: authority}
	return nil
}

// CreditToken mints amount into an existing token account.
func (tx *Tx) CreditToken(addr solana.PublicKey, amount uint64) error {
	acct, ok := tx.Token(addr)
	if !ok {
		return ErrUnknownAccount
	}
	sum, carry := bits.Add64(acct.Amount, amount, 0)
	if carry != 0 {
		return ErrBalanceOverflow
	}
	acct.Amount = sum
	tx.tokens[addr] = acct
	return nil
}

// TransferToken moves tokens between accounts of the same mint. The supplied
// authority must match the source account's transfer authority.
func (tx *Tx) TransferToken(from, to solana.PublicKey, amount uint64, authority solana.PublicKey) error {
	src, ok := tx.Token(from)
	if !ok {
		return ErrUnknownAccount
	}
	dst, ok := tx.Token(to)
	if !ok {
		return ErrUnknownAccount
	}
	if !src.Authority.Equals(authority) {
		return ErrBadAuthority
	}
	if !src.Mint.Equals(dst.Mint) {
		return ErrMintMismatch
	}
	if src.Amount < amount {
		return ErrInsufficientBalance
	}
	sum, carry := bits.Add64(dst.Amount, amount, 0)
	if carry != 0 {
		return ErrBalanceOverflow
	}
	src.Amount -= amount
	dst.Amount = sum
	tx.tokens[from] = src
	tx.tokens[to] = dst
	tx.entries = append(tx.entries, Entry{Kind: EntryToken, From: from, To: to, Amount: amount, Mint: src.Mint})
	return nil
}

// AccountData returns the data account at addr as seen by this Tx.
func (tx *Tx) AccountData(addr solana.PublicKey) ([]byte, bool) {
	if data, ok := tx.data[addr]; ok {
		return data, true
	}
	data, ok := tx.base.data[addr]
	return data, ok
}

// CreateDataAccount allocates a data account at addr, funding its rent balance
// from payer inside the same Tx.
func (tx *Tx) CreateDataAccount(addr solana.PublicKey, data []byte, payer solana.PublicKey, rent uint64) error {
	if _, ok := tx.AccountData(addr); ok {
		return ErrAccountExists
	}
	if err := tx.TransferLamports(payer, addr, rent); err != nil {
		return err
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	tx.data[addr] = stored
	return nil
}
