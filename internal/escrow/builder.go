package escrow

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"kol_arena/internal/domain"
	"kol_arena/internal/solana"
)

var (
	ErrInvalidAmount       = errors.New("bet amount must be positive")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrMissingWallet       = errors.New("funding wallet address required")
)

// Instruction is one program invocation inside an unsigned transaction.
type Instruction struct {
	ProgramID string   `json:"program_id"`
	Accounts  []string `json:"accounts"`
	Data      []byte   `json:"data"`
}

// UnsignedTransaction is a wager transfer ready for the player's wallet to
// sign and broadcast. It is deterministic for its inputs except for the
// recent blockhash, fetched at build time so the transaction does not go
// stale before the wallet prompt completes.
type UnsignedTransaction struct {
	FeePayer        string        `json:"fee_payer"`
	RecentBlockhash string        `json:"recent_blockhash"`
	Instructions    []Instruction `json:"instructions"`
	Escrow          domain.EscrowTransaction
}

// BlockhashSource supplies the chain freshness token.
type BlockhashSource interface {
	GetLatestBlockhash(ctx context.Context) (string, error)
}

// Builder constructs escrow transfers into the platform escrow account.
// Pure construction: the only network call is the blockhash fetch.
type Builder struct {
	chain  BlockhashSource
	escrow string // platform escrow account address
}

func NewBuilder(chain BlockhashSource, escrowAccount string) *Builder {
	return &Builder{chain: chain, escrow: escrowAccount}
}

// EscrowAccount returns the platform escrow address transfers are built against.
func (b *Builder) EscrowAccount() string {
	return b.escrow
}

// Build constructs an unsigned wager transfer of amount (base units of the
// given currency) from the player's wallet to the escrow account.
func (b *Builder) Build(ctx context.Context, fromWallet string, amount int64, currency domain.Currency) (*UnsignedTransaction, error) {
	if fromWallet == "" {
		return nil, ErrMissingWallet
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	var ix Instruction
	switch currency {
	case domain.CurrencySOL:
		ix = transferSOL(fromWallet, b.escrow, amount)
	case domain.CurrencyUSDT:
		ix = transferUSDT(fromWallet, b.escrow, amount)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, currency)
	}

	blockhash, err := b.chain.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch blockhash: %w", err)
	}

	return &UnsignedTransaction{
		FeePayer:        fromWallet,
		RecentBlockhash: blockhash,
		Instructions:    []Instruction{ix},
		Escrow: domain.EscrowTransaction{
			FromWallet:      fromWallet,
			ToEscrowAccount: b.escrow,
			Amount:          amount,
			Currency:        currency,
			State:           domain.EscrowUnsent,
			CreatedAt:       time.Now(),
		},
	}, nil
}

// transferSOL encodes a system-program transfer: u32 LE instruction index 2
// followed by the lamport amount as u64 LE.
func transferSOL(from, to string, lamports int64) Instruction {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data[0:4], 2)
	binary.LittleEndian.PutUint64(data[4:12], uint64(lamports))

	return Instruction{
		ProgramID: solana.SystemProgramID,
		Accounts:  []string{from, to},
		Data:      data,
	}
}

// transferUSDT encodes an SPL token-program transfer: instruction tag 3
// followed by the token amount as u64 LE.
func transferUSDT(from, to string, amount int64) Instruction {
	data := make([]byte, 9)
	data[0] = 3
	binary.LittleEndian.PutUint64(data[1:9], uint64(amount))

	return Instruction{
		ProgramID: solana.TokenProgramID,
		Accounts:  []string{from, to, solana.USDTMint},
		Data:      data,
	}
}
