package escrow

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"kol_arena/internal/domain"
)

type fakeChain struct {
	blockhash string
	err       error
	calls     int
}

func (f *fakeChain) GetLatestBlockhash(ctx context.Context) (string, error) {
	f.calls++
	return f.blockhash, f.err
}

func TestBuildSOLTransfer(t *testing.T) {
	chain := &fakeChain{blockhash: "9tQ3mK"}
	b := NewBuilder(chain, "EscRoW111")

	tx, err := b.Build(context.Background(), "PlayerAAA", 2_000_000_000, domain.CurrencySOL)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if tx.FeePayer != "PlayerAAA" {
		t.Fatalf("fee payer = %s; want PlayerAAA", tx.FeePayer)
	}
	if tx.RecentBlockhash != "9tQ3mK" {
		t.Fatalf("blockhash = %s; want 9tQ3mK", tx.RecentBlockhash)
	}
	if chain.calls != 1 {
		t.Fatalf("blockhash fetched %d times; want 1", chain.calls)
	}
	if len(tx.Instructions) != 1 {
		t.Fatalf("instructions = %d; want 1", len(tx.Instructions))
	}

	ix := tx.Instructions[0]
	if got := binary.LittleEndian.Uint32(ix.Data[0:4]); got != 2 {
		t.Fatalf("instruction index = %d; want 2 (system transfer)", got)
	}
	if got := binary.LittleEndian.Uint64(ix.Data[4:12]); got != 2_000_000_000 {
		t.Fatalf("lamports = %d; want 2000000000", got)
	}
	if ix.Accounts[0] != "PlayerAAA" || ix.Accounts[1] != "EscRoW111" {
		t.Fatalf("accounts = %v; want [PlayerAAA EscRoW111]", ix.Accounts)
	}
	if tx.Escrow.State != domain.EscrowUnsent {
		t.Fatalf("escrow state = %s; want unsent", tx.Escrow.State)
	}
}

func TestBuildUSDTTransfer(t *testing.T) {
	b := NewBuilder(&fakeChain{blockhash: "hash"}, "EscRoW111")

	tx, err := b.Build(context.Background(), "PlayerAAA", 5_000_000, domain.CurrencyUSDT)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ix := tx.Instructions[0]
	if ix.Data[0] != 3 {
		t.Fatalf("token instruction tag = %d; want 3 (transfer)", ix.Data[0])
	}
	if got := binary.LittleEndian.Uint64(ix.Data[1:9]); got != 5_000_000 {
		t.Fatalf("token amount = %d; want 5000000", got)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	b := NewBuilder(&fakeChain{blockhash: "hash"}, "EscRoW111")
	ctx := context.Background()

	if _, err := b.Build(ctx, "PlayerAAA", 0, domain.CurrencySOL); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount: got %v; want ErrInvalidAmount", err)
	}
	if _, err := b.Build(ctx, "PlayerAAA", -5, domain.CurrencySOL); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative amount: got %v; want ErrInvalidAmount", err)
	}
	if _, err := b.Build(ctx, "PlayerAAA", 100, domain.Currency("DOGE")); !errors.Is(err, ErrUnsupportedCurrency) {
		t.Fatalf("unknown currency: got %v; want ErrUnsupportedCurrency", err)
	}
	if _, err := b.Build(ctx, "", 100, domain.CurrencySOL); !errors.Is(err, ErrMissingWallet) {
		t.Fatalf("empty wallet: got %v; want ErrMissingWallet", err)
	}
}

func TestBuildPropagatesBlockhashError(t *testing.T) {
	chainErr := errors.New("rpc down")
	b := NewBuilder(&fakeChain{err: chainErr}, "EscRoW111")

	if _, err := b.Build(context.Background(), "PlayerAAA", 100, domain.CurrencySOL); !errors.Is(err, chainErr) {
		t.Fatalf("got %v; want wrapped rpc error", err)
	}
}
