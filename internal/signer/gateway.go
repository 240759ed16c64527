package signer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kol_arena/internal/escrow"
	"kol_arena/internal/solana"
)

var (
	// ErrUserRejected means the player declined the wallet prompt. Nothing
	// was broadcast; the operation leaves no trace.
	ErrUserRejected = errors.New("signing rejected by user")

	// ErrSignerUnavailable means no wallet can sign this transaction here.
	ErrSignerUnavailable = errors.New("signer unavailable")

	// ErrConfirmTimeout means the confirmation wait expired. The transaction
	// may still land on chain later, so this is never treated as failure:
	// the caller must reconcile before retrying.
	ErrConfirmTimeout = errors.New("confirmation timed out")
)

// Gateway is the wallet signer the coordinator awaits before any room
// mutation. SignAndSend may block for human-timescale durations while the
// wallet prompts the player.
type Gateway interface {
	SignAndSend(ctx context.Context, tx *escrow.UnsignedTransaction) (txID string, err error)
	Confirm(ctx context.Context, txID string) error
}

// RPCGateway is the production gateway. Keys never leave the player's
// wallet, so SignAndSend cannot be served here; the server's half of the
// contract is confirming signatures the wallet already broadcast.
type RPCGateway struct {
	chain          *solana.Client
	confirmTimeout time.Duration
}

func NewRPCGateway(chain *solana.Client, confirmTimeout time.Duration) *RPCGateway {
	if confirmTimeout <= 0 {
		confirmTimeout = solana.DefaultConfirmTimeout
	}
	return &RPCGateway{chain: chain, confirmTimeout: confirmTimeout}
}

// SignAndSend always fails: the platform is non-custodial. Clients sign in
// their own wallet and submit the resulting signature with the operation.
func (g *RPCGateway) SignAndSend(ctx context.Context, tx *escrow.UnsignedTransaction) (string, error) {
	return "", fmt.Errorf("%w: signing happens in the player wallet", ErrSignerUnavailable)
}

// Confirm polls the chain until the signature reaches finality.
func (g *RPCGateway) Confirm(ctx context.Context, txID string) error {
	deadline := time.Now().Add(g.confirmTimeout)

	for time.Now().Before(deadline) {
		status, err := g.chain.GetSignatureStatus(ctx, txID)
		if err != nil && !errors.Is(err, solana.ErrNotFound) {
			return err
		}
		if status != nil {
			if status.Failed() {
				return fmt.Errorf("transaction %s failed on chain", txID)
			}
			if status.Finalized() {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(solana.ConfirmPollInterval):
		}
	}

	return fmt.Errorf("%w: %s", ErrConfirmTimeout, txID)
}
