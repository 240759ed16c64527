package solana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// Client is a Solana JSON-RPC client
type Client struct {
	endpoint   string
	httpClient *http.Client
	reqSeq     int64
}

// NewClient creates a new Solana RPC client
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = RPCMainnet
	}
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ErrNotFound is returned when the chain does not know the requested item yet.
var ErrNotFound = errors.New("not found on chain")

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	id := atomic.AddInt64(&c.reqSeq, 1)
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("RPC error: %s - %s", resp.Status, string(msg))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return err
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("RPC error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if out != nil {
		return json.Unmarshal(rpcResp.Result, out)
	}
	return nil
}

// GetLatestBlockhash fetches the freshness token every new transaction embeds
// so it cannot go stale on chain.
func (c *Client) GetLatestBlockhash(ctx context.Context) (string, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	params := []any{map[string]any{"commitment": CommitmentConfirmed}}
	if err := c.call(ctx, "getLatestBlockhash", params, &result); err != nil {
		return "", err
	}
	if result.Value.Blockhash == "" {
		return "", errors.New("empty blockhash in RPC response")
	}
	return result.Value.Blockhash, nil
}

// GetBalance returns the lamport balance of an account
func (c *Client) GetBalance(ctx context.Context, address string) (int64, error) {
	var result struct {
		Value int64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []any{address}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// SignatureStatus describes the chain's view of a broadcast transaction
type SignatureStatus struct {
	Confirmations      *int64          `json:"confirmations"`
	ConfirmationStatus string          `json:"confirmationStatus"`
	Err                json.RawMessage `json:"err"`
}

// Failed reports whether the chain executed the transaction with an error
func (s *SignatureStatus) Failed() bool {
	return len(s.Err) > 0 && string(s.Err) != "null"
}

// Finalized reports whether the status reached the platform's finality level
func (s *SignatureStatus) Finalized() bool {
	return s.ConfirmationStatus == CommitmentConfirmed || s.ConfirmationStatus == "finalized"
}

// GetSignatureStatus returns ErrNotFound while the chain has not seen the
// signature yet.
func (c *Client) GetSignatureStatus(ctx context.Context, signature string) (*SignatureStatus, error) {
	var result struct {
		Value []*SignatureStatus `json:"value"`
	}
	params := []any{[]string{signature}, map[string]any{"searchTransactionHistory": true}}
	if err := c.call(ctx, "getSignatureStatuses", params, &result); err != nil {
		return nil, err
	}
	if len(result.Value) == 0 || result.Value[0] == nil {
		return nil, ErrNotFound
	}
	return result.Value[0], nil
}

// TokenBalance is one entry of pre/postTokenBalances in transaction meta
type TokenBalance struct {
	AccountIndex  int    `json:"accountIndex"`
	Mint          string `json:"mint"`
	Owner         string `json:"owner"`
	UITokenAmount struct {
		Amount string `json:"amount"`
	} `json:"uiTokenAmount"`
}

// TransactionDetail carries the parts of getTransaction the platform reads
type TransactionDetail struct {
	Slot int64 `json:"slot"`
	Meta struct {
		Err               json.RawMessage `json:"err"`
		PreBalances       []int64         `json:"preBalances"`
		PostBalances      []int64         `json:"postBalances"`
		PreTokenBalances  []TokenBalance  `json:"preTokenBalances"`
		PostTokenBalances []TokenBalance  `json:"postTokenBalances"`
	} `json:"meta"`
	Transaction struct {
		Message struct {
			AccountKeys []string `json:"accountKeys"`
		} `json:"message"`
	} `json:"transaction"`
}

// Succeeded reports whether the transaction executed without a chain error
func (t *TransactionDetail) Succeeded() bool {
	return len(t.Meta.Err) == 0 || string(t.Meta.Err) == "null"
}

// GetTransaction fetches an executed transaction, or ErrNotFound before the
// chain has recorded it.
func (c *Client) GetTransaction(ctx context.Context, signature string) (*TransactionDetail, error) {
	params := []any{signature, map[string]any{
		"encoding":                       "json",
		"commitment":                     CommitmentConfirmed,
		"maxSupportedTransactionVersion": 0,
	}}
	var raw json.RawMessage
	if err := c.call(ctx, "getTransaction", params, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNotFound
	}
	var tx TransactionDetail
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// VerifyTransfer checks that a confirmed transaction actually moved the
// expected amount from the player's wallet to the escrow account. The room
// mutation that follows trusts this check, so it reads balance deltas from
// the executed transaction rather than the submitted instruction list.
func VerifyTransfer(tx *TransactionDetail, from, escrow string, amount int64, mint string) error {
	if tx == nil {
		return ErrNotFound
	}
	if !tx.Succeeded() {
		return errors.New("transaction failed on chain")
	}

	keys := tx.Transaction.Message.AccountKeys
	if len(keys) == 0 || keys[0] != from {
		return fmt.Errorf("fee payer mismatch: expected %s", from)
	}

	if mint != "" {
		return verifyTokenDelta(tx, escrow, amount, mint)
	}

	escrowIdx := -1
	for i, key := range keys {
		if key == escrow {
			escrowIdx = i
			break
		}
	}
	if escrowIdx < 0 || escrowIdx >= len(tx.Meta.PostBalances) || escrowIdx >= len(tx.Meta.PreBalances) {
		return errors.New("escrow account not present in transaction")
	}

	delta := tx.Meta.PostBalances[escrowIdx] - tx.Meta.PreBalances[escrowIdx]
	if delta < amount {
		return fmt.Errorf("escrow received %d lamports, expected %d", delta, amount)
	}
	return nil
}

func verifyTokenDelta(tx *TransactionDetail, escrow string, amount int64, mint string) error {
	pre := map[int]int64{}
	for _, tb := range tx.Meta.PreTokenBalances {
		if tb.Mint == mint && tb.Owner == escrow {
			pre[tb.AccountIndex] = parseTokenAmount(tb.UITokenAmount.Amount)
		}
	}
	for _, tb := range tx.Meta.PostTokenBalances {
		if tb.Mint != mint || tb.Owner != escrow {
			continue
		}
		delta := parseTokenAmount(tb.UITokenAmount.Amount) - pre[tb.AccountIndex]
		if delta >= amount {
			return nil
		}
	}
	return fmt.Errorf("escrow token account did not receive %d units of %s", amount, mint)
}

func parseTokenAmount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
