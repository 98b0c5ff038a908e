// Package near talks to the NEAR side of the bridge: view calls and
// transaction status over the NEAR JSON-RPC API, and the light client's view
// of Ethereum.
package near

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// ExecutionStatus is the final status of a NEAR transaction.
type ExecutionStatus int

const (
	// StatusUnknown means the transaction or one of its receipts is not processed yet.
	StatusUnknown ExecutionStatus = iota
	StatusFailure
	StatusSuccess
)

// TxOutcome is the subset of a NEAR execution outcome the mint check needs.
type TxOutcome struct {
	Hash    string
	Status  ExecutionStatus
	Failure string
}

// Client is a NEAR JSON-RPC client.
type Client struct {
	rpc           *rpc.Client
	accountID     string
	clientAccount string
	logger        *zap.Logger
}

// Dial connects to the NEAR RPC endpoint. accountID is the signer whose
// transactions are looked up; clientAccount is the Ethereum light client.
func Dial(ctx context.Context, url, accountID, clientAccount string, logger *zap.Logger) (*Client, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NEAR RPC: %w", err)
	}
	logger.Info("Connected to NEAR",
		zap.String("rpc_url", url),
		zap.String("account_id", accountID),
		zap.String("client_account", clientAccount))
	return &Client{rpc: c, accountID: accountID, clientAccount: clientAccount, logger: logger}, nil
}

// Close closes the RPC connection.
func (c *Client) Close() {
	c.rpc.Close()
}

type callFunctionResult struct {
	Result      []int    `json:"result"`
	Logs        []string `json:"logs"`
	BlockHeight uint64   `json:"block_height"`
}

// ViewFunction runs a read-only contract call and returns the raw result bytes.
func (c *Client) ViewFunction(ctx context.Context, contractID, method string, args []byte) ([]byte, error) {
	var res callFunctionResult
	path := fmt.Sprintf("call/%s/%s", contractID, method)
	if err := c.rpc.CallContext(ctx, &res, "query", path, base58.Encode(args)); err != nil {
		return nil, fmt.Errorf("failed to view %s.%s: %w", contractID, method, err)
	}
	out := make([]byte, len(res.Result))
	for i, b := range res.Result {
		out[i] = byte(b)
	}
	return out, nil
}

type finalOutcome struct {
	Status      json.RawMessage `json:"status"`
	Transaction struct {
		Hash string `json:"hash"`
	} `json:"transaction"`
}

// TxStatus returns the execution status of a transaction signed by the configured account.
func (c *Client) TxStatus(ctx context.Context, txHash string) (TxOutcome, error) {
	var res finalOutcome
	if err := c.rpc.CallContext(ctx, &res, "tx", txHash, c.accountID); err != nil {
		return TxOutcome{}, fmt.Errorf("failed to get status of %s: %w", txHash, err)
	}
	return parseOutcome(txHash, res)
}

func parseOutcome(txHash string, res finalOutcome) (TxOutcome, error) {
	out := TxOutcome{Hash: res.Transaction.Hash}
	if out.Hash == "" {
		out.Hash = txHash
	}

	// "NotStarted" and "Started" are plain strings; terminal states are objects.
	var plain string
	if err := json.Unmarshal(res.Status, &plain); err == nil {
		out.Status = StatusUnknown
		return out, nil
	}

	var status map[string]json.RawMessage
	if err := json.Unmarshal(res.Status, &status); err != nil {
		return TxOutcome{}, fmt.Errorf("failed to decode status of %s: %w", txHash, err)
	}
	switch {
	case status["Failure"] != nil:
		out.Status = StatusFailure
		out.Failure = string(status["Failure"])
	case status["SuccessValue"] != nil:
		out.Status = StatusSuccess
	default:
		out.Status = StatusUnknown
	}
	return out, nil
}

// EthOnNearSyncHeight returns the last Ethereum block known to the light client.
func (c *Client) EthOnNearSyncHeight(ctx context.Context) (uint64, error) {
	raw, err := c.ViewFunction(ctx, c.clientAccount, "last_block_number", nil)
	if err != nil {
		return 0, err
	}
	return decodeHeight(raw)
}

// decodeHeight accepts a JSON number or a borsh u64.
func decodeHeight(raw []byte) (uint64, error) {
	h, err := strconv.ParseUint(string(raw), 10, 64)
	if err == nil {
		return h, nil
	}
	if len(raw) == 8 {
		return binary.LittleEndian.Uint64(raw), nil
	}
	return 0, fmt.Errorf("unexpected light client height %q: %w", raw, err)
}

// IsUsedProof asks the EVM account whether proof was already consumed.
func IsUsedProof(raw []byte) bool {
	return len(raw) > 0 && raw[0] != 0
}
