package near

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// newRPCServer answers every JSON-RPC call with handle's result.
func newRPCServer(t *testing.T, handle func(req rpcRequest) any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result":  handle(req),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func param(t *testing.T, req rpcRequest, i int) string {
	t.Helper()
	require.Greater(t, len(req.Params), i)
	var s string
	require.NoError(t, json.Unmarshal(req.Params[i], &s))
	return s
}

func TestClient_ViewFunction(t *testing.T) {
	var got rpcRequest
	srv := newRPCServer(t, func(req rpcRequest) any {
		got = req
		return map[string]any{"result": []int{1}, "logs": []string{}, "block_height": 10}
	})

	c, err := Dial(context.Background(), srv.URL, "alice.near", "client.bridge.near", zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	res, err := c.ViewFunction(context.Background(), "aurora", "is_used_proof", []byte{0xca, 0xfe})
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, res)
	assert.True(t, IsUsedProof(res))

	assert.Equal(t, "query", got.Method)
	assert.Equal(t, "call/aurora/is_used_proof", param(t, got, 0))
	assert.Equal(t, []byte{0xca, 0xfe}, base58.Decode(param(t, got, 1)))
}

func TestClient_EthOnNearSyncHeight(t *testing.T) {
	srv := newRPCServer(t, func(rpcRequest) any {
		// 1234 as borsh u64
		return map[string]any{"result": []int{0xd2, 0x04, 0, 0, 0, 0, 0, 0}}
	})

	c, err := Dial(context.Background(), srv.URL, "alice.near", "client.bridge.near", zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	h, err := c.EthOnNearSyncHeight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), h)
}

func TestClient_TxStatus(t *testing.T) {
	tests := []struct {
		name    string
		status  any
		want    ExecutionStatus
		failure bool
	}{
		{name: "success", status: map[string]any{"SuccessValue": ""}, want: StatusSuccess},
		{name: "failure", status: map[string]any{"Failure": map[string]any{"ActionError": map[string]any{"index": 0}}}, want: StatusFailure, failure: true},
		{name: "started", status: "Started", want: StatusUnknown},
		{name: "not started", status: "NotStarted", want: StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got rpcRequest
			srv := newRPCServer(t, func(req rpcRequest) any {
				got = req
				return map[string]any{
					"status":      tt.status,
					"transaction": map[string]any{"hash": "9uYUR2bWc1"},
				}
			})
			c, err := Dial(context.Background(), srv.URL, "alice.near", "client.bridge.near", zap.NewNop())
			require.NoError(t, err)
			defer c.Close()

			out, err := c.TxStatus(context.Background(), "9uYUR2bWc1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Status)
			assert.Equal(t, "9uYUR2bWc1", out.Hash)
			assert.Equal(t, tt.failure, out.Failure != "")

			assert.Equal(t, "tx", got.Method)
			assert.Equal(t, "9uYUR2bWc1", param(t, got, 0))
			assert.Equal(t, "alice.near", param(t, got, 1))
		})
	}
}

func TestDecodeHeight(t *testing.T) {
	h, err := decodeHeight([]byte("15000000"))
	require.NoError(t, err)
	assert.Equal(t, uint64(15000000), h)

	h, err = decodeHeight([]byte{1, 0, 0, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), h)

	_, err = decodeHeight([]byte{1, 2})
	assert.Error(t, err)
}

func TestIsUsedProof(t *testing.T) {
	assert.False(t, IsUsedProof(nil))
	assert.False(t, IsUsedProof([]byte{0}))
	assert.True(t, IsUsedProof([]byte{1}))
}

func TestProofClient_FindEthProof(t *testing.T) {
	var got rpcRequest
	srv := newRPCServer(t, func(req rpcRequest) any {
		got = req
		return "0x0102"
	})

	p, err := DialProofService(context.Background(), srv.URL)
	require.NoError(t, err)
	defer p.Close()

	proof, err := p.FindEthProof(context.Background(), "Deposited", "0xabc", "0xc0575")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, proof)
	assert.Equal(t, findEthProofMethod, got.Method)
	assert.Equal(t, "Deposited", param(t, got, 0))
	assert.Equal(t, "0xabc", param(t, got, 1))
}

func TestWallet(t *testing.T) {
	w := NewWallet()
	_, ok := w.Pending()
	assert.False(t, ok)

	args := []byte{1, 2, 3}
	require.NoError(t, w.FunctionCall(context.Background(), FunctionCall{
		ContractID: "aurora",
		MethodName: "deposit",
		Args:       args,
		Gas:        200_000_000_000_000,
		Deposit:    big.NewInt(600),
	}))
	args[0] = 9

	call, ok := w.Pending()
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, call.Args, "queued args are copied")
	assert.False(t, call.CreatedAt.IsZero())

	require.NoError(t, w.FunctionCall(context.Background(), FunctionCall{ContractID: "aurora", MethodName: "other"}))
	call, ok = w.Take()
	require.True(t, ok)
	assert.Equal(t, "other", call.MethodName, "newest request wins")

	_, ok = w.Take()
	assert.False(t, ok)
}
