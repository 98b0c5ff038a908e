package txsearch

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/near-eth-transfer/pkg/ethereum"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

const (
	alice     = "0xAbCdEf0000000000000000000000000000000001"
	custodian = "0x00000000000000000000000000000000000C0575"
	lockData  = "0xdeadbeef"
)

// aliceChain mines one transaction from alice every `every` blocks starting at
// `start`, returning the chain and the mined transactions in nonce order.
func aliceChain(height, start, every, count int) (*fakeChain, []ethereum.Transaction) {
	c := newFakeChain(height)
	var mined []ethereum.Transaction
	for i := 0; i < count; i++ {
		mined = append(mined, c.mine(start+i*every, ethereum.Transaction{
			From:  alice,
			To:    custodian,
			Nonce: uint64(i),
			Data:  lockData,
			Value: big.NewInt(1),
		}))
	}
	return c, mined
}

func TestLocate_FindsEveryMinedNonce(t *testing.T) {
	ctx := context.Background()
	chain, mined := aliceChain(500, 3, 17, 25)

	for _, want := range mined {
		got, err := Locate(ctx, chain, 0, alice, want.Nonce)
		require.NoError(t, err, "nonce %d", want.Nonce)
		require.NotNil(t, got, "nonce %d", want.Nonce)
		assert.Equal(t, want.Hash, got.Hash)
		assert.Equal(t, want.BlockNumber, got.BlockNumber)
	}
}

func TestLocate_CaseInsensitiveSender(t *testing.T) {
	chain, mined := aliceChain(64, 10, 5, 3)

	got, err := Locate(context.Background(), chain, 0, "0xabcdef0000000000000000000000000000000001", 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, mined[1].Hash, got.Hash)
}

func TestLocate_PendingReturnsNil(t *testing.T) {
	chain, _ := aliceChain(64, 10, 5, 3)

	for _, nonce := range []uint64{3, 4, 100} {
		got, err := Locate(context.Background(), chain, 0, alice, nonce)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestLocate_EveryCrossingPoint(t *testing.T) {
	ctx := context.Background()
	const height = 40
	for crossing := 0; crossing <= height; crossing++ {
		chain := newFakeChain(height)
		want := chain.mine(crossing, ethereum.Transaction{From: alice, To: custodian, Nonce: 0})

		got, err := Locate(ctx, chain, 0, alice, 0)
		require.NoError(t, err, "crossing %d", crossing)
		require.NotNil(t, got, "crossing %d", crossing)
		assert.Equal(t, want.Hash, got.Hash)
	}
}

func TestLocate_LowerBoundAboveCrossing(t *testing.T) {
	chain, _ := aliceChain(100, 10, 1, 1)

	_, err := Locate(context.Background(), chain, 50, alice, 0)
	var searchErr *SearchError
	require.True(t, errors.As(err, &searchErr))
	assert.Contains(t, searchErr.Error(), "chain reorg")
}

func TestLocate_NoCrossingInRange(t *testing.T) {
	// The latest nonce says the tx was mined, but historical reads disagree,
	// as happens when the chain reorganises during the search.
	chain := newFakeChain(32)
	chain.nonceOverride = func(_ string, block *big.Int) (uint64, bool) {
		if block == nil {
			return 1, true
		}
		return 0, true
	}

	_, err := Locate(context.Background(), chain, 0, alice, 0)
	var searchErr *SearchError
	require.True(t, errors.As(err, &searchErr))
}

func TestLocate_TransactionMissingFromBlock(t *testing.T) {
	chain := newFakeChain(16)
	chain.nonceOverride = func(_ string, block *big.Int) (uint64, bool) {
		if block == nil || block.Int64() >= 8 {
			return 1, true
		}
		return 0, true
	}

	_, err := Locate(context.Background(), chain, 0, alice, 0)
	var searchErr *SearchError
	require.True(t, errors.As(err, &searchErr))
	assert.Contains(t, searchErr.Error(), "Error finding transaction in block")
}

func TestLocate_LogarithmicReads(t *testing.T) {
	chain, _ := aliceChain(4096, 3000, 1, 1)
	chain.nonceCalls = 0

	_, err := Locate(context.Background(), chain, 0, alice, 0)
	require.NoError(t, err)
	// one latest read plus at most two reads per halving of 4097 blocks
	assert.LessOrEqual(t, chain.nonceCalls, 1+2*13)
}

func TestLocate_FirstMatchInBlockWins(t *testing.T) {
	chain := newFakeChain(10)
	first := chain.mine(5, ethereum.Transaction{From: alice, To: custodian, Nonce: 0, Hash: "0x01"})
	chain.mine(5, ethereum.Transaction{From: alice, To: custodian, Nonce: 1, Hash: "0x02"})

	got, err := Locate(context.Background(), chain, 0, alice, 0)
	require.NoError(t, err)
	assert.Equal(t, first.Hash, got.Hash)

	got, err = Locate(context.Background(), chain, 0, alice, 1)
	require.NoError(t, err)
	assert.Equal(t, "0x02", got.Hash)
}

func TestIsCanceled(t *testing.T) {
	cancel := ethereum.Transaction{Hash: "0xc", From: alice, To: alice, Data: "0x", Value: big.NewInt(0)}
	assert.True(t, IsCanceled(cancel))
	assert.True(t, IsCanceled(cancel), "classification is repeatable")

	withValue := cancel
	withValue.Value = big.NewInt(1)
	assert.False(t, IsCanceled(withValue))

	withData := cancel
	withData.Data = lockData
	assert.False(t, IsCanceled(withData))

	toOther := cancel
	toOther.To = custodian
	assert.False(t, IsCanceled(toOther))

	nilValue := cancel
	nilValue.Value = nil
	assert.True(t, IsCanceled(nilValue))
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	good := &ethereum.Transaction{Hash: "0xgood", From: alice, To: custodian, Data: lockData, Value: big.NewInt(5)}

	tests := []struct {
		name    string
		tx      *ethereum.Transaction
		query   transfer.Query
		wantErr bool
		wantMsg string
	}{
		{
			name:  "matching",
			tx:    good,
			query: transfer.Query{From: alice, To: custodian, Data: lockData, Value: "5"},
		},
		{
			name:  "recipient case insensitive",
			tx:    good,
			query: transfer.Query{From: alice, To: "0x00000000000000000000000000000000000c0575"},
		},
		{
			name:    "canceled regardless of query",
			tx:      &ethereum.Transaction{Hash: "0xcancel", From: alice, To: alice, Data: "0x", Value: big.NewInt(0)},
			query:   transfer.Query{From: alice, To: alice},
			wantErr: true,
			wantMsg: "canceled",
		},
		{
			name:    "wrong recipient",
			tx:      good,
			query:   transfer.Query{From: alice, To: alice},
			wantErr: true,
			wantMsg: "recipient",
		},
		{
			name:    "wrong data",
			tx:      good,
			query:   transfer.Query{From: alice, To: custodian, Data: "0x01"},
			wantErr: true,
			wantMsg: "data",
		},
		{
			name:    "wrong value",
			tx:      good,
			query:   transfer.Query{From: alice, To: custodian, Value: "6"},
			wantErr: true,
			wantMsg: "value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Validate(ctx, nil, tt.tx, tt.query, nil)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.tx.Hash, got.Hash)
				return
			}
			var vErr *TxValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Contains(t, vErr.Error(), tt.wantMsg)
			assert.Contains(t, vErr.Error(), tt.tx.Hash)
			assert.Equal(t, tt.tx.Hash, vErr.TxHash)
		})
	}
}

func TestValidate_Event(t *testing.T) {
	ctx := context.Background()
	chain := newFakeChain(10)
	tx := chain.mine(4, ethereum.Transaction{From: alice, To: custodian, Nonce: 0, Data: lockData, Value: big.NewInt(5)})
	chain.events = []ethereum.Event{
		{Name: "Deposited", Address: custodian, TxHash: "0xother", BlockNumber: 4, Args: map[string]any{"amount": big.NewInt(1)}},
		{Name: "Deposited", Address: custodian, TxHash: tx.Hash, BlockNumber: 4, Args: map[string]any{"amount": big.NewInt(5)}},
	}

	amountIs := func(want int64) func(map[string]any) bool {
		return func(args map[string]any) bool {
			v, ok := args["amount"].(*big.Int)
			return ok && v.Int64() == want
		}
	}
	query := transfer.Query{From: alice, To: custodian}

	got, err := Validate(ctx, chain, &tx, query, &EventExpectation{Address: custodian, Name: "Deposited", Validate: amountIs(5)})
	require.NoError(t, err)
	assert.Equal(t, tx.Hash, got.Hash)

	_, err = Validate(ctx, chain, &tx, query, &EventExpectation{Address: custodian, Name: "Deposited", Validate: amountIs(6)})
	var vErr *TxValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Error(), tx.Hash)

	_, err = Validate(ctx, chain, &tx, query, &EventExpectation{Address: custodian, Name: "Withdrawn"})
	require.True(t, errors.As(err, &vErr))
}

func TestFindReplacement(t *testing.T) {
	ctx := context.Background()
	chain := newFakeChain(50)
	chain.mine(2, ethereum.Transaction{From: alice, To: custodian, Nonce: 0})
	sped := chain.mine(30, ethereum.Transaction{From: alice, To: custodian, Nonce: 1, Data: lockData, Value: big.NewInt(9)})

	got, err := FindReplacement(ctx, chain, 10, transfer.Query{From: alice, To: custodian, Nonce: 1, Data: lockData}, nil)
	require.NoError(t, err)
	assert.Equal(t, sped.Hash, got.Hash)

	pending, err := FindReplacement(ctx, chain, 10, transfer.Query{From: alice, To: custodian, Nonce: 2}, nil)
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestFindReplacement_Canceled(t *testing.T) {
	chain := newFakeChain(50)
	cancel := chain.mine(30, ethereum.Transaction{From: alice, To: alice, Nonce: 0, Data: "0x", Value: big.NewInt(0)})

	_, err := FindReplacement(context.Background(), chain, 10, transfer.Query{From: alice, To: custodian, Nonce: 0, Data: lockData}, nil)
	var vErr *TxValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Error(), "canceled")
	assert.Equal(t, cancel.Hash, vErr.TxHash)
}
