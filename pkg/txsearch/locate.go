// Package txsearch finds an Ethereum transaction from its sender and nonce
// alone. Wallets may replace a broadcast transaction (speed up or cancel) with
// another one reusing the nonce; the replacement is recovered by binary
// searching the block where the sender's nonce count moved past it.
package txsearch

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/chainsafe/near-eth-transfer/pkg/ethereum"
)

// ChainReader is the read access the locator needs.
type ChainReader interface {
	// NonceAt returns the number of transactions sent by account as of the
	// given block. A nil block means the latest block.
	NonceAt(ctx context.Context, account string, block *big.Int) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BlockTransactions(ctx context.Context, number uint64) ([]ethereum.Transaction, error)
}

// SearchError means the block containing the nonce could not be resolved,
// typically because of a reorg during the search.
type SearchError struct {
	Msg string
}

func (e *SearchError) Error() string { return e.Msg }

// Locate returns the mined transaction sent by from with the given nonce,
// searching from lowerBound to the chain head. It returns (nil, nil) while the
// nonce is still pending.
func Locate(ctx context.Context, reader ChainReader, lowerBound uint64, from string, nonce uint64) (*ethereum.Transaction, error) {
	currentNonce, err := reader.NonceAt(ctx, from, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest nonce: %w", err)
	}
	if currentNonce <= nonce {
		return nil, nil
	}

	head, err := reader.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest block: %w", err)
	}

	txBlock, found, err := searchCrossing(ctx, reader, from, nonce, int64(lowerBound), int64(head))
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &SearchError{Msg: "Could not find replacement transaction. It may be due to a chain reorg."}
	}

	txs, err := reader.BlockTransactions(ctx, txBlock)
	if err != nil {
		return nil, fmt.Errorf("failed to get block %d: %w", txBlock, err)
	}
	// Several transactions from the same sender in one block: the first
	// (from, nonce) match in block order wins.
	for i := range txs {
		if strings.EqualFold(txs[i].From, from) && txs[i].Nonce == nonce {
			tx := txs[i]
			if tx.BlockNumber == 0 {
				tx.BlockNumber = txBlock
			}
			return &tx, nil
		}
	}
	return nil, &SearchError{Msg: "Error finding transaction in block."}
}

// searchCrossing finds the block where the nonce count of from goes past nonce.
func searchCrossing(ctx context.Context, reader ChainReader, from string, nonce uint64, minBlock, maxBlock int64) (uint64, bool, error) {
	target := nonce + 1
	for minBlock <= maxBlock {
		mid := minBlock + (maxBlock-minBlock)/2

		count, err := nonceAt(ctx, reader, from, mid)
		if err != nil {
			return 0, false, err
		}
		if count < target {
			minBlock = mid + 1
			continue
		}

		prev, err := nonceAt(ctx, reader, from, mid-1)
		if err != nil {
			return 0, false, err
		}
		if prev < target {
			return uint64(mid), true, nil
		}
		maxBlock = mid - 1
	}
	return 0, false, nil
}

func nonceAt(ctx context.Context, reader ChainReader, from string, block int64) (uint64, error) {
	if block < 0 {
		return 0, nil
	}
	n, err := reader.NonceAt(ctx, from, big.NewInt(block))
	if err != nil {
		return 0, fmt.Errorf("failed to get nonce at block %d: %w", block, err)
	}
	return n, nil
}
