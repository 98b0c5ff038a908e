package txsearch

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/chainsafe/near-eth-transfer/pkg/ethereum"
)

// fakeChain is an in-memory chain: blocks[i] holds the transactions mined in block i.
type fakeChain struct {
	blocks [][]ethereum.Transaction
	events []ethereum.Event

	// nonceOverride replaces the computed nonce count when set.
	nonceOverride func(account string, block *big.Int) (uint64, bool)
	nonceCalls    int
}

func newFakeChain(height int) *fakeChain {
	return &fakeChain{blocks: make([][]ethereum.Transaction, height+1)}
}

// mine appends tx to block n, filling hash and block number.
func (c *fakeChain) mine(n int, tx ethereum.Transaction) ethereum.Transaction {
	tx.BlockNumber = uint64(n)
	if tx.Hash == "" {
		tx.Hash = fmt.Sprintf("0x%064x", n*1000+len(c.blocks[n]))
	}
	c.blocks[n] = append(c.blocks[n], tx)
	return tx
}

func (c *fakeChain) NonceAt(_ context.Context, account string, block *big.Int) (uint64, error) {
	c.nonceCalls++
	if c.nonceOverride != nil {
		if n, ok := c.nonceOverride(account, block); ok {
			return n, nil
		}
	}
	last := len(c.blocks) - 1
	if block != nil {
		last = int(block.Int64())
	}
	if last >= len(c.blocks) {
		return 0, errors.New("block not found")
	}
	var count uint64
	for i := 0; i <= last; i++ {
		for _, tx := range c.blocks[i] {
			if strings.EqualFold(tx.From, account) {
				count++
			}
		}
	}
	return count, nil
}

func (c *fakeChain) BlockNumber(context.Context) (uint64, error) {
	return uint64(len(c.blocks) - 1), nil
}

func (c *fakeChain) BlockTransactions(_ context.Context, number uint64) ([]ethereum.Transaction, error) {
	if int(number) >= len(c.blocks) {
		return nil, errors.New("block not found")
	}
	return c.blocks[number], nil
}

func (c *fakeChain) FilterEvents(_ context.Context, address string, _ abi.ABI, event string, fromBlock, toBlock uint64) ([]ethereum.Event, error) {
	var out []ethereum.Event
	for _, ev := range c.events {
		if strings.EqualFold(ev.Address, address) && ev.Name == event &&
			ev.BlockNumber >= fromBlock && ev.BlockNumber <= toBlock {
			out = append(out, ev)
		}
	}
	return out, nil
}
