package ethereum

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Transaction is a mined transaction as seen by the locator.
type Transaction struct {
	Hash        string
	From        string
	To          string // empty for contract creation
	Nonce       uint64
	Data        string // 0x prefixed hex calldata
	Value       *big.Int
	BlockNumber uint64
}

// HasEmptyData reports whether the transaction carries no calldata.
func (tx Transaction) HasEmptyData() bool {
	return tx.Data == "" || tx.Data == "0x"
}

// IsSelfTransfer reports whether the transaction was sent to its own signer.
func (tx Transaction) IsSelfTransfer() bool {
	return tx.To != "" && strings.EqualFold(tx.From, tx.To)
}

// ValueString returns the wei value in base 10.
func (tx Transaction) ValueString() string {
	if tx.Value == nil {
		return "0"
	}
	return tx.Value.String()
}

// Receipt is the subset of a transaction receipt used by the transfer flow.
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	Succeeded   bool
}

// Event is a decoded contract log.
type Event struct {
	Name        string
	Address     string
	TxHash      string
	BlockNumber uint64
	LogIndex    uint
	Args        map[string]any
}

// LockSubmission is what the wallet returns right after broadcasting the lock
// call, before it is mined.
type LockSubmission struct {
	Hash  string
	From  string
	To    string
	Nonce uint64
	Input string
}

// DepositedEvent is the custodian's Deposited(sender, recipient, amount, fee) log.
type DepositedEvent struct {
	Sender      string
	Recipient   string
	Amount      *big.Int
	Fee         *big.Int
	BlockNumber uint64
	TxHash      string
}

// DepositedFromEvent decodes a custodian Deposited log.
func DepositedFromEvent(ev Event) (*DepositedEvent, error) {
	sender, ok := ev.Args["sender"].(common.Address)
	if !ok {
		return nil, fmt.Errorf("deposited event %s: missing sender", ev.TxHash)
	}
	recipient, ok := ev.Args["recipient"].(string)
	if !ok {
		return nil, fmt.Errorf("deposited event %s: missing recipient", ev.TxHash)
	}
	amount, ok := ev.Args["amount"].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("deposited event %s: missing amount", ev.TxHash)
	}
	fee, _ := ev.Args["fee"].(*big.Int)
	return &DepositedEvent{
		Sender:      sender.Hex(),
		Recipient:   recipient,
		Amount:      amount,
		Fee:         fee,
		BlockNumber: ev.BlockNumber,
		TxHash:      ev.TxHash,
	}, nil
}
