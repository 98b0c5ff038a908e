package txsearch

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/chainsafe/near-eth-transfer/pkg/ethereum"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

// EventReader decodes contract logs of a single event over a block range.
type EventReader interface {
	FilterEvents(ctx context.Context, address string, contractABI abi.ABI, event string, fromBlock, toBlock uint64) ([]ethereum.Event, error)
}

// Reader is everything FindReplacement needs.
type Reader interface {
	ChainReader
	EventReader
}

// TxValidationError means the located transaction is not the one the caller
// broadcast: it was canceled or replaced by something else.
type TxValidationError struct {
	TxHash string
	Msg    string
}

func (e *TxValidationError) Error() string { return e.Msg }

// EventExpectation describes an event the replacement must have emitted.
type EventExpectation struct {
	Address  string
	ABI      abi.ABI
	Name     string
	Validate func(args map[string]any) bool
}

// IsCanceled reports whether tx is the canonical wallet cancel: an empty
// zero-value transaction to self.
func IsCanceled(tx ethereum.Transaction) bool {
	return tx.HasEmptyData() && tx.IsSelfTransfer() && tx.ValueString() == "0"
}

// Validate checks tx against what the caller originally broadcast.
// events may be nil when expected is nil.
func Validate(ctx context.Context, events EventReader, tx *ethereum.Transaction, query transfer.Query, expected *EventExpectation) (*ethereum.Transaction, error) {
	if IsCanceled(*tx) {
		return nil, &TxValidationError{TxHash: tx.Hash, Msg: fmt.Sprintf("Transaction canceled: %s", tx.Hash)}
	}

	if !strings.EqualFold(tx.To, query.To) {
		return nil, replacedErr(tx.Hash, "recipient", query.To, tx.To)
	}

	if query.Data != "" && tx.Data != query.Data {
		return nil, replacedErr(tx.Hash, "data", query.Data, tx.Data)
	}

	if query.Value != "" && tx.ValueString() != query.Value {
		return nil, replacedErr(tx.Hash, "value", query.Value, tx.ValueString())
	}

	if expected != nil {
		if err := validateEvent(ctx, events, tx, expected); err != nil {
			return nil, err
		}
	}
	return tx, nil
}

func validateEvent(ctx context.Context, events EventReader, tx *ethereum.Transaction, expected *EventExpectation) error {
	if events == nil {
		return fmt.Errorf("no event reader to validate %s", expected.Name)
	}
	logs, err := events.FilterEvents(ctx, expected.Address, expected.ABI, expected.Name, tx.BlockNumber, tx.BlockNumber)
	if err != nil {
		return fmt.Errorf("failed to query %s events: %w", expected.Name, err)
	}
	for _, ev := range logs {
		if !strings.EqualFold(ev.TxHash, tx.Hash) {
			continue
		}
		if expected.Validate == nil || expected.Validate(ev.Args) {
			return nil
		}
		break
	}
	return &TxValidationError{
		TxHash: tx.Hash,
		Msg:    fmt.Sprintf("Failed to validate event. Transaction was dropped and replaced by '%s'", tx.Hash),
	}
}

func replacedErr(hash, field, want, got string) *TxValidationError {
	return &TxValidationError{
		TxHash: hash,
		Msg: fmt.Sprintf("Failed to validate transaction %s. Expected %s, got %s. Transaction was dropped and replaced by '%s'",
			field, want, got, hash),
	}
}

// FindReplacement locates the transaction that took the nonce of a dropped
// one and checks it still does what was asked. It returns (nil, nil) while
// the nonce is pending.
func FindReplacement(ctx context.Context, reader Reader, lowerBound uint64, query transfer.Query, expected *EventExpectation) (*ethereum.Transaction, error) {
	tx, err := Locate(ctx, reader, lowerBound, query.From, query.Nonce)
	if err != nil || tx == nil {
		return nil, err
	}
	return Validate(ctx, reader, tx, query, expected)
}
