// Package redirect carries the outcome of a wallet signing round trip back to
// the transfer flow. It holds a single global slot: at most one mint can be
// waiting for the wallet at any time.
package redirect

import (
	"context"
	"sync"
)

// Message is the content of the slot.
type Message struct {
	// TransferID is set by the flow right before handing a call to the wallet.
	TransferID string `json:"transferId,omitempty"`
	// TxHashes is the comma separated list of hashes returned by the wallet.
	TxHashes string `json:"transactionHashes,omitempty"`
	// ErrorCode is set by the wallet when the user rejected or the call failed.
	ErrorCode string `json:"errorCode,omitempty"`
}

// IsEmpty reports whether nothing is waiting in the slot.
func (m Message) IsEmpty() bool {
	return m.TransferID == "" && m.TxHashes == "" && m.ErrorCode == ""
}

// Outcome is what the wallet reports once the user has signed or rejected.
type Outcome struct {
	TxHashes  string `json:"transactionHashes,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// Channel is the wallet redirect slot.
type Channel interface {
	// Send records that transferID is about to be signed, dropping any
	// outcome left from an earlier round.
	Send(ctx context.Context, transferID string) error
	// Deliver records the wallet outcome.
	Deliver(ctx context.Context, outcome Outcome) error
	// Receive returns the slot content without consuming it.
	Receive(ctx context.Context) (Message, error)
	// Clear empties the slot.
	Clear(ctx context.Context) error
}

// Memory is a process-local Channel.
type Memory struct {
	mu  sync.Mutex
	msg Message
}

var _ Channel = (*Memory)(nil)

// NewMemory returns an empty in-memory channel.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Send(_ context.Context, transferID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msg = Message{TransferID: transferID}
	return nil
}

func (m *Memory) Deliver(_ context.Context, outcome Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if outcome.TxHashes != "" {
		m.msg.TxHashes = outcome.TxHashes
	}
	if outcome.ErrorCode != "" {
		m.msg.ErrorCode = outcome.ErrorCode
	}
	return nil
}

func (m *Memory) Receive(context.Context) (Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.msg, nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msg = Message{}
	return nil
}
