package near

import (
	"context"
	"math/big"
	"sync"
	"time"
)

// FunctionCall is a contract call that has to be signed by the user's wallet.
type FunctionCall struct {
	ContractID string    `json:"contractId"`
	MethodName string    `json:"methodName"`
	Args       []byte    `json:"args"`
	Gas        uint64    `json:"gas"`
	Deposit    *big.Int  `json:"deposit"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Wallet queues function calls for the user's wallet. The frontend picks the
// request up, has it signed and reports the outcome through the wallet
// callback.
type Wallet struct {
	mu      sync.Mutex
	pending *FunctionCall
	now     func() time.Time
}

// NewWallet returns a wallet with no pending request.
func NewWallet() *Wallet {
	return &Wallet{now: time.Now}
}

// FunctionCall queues call for signing, replacing a request the frontend
// never picked up.
func (w *Wallet) FunctionCall(_ context.Context, call FunctionCall) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	call.Args = append([]byte(nil), call.Args...)
	call.CreatedAt = w.now()
	w.pending = &call
	return nil
}

// Take returns the pending request and removes it from the queue.
func (w *Wallet) Take() (FunctionCall, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return FunctionCall{}, false
	}
	call := *w.pending
	w.pending = nil
	return call, true
}

// Pending returns the pending request without removing it.
func (w *Wallet) Pending() (FunctionCall, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pending == nil {
		return FunctionCall{}, false
	}
	return *w.pending, true
}

// Account is a NEAR account whose view calls go over RPC and whose function
// calls are signed by the user's wallet.
type Account struct {
	*Client
	*Wallet
}
