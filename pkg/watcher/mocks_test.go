package watcher

import (
	"context"
	"sync"

	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	ListInProgressFunc func(ctx context.Context, limit int) ([]transfer.Transfer, error)
	SaveFunc       func(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)

	mu    sync.Mutex
	saved []transfer.Transfer
}

func (m *MockStore) ListInProgress(ctx context.Context, limit int) ([]transfer.Transfer, error) {
	if m.ListInProgressFunc != nil {
		return m.ListInProgressFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockStore) Save(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	m.mu.Lock()
	m.saved = append(m.saved, t)
	m.mu.Unlock()
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, t)
	}
	return t, nil
}

func (m *MockStore) Saved() []transfer.Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]transfer.Transfer(nil), m.saved...)
}

// MockChecker is a mock implementation of Checker
type MockChecker struct {
	CheckStatusFunc func(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
}

func (m *MockChecker) CheckStatus(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	if m.CheckStatusFunc != nil {
		return m.CheckStatusFunc(ctx, t)
	}
	return t, nil
}
