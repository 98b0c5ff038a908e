package sendtonear

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"github.com/chainsafe/near-eth-transfer/pkg/ethereum"
	"github.com/chainsafe/near-eth-transfer/pkg/near"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

// MockChain is a mock implementation of SourceChain
type MockChain struct {
	ChainIDFunc            func(ctx context.Context) (int64, error)
	BlockNumberFunc        func(ctx context.Context) (uint64, error)
	NonceAtFunc            func(ctx context.Context, account string, block *big.Int) (uint64, error)
	BlockTransactionsFunc  func(ctx context.Context, number uint64) ([]ethereum.Transaction, error)
	TransactionReceiptFunc func(ctx context.Context, hash string) (*ethereum.Receipt, error)
	FilterEventsFunc       func(ctx context.Context, address string, contractABI abi.ABI, event string, fromBlock, toBlock uint64) ([]ethereum.Event, error)
}

func (m *MockChain) ChainID(ctx context.Context) (int64, error) {
	if m.ChainIDFunc != nil {
		return m.ChainIDFunc(ctx)
	}
	return 0, nil
}

func (m *MockChain) BlockNumber(ctx context.Context) (uint64, error) {
	if m.BlockNumberFunc != nil {
		return m.BlockNumberFunc(ctx)
	}
	return 0, nil
}

func (m *MockChain) NonceAt(ctx context.Context, account string, block *big.Int) (uint64, error) {
	if m.NonceAtFunc != nil {
		return m.NonceAtFunc(ctx, account, block)
	}
	return 0, nil
}

func (m *MockChain) BlockTransactions(ctx context.Context, number uint64) ([]ethereum.Transaction, error) {
	if m.BlockTransactionsFunc != nil {
		return m.BlockTransactionsFunc(ctx, number)
	}
	return nil, nil
}

func (m *MockChain) TransactionReceipt(ctx context.Context, hash string) (*ethereum.Receipt, error) {
	if m.TransactionReceiptFunc != nil {
		return m.TransactionReceiptFunc(ctx, hash)
	}
	return nil, nil
}

func (m *MockChain) FilterEvents(
	ctx context.Context,
	address string,
	contractABI abi.ABI,
	event string,
	fromBlock, toBlock uint64) ([]ethereum.Event, error) {
	if m.FilterEventsFunc != nil {
		return m.FilterEventsFunc(ctx, address, contractABI, event, fromBlock, toBlock)
	}
	return nil, nil
}

// MockSigner is a mock implementation of LockSubmitter
type MockSigner struct {
	ChainIDFunc       func(ctx context.Context) (int64, error)
	BlockNumberFunc   func(ctx context.Context) (uint64, error)
	DepositToNearFunc func(ctx context.Context, recipient string, fee, amount *big.Int) (*ethereum.LockSubmission, error)
}

func (m *MockSigner) ChainID(ctx context.Context) (int64, error) {
	if m.ChainIDFunc != nil {
		return m.ChainIDFunc(ctx)
	}
	return 0, nil
}

func (m *MockSigner) BlockNumber(ctx context.Context) (uint64, error) {
	if m.BlockNumberFunc != nil {
		return m.BlockNumberFunc(ctx)
	}
	return 0, nil
}

func (m *MockSigner) DepositToNear(ctx context.Context, recipient string, fee, amount *big.Int) (*ethereum.LockSubmission, error) {
	if m.DepositToNearFunc != nil {
		return m.DepositToNearFunc(ctx, recipient, fee, amount)
	}
	return nil, nil
}

// MockNear is a mock implementation of NearAccount
type MockNear struct {
	ViewFunctionFunc func(ctx context.Context, contractID, method string, args []byte) ([]byte, error)
	FunctionCallFunc func(ctx context.Context, call near.FunctionCall) error
	TxStatusFunc     func(ctx context.Context, txHash string) (near.TxOutcome, error)
}

func (m *MockNear) ViewFunction(ctx context.Context, contractID, method string, args []byte) ([]byte, error) {
	if m.ViewFunctionFunc != nil {
		return m.ViewFunctionFunc(ctx, contractID, method, args)
	}
	return nil, nil
}

func (m *MockNear) FunctionCall(ctx context.Context, call near.FunctionCall) error {
	if m.FunctionCallFunc != nil {
		return m.FunctionCallFunc(ctx, call)
	}
	return nil
}

func (m *MockNear) TxStatus(ctx context.Context, txHash string) (near.TxOutcome, error) {
	if m.TxStatusFunc != nil {
		return m.TxStatusFunc(ctx, txHash)
	}
	return near.TxOutcome{}, nil
}

// MockOracle is a mock implementation of SyncOracle
type MockOracle struct {
	EthOnNearSyncHeightFunc func(ctx context.Context) (uint64, error)
}

func (m *MockOracle) EthOnNearSyncHeight(ctx context.Context) (uint64, error) {
	if m.EthOnNearSyncHeightFunc != nil {
		return m.EthOnNearSyncHeightFunc(ctx)
	}
	return 0, nil
}

// MockProofs is a mock implementation of ProofBuilder
type MockProofs struct {
	FindEthProofFunc func(ctx context.Context, eventName, txHash, contract string) ([]byte, error)
}

func (m *MockProofs) FindEthProof(ctx context.Context, eventName, txHash, contract string) ([]byte, error) {
	if m.FindEthProofFunc != nil {
		return m.FindEthProofFunc(ctx, eventName, txHash, contract)
	}
	return nil, nil
}

// MockTracker is a mock implementation of Tracker
type MockTracker struct {
	TrackFunc func(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
}

func (m *MockTracker) Track(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	if m.TrackFunc != nil {
		return m.TrackFunc(ctx, t)
	}
	return t, nil
}
