package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/near-eth-transfer/pkg/app/errors"
	"github.com/chainsafe/near-eth-transfer/pkg/near"
	"github.com/chainsafe/near-eth-transfer/pkg/redirect"
	"github.com/chainsafe/near-eth-transfer/pkg/sendtonear"
	"github.com/chainsafe/near-eth-transfer/pkg/tokenmeta"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
	"github.com/chainsafe/near-eth-transfer/pkg/transferstore"
)

type fakeStore struct {
	GetFunc  func(ctx context.Context, id string) (transfer.Transfer, error)
	SaveFunc func(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
	ListFunc func(ctx context.Context, opts ...transferstore.QueryOption) ([]transfer.Transfer, error)
}

func (f *fakeStore) Get(ctx context.Context, id string) (transfer.Transfer, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, id)
	}
	return transfer.Transfer{}, transferstore.ErrTransferNotFound
}

func (f *fakeStore) Save(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	if f.SaveFunc != nil {
		return f.SaveFunc(ctx, t)
	}
	return t, nil
}

func (f *fakeStore) List(ctx context.Context, opts ...transferstore.QueryOption) ([]transfer.Transfer, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, opts...)
	}
	return nil, nil
}

type fakeMachine struct {
	InitiateFunc func(ctx context.Context, req sendtonear.InitiateRequest) (transfer.Transfer, error)
	RecoverFunc  func(ctx context.Context, hash string) (transfer.Transfer, error)
	ActFunc      func(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
}

func (f *fakeMachine) Initiate(ctx context.Context, req sendtonear.InitiateRequest) (transfer.Transfer, error) {
	if f.InitiateFunc != nil {
		return f.InitiateFunc(ctx, req)
	}
	return transfer.Transfer{}, nil
}

func (f *fakeMachine) Recover(ctx context.Context, hash string) (transfer.Transfer, error) {
	if f.RecoverFunc != nil {
		return f.RecoverFunc(ctx, hash)
	}
	return transfer.Transfer{}, nil
}

func (f *fakeMachine) Act(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	if f.ActFunc != nil {
		return f.ActFunc(ctx, t)
	}
	return t, nil
}

type fakeTokens struct {
	GetFunc func(ctx context.Context, token, user string) (*tokenmeta.Metadata, error)
}

func (f *fakeTokens) Get(ctx context.Context, token, user string) (*tokenmeta.Metadata, error) {
	return f.GetFunc(ctx, token, user)
}

func newTestService(deps Dependencies) *transferService {
	if deps.Store == nil {
		deps.Store = &fakeStore{}
	}
	if deps.Machine == nil {
		deps.Machine = &fakeMachine{}
	}
	if deps.Wallet == nil {
		deps.Wallet = near.NewWallet()
	}
	if deps.Channel == nil {
		deps.Channel = redirect.NewMemory()
	}
	return NewService(deps, 10, zap.NewNop()).(*transferService)
}

func requireCategory(t *testing.T, err error, cat apperrors.Category) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, cat), "expected %s, got %v", cat, err)
}

func lockedTransfer(id string) transfer.Transfer {
	return transfer.Draft(id).WithLockSubmitted("0xaaaa", transfer.EthCache{From: "0xabc", Nonce: 1})
}

func TestTransferService_Initiate(t *testing.T) {
	machine := &fakeMachine{
		InitiateFunc: func(_ context.Context, req sendtonear.InitiateRequest) (transfer.Transfer, error) {
			assert.Equal(t, "1.5", req.Amount)
			tr := lockedTransfer("transfer-1")
			tr.Amount = "1500000000000000000"
			tr.SourceTokenName = "ETH"
			tr.DestinationTokenName = "nETH"
			tr.Decimals = 18
			return tr, nil
		},
	}
	svc := newTestService(Dependencies{Machine: machine})

	view, err := svc.Initiate(context.Background(), &sendtonear.InitiateRequest{
		Amount: "1.5", Sender: "0xabc", Recipient: "alice.near",
	})
	require.NoError(t, err)
	assert.Equal(t, "transfer-1", view.ID)
	assert.Equal(t, "Transfering to NEAR", view.StatusMessage)
	assert.Empty(t, view.CallToAction)
	require.Len(t, view.Steps, 3)
	assert.Equal(t, "Start transfer of 1.5 ETH from Ethereum", view.Steps[0].Description)
	assert.Equal(t, "Wait for 30 transfer confirmations for security", view.Steps[1].Description)
}

func TestTransferService_Initiate_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  sendtonear.InitiateRequest
		err  error
		cat  apperrors.Category
	}{
		{"missing recipient", sendtonear.InitiateRequest{Amount: "1", Sender: "0xabc"}, nil, apperrors.CategoryDataError},
		{"invalid amount", sendtonear.InitiateRequest{Amount: "x", Sender: "0xabc", Recipient: "a.near"},
			sendtonear.ErrInvalidAmount, apperrors.CategoryDataError},
		{"wrong network", sendtonear.InitiateRequest{Amount: "1", Sender: "0xabc", Recipient: "a.near"},
			sendtonear.ErrWrongNetwork, apperrors.CategoryDataConflict},
		{"no signer", sendtonear.InitiateRequest{Amount: "1", Sender: "0xabc", Recipient: "a.near"},
			sendtonear.ErrNoSigner, apperrors.CategoryNotSupported},
		{"rpc failure", sendtonear.InitiateRequest{Amount: "1", Sender: "0xabc", Recipient: "a.near"},
			errors.New("dial tcp: connection refused"), apperrors.CategoryGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(Dependencies{Machine: &fakeMachine{
				InitiateFunc: func(context.Context, sendtonear.InitiateRequest) (transfer.Transfer, error) {
					return transfer.Transfer{}, tt.err
				},
			}})
			req := tt.req
			_, err := svc.Initiate(context.Background(), &req)
			requireCategory(t, err, tt.cat)
		})
	}
}

func TestTransferService_Recover(t *testing.T) {
	hash := "0x1111111111111111111111111111111111111111111111111111111111111111"
	svc := newTestService(Dependencies{Machine: &fakeMachine{
		RecoverFunc: func(_ context.Context, got string) (transfer.Transfer, error) {
			assert.Equal(t, hash, got)
			return transfer.Transfer{}, sendtonear.ErrLockEventNotFound
		},
	}})

	_, err := svc.Recover(context.Background(), &RecoverRequest{LockTxHash: "0x12"})
	requireCategory(t, err, apperrors.CategoryDataError)

	_, err = svc.Recover(context.Background(), &RecoverRequest{LockTxHash: hash})
	requireCategory(t, err, apperrors.CategoryDataError)
	assert.ErrorIs(t, err, sendtonear.ErrLockEventNotFound)
}

func TestTransferService_Get(t *testing.T) {
	svc := newTestService(Dependencies{})

	_, err := svc.Get(context.Background(), "missing")
	requireCategory(t, err, apperrors.CategoryResourceNotFound)

	svc = newTestService(Dependencies{Store: &fakeStore{
		GetFunc: func(context.Context, string) (transfer.Transfer, error) {
			return transfer.Transfer{}, errors.New("connection reset")
		},
	}})
	_, err = svc.Get(context.Background(), "transfer-1")
	requireCategory(t, err, apperrors.CategoryGeneralError)
}

func TestTransferService_List(t *testing.T) {
	var got transferstore.QueryOptions
	store := &fakeStore{
		ListFunc: func(_ context.Context, opts ...transferstore.QueryOption) ([]transfer.Transfer, error) {
			for _, opt := range opts {
				opt(&got)
			}
			return []transfer.Transfer{lockedTransfer("a"), lockedTransfer("b")}, nil
		},
	}
	svc := newTestService(Dependencies{Store: store})

	views, err := svc.List(context.Background(), &ListRequest{
		Sender: "0x1111111111111111111111111111111111111111",
		Status: transfer.StatusInProgress,
	})
	require.NoError(t, err)
	assert.Len(t, views, 2)
	assert.Equal(t, defaultListLimit, got.Limit)
	require.NotNil(t, got.Sender)
	require.NotNil(t, got.Status)
	assert.Equal(t, transfer.StatusInProgress, *got.Status)

	_, err = svc.List(context.Background(), &ListRequest{Status: "stuck"})
	requireCategory(t, err, apperrors.CategoryDataError)
	_, err = svc.List(context.Background(), &ListRequest{Sender: "alice"})
	requireCategory(t, err, apperrors.CategoryDataError)
}

func TestTransferService_Act(t *testing.T) {
	synced := lockedTransfer("transfer-1")
	synced.CompletedStep = transfer.StepSync
	synced.Status = transfer.StatusActionNeeded

	var saved []transfer.Transfer
	store := &fakeStore{
		GetFunc: func(context.Context, string) (transfer.Transfer, error) { return synced, nil },
		SaveFunc: func(_ context.Context, tr transfer.Transfer) (transfer.Transfer, error) {
			saved = append(saved, tr)
			return tr, nil
		},
	}
	machine := &fakeMachine{
		ActFunc: func(_ context.Context, tr transfer.Transfer) (transfer.Transfer, error) {
			return tr.WithStatus(transfer.StatusInProgress), nil
		},
	}
	svc := newTestService(Dependencies{Store: store, Machine: machine})

	view, err := svc.Act(context.Background(), "transfer-1")
	require.NoError(t, err)
	assert.Equal(t, "Depositing in NEAR", view.StatusMessage)
	require.Len(t, saved, 1)
	assert.Equal(t, transfer.StatusInProgress, saved[0].Status)
}

func TestTransferService_Act_Rejected(t *testing.T) {
	complete := lockedTransfer("transfer-1")
	complete.CompletedStep = transfer.StepMint
	complete.Status = transfer.StatusComplete

	svc := newTestService(Dependencies{
		Store: &fakeStore{GetFunc: func(context.Context, string) (transfer.Transfer, error) { return complete, nil }},
		Machine: &fakeMachine{ActFunc: func(context.Context, transfer.Transfer) (transfer.Transfer, error) {
			t.Fatal("complete transfers must not be acted on")
			return transfer.Transfer{}, nil
		}},
	})
	_, err := svc.Act(context.Background(), "transfer-1")
	requireCategory(t, err, apperrors.CategoryDataConflict)

	svc = newTestService(Dependencies{
		Store: &fakeStore{GetFunc: func(context.Context, string) (transfer.Transfer, error) {
			return lockedTransfer("transfer-1").Failed("Transfer is taking longer than expected."), nil
		}},
		Machine: &fakeMachine{ActFunc: func(_ context.Context, tr transfer.Transfer) (transfer.Transfer, error) {
			return tr, errors.New("rpc timeout")
		}},
	})
	_, err = svc.Act(context.Background(), "transfer-1")
	requireCategory(t, err, apperrors.CategoryGeneralError)
}

func TestTransferService_Act_InProgress(t *testing.T) {
	minting := lockedTransfer("transfer-1")
	minting.CompletedStep = transfer.StepSync

	tests := []struct {
		name string
		in   transfer.Transfer
	}{
		{"lock submitted", lockedTransfer("transfer-1")},
		{"mint submitted", minting},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var acted, saved int
			svc := newTestService(Dependencies{
				Store: &fakeStore{
					GetFunc: func(context.Context, string) (transfer.Transfer, error) { return tt.in, nil },
					SaveFunc: func(_ context.Context, tr transfer.Transfer) (transfer.Transfer, error) {
						saved++
						return tr, nil
					},
				},
				Machine: &fakeMachine{ActFunc: func(_ context.Context, tr transfer.Transfer) (transfer.Transfer, error) {
					acted++
					return tr, nil
				}},
			})

			_, err := svc.Act(context.Background(), "transfer-1")
			requireCategory(t, err, apperrors.CategoryDataConflict)
			assert.Zero(t, acted)
			assert.Zero(t, saved)
		})
	}
}

func TestTransferService_Act_MachineRejects(t *testing.T) {
	svc := newTestService(Dependencies{
		Store: &fakeStore{GetFunc: func(context.Context, string) (transfer.Transfer, error) {
			return lockedTransfer("transfer-1").Failed("boom"), nil
		}},
		Machine: &fakeMachine{ActFunc: func(_ context.Context, tr transfer.Transfer) (transfer.Transfer, error) {
			return tr, fmt.Errorf("%w: transfer %s is %s", sendtonear.ErrNotActionable, tr.ID, tr.Status)
		}},
	})

	_, err := svc.Act(context.Background(), "transfer-1")
	requireCategory(t, err, apperrors.CategoryDataConflict)
}

func TestTransferService_TokenMetadata(t *testing.T) {
	svc := newTestService(Dependencies{Tokens: &fakeTokens{
		GetFunc: func(_ context.Context, token, _ string) (*tokenmeta.Metadata, error) {
			switch token {
			case "bad":
				return nil, tokenmeta.ErrInvalidAddress
			case "0x0000000000000000000000000000000000000000":
				return nil, errors.New("execution reverted")
			}
			return &tokenmeta.Metadata{Address: token, Decimals: 6, Name: "USD Coin"}, nil
		},
	}})

	meta, err := svc.TokenMetadata(context.Background(), "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "")
	require.NoError(t, err)
	assert.Equal(t, uint8(6), meta.Decimals)

	_, err = svc.TokenMetadata(context.Background(), "bad", "")
	requireCategory(t, err, apperrors.CategoryDataError)

	_, err = svc.TokenMetadata(context.Background(), "0x0000000000000000000000000000000000000000", "")
	requireCategory(t, err, apperrors.CategoryDependencyFailure)
}

func TestTransferService_WalletRoundTrip(t *testing.T) {
	wallet := near.NewWallet()
	channel := redirect.NewMemory()
	svc := newTestService(Dependencies{Wallet: wallet, Channel: channel})
	ctx := context.Background()

	_, err := svc.WalletRequest(ctx)
	requireCategory(t, err, apperrors.CategoryResourceNotFound)

	require.NoError(t, wallet.FunctionCall(ctx, near.FunctionCall{ContractID: "aurora", MethodName: "deposit"}))
	call, err := svc.WalletRequest(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deposit", call.MethodName)

	require.NoError(t, channel.Send(ctx, "transfer-1"))
	err = svc.WalletCallback(ctx, &redirect.Outcome{})
	requireCategory(t, err, apperrors.CategoryDataError)

	require.NoError(t, svc.WalletCallback(ctx, &redirect.Outcome{TxHashes: "hash1"}))
	msg, err := channel.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, redirect.Message{TransferID: "transfer-1", TxHashes: "hash1"}, msg)
}
