package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/near-eth-transfer/pkg/app/errors"
	"github.com/chainsafe/near-eth-transfer/pkg/near"
	"github.com/chainsafe/near-eth-transfer/pkg/redirect"
	"github.com/chainsafe/near-eth-transfer/pkg/sendtonear"
	"github.com/chainsafe/near-eth-transfer/pkg/tokenmeta"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
	"github.com/chainsafe/near-eth-transfer/pkg/transferstore"
)

const defaultListLimit = 100

// Store is the narrow data-access interface for the transfer service.
type Store interface {
	Get(ctx context.Context, id string) (transfer.Transfer, error)
	Save(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
	List(ctx context.Context, opts ...transferstore.QueryOption) ([]transfer.Transfer, error)
}

// Machine runs the transfer flow.
type Machine interface {
	Initiate(ctx context.Context, req sendtonear.InitiateRequest) (transfer.Transfer, error)
	Recover(ctx context.Context, lockTxHash string) (transfer.Transfer, error)
	Act(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
}

// TokenMetadata resolves ERC-20 metadata.
type TokenMetadata interface {
	Get(ctx context.Context, token, user string) (*tokenmeta.Metadata, error)
}

// WalletQueue hands pending function calls to the frontend.
type WalletQueue interface {
	Take() (near.FunctionCall, bool)
}

// View is a transfer with its display texts.
type View struct {
	transfer.Transfer
	StatusMessage string                       `json:"statusMessage"`
	CallToAction  string                       `json:"callToAction,omitempty"`
	Steps         []sendtonear.StepDescription `json:"steps"`
}

// ListRequest filters the transfer list.
type ListRequest struct {
	Sender string          `validate:"omitempty,eth_addr"`
	Status transfer.Status `validate:"omitempty,oneof=in-progress action-needed complete failed"`
	Limit  int             `validate:"min=0,max=1000"`
}

// RecoverRequest rebuilds a transfer from its lock transaction.
type RecoverRequest struct {
	LockTxHash string `json:"lockTxHash" validate:"required,len=66,startswith=0x"`
}

// Service defines the interface for the transfer business logic
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	Initiate(ctx context.Context, req *sendtonear.InitiateRequest) (*View, error)
	Recover(ctx context.Context, req *RecoverRequest) (*View, error)
	Get(ctx context.Context, id string) (*View, error)
	List(ctx context.Context, req *ListRequest) ([]*View, error)
	Act(ctx context.Context, id string) (*View, error)
	TokenMetadata(ctx context.Context, token, user string) (*tokenmeta.Metadata, error)
	WalletRequest(ctx context.Context) (*near.FunctionCall, error)
	WalletCallback(ctx context.Context, outcome *redirect.Outcome) error
}

type transferService struct {
	store         Store
	machine       Machine
	tokens        TokenMetadata
	wallet        WalletQueue
	channel       redirect.Channel
	relayerMargin int
	validate      *validator.Validate
	logger        *zap.Logger
}

// Dependencies are the collaborators of the transfer service.
type Dependencies struct {
	Store   Store
	Machine Machine
	Tokens  TokenMetadata
	Wallet  WalletQueue
	Channel redirect.Channel
}

// NewService creates the transfer service. relayerMargin is the one the
// machine runs with and only shapes the display texts.
func NewService(deps Dependencies, relayerMargin int, logger *zap.Logger) Service {
	return &transferService{
		store:         deps.Store,
		machine:       deps.Machine,
		tokens:        deps.Tokens,
		wallet:        deps.Wallet,
		channel:       deps.Channel,
		relayerMargin: relayerMargin,
		validate:      validator.New(),
		logger:        logger,
	}
}

func (s *transferService) Initiate(ctx context.Context, req *sendtonear.InitiateRequest) (*View, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "amount, sender and recipient are required")
	}
	t, err := s.machine.Initiate(ctx, *req)
	switch {
	case errors.Is(err, sendtonear.ErrInvalidAmount):
		return nil, apperrors.BadRequestError(err, "invalid amount")
	case errors.Is(err, sendtonear.ErrWrongNetwork):
		return nil, apperrors.ConflictError(err, "signer is connected to the wrong network")
	case errors.Is(err, sendtonear.ErrNoSigner):
		return nil, apperrors.NotSupportedError(err, "this service cannot submit lock transactions")
	case err != nil:
		return nil, apperrors.GeneralError(err)
	}
	return s.view(t), nil
}

func (s *transferService) Recover(ctx context.Context, req *RecoverRequest) (*View, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "a lock transaction hash is required")
	}
	t, err := s.machine.Recover(ctx, req.LockTxHash)
	switch {
	case errors.Is(err, sendtonear.ErrLockEventNotFound):
		return nil, apperrors.BadRequestError(err, err.Error())
	case errors.Is(err, transferstore.ErrTransferExists):
		return nil, apperrors.ConflictError(err, "transfer already tracked")
	case err != nil:
		return nil, apperrors.GeneralError(err)
	}
	return s.view(t), nil
}

func (s *transferService) Get(ctx context.Context, id string) (*View, error) {
	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(t), nil
}

func (s *transferService) List(ctx context.Context, req *ListRequest) ([]*View, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid filter")
	}
	limit := req.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	opts := []transferstore.QueryOption{transferstore.WithLimit(limit)}
	if req.Sender != "" {
		opts = append(opts, transferstore.BySender(req.Sender))
	}
	if req.Status != "" {
		opts = append(opts, transferstore.ByStatus(req.Status))
	}

	transfers, err := s.store.List(ctx, opts...)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	views := make([]*View, 0, len(transfers))
	for _, t := range transfers {
		views = append(views, s.view(t))
	}
	return views, nil
}

func (s *transferService) Act(ctx context.Context, id string) (*View, error) {
	t, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	switch t.Status {
	case transfer.StatusActionNeeded, transfer.StatusFailed:
	case transfer.StatusComplete:
		return nil, apperrors.ConflictError(nil, "transfer already complete")
	default:
		return nil, apperrors.ConflictError(nil, "transfer is not awaiting action")
	}

	next, err := s.machine.Act(ctx, t)
	if err != nil {
		if errors.Is(err, sendtonear.ErrUnknownStep) || errors.Is(err, sendtonear.ErrNotActionable) {
			return nil, apperrors.ConflictError(err, "transfer cannot be acted on")
		}
		return nil, apperrors.GeneralError(err)
	}
	saved, err := s.store.Save(ctx, next)
	if err != nil {
		return nil, apperrors.GeneralError(fmt.Errorf("failed to save transfer %s: %w", id, err))
	}
	return s.view(saved), nil
}

func (s *transferService) TokenMetadata(ctx context.Context, token, user string) (*tokenmeta.Metadata, error) {
	meta, err := s.tokens.Get(ctx, token, user)
	if err != nil {
		if errors.Is(err, tokenmeta.ErrInvalidAddress) {
			return nil, apperrors.BadRequestError(err, "invalid address")
		}
		return nil, apperrors.DependencyError(err, "failed to read token contract")
	}
	return meta, nil
}

func (s *transferService) WalletRequest(context.Context) (*near.FunctionCall, error) {
	call, ok := s.wallet.Take()
	if !ok {
		return nil, apperrors.ResourceNotFoundError(nil, "no pending wallet request")
	}
	return &call, nil
}

func (s *transferService) WalletCallback(ctx context.Context, outcome *redirect.Outcome) error {
	if outcome.TxHashes == "" && outcome.ErrorCode == "" {
		return apperrors.BadRequestError(nil, "transactionHashes or errorCode is required")
	}
	if err := s.channel.Deliver(ctx, *outcome); err != nil {
		return apperrors.DependencyError(err, "wallet redirect channel unavailable")
	}
	return nil
}

func (s *transferService) get(ctx context.Context, id string) (transfer.Transfer, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, transferstore.ErrTransferNotFound) {
			return transfer.Transfer{}, apperrors.ResourceNotFoundError(err, "transfer not found")
		}
		return transfer.Transfer{}, apperrors.GeneralError(err)
	}
	return t, nil
}

func (s *transferService) view(t transfer.Transfer) *View {
	msg, err := sendtonear.StatusMessage(t, s.relayerMargin)
	if err != nil {
		s.logger.Warn("Transfer in unexpected state",
			zap.String("transfer_id", t.ID),
			zap.String("step", t.CompletedStep.String()),
			zap.String("status", string(t.Status)))
	}
	return &View{
		Transfer:      t,
		StatusMessage: msg,
		CallToAction:  sendtonear.CallToAction(t),
		Steps:         sendtonear.Steps(t, s.relayerMargin),
	}
}
