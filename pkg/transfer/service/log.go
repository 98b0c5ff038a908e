package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/near-eth-transfer/pkg/near"
	"github.com/chainsafe/near-eth-transfer/pkg/redirect"
	"github.com/chainsafe/near-eth-transfer/pkg/sendtonear"
	"github.com/chainsafe/near-eth-transfer/pkg/tokenmeta"
)

const serviceName = "TransferService"

// logService wraps Service with logging of the calls that change state
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the transfer Service.
// Read-only calls are passed through without logging.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// Initiate wraps the service method with logging
func (ls *logService) Initiate(ctx context.Context, req *sendtonear.InitiateRequest) (view *View, err error) {
	defer ls.track("Initiate", "", time.Now(), func() []zap.Field {
		return []zap.Field{
			zap.String("sender", req.Sender),
			zap.String("recipient", req.Recipient),
			zap.String("amount", req.Amount),
		}
	}, &view, &err)
	return ls.svc.Initiate(ctx, req)
}

// Recover wraps the service method with logging
func (ls *logService) Recover(ctx context.Context, req *RecoverRequest) (view *View, err error) {
	defer ls.track("Recover", "", time.Now(), func() []zap.Field {
		return []zap.Field{zap.String("tx_hash", req.LockTxHash)}
	}, &view, &err)
	return ls.svc.Recover(ctx, req)
}

// Act wraps the service method with logging
func (ls *logService) Act(ctx context.Context, id string) (view *View, err error) {
	defer ls.track("Act", id, time.Now(), func() []zap.Field { return nil }, &view, &err)
	return ls.svc.Act(ctx, id)
}

// WalletCallback wraps the service method with logging
func (ls *logService) WalletCallback(ctx context.Context, outcome *redirect.Outcome) (err error) {
	start := time.Now()
	defer func() {
		fields := []zap.Field{
			zap.String("service", serviceName),
			zap.String("method", "WalletCallback"),
			zap.String("tx_hashes", outcome.TxHashes),
			zap.String("error_code", outcome.ErrorCode),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			ls.logger.Error("WalletCallback failed", append(fields, zap.Error(err))...)
			return
		}
		ls.logger.Info("WalletCallback completed", fields...)
	}()
	return ls.svc.WalletCallback(ctx, outcome)
}

func (ls *logService) Get(ctx context.Context, id string) (*View, error) {
	return ls.svc.Get(ctx, id)
}

func (ls *logService) List(ctx context.Context, req *ListRequest) ([]*View, error) {
	return ls.svc.List(ctx, req)
}

func (ls *logService) TokenMetadata(ctx context.Context, token, user string) (*tokenmeta.Metadata, error) {
	return ls.svc.TokenMetadata(ctx, token, user)
}

func (ls *logService) WalletRequest(ctx context.Context) (*near.FunctionCall, error) {
	return ls.svc.WalletRequest(ctx)
}

func (ls *logService) track(method, id string, start time.Time, reqFields func() []zap.Field, view **View, err *error) {
	if id == "" && *view != nil {
		id = (*view).ID
	}
	fields := append([]zap.Field{
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.String("transfer_id", id),
		zap.Duration("duration", time.Since(start)),
	}, reqFields()...)

	if *err != nil {
		ls.logger.Error(method+" failed", append(fields, zap.Error(*err))...)
		return
	}
	if v := *view; v != nil {
		fields = append(fields,
			zap.String("step", v.CompletedStep.String()),
			zap.String("status", string(v.Status)))
	}
	ls.logger.Info(method+" completed", fields...)
}
