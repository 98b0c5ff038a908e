package sendtonear

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chainsafe/near-eth-transfer/internal/metrics"
	"github.com/chainsafe/near-eth-transfer/pkg/ethereum"
	"github.com/chainsafe/near-eth-transfer/pkg/ethereum/contracts"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

const (
	sourceTokenName = "ETH"
	etherDecimals   = 18
)

var (
	// ErrLockEventNotFound is returned by Recover when the lock transaction did
	// not emit a custodian Deposited event.
	ErrLockEventNotFound = errors.New("Unable to process lock transaction event.")
	// ErrInvalidAmount is returned by Initiate for an amount that is not a
	// valid ether value.
	ErrInvalidAmount = errors.New("invalid amount")
)

// InitiateRequest starts a new transfer. Amount is human readable ("1.5").
type InitiateRequest struct {
	Amount    string `json:"amount" validate:"required"`
	Sender    string `json:"sender" validate:"required"`
	Recipient string `json:"recipient" validate:"required"`
}

// Initiate creates a transfer, submits its lock and registers it with the
// tracker.
func (m *Machine) Initiate(ctx context.Context, req InitiateRequest) (transfer.Transfer, error) {
	amount, err := transfer.ParseAmount(req.Amount, etherDecimals)
	if err != nil {
		return transfer.Transfer{}, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}

	t := m.draft()
	t.Amount = amount
	t.Sender = req.Sender
	t.Recipient = req.Recipient

	locked, err := m.Act(ctx, t)
	if err != nil {
		return t, err
	}
	m.logger.Info("Transfer initiated",
		zap.String("transfer_id", locked.ID),
		zap.String("sender", locked.Sender),
		zap.String("recipient", locked.Recipient),
		zap.String("amount", locked.Amount))
	return m.track(ctx, locked)
}

// Recover rebuilds a transfer from an already mined lock transaction and
// checks how far it got.
func (m *Machine) Recover(ctx context.Context, lockTxHash string) (transfer.Transfer, error) {
	receipt, err := m.deps.Chain.TransactionReceipt(ctx, lockTxHash)
	if err != nil {
		return transfer.Transfer{}, fmt.Errorf("failed to get lock receipt: %w", err)
	}
	if receipt == nil {
		return transfer.Transfer{}, fmt.Errorf("lock transaction %s not found", lockTxHash)
	}

	events, err := m.deps.Chain.FilterEvents(ctx, m.cfg.CustodianAddress, m.cfg.CustodianABI,
		contracts.DepositedEventName, receipt.BlockNumber, receipt.BlockNumber)
	if err != nil {
		return transfer.Transfer{}, fmt.Errorf("failed to get lock events: %w", err)
	}
	var deposited *ethereum.DepositedEvent
	for _, ev := range events {
		if !strings.EqualFold(ev.TxHash, lockTxHash) {
			continue
		}
		deposited, err = ethereum.DepositedFromEvent(ev)
		if err != nil {
			return transfer.Transfer{}, err
		}
		break
	}
	if deposited == nil {
		return transfer.Transfer{}, ErrLockEventNotFound
	}

	t := m.draft()
	t.Amount = deposited.Amount.String()
	t.Sender = deposited.Sender
	t.Recipient = deposited.Recipient
	t.Status = transfer.StatusInProgress
	t.CompletedStep = transfer.StepLock
	t.LockHashes = []string{lockTxHash}
	t.LockReceipts = []transfer.Receipt{toReceipt(receipt)}

	out, err := m.checkSync(ctx, t)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("sendtonear", "recover").Inc()
		return t, err
	}
	m.logger.Info("Transfer recovered",
		zap.String("transfer_id", out.ID),
		zap.String("tx_hash", lockTxHash),
		zap.String("step", out.CompletedStep.String()),
		zap.String("status", string(out.Status)))
	return m.track(ctx, out)
}

func (m *Machine) draft() transfer.Transfer {
	t := transfer.Draft(m.newID())
	t.SourceTokenName = sourceTokenName
	t.DestinationTokenName = "n" + sourceTokenName
	t.Symbol = sourceTokenName
	t.Decimals = etherDecimals
	t.NeededConfirmations = m.cfg.NeededConfirmations
	now := m.now()
	t.CreatedAt = now
	t.UpdatedAt = now
	return t
}

func (m *Machine) track(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	if m.deps.Tracker == nil {
		return t, nil
	}
	tracked, err := m.deps.Tracker.Track(ctx, t)
	if err != nil {
		return t, fmt.Errorf("failed to track transfer %s: %w", t.ID, err)
	}
	return tracked, nil
}
