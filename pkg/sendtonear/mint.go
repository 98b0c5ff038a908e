package sendtonear

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/chainsafe/near-eth-transfer/internal/metrics"
	"github.com/chainsafe/near-eth-transfer/pkg/near"
	"github.com/chainsafe/near-eth-transfer/pkg/redirect"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

const (
	unverifiedDepositMsg = "A deposit transaction was initiated but could not be verified. " +
		"If no transaction was sent from your account, please retry."

	// errorCodeDispatch is reported to the redirect channel when the deposit
	// call could not be handed to the wallet.
	errorCodeDispatch = "DispatchFailed"
)

// mint hands the deposit call to the wallet and marks the transfer in
// progress; checkMint reads the wallet outcome from the redirect channel.
func (m *Machine) mint(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	out, err := m.checkSync(ctx, t)
	if err != nil {
		return t, err
	}
	if out.Status != transfer.StatusActionNeeded {
		return out, nil
	}

	// The transfer id must be in the channel before mint returns, otherwise
	// checkMint could run first and fail the transfer.
	if err := m.deps.Channel.Send(ctx, out.ID); err != nil {
		return t, fmt.Errorf("failed to record pending mint: %w", err)
	}

	call := near.FunctionCall{
		ContractID: m.cfg.EvmAccount,
		MethodName: depositMethod,
		Args:       out.Proof,
		Gas:        m.cfg.MintGas,
		Deposit:    m.cfg.MintDeposit,
	}
	id := out.ID
	callCtx := context.WithoutCancel(ctx)
	m.dispatch(func() {
		if err := m.deps.Near.FunctionCall(callCtx, call); err != nil {
			metrics.MintSubmissions.WithLabelValues("failed").Inc()
			m.logger.Error("Failed to hand deposit to wallet",
				zap.String("transfer_id", id),
				zap.Error(err))
			if derr := m.deps.Channel.Deliver(callCtx, redirect.Outcome{ErrorCode: errorCodeDispatch}); derr != nil {
				m.logger.Error("Failed to report wallet error",
					zap.String("transfer_id", id),
					zap.Error(derr))
			}
			return
		}
		metrics.MintSubmissions.WithLabelValues("submitted").Inc()
	})

	return out.WithStatus(transfer.StatusInProgress), nil
}

// checkMint processes the wallet outcome of a mint. The channel is cleared
// only once the outcome is final, so that a transient error is retried on
// the next poll.
func (m *Machine) checkMint(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	msg, err := m.deps.Channel.Receive(ctx)
	if err != nil {
		return t, err
	}

	if msg.TransferID == "" && msg.TxHashes == "" {
		// The user never came back from the wallet. A transaction may still
		// have been sent; the user can retry.
		m.logger.Warn("Deposit could not be verified", zap.String("transfer_id", t.ID))
		return t.Failed(unverifiedDepositMsg), nil
	}
	if msg.TransferID == "" {
		m.logger.Debug("Waiting for wallet redirect to sign mint", zap.String("transfer_id", t.ID))
		return t, nil
	}
	if msg.TransferID != t.ID {
		return m.clearAndFail(ctx, t, fmt.Sprintf(
			"Couldn't determine transaction outcome. Got transfer id '%s' from wallet, expected '%s'",
			msg.TransferID, t.ID))
	}
	if msg.ErrorCode != "" {
		return m.clearAndFail(ctx, t, "Error from wallet: "+msg.ErrorCode)
	}
	if msg.TxHashes == "" {
		m.logger.Debug("Tx hash not received: pending redirect or wallet error", zap.String("transfer_id", t.ID))
		return t, nil
	}
	if strings.Contains(msg.TxHashes, ",") {
		return m.clearAndFail(ctx, t, "Error from wallet: expected single txHash, got: "+msg.TxHashes)
	}

	txHash := msg.TxHashes
	outcome, err := m.deps.Near.TxStatus(ctx, txHash)
	if err != nil {
		return t, err
	}

	switch outcome.Status {
	case near.StatusUnknown:
		return t, nil
	case near.StatusFailure:
		m.logger.Warn("Mint transaction failed",
			zap.String("transfer_id", t.ID),
			zap.String("tx_hash", txHash),
			zap.String("failure", outcome.Failure))
		return m.clearAndFail(ctx, t.WithMintHash(txHash),
			fmt.Sprintf("Transaction %s failed: %s", outcome.Hash, outcome.Failure))
	case near.StatusSuccess:
		if err := m.deps.Channel.Clear(ctx); err != nil {
			return t, err
		}
		out, err := t.WithMintHash(txHash).Advance(transfer.StepMint)
		if err != nil {
			return t, err
		}
		return out.WithStatus(transfer.StatusComplete), nil
	default:
		return t, errors.New("unknown mint transaction status")
	}
}

func (m *Machine) clearAndFail(ctx context.Context, t transfer.Transfer, msg string) (transfer.Transfer, error) {
	if err := m.deps.Channel.Clear(ctx); err != nil {
		return t, err
	}
	m.logger.Warn("Mint failed", zap.String("transfer_id", t.ID), zap.String("reason", msg))
	return t.Failed(msg), nil
}
