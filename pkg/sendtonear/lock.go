package sendtonear

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/chainsafe/near-eth-transfer/internal/metrics"
	"github.com/chainsafe/near-eth-transfer/pkg/ethereum"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
	"github.com/chainsafe/near-eth-transfer/pkg/txsearch"
)

// lock broadcasts the custodian deposit and returns without waiting for it
// to be mined; checkLock follows it up.
func (m *Machine) lock(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	if m.deps.Signer == nil {
		return t, ErrNoSigner
	}

	chainID, err := m.deps.Signer.ChainID(ctx)
	if err != nil {
		return t, fmt.Errorf("failed to get signer chain id: %w", err)
	}
	if chainID != m.cfg.ChainID {
		return t, fmt.Errorf("%w for lock, expected: %d, got: %d", ErrWrongNetwork, m.cfg.ChainID, chainID)
	}

	amount, ok := new(big.Int).SetString(t.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return t, fmt.Errorf("invalid amount %q for transfer %s", t.Amount, t.ID)
	}

	head, err := m.deps.Signer.BlockNumber(ctx)
	if err != nil {
		return t, fmt.Errorf("failed to get latest block: %w", err)
	}
	// If this tx is dropped and replaced, the search starts below any reorg.
	var safeReorgHeight uint64
	if head > m.cfg.ReorgMargin {
		safeReorgHeight = head - m.cfg.ReorgMargin
	}

	sub, err := m.deps.Signer.DepositToNear(ctx, t.Recipient, big.NewInt(0), amount)
	if err != nil {
		metrics.LocksSubmitted.WithLabelValues("failed").Inc()
		return t, fmt.Errorf("failed to submit lock for transfer %s: %w", t.ID, err)
	}
	metrics.LocksSubmitted.WithLabelValues("submitted").Inc()

	return t.WithLockSubmitted(sub.Hash, transfer.EthCache{
		From:            sub.From,
		To:              sub.To,
		Nonce:           sub.Nonce,
		Data:            sub.Input,
		SafeReorgHeight: safeReorgHeight,
	}), nil
}

func (m *Machine) checkLock(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	lockHash, ok := t.LastLockHash()
	if !ok {
		return t, fmt.Errorf("transfer %s has no lock transaction", t.ID)
	}

	chainID, err := m.deps.Chain.ChainID(ctx)
	if err != nil {
		return t, fmt.Errorf("failed to get chain id: %w", err)
	}
	if chainID != m.cfg.ChainID {
		m.logger.Warn("Wrong eth network for checkLock",
			zap.String("transfer_id", t.ID),
			zap.Int64("expected", m.cfg.ChainID),
			zap.Int64("got", chainID))
		return t, nil
	}

	receipt, err := m.deps.Chain.TransactionReceipt(ctx, lockHash)
	if err != nil {
		return t, err
	}

	// No receipt: the wallet may have replaced the transaction (speed up or cancel).
	if receipt == nil {
		if t.EthCache == nil {
			return t, nil
		}
		found, err := txsearch.FindReplacement(ctx, m.deps.Chain, t.EthCache.SafeReorgHeight, t.EthCache.ReplacementQuery(), nil)
		if err != nil {
			var searchErr *txsearch.SearchError
			var validationErr *txsearch.TxValidationError
			if errors.As(err, &searchErr) || errors.As(err, &validationErr) {
				metrics.ReplacementSearches.WithLabelValues("rejected").Inc()
				m.logger.Warn("Lock transaction was dropped",
					zap.String("transfer_id", t.ID),
					zap.String("tx_hash", lockHash),
					zap.Error(err))
				return t.Failed(err.Error()), nil
			}
			return t, err
		}
		if found == nil {
			metrics.ReplacementSearches.WithLabelValues("pending").Inc()
			return t, nil
		}
		metrics.ReplacementSearches.WithLabelValues("found").Inc()

		receipt, err = m.deps.Chain.TransactionReceipt(ctx, found.Hash)
		if err != nil {
			return t, err
		}
		if receipt == nil {
			return t, nil
		}
	}

	r := toReceipt(receipt)
	if !receipt.Succeeded {
		return t.WithLockReceipt(r).Failed(fmt.Sprintf("Transaction failed: %s", receipt.TxHash)), nil
	}

	out := t
	if !strings.EqualFold(receipt.TxHash, lockHash) {
		m.logger.Info("Lock transaction was replaced",
			zap.String("transfer_id", t.ID),
			zap.String("tx_hash", lockHash),
			zap.String("replacement_tx_hash", receipt.TxHash))
		out = out.WithLockHash(receipt.TxHash)
	}

	out, err = out.Advance(transfer.StepLock)
	if err != nil {
		return t, err
	}
	return out.WithStatus(transfer.StatusInProgress).WithLockReceipt(r), nil
}

func toReceipt(r *ethereum.Receipt) transfer.Receipt {
	return transfer.Receipt{
		TransactionHash: r.TxHash,
		BlockNumber:     r.BlockNumber,
		Status:          r.Succeeded,
	}
}
