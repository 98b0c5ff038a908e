package sendtonear

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chainsafe/near-eth-transfer/internal/metrics"
	"github.com/chainsafe/near-eth-transfer/pkg/ethereum/contracts"
	"github.com/chainsafe/near-eth-transfer/pkg/near"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

const (
	isUsedProofMethod = "is_used_proof"
	depositMethod     = "deposit"

	alreadyFinalizedMsg = "Transfer already finalized."
)

// checkSync counts the confirmations of the lock as seen by the NEAR light
// client. Once the relayer margin has passed without the relayer minting, the
// transfer waits for the user to mint.
func (m *Machine) checkSync(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	in := t
	if t.CheckSyncInterval == 0 {
		t = t.WithCheckSyncInterval(m.cfg.SyncInterval)
	}

	now := m.now()
	if !t.NextCheckSyncTimestamp.IsZero() && now.Before(t.NextCheckSyncTimestamp) {
		return t, nil
	}

	receipt, ok := t.LastLockReceipt()
	if !ok {
		return in, fmt.Errorf("transfer %s has no lock receipt", t.ID)
	}

	syncedTo, err := m.deps.Oracle.EthOnNearSyncHeight(ctx)
	if err != nil {
		return in, fmt.Errorf("failed to get light client height: %w", err)
	}
	confirmations := 0
	if syncedTo > receipt.BlockNumber {
		confirmations = int(syncedTo - receipt.BlockNumber)
	}
	metrics.SyncConfirmations.Observe(float64(confirmations))

	var proof []byte
	if confirmations > t.NeededConfirmations {
		proof, err = m.buildProof(ctx, receipt.TransactionHash)
		if err != nil {
			return in, err
		}
		// The relayer may have minted already.
		used, err := m.deps.Near.ViewFunction(ctx, m.cfg.EvmAccount, isUsedProofMethod, proof)
		if err != nil {
			return in, fmt.Errorf("failed to check proof usage: %w", err)
		}
		if near.IsUsedProof(used) {
			m.logger.Info("Transfer finalized by relayer",
				zap.String("transfer_id", t.ID),
				zap.String("tx_hash", receipt.TransactionHash))
			out, err := t.WithConfirmations(confirmations).Advance(transfer.StepMint)
			if err != nil {
				return in, err
			}
			return out.WithStatus(transfer.StatusComplete).WithError(alreadyFinalizedMsg), nil
		}
	}

	// Leave some time for the relayer to finalize.
	if confirmations < t.NeededConfirmations+m.cfg.RelayerMargin {
		return t.
			WithNextCheckSync(now.Add(t.CheckSyncInterval)).
			WithConfirmations(confirmations).
			WithStatus(transfer.StatusInProgress), nil
	}

	// Reachable with a zero relayer margin and exactly the needed confirmations.
	if proof == nil {
		proof, err = m.buildProof(ctx, receipt.TransactionHash)
		if err != nil {
			return in, err
		}
	}

	out, err := t.WithConfirmations(confirmations).Advance(transfer.StepSync)
	if err != nil {
		return in, err
	}
	return out.WithStatus(transfer.StatusActionNeeded).WithProof(proof), nil
}

func (m *Machine) buildProof(ctx context.Context, lockHash string) ([]byte, error) {
	proof, err := m.deps.Proofs.FindEthProof(ctx, contracts.DepositedEventName, lockHash, m.cfg.CustodianAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to build deposit proof: %w", err)
	}
	return proof, nil
}
