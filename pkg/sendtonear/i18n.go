package sendtonear

import (
	"fmt"

	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

// StepState is the display state of one step of a transfer.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepPending   StepState = "pending"
)

// StepDescription is a step of a transfer as shown to the user.
type StepDescription struct {
	Key         transfer.Step `json:"key"`
	Description string        `json:"description"`
	// State is completed, pending, or the transfer status for the step
	// currently being worked on.
	State StepState `json:"state"`
}

// Steps describes every step of t. relayerMargin is added to the needed
// confirmations shown to the user.
func Steps(t transfer.Transfer, relayerMargin int) []StepDescription {
	amount := displayAmount(t)
	descriptions := map[transfer.Step]string{
		transfer.StepLock: fmt.Sprintf("Start transfer of %s %s from Ethereum", amount, t.SourceTokenName),
		transfer.StepSync: fmt.Sprintf("Wait for %d transfer confirmations for security", t.NeededConfirmations+relayerMargin),
		transfer.StepMint: fmt.Sprintf("Deposit %s %s in NEAR", amount, t.DestinationTokenName),
	}

	done := t.CompletedStep.Rank()
	out := make([]StepDescription, 0, len(transfer.Steps))
	for _, step := range transfer.Steps {
		state := StepPending
		switch {
		case step.Rank() <= done:
			state = StepCompleted
		case step.Rank() == done+1:
			state = StepState(t.Status)
		}
		out = append(out, StepDescription{Key: step, Description: descriptions[step], State: state})
	}
	return out
}

// StatusMessage is the one-line summary of t.
func StatusMessage(t transfer.Transfer, relayerMargin int) (string, error) {
	if t.Status == transfer.StatusFailed {
		return "Failed", nil
	}
	if t.Status == transfer.StatusActionNeeded {
		switch t.CompletedStep {
		case transfer.StepNone:
			return "Ready to transfer from Ethereum", nil
		case transfer.StepSync:
			return "Ready to deposit in NEAR", nil
		default:
			return "", unexpectedState(t)
		}
	}
	switch t.CompletedStep {
	case transfer.StepNone:
		return "Transfering to NEAR", nil
	case transfer.StepLock:
		return fmt.Sprintf("Confirming transfer %d of %d",
			t.CompletedConfirmations+1, t.NeededConfirmations+relayerMargin), nil
	case transfer.StepSync:
		return "Depositing in NEAR", nil
	case transfer.StepMint:
		return "Transfer complete", nil
	default:
		return "", unexpectedState(t)
	}
}

// CallToAction is the label of the button acting on t, or "" when the user
// has nothing to do.
func CallToAction(t transfer.Transfer) string {
	if t.Status == transfer.StatusFailed {
		return "Retry"
	}
	if t.Status != transfer.StatusActionNeeded {
		return ""
	}
	if t.CompletedStep == transfer.StepSync {
		return "Deposit"
	}
	return ""
}

func unexpectedState(t transfer.Transfer) error {
	return fmt.Errorf("transfer in unexpected state, transfer with ID=%s & status=%s has completedStep=%s",
		t.ID, t.Status, t.CompletedStep)
}

func displayAmount(t transfer.Transfer) string {
	amount, err := transfer.FormatAmount(t.Amount, t.Decimals)
	if err != nil {
		return t.Amount
	}
	return amount
}
