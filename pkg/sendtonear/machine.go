// Package sendtonear drives a natural ETH to NEAR transfer: lock ETH in the
// custodian, wait for the NEAR light client to see enough confirmations, then
// mint on NEAR with an inclusion proof.
//
// Act is called when the user has to do something (or retries a failed
// transfer), CheckStatus on a polling cadence. Both dispatch on the last
// completed step and return a new transfer snapshot; on error the input
// snapshot is returned unmodified.
package sendtonear

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"go.uber.org/zap"

	"github.com/chainsafe/near-eth-transfer/internal/metrics"
	"github.com/chainsafe/near-eth-transfer/pkg/ethereum"
	"github.com/chainsafe/near-eth-transfer/pkg/near"
	"github.com/chainsafe/near-eth-transfer/pkg/redirect"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
	"github.com/chainsafe/near-eth-transfer/pkg/txsearch"
)

var (
	// ErrWrongNetwork is returned when the signer is connected to another chain.
	ErrWrongNetwork = errors.New("wrong eth network")
	// ErrUnknownStep is returned for a transfer whose step cannot be acted on.
	ErrUnknownStep = errors.New("unknown transfer step")
	// ErrNoSigner is returned by lock when the machine has no lock submitter.
	ErrNoSigner = errors.New("no lock submitter configured")
	// ErrNotActionable is returned by Act for a transfer that is not waiting
	// on the user.
	ErrNotActionable = errors.New("transfer is not awaiting action")
)

// SourceChain is the read access to Ethereum.
type SourceChain interface {
	txsearch.Reader
	ChainID(ctx context.Context) (int64, error)
	TransactionReceipt(ctx context.Context, hash string) (*ethereum.Receipt, error)
}

// LockSubmitter signs and broadcasts the custodian lock call.
type LockSubmitter interface {
	ChainID(ctx context.Context) (int64, error)
	BlockNumber(ctx context.Context) (uint64, error)
	DepositToNear(ctx context.Context, recipient string, fee, amount *big.Int) (*ethereum.LockSubmission, error)
}

// NearAccount is the user's account on NEAR.
type NearAccount interface {
	ViewFunction(ctx context.Context, contractID, method string, args []byte) ([]byte, error)
	FunctionCall(ctx context.Context, call near.FunctionCall) error
	TxStatus(ctx context.Context, txHash string) (near.TxOutcome, error)
}

// SyncOracle reports the last Ethereum block known to the NEAR light client.
type SyncOracle interface {
	EthOnNearSyncHeight(ctx context.Context) (uint64, error)
}

// ProofBuilder builds the inclusion proof of an event emitted by a transaction.
type ProofBuilder interface {
	FindEthProof(ctx context.Context, eventName, txHash, contract string) ([]byte, error)
}

// Tracker registers a transfer so that it keeps being polled.
type Tracker interface {
	Track(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
}

// Config holds the network constants of the flow.
type Config struct {
	ChainID             int64
	CustodianAddress    string
	CustodianABI        abi.ABI
	EvmAccount          string
	SyncInterval        time.Duration
	RelayerMargin       int
	NeededConfirmations int
	// ReorgMargin is subtracted from the head when a lock is submitted to
	// bound the replacement search. Zero means DefaultReorgMargin.
	ReorgMargin uint64
	MintGas     uint64
	MintDeposit *big.Int
}

const (
	DefaultReorgMargin = 20
	// DefaultMintGas is enough for execution and keeps a 2FA transaction within 300 Tgas.
	DefaultMintGas = 200_000_000_000_000
)

// DefaultMintDeposit covers the storage staked by a mint (under 600 bytes at 1e20 yocto per byte).
var DefaultMintDeposit = new(big.Int).Mul(new(big.Int).Exp(big.NewInt(10), big.NewInt(20), nil), big.NewInt(600))

// Dependencies are the collaborators of a Machine. Signer and Tracker may be
// nil when the machine only tracks transfers locked elsewhere.
type Dependencies struct {
	Chain   SourceChain
	Signer  LockSubmitter
	Near    NearAccount
	Oracle  SyncOracle
	Proofs  ProofBuilder
	Channel redirect.Channel
	Tracker Tracker
}

// Machine is the transfer state machine.
type Machine struct {
	cfg  Config
	deps Dependencies

	logger   *zap.Logger
	now      func() time.Time
	dispatch func(func())
	newID    func() string
}

// New creates a state machine.
func New(cfg Config, deps Dependencies, opts ...Option) *Machine {
	s := applyOptions(opts)
	if cfg.ReorgMargin == 0 {
		cfg.ReorgMargin = DefaultReorgMargin
	}
	if cfg.MintGas == 0 {
		cfg.MintGas = DefaultMintGas
	}
	if cfg.MintDeposit == nil {
		cfg.MintDeposit = DefaultMintDeposit
	}
	if cfg.NeededConfirmations == 0 {
		cfg.NeededConfirmations = transfer.DefaultNeededConfirmations
	}
	return &Machine{
		cfg:      cfg,
		deps:     deps,
		logger:   s.logger,
		now:      s.now,
		dispatch: s.dispatch,
		newID:    s.newID,
	}
}

// Config returns the machine configuration.
func (m *Machine) Config() Config { return m.cfg }

// Act runs the next user-driven step of t. Only action-needed and failed
// transfers can be acted on.
func (m *Machine) Act(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	if t.Status != transfer.StatusActionNeeded && t.Status != transfer.StatusFailed {
		return t, fmt.Errorf("%w: transfer %s is %s", ErrNotActionable, t.ID, t.Status)
	}

	var (
		out transfer.Transfer
		err error
	)
	switch t.CompletedStep {
	case transfer.StepNone:
		out, err = m.lock(ctx, t)
	case transfer.StepLock:
		out, err = m.checkSync(ctx, t)
	case transfer.StepSync:
		out, err = m.mint(ctx, t)
	default:
		return t, fmt.Errorf("%w: cannot act on transfer %s at step %s", ErrUnknownStep, t.ID, t.CompletedStep)
	}
	return m.observe(t, out, err)
}

// CheckStatus polls the progress of the current step of t.
func (m *Machine) CheckStatus(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	var (
		out transfer.Transfer
		err error
	)
	switch t.CompletedStep {
	case transfer.StepNone:
		out, err = m.checkLock(ctx, t)
	case transfer.StepLock:
		out, err = m.checkSync(ctx, t)
	case transfer.StepSync:
		out, err = m.checkMint(ctx, t)
	default:
		return t, fmt.Errorf("%w: cannot check status of transfer %s at step %s", ErrUnknownStep, t.ID, t.CompletedStep)
	}
	return m.observe(t, out, err)
}

func (m *Machine) observe(in, out transfer.Transfer, err error) (transfer.Transfer, error) {
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("sendtonear", "transition").Inc()
		return in, err
	}
	if in.Status != out.Status || in.CompletedStep != out.CompletedStep {
		metrics.TransferTransitions.WithLabelValues(out.CompletedStep.String(), string(out.Status)).Inc()
		m.logger.Info("Transfer updated",
			zap.String("transfer_id", out.ID),
			zap.String("step", out.CompletedStep.String()),
			zap.String("status", string(out.Status)))
	}
	return out, nil
}
