// Package transfer defines the persisted state of a natural ETH to NEAR
// transfer. A Transfer is a value: every update returns a new snapshot and
// never touches the slices of the receiver.
package transfer

import (
	"fmt"
	"slices"
	"time"
)

// Type identifies the transfer flow implemented by pkg/sendtonear.
const Type = "@near-eth/near-ether/natural-ether/sendToNear"

// DefaultNeededConfirmations is hard-coded until the connector contract exposes it.
const DefaultNeededConfirmations = 20

// Status is the user-facing state of a transfer.
type Status string

const (
	StatusActionNeeded Status = "action-needed"
	StatusInProgress   Status = "in-progress"
	StatusFailed       Status = "failed"
	StatusComplete     Status = "complete"
)

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActionNeeded, StatusInProgress, StatusFailed, StatusComplete:
		return true
	}
	return false
}

// Step is the last step of the flow that finished successfully.
type Step string

const (
	StepNone Step = ""
	StepLock Step = "lock-natural-ether-to-nep141"
	StepSync Step = "sync-natural-ether-to-nep141"
	StepMint Step = "mint-natural-ether-to-nep141"
)

// Steps lists the flow steps in execution order.
var Steps = []Step{StepLock, StepSync, StepMint}

// Rank orders steps; it returns -1 for an unknown step.
func (s Step) Rank() int {
	switch s {
	case StepNone:
		return 0
	case StepLock:
		return 1
	case StepSync:
		return 2
	case StepMint:
		return 3
	}
	return -1
}

func (s Step) String() string {
	if s == StepNone {
		return "none"
	}
	return string(s)
}

// EthCache holds what is needed to find a lock transaction that the wallet
// replaced (speed up or cancel) after broadcast.
type EthCache struct {
	From            string `json:"from"`
	To              string `json:"to"`
	Nonce           uint64 `json:"nonce"`
	Data            string `json:"data"`
	SafeReorgHeight uint64 `json:"safeReorgHeight"`
}

// Receipt is the subset of an Ethereum receipt the flow relies on.
type Receipt struct {
	TransactionHash string `json:"transactionHash"`
	BlockNumber     uint64 `json:"blockNumber"`
	Status          bool   `json:"status"`
}

// Transfer is a single ETH -> NEAR transfer.
type Transfer struct {
	ID                   string `json:"id"`
	Type                 string `json:"type"`
	Amount               string `json:"amount"`
	Sender               string `json:"sender"`
	Recipient            string `json:"recipient"`
	SourceTokenName      string `json:"sourceTokenName"`
	DestinationTokenName string `json:"destinationTokenName"`
	Symbol               string `json:"symbol"`
	Decimals             int    `json:"decimals"`

	Status        Status   `json:"status"`
	CompletedStep Step     `json:"completedStep"`
	Errors        []string `json:"errors"`

	LockHashes   []string  `json:"lockHashes"`
	LockReceipts []Receipt `json:"lockReceipts"`
	MintHashes   []string  `json:"mintHashes"`
	EthCache     *EthCache `json:"ethCache,omitempty"`

	CompletedConfirmations int           `json:"completedConfirmations"`
	NeededConfirmations    int           `json:"neededConfirmations"`
	CheckSyncInterval      time.Duration `json:"checkSyncInterval"`
	NextCheckSyncTimestamp time.Time     `json:"nextCheckSyncTimestamp"`
	Proof                  []byte        `json:"proof,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft returns a fresh transfer waiting for the lock to be submitted.
func Draft(id string) Transfer {
	return Transfer{
		ID:                  id,
		Type:                Type,
		Status:              StatusActionNeeded,
		CompletedStep:       StepNone,
		Errors:              []string{},
		LockHashes:          []string{},
		LockReceipts:        []Receipt{},
		MintHashes:          []string{},
		NeededConfirmations: DefaultNeededConfirmations,
	}
}

// LastLockHash returns the authoritative lock transaction hash.
func (t Transfer) LastLockHash() (string, bool) {
	if len(t.LockHashes) == 0 {
		return "", false
	}
	return t.LockHashes[len(t.LockHashes)-1], true
}

// LastLockReceipt returns the authoritative lock receipt.
func (t Transfer) LastLockReceipt() (Receipt, bool) {
	if len(t.LockReceipts) == 0 {
		return Receipt{}, false
	}
	return t.LockReceipts[len(t.LockReceipts)-1], true
}

// Clone returns a deep copy of t.
func (t Transfer) Clone() Transfer {
	c := t
	c.Errors = slices.Clone(t.Errors)
	c.LockHashes = slices.Clone(t.LockHashes)
	c.LockReceipts = slices.Clone(t.LockReceipts)
	c.MintHashes = slices.Clone(t.MintHashes)
	c.Proof = slices.Clone(t.Proof)
	if t.EthCache != nil {
		ec := *t.EthCache
		c.EthCache = &ec
	}
	return c
}

// WithStatus returns a copy with the given status.
func (t Transfer) WithStatus(s Status) Transfer {
	c := t.Clone()
	c.Status = s
	return c
}

// WithError returns a copy with msg appended to the diagnostics.
func (t Transfer) WithError(msg string) Transfer {
	c := t.Clone()
	c.Errors = append(c.Errors, msg)
	return c
}

// Failed returns a copy marked failed with msg appended to the diagnostics.
func (t Transfer) Failed(msg string) Transfer {
	c := t.WithError(msg)
	c.Status = StatusFailed
	return c
}

// WithLockSubmitted records a freshly broadcast lock transaction.
func (t Transfer) WithLockSubmitted(hash string, cache EthCache) Transfer {
	c := t.Clone()
	c.Status = StatusInProgress
	c.EthCache = &cache
	c.LockHashes = append(c.LockHashes, hash)
	return c
}

// WithLockHash returns a copy with a replacement lock hash appended.
func (t Transfer) WithLockHash(hash string) Transfer {
	c := t.Clone()
	c.LockHashes = append(c.LockHashes, hash)
	return c
}

// WithLockReceipt returns a copy with the receipt appended.
func (t Transfer) WithLockReceipt(r Receipt) Transfer {
	c := t.Clone()
	c.LockReceipts = append(c.LockReceipts, r)
	return c
}

// WithMintHash returns a copy with the mint hash appended.
func (t Transfer) WithMintHash(hash string) Transfer {
	c := t.Clone()
	c.MintHashes = append(c.MintHashes, hash)
	return c
}

// WithConfirmations returns a copy with the confirmation counter updated.
func (t Transfer) WithConfirmations(n int) Transfer {
	c := t.Clone()
	c.CompletedConfirmations = n
	return c
}

// WithNextCheckSync returns a copy scheduling the next sync check.
func (t Transfer) WithNextCheckSync(at time.Time) Transfer {
	c := t.Clone()
	c.NextCheckSyncTimestamp = at
	return c
}

// WithCheckSyncInterval returns a copy with the sync polling interval set.
func (t Transfer) WithCheckSyncInterval(d time.Duration) Transfer {
	c := t.Clone()
	c.CheckSyncInterval = d
	return c
}

// WithProof returns a copy carrying the inclusion proof.
func (t Transfer) WithProof(proof []byte) Transfer {
	c := t.Clone()
	c.Proof = slices.Clone(proof)
	return c
}

// Advance returns a copy with CompletedStep set to step. Moving backwards is
// refused so that a stale snapshot can never rewind a transfer.
func (t Transfer) Advance(step Step) (Transfer, error) {
	if step.Rank() < 0 {
		return t, fmt.Errorf("unknown step %q", step)
	}
	if step.Rank() < t.CompletedStep.Rank() {
		return t, fmt.Errorf("transfer %s: cannot move from %s back to %s", t.ID, t.CompletedStep, step)
	}
	c := t.Clone()
	c.CompletedStep = step
	return c, nil
}

// Query is the expectation a located transaction is validated against.
type Query struct {
	From  string
	To    string
	Nonce uint64
	// Data is the expected calldata, hex encoded with 0x prefix. Empty skips the check.
	Data string
	// Value is the expected wei value as a base-10 string. Empty skips the check.
	Value string
}

// ReplacementQuery builds the search query from the cached lock submission.
func (c EthCache) ReplacementQuery() Query {
	return Query{
		From:  c.From,
		To:    c.To,
		Nonce: c.Nonce,
		Data:  c.Data,
	}
}
