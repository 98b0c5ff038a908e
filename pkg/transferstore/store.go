// Package transferstore persists transfers in PostgreSQL so that the watcher
// can keep polling them across restarts.
package transferstore

import (
	"context"
	"errors"

	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

var (
	// ErrTransferNotFound is returned when no transfer has the requested id.
	ErrTransferNotFound = errors.New("transfer not found")
	// ErrTransferExists is returned by Track for an id that is already tracked.
	ErrTransferExists = errors.New("transfer already tracked")
)

// Store is the transfer registry.
type Store interface {
	// Track registers a new transfer.
	Track(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
	// Save stores a new snapshot of a tracked transfer.
	Save(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
	Get(ctx context.Context, id string) (transfer.Transfer, error)
	List(ctx context.Context, opts ...QueryOption) ([]transfer.Transfer, error)
	// ListInProgress returns transfers waiting on a chain, oldest first.
	// Transfers waiting on the user are left out.
	ListInProgress(ctx context.Context, limit int) ([]transfer.Transfer, error)
	Delete(ctx context.Context, id string) error
}

// QueryOptions filters List.
type QueryOptions struct {
	Sender *string
	Status *transfer.Status
	Limit  int
}

// QueryOption configures QueryOptions.
type QueryOption func(*QueryOptions)

// BySender keeps transfers sent from sender.
func BySender(sender string) QueryOption {
	return func(o *QueryOptions) { o.Sender = &sender }
}

// ByStatus keeps transfers with the given status.
func ByStatus(s transfer.Status) QueryOption {
	return func(o *QueryOptions) { o.Status = &s }
}

// WithLimit caps the number of returned transfers.
func WithLimit(n int) QueryOption {
	return func(o *QueryOptions) { o.Limit = n }
}
