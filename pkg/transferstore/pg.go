package transferstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

const defaultListLimit = 100

type pgStore struct {
	db  *bun.DB
	now func() time.Time
}

var _ Store = (*pgStore)(nil)

// NewStore creates a new postgres implementation of the transfer store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db, now: time.Now}
}

func (s *pgStore) Track(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	now := s.now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
	dao := toTransferDao(t)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("*").
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return t, fmt.Errorf("%w: %s", ErrTransferExists, t.ID)
		}
		return t, fmt.Errorf("failed to track transfer: %w", err)
	}
	return toTransfer(dao), nil
}

func (s *pgStore) Save(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error) {
	t.UpdatedAt = s.now().UTC()
	dao := toTransferDao(t)

	res, err := s.db.NewUpdate().
		Model(dao).
		ExcludeColumn("id", "created_at").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		return t, fmt.Errorf("failed to save transfer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return t, fmt.Errorf("failed to save transfer: %w", err)
	}
	if n == 0 {
		return t, ErrTransferNotFound
	}
	return toTransfer(dao), nil
}

func (s *pgStore) Get(ctx context.Context, id string) (transfer.Transfer, error) {
	dao := new(TransferDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return transfer.Transfer{}, ErrTransferNotFound
		}
		return transfer.Transfer{}, fmt.Errorf("failed to get transfer: %w", err)
	}
	return toTransfer(dao), nil
}

func (s *pgStore) List(ctx context.Context, opts ...QueryOption) ([]transfer.Transfer, error) {
	options := &QueryOptions{Limit: defaultListLimit}
	for _, opt := range opts {
		opt(options)
	}

	var daos []TransferDao
	query := s.db.NewSelect().Model(&daos)
	if options.Sender != nil {
		query = query.Where("lower(sender) = lower(?)", *options.Sender)
	}
	if options.Status != nil {
		query = query.Where("status = ?", string(*options.Status))
	}
	if options.Limit > 0 {
		query = query.Limit(options.Limit)
	}

	if err := query.Order("created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return toTransfers(daos), nil
}

func (s *pgStore) ListInProgress(ctx context.Context, limit int) ([]transfer.Transfer, error) {
	var daos []TransferDao
	query := s.db.NewSelect().
		Model(&daos).
		Where("status = ?", string(transfer.StatusInProgress)).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list in-progress transfers: %w", err)
	}
	return toTransfers(daos), nil
}

func (s *pgStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.NewDelete().
		Model((*TransferDao)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}
	if n == 0 {
		return ErrTransferNotFound
	}
	return nil
}

func toTransfers(daos []TransferDao) []transfer.Transfer {
	out := make([]transfer.Transfer, len(daos))
	for i := range daos {
		out[i] = toTransfer(&daos[i])
	}
	return out
}
