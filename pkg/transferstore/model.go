package transferstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

// TransferDao is a data access object that maps directly to the 'transfers' table in PostgreSQL.
type TransferDao struct {
	bun.BaseModel          `bun:"table:transfers,alias:t"`
	ID                     string             `bun:"id,pk,type:varchar(64)"`
	Type                   string             `bun:"type,notnull,type:varchar(128)"`
	Amount                 string             `bun:"amount,notnull,type:numeric(78,0)"`
	Sender                 string             `bun:"sender,notnull,type:varchar(64)"`
	Recipient              string             `bun:"recipient,notnull,type:varchar(128)"`
	SourceTokenName        string             `bun:"source_token_name,type:varchar(32)"`
	DestinationTokenName   string             `bun:"destination_token_name,type:varchar(32)"`
	Symbol                 string             `bun:"symbol,type:varchar(32)"`
	Decimals               int                `bun:"decimals,notnull"`
	Status                 string             `bun:"status,notnull,type:varchar(20)"`
	CompletedStep          string             `bun:"completed_step,notnull,type:varchar(64)"`
	Errors                 []string           `bun:"errors,type:jsonb"`
	LockHashes             []string           `bun:"lock_hashes,type:jsonb"`
	LockReceipts           []transfer.Receipt `bun:"lock_receipts,type:jsonb"`
	MintHashes             []string           `bun:"mint_hashes,type:jsonb"`
	EthCache               *transfer.EthCache `bun:"eth_cache,type:jsonb"`
	CompletedConfirmations int                `bun:"completed_confirmations,notnull"`
	NeededConfirmations    int                `bun:"needed_confirmations,notnull"`
	CheckSyncInterval      time.Duration      `bun:"check_sync_interval,notnull"`
	NextCheckSyncAt        time.Time          `bun:"next_check_sync_at,nullzero"`
	Proof                  []byte             `bun:"proof,type:bytea"`
	CreatedAt              time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt              time.Time          `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// toTransferDao converts a transfer.Transfer to TransferDao.
func toTransferDao(t transfer.Transfer) *TransferDao {
	return &TransferDao{
		ID:                     t.ID,
		Type:                   t.Type,
		Amount:                 t.Amount,
		Sender:                 t.Sender,
		Recipient:              t.Recipient,
		SourceTokenName:        t.SourceTokenName,
		DestinationTokenName:   t.DestinationTokenName,
		Symbol:                 t.Symbol,
		Decimals:               t.Decimals,
		Status:                 string(t.Status),
		CompletedStep:          string(t.CompletedStep),
		Errors:                 nonNil(t.Errors),
		LockHashes:             nonNil(t.LockHashes),
		LockReceipts:           nonNil(t.LockReceipts),
		MintHashes:             nonNil(t.MintHashes),
		EthCache:               t.EthCache,
		CompletedConfirmations: t.CompletedConfirmations,
		NeededConfirmations:    t.NeededConfirmations,
		CheckSyncInterval:      t.CheckSyncInterval,
		NextCheckSyncAt:        t.NextCheckSyncTimestamp,
		Proof:                  t.Proof,
		CreatedAt:              t.CreatedAt,
		UpdatedAt:              t.UpdatedAt,
	}
}

// toTransfer converts a TransferDao to transfer.Transfer.
func toTransfer(dao *TransferDao) transfer.Transfer {
	return transfer.Transfer{
		ID:                     dao.ID,
		Type:                   dao.Type,
		Amount:                 dao.Amount,
		Sender:                 dao.Sender,
		Recipient:              dao.Recipient,
		SourceTokenName:        dao.SourceTokenName,
		DestinationTokenName:   dao.DestinationTokenName,
		Symbol:                 dao.Symbol,
		Decimals:               dao.Decimals,
		Status:                 transfer.Status(dao.Status),
		CompletedStep:          transfer.Step(dao.CompletedStep),
		Errors:                 nonNil(dao.Errors),
		LockHashes:             nonNil(dao.LockHashes),
		LockReceipts:           nonNil(dao.LockReceipts),
		MintHashes:             nonNil(dao.MintHashes),
		EthCache:               dao.EthCache,
		CompletedConfirmations: dao.CompletedConfirmations,
		NeededConfirmations:    dao.NeededConfirmations,
		CheckSyncInterval:      dao.CheckSyncInterval,
		NextCheckSyncTimestamp: dao.NextCheckSyncAt,
		Proof:                  dao.Proof,
		CreatedAt:              dao.CreatedAt,
		UpdatedAt:              dao.UpdatedAt,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
