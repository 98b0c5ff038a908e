package transferdb

import (
	"context"
	"log"

	mghelper "github.com/chainsafe/near-eth-transfer/pkg/pgutil/migrations"
	"github.com/chainsafe/near-eth-transfer/pkg/transferstore"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating transfers table...")
		if err := mghelper.CreateSchema(ctx, db, &transferstore.TransferDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &transferstore.TransferDao{}, "status", "sender", "created_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping transfers table...")
		return mghelper.DropTables(ctx, db, &transferstore.TransferDao{})
	})
}
