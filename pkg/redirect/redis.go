package redirect

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	fieldTransferID = "minting"
	fieldTxHashes   = "transactionHashes"
	fieldErrorCode  = "errorCode"
)

// Redis keeps the slot in a single Redis hash so that a pending wallet round
// trip survives a restart of the service.
type Redis struct {
	client redis.UniversalClient
	key    string
}

var _ Channel = (*Redis)(nil)

// NewRedis returns a channel stored under key.
func NewRedis(client redis.UniversalClient, key string) *Redis {
	return &Redis{client: client, key: key}
}

func (r *Redis) Send(ctx context.Context, transferID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key, fieldTransferID, transferID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store redirect transfer id: %w", err)
	}
	return nil
}

func (r *Redis) Deliver(ctx context.Context, outcome Outcome) error {
	values := make(map[string]any, 2)
	if outcome.TxHashes != "" {
		values[fieldTxHashes] = outcome.TxHashes
	}
	if outcome.ErrorCode != "" {
		values[fieldErrorCode] = outcome.ErrorCode
	}
	if len(values) == 0 {
		return nil
	}
	if err := r.client.HSet(ctx, r.key, values).Err(); err != nil {
		return fmt.Errorf("failed to store wallet outcome: %w", err)
	}
	return nil
}

func (r *Redis) Receive(ctx context.Context) (Message, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return Message{}, fmt.Errorf("failed to read redirect slot: %w", err)
	}
	return Message{
		TransferID: fields[fieldTransferID],
		TxHashes:   fields[fieldTxHashes],
		ErrorCode:  fields[fieldErrorCode],
	}, nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to clear redirect slot: %w", err)
	}
	return nil
}
