// Package watcher keeps in-progress transfers moving by polling their status
// and persisting every snapshot that changed.
package watcher

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chainsafe/near-eth-transfer/internal/metrics"
	"github.com/chainsafe/near-eth-transfer/pkg/transfer"
)

// Store is the persistence the watcher reads active transfers from.
type Store interface {
	ListInProgress(ctx context.Context, limit int) ([]transfer.Transfer, error)
	Save(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
}

// Checker advances a transfer by polling the current step.
type Checker interface {
	CheckStatus(ctx context.Context, t transfer.Transfer) (transfer.Transfer, error)
}

// Watcher polls active transfers on a fixed interval.
type Watcher struct {
	store   Store
	checker Checker
	logger  *zap.Logger

	concurrency int
	batchSize   int
	pollTimeout time.Duration

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a watcher.
func New(store Store, checker Checker, opts ...Option) *Watcher {
	s := applyOptions(opts)
	return &Watcher{
		store:       store,
		checker:     checker,
		logger:      s.logger,
		concurrency: s.concurrency,
		batchSize:   s.batchSize,
		pollTimeout: s.pollTimeout,
		stopCh:      make(chan struct{}),
	}
}

// Start polls in a background goroutine every interval until Stop is called.
func (w *Watcher) Start(interval time.Duration) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		w.logger.Info("Started transfer watcher",
			zap.Duration("interval", interval),
			zap.Int("concurrency", w.concurrency))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), w.pollTimeout)
				if err := w.PollOnce(ctx); err != nil {
					w.logger.Error("Transfer poll failed", zap.Error(err))
				}
				cancel()
			case <-w.stopCh:
				w.logger.Info("Stopping transfer watcher")
				return
			}
		}
	}()
}

// Stop stops the polling goroutine and waits for the running poll to finish.
// It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
}

// PollOnce checks every in-progress transfer once. Only listing errors are
// returned; a transfer that fails to advance is logged and retried on the
// next poll.
func (w *Watcher) PollOnce(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.PollDuration.Observe(time.Since(start).Seconds()) }()

	active, err := w.store.ListInProgress(ctx, w.batchSize)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("watcher", "list").Inc()
		return err
	}
	metrics.ActiveTransfers.Set(float64(len(active)))

	var g errgroup.Group
	g.SetLimit(w.concurrency)
	for _, t := range active {
		if t.Status != transfer.StatusInProgress {
			continue
		}
		g.Go(func() error {
			w.poll(ctx, t)
			return nil
		})
	}
	return g.Wait()
}

func (w *Watcher) poll(ctx context.Context, t transfer.Transfer) {
	next, err := w.checker.CheckStatus(ctx, t)
	if err != nil {
		metrics.ErrorsTotal.WithLabelValues("watcher", "check").Inc()
		w.logger.Warn("Failed to check transfer status",
			zap.String("transfer_id", t.ID),
			zap.String("step", t.CompletedStep.String()),
			zap.Error(err))
		return
	}
	if !changed(t, next) {
		return
	}
	if _, err := w.store.Save(ctx, next); err != nil {
		metrics.ErrorsTotal.WithLabelValues("watcher", "save").Inc()
		w.logger.Error("Failed to save transfer",
			zap.String("transfer_id", t.ID),
			zap.Error(err))
	}
}

func changed(a, b transfer.Transfer) bool {
	return a.Status != b.Status ||
		a.CompletedStep != b.CompletedStep ||
		a.CompletedConfirmations != b.CompletedConfirmations ||
		!a.NextCheckSyncTimestamp.Equal(b.NextCheckSyncTimestamp) ||
		a.CheckSyncInterval != b.CheckSyncInterval ||
		len(a.Errors) != len(b.Errors) ||
		len(a.LockHashes) != len(b.LockHashes) ||
		len(a.LockReceipts) != len(b.LockReceipts) ||
		len(a.MintHashes) != len(b.MintHashes) ||
		len(a.Proof) != len(b.Proof)
}
