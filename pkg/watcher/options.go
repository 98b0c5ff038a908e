package watcher

import (
	"time"

	"go.uber.org/zap"
)

const (
	DefaultConcurrency = 8
	DefaultBatchSize   = 100
	defaultPollTimeout = 2 * time.Minute
)

type settings struct {
	logger      *zap.Logger
	concurrency int
	batchSize   int
	pollTimeout time.Duration
}

// Option configures the watcher.
type Option func(*settings)

// WithLogger sets a custom logger for the watcher.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithConcurrency bounds how many transfers are checked at once.
func WithConcurrency(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithBatchSize bounds how many active transfers one poll loads.
func WithBatchSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithPollTimeout bounds a single poll.
func WithPollTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.pollTimeout = d
		}
	}
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:      zap.NewNop(),
		concurrency: DefaultConcurrency,
		batchSize:   DefaultBatchSize,
		pollTimeout: defaultPollTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
