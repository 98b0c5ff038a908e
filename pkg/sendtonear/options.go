package sendtonear

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type settings struct {
	logger   *zap.Logger
	now      func() time.Time
	dispatch func(func())
	newID    func() string
}

// Option configures the state machine.
type Option func(*settings)

// WithLogger sets a custom logger for the state machine.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithClock overrides the clock used for sync throttling.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithDispatcher sets how the deferred mint call is run. The default runs it
// on its own goroutine after mint has returned.
func WithDispatcher(dispatch func(task func())) Option {
	return func(s *settings) { s.dispatch = dispatch }
}

// WithIDGenerator overrides how new transfer ids are made.
func WithIDGenerator(newID func() string) Option {
	return func(s *settings) { s.newID = newID }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:   zap.NewNop(),
		now:      time.Now,
		dispatch: func(task func()) { go task() },
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
