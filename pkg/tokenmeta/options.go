package tokenmeta

import "go.uber.org/zap"

type settings struct {
	logger      *zap.Logger
	icons       IconProber
	iconBaseURL string
}

// Option configures the metadata cache.
type Option func(*settings)

// WithLogger sets a custom logger for the cache.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithIconProber sets how icon URLs are checked. Without one no icon is
// resolved.
func WithIconProber(p IconProber) Option {
	return func(s *settings) { s.icons = p }
}

// WithIconBaseURL overrides DefaultIconBaseURL.
func WithIconBaseURL(u string) Option {
	return func(s *settings) { s.iconBaseURL = u }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:      zap.NewNop(),
		iconBaseURL: DefaultIconBaseURL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}
