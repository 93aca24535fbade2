package broker

import "log/slog"

// Option configures optional Broker behavior, following the functional
// options pattern used throughout this codebase's construction sites.
type Option func(*Broker)

// WithLogger overrides the broker's structured logger. The default is
// slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Broker) { b.logger = logger }
}
