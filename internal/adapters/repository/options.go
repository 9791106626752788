package repository

import (
	"strings"

	"github.com/okian/bigboard/pkg/logger"
	"github.com/okian/bigboard/pkg/metrics"
)

// Option applies a configuration option to the OverrideRepository.
type Option func(*OverrideRepository)

// WithKey sets the storage key. Blank keys are ignored.
func WithKey(key string) Option {
	return func(r *OverrideRepository) {
		if k := strings.TrimSpace(key); k != "" {
			r.key = k
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *OverrideRepository) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(r *OverrideRepository) {
		if m != nil {
			r.metrics = m
		}
	}
}
