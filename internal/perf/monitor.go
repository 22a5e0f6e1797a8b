package perf

import (
	"time"

	"go.uber.org/zap"
)

// Monitor times labelled calls, logs each duration at debug level and
// records it into a Comparison.
// A nil *Monitor is valid and simply runs the function.
type Monitor struct {
	logger *zap.Logger
	stats  *Comparison
	now    func() time.Time
}

// NewMonitor returns a Monitor logging to logger. A nil logger logs nothing.
func NewMonitor(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		logger: logger,
		stats:  NewComparison(),
		now:    time.Now,
	}
}

// Stats returns the accumulated measurements.
func (m *Monitor) Stats() *Comparison {
	if m == nil {
		return NewComparison()
	}
	return m.stats
}

// Measure runs fn and records how long it took, whether or not it failed.
func (m *Monitor) Measure(label string, fn func() error) error {
	if m == nil {
		return fn()
	}
	start := m.now()
	err := fn()
	d := m.now().Sub(start)

	m.stats.Record(label, d)
	m.logger.Debug("timed call",
		zap.String("label", label),
		zap.Duration("duration", d),
		zap.Bool("failed", err != nil))
	return err
}
