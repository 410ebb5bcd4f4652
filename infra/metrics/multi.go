package metrics

import coremetrics "github.com/gmahli/fsaas/core/metrics"

// MultiSink fans simulation events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTick forwards to all sinks, returning the first error encountered.
func (m *MultiSink) RecordTick(ev coremetrics.TickEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTick(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordAlert forwards to all sinks.
func (m *MultiSink) RecordAlert(ev coremetrics.AlertEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordAlert(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFuel forwards fuel snapshots to sinks that keep them.
func (m *MultiSink) RecordFuel(ev coremetrics.FuelEvent) error {
	for _, s := range m.Sinks {
		if fr, ok := s.(coremetrics.FuelRecorder); ok {
			if err := fr.RecordFuel(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
