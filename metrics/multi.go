package metrics

import (
	"github.com/kilianp07/avfleet/core/fleet"
	"github.com/kilianp07/avfleet/core/model"
)

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordVehicleEvent forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordVehicleEvent(ev model.Event) error {
	for _, s := range m.Sinks {
		if err := s.RecordVehicleEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordFleetSnapshot forwards the snapshot to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordFleetSnapshot(st fleet.Stats) error {
	for _, s := range m.Sinks {
		if err := s.RecordFleetSnapshot(st); err != nil {
			return err
		}
	}
	return nil
}
