package metrics

import (
	"context"

	"github.com/kilianp07/avfleet/core/events"
	"github.com/kilianp07/avfleet/infra/logger"
	"github.com/kilianp07/avfleet/internal/eventbus"
)

// Recorder consumes bus events and records them on a sink. It runs apart
// from the observer notification path so a slow sink never stalls a vehicle
// mutation.
type Recorder struct {
	sink Sink
	bus  *eventbus.Bus[any]
	ch   <-chan any
	log  logger.Logger
}

// NewRecorder creates a Recorder and subscribes it to the bus immediately,
// so events published between construction and Run are buffered rather than
// lost. A nil sink is replaced by NopSink.
func NewRecorder(sink Sink, bus *eventbus.Bus[any], log logger.Logger) *Recorder {
	if sink == nil {
		sink = NopSink{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Recorder{sink: sink, bus: bus, ch: bus.Subscribe(), log: log}
}

// Run consumes the bus until the context is canceled or the bus closes.
func (r *Recorder) Run(ctx context.Context) {
	defer r.bus.Unsubscribe(r.ch)
	for {
		select {
		case e, ok := <-r.ch:
			if !ok {
				return
			}
			r.record(e)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Recorder) record(e any) {
	switch ev := e.(type) {
	case events.VehicleEvent:
		if err := r.sink.RecordVehicleEvent(ev.Event); err != nil {
			r.log.Errorf("record vehicle event: %v", err)
		}
	case events.SnapshotEvent:
		if err := r.sink.RecordFleetSnapshot(ev.Stats); err != nil {
			r.log.Errorf("record fleet snapshot: %v", err)
		}
	}
}
