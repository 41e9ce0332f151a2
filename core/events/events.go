package events

import (
	"github.com/kilianp07/avfleet/core/fleet"
	"github.com/kilianp07/avfleet/core/model"
)

// VehicleEvent is published on the bus for every observer notification.
type VehicleEvent struct {
	Event model.Event
}

// SnapshotEvent carries a periodic fleet statistics snapshot for the metric
// sinks.
type SnapshotEvent struct {
	Stats fleet.Stats
}
