// Package events defines the payload types emitted on the internal event bus.
//
// Available event types:
//   - VehicleEvent: a vehicle-raised event forwarded by mission control
//   - SnapshotEvent: a periodic fleet statistics snapshot
package events
