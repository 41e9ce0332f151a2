package mqtt

import "github.com/kilianp07/avfleet/core/model"

// EventMessage is the wire form of a vehicle event.
type EventMessage struct {
	EventID   string `json:"event_id"`
	VehicleID string `json:"vehicle_id"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// NewEventMessage converts a vehicle event into its wire form, assigning a
// fresh event id.
func NewEventMessage(ev model.Event) EventMessage {
	return EventMessage{
		EventID:   newEventID(),
		VehicleID: ev.VehicleID,
		Kind:      ev.Kind.String(),
		Message:   ev.Message,
		Timestamp: ev.Time.Unix(),
	}
}
