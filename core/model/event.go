package model

import "time"

// EventKind identifies the class of a vehicle event.
type EventKind int

const (
	EventRouteCompleted EventKind = iota
	EventObstacleDetected
	EventRestrictedZone
	EventIncident
)

func (k EventKind) String() string {
	switch k {
	case EventRouteCompleted:
		return "route_completed"
	case EventObstacleDetected:
		return "obstacle_detected"
	case EventRestrictedZone:
		return "restricted_zone"
	case EventIncident:
		return "incident"
	}
	return "unknown"
}

// Event is delivered to every observer registered on a vehicle. The same
// record is used for the incident path and for route/obstacle/zone events.
type Event struct {
	VehicleID string
	Kind      EventKind
	Message   string
	Time      time.Time
}

// Observer receives vehicle events. Observers are invoked synchronously in
// registration order by the vehicle that raised the event.
type Observer interface {
	HandleVehicleEvent(Event)
}
