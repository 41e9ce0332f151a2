package model

import (
	"fmt"
	"strings"
	"time"
)

// Battery bounds and the threshold below which a vehicle is considered
// operationally failed.
const (
	MinBattery      = 0
	MaxBattery      = 100
	CriticalBattery = 10
)

// LogEntry is a single timestamped entry in a vehicle's operational log.
type LogEntry struct {
	Time    time.Time
	Message string
}

// Vehicle represents one simulated autonomous vehicle. It owns its mutable
// state and publishes events to registered observers on notable transitions.
//
// A vehicle whose battery drops below CriticalBattery, that is navigated on a
// blank route, or that reports an unauthorized override runs the incident
// path: an INCIDENT log entry, an EventIncident published to all observers,
// and status forced to StatusFailed. Nothing in this package revives a failed
// vehicle; only an explicit status update does.
type Vehicle struct {
	id        string
	battery   int
	status    Status
	priority  Priority
	log       []LogEntry
	observers []Observer
	now       func() time.Time
}

// NewVehicle creates a vehicle with validated initial values and a creation
// log entry. Timestamps are read from the wall clock.
func NewVehicle(id string, battery int, status Status, priority Priority) (*Vehicle, error) {
	return NewVehicleWithClock(id, battery, status, priority, time.Now)
}

// NewVehicleWithClock is NewVehicle with an injected clock for deterministic
// log timestamps.
func NewVehicleWithClock(id string, battery int, status Status, priority Priority, now func() time.Time) (*Vehicle, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Reason: "must not be blank"}
	}
	if battery < MinBattery || battery > MaxBattery {
		return nil, &ValidationError{Field: "battery", Reason: fmt.Sprintf("%d outside [%d,%d]", battery, MinBattery, MaxBattery)}
	}
	if now == nil {
		now = time.Now
	}
	v := &Vehicle{id: id, battery: battery, status: status, priority: priority, now: now}
	v.AppendLog("vehicle created")
	return v, nil
}

func (v *Vehicle) ID() string         { return v.id }
func (v *Vehicle) Battery() int       { return v.battery }
func (v *Vehicle) Status() Status     { return v.status }
func (v *Vehicle) Priority() Priority { return v.priority }

// Log returns a copy of the vehicle's log in append order.
func (v *Vehicle) Log() []LogEntry {
	out := make([]LogEntry, len(v.log))
	copy(out, v.log)
	return out
}

// Subscribe registers an observer for this vehicle's events. Subscribing the
// same observer twice is a no-op, so an observer is notified once per event.
func (v *Vehicle) Subscribe(o Observer) {
	for _, cur := range v.observers {
		if cur == o {
			return
		}
	}
	v.observers = append(v.observers, o)
}

// SetStatus overwrites the status, including transitions out of StatusFailed.
// The fleet registry is the only expected caller.
func (v *Vehicle) SetStatus(s Status) { v.status = s }

// SetPriority overwrites the mission priority.
func (v *Vehicle) SetPriority(p Priority) { v.priority = p }

// UpdateBattery overwrites the battery level after range validation and logs
// the new value. Any update below CriticalBattery runs the incident path,
// even a deliberate drain.
func (v *Vehicle) UpdateBattery(level int) error {
	if level < MinBattery || level > MaxBattery {
		return &ValidationError{Field: "battery", Reason: fmt.Sprintf("%d outside [%d,%d]", level, MinBattery, MaxBattery)}
	}
	v.battery = level
	v.AppendLog(fmt.Sprintf("battery updated to %d%%", level))
	if level < CriticalBattery {
		v.incident(fmt.Sprintf("battery critically low at %d%%", level))
	}
	return nil
}

// Navigate records a navigation attempt. A blank route runs the incident
// path; a valid route only logs.
func (v *Vehicle) Navigate(route string) {
	if strings.TrimSpace(route) == "" {
		v.incident("invalid route received")
		return
	}
	v.AppendLog(fmt.Sprintf("navigating route %s", route))
}

// FlagUnauthorizedOverride reports an unauthorized control override and runs
// the incident path.
func (v *Vehicle) FlagUnauthorizedOverride() {
	v.incident("unauthorized control override detected")
}

// CompleteRoute logs the completion and publishes EventRouteCompleted. The
// status is left unchanged.
func (v *Vehicle) CompleteRoute() {
	v.AppendLog("route completed")
	v.publish(EventRouteCompleted, "route completed successfully")
}

// DetectObstacle logs the detection and publishes EventObstacleDetected.
func (v *Vehicle) DetectObstacle() {
	v.AppendLog("obstacle detected")
	v.publish(EventObstacleDetected, "obstacle detected on current route")
}

// EnterRestrictedZone logs the entry and publishes EventRestrictedZone.
func (v *Vehicle) EnterRestrictedZone() {
	v.AppendLog("entered restricted zone")
	v.publish(EventRestrictedZone, "vehicle entered a restricted zone")
}

// AppendLog appends a message stamped with the vehicle clock.
func (v *Vehicle) AppendLog(message string) {
	v.log = append(v.log, LogEntry{Time: v.now(), Message: message})
}

// incident is the common failure path: log, publish, force StatusFailed.
func (v *Vehicle) incident(message string) {
	v.AppendLog("INCIDENT: " + message)
	v.publish(EventIncident, message)
	v.status = StatusFailed
}

func (v *Vehicle) publish(kind EventKind, message string) {
	ev := Event{VehicleID: v.id, Kind: kind, Message: message, Time: v.now()}
	for _, o := range v.observers {
		o.HandleVehicleEvent(ev)
	}
}
