// Package mission implements the central observer reacting to vehicle events.
package mission

import (
	"github.com/kilianp07/avfleet/core/events"
	"github.com/kilianp07/avfleet/core/model"
	"github.com/kilianp07/avfleet/infra/logger"
	"github.com/kilianp07/avfleet/internal/eventbus"
)

// Control is mission control: it subscribes to every vehicle and turns each
// event into a structured alert. It holds no vehicle state of its own. When a
// bus is attached, every event is also forwarded to it for downstream sinks;
// the forward never blocks the mutation that raised the event.
type Control struct {
	log logger.Logger
	bus *eventbus.Bus[any]
}

// NewControl creates mission control. The bus may be nil when no downstream
// sinks are wired.
func NewControl(log logger.Logger, bus *eventbus.Bus[any]) *Control {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Control{log: log, bus: bus}
}

// Watch subscribes mission control to the vehicle's events. Watching the same
// vehicle twice has no effect.
func (c *Control) Watch(v *model.Vehicle) {
	v.Subscribe(c)
}

// HandleVehicleEvent implements model.Observer.
func (c *Control) HandleVehicleEvent(ev model.Event) {
	fields := map[string]any{
		"vehicle_id": ev.VehicleID,
		"kind":       ev.Kind.String(),
	}
	if ev.Kind == model.EventIncident {
		c.log.Warnf("ALERT [%s] %s", ev.VehicleID, ev.Message)
	} else {
		c.log.Infof("event [%s] %s", ev.VehicleID, ev.Message)
	}
	c.log.Debugw("vehicle event", fields)
	if c.bus != nil {
		c.bus.Publish(events.VehicleEvent{Event: ev})
	}
}
