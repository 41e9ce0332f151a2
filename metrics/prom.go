package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/avfleet/core/fleet"
	"github.com/kilianp07/avfleet/core/model"
)

// PromSink records vehicle events and fleet snapshots in Prometheus metrics.
type PromSink struct {
	events     *prometheus.CounterVec
	incidents  prometheus.Counter
	total      prometheus.Gauge
	active     prometheus.Gauge
	avgBattery prometheus.Gauge
}

// NewPromSink registers fleet metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are
// already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_vehicle_events_total",
		Help: "Total number of vehicle events",
	}, []string{"vehicle_id", "kind"})
	incidents := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleet_incidents_total",
		Help: "Total number of vehicle incidents",
	})
	total := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_vehicles",
		Help: "Number of vehicles in the fleet",
	})
	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_vehicles_active",
		Help: "Number of vehicles with status Active",
	})
	avgBattery := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleet_avg_battery_percent",
		Help: "Arithmetic mean of battery levels across the fleet",
	})

	s := &PromSink{events: events, incidents: incidents, total: total, active: active, avgBattery: avgBattery}
	if err := reg.Register(events); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.events = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(incidents); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			s.incidents = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	for _, g := range []struct {
		c   prometheus.Gauge
		set func(prometheus.Gauge)
	}{
		{total, func(g prometheus.Gauge) { s.total = g }},
		{active, func(g prometheus.Gauge) { s.active = g }},
		{avgBattery, func(g prometheus.Gauge) { s.avgBattery = g }},
	} {
		if err := reg.Register(g.c); err != nil {
			if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
				g.set(are.ExistingCollector.(prometheus.Gauge))
			} else {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordVehicleEvent increments the event counter, and the incident counter
// for incident events.
func (s *PromSink) RecordVehicleEvent(ev model.Event) error {
	s.events.WithLabelValues(ev.VehicleID, ev.Kind.String()).Inc()
	if ev.Kind == model.EventIncident {
		s.incidents.Inc()
	}
	return nil
}

// RecordFleetSnapshot updates the fleet gauges.
func (s *PromSink) RecordFleetSnapshot(st fleet.Stats) error {
	s.total.Set(float64(st.Total))
	s.active.Set(float64(st.Active))
	s.avgBattery.Set(st.AvgBattery)
	return nil
}
