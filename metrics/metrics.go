package metrics

import (
	"fmt"

	"github.com/kilianp07/avfleet/core/fleet"
	"github.com/kilianp07/avfleet/core/model"
)

// Config defines the observability settings.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr"`
	InfluxEnabled     bool   `json:"influx_enabled"`
	InfluxURL         string `json:"influx_url"`
	InfluxToken       string `json:"influx_token"`
	InfluxOrg         string `json:"influx_org"`
	InfluxBucket      string `json:"influx_bucket"`
	// SnapshotIntervalSeconds controls how often fleet statistics are
	// recorded. Negative disables snapshots.
	SnapshotIntervalSeconds int `json:"snapshot_interval_seconds"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9404"
	}
	if c.SnapshotIntervalSeconds == 0 {
		c.SnapshotIntervalSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.InfluxEnabled {
		if c.InfluxURL == "" {
			return fmt.Errorf("influx_url is required when influx is enabled")
		}
		if c.InfluxOrg == "" || c.InfluxBucket == "" {
			return fmt.Errorf("influx_org and influx_bucket are required when influx is enabled")
		}
	}
	return nil
}

// Sink records vehicle events and fleet snapshots for observability purposes.
type Sink interface {
	RecordVehicleEvent(ev model.Event) error
	RecordFleetSnapshot(s fleet.Stats) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordVehicleEvent(model.Event) error  { return nil }
func (NopSink) RecordFleetSnapshot(fleet.Stats) error { return nil }
