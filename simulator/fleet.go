// Package simulator bulk-generates vehicles for seeding demo fleets.
package simulator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kilianp07/avfleet/core/model"
)

var fleetRng = rand.New(rand.NewSource(time.Now().UnixNano()))

// FleetConfig holds parameters for bulk fleet generation.
type FleetConfig struct {
	Size int `json:"size"`
	// Generated batteries are drawn uniformly from [MinBattery, MaxBattery].
	MinBattery int `json:"min_battery"`
	MaxBattery int `json:"max_battery"`
	// HighPriorityPct is the share of vehicles assigned PriorityHigh; the
	// rest are split evenly between Medium and Low.
	HighPriorityPct float64 `json:"high_priority_pct"`
	// IdlePct is the share of vehicles created idle instead of active.
	IdlePct float64 `json:"idle_pct"`
}

// SetDefaults applies sane defaults.
func (c *FleetConfig) SetDefaults() {
	if c.MinBattery == 0 && c.MaxBattery == 0 {
		c.MinBattery = model.CriticalBattery
		c.MaxBattery = model.MaxBattery
	}
}

// Validate checks the generation parameters.
func (c FleetConfig) Validate() error {
	if c.Size < 0 {
		return fmt.Errorf("size must be >= 0")
	}
	if c.MinBattery < model.MinBattery || c.MaxBattery > model.MaxBattery {
		return fmt.Errorf("battery range outside [%d,%d]", model.MinBattery, model.MaxBattery)
	}
	if c.MinBattery > c.MaxBattery {
		return fmt.Errorf("min_battery > max_battery")
	}
	if c.HighPriorityPct < 0 || c.HighPriorityPct > 1 {
		return fmt.Errorf("high_priority_pct outside [0,1]")
	}
	if c.IdlePct < 0 || c.IdlePct > 1 {
		return fmt.Errorf("idle_pct outside [0,1]")
	}
	return nil
}

// GenerateFleet creates Size vehicles with ids veh0001..vehNNNN.
func GenerateFleet(cfg FleetConfig) ([]*model.Vehicle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	vs := make([]*model.Vehicle, 0, cfg.Size)
	for i := 0; i < cfg.Size; i++ {
		id := fmt.Sprintf("veh%04d", i+1)
		battery := cfg.MinBattery
		if cfg.MaxBattery > cfg.MinBattery {
			battery += fleetRng.Intn(cfg.MaxBattery - cfg.MinBattery + 1)
		}
		status := model.StatusActive
		if cfg.IdlePct > 0 && fleetRng.Float64() < cfg.IdlePct {
			status = model.StatusIdle
		}
		priority := model.PriorityMedium
		if cfg.HighPriorityPct > 0 && fleetRng.Float64() < cfg.HighPriorityPct {
			priority = model.PriorityHigh
		} else if fleetRng.Float64() < 0.5 {
			priority = model.PriorityLow
		}
		v, err := model.NewVehicle(id, battery, status, priority)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", id, err)
		}
		vs = append(vs, v)
	}
	return vs, nil
}
