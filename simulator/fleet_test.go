package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/avfleet/core/model"
)

func TestGenerateFleet(t *testing.T) {
	cfg := FleetConfig{Size: 25, MinBattery: 30, MaxBattery: 90, HighPriorityPct: 0.5, IdlePct: 0.2}
	vs, err := GenerateFleet(cfg)
	require.NoError(t, err)
	require.Len(t, vs, 25)

	assert.Equal(t, "veh0001", vs[0].ID())
	assert.Equal(t, "veh0025", vs[24].ID())
	for _, v := range vs {
		assert.GreaterOrEqual(t, v.Battery(), 30)
		assert.LessOrEqual(t, v.Battery(), 90)
		assert.NotEqual(t, model.StatusFailed, v.Status())
	}
}

func TestGenerateFleetEmpty(t *testing.T) {
	vs, err := GenerateFleet(FleetConfig{MaxBattery: 100})
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestFleetConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  FleetConfig
	}{
		{"negative size", FleetConfig{Size: -1, MaxBattery: 100}},
		{"inverted range", FleetConfig{Size: 1, MinBattery: 80, MaxBattery: 20}},
		{"battery above bounds", FleetConfig{Size: 1, MaxBattery: 120}},
		{"bad priority share", FleetConfig{Size: 1, MaxBattery: 100, HighPriorityPct: 1.5}},
		{"bad idle share", FleetConfig{Size: 1, MaxBattery: 100, IdlePct: -0.1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestFleetConfigDefaults(t *testing.T) {
	var cfg FleetConfig
	cfg.SetDefaults()
	assert.Equal(t, model.CriticalBattery, cfg.MinBattery)
	assert.Equal(t, model.MaxBattery, cfg.MaxBattery)
	assert.NoError(t, cfg.Validate())
}
