package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []Event
}

func (r *recordingObserver) HandleVehicleEvent(ev Event) {
	r.events = append(r.events, ev)
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time { return t }
}

func TestNewVehicleValidation(t *testing.T) {
	cases := []struct {
		name    string
		id      string
		battery int
	}{
		{"blank id", "   ", 50},
		{"empty id", "", 50},
		{"battery below range", "av-1", -1},
		{"battery above range", "av-1", 101},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := NewVehicle(tc.id, tc.battery, StatusActive, PriorityMedium)
			if v != nil {
				t.Fatalf("expected no vehicle, got %+v", v)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestNewVehicleAppendsCreationEntry(t *testing.T) {
	v, err := NewVehicleWithClock("av-1", 80, StatusIdle, PriorityHigh, fixedClock())
	require.NoError(t, err)
	log := v.Log()
	require.Len(t, log, 1)
	assert.Equal(t, "vehicle created", log[0].Message)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), log[0].Time)
}

func TestUpdateBatteryRejectsOutOfRange(t *testing.T) {
	v, err := NewVehicle("av-1", 50, StatusActive, PriorityLow)
	require.NoError(t, err)
	before := len(v.Log())

	for _, level := range []int{-1, 101, 250} {
		err := v.UpdateBattery(level)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("level %d: expected ValidationError, got %v", level, err)
		}
	}
	assert.Equal(t, 50, v.Battery(), "battery must be unchanged after rejected updates")
	assert.Equal(t, before, len(v.Log()), "rejected updates must not log")
}

func TestUpdateBatteryNormalValue(t *testing.T) {
	v, err := NewVehicle("av-1", 80, StatusActive, PriorityMedium)
	require.NoError(t, err)
	obs := &recordingObserver{}
	v.Subscribe(obs)
	before := len(v.Log())

	require.NoError(t, v.UpdateBattery(50))

	assert.Equal(t, 50, v.Battery())
	assert.Equal(t, StatusActive, v.Status())
	assert.Empty(t, obs.events)
	log := v.Log()
	require.Equal(t, before+1, len(log))
	assert.Equal(t, "battery updated to 50%", log[len(log)-1].Message)
}

func TestUpdateBatteryBelowThresholdRunsIncidentPath(t *testing.T) {
	v, err := NewVehicle("av-1", 80, StatusActive, PriorityHigh)
	require.NoError(t, err)
	obs := &recordingObserver{}
	v.Subscribe(obs)

	require.NoError(t, v.UpdateBattery(9))

	assert.Equal(t, StatusFailed, v.Status())
	require.Len(t, obs.events, 1)
	assert.Equal(t, "av-1", obs.events[0].VehicleID)
	assert.Equal(t, EventIncident, obs.events[0].Kind)

	incidents := 0
	for _, e := range v.Log() {
		if strings.HasPrefix(e.Message, "INCIDENT:") {
			incidents++
		}
	}
	assert.Equal(t, 1, incidents, "exactly one INCIDENT entry expected")
}

func TestNavigate(t *testing.T) {
	cases := []struct {
		route    string
		incident bool
	}{
		{"", true},
		{"   ", true},
		{"Route-7", false},
	}
	for _, tc := range cases {
		t.Run("route "+tc.route, func(t *testing.T) {
			v, err := NewVehicle("av-1", 90, StatusActive, PriorityMedium)
			require.NoError(t, err)
			obs := &recordingObserver{}
			v.Subscribe(obs)

			v.Navigate(tc.route)

			if tc.incident {
				assert.Equal(t, StatusFailed, v.Status())
				require.Len(t, obs.events, 1)
				assert.Equal(t, EventIncident, obs.events[0].Kind)
			} else {
				assert.Equal(t, StatusActive, v.Status())
				assert.Empty(t, obs.events)
			}
		})
	}
}

func TestFlagUnauthorizedOverride(t *testing.T) {
	v, err := NewVehicle("av-1", 90, StatusIdle, PriorityLow)
	require.NoError(t, err)
	obs := &recordingObserver{}
	v.Subscribe(obs)

	v.FlagUnauthorizedOverride()

	assert.Equal(t, StatusFailed, v.Status())
	require.Len(t, obs.events, 1)
	assert.Equal(t, EventIncident, obs.events[0].Kind)
}

func TestCompleteRouteNotifiesWithoutStatusChange(t *testing.T) {
	v, err := NewVehicle("av-7", 70, StatusActive, PriorityHigh)
	require.NoError(t, err)
	obs := &recordingObserver{}
	v.Subscribe(obs)

	v.CompleteRoute()

	assert.Equal(t, StatusActive, v.Status())
	require.Len(t, obs.events, 1)
	assert.Equal(t, "av-7", obs.events[0].VehicleID)
	assert.Equal(t, EventRouteCompleted, obs.events[0].Kind)
	assert.Contains(t, obs.events[0].Message, "route completed")
}

func TestEventKindsForTriggers(t *testing.T) {
	v, err := NewVehicle("av-1", 70, StatusActive, PriorityMedium)
	require.NoError(t, err)
	obs := &recordingObserver{}
	v.Subscribe(obs)

	v.DetectObstacle()
	v.EnterRestrictedZone()

	require.Len(t, obs.events, 2)
	assert.Equal(t, EventObstacleDetected, obs.events[0].Kind)
	assert.Equal(t, EventRestrictedZone, obs.events[1].Kind)
	assert.Equal(t, StatusActive, v.Status())
}

func TestSubscribeIsIdempotent(t *testing.T) {
	v, err := NewVehicle("av-1", 70, StatusActive, PriorityMedium)
	require.NoError(t, err)
	obs := &recordingObserver{}
	v.Subscribe(obs)
	v.Subscribe(obs)

	v.CompleteRoute()

	assert.Len(t, obs.events, 1, "duplicate subscription must not duplicate notifications")
}

func TestObserversNotifiedInRegistrationOrder(t *testing.T) {
	v, err := NewVehicle("av-1", 70, StatusActive, PriorityMedium)
	require.NoError(t, err)
	var order []string
	v.Subscribe(&orderObserver{name: "first", order: &order})
	v.Subscribe(&orderObserver{name: "second", order: &order})

	v.DetectObstacle()

	assert.Equal(t, []string{"first", "second"}, order)
}

type orderObserver struct {
	name  string
	order *[]string
}

func (o *orderObserver) HandleVehicleEvent(Event) { *o.order = append(*o.order, o.name) }

func TestParseStatusAndPriority(t *testing.T) {
	s, err := ParseStatus(" idle ")
	require.NoError(t, err)
	assert.Equal(t, StatusIdle, s)
	_, err = ParseStatus("cruising")
	assert.Error(t, err)

	p, err := ParsePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)
	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}
