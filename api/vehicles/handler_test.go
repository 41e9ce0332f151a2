package vehicles

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/avfleet/core/fleet"
	"github.com/kilianp07/avfleet/core/model"
)

func seedRegistry(t *testing.T) *fleet.Registry {
	t.Helper()
	reg := fleet.NewRegistry()
	v1, err := model.NewVehicle("av-1", 40, model.StatusActive, model.PriorityHigh)
	require.NoError(t, err)
	v2, err := model.NewVehicle("av-2", 60, model.StatusIdle, model.PriorityLow)
	require.NoError(t, err)
	require.NoError(t, reg.Add(v1))
	require.NoError(t, reg.Add(v2))
	return reg
}

func TestListVehicles(t *testing.T) {
	h := NewHandler(seedRegistry(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []fleet.VehicleInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "av-1", got[0].ID)
	assert.Equal(t, "High", got[0].Priority)
	assert.Equal(t, "av-2", got[1].ID)
}

func TestVehicleLog(t *testing.T) {
	h := NewHandler(seedRegistry(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles/log?id=av-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []logEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotEmpty(t, got)
	assert.Equal(t, "vehicle created", got[0].Message)
}

func TestVehicleLogNotFound(t *testing.T) {
	h := NewHandler(seedRegistry(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles/log?id=ghost", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVehicleLogMissingID(t *testing.T) {
	h := NewHandler(seedRegistry(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles/log", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFleetStats(t *testing.T) {
	h := NewHandler(seedRegistry(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fleet/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got fleet.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Active)
	assert.InDelta(t, 50.0, got.AvgBattery, 1e-9)
}

func TestMethodNotAllowed(t *testing.T) {
	h := NewHandler(seedRegistry(t))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/vehicles", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
