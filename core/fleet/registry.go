// Package fleet owns the collection of vehicles managed by the simulation.
package fleet

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/avfleet/core/model"
)

// ErrNotFound is returned when an operation references an unknown vehicle id.
var ErrNotFound = errors.New("vehicle not found")

// DuplicateIDError is returned by Add when the id is already registered.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("vehicle %s already registered", e.ID)
}

// Stats summarizes the fleet.
type Stats struct {
	Total      int     `json:"total"`
	Active     int     `json:"active"`
	AvgBattery float64 `json:"avg_battery"`
}

// VehicleInfo is a point-in-time copy of a vehicle's queryable state, safe to
// hand to presentation layers without holding the registry lock.
type VehicleInfo struct {
	ID       string `json:"id"`
	Battery  int    `json:"battery"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// Registry indexes vehicles by id and preserves insertion order for listing.
// The registry exclusively owns its vehicles; all mutations go through it.
// An RWMutex guards the collection so the registry can back the HTTP API
// while the console drives mutations.
type Registry struct {
	mu       sync.RWMutex
	vehicles map[string]*model.Vehicle
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{vehicles: make(map[string]*model.Vehicle)}
}

// Add registers a vehicle. Duplicate ids are rejected with DuplicateIDError.
func (r *Registry) Add(v *model.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[v.ID()]; ok {
		return &DuplicateIDError{ID: v.ID()}
	}
	r.vehicles[v.ID()] = v
	r.order = append(r.order, v.ID())
	return nil
}

// Remove deletes the vehicle with the given id, or returns ErrNotFound.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[id]; !ok {
		return ErrNotFound
	}
	delete(r.vehicles, id)
	for i, cur := range r.order {
		if cur == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the registry-owned vehicle for id. Callers outside the
// single-threaded console must not mutate the result directly.
func (r *Registry) Get(id string) (*model.Vehicle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	return v, ok
}

// Update overwrites battery, status and priority of the vehicle with the
// given id. The battery update is applied first and may run the incident
// path; a battery validation failure leaves the vehicle untouched. Status and
// priority are overwritten unconditionally afterwards, including transitions
// out of Failed.
func (r *Registry) Update(id string, battery int, status model.Status, priority model.Priority) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	if err := v.UpdateBattery(battery); err != nil {
		return err
	}
	v.SetStatus(status)
	v.SetPriority(priority)
	v.AppendLog("vehicle updated")
	return nil
}

// SetBattery overwrites only the battery level, running the incident path
// when the new level is critical.
func (r *Registry) SetBattery(id string, level int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	return v.UpdateBattery(level)
}

// Navigate forwards a navigation attempt to the vehicle.
func (r *Registry) Navigate(id, route string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	v.Navigate(route)
	return nil
}

// TriggerEvent raises one of the notifiable events on the vehicle.
func (r *Registry) TriggerEvent(id string, kind model.EventKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return ErrNotFound
	}
	switch kind {
	case model.EventRouteCompleted:
		v.CompleteRoute()
	case model.EventObstacleDetected:
		v.DetectObstacle()
	case model.EventRestrictedZone:
		v.EnterRestrictedZone()
	default:
		return fmt.Errorf("event %s cannot be triggered directly", kind)
	}
	return nil
}

// Snapshot returns value copies of every vehicle's queryable state in
// insertion order.
func (r *Registry) Snapshot() []VehicleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]VehicleInfo, 0, len(r.order))
	for _, id := range r.order {
		v := r.vehicles[id]
		out = append(out, VehicleInfo{
			ID:       v.ID(),
			Battery:  v.Battery(),
			Status:   v.Status().String(),
			Priority: v.Priority().String(),
		})
	}
	return out
}

// LogOf returns a copy of the vehicle's log, or ErrNotFound.
func (r *Registry) LogOf(id string) ([]model.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v.Log(), nil
}

// FilterByStatus returns the vehicles with the given status in insertion order.
func (r *Registry) FilterByStatus(status model.Status) []*model.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Vehicle
	for _, id := range r.order {
		if v := r.vehicles[id]; v.Status() == status {
			out = append(out, v)
		}
	}
	return out
}

// HighPriority returns the vehicles with PriorityHigh in insertion order.
func (r *Registry) HighPriority() []*model.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Vehicle
	for _, id := range r.order {
		if v := r.vehicles[id]; v.Priority() == model.PriorityHigh {
			out = append(out, v)
		}
	}
	return out
}

// Statistics computes the fleet summary. The average battery of an empty
// fleet is 0.
func (r *Registry) Statistics() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := Stats{Total: len(r.order)}
	if s.Total == 0 {
		return s
	}
	batteries := make([]float64, 0, s.Total)
	for _, id := range r.order {
		v := r.vehicles[id]
		if v.Status() == model.StatusActive {
			s.Active++
		}
		batteries = append(batteries, float64(v.Battery()))
	}
	s.AvgBattery = stat.Mean(batteries, nil)
	return s
}
