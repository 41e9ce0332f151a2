// Package shell implements the interactive console driving the simulation
// core. It parses user input, invokes the registry and mission control, and
// formats results; no domain logic lives here.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/avfleet/core/fleet"
	"github.com/kilianp07/avfleet/core/mission"
	"github.com/kilianp07/avfleet/core/model"
	"github.com/kilianp07/avfleet/infra/logger"
)

// forcedLowBattery is the level applied when the operator forces a
// low-battery incident.
const forcedLowBattery = 5

// Shell is the menu-driven console. It reads commands from in and writes
// results to out, so it can run on stdio or on scripted buffers in tests.
type Shell struct {
	reg *fleet.Registry
	mc  *mission.Control
	log logger.Logger
	in  *bufio.Scanner
	out io.Writer
}

// New creates a Shell bound to the given registry and mission control.
func New(reg *fleet.Registry, mc *mission.Control, log logger.Logger, in io.Reader, out io.Writer) *Shell {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Shell{reg: reg, mc: mc, log: log, in: bufio.NewScanner(in), out: out}
}

// Run loops over the menu until the operator exits or input ends.
func (s *Shell) Run() error {
	for {
		s.printMenu()
		choice, ok := s.readLine("> ")
		if !ok {
			return nil
		}
		switch strings.TrimSpace(choice) {
		case "1":
			s.addVehicle()
		case "2":
			s.updateVehicle()
		case "3":
			s.removeVehicle()
		case "4":
			s.listVehicles()
		case "5":
			s.showLog()
		case "6":
			s.forceLowBattery()
		case "7":
			s.triggerEvent()
		case "8":
			s.showStatistics()
		case "9":
			fmt.Fprintln(s.out, "bye")
			return nil
		default:
			fmt.Fprintln(s.out, "unknown option")
		}
	}
}

func (s *Shell) printMenu() {
	fmt.Fprint(s.out, `
--- AV Fleet Console ---
1) Add vehicle
2) Update vehicle
3) Remove vehicle
4) List vehicles
5) Vehicle log
6) Force low-battery incident
7) Trigger event
8) Fleet statistics
9) Exit
`)
}

func (s *Shell) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return s.in.Text(), true
}

// readVehicleFields reads battery, status and priority, reporting parse
// errors itself. Parse errors are shell-level; they never reach the core.
func (s *Shell) readVehicleFields() (battery int, status model.Status, priority model.Priority, ok bool) {
	raw, ok := s.readLine("battery (0-100): ")
	if !ok {
		return 0, 0, 0, false
	}
	battery, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fmt.Fprintf(s.out, "not a number: %s\n", raw)
		return 0, 0, 0, false
	}
	raw, ok = s.readLine("status (Active/Idle/Failed): ")
	if !ok {
		return 0, 0, 0, false
	}
	status, err = model.ParseStatus(raw)
	if err != nil {
		fmt.Fprintf(s.out, "%v\n", err)
		return 0, 0, 0, false
	}
	raw, ok = s.readLine("priority (High/Medium/Low): ")
	if !ok {
		return 0, 0, 0, false
	}
	priority, err = model.ParsePriority(raw)
	if err != nil {
		fmt.Fprintf(s.out, "%v\n", err)
		return 0, 0, 0, false
	}
	return battery, status, priority, true
}

func (s *Shell) addVehicle() {
	id, ok := s.readLine("id: ")
	if !ok {
		return
	}
	battery, status, priority, ok := s.readVehicleFields()
	if !ok {
		return
	}
	v, err := model.NewVehicle(strings.TrimSpace(id), battery, status, priority)
	if err != nil {
		s.report(err)
		return
	}
	if s.mc != nil {
		s.mc.Watch(v)
	}
	if err := s.reg.Add(v); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "vehicle %s added\n", v.ID())
}

func (s *Shell) updateVehicle() {
	id, ok := s.readLine("id: ")
	if !ok {
		return
	}
	battery, status, priority, ok := s.readVehicleFields()
	if !ok {
		return
	}
	if err := s.reg.Update(strings.TrimSpace(id), battery, status, priority); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "vehicle %s updated\n", strings.TrimSpace(id))
}

func (s *Shell) removeVehicle() {
	id, ok := s.readLine("id: ")
	if !ok {
		return
	}
	if err := s.reg.Remove(strings.TrimSpace(id)); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "vehicle %s removed\n", strings.TrimSpace(id))
}

func (s *Shell) listVehicles() {
	snap := s.reg.Snapshot()
	if len(snap) == 0 {
		fmt.Fprintln(s.out, "fleet is empty")
		return
	}
	fmt.Fprintf(s.out, "%-12s %8s %-8s %-8s\n", "ID", "BATTERY", "STATUS", "PRIORITY")
	for _, v := range snap {
		fmt.Fprintf(s.out, "%-12s %7d%% %-8s %-8s\n", v.ID, v.Battery, v.Status, v.Priority)
	}
}

func (s *Shell) showLog() {
	id, ok := s.readLine("id: ")
	if !ok {
		return
	}
	entries, err := s.reg.LogOf(strings.TrimSpace(id))
	if err != nil {
		s.report(err)
		return
	}
	for _, e := range entries {
		fmt.Fprintf(s.out, "%s  %s\n", e.Time.Format(time.RFC3339), e.Message)
	}
}

func (s *Shell) forceLowBattery() {
	id, ok := s.readLine("id: ")
	if !ok {
		return
	}
	if err := s.reg.SetBattery(strings.TrimSpace(id), forcedLowBattery); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "battery forced to %d%%\n", forcedLowBattery)
}

func (s *Shell) triggerEvent() {
	id, ok := s.readLine("id: ")
	if !ok {
		return
	}
	choice, ok := s.readLine("event (1=route completed, 2=obstacle, 3=restricted zone): ")
	if !ok {
		return
	}
	var kind model.EventKind
	switch strings.TrimSpace(choice) {
	case "1":
		kind = model.EventRouteCompleted
	case "2":
		kind = model.EventObstacleDetected
	case "3":
		kind = model.EventRestrictedZone
	default:
		fmt.Fprintln(s.out, "unknown event")
		return
	}
	if err := s.reg.TriggerEvent(strings.TrimSpace(id), kind); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "event %s triggered\n", kind)
}

func (s *Shell) showStatistics() {
	stats := s.reg.Statistics()
	fmt.Fprintf(s.out, "Total: %d\nActive: %d\nAverage battery: %.2f%%\n", stats.Total, stats.Active, stats.AvgBattery)
}

// report prints core errors in operator-friendly form.
func (s *Shell) report(err error) {
	var verr *model.ValidationError
	var dup *fleet.DuplicateIDError
	switch {
	case errors.Is(err, fleet.ErrNotFound):
		fmt.Fprintln(s.out, "vehicle not found")
	case errors.As(err, &verr):
		fmt.Fprintf(s.out, "validation failed: %v\n", verr)
	case errors.As(err, &dup):
		fmt.Fprintf(s.out, "%v\n", dup)
	default:
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}
