//go:build rp2040

package main

import (
	"machine"
	"time"

	"github.com/Lolfaceftw/eee158-module-06/errcode"
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
)

// machinePin adapts a machine.Pin to hw.GpioPin.
type machinePin struct {
	p machine.Pin
}

func (m *machinePin) ConfigureOutput(initial bool) error {
	m.p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	m.p.Set(initial)
	return nil
}

func (m *machinePin) ConfigureInput(pull hw.Pull) error {
	mode := machine.PinInput
	switch pull {
	case hw.PullUp:
		mode = machine.PinInputPullup
	case hw.PullDown:
		mode = machine.PinInputPulldown
	}
	m.p.Configure(machine.PinConfig{Mode: mode})
	return nil
}

func (m *machinePin) Set(level bool) { m.p.Set(level) }
func (m *machinePin) Get() bool      { return m.p.Get() }
func (m *machinePin) Toggle()        { m.p.Set(!m.p.Get()) }

// machineEdge adapts a GPIO interrupt to hw.EdgeInterruptSource. The
// RP2040 has no hardware debouncer; a minimum spacing between accepted
// edges stands in for it.
type machineEdge struct {
	p       machine.Pin
	pull    hw.Pull
	handler func()

	minGap  time.Duration
	lastAt  time.Time
	enabled bool
}

func newMachineEdge(p machine.Pin, pull hw.Pull) *machineEdge {
	return &machineEdge{p: p, pull: pull}
}

func (e *machineEdge) ConfigureDebounce(cfg hw.DebounceConfig) error {
	if e.enabled {
		return errcode.PreconditionViolated
	}
	if cfg.PrescalerHz > 0 && cfg.Samples > 0 {
		// Samples agreeing readings at the prescaler rate translate to
		// a dead time between accepted edges.
		e.minGap = time.Duration(cfg.Samples) * time.Second / time.Duration(cfg.PrescalerHz)
	}
	return nil
}

func (e *machineEdge) Enable() error {
	mode := machine.PinInput
	switch e.pull {
	case hw.PullUp:
		mode = machine.PinInputPullup
	case hw.PullDown:
		mode = machine.PinInputPulldown
	}
	e.p.Configure(machine.PinConfig{Mode: mode})
	if err := e.p.SetInterrupt(machine.PinToggle, e.onEdge); err != nil {
		return err
	}
	e.enabled = true
	return nil
}

func (e *machineEdge) onEdge(machine.Pin) {
	if e.minGap > 0 {
		now := time.Now()
		if now.Sub(e.lastAt) < e.minGap {
			return
		}
		e.lastAt = now
	}
	if h := e.handler; h != nil {
		h()
	}
}

func (e *machineEdge) Attach(handler func()) error {
	e.handler = handler
	return nil
}

func (e *machineEdge) Detach() { e.handler = nil }

func (e *machineEdge) PinState() bool { return e.p.Get() }
