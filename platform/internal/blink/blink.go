// platform/internal/blink/blink.go

// Package blink drives the indicator LED from a free-running compare
// timer. The sequencer is level-driven: each Refresh reads the live
// count and recomputes the output, so missed polls only delay the
// visual update, they never lose state.
package blink

import (
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
)

// Mode is the commanded blink state.
type Mode uint8

const (
	Off Mode = iota
	Slow
	Medium
	Fast
	On

	numModes = int(On) + 1
)

func (m Mode) String() string {
	switch m {
	case Off:
		return "off"
	case Slow:
		return "slow"
	case Medium:
		return "medium"
	case Fast:
		return "fast"
	case On:
		return "on"
	}
	return "unknown"
}

// ParseMode maps a mode name back to its Mode. ok is false for names
// that are not modes.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "off":
		return Off, true
	case "slow":
		return Slow, true
	case "medium":
		return Medium, true
	case "fast":
		return Fast, true
	case "on":
		return On, true
	}
	return Off, false
}

// Entry is the timing for one timed mode: a timer period in ticks and
// the fraction of it during which the indicator is active.
type Entry struct {
	PeriodTicks uint32
	Duty        float64
}

// Table maps each timed mode to its timing. Off and On are degenerate
// and carry no entry.
type Table map[Mode]Entry

// DefaultTable holds the evaluation board's blink rates.
var DefaultTable = Table{
	Slow:   {PeriodTicks: 23438, Duty: 0.9},
	Medium: {PeriodTicks: 11719, Duty: 0.8},
	Fast:   {PeriodTicks: 7032, Duty: 0.5},
}

type step struct {
	period    uint32
	threshold uint32
	timed     bool
}

// Sequencer owns the indicator pin and its compare timer. All methods
// belong to the main-loop domain; nothing here is touched from
// interrupt context.
type Sequencer struct {
	timer hw.CompareTimer
	led   hw.GpioPin

	steps [numModes]step
	mode  Mode
}

// NewSequencer precomputes integer duty thresholds from the table so
// Refresh never multiplies floats on the poll path.
func NewSequencer(timer hw.CompareTimer, led hw.GpioPin, table Table) *Sequencer {
	s := &Sequencer{timer: timer, led: led}
	for m, e := range table {
		if int(m) >= numModes || m == Off || m == On {
			continue
		}
		s.steps[m] = step{
			period:    e.PeriodTicks,
			threshold: uint32(float64(e.PeriodTicks) * e.Duty),
			timed:     true,
		}
	}
	return s
}

// SetMode is an immediate, unconditional assignment. The output level
// changes on the next Refresh.
func (s *Sequencer) SetMode(m Mode) {
	if int(m) < numModes {
		s.mode = m
	}
}

func (s *Sequencer) Mode() Mode { return s.mode }

// Refresh recomputes the indicator output. For timed modes the timer
// top is programmed with the mode period and the output is active iff
// the live count is strictly greater than the duty threshold; a count
// equal to the threshold is inactive.
func (s *Sequencer) Refresh() {
	switch s.mode {
	case Off:
		s.led.Set(false)
	case On:
		s.led.Set(true)
	default:
		st := s.steps[s.mode]
		if !st.timed {
			s.led.Set(false)
			return
		}
		s.timer.SetTop(st.period)
		s.led.Set(s.timer.Count() > st.threshold)
	}
}
