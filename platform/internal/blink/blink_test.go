package blink

import (
	"testing"

	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
)

// fakes for the compare timer and the indicator pin

type fakeTimer struct {
	top   uint32
	count uint32
}

func (t *fakeTimer) SetTop(top uint32) { t.top = top }
func (t *fakeTimer) Count() uint32     { return t.count }
func (t *fakeTimer) Enable() error     { return nil }

type fakeLed struct {
	level bool
}

func (p *fakeLed) ConfigureOutput(initial bool) error { p.level = initial; return nil }
func (p *fakeLed) ConfigureInput(pull hw.Pull) error  { return nil }
func (p *fakeLed) Set(level bool)                     { p.level = level }
func (p *fakeLed) Get() bool                          { return p.level }
func (p *fakeLed) Toggle()                            { p.level = !p.level }

var (
	_ hw.CompareTimer = (*fakeTimer)(nil)
	_ hw.GpioPin      = (*fakeLed)(nil)
)

func newTestSequencer() (*Sequencer, *fakeTimer, *fakeLed) {
	tmr := &fakeTimer{}
	led := &fakeLed{}
	return NewSequencer(tmr, led, DefaultTable), tmr, led
}

func TestSequencer_SlowDutyWindow(t *testing.T) {
	s, tmr, led := newTestSequencer()
	s.SetMode(Slow)

	// Slow: period 23438, duty 0.9, threshold 21094.
	tmr.count = 20000
	s.Refresh()
	if led.Get() {
		t.Fatal("count 20000 must be inactive for slow")
	}
	if tmr.top != 23438 {
		t.Fatalf("timer top = %d, want 23438", tmr.top)
	}

	tmr.count = 22000
	s.Refresh()
	if !led.Get() {
		t.Fatal("count 22000 must be active for slow")
	}
}

func TestSequencer_ThresholdBoundaryIsInactive(t *testing.T) {
	s, tmr, led := newTestSequencer()
	s.SetMode(Fast)

	// Fast: period 7032, duty 0.5, threshold 3516. A count equal to
	// the threshold stays inactive; only strictly greater activates.
	tmr.count = 3516
	s.Refresh()
	if led.Get() {
		t.Fatal("count == threshold must be inactive")
	}
	tmr.count = 3517
	s.Refresh()
	if !led.Get() {
		t.Fatal("count just past threshold must be active")
	}
}

func TestSequencer_DegenerateModes(t *testing.T) {
	s, tmr, led := newTestSequencer()

	tmr.count = 12345
	s.SetMode(On)
	s.Refresh()
	if !led.Get() {
		t.Fatal("On must force the indicator active")
	}

	s.SetMode(Off)
	s.Refresh()
	if led.Get() {
		t.Fatal("Off must force the indicator inactive")
	}
}

func TestSequencer_SetModeIsImmediate(t *testing.T) {
	s, _, _ := newTestSequencer()
	s.SetMode(Medium)
	if s.Mode() != Medium {
		t.Fatalf("Mode = %v, want Medium", s.Mode())
	}
	s.SetMode(Off)
	if s.Mode() != Off {
		t.Fatalf("Mode = %v, want Off", s.Mode())
	}
}

func TestSequencer_TimedModeWithoutEntryStaysInactive(t *testing.T) {
	tmr := &fakeTimer{count: 999999}
	led := &fakeLed{level: true}
	s := NewSequencer(tmr, led, Table{}) // empty table
	s.SetMode(Medium)
	s.Refresh()
	if led.Get() {
		t.Fatal("timed mode with no table entry must be inactive")
	}
}

func TestParseMode_RoundTrip(t *testing.T) {
	for _, m := range []Mode{Off, Slow, Medium, Fast, On} {
		got, ok := ParseMode(m.String())
		if !ok || got != m {
			t.Fatalf("ParseMode(%q) = %v, %v", m.String(), got, ok)
		}
	}
	if _, ok := ParseMode("strobe"); ok {
		t.Fatal("ParseMode must reject unknown names")
	}
}
