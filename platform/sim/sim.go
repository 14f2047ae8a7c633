// platform/sim/sim.go

// Package sim provides a software-simulated evaluation board for
// host-side tests and demos. Every capability interface in hw has a
// fake here with test hooks to drive it: counters can be set or
// advanced, the edge source fires its handler ISR-style, the serial
// engine records transmissions and lets tests script receptions.
package sim

import (
	"sync"

	"github.com/Lolfaceftw/eee158-module-06/errcode"
	"github.com/Lolfaceftw/eee158-module-06/platform/hw"
)

// ----------------------------- Counter ---------------------------------------

// Counter implements hw.FreeRunningCounter with a test-settable value.
type Counter struct {
	mu       sync.Mutex
	value    uint32
	span     uint32
	freqHz   uint32
	notReady int
}

func NewCounter(span, freqHz uint32) *Counter {
	return &Counter{span: span, freqHz: freqHz}
}

// FailEnable makes the next n Enable calls report not-ready.
func (c *Counter) FailEnable(n int) {
	c.mu.Lock()
	c.notReady = n
	c.mu.Unlock()
}

func (c *Counter) Set(v uint32) {
	c.mu.Lock()
	c.value = v % c.span
	c.mu.Unlock()
}

// Advance moves the counter forward by n counts, wrapping at the span.
func (c *Counter) Advance(n uint32) {
	c.mu.Lock()
	c.value = (c.value + n) % c.span
	c.mu.Unlock()
}

func (c *Counter) Count() uint32 {
	c.mu.Lock()
	v := c.value
	c.mu.Unlock()
	return v
}

func (c *Counter) Span() uint32        { return c.span }
func (c *Counter) FrequencyHz() uint32 { return c.freqHz }

func (c *Counter) Enable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notReady > 0 {
		c.notReady--
		return errcode.HardwareNotReady
	}
	return nil
}

// --------------------------- Compare timer -----------------------------------

// CompareTimer implements hw.CompareTimer with a test-settable count.
type CompareTimer struct {
	mu       sync.Mutex
	top      uint32
	count    uint32
	notReady int
}

func NewCompareTimer() *CompareTimer { return &CompareTimer{} }

func (t *CompareTimer) FailEnable(n int) {
	t.mu.Lock()
	t.notReady = n
	t.mu.Unlock()
}

func (t *CompareTimer) SetTop(top uint32) {
	t.mu.Lock()
	t.top = top
	t.mu.Unlock()
}

func (t *CompareTimer) Top() uint32 {
	t.mu.Lock()
	v := t.top
	t.mu.Unlock()
	return v
}

// SetCount is a test hook for the live counter value.
func (t *CompareTimer) SetCount(v uint32) {
	t.mu.Lock()
	t.count = v
	t.mu.Unlock()
}

func (t *CompareTimer) Count() uint32 {
	t.mu.Lock()
	v := t.count
	t.mu.Unlock()
	return v
}

func (t *CompareTimer) Enable() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.notReady > 0 {
		t.notReady--
		return errcode.HardwareNotReady
	}
	return nil
}

// ------------------------------- Pin -----------------------------------------

// Pin implements hw.GpioPin and records the last configured mode.
type Pin struct {
	mu      sync.RWMutex
	level   bool
	modeOut bool
	pull    hw.Pull
}

func NewPin() *Pin { return &Pin{} }

func (p *Pin) ConfigureOutput(initial bool) error {
	p.mu.Lock()
	p.modeOut = true
	p.level = initial
	p.mu.Unlock()
	return nil
}

func (p *Pin) ConfigureInput(pull hw.Pull) error {
	p.mu.Lock()
	p.modeOut = false
	p.pull = pull
	p.mu.Unlock()
	return nil
}

func (p *Pin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *Pin) Get() bool {
	p.mu.RLock()
	v := p.level
	p.mu.RUnlock()
	return v
}

func (p *Pin) Toggle() { p.Set(!p.Get()) }

func (p *Pin) IsOutput() bool {
	p.mu.RLock()
	v := p.modeOut
	p.mu.RUnlock()
	return v
}

// ---------------------------- Edge source ------------------------------------

// EdgeSource implements hw.EdgeInterruptSource. SetLevel drives the
// line; a level change while attached invokes the handler synchronously
// in the caller's goroutine, standing in for the ISR.
type EdgeSource struct {
	mu       sync.Mutex
	level    bool
	handler  func()
	enabled  bool
	deb      hw.DebounceConfig
	notReady int
}

func NewEdgeSource(initial bool) *EdgeSource { return &EdgeSource{level: initial} }

func (e *EdgeSource) FailEnable(n int) {
	e.mu.Lock()
	e.notReady = n
	e.mu.Unlock()
}

func (e *EdgeSource) ConfigureDebounce(cfg hw.DebounceConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.enabled {
		return errcode.InvalidParams
	}
	e.deb = cfg
	return nil
}

func (e *EdgeSource) Debounce() hw.DebounceConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.deb
}

func (e *EdgeSource) Enable() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.notReady > 0 {
		e.notReady--
		return errcode.HardwareNotReady
	}
	e.enabled = true
	return nil
}

func (e *EdgeSource) Attach(handler func()) error {
	e.mu.Lock()
	e.handler = handler
	e.mu.Unlock()
	return nil
}

func (e *EdgeSource) Detach() {
	e.mu.Lock()
	e.handler = nil
	e.mu.Unlock()
}

func (e *EdgeSource) PinState() bool {
	e.mu.Lock()
	v := e.level
	e.mu.Unlock()
	return v
}

// SetLevel drives the debounced line level. An actual change fires the
// attached handler, ISR-style.
func (e *EdgeSource) SetLevel(level bool) {
	e.mu.Lock()
	changed := e.level != level
	e.level = level
	h := e.handler
	enabled := e.enabled
	e.mu.Unlock()
	if changed && enabled && h != nil {
		h()
	}
}

// ------------------------------- Board ---------------------------------------

// Board aggregates one of each simulated peripheral.
type Board struct {
	Counter *Counter
	HR      *Counter
	Timer   *CompareTimer
	Led     *Pin
	Button  *EdgeSource
	Serial  *SerialEngine
	AuxOut  *Pin
	AuxIn   *Pin
}

// NewBoard builds a board with the original evaluation board's timing:
// a 200 Hz tick counter (5 ms tick period) and a microsecond-class HR
// counter. The button line idles high (active-low switch).
func NewBoard() *Board {
	return &Board{
		Counter: NewCounter(1<<24, 200),
		HR:      NewCounter(1<<24, 1_000_000),
		Timer:   NewCompareTimer(),
		Led:     NewPin(),
		Button:  NewEdgeSource(true),
		Serial:  NewSerialEngine(),
		AuxOut:  NewPin(),
		AuxIn:   NewPin(),
	}
}

// HW exposes the board through the capability interfaces.
func (b *Board) HW() hw.Board {
	return hw.Board{
		Counter:    b.Counter,
		HRCounter:  b.HR,
		BlinkTimer: b.Timer,
		Led:        b.Led,
		Button:     b.Button,
		Serial:     b.Serial,
		AuxOut:     b.AuxOut,
		AuxIn:      b.AuxIn,
	}
}
